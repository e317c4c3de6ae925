// Package safemath provides overflow-checked integer arithmetic.
//
// Every checked operation reports overflow as ErrOverflow. The package never clamps
// results on its own; callers decide whether an overflow saturates or fails.
package safemath

import (
	"errors"
	"math"
	"math/bits"

	"github.com/JohnCGriffin/overflow"
)

// ErrOverflow is returned when the exact result of an operation does not fit
// into the result type.
var ErrOverflow = errors.New("arithmetic overflow")

// Add64 returns a + b.
func Add64(a, b int64) (int64, error) {
	c, ok := overflow.Add64(a, b)
	if !ok {
		return 0, ErrOverflow
	}
	return c, nil
}

// Add32 returns a + b.
func Add32(a, b int32) (int32, error) {
	c, ok := overflow.Add32(a, b)
	if !ok {
		return 0, ErrOverflow
	}
	return c, nil
}

// Mul64 returns a * b.
func Mul64(a, b int64) (int64, error) {
	c, ok := overflow.Mul64(a, b)
	if !ok {
		return 0, ErrOverflow
	}
	return c, nil
}

// Mul32 returns a * b.
func Mul32(a, b int32) (int32, error) {
	c, ok := overflow.Mul32(a, b)
	if !ok {
		return 0, ErrOverflow
	}
	return c, nil
}

// Negate64 returns -a. Negating math.MinInt64 overflows.
func Negate64(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, ErrOverflow
	}
	return -a, nil
}

// Negate32 returns -a. Negating math.MinInt32 overflows.
func Negate32(a int32) (int32, error) {
	if a == math.MinInt32 {
		return 0, ErrOverflow
	}
	return -a, nil
}

// MulAdd64 returns a*mul + add.
func MulAdd64(a, mul, add int64) (int64, error) {
	p, err := Mul64(a, mul)
	if err != nil {
		return 0, err
	}
	return Add64(p, add)
}

// MulDiv64 returns the quotient and remainder of d*n / m, computed exactly
// with a 128-bit intermediate product. The quotient is truncated toward zero
// and the remainder carries the sign of d*n.
func MulDiv64(d, n, m int64) (quot, rem int64, err error) {
	if m == 0 {
		return 0, 0, errors.New("division by zero")
	}
	productNegative := (d < 0) != (n < 0) && d != 0 && n != 0
	quotNegative := productNegative != (m < 0)

	hi, lo := bits.Mul64(abs(d), abs(n))
	um := abs(m)
	if hi >= um {
		// bits.Div64 panics here: the quotient needs more than 64 bits.
		return 0, 0, ErrOverflow
	}
	q, r := bits.Div64(hi, lo, um)

	if quotNegative {
		if q > 1<<63 {
			return 0, 0, ErrOverflow
		}
		quot = -int64(q)
	} else {
		if q > math.MaxInt64 {
			return 0, 0, ErrOverflow
		}
		quot = int64(q)
	}
	rem = int64(r)
	if productNegative {
		rem = -rem
	}
	return quot, rem, nil
}

// MulAddDiv64 returns (d*n + r) / m truncated toward zero, where |r| < n.
// The intermediate value d*n + r may exceed the int64 range; only the final
// quotient has to fit.
func MulAddDiv64(d, n, r, m int64) (int64, error) {
	md, mr := d, r
	// Make md and mr share a sign so that truncations compose.
	if d > 0 && r < 0 {
		md--
		mr += n
	} else if d < 0 && r > 0 {
		md++
		mr -= n
	}
	if md == 0 {
		return mr / m, nil
	}
	rd, rr, err := MulDiv64(md, n, m)
	if err != nil {
		return 0, err
	}
	tail, err := Add64(mr%m, rr)
	if err != nil {
		return 0, err
	}
	q, err := Add64(mr/m, tail/m)
	if err != nil {
		return 0, err
	}
	return Add64(rd, q)
}

// ClampToInt32 saturates v into the int32 range.
func ClampToInt32(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// ToInt32 converts v to int32 or fails with ErrOverflow.
func ToInt32(v int64) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, ErrOverflow
	}
	return int32(v), nil
}

// FloorDiv returns the largest integer less than or equal to a/b.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns a - FloorDiv(a, b)*b, which has the sign of b.
func FloorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// abs returns |x| as uint64; math.MinInt64 maps to 1<<63.
func abs(x int64) uint64 {
	u := uint64(x)
	if x < 0 {
		u = -u
	}
	return u
}
