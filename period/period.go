// Package period implements calendar units and periods: a displacement
// expressed in months, days and nanoseconds, and its ISO-8601 text form.
//
// A period is not a fixed duration. Adding "P1M" to January 31st and to
// February 1st moves by a different number of days, and adding "P1D" across
// a daylight saving transition moves by 23 or 25 hours. Periods are therefore
// kept as three independent totals and only combined with a date by the
// arithmetic in package datetime.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ngrash/go-datetime/internal/safemath"
)

// Components are the named fields a period can be built from.
// Years and months are combined into a total number of months, and hours,
// minutes, seconds and nanoseconds into a total number of nanoseconds.
// Days are kept apart from both.
type Components struct {
	Years       int32
	Months      int32
	Days        int32
	Hours       int32
	Minutes     int32
	Seconds     int64
	Nanoseconds int64
}

// DateTimePeriod is a difference between two moments expressed in calendar terms.
//
// The zero value is the empty period. DateTimePeriod values are comparable with ==,
// which compares the total months, days and total nanoseconds.
type DateTimePeriod struct {
	totalMonths      int32
	days             int32
	totalNanoseconds int64
}

// DatePeriod is a DateTimePeriod without a time component.
// Every DateTimePeriod whose total nanoseconds are zero converts to a DatePeriod
// with the DatePeriod method.
type DatePeriod struct {
	totalMonths int32
	days        int32
}

// New builds a period from its components.
//
// It returns ErrInvalidArgument if the total number of months does not fit into an
// int32 or the total number of nanoseconds does not fit into an int64.
func New(c Components) (DateTimePeriod, error) {
	months, err := totalMonths(c.Years, c.Months)
	if err != nil {
		return DateTimePeriod{}, err
	}
	nanos, err := totalNanoseconds(c.Hours, c.Minutes, c.Seconds, c.Nanoseconds)
	if err != nil {
		return DateTimePeriod{}, err
	}
	return FromTotals(months, c.Days, nanos), nil
}

// NewDate builds a date-only period.
func NewDate(years, months, days int32) (DatePeriod, error) {
	total, err := totalMonths(years, months)
	if err != nil {
		return DatePeriod{}, err
	}
	return DatePeriod{totalMonths: total, days: days}, nil
}

// FromTotals builds a period from its normalized representation.
func FromTotals(totalMonths, days int32, totalNanoseconds int64) DateTimePeriod {
	return DateTimePeriod{totalMonths: totalMonths, days: days, totalNanoseconds: totalNanoseconds}
}

// DateFromTotals builds a date-only period from its normalized representation.
func DateFromTotals(totalMonths, days int32) DatePeriod {
	return DatePeriod{totalMonths: totalMonths, days: days}
}

// FromDuration returns a period that has only a time component equal to d.
// The result is date-based if and only if d is zero.
func FromDuration(d time.Duration) DateTimePeriod {
	return DateTimePeriod{totalNanoseconds: int64(d)}
}

func totalMonths(years, months int32) (int32, error) {
	total := int64(years)*12 + int64(months)
	t, err := safemath.ToInt32(total)
	if err != nil {
		return 0, invalidArgument("the total number of months in %d years and %d months overflows an int32", years, months)
	}
	return t, nil
}

func totalNanoseconds(hours, minutes int32, seconds, nanoseconds int64) (int64, error) {
	// |totalMinutes| <= 61 * MaxInt32 and |totalMinutes*60| < 2^43, so neither can overflow.
	totalMinutes := int64(hours)*60 + int64(minutes)
	minutesAndNanosAsSeconds := totalMinutes*60 + nanoseconds/nanosPerSecond
	totalSeconds, err := safemath.Add64(minutesAndNanosAsSeconds, seconds)
	if err != nil {
		return 0, nanosecondsOverflow(hours, minutes, seconds, nanoseconds)
	}
	rest := nanoseconds % nanosPerSecond
	if totalSeconds > 0 && rest < 0 {
		totalSeconds--
		rest += nanosPerSecond
	} else if totalSeconds < 0 && rest > 0 {
		totalSeconds++
		rest -= nanosPerSecond
	}
	total, err := safemath.MulAdd64(totalSeconds, nanosPerSecond, rest)
	if err != nil {
		return 0, nanosecondsOverflow(hours, minutes, seconds, nanoseconds)
	}
	return total, nil
}

func nanosecondsOverflow(hours, minutes int32, seconds, nanoseconds int64) error {
	return invalidArgument("the total number of nanoseconds in %d hours, %d minutes, %d seconds and %d nanoseconds overflows an int64",
		hours, minutes, seconds, nanoseconds)
}

// Years returns the number of whole years. It has the sign of the total months.
func (p DateTimePeriod) Years() int { return int(p.totalMonths / 12) }

// Months returns the months not making up a whole year. It has the sign of the total months.
func (p DateTimePeriod) Months() int { return int(p.totalMonths % 12) }

// Days returns the number of days. Days are never normalized into months.
func (p DateTimePeriod) Days() int { return int(p.days) }

// Hours returns the number of whole hours of the time component.
func (p DateTimePeriod) Hours() int { return int(p.totalNanoseconds / nanosPerHour) }

// Minutes returns the minutes not making up a whole hour.
func (p DateTimePeriod) Minutes() int {
	return int(p.totalNanoseconds % nanosPerHour / nanosPerMinute)
}

// Seconds returns the seconds not making up a whole minute.
func (p DateTimePeriod) Seconds() int {
	return int(p.totalNanoseconds % nanosPerMinute / nanosPerSecond)
}

// Nanoseconds returns the nanoseconds not making up a whole second.
func (p DateTimePeriod) Nanoseconds() int { return int(p.totalNanoseconds % nanosPerSecond) }

// TotalMonths returns years*12 + months.
func (p DateTimePeriod) TotalMonths() int32 { return p.totalMonths }

// TotalNanoseconds returns the whole time component in nanoseconds.
func (p DateTimePeriod) TotalNanoseconds() int64 { return p.totalNanoseconds }

// Components returns the normalized components of p.
func (p DateTimePeriod) Components() Components {
	return Components{
		Years:       int32(p.Years()),
		Months:      int32(p.Months()),
		Days:        p.days,
		Hours:       int32(p.Hours()),
		Minutes:     int32(p.Minutes()),
		Seconds:     int64(p.Seconds()),
		Nanoseconds: int64(p.Nanoseconds()),
	}
}

// IsZero reports whether p is the empty period.
func (p DateTimePeriod) IsZero() bool { return p == DateTimePeriod{} }

// IsDateBased reports whether p has no time component.
func (p DateTimePeriod) IsDateBased() bool { return p.totalNanoseconds == 0 }

// DatePeriod returns p as a DatePeriod. ok is false if p has a time component.
func (p DateTimePeriod) DatePeriod() (d DatePeriod, ok bool) {
	if !p.IsDateBased() {
		return DatePeriod{}, false
	}
	return DatePeriod{totalMonths: p.totalMonths, days: p.days}, true
}

// Add returns the component-wise sum of p and q.
func (p DateTimePeriod) Add(q DateTimePeriod) (DateTimePeriod, error) {
	months, err := safemath.Add32(p.totalMonths, q.totalMonths)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("add %v to %v", q, p), Err: err}
	}
	days, err := safemath.Add32(p.days, q.days)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("add %v to %v", q, p), Err: err}
	}
	nanos, err := safemath.Add64(p.totalNanoseconds, q.totalNanoseconds)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("add %v to %v", q, p), Err: err}
	}
	return FromTotals(months, days, nanos), nil
}

// Negate returns the period with every component negated.
// It fails if a component is the minimum value of its type.
func (p DateTimePeriod) Negate() (DateTimePeriod, error) {
	months, err := safemath.Negate32(p.totalMonths)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("negate %v", p), Err: err}
	}
	days, err := safemath.Negate32(p.days)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("negate %v", p), Err: err}
	}
	nanos, err := safemath.Negate64(p.totalNanoseconds)
	if err != nil {
		return DateTimePeriod{}, &ArithmeticError{Op: fmt.Sprintf("negate %v", p), Err: err}
	}
	return FromTotals(months, days, nanos), nil
}

// allNonPositive reports whether p is non-zero and has no positive component.
// Such periods are formatted with a single leading minus sign.
func (p DateTimePeriod) allNonPositive() bool {
	return p.totalMonths <= 0 && p.days <= 0 && p.totalNanoseconds <= 0 && !p.IsZero()
}

// String returns the ISO-8601 representation of p, e.g. "P1Y2M3DT4H5M6.5S".
//
// If all components are non-positive, the sign is factored out: "-P1DT2H".
// Otherwise each component carries its own sign: "P1M-1D". The empty period
// is "P0D". Weeks are never emitted.
func (p DateTimePeriod) String() string {
	var sign int64 = 1
	var b strings.Builder
	if p.allNonPositive() {
		b.WriteByte('-')
		sign = -1
	}
	b.WriteByte('P')
	if y := p.Years(); y != 0 {
		b.WriteString(strconv.FormatInt(int64(y)*sign, 10))
		b.WriteByte('Y')
	}
	if m := p.Months(); m != 0 {
		b.WriteString(strconv.FormatInt(int64(m)*sign, 10))
		b.WriteByte('M')
	}
	if p.days != 0 {
		b.WriteString(strconv.FormatInt(int64(p.days)*sign, 10))
		b.WriteByte('D')
	}
	t := "T"
	if h := p.Hours(); h != 0 {
		b.WriteString(t)
		b.WriteString(strconv.FormatInt(int64(h)*sign, 10))
		b.WriteByte('H')
		t = ""
	}
	if m := p.Minutes(); m != 0 {
		b.WriteString(t)
		b.WriteString(strconv.FormatInt(int64(m)*sign, 10))
		b.WriteByte('M')
		t = ""
	}
	s, ns := p.Seconds(), p.Nanoseconds()
	if s != 0 || ns != 0 {
		b.WriteString(t)
		switch {
		case s != 0:
			b.WriteString(strconv.FormatInt(int64(s)*sign, 10))
		case int64(ns)*sign < 0:
			b.WriteString("-0")
		default:
			b.WriteString("0")
		}
		if ns != 0 {
			if ns < 0 {
				ns = -ns
			}
			b.WriteByte('.')
			frac := strconv.Itoa(ns)
			b.WriteString(strings.Repeat("0", 9-len(frac)))
			b.WriteString(frac)
		}
		b.WriteByte('S')
	}
	if out := b.String(); out == "P" || out == "-P" {
		b.WriteString("0D")
	}
	return b.String()
}

// Years returns the number of whole years. It has the sign of the total months.
func (p DatePeriod) Years() int { return int(p.totalMonths / 12) }

// Months returns the months not making up a whole year.
func (p DatePeriod) Months() int { return int(p.totalMonths % 12) }

// Days returns the number of days.
func (p DatePeriod) Days() int { return int(p.days) }

// TotalMonths returns years*12 + months.
func (p DatePeriod) TotalMonths() int32 { return p.totalMonths }

// IsZero reports whether p is the empty period.
func (p DatePeriod) IsZero() bool { return p == DatePeriod{} }

// DateTimePeriod widens p.
func (p DatePeriod) DateTimePeriod() DateTimePeriod {
	return DateTimePeriod{totalMonths: p.totalMonths, days: p.days}
}

// Add returns the component-wise sum of p and q.
func (p DatePeriod) Add(q DatePeriod) (DatePeriod, error) {
	sum, err := p.DateTimePeriod().Add(q.DateTimePeriod())
	if err != nil {
		return DatePeriod{}, err
	}
	return DateFromTotals(sum.TotalMonths(), int32(sum.Days())), nil
}

// Negate returns the period with every component negated.
func (p DatePeriod) Negate() (DatePeriod, error) {
	n, err := p.DateTimePeriod().Negate()
	if err != nil {
		return DatePeriod{}, err
	}
	return DateFromTotals(n.TotalMonths(), int32(n.Days())), nil
}

// String returns the ISO-8601 representation of p.
func (p DatePeriod) String() string {
	return p.DateTimePeriod().String()
}
