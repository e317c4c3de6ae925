package period

import (
	"fmt"
	"math"
	"strings"

	"github.com/ngrash/go-datetime/internal/safemath"
)

// parseState tracks which component of a period was parsed last.
// Components must appear in strictly increasing state order.
type parseState int

const (
	stateStart parseState = iota
	stateAfterP
	stateAfterYear
	stateAfterMonth
	stateAfterWeek
	stateAfterDay
	stateAfterT
	stateAfterHour
	stateAfterMinute
	stateAfterSecond
)

const wrongOrder = "wrong component order: should be 'Y', 'M', 'W', 'D', then designator 'T', then 'H', 'M', 'S'"

// Parse parses an ISO-8601 duration such as "P1Y2M3W4DT5H6M7.5S".
//
// The grammar is
//
//	period    := sign? 'P' date-part ('T' time-part)?
//	date-part := (number 'Y')? (number 'M')? (number 'W')? (number 'D')?
//	time-part := (number 'H')? (number 'M')? (number ([.,] fraction)? 'S')?
//	number    := [+-]? digit+
//
// A sign in front of 'P' negates every component; a sign in front of a number
// applies to that component only, and the two multiply. 'M' means months before
// 'T' and minutes after it. Weeks are folded into days. Fractions of a second
// have at most nine digits. Designators are case-insensitive.
//
// Errors are of type *FormatError.
func Parse(text string) (DateTimePeriod, error) {
	p := parser{text: text, sign: 1}
	return p.parse()
}

// ParseDate parses an ISO-8601 duration that has no time component.
// A well-formed text with a non-zero time component fails with ErrInvalidArgument.
func ParseDate(text string) (DatePeriod, error) {
	p, err := Parse(text)
	if err != nil {
		return DatePeriod{}, err
	}
	d, ok := p.DatePeriod()
	if !ok {
		return DatePeriod{}, invalidArgument("period %v (parsed from %q) is not date-based", p, text)
	}
	return d, nil
}

type parser struct {
	text  string
	i     int
	state parseState
	sign  int64

	years, months, weeks, days int32
	hours, minutes             int32
	seconds, nanoseconds       int64
}

func (p *parser) fail(pos int, format string, args ...any) error {
	return &FormatError{Input: p.text, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() (DateTimePeriod, error) {
	text := p.text
	for {
		if p.i >= len(text) {
			return p.finish()
		}

		if p.state == stateStart {
			if err := p.parseStart(); err != nil {
				return DateTimePeriod{}, err
			}
			continue
		}

		localSign := p.sign
		start := p.i
		switch c := text[p.i]; {
		case c == '+' || c == '-':
			if c == '-' {
				localSign = -localSign
			}
			p.i++
			if p.i >= len(text) || !isDigit(text[p.i]) {
				return DateTimePeriod{}, p.fail(p.i, "a number expected after '%c'", c)
			}
		case c == 'T' || c == 't':
			if p.state >= stateAfterT {
				return DateTimePeriod{}, p.fail(p.i, "only one 'T' designator is allowed")
			}
			p.state = stateAfterT
			p.i++
			continue
		case !isDigit(c):
			return DateTimePeriod{}, p.fail(p.i, "expected a number, got '%c'", c)
		}

		var number int64
		for p.i < len(text) && isDigit(text[p.i]) {
			n, err := safemath.MulAdd64(number, 10, int64(text[p.i]-'0'))
			if err != nil {
				return DateTimePeriod{}, p.fail(start, "the number is too large")
			}
			number = n
			p.i++
		}
		number *= localSign

		if p.i >= len(text) {
			return DateTimePeriod{}, p.fail(p.i, "expected a designator after the numerical value")
		}
		if err := p.parseDesignator(number, localSign, start); err != nil {
			return DateTimePeriod{}, err
		}
		p.i++
	}
}

// parseStart consumes the optional outer sign and the 'P' designator.
func (p *parser) parseStart() error {
	text := p.text
	switch c := text[p.i]; c {
	case '+', '-':
		if p.i+1 >= len(text) {
			return p.fail(p.i+1, "unexpected end of input; 'P' designator is required")
		}
		if c == '-' {
			p.sign = -1
		}
		if next := text[p.i+1]; next != 'P' && next != 'p' {
			return p.fail(p.i+1, "expected 'P', got '%c'", next)
		}
		p.i += 2
	case 'P', 'p':
		p.i++
	default:
		return p.fail(p.i, "expected '+', '-' or 'P', got '%c'", c)
	}
	p.state = stateAfterP
	return nil
}

// parseDesignator stores number as the component named by the designator at p.i.
func (p *parser) parseDesignator(number, localSign int64, start int) error {
	toInt32 := func(component byte) (int32, error) {
		v, err := safemath.ToInt32(number)
		if err != nil {
			return 0, p.fail(start, "value %d does not fit into an int32, which is required for component '%c'", number, component)
		}
		return v, nil
	}
	advance := func(to parseState) error {
		if p.state >= to {
			return p.fail(p.i, wrongOrder)
		}
		p.state = to
		return nil
	}
	timeComponent := func(to parseState) error {
		if p.state < stateAfterT {
			return p.fail(p.i, wrongOrder)
		}
		return advance(to)
	}

	var err error
	switch d := upper(p.text[p.i]); d {
	case 'Y':
		if err = advance(stateAfterYear); err == nil {
			p.years, err = toInt32(d)
		}
	case 'M':
		if p.state >= stateAfterT {
			if err = advance(stateAfterMinute); err == nil {
				p.minutes, err = toInt32(d)
			}
		} else {
			if err = advance(stateAfterMonth); err == nil {
				p.months, err = toInt32(d)
			}
		}
	case 'W':
		if err = advance(stateAfterWeek); err == nil {
			p.weeks, err = toInt32(d)
		}
	case 'D':
		if err = advance(stateAfterDay); err == nil {
			p.days, err = toInt32(d)
		}
	case 'H':
		if err = timeComponent(stateAfterHour); err == nil {
			p.hours, err = toInt32(d)
		}
	case 'S':
		if err = timeComponent(stateAfterSecond); err == nil {
			p.seconds = number
		}
	case '.', ',':
		err = p.parseFraction(number, localSign)
	default:
		err = p.fail(p.i, "expected a designator after the numerical value")
	}
	return err
}

// parseFraction parses the digits after the decimal separator at p.i and the
// following 'S' designator, leaving p.i on the designator.
func (p *parser) parseFraction(seconds, localSign int64) error {
	text := p.text
	p.i++
	if p.i >= len(text) {
		return p.fail(p.i, "expected designator 'S' after '%c'", text[p.i-1])
	}
	start := p.i
	for p.i < len(text) && isDigit(text[p.i]) {
		p.i++
	}
	n := p.i - start
	if n == 0 {
		return p.fail(start, "expected digits after the decimal separator")
	}
	if n > 9 {
		return p.fail(start, "only the nanosecond fractions of a second are supported")
	}
	var frac int64
	for _, c := range text[start:p.i] + strings.Repeat("0", 9-n) {
		frac = frac*10 + int64(c-'0')
	}
	if p.i >= len(text) || upper(text[p.i]) != 'S' {
		return p.fail(p.i, "expected the 'S' designator after a fraction")
	}
	if p.state >= stateAfterSecond || p.state < stateAfterT {
		return p.fail(p.i, wrongOrder)
	}
	p.state = stateAfterSecond
	p.seconds = seconds
	p.nanoseconds = frac * localSign
	return nil
}

func (p *parser) finish() (DateTimePeriod, error) {
	switch p.state {
	case stateStart:
		return DateTimePeriod{}, p.fail(p.i, "unexpected end of input; 'P' designator is required")
	case stateAfterT:
		return DateTimePeriod{}, p.fail(p.i, "unexpected end of input; at least one time component is required after 'T'")
	}
	days := int64(p.days) + int64(p.weeks)*7
	if days > math.MaxInt32 || days < math.MinInt32 {
		return DateTimePeriod{}, p.fail(0, "the total number of days under 'D' and 'W' designators should fit into an int32")
	}
	months := int64(p.years)*12 + int64(p.months)
	if months > math.MaxInt32 || months < math.MinInt32 {
		return DateTimePeriod{}, p.fail(0, "the total number of months under 'Y' and 'M' designators should fit into an int32")
	}
	nanos, err := totalNanoseconds(p.hours, p.minutes, p.seconds, p.nanoseconds)
	if err != nil {
		return DateTimePeriod{}, p.fail(0, "the time components overflow 64-bit nanoseconds")
	}
	return FromTotals(int32(months), int32(days), nanos), nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
