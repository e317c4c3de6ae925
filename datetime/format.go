package datetime

import (
	"encoding"
	"fmt"
	"time"
)

// textParser reads the ISO-8601 forms of dates, times and offsets.
type textParser struct {
	text string
	i    int
}

func (p *textParser) fail(pos int, format string, args ...any) error {
	return &FormatError{Input: p.text, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *textParser) done() bool { return p.i >= len(p.text) }

func (p *textParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.text[p.i]
}

func (p *textParser) expect(c byte) error {
	if p.peek() != c {
		if p.done() {
			return p.fail(p.i, "unexpected end of input, expected '%c'", c)
		}
		return p.fail(p.i, "expected '%c', got '%c'", c, p.text[p.i])
	}
	p.i++
	return nil
}

func (p *textParser) end() error {
	if !p.done() {
		return p.fail(p.i, "unexpected trailing text %q", p.text[p.i:])
	}
	return nil
}

// digits reads between min and max decimal digits.
func (p *textParser) digits(min, max int, what string) (int64, error) {
	start := p.i
	var v int64
	for p.i < len(p.text) && p.i-start < max && isDigit(p.text[p.i]) {
		v = v*10 + int64(p.text[p.i]-'0')
		p.i++
	}
	if n := p.i - start; n < min {
		if min == max {
			return 0, p.fail(start, "expected %d digits for the %s", min, what)
		}
		return 0, p.fail(start, "expected at least %d digits for the %s", min, what)
	}
	return v, nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (p *textParser) date() (LocalDate, error) {
	start := p.i
	var sign int64 = 1
	signed := false
	switch p.peek() {
	case '+':
		signed = true
		p.i++
	case '-':
		signed, sign = true, -1
		p.i++
	}
	yearStart := p.i
	year, err := p.digits(4, 9, "year")
	if err != nil {
		return LocalDate{}, err
	}
	if p.i-yearStart > 4 && !signed {
		return LocalDate{}, p.fail(yearStart, "a year with more than four digits needs a sign")
	}
	if err := p.expect('-'); err != nil {
		return LocalDate{}, err
	}
	month, err := p.digits(2, 2, "month")
	if err != nil {
		return LocalDate{}, err
	}
	if err := p.expect('-'); err != nil {
		return LocalDate{}, err
	}
	day, err := p.digits(2, 2, "day")
	if err != nil {
		return LocalDate{}, err
	}
	d, err := NewLocalDate(int(sign*year), time.Month(month), int(day))
	if err != nil {
		return LocalDate{}, p.fail(start, "%v", err)
	}
	return d, nil
}

func (p *textParser) clock() (LocalTime, error) {
	start := p.i
	hour, err := p.digits(2, 2, "hour")
	if err != nil {
		return LocalTime{}, err
	}
	if err := p.expect(':'); err != nil {
		return LocalTime{}, err
	}
	minute, err := p.digits(2, 2, "minute")
	if err != nil {
		return LocalTime{}, err
	}
	var second, nano int64
	if p.peek() == ':' {
		p.i++
		if second, err = p.digits(2, 2, "second"); err != nil {
			return LocalTime{}, err
		}
		if c := p.peek(); c == '.' || c == ',' {
			p.i++
			fracStart := p.i
			if nano, err = p.digits(1, 9, "fraction of a second"); err != nil {
				return LocalTime{}, err
			}
			for n := p.i - fracStart; n < 9; n++ {
				nano *= 10
			}
			if isDigit(p.peek()) {
				return LocalTime{}, p.fail(p.i, "at most nine digits of a fraction of a second are supported")
			}
		}
	}
	t, err := NewLocalTime(int(hour), int(minute), int(second), int(nano))
	if err != nil {
		return LocalTime{}, p.fail(start, "%v", err)
	}
	return t, nil
}

func (p *textParser) dateTime() (LocalDateTime, error) {
	d, err := p.date()
	if err != nil {
		return LocalDateTime{}, err
	}
	if c := p.peek(); c != 'T' && c != 't' {
		return LocalDateTime{}, p.fail(p.i, "expected 'T' between date and time")
	}
	p.i++
	t, err := p.clock()
	if err != nil {
		return LocalDateTime{}, err
	}
	return d.AtTime(t), nil
}

func (p *textParser) offset() (UtcOffset, error) {
	start := p.i
	var sign int64
	switch p.peek() {
	case 'Z', 'z':
		p.i++
		return UTCOffset, nil
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		if p.done() {
			return UtcOffset{}, p.fail(p.i, "unexpected end of input, expected an offset")
		}
		return UtcOffset{}, p.fail(p.i, "expected 'Z', '+' or '-', got '%c'", p.text[p.i])
	}
	p.i++
	hours, err := p.digits(2, 2, "offset hours")
	if err != nil {
		return UtcOffset{}, err
	}
	var minutes, seconds int64
	if p.peek() == ':' {
		p.i++
		if minutes, err = p.digits(2, 2, "offset minutes"); err != nil {
			return UtcOffset{}, err
		}
		if p.peek() == ':' {
			p.i++
			if seconds, err = p.digits(2, 2, "offset seconds"); err != nil {
				return UtcOffset{}, err
			}
		}
	}
	o, err := NewUtcOffset(int(sign*hours), int(sign*minutes), int(sign*seconds))
	if err != nil {
		return UtcOffset{}, p.fail(start, "%v", err)
	}
	return o, nil
}

// ParseLocalDate parses "2024-01-31". Years outside 0000..9999 carry a sign,
// e.g. "+12345-01-31" or "-0001-01-01".
func ParseLocalDate(s string) (LocalDate, error) {
	p := textParser{text: s}
	d, err := p.date()
	if err == nil {
		err = p.end()
	}
	return d, err
}

// ParseLocalTime parses "10:15", "10:15:30" or "10:15:30.123456789".
func ParseLocalTime(s string) (LocalTime, error) {
	p := textParser{text: s}
	t, err := p.clock()
	if err == nil {
		err = p.end()
	}
	return t, err
}

// ParseLocalDateTime parses a date and a time separated by 'T'.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	p := textParser{text: s}
	dt, err := p.dateTime()
	if err == nil {
		err = p.end()
	}
	return dt, err
}

// ParseUtcOffset parses "Z", "+02", "+02:00" or "-03:30:15".
func ParseUtcOffset(s string) (UtcOffset, error) {
	p := textParser{text: s}
	o, err := p.offset()
	if err == nil {
		err = p.end()
	}
	return o, err
}

// ParseInstant parses a date-time with an offset, e.g. "2024-01-31T10:15:30+01:00".
func ParseInstant(s string) (Instant, error) {
	p := textParser{text: s}
	dt, err := p.dateTime()
	if err != nil {
		return Instant{}, err
	}
	o, err := p.offset()
	if err != nil {
		return Instant{}, err
	}
	if err := p.end(); err != nil {
		return Instant{}, err
	}
	return dt.toInstant(o), nil
}

var (
	_ encoding.TextMarshaler   = LocalDate{}
	_ encoding.TextUnmarshaler = (*LocalDate)(nil)
	_ encoding.TextMarshaler   = LocalTime{}
	_ encoding.TextUnmarshaler = (*LocalTime)(nil)
	_ encoding.TextMarshaler   = LocalDateTime{}
	_ encoding.TextUnmarshaler = (*LocalDateTime)(nil)
	_ encoding.TextMarshaler   = UtcOffset{}
	_ encoding.TextUnmarshaler = (*UtcOffset)(nil)
	_ encoding.TextMarshaler   = Instant{}
	_ encoding.TextUnmarshaler = (*Instant)(nil)
)

func (d LocalDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *LocalDate) UnmarshalText(text []byte) error {
	v, err := ParseLocalDate(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (t LocalTime) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *LocalTime) UnmarshalText(text []byte) error {
	v, err := ParseLocalTime(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (dt LocalDateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

func (dt *LocalDateTime) UnmarshalText(text []byte) error {
	v, err := ParseLocalDateTime(string(text))
	if err != nil {
		return err
	}
	*dt = v
	return nil
}

func (o UtcOffset) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *UtcOffset) UnmarshalText(text []byte) error {
	v, err := ParseUtcOffset(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (i Instant) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Instant) UnmarshalText(text []byte) error {
	v, err := ParseInstant(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
