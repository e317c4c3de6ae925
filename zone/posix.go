package zone

import (
	"fmt"
	"time"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/internal/safemath"
	"github.com/ngrash/go-datetime/internal/unixtime"
)

// rule is a POSIX TZ string such as "CET-1CEST,M3.5.0,M10.5.0/3". It
// describes standard time and, optionally, daylight saving time with the
// yearly dates it starts and ends.
type rule struct {
	stdName, dstName string
	std, dst         datetime.UtcOffset
	start, end       ruleDate
	// startTime and endTime are seconds after local midnight. They may be
	// negative or exceed a day.
	startTime, endTime int64
}

type dateKind int

const (
	julian       dateKind = iota // Jn: 1..365, February 29 is never counted
	zeroBased                    // n: 0..365, February 29 is counted
	monthWeekDay                 // Mm.w.d: day d of week w of month m, w = 5 is the last
)

type ruleDate struct {
	kind    dateKind
	day     int
	month   int
	week    int
	weekday time.Weekday
}

func (r *rule) hasDST() bool { return r.dstName != "" }

// epochDay returns the day of d in year, counted from the Unix epoch.
func (d ruleDate) epochDay(year int64) int64 {
	jan1 := unixtime.DaysFromCivil(year, 1, 1)
	switch d.kind {
	case julian:
		day := int64(d.day - 1)
		if d.day >= 60 && unixtime.IsLeapYear(year) {
			day++
		}
		return jan1 + day
	case zeroBased:
		return jan1 + int64(d.day)
	}
	var day int
	if d.week == 5 {
		day = unixtime.LastWeekdayOfMonth(year, d.month, d.weekday)
	} else {
		day = unixtime.NthWeekdayOfMonth(year, d.month, d.week, d.weekday)
	}
	return unixtime.DaysFromCivil(year, d.month, day)
}

// transitions returns the instants, in Unix seconds, at which daylight saving
// time starts and ends in year. The start time is read in standard time and
// the end time in daylight saving time.
func (r *rule) transitions(year int64) (start, end int64) {
	start = r.start.epochDay(year)*unixtime.SecondsPerDay + r.startTime - int64(r.std.TotalSeconds())
	end = r.end.epochDay(year)*unixtime.SecondsPerDay + r.endTime - int64(r.dst.TotalSeconds())
	return start, end
}

func (r *rule) offsetAt(sec int64) datetime.UtcOffset {
	if !r.hasDST() {
		return r.std
	}
	start, end := r.transitions(yearOf(sec + int64(r.std.TotalSeconds())))
	if start < end {
		if start <= sec && sec < end {
			return r.dst
		}
		return r.std
	}
	// Daylight saving time spans the turn of the year.
	if end <= sec && sec < start {
		return r.std
	}
	return r.dst
}

// appendTransitions appends the transitions of the years from..to in order.
func (r *rule) appendTransitions(ts []transition, from, to int64) []transition {
	if !r.hasDST() {
		return ts
	}
	for y := from; y <= to; y++ {
		start, end := r.transitions(y)
		a := transition{at: start, before: r.std, after: r.dst}
		b := transition{at: end, before: r.dst, after: r.std}
		if end < start {
			a, b = b, a
		}
		ts = append(ts, a, b)
	}
	return ts
}

func yearOf(sec int64) int64 {
	y, _, _ := unixtime.CivilFromDays(safemath.FloorDiv(sec, unixtime.SecondsPerDay))
	return y
}

// parseRule parses a TZ string in the format of POSIX.1-2017 section 8.3 with
// the extensions of RFC 8536 section 3.3.1: transition times may be negative
// and as large as 167 hours.
func parseRule(s string) (*rule, error) {
	return (&ruleParser{text: s}).rule()
}

type ruleParser struct {
	text string
	i    int
}

func (p *ruleParser) fail(format string, args ...any) error {
	return &datetime.FormatError{Input: p.text, Pos: p.i, Msg: fmt.Sprintf(format, args...)}
}

func (p *ruleParser) done() bool { return p.i >= len(p.text) }

func (p *ruleParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.text[p.i]
}

func (p *ruleParser) expect(c byte) error {
	if p.peek() != c {
		return p.fail("expected '%c'", c)
	}
	p.i++
	return nil
}

func (p *ruleParser) rule() (*rule, error) {
	r := &rule{}
	var err error
	if r.stdName, err = p.name(); err != nil {
		return nil, err
	}
	if r.std, err = p.offset(); err != nil {
		return nil, err
	}
	if p.done() {
		return r, nil
	}
	if r.dstName, err = p.name(); err != nil {
		return nil, err
	}
	r.dst, err = datetime.UtcOffsetFromSeconds(r.std.TotalSeconds() + 3600)
	if err != nil {
		return nil, p.fail("%v", err)
	}
	if !p.done() && p.peek() != ',' {
		if r.dst, err = p.offset(); err != nil {
			return nil, err
		}
	}
	if p.done() {
		// POSIX leaves the dates open; this is what the US has used since 2007.
		r.start = ruleDate{kind: monthWeekDay, month: 3, week: 2, weekday: time.Sunday}
		r.end = ruleDate{kind: monthWeekDay, month: 11, week: 1, weekday: time.Sunday}
		r.startTime, r.endTime = 7200, 7200
		return r, nil
	}
	if r.start, r.startTime, err = p.change(); err != nil {
		return nil, err
	}
	if r.end, r.endTime, err = p.change(); err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.fail("unexpected trailing text %q", p.text[p.i:])
	}
	return r, nil
}

// name reads an alphabetic designation of at least three letters or a quoted
// one such as "<+0330>".
func (p *ruleParser) name() (string, error) {
	start := p.i
	if p.peek() == '<' {
		p.i++
		for !p.done() && p.peek() != '>' {
			c := p.peek()
			if !isAlpha(c) && !isDigit(c) && c != '+' && c != '-' {
				return "", p.fail("invalid character '%c' in quoted designation", c)
			}
			p.i++
		}
		if err := p.expect('>'); err != nil {
			return "", err
		}
		if p.i-start-2 < 3 {
			p.i = start
			return "", p.fail("designation needs at least three characters")
		}
		return p.text[start+1 : p.i-1], nil
	}
	for isAlpha(p.peek()) {
		p.i++
	}
	if p.i-start < 3 {
		p.i = start
		return "", p.fail("designation needs at least three letters")
	}
	return p.text[start:p.i], nil
}

// offset reads a POSIX offset, which is positive west of Greenwich.
func (p *ruleParser) offset() (datetime.UtcOffset, error) {
	start := p.i
	secs, err := p.hms(24)
	if err != nil {
		return datetime.UtcOffset{}, err
	}
	o, err := datetime.UtcOffsetFromSeconds(int(-secs))
	if err != nil {
		p.i = start
		return datetime.UtcOffset{}, p.fail("%v", err)
	}
	return o, nil
}

// change reads ",date[/time]".
func (p *ruleParser) change() (ruleDate, int64, error) {
	if err := p.expect(','); err != nil {
		return ruleDate{}, 0, err
	}
	d, err := p.date()
	if err != nil {
		return ruleDate{}, 0, err
	}
	if p.peek() != '/' {
		return d, 7200, nil
	}
	p.i++
	t, err := p.hms(167)
	return d, t, err
}

func (p *ruleParser) date() (ruleDate, error) {
	switch c := p.peek(); {
	case c == 'J':
		p.i++
		n, err := p.number(1, 365)
		return ruleDate{kind: julian, day: n}, err
	case isDigit(c):
		n, err := p.number(0, 365)
		return ruleDate{kind: zeroBased, day: n}, err
	case c == 'M':
		p.i++
		m, err := p.number(1, 12)
		if err != nil {
			return ruleDate{}, err
		}
		if err := p.expect('.'); err != nil {
			return ruleDate{}, err
		}
		w, err := p.number(1, 5)
		if err != nil {
			return ruleDate{}, err
		}
		if err := p.expect('.'); err != nil {
			return ruleDate{}, err
		}
		d, err := p.number(0, 6)
		return ruleDate{kind: monthWeekDay, month: m, week: w, weekday: time.Weekday(d)}, err
	}
	return ruleDate{}, p.fail("expected a date in the form Jn, n or Mm.w.d")
}

// hms reads [+|-]hh[:mm[:ss]] and returns the signed number of seconds.
func (p *ruleParser) hms(maxHours int) (int64, error) {
	sign := int64(1)
	switch p.peek() {
	case '-':
		sign = -1
		p.i++
	case '+':
		p.i++
	}
	h, err := p.number(0, maxHours)
	if err != nil {
		return 0, err
	}
	secs := int64(h) * 3600
	for _, scale := range []int64{60, 1} {
		if p.peek() != ':' {
			break
		}
		p.i++
		n, err := p.number(0, 59)
		if err != nil {
			return 0, err
		}
		secs += int64(n) * scale
	}
	return sign * secs, nil
}

// number reads a decimal number in [lo, hi].
func (p *ruleParser) number(lo, hi int) (int, error) {
	start := p.i
	n := 0
	for isDigit(p.peek()) && p.i-start < 4 {
		n = n*10 + int(p.peek()-'0')
		p.i++
	}
	if p.i == start {
		return 0, p.fail("expected a number")
	}
	if n < lo || n > hi {
		p.i = start
		return 0, p.fail("%d is not in [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func isAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
