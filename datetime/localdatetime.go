package datetime

import (
	"math"
	"strings"
	"time"

	"github.com/ngrash/go-datetime/internal/safemath"
	"github.com/ngrash/go-datetime/internal/unixtime"
	"github.com/ngrash/go-datetime/period"
)

// LocalDateTime is a date and a time of day without a zone. It is a civil
// reading, not a point on the time line; see ZonedDateTime and Instant.
type LocalDateTime struct {
	date LocalDate
	time LocalTime
}

var (
	MinLocalDateTime = LocalDateTime{date: MinLocalDate}
	MaxLocalDateTime = LocalDateTime{date: MaxLocalDate, time: LocalTime{hour: 23, minute: 59, second: 59, nanosecond: nanosPerSecond - 1}}
)

// NewLocalDateTime validates and combines all components.
func NewLocalDateTime(year int, month time.Month, day, hour, minute, second, nanosecond int) (LocalDateTime, error) {
	d, err := NewLocalDate(year, month, day)
	if err != nil {
		return LocalDateTime{}, err
	}
	t, err := NewLocalTime(hour, minute, second, nanosecond)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{date: d, time: t}, nil
}

// MustLocalDateTime is like NewLocalDateTime but panics on error.
func MustLocalDateTime(year int, month time.Month, day, hour, minute, second, nanosecond int) LocalDateTime {
	dt, err := NewLocalDateTime(year, month, day, hour, minute, second, nanosecond)
	if err != nil {
		panic(err)
	}
	return dt
}

func (dt LocalDateTime) Date() LocalDate   { return dt.date }
func (dt LocalDateTime) Time() LocalTime   { return dt.time }
func (dt LocalDateTime) Year() int         { return dt.date.Year() }
func (dt LocalDateTime) Month() time.Month { return dt.date.Month() }
func (dt LocalDateTime) Day() int          { return dt.date.Day() }
func (dt LocalDateTime) Hour() int         { return dt.time.Hour() }
func (dt LocalDateTime) Minute() int       { return dt.time.Minute() }
func (dt LocalDateTime) Second() int       { return dt.time.Second() }
func (dt LocalDateTime) Nanosecond() int   { return dt.time.Nanosecond() }

// DayOfWeek returns the ISO day of the week of the date.
func (dt LocalDateTime) DayOfWeek() time.Weekday { return dt.date.DayOfWeek() }

// WithDate returns dt with the date replaced.
func (dt LocalDateTime) WithDate(d LocalDate) LocalDateTime { return LocalDateTime{date: d, time: dt.time} }

// WithTime returns dt with the time of day replaced.
func (dt LocalDateTime) WithTime(t LocalTime) LocalDateTime { return LocalDateTime{date: dt.date, time: t} }

// Compare returns -1, 0 or +1 depending on whether dt is before, equal to or after other.
func (dt LocalDateTime) Compare(other LocalDateTime) int {
	if c := dt.date.Compare(other.date); c != 0 {
		return c
	}
	return dt.time.Compare(other.time)
}

func (dt LocalDateTime) Before(other LocalDateTime) bool { return dt.Compare(other) < 0 }
func (dt LocalDateTime) After(other LocalDateTime) bool  { return dt.Compare(other) > 0 }

// epochSecond returns the Unix time of dt read at offset.
func (dt LocalDateTime) epochSecond(offset UtcOffset) int64 {
	d, t := dt.date, dt.time
	return unixtime.FromDateTime(int64(d.year), int(d.month), int(d.day), t.Hour(), t.Minute(), t.Second()) - int64(offset.seconds)
}

// toInstant returns the instant of dt read at offset. Every local date-time
// read at any offset lies within the instant range.
func (dt LocalDateTime) toInstant(offset UtcOffset) Instant {
	return Instant{sec: dt.epochSecond(offset), nsec: dt.time.nanosecond}
}

// localDateTimeAt returns the reading of the instant sec.nsec at offset.
func localDateTimeAt(sec int64, nsec int32, offset UtcOffset) (LocalDateTime, error) {
	local, err := safemath.Add64(sec, int64(offset.seconds))
	if err != nil {
		return LocalDateTime{}, err
	}
	days := safemath.FloorDiv(local, unixtime.SecondsPerDay)
	if days < minEpochDay || days > maxEpochDay {
		return LocalDateTime{}, ErrOutOfRange
	}
	d, err := LocalDateFromEpochDays(days)
	if err != nil {
		return LocalDateTime{}, err
	}
	sod := safemath.FloorMod(local, unixtime.SecondsPerDay)
	return LocalDateTime{date: d, time: localTimeOfDay(sod*nanosPerSecond + int64(nsec))}, nil
}

// ToInstant resolves dt in tz. Readings in a gap are moved forward by the length
// of the gap, readings in an overlap resolve to the earlier instant.
func (dt LocalDateTime) ToInstant(tz TimeZone) (Instant, error) {
	z, err := dt.AtZone(tz).Resolve()
	if err != nil {
		return Instant{}, err
	}
	return z.Instant(), nil
}

// AtZone returns dt in tz without resolving it.
func (dt LocalDateTime) AtZone(tz TimeZone) UnresolvedZonedDateTime {
	return UnresolvedZonedDateTime{local: dt, zone: tz}
}

// Plus returns dt moved by value units. Date-based units move the date and keep
// the time of day. Time-based units move along a time line without transitions.
func (dt LocalDateTime) Plus(value int64, unit period.DateTimeUnit) (LocalDateTime, error) {
	if u, ok := unit.(period.DateBased); ok {
		d, err := dt.date.Plus(value, u)
		if err != nil {
			return LocalDateTime{}, err
		}
		return dt.WithDate(d), nil
	}
	if err := period.CheckUnit(unit); err != nil {
		return LocalDateTime{}, arithmeticError(err, "add %d of %v to %v", value, unitName(unit), dt)
	}
	u := unit.(period.TimeBased)
	secs, nanos, err := safemath.MulDiv64(value, u.Nanoseconds(), nanosPerSecond)
	if err == nil {
		var r LocalDateTime
		if r, err = dt.plusSeconds(secs, nanos); err == nil {
			return r, nil
		}
	}
	return LocalDateTime{}, arithmeticError(err, "add %d of %v to %v", value, unit, dt)
}

// Minus returns dt moved back by value units.
func (dt LocalDateTime) Minus(value int64, unit period.DateTimeUnit) (LocalDateTime, error) {
	if value != math.MinInt64 {
		return dt.Plus(-value, unit)
	}
	r, err := dt.Plus(-(value + 1), unit)
	if err != nil {
		return LocalDateTime{}, err
	}
	return r.Plus(1, unit)
}

// plusSeconds adds secs seconds and nanos nanoseconds, |nanos| < 1e9.
func (dt LocalDateTime) plusSeconds(secs, nanos int64) (LocalDateTime, error) {
	if secs == 0 && nanos == 0 {
		return dt, nil
	}
	sec, err := safemath.Add64(dt.epochSecond(UTCOffset), secs)
	if err != nil {
		return LocalDateTime{}, err
	}
	ns := int64(dt.time.nanosecond) + nanos
	sec, err = safemath.Add64(sec, safemath.FloorDiv(ns, nanosPerSecond))
	if err != nil {
		return LocalDateTime{}, err
	}
	return localDateTimeAt(sec, int32(safemath.FloorMod(ns, nanosPerSecond)), UTCOffset)
}

// PlusPeriod adds the months of p, then its days, then its time component.
func (dt LocalDateTime) PlusPeriod(p period.DateTimePeriod) (LocalDateTime, error) {
	r, err := dt.plusTotals(int64(p.TotalMonths()), int64(p.Days()), p.TotalNanoseconds())
	if err != nil {
		return LocalDateTime{}, arithmeticError(err, "add %v to %v", p, dt)
	}
	return r, nil
}

// MinusPeriod subtracts p.
func (dt LocalDateTime) MinusPeriod(p period.DateTimePeriod) (LocalDateTime, error) {
	months, days, nanos := -int64(p.TotalMonths()), -int64(p.Days()), p.TotalNanoseconds()
	var r LocalDateTime
	var err error
	if nanos != math.MinInt64 {
		r, err = dt.plusTotals(months, days, -nanos)
	} else {
		r, err = dt.plusTotals(months, days, -(nanos + 1))
		if err == nil {
			r, err = r.plusSeconds(0, 1)
		}
	}
	if err != nil {
		return LocalDateTime{}, arithmeticError(err, "subtract %v from %v", p, dt)
	}
	return r, nil
}

func (dt LocalDateTime) plusTotals(months, days, nanos int64) (LocalDateTime, error) {
	d, err := dt.date.plusMonths(months)
	if err != nil {
		return LocalDateTime{}, err
	}
	if d, err = d.plusDays(days); err != nil {
		return LocalDateTime{}, err
	}
	return dt.WithDate(d).plusSeconds(nanos/nanosPerSecond, nanos%nanosPerSecond)
}

// Until returns the whole units from dt to other. For date-based units a
// partial last day does not count: from 2024-01-01T12:00 to 2024-01-02T11:00
// is zero days. Counting saturates instead of failing.
func (dt LocalDateTime) Until(other LocalDateTime, unit period.DateTimeUnit) int64 {
	if u, ok := unit.(period.DateBased); ok {
		// end moves one day toward dt.date, so it stays within the range of
		// the two dates and plusDays cannot fail.
		end, err := other.date, error(nil)
		switch {
		case other.date.After(dt.date) && other.time.Before(dt.time):
			end, err = end.plusDays(-1)
		case other.date.Before(dt.date) && other.time.After(dt.time):
			end, err = end.plusDays(1)
		}
		if err != nil {
			panic("datetime: " + err.Error())
		}
		return dt.date.Until(end, u)
	}
	u, ok := unit.(period.TimeBased)
	if !ok || period.CheckUnit(u) != nil {
		panic("datetime: invalid unit " + unitName(unit))
	}
	return dt.toInstant(UTCOffset).Until(other.toInstant(UTCOffset), u)
}

// PeriodUntil returns the period p with dt.PlusPeriod(p) == other.
func (dt LocalDateTime) PeriodUntil(other LocalDateTime) (period.DateTimePeriod, error) {
	return dt.toInstant(UTCOffset).PeriodUntil(other.toInstant(UTCOffset), UTC)
}

// String returns the ISO-8601 form, e.g. "2024-01-31T10:15" or "2024-01-31T10:15:30.500".
func (dt LocalDateTime) String() string {
	var b strings.Builder
	appendDate(&b, int64(dt.date.year), int(dt.date.month), int(dt.date.day))
	b.WriteByte('T')
	appendTime(&b, dt.time, false)
	return b.String()
}
