package datetime

import (
	"math"
	"strings"
	"time"

	"github.com/ngrash/go-datetime/internal/safemath"
	"github.com/ngrash/go-datetime/internal/unixtime"
	"github.com/ngrash/go-datetime/period"
)

const (
	// minInstantSecond is -1000000000-01-01T00:00:00Z.
	minInstantSecond = -31_557_014_167_219_200
	// maxInstantSecond is +1000000000-12-31T23:59:59Z.
	maxInstantSecond = 31_556_889_864_403_199
)

// Instant is a point on the UTC time line with nanosecond precision, counted
// from 1970-01-01T00:00:00Z. Leap seconds are not represented.
//
// Instants range from MinInstant to MaxInstant, roughly a billion years either
// side of the epoch. Instant values are comparable with ==.
type Instant struct {
	sec  int64
	nsec int32
}

var (
	MinInstant = Instant{sec: minInstantSecond}
	MaxInstant = Instant{sec: maxInstantSecond, nsec: nanosPerSecond - 1}
)

// InstantFromEpochSeconds returns the instant sec seconds and nsec nanoseconds
// after the epoch. nsec may be outside [0, 1e9). Results beyond the supported
// range are clamped to MinInstant or MaxInstant.
func InstantFromEpochSeconds(sec, nsec int64) Instant {
	s, err := safemath.Add64(sec, safemath.FloorDiv(nsec, nanosPerSecond))
	if err != nil {
		if sec > 0 {
			return MaxInstant
		}
		return MinInstant
	}
	return clampInstant(s, int32(safemath.FloorMod(nsec, nanosPerSecond)))
}

// InstantFromEpochMilliseconds returns the instant ms milliseconds after the epoch.
func InstantFromEpochMilliseconds(ms int64) Instant {
	return InstantFromEpochSeconds(safemath.FloorDiv(ms, 1000), safemath.FloorMod(ms, 1000)*1_000_000)
}

// InstantFromTime returns the instant of t.
func InstantFromTime(t time.Time) Instant {
	return InstantFromEpochSeconds(t.Unix(), int64(t.Nanosecond()))
}

// Now returns the current instant of the system clock.
func Now() Instant { return InstantFromTime(time.Now()) }

func clampInstant(sec int64, nsec int32) Instant {
	switch {
	case sec < minInstantSecond:
		return MinInstant
	case sec > maxInstantSecond:
		return MaxInstant
	}
	return Instant{sec: sec, nsec: nsec}
}

// EpochSeconds returns the whole seconds since the epoch, rounded toward negative infinity.
func (i Instant) EpochSeconds() int64 { return i.sec }

// Nanosecond returns the nanoseconds within the second, in [0, 1e9).
func (i Instant) Nanosecond() int { return int(i.nsec) }

// EpochMilliseconds returns the milliseconds since the epoch, clamped to the int64 range.
func (i Instant) EpochMilliseconds() int64 {
	ms, err := safemath.MulAdd64(i.sec, 1000, int64(i.nsec/1_000_000))
	if err != nil {
		if i.sec > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return ms
}

// Time returns i as a time.Time in UTC.
func (i Instant) Time() time.Time { return time.Unix(i.sec, int64(i.nsec)).UTC() }

// Compare returns -1, 0 or +1 depending on whether i is before, equal to or after other.
func (i Instant) Compare(other Instant) int {
	if c := cmpInt(i.sec, other.sec); c != 0 {
		return c
	}
	return cmpInt(int64(i.nsec), int64(other.nsec))
}

func (i Instant) Before(other Instant) bool { return i.Compare(other) < 0 }
func (i Instant) After(other Instant) bool  { return i.Compare(other) > 0 }

// Add returns i+d, clamped to the supported range.
func (i Instant) Add(d time.Duration) Instant { return i.Plus(int64(d), period.Nanosecond) }

// Sub returns the duration i-other. If the result exceeds the range of
// time.Duration, the maximum or minimum duration is returned.
func (i Instant) Sub(other Instant) time.Duration {
	d, err := safemath.MulAdd64(i.sec-other.sec, nanosPerSecond, int64(i.nsec-other.nsec))
	if err != nil {
		if i.After(other) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return time.Duration(d)
}

// Plus returns i moved by value units. Results beyond the supported range are
// clamped to MinInstant or MaxInstant.
func (i Instant) Plus(value int64, unit period.TimeBased) Instant {
	r, err := i.plusUnits(value, unit)
	if err != nil {
		if value > 0 {
			return MaxInstant
		}
		return MinInstant
	}
	return r
}

// Minus returns i moved back by value units, clamped like Plus.
func (i Instant) Minus(value int64, unit period.TimeBased) Instant {
	if value != math.MinInt64 {
		return i.Plus(-value, unit)
	}
	return i.Plus(-(value + 1), unit).Plus(1, unit)
}

func (i Instant) plusUnits(value int64, unit period.TimeBased) (Instant, error) {
	if err := period.CheckUnit(unit); err != nil {
		panic("datetime: " + err.Error())
	}
	secs, nanos, err := safemath.MulDiv64(value, unit.Nanoseconds(), nanosPerSecond)
	if err != nil {
		return Instant{}, err
	}
	return i.plusSeconds(secs, nanos)
}

// plusSeconds adds secs seconds and nanos nanoseconds, |nanos| < 1e9, and fails
// if the result leaves the supported range.
func (i Instant) plusSeconds(secs, nanos int64) (Instant, error) {
	if secs == 0 && nanos == 0 {
		return i, nil
	}
	sec, err := safemath.Add64(i.sec, secs)
	if err != nil {
		return Instant{}, err
	}
	ns := int64(i.nsec) + nanos
	sec += safemath.FloorDiv(ns, nanosPerSecond)
	if sec < minInstantSecond || sec > maxInstantSecond {
		return Instant{}, ErrOutOfRange
	}
	return Instant{sec: sec, nsec: int32(safemath.FloorMod(ns, nanosPerSecond))}, nil
}

// Until returns the whole units from i to other, negative if other is before i.
// Results beyond the int64 range are clamped to math.MaxInt64 or math.MinInt64.
func (i Instant) Until(other Instant, unit period.TimeBased) int64 {
	if err := period.CheckUnit(unit); err != nil {
		panic("datetime: " + err.Error())
	}
	n, err := safemath.MulAddDiv64(other.sec-i.sec, nanosPerSecond, int64(other.nsec-i.nsec), unit.Nanoseconds())
	if err != nil {
		if i.Before(other) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return n
}

// OffsetIn returns the offset of tz at i.
func (i Instant) OffsetIn(tz TimeZone) UtcOffset { return tz.OffsetAt(i) }

// ToLocalDateTime returns the civil reading of i in tz. It fails if the reading
// lies outside the LocalDateTime range, which is narrower than the instant
// range by about a year at either end.
func (i Instant) ToLocalDateTime(tz TimeZone) (LocalDateTime, error) {
	z, err := i.AtZone(tz)
	if err != nil {
		return LocalDateTime{}, err
	}
	return z.local, nil
}

// AtZone returns i in tz.
func (i Instant) AtZone(tz TimeZone) (ZonedDateTime, error) {
	offset := tz.OffsetAt(i)
	local, err := localDateTimeAt(i.sec, i.nsec, offset)
	if err != nil {
		return ZonedDateTime{}, arithmeticError(err, "instant %v exceeds the civil range of %s", i, tz.ID())
	}
	return ZonedDateTime{local: local, offset: offset, zone: tz}, nil
}

// PlusIn returns i moved by value units in tz. Date-based units move the civil
// reading and keep the offset where possible; time-based units move along the
// time line. It fails with an *ArithmeticError if the result leaves the
// supported range.
func (i Instant) PlusIn(value int64, unit period.DateTimeUnit, tz TimeZone) (Instant, error) {
	r, err := i.plusIn(value, unit, tz)
	if err != nil {
		return Instant{}, arithmeticError(err, "add %d of %v to %v in %s", value, unitName(unit), i, tz.ID())
	}
	return r, nil
}

func (i Instant) plusIn(value int64, unit period.DateTimeUnit, tz TimeZone) (Instant, error) {
	if err := period.CheckUnit(unit); err != nil {
		return Instant{}, err
	}
	switch u := unit.(type) {
	case period.MonthBased:
		months, err := safemath.Mul64(value, int64(u.Months()))
		if err != nil {
			return Instant{}, err
		}
		return i.plusTotals(months, 0, 0, tz)
	case period.DayBased:
		days, err := safemath.Mul64(value, int64(u.Days()))
		if err != nil {
			return Instant{}, err
		}
		return i.plusTotals(0, days, 0, tz)
	}
	if _, err := i.AtZone(tz); err != nil {
		return Instant{}, err
	}
	r, err := i.plusUnits(value, unit.(period.TimeBased))
	if err != nil {
		return Instant{}, err
	}
	if _, err := r.AtZone(tz); err != nil {
		return Instant{}, err
	}
	return r, nil
}

// MinusIn returns i moved back by value units in tz.
func (i Instant) MinusIn(value int64, unit period.DateTimeUnit, tz TimeZone) (Instant, error) {
	if value != math.MinInt64 {
		return i.PlusIn(-value, unit, tz)
	}
	r, err := i.PlusIn(-(value + 1), unit, tz)
	if err != nil {
		return Instant{}, err
	}
	return r.PlusIn(1, unit, tz)
}

// PlusPeriod adds p in tz: first the months, then the days, then the time
// component. Each date-based step is resolved in tz preferring the offset in
// effect before it, and the days are added to the resolved reading of the
// month step, which is later than the naive one if it fell into a gap.
// It fails with an *ArithmeticError if any step leaves the supported range.
func (i Instant) PlusPeriod(p period.DateTimePeriod, tz TimeZone) (Instant, error) {
	r, err := i.plusTotals(int64(p.TotalMonths()), int64(p.Days()), p.TotalNanoseconds(), tz)
	if err != nil {
		return Instant{}, arithmeticError(err, "add %v to %v in %s", p, i, tz.ID())
	}
	return r, nil
}

// MinusPeriod subtracts p in tz.
func (i Instant) MinusPeriod(p period.DateTimePeriod, tz TimeZone) (Instant, error) {
	months, days, nanos := -int64(p.TotalMonths()), -int64(p.Days()), p.TotalNanoseconds()
	var r Instant
	var err error
	if nanos != math.MinInt64 {
		r, err = i.plusTotals(months, days, -nanos, tz)
	} else {
		r, err = i.plusTotals(months, days, -(nanos + 1), tz)
		if err == nil {
			r, err = r.plusSeconds(0, 1)
		}
	}
	if err != nil {
		return Instant{}, arithmeticError(err, "subtract %v from %v in %s", p, i, tz.ID())
	}
	return r, nil
}

func (i Instant) plusTotals(months, days, nanos int64, tz TimeZone) (Instant, error) {
	z, err := i.AtZone(tz)
	if err != nil {
		return Instant{}, err
	}
	r, local, offset := i, z.local, z.offset
	if months != 0 {
		if local.date, err = local.date.plusMonths(months); err != nil {
			return Instant{}, err
		}
		if local, offset, r, err = resolveLocal(tz, local, offset); err != nil {
			return Instant{}, err
		}
	}
	if days != 0 {
		if local.date, err = local.date.plusDays(days); err != nil {
			return Instant{}, err
		}
		r, _ = resolveReading(tz, local, offset)
	}
	if r, err = r.plusSeconds(nanos/nanosPerSecond, nanos%nanosPerSecond); err != nil {
		return Instant{}, err
	}
	if _, err := r.AtZone(tz); err != nil {
		return Instant{}, err
	}
	return r, nil
}

// UntilIn returns the whole units from i to other in tz. Date-based units
// count calendar days or months of the civil readings in tz; time-based units
// count along the time line. Results that cannot be represented are clamped
// to math.MaxInt64 or math.MinInt64.
func (i Instant) UntilIn(other Instant, unit period.DateTimeUnit, tz TimeZone) int64 {
	if u, ok := unit.(period.TimeBased); ok {
		return i.Until(other, u)
	}
	saturated := func() int64 {
		if i.Before(other) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	a, err := i.AtZone(tz)
	if err != nil {
		return saturated()
	}
	b, err := other.AtZone(tz)
	if err != nil {
		return saturated()
	}
	return a.Until(b, unit)
}

// DaysUntil returns the whole calendar days from i to other in tz, clamped to the int32 range.
func (i Instant) DaysUntil(other Instant, tz TimeZone) int {
	return int(safemath.ClampToInt32(i.UntilIn(other, period.Day, tz)))
}

// MonthsUntil returns the whole months from i to other in tz, clamped to the int32 range.
func (i Instant) MonthsUntil(other Instant, tz TimeZone) int {
	return int(safemath.ClampToInt32(i.UntilIn(other, period.Month, tz)))
}

// YearsUntil returns the whole years from i to other in tz, clamped to the int32 range.
func (i Instant) YearsUntil(other Instant, tz TimeZone) int {
	return int(safemath.ClampToInt32(i.UntilIn(other, period.Year, tz)))
}

// PeriodUntil returns the period p with i.PlusPeriod(p, tz) == other. All
// components of p have the sign of the distance.
func (i Instant) PeriodUntil(other Instant, tz TimeZone) (period.DateTimePeriod, error) {
	a, err := i.AtZone(tz)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	b, err := other.AtZone(tz)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	return a.PeriodUntil(b)
}

// String returns the ISO-8601 form in UTC, e.g. "2024-01-31T10:15:30Z".
func (i Instant) String() string {
	var b strings.Builder
	days := safemath.FloorDiv(i.sec, unixtime.SecondsPerDay)
	y, m, d := unixtime.CivilFromDays(days)
	appendDate(&b, y, m, d)
	b.WriteByte('T')
	sod := safemath.FloorMod(i.sec, unixtime.SecondsPerDay)
	appendTime(&b, localTimeOfDay(sod*nanosPerSecond+int64(i.nsec)), true)
	b.WriteByte('Z')
	return b.String()
}
