package datetime

import (
	"math"
	"strings"

	"github.com/ngrash/go-datetime/internal/safemath"
	"github.com/ngrash/go-datetime/period"
)

// UnresolvedZonedDateTime is a civil reading in a zone that has not been mapped
// to an instant yet. The reading may fall into a gap or an overlap of the zone;
// Resolve decides which instant it denotes.
type UnresolvedZonedDateTime struct {
	local        LocalDateTime
	zone         TimeZone
	preferred    UtcOffset
	hasPreferred bool
}

// NewUnresolvedZonedDateTime returns local in zone. zone must not be nil.
func NewUnresolvedZonedDateTime(local LocalDateTime, zone TimeZone) UnresolvedZonedDateTime {
	return UnresolvedZonedDateTime{local: local, zone: zone}
}

// WithPreferredOffset returns u with o as the offset to pick if the reading is
// in an overlap and o is one of its two offsets.
func (u UnresolvedZonedDateTime) WithPreferredOffset(o UtcOffset) UnresolvedZonedDateTime {
	u.preferred, u.hasPreferred = o, true
	return u
}

func (u UnresolvedZonedDateTime) Local() LocalDateTime { return u.local }
func (u UnresolvedZonedDateTime) Zone() TimeZone       { return u.zone }

// PreferredOffset returns the preferred offset, if any.
func (u UnresolvedZonedDateTime) PreferredOffset() (UtcOffset, bool) {
	return u.preferred, u.hasPreferred
}

// WithDate replaces the date, keeping the time of day, zone and preferred offset.
func (u UnresolvedZonedDateTime) WithDate(d LocalDate) UnresolvedZonedDateTime {
	u.local = u.local.WithDate(d)
	return u
}

// WithTime replaces the time of day, keeping the date, zone and preferred offset.
func (u UnresolvedZonedDateTime) WithTime(t LocalTime) UnresolvedZonedDateTime {
	u.local = u.local.WithTime(t)
	return u
}

// Resolve maps the reading to an instant:
//
//   - a regular reading uses its only offset;
//   - a reading in a gap is taken at the offset before the gap, which moves it
//     forward by the length of the gap, and ends up at the offset after it;
//   - a reading in an overlap uses the preferred offset if it is one of the
//     two, and the earlier instant otherwise.
//
// Resolve is deterministic. It fails only if moving a reading out of a gap
// leaves the LocalDateTime range.
func (u UnresolvedZonedDateTime) Resolve() (ZonedDateTime, error) {
	info := u.zone.OffsetInfo(u.local)
	switch info.Kind {
	case Gap:
		shift := int64(info.After.seconds - info.Before.seconds)
		local, err := u.local.plusSeconds(shift, 0)
		if err != nil {
			return ZonedDateTime{}, arithmeticError(err, "resolve %v in %s", u.local, u.zone.ID())
		}
		return ZonedDateTime{local: local, offset: info.After, zone: u.zone}, nil
	case Overlap:
		offset := info.Before
		if u.hasPreferred && u.preferred == info.After {
			offset = info.After
		}
		return ZonedDateTime{local: u.local, offset: offset, zone: u.zone}, nil
	default:
		return ZonedDateTime{local: u.local, offset: info.Offset, zone: u.zone}, nil
	}
}

// resolveReading returns the instant of local in tz as Resolve would pick it
// with preferred as the preferred offset, together with the offset in effect there.
// Unlike Resolve it never fails, as it does not move the reading itself.
func resolveReading(tz TimeZone, local LocalDateTime, preferred UtcOffset) (Instant, UtcOffset) {
	info := tz.OffsetInfo(local)
	switch info.Kind {
	case Gap:
		return local.toInstant(info.Before), info.After
	case Overlap:
		if preferred == info.After {
			return local.toInstant(info.After), info.After
		}
		return local.toInstant(info.Before), info.Before
	default:
		return local.toInstant(info.Offset), info.Offset
	}
}

// resolveLocal is resolveReading that also returns the reading of the
// resolved instant, which lies past local when local falls into a gap.
func resolveLocal(tz TimeZone, local LocalDateTime, preferred UtcOffset) (LocalDateTime, UtcOffset, Instant, error) {
	inst, off := resolveReading(tz, local, preferred)
	if inst == local.toInstant(off) {
		return local, off, inst, nil
	}
	shifted, err := localDateTimeAt(inst.sec, inst.nsec, off)
	if err != nil {
		return LocalDateTime{}, UtcOffset{}, Instant{}, err
	}
	return shifted, off, inst, nil
}

// String returns the reading followed by the zone, e.g. "2024-03-31T02:30[Europe/Berlin]".
func (u UnresolvedZonedDateTime) String() string {
	return u.local.String() + "[" + u.zone.ID() + "]"
}

// ZonedDateTime is a civil reading in a zone together with the offset that
// maps it to an instant.
type ZonedDateTime struct {
	local  LocalDateTime
	offset UtcOffset
	zone   TimeZone
}

func (z ZonedDateTime) Local() LocalDateTime { return z.local }
func (z ZonedDateTime) Offset() UtcOffset    { return z.offset }
func (z ZonedDateTime) Zone() TimeZone       { return z.zone }

// Instant returns the point on the time line z denotes.
func (z ZonedDateTime) Instant() Instant { return z.local.toInstant(z.offset) }

// Unresolve returns the reading of z with its offset as the preferred offset,
// so that resolving it again yields z.
func (z ZonedDateTime) Unresolve() UnresolvedZonedDateTime {
	return UnresolvedZonedDateTime{local: z.local, zone: z.zone, preferred: z.offset, hasPreferred: true}
}

// WithDate replaces the date of the reading. The result keeps the zone and
// prefers the current offset.
func (z ZonedDateTime) WithDate(d LocalDate) UnresolvedZonedDateTime {
	return z.Unresolve().WithDate(d)
}

// WithTime replaces the time of day of the reading. The result keeps the zone
// and prefers the current offset.
func (z ZonedDateTime) WithTime(t LocalTime) UnresolvedZonedDateTime {
	return z.Unresolve().WithTime(t)
}

// Plus returns z moved by value units. Date-based units move the reading and
// resolve it preferring the current offset; time-based units move the instant.
func (z ZonedDateTime) Plus(value int64, unit period.DateTimeUnit) (ZonedDateTime, error) {
	if u, ok := unit.(period.DateBased); ok {
		local, err := z.local.Plus(value, u)
		if err != nil {
			return ZonedDateTime{}, err
		}
		return z.Unresolve().withLocal(local).Resolve()
	}
	i, err := z.Instant().PlusIn(value, unit, z.zone)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return i.AtZone(z.zone)
}

func (u UnresolvedZonedDateTime) withLocal(local LocalDateTime) UnresolvedZonedDateTime {
	u.local = local
	return u
}

// PlusPeriod adds the months of p, then its days, then its time component.
// Each date-based stage starts from the resolved result of the one before, so
// z.PlusPeriod(P2M1D) equals z.Plus(2, Month) followed by Plus(1, Day).
func (z ZonedDateTime) PlusPeriod(p period.DateTimePeriod) (ZonedDateTime, error) {
	i, err := z.Instant().PlusPeriod(p, z.zone)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return i.AtZone(z.zone)
}

// Until returns the whole units from z to other. Date-based units compare the
// readings in the zone of z, and a unit only counts if adding it to z does not
// pass other. Results that cannot be represented are clamped to math.MaxInt64
// or math.MinInt64.
func (z ZonedDateTime) Until(other ZonedDateTime, unit period.DateTimeUnit) int64 {
	a, b := z.Instant(), other.Instant()
	u, ok := unit.(period.DateBased)
	if !ok {
		return a.Until(b, unit.(period.TimeBased))
	}
	if err := period.CheckUnit(u); err != nil {
		panic("datetime: " + err.Error())
	}
	target, err := b.ToLocalDateTime(z.zone)
	if err == nil {
		var s step
		if s, err = stepUntil(z.zone, z.local, z.offset, target, b, u); err == nil {
			return s.n
		}
	}
	if a.Before(b) {
		return math.MaxInt64
	}
	return math.MinInt64
}

// PeriodUntil returns the period p with z.PlusPeriod(p) == other, measured in
// the zone of z. All components of p have the sign of the distance.
func (z ZonedDateTime) PeriodUntil(other ZonedDateTime) (period.DateTimePeriod, error) {
	p, err := z.periodUntil(other)
	if err != nil {
		return period.DateTimePeriod{}, arithmeticError(err, "period from %v to %v", z, other)
	}
	return p, nil
}

func (z ZonedDateTime) periodUntil(other ZonedDateTime) (period.DateTimePeriod, error) {
	b := other.Instant()
	target, err := b.ToLocalDateTime(z.zone)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	months, err := stepUntil(z.zone, z.local, z.offset, target, b, period.Month)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	days, err := stepUntil(z.zone, months.local, months.offset, target, b, period.Day)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	m, err := safemath.ToInt32(months.n)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	d, err := safemath.ToInt32(days.n)
	if err != nil {
		return period.DateTimePeriod{}, err
	}
	return period.FromTotals(m, d, days.instant.Until(b, period.Nanosecond)), nil
}

// step is the outcome of counting date-based units toward a target.
type step struct {
	n       int64
	local   LocalDateTime // the resolved reading after n units
	offset  UtcOffset
	instant Instant
}

// stepUntil counts the whole units from local, resolved preferring offset,
// toward target. The estimate from the civil readings alone can be one unit
// too far when a transition lies between the two; the candidate is resolved
// and pulled back by a unit if it passes target. The reading of the result
// is the resolved one, so that a following step starts where adding the units
// to a ZonedDateTime would.
func stepUntil(tz TimeZone, local LocalDateTime, offset UtcOffset, targetLocal LocalDateTime, target Instant, unit period.DateBased) (step, error) {
	n := local.Until(targetLocal, unit)
	for {
		candidate, err := local.Plus(n, unit)
		if err != nil {
			return step{}, err
		}
		inst, _ := resolveReading(tz, candidate, offset)
		switch {
		case n > 0 && inst.After(target):
			n--
		case n < 0 && inst.Before(target):
			n++
		default:
			resolved, off, inst, err := resolveLocal(tz, candidate, offset)
			if err != nil {
				return step{}, err
			}
			return step{n: n, local: resolved, offset: off, instant: inst}, nil
		}
	}
}

// String returns the reading, the offset and the zone, e.g.
// "2024-03-31T03:30+02:00[Europe/Berlin]".
func (z ZonedDateTime) String() string {
	var b strings.Builder
	b.WriteString(z.local.String())
	appendOffset(&b, z.offset)
	if _, fixed := z.zone.(FixedOffsetZone); !fixed {
		b.WriteByte('[')
		b.WriteString(z.zone.ID())
		b.WriteByte(']')
	}
	return b.String()
}
