package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-datetime/period"
)

// transitionZone is a zone defined by an explicit list of transitions.
type transitionZone struct {
	id          string
	initial     UtcOffset
	transitions []zoneTransition
}

type zoneTransition struct {
	at    Instant
	after UtcOffset
}

func (z transitionZone) ID() string { return z.id }

func (z transitionZone) OffsetAt(i Instant) UtcOffset {
	off := z.initial
	for _, t := range z.transitions {
		if i.Before(t.at) {
			break
		}
		off = t.after
	}
	return off
}

func (z transitionZone) OffsetInfo(dt LocalDateTime) OffsetInfo {
	local := dt.epochSecond(UTCOffset)
	before := z.initial
	for _, t := range z.transitions {
		start := t.at.sec + int64(min(before.seconds, t.after.seconds))
		end := t.at.sec + int64(max(before.seconds, t.after.seconds))
		if local < start {
			break
		}
		if local < end {
			return TransitionOffset(t.at, before, t.after)
		}
		before = t.after
	}
	return RegularOffset(before)
}

func utc(year int, month time.Month, day, hour, minute int) Instant {
	return InstantFromTime(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

var (
	cet  = MustUtcOffset(1, 0, 0)
	cest = MustUtcOffset(2, 0, 0)

	// berlin follows the central European rules of 2024.
	berlin = transitionZone{
		id:      "Test/Berlin",
		initial: cet,
		transitions: []zoneTransition{
			{at: utc(2024, time.March, 31, 1, 0), after: cest},
			{at: utc(2024, time.October, 27, 1, 0), after: cet},
		},
	}

	// midnightGap skips the first hour of 2024-10-06.
	midnightGap = transitionZone{
		id:      "Test/MidnightGap",
		initial: MustUtcOffset(-3, 0, 0),
		transitions: []zoneTransition{
			{at: utc(2024, time.October, 6, 3, 0), after: MustUtcOffset(-2, 0, 0)},
		},
	}
)

func TestResolve_Gap(t *testing.T) {
	u := MustLocalDateTime(2024, time.March, 31, 2, 30, 0, 0).AtZone(berlin)
	z, err := u.Resolve()
	require.NoError(t, err)
	// 02:30 does not exist; it is read at +01:00 and shown at +02:00.
	require.Equal(t, utc(2024, time.March, 31, 1, 30), z.Instant())
	require.Equal(t, cest, z.Offset())
	require.Equal(t, MustLocalDateTime(2024, time.March, 31, 3, 30, 0, 0), z.Local())
	require.Equal(t, "2024-03-31T03:30+02:00[Test/Berlin]", z.String())

	// A preferred offset does not matter in a gap.
	z2, err := u.WithPreferredOffset(cest).Resolve()
	require.NoError(t, err)
	require.Equal(t, z, z2)
}

func TestResolve_Overlap(t *testing.T) {
	u := MustLocalDateTime(2024, time.October, 27, 2, 30, 0, 0).AtZone(berlin)
	cases := []struct {
		name       string
		u          UnresolvedZonedDateTime
		want       Instant
		wantOffset UtcOffset
	}{
		{"no preference", u, utc(2024, time.October, 27, 0, 30), cest},
		{"prefer earlier", u.WithPreferredOffset(cest), utc(2024, time.October, 27, 0, 30), cest},
		{"prefer later", u.WithPreferredOffset(cet), utc(2024, time.October, 27, 1, 30), cet},
		{"invalid preference", u.WithPreferredOffset(MustUtcOffset(5, 0, 0)), utc(2024, time.October, 27, 0, 30), cest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			z, err := c.u.Resolve()
			require.NoError(t, err)
			require.Equal(t, c.want, z.Instant())
			require.Equal(t, c.wantOffset, z.Offset())
			require.Equal(t, u.Local(), z.Local())
		})
	}
}

func TestUnresolve(t *testing.T) {
	later := utc(2024, time.October, 27, 1, 30)
	z, err := later.AtZone(berlin)
	require.NoError(t, err)
	require.Equal(t, cet, z.Offset())

	again, err := z.Unresolve().Resolve()
	require.NoError(t, err)
	require.Equal(t, z, again)

	// Changing the date keeps the preference for +01:00; on a regular day it is ignored.
	moved, err := z.WithDate(MustLocalDate(2024, time.October, 28)).Resolve()
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.October, 28, 1, 30), moved.Instant())

	retimed := z.WithTime(MustLocalTime(2, 10, 0, 0))
	pref, ok := retimed.PreferredOffset()
	require.True(t, ok)
	require.Equal(t, cet, pref)
	r, err := retimed.Resolve()
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.October, 27, 1, 10), r.Instant())
}

func TestAtStartOfDayIn(t *testing.T) {
	start, err := MustLocalDate(2024, time.October, 6).AtStartOfDayIn(midnightGap)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.October, 6, 3, 0), start)

	start, err = MustLocalDate(2024, time.October, 7).AtStartOfDayIn(midnightGap)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.October, 7, 2, 0), start)

	start, err = MustLocalDate(2024, time.October, 5).AtStartOfDayIn(midnightGap)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.October, 5, 3, 0), start)
}

func TestZonedDateTime_Plus(t *testing.T) {
	z, err := utc(2024, time.March, 30, 11, 0).AtZone(berlin)
	require.NoError(t, err)

	day, err := z.Plus(1, period.Day)
	require.NoError(t, err)
	require.Equal(t, "2024-03-31T12:00+02:00[Test/Berlin]", day.String())

	hours, err := z.Plus(24, period.Hour)
	require.NoError(t, err)
	require.Equal(t, "2024-03-31T13:00+02:00[Test/Berlin]", hours.String())

	require.EqualValues(t, 23, z.Until(day, period.Hour))
	require.EqualValues(t, 1, z.Until(day, period.Day))
	require.EqualValues(t, 1, z.Until(hours, period.Day))
}

func TestZonedDateTime_UntilCorrectsAcrossGap(t *testing.T) {
	a, err := MustLocalDateTime(2024, time.March, 30, 2, 30, 0, 0).AtZone(berlin).Resolve()
	require.NoError(t, err)
	b, err := MustLocalDateTime(2024, time.March, 31, 3, 10, 0, 0).AtZone(berlin).Resolve()
	require.NoError(t, err)

	// The readings are a day apart, but adding a day to a lands after b.
	require.EqualValues(t, 0, a.Until(b, period.Day))
	p, err := a.PeriodUntil(b)
	require.NoError(t, err)
	require.Equal(t, "PT23H40M", p.String())

	back, err := a.PlusPeriod(p)
	require.NoError(t, err)
	require.Equal(t, b.Instant(), back.Instant())
}

func TestZonedDateTime_PlusPeriodChainsResolvedSteps(t *testing.T) {
	z, err := MustLocalDateTime(2024, time.January, 31, 2, 30, 0, 0).AtZone(berlin).Resolve()
	require.NoError(t, err)

	months, err := z.Plus(2, period.Month)
	require.NoError(t, err)
	require.Equal(t, "2024-03-31T03:30+02:00[Test/Berlin]", months.String())
	stepwise, err := months.Plus(1, period.Day)
	require.NoError(t, err)
	require.Equal(t, "2024-04-01T03:30+02:00[Test/Berlin]", stepwise.String())

	p, err := period.Parse("P2M1D")
	require.NoError(t, err)
	whole, err := z.PlusPeriod(p)
	require.NoError(t, err)
	require.Equal(t, stepwise.Instant(), whole.Instant())
	require.Equal(t, utc(2024, time.April, 1, 1, 30), whole.Instant())

	back, err := z.PeriodUntil(stepwise)
	require.NoError(t, err)
	require.Equal(t, "P2M1D", back.String())
}
