package datetime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-datetime/period"
)

func TestInstant_Construction(t *testing.T) {
	i := InstantFromEpochSeconds(0, -1)
	require.EqualValues(t, -1, i.EpochSeconds())
	require.Equal(t, 999_999_999, i.Nanosecond())

	require.Equal(t, MaxInstant, InstantFromEpochSeconds(math.MaxInt64, 0))
	require.Equal(t, MinInstant, InstantFromEpochSeconds(math.MinInt64, -1))

	ms := InstantFromEpochMilliseconds(-1500)
	require.EqualValues(t, -2, ms.EpochSeconds())
	require.Equal(t, 500_000_000, ms.Nanosecond())
	require.EqualValues(t, -1500, ms.EpochMilliseconds())
	require.EqualValues(t, math.MaxInt64, MaxInstant.EpochMilliseconds())

	tm := time.Date(2024, time.January, 31, 9, 15, 30, 42, time.UTC)
	require.True(t, tm.Equal(InstantFromTime(tm).Time()))
}

func TestInstant_String(t *testing.T) {
	for _, c := range []struct {
		in   Instant
		want string
	}{
		{Instant{}, "1970-01-01T00:00:00Z"},
		{InstantFromEpochMilliseconds(1500), "1970-01-01T00:00:01.500Z"},
		{InstantFromEpochSeconds(-1, 0), "1969-12-31T23:59:59Z"},
		{InstantFromEpochSeconds(0, 1), "1970-01-01T00:00:00.000000001Z"},
		{utc(2024, time.February, 29, 23, 59), "2024-02-29T23:59:00Z"},
	} {
		require.Equal(t, c.want, c.in.String())
	}
}

func TestParseInstant(t *testing.T) {
	i, err := ParseInstant("2024-01-31T10:15:30+01:00")
	require.NoError(t, err)
	require.Equal(t, InstantFromTime(time.Date(2024, time.January, 31, 9, 15, 30, 0, time.UTC)), i)

	i, err = ParseInstant("2024-01-31T10:15:30.25Z")
	require.NoError(t, err)
	require.Equal(t, InstantFromTime(time.Date(2024, time.January, 31, 10, 15, 30, 250_000_000, time.UTC)), i)

	_, err = ParseInstant("2024-01-31T10:15:30")
	require.ErrorIs(t, err, ErrFormat)
}

func TestInstant_Saturation(t *testing.T) {
	require.EqualValues(t, math.MaxInt64, MinInstant.Until(MaxInstant, period.Nanosecond))
	require.EqualValues(t, math.MinInt64, MaxInstant.Until(MinInstant, period.Nanosecond))
	require.EqualValues(t, 63_113_904_031_622_399, MinInstant.Until(MaxInstant, period.Second))
	require.Zero(t, MaxInstant.Until(MaxInstant, period.Nanosecond))

	require.Equal(t, MaxInstant, MaxInstant.Plus(1, period.Second))
	require.Equal(t, MinInstant, MinInstant.Minus(1, period.Nanosecond))
	require.Equal(t, MaxInstant, Instant{}.Plus(math.MaxInt64, period.Hour))

	require.Equal(t, time.Duration(math.MaxInt64), MaxInstant.Sub(MinInstant))
	require.Equal(t, time.Duration(math.MinInt64), MinInstant.Sub(MaxInstant))
	require.Equal(t, time.Hour, utc(2024, time.March, 31, 1, 0).Sub(utc(2024, time.March, 31, 0, 0)))
}

func TestInstant_Until(t *testing.T) {
	a := InstantFromEpochSeconds(10, 0)
	require.EqualValues(t, 0, a.Until(InstantFromEpochSeconds(9, 1), period.Second))
	require.EqualValues(t, -1, a.Until(InstantFromEpochSeconds(9, 0), period.Second))
	require.EqualValues(t, 1_500, a.Until(InstantFromEpochSeconds(11, 500_000_000), period.Millisecond))
}

func TestInstant_MinusExtremes(t *testing.T) {
	want := InstantFromEpochSeconds(9_223_372_036, 854_775_808)
	require.Equal(t, want, Instant{}.Minus(math.MinInt64, period.Nanosecond))

	got, err := Instant{}.MinusPeriod(period.FromTotals(0, 0, math.MinInt64), UTC)
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = Instant{}.MinusIn(math.MinInt64, period.Nanosecond, UTC)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestInstant_PlusIn(t *testing.T) {
	start := utc(2024, time.March, 30, 11, 0)

	day, err := start.PlusIn(1, period.Day, berlin)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.March, 31, 10, 0), day)

	hours, err := start.PlusIn(24, period.Hour, berlin)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.March, 31, 11, 0), hours)

	// In UTC a day is always 24 hours.
	day, err = start.PlusIn(1, period.Day, UTC)
	require.NoError(t, err)
	require.Equal(t, hours, day)

	for _, c := range []struct {
		value int64
		unit  period.DateTimeUnit
	}{
		{math.MaxInt64, period.Day},
		{math.MaxInt64, period.Second},
		{math.MaxInt64, period.Century},
		{1_000_000_000, period.Year},
	} {
		_, err := start.PlusIn(c.value, c.unit, berlin)
		require.ErrorIs(t, err, ErrArithmetic, "%d %v", c.value, c.unit)
	}
}

func TestInstant_PeriodArithmetic(t *testing.T) {
	start := utc(2024, time.March, 30, 11, 0)

	p, err := period.Parse("P1D")
	require.NoError(t, err)
	got, err := start.PlusPeriod(p, berlin)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.March, 31, 10, 0), got)

	p, err = period.Parse("PT24H")
	require.NoError(t, err)
	got, err = start.PlusPeriod(p, berlin)
	require.NoError(t, err)
	require.Equal(t, utc(2024, time.March, 31, 11, 0), got)

	back, err := got.MinusPeriod(p, berlin)
	require.NoError(t, err)
	require.Equal(t, start, back)

	_, err = MaxInstant.PlusPeriod(p, UTC)
	require.ErrorIs(t, err, ErrArithmetic)
}

func TestInstant_DistancesInZone(t *testing.T) {
	a := utc(2024, time.March, 30, 11, 0)
	b := utc(2024, time.March, 31, 10, 0)

	require.Equal(t, 1, a.DaysUntil(b, berlin))
	require.Equal(t, 0, a.DaysUntil(b, UTC))
	require.EqualValues(t, 23, a.UntilIn(b, period.Hour, berlin))
	require.Equal(t, 0, a.MonthsUntil(b, berlin))
	require.Equal(t, -1, utc(2025, time.March, 30, 11, 0).YearsUntil(a, berlin))

	p, err := a.PeriodUntil(b, berlin)
	require.NoError(t, err)
	require.Equal(t, "P1D", p.String())

	p, err = a.PeriodUntil(b, UTC)
	require.NoError(t, err)
	require.Equal(t, "PT23H", p.String())

	require.EqualValues(t, math.MaxInt64, MinInstant.UntilIn(MaxInstant, period.Day, UTC))
	require.Equal(t, math.MaxInt32, MinInstant.DaysUntil(MaxInstant, UTC))
	require.Equal(t, math.MinInt32, MaxInstant.MonthsUntil(MinInstant, UTC))
}

func TestInstant_PeriodUntilRoundTrip(t *testing.T) {
	instants := []Instant{
		utc(2024, time.January, 31, 22, 45),
		utc(2024, time.March, 30, 1, 30),
		utc(2024, time.March, 31, 0, 59),
		utc(2024, time.March, 31, 1, 0),
		utc(2024, time.October, 27, 0, 30),
		utc(2024, time.October, 27, 1, 30),
		utc(2025, time.February, 28, 12, 0),
	}
	for _, a := range instants {
		for _, b := range instants {
			p, err := a.PeriodUntil(b, berlin)
			require.NoError(t, err)
			got, err := a.PlusPeriod(p, berlin)
			require.NoError(t, err)
			require.Equal(t, b, got, "%v + %v", a, p)

			switch c := a.Compare(b); {
			case c < 0:
				require.True(t, p.TotalMonths() >= 0 && p.Days() >= 0 && p.TotalNanoseconds() >= 0, "%v until %v = %v", a, b, p)
			case c > 0:
				require.True(t, p.TotalMonths() <= 0 && p.Days() <= 0 && p.TotalNanoseconds() <= 0, "%v until %v = %v", a, b, p)
			default:
				require.True(t, p.IsZero())
			}
		}
	}
}
