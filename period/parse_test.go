package period

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cases := []struct {
		text string
		want DateTimePeriod
	}{
		{"P", DateTimePeriod{}},
		{"P0D", DateTimePeriod{}},
		{"P1Y2M3W4D", FromTotals(14, 25, 0)},
		{"P1M", FromTotals(1, 0, 0)},
		{"PT1M", FromTotals(0, 0, nanosPerMinute)},
		{"P2W", FromTotals(0, 14, 0)},
		{"p1y", FromTotals(12, 0, 0)},
		{"+P1D", FromTotals(0, 1, 0)},
		{"-P-1D", FromTotals(0, 1, 0)},
		{"P1M-1D", FromTotals(1, -1, 0)},
		{"PT1.5S", FromTotals(0, 0, 1_500_000_000)},
		{"PT1,5S", FromTotals(0, 0, 1_500_000_000)},
		{"PT-0.5S", FromTotals(0, 0, -500_000_000)},
		{"-PT0.000000001S", FromTotals(0, 0, -1)},
		{"PT36H", FromTotals(0, 0, 36*nanosPerHour)},
		{"-PT2562047H47M16.854775808S", FromTotals(0, 0, math.MinInt64)},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			got, err := Parse(c.text)
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if got != c.want {
				t.Errorf("Parse() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestParse_NegatedComponents(t *testing.T) {
	p, err := Parse("-P1Y2M10DT2H30M")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := Components{Years: -1, Months: -2, Days: -10, Hours: -2, Minutes: -30}
	if diff := cmp.Diff(want, p.Components()); diff != "" {
		t.Errorf("Components() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		text string
		pos  int
	}{
		{"", 0},
		{"1D", 0},
		{"-", 1},
		{"-X", 1},
		{"PT", 2},
		{"P1YT", 4},
		{"P1D1Y", 4},
		{"PT1S2M", 5},
		{"P1H", 2},
		{"PT1H1H", 5},
		{"P1DTT", 4},
		{"PY", 1},
		{"P1", 2},
		{"P-", 2},
		{"P1X", 2},
		{"PT1.S", 4},
		{"PT1.5", 5},
		{"PT1.5M", 5},
		{"PT0.1234567891S", 4},
		{"P99999999999Y", 1},
		{"P99999999999999999999D", 1},
		{"P2147483647W", 0},
		{"P178956971Y", 0},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			_, err := Parse(c.text)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse() error = %v, want *FormatError", err)
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Parse() error does not match ErrFormat")
			}
			if fe.Pos != c.pos {
				t.Errorf("Parse() error at %d, want %d: %v", fe.Pos, c.pos, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("P1Y2M3D")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if want := DateFromTotals(14, 3); got != want {
		t.Errorf("ParseDate() = %v, want %v", got, want)
	}
	// A zero time component is still date-based.
	if _, err := ParseDate("P1DT0S"); err != nil {
		t.Errorf("ParseDate(P1DT0S) failed: %v", err)
	}
	if _, err := ParseDate("P1DT1S"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseDate(P1DT1S) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := ParseDate("P1DT"); !errors.Is(err, ErrFormat) {
		t.Errorf("ParseDate(P1DT) error = %v, want ErrFormat", err)
	}
}

func TestRoundTrip(t *testing.T) {
	periods := []DateTimePeriod{
		{},
		FromTotals(14, 25, 0),
		FromTotals(-14, -25, 0),
		FromTotals(1, -1, 0),
		FromTotals(-5, 3, 1),
		FromTotals(0, 0, -1),
		FromTotals(1, 0, -1_500_000_000),
		FromTotals(1, 0, -500_000_000),
		FromTotals(0, 0, 500_000_000),
		FromTotals(math.MaxInt32, math.MaxInt32, math.MaxInt64),
		FromTotals(math.MinInt32, math.MinInt32, math.MinInt64),
		FromTotals(math.MinInt32, 0, 0),
		FromTotals(math.MaxInt32, math.MinInt32, 1),
		FromDuration(90*60*1e9 + 7),
	}
	for _, p := range periods {
		text := p.String()
		got, err := Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", text, err)
			continue
		}
		if got != p {
			t.Errorf("Parse(%q) = %#v, want %#v", text, got, p)
		}
	}
}
