package unixtime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDaysFromCivil(t *testing.T) {
	cases := []struct {
		year       int64
		month, day int
		want       int64
	}{
		{1970, 1, 1, 0},
		{1969, 12, 31, -1},
		{2000, 3, 1, 11017},
		{2024, 2, 29, 19782},
		{0, 1, 1, -719528},
		{-1, 12, 31, -719529},
	}
	for _, c := range cases {
		if got := DaysFromCivil(c.year, c.month, c.day); got != c.want {
			t.Errorf("DaysFromCivil(%d, %d, %d) = %d, want %d", c.year, c.month, c.day, got, c.want)
		}
	}
}

func TestCivilFromDays_RoundTrip(t *testing.T) {
	type date struct {
		Year       int64
		Month, Day int
	}
	for _, d := range []date{
		{1970, 1, 1},
		{2024, 2, 29},
		{1900, 2, 28},
		{-4713, 11, 24},
		{999_999_999, 12, 31},
		{-999_999_999, 1, 1},
	} {
		days := DaysFromCivil(d.Year, d.Month, d.Day)
		y, m, dd := CivilFromDays(days)
		if diff := cmp.Diff(d, date{y, m, dd}); diff != "" {
			t.Errorf("CivilFromDays(DaysFromCivil(%+v)) mismatch (-want +got):\n%s", d, diff)
		}
	}
}

func TestFromDateTime(t *testing.T) {
	// 2038-01-19 03:14:07 UTC is the largest 32-bit Unix time.
	if got, want := FromDateTime(2038, 1, 19, 3, 14, 7), int64(1<<31-1); got != want {
		t.Errorf("FromDateTime() = %d, want %d", got, want)
	}
}

func TestWeekdayRules(t *testing.T) {
	if got := Weekday(DaysFromCivil(2024, 10, 15)); got != time.Tuesday {
		t.Errorf("Weekday(2024-10-15) = %v, want Tuesday", got)
	}
	// Last Sunday of March 2021.
	if got := LastWeekdayOfMonth(2021, 3, time.Sunday); got != 28 {
		t.Errorf("LastWeekdayOfMonth(2021, 3, Sunday) = %d, want 28", got)
	}
	// Second Sunday of March 2024 (US DST start).
	if got := NthWeekdayOfMonth(2024, 3, 2, time.Sunday); got != 10 {
		t.Errorf("NthWeekdayOfMonth(2024, 3, 2, Sunday) = %d, want 10", got)
	}
	// Fifth Sunday of October 2024 means the last one.
	if got := NthWeekdayOfMonth(2024, 10, 5, time.Sunday); got != 27 {
		t.Errorf("NthWeekdayOfMonth(2024, 10, 5, Sunday) = %d, want 27", got)
	}
}
