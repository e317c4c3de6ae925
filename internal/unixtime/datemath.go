package unixtime

import "time"

// IsLeapYear determines if the year is a leap year.
func IsLeapYear(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a given month for a specific year.
func DaysInMonth(year int64, month int) int {
	if month == 2 {
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// Weekday returns the day of the week of the given day since the epoch.
func Weekday(days int64) time.Weekday {
	// 1970-01-01 was a Thursday.
	return time.Weekday(floorMod(days+int64(time.Thursday), 7))
}

// LastWeekdayOfMonth finds the last instance of a given weekday in a specific month and year.
func LastWeekdayOfMonth(year int64, month int, weekday time.Weekday) int {
	lastDay := DaysInMonth(year, month)
	lastDayWeekday := Weekday(DaysFromCivil(year, month, lastDay))

	// How many days to subtract from the last day to get the last instance of the given weekday.
	offset := (int(lastDayWeekday) - int(weekday) + 7) % 7
	return lastDay - offset
}

// NthWeekdayOfMonth returns the day of the n-th (1-based) occurrence of weekday in the
// month. If the month has fewer than n occurrences, the last one is returned, which
// makes n = 5 mean "last".
func NthWeekdayOfMonth(year int64, month, n int, weekday time.Weekday) int {
	firstWeekday := Weekday(DaysFromCivil(year, month, 1))
	day := 1 + (int(weekday)-int(firstWeekday)+7)%7 + (n-1)*7
	for day > DaysInMonth(year, month) {
		day -= 7
	}
	return day
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
