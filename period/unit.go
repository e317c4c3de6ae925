package period

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ngrash/go-datetime/internal/safemath"
)

// DateTimeUnit is a unit for measuring time: either a TimeBased unit with an exact
// length in nanoseconds, or a DateBased unit (DayBased or MonthBased) whose length
// depends on the calendar.
//
// The magnitude of a unit is always strictly positive. Direction is expressed by the
// value a unit is multiplied with, never by the unit itself. The zero values of the
// concrete unit types are not valid units.
type DateTimeUnit interface {
	fmt.Stringer
	isDateTimeUnit()
}

// DateBased is a DateTimeUnit that is a multiple of days or months.
type DateBased interface {
	DateTimeUnit
	isDateBased()
}

var (
	_ DateTimeUnit = TimeBased{}
	_ DateBased    = DayBased{}
	_ DateBased    = MonthBased{}
)

// Predefined units.
var (
	Nanosecond  = TimeBased{nanoseconds: 1}
	Microsecond = TimeBased{nanoseconds: 1_000}
	Millisecond = TimeBased{nanoseconds: 1_000_000}
	Second      = TimeBased{nanoseconds: nanosPerSecond}
	Minute      = TimeBased{nanoseconds: nanosPerMinute}
	Hour        = TimeBased{nanoseconds: nanosPerHour}

	Day  = DayBased{days: 1}
	Week = DayBased{days: 7}

	Month   = MonthBased{months: 1}
	Quarter = MonthBased{months: 3}
	Year    = MonthBased{months: 12}
	Century = MonthBased{months: 1200}
)

const (
	nanosPerSecond = 1_000_000_000
	nanosPerMinute = 60 * nanosPerSecond
	nanosPerHour   = 60 * nanosPerMinute
)

// TimeBased is a unit with a precise length in nanoseconds.
type TimeBased struct {
	nanoseconds int64
}

// NewTimeBased returns a unit of the given length. The length must be positive.
func NewTimeBased(nanoseconds int64) (TimeBased, error) {
	if nanoseconds <= 0 {
		return TimeBased{}, invalidArgument("unit duration must be positive, but was %d ns", nanoseconds)
	}
	return TimeBased{nanoseconds: nanoseconds}, nil
}

// Nanoseconds returns the length of the unit.
func (u TimeBased) Nanoseconds() int64 { return u.nanoseconds }

// Duration returns the length of the unit as a time.Duration.
func (u TimeBased) Duration() time.Duration { return time.Duration(u.nanoseconds) }

// Times returns a unit that is scalar times as long as u.
func (u TimeBased) Times(scalar int32) (TimeBased, error) {
	n, err := safemath.Mul64(u.nanoseconds, int64(scalar))
	if err != nil {
		return TimeBased{}, &ArithmeticError{Op: fmt.Sprintf("multiply %v by %d", u, scalar), Err: err}
	}
	return NewTimeBased(n)
}

// String renders the unit using the largest named unit that divides it evenly,
// e.g. "HOUR", "90-MINUTE" or "1500-MICROSECOND".
func (u TimeBased) String() string {
	ns := u.nanoseconds
	switch {
	case ns%nanosPerHour == 0:
		return formatUnit(ns/nanosPerHour, "HOUR")
	case ns%nanosPerMinute == 0:
		return formatUnit(ns/nanosPerMinute, "MINUTE")
	case ns%nanosPerSecond == 0:
		return formatUnit(ns/nanosPerSecond, "SECOND")
	case ns%1_000_000 == 0:
		return formatUnit(ns/1_000_000, "MILLISECOND")
	case ns%1_000 == 0:
		return formatUnit(ns/1_000, "MICROSECOND")
	default:
		return formatUnit(ns, "NANOSECOND")
	}
}

func (TimeBased) isDateTimeUnit() {}

// valid reports whether u was built by a constructor rather than being a zero value.
func (u TimeBased) valid() bool { return u.nanoseconds > 0 }

// DayBased is a date-based unit that is a multiple of calendar days.
// A calendar day is not always 24 hours long: across a daylight saving
// transition it may be 23 or 25 hours.
type DayBased struct {
	days int32
}

// NewDayBased returns a unit of the given number of days. The number must be positive.
func NewDayBased(days int32) (DayBased, error) {
	if days <= 0 {
		return DayBased{}, invalidArgument("unit duration must be positive, but was %d days", days)
	}
	return DayBased{days: days}, nil
}

// Days returns the length of the unit in days.
func (u DayBased) Days() int32 { return u.days }

// Times returns a unit that is scalar times as long as u.
func (u DayBased) Times(scalar int32) (DayBased, error) {
	n, err := safemath.Mul32(u.days, scalar)
	if err != nil {
		return DayBased{}, &ArithmeticError{Op: fmt.Sprintf("multiply %v by %d", u, scalar), Err: err}
	}
	return NewDayBased(n)
}

// String renders the unit as weeks when it is a whole number of weeks and as days otherwise.
func (u DayBased) String() string {
	if u.days%7 == 0 {
		return formatUnit(int64(u.days/7), "WEEK")
	}
	return formatUnit(int64(u.days), "DAY")
}

func (DayBased) isDateTimeUnit() {}
func (DayBased) isDateBased()    {}

// MonthBased is a date-based unit that is a multiple of months.
type MonthBased struct {
	months int32
}

// NewMonthBased returns a unit of the given number of months. The number must be positive.
func NewMonthBased(months int32) (MonthBased, error) {
	if months <= 0 {
		return MonthBased{}, invalidArgument("unit duration must be positive, but was %d months", months)
	}
	return MonthBased{months: months}, nil
}

// Months returns the length of the unit in months.
func (u MonthBased) Months() int32 { return u.months }

// Times returns a unit that is scalar times as long as u.
func (u MonthBased) Times(scalar int32) (MonthBased, error) {
	n, err := safemath.Mul32(u.months, scalar)
	if err != nil {
		return MonthBased{}, &ArithmeticError{Op: fmt.Sprintf("multiply %v by %d", u, scalar), Err: err}
	}
	return NewMonthBased(n)
}

// String renders the unit as centuries, years, quarters or months, in that order of preference.
func (u MonthBased) String() string {
	switch {
	case u.months%1200 == 0:
		return formatUnit(int64(u.months/1200), "CENTURY")
	case u.months%12 == 0:
		return formatUnit(int64(u.months/12), "YEAR")
	case u.months%3 == 0:
		return formatUnit(int64(u.months/3), "QUARTER")
	default:
		return formatUnit(int64(u.months), "MONTH")
	}
}

func (MonthBased) isDateTimeUnit() {}
func (MonthBased) isDateBased()    {}

func formatUnit(scale int64, name string) string {
	if scale == 1 {
		return name
	}
	return strconv.FormatInt(scale, 10) + "-" + name
}

// CheckUnit returns an error if u is a zero value of one of the unit types
// rather than a unit built by a constructor or Times.
func CheckUnit(u DateTimeUnit) error {
	switch u := u.(type) {
	case TimeBased:
		if u.valid() {
			return nil
		}
	case DayBased:
		if u.days > 0 {
			return nil
		}
	case MonthBased:
		if u.months > 0 {
			return nil
		}
	case nil:
		return invalidArgument("nil unit")
	}
	return invalidArgument("zero-value unit %T", u)
}
