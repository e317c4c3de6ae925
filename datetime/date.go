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
	minYear = -999_999_999
	maxYear = 999_999_999
)

var (
	minEpochDay = unixtime.DaysFromCivil(minYear, 1, 1)
	maxEpochDay = unixtime.DaysFromCivil(maxYear, 12, 31)
)

// LocalDate is a date in the proleptic Gregorian calendar, without a time or zone.
// Years range from -999,999,999 to 999,999,999.
//
// LocalDate values are comparable with ==.
type LocalDate struct {
	year  int32
	month time.Month
	day   uint8
}

var (
	MinLocalDate = LocalDate{year: minYear, month: time.January, day: 1}
	MaxLocalDate = LocalDate{year: maxYear, month: time.December, day: 31}
)

// NewLocalDate returns the date year-month-day.
func NewLocalDate(year int, month time.Month, day int) (LocalDate, error) {
	if year < minYear || year > maxYear {
		return LocalDate{}, invalidArgument("year %d out of range", year)
	}
	if month < time.January || month > time.December {
		return LocalDate{}, invalidArgument("month %d out of range", month)
	}
	if day < 1 || day > unixtime.DaysInMonth(int64(year), int(month)) {
		return LocalDate{}, invalidArgument("day %d out of range for %d-%02d", day, year, int(month))
	}
	return LocalDate{year: int32(year), month: month, day: uint8(day)}, nil
}

// MustLocalDate is like NewLocalDate but panics on error.
func MustLocalDate(year int, month time.Month, day int) LocalDate {
	d, err := NewLocalDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// LocalDateFromEpochDays returns the date that is days after 1970-01-01.
func LocalDateFromEpochDays(days int64) (LocalDate, error) {
	if days < minEpochDay || days > maxEpochDay {
		return LocalDate{}, invalidArgument("epoch day %d out of range", days)
	}
	y, m, d := unixtime.CivilFromDays(days)
	return LocalDate{year: int32(y), month: time.Month(m), day: uint8(d)}, nil
}

func (d LocalDate) Year() int          { return int(d.year) }
func (d LocalDate) Month() time.Month  { return d.month }
func (d LocalDate) Day() int           { return int(d.day) }
func (d LocalDate) IsLeap() bool       { return unixtime.IsLeapYear(int64(d.year)) }
func (d LocalDate) LengthOfMonth() int { return unixtime.DaysInMonth(int64(d.year), int(d.month)) }

// EpochDays returns the number of days since 1970-01-01.
func (d LocalDate) EpochDays() int64 {
	return unixtime.DaysFromCivil(int64(d.year), int(d.month), int(d.day))
}

// DayOfWeek returns the ISO day of the week.
func (d LocalDate) DayOfWeek() time.Weekday { return unixtime.Weekday(d.EpochDays()) }

// DayOfYear returns the day of the year, starting at 1.
func (d LocalDate) DayOfYear() int {
	return int(d.EpochDays()-unixtime.DaysFromCivil(int64(d.year), 1, 1)) + 1
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d LocalDate) Compare(other LocalDate) int {
	switch {
	case d.year != other.year:
		return cmpInt(int64(d.year), int64(other.year))
	case d.month != other.month:
		return cmpInt(int64(d.month), int64(other.month))
	default:
		return cmpInt(int64(d.day), int64(other.day))
	}
}

func (d LocalDate) Before(other LocalDate) bool { return d.Compare(other) < 0 }
func (d LocalDate) After(other LocalDate) bool  { return d.Compare(other) > 0 }

// AtTime combines d with a time of day.
func (d LocalDate) AtTime(t LocalTime) LocalDateTime { return LocalDateTime{date: d, time: t} }

// AtStartOfDay returns midnight of d.
func (d LocalDate) AtStartOfDay() LocalDateTime { return LocalDateTime{date: d} }

// AtStartOfDayIn returns the first instant of d in tz. That is midnight unless
// a gap swallows midnight, in which case it is the instant the gap ends.
func (d LocalDate) AtStartOfDayIn(tz TimeZone) (Instant, error) {
	midnight := d.AtStartOfDay()
	info := tz.OffsetInfo(midnight)
	if info.Kind == Gap {
		return info.Transition, nil
	}
	return midnight.toInstant(info.earliest()), nil
}

// Plus returns d moved by value units. It fails with an *ArithmeticError when
// the result does not fit the supported range.
func (d LocalDate) Plus(value int64, unit period.DateBased) (LocalDate, error) {
	r, err := d.plus(value, unit)
	if err != nil {
		return LocalDate{}, arithmeticError(err, "add %d of %v to %v", value, unit, d)
	}
	return r, nil
}

func (d LocalDate) plus(value int64, unit period.DateBased) (LocalDate, error) {
	if err := period.CheckUnit(unit); err != nil {
		return LocalDate{}, err
	}
	switch u := unit.(type) {
	case period.DayBased:
		days, err := safemath.Mul64(value, int64(u.Days()))
		if err != nil {
			return LocalDate{}, err
		}
		return d.plusDays(days)
	case period.MonthBased:
		months, err := safemath.Mul64(value, int64(u.Months()))
		if err != nil {
			return LocalDate{}, err
		}
		return d.plusMonths(months)
	}
	panic("unreachable")
}

// Minus returns d moved back by value units.
func (d LocalDate) Minus(value int64, unit period.DateBased) (LocalDate, error) {
	if value != math.MinInt64 {
		return d.Plus(-value, unit)
	}
	r, err := d.Plus(-(value + 1), unit)
	if err != nil {
		return LocalDate{}, err
	}
	return r.Plus(1, unit)
}

// PlusPeriod adds the months of p first and its days second. The day of month
// is clamped to the length of the month after adding months, so 2023-01-31
// plus P1M-1D is 2023-02-27, not 2023-02-28.
func (d LocalDate) PlusPeriod(p period.DatePeriod) (LocalDate, error) {
	r, err := d.plusMonths(int64(p.TotalMonths()))
	if err == nil {
		r, err = r.plusDays(int64(p.Days()))
	}
	if err != nil {
		return LocalDate{}, arithmeticError(err, "add %v to %v", p, d)
	}
	return r, nil
}

// MinusPeriod subtracts p. Periods whose components cannot be negated are
// subtracted component by component: years, then months, then days.
func (d LocalDate) MinusPeriod(p period.DatePeriod) (LocalDate, error) {
	if p.TotalMonths() != math.MinInt32 && p.Days() != math.MinInt32 {
		neg, err := p.Negate()
		if err != nil {
			return LocalDate{}, arithmeticError(err, "subtract %v from %v", p, d)
		}
		return d.PlusPeriod(neg)
	}
	r, err := d.Minus(int64(p.Years()), period.Year)
	if err == nil {
		r, err = r.Minus(int64(p.Months()), period.Month)
	}
	if err == nil {
		r, err = r.Minus(int64(p.Days()), period.Day)
	}
	if err != nil {
		return LocalDate{}, arithmeticError(err, "subtract %v from %v", p, d)
	}
	return r, nil
}

func (d LocalDate) plusDays(days int64) (LocalDate, error) {
	if days == 0 {
		return d, nil
	}
	e, err := safemath.Add64(d.EpochDays(), days)
	if err != nil {
		return LocalDate{}, err
	}
	if e < minEpochDay || e > maxEpochDay {
		return LocalDate{}, ErrOutOfRange
	}
	return LocalDateFromEpochDays(e)
}

func (d LocalDate) prolepticMonth() int64 { return int64(d.year)*12 + int64(d.month-1) }

func (d LocalDate) plusMonths(months int64) (LocalDate, error) {
	if months == 0 {
		return d, nil
	}
	total, err := safemath.Add64(d.prolepticMonth(), months)
	if err != nil {
		return LocalDate{}, err
	}
	year := safemath.FloorDiv(total, 12)
	if year < minYear || year > maxYear {
		return LocalDate{}, ErrOutOfRange
	}
	month := int(safemath.FloorMod(total, 12)) + 1
	day := min(int(d.day), unixtime.DaysInMonth(year, month))
	return LocalDate{year: int32(year), month: time.Month(month), day: uint8(day)}, nil
}

// Until returns the number of whole units from d to other. It is negative if
// other is before d. Counting never fails.
func (d LocalDate) Until(other LocalDate, unit period.DateBased) int64 {
	switch u := unit.(type) {
	case period.DayBased:
		if u.Days() > 0 {
			return d.daysUntil(other) / int64(u.Days())
		}
	case period.MonthBased:
		if u.Months() > 0 {
			return d.monthsUntil(other) / int64(u.Months())
		}
	}
	panic("datetime: invalid unit " + unitName(unit))
}

func (d LocalDate) daysUntil(other LocalDate) int64 { return other.EpochDays() - d.EpochDays() }

func (d LocalDate) monthsUntil(other LocalDate) int64 {
	packed1 := d.prolepticMonth()*32 + int64(d.day)
	packed2 := other.prolepticMonth()*32 + int64(other.day)
	return (packed2 - packed1) / 32
}

// DaysUntil returns the whole days from d to other, clamped to the int32 range.
func (d LocalDate) DaysUntil(other LocalDate) int {
	return int(safemath.ClampToInt32(d.daysUntil(other)))
}

// MonthsUntil returns the whole months from d to other, clamped to the int32 range.
func (d LocalDate) MonthsUntil(other LocalDate) int {
	return int(safemath.ClampToInt32(d.monthsUntil(other)))
}

// YearsUntil returns the whole years from d to other, clamped to the int32 range.
func (d LocalDate) YearsUntil(other LocalDate) int {
	return int(safemath.ClampToInt32(d.monthsUntil(other) / 12))
}

// PeriodUntil returns the period p with d.PlusPeriod(p) == other. Its
// components all have the sign of the distance. It fails only when the
// number of months does not fit into an int32.
func (d LocalDate) PeriodUntil(other LocalDate) (period.DatePeriod, error) {
	months := d.monthsUntil(other)
	m, err := safemath.ToInt32(months)
	if err != nil {
		return period.DatePeriod{}, arithmeticError(err, "period from %v to %v", d, other)
	}
	mid, err := d.plusMonths(months)
	if err != nil {
		return period.DatePeriod{}, arithmeticError(err, "period from %v to %v", d, other)
	}
	return period.DateFromTotals(m, int32(mid.daysUntil(other))), nil
}

// String returns the ISO-8601 form, e.g. "2024-01-31" or "+12345-06-07".
func (d LocalDate) String() string {
	var b strings.Builder
	appendDate(&b, int64(d.year), int(d.month), int(d.day))
	return b.String()
}

func appendDate(b *strings.Builder, year int64, month, day int) {
	switch {
	case year > 9999:
		b.WriteByte('+')
		appendPadded(b, year, 4)
	case year < 0:
		b.WriteByte('-')
		appendPadded(b, -year, 4)
	default:
		appendPadded(b, year, 4)
	}
	b.WriteByte('-')
	appendPadded(b, int64(month), 2)
	b.WriteByte('-')
	appendPadded(b, int64(day), 2)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func unitName(u period.DateTimeUnit) string {
	if u == nil {
		return "<nil>"
	}
	return u.String()
}
