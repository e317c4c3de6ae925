// Package unixtime converts between proleptic Gregorian calendar dates and
// days or seconds since the Unix epoch (1970-01-01 00:00:00 UTC).
//
// Leap seconds are ignored. Years are int64 so that every date of the supported
// civil range, and then some, converts without overflow.
package unixtime

// Seconds per unit, as in the time package.
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour

	daysPer400Years = 365*400 + 97
	// daysZeroToEpoch is the number of days from 0000-03-01 to 1970-01-01.
	daysZeroToEpoch = 719468
)

// DaysFromCivil returns the number of days since 1970-01-01 for the given date.
// month is 1-based. The date is not validated.
//
// The computation shifts the year to start in March so that the leap day is the
// last day of the shifted year and works in 400-year eras.
func DaysFromCivil(year int64, month, day int) int64 {
	y := year
	if month <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400 // [0, 399]
	mp := (month + 9) % 12
	doy := int64((153*mp+2)/5 + day - 1)     // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy // [0, 146096]
	return era*daysPer400Years + doe - daysZeroToEpoch
}

// CivilFromDays is the inverse of DaysFromCivil.
func CivilFromDays(days int64) (year int64, month, day int) {
	z := days + daysZeroToEpoch
	era := floorDiv(z, daysPer400Years)
	doe := z - era*daysPer400Years                        // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365 // [0, 399]
	doy := doe - (365*yoe + yoe/4 - yoe/100)               // [0, 365]
	mp := (5*doy + 2) / 153                                // [0, 11]
	day = int(doy - (153*mp+2)/5 + 1)
	if mp < 10 {
		month = int(mp + 3)
	} else {
		month = int(mp - 9)
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

// FromDateTime converts a given date and time to a Unix timestamp, i.e. the number
// of seconds since 1970-01-01 00:00:00 UTC. Hours, minutes and seconds may exceed
// their usual ranges or be negative; they are simply added.
func FromDateTime(year int64, month, day, hour, minute, second int) int64 {
	return DaysFromCivil(year, month, day)*SecondsPerDay +
		int64(hour)*SecondsPerHour + int64(minute)*SecondsPerMinute + int64(second)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
