package datetime

import (
	"strings"

	"github.com/ngrash/go-datetime/internal/unixtime"
)

const (
	nanosPerSecond = 1_000_000_000
	nanosPerDay    = unixtime.SecondsPerDay * nanosPerSecond
)

// LocalTime is a time of day without a date or zone, with nanosecond precision.
// The zero value is midnight.
type LocalTime struct {
	hour, minute, second uint8
	nanosecond           int32
}

// Midnight is the start of the day.
var Midnight = LocalTime{}

// NewLocalTime returns the time hour:minute:second.nanosecond.
func NewLocalTime(hour, minute, second, nanosecond int) (LocalTime, error) {
	switch {
	case hour < 0 || hour > 23:
		return LocalTime{}, invalidArgument("hour %d out of range", hour)
	case minute < 0 || minute > 59:
		return LocalTime{}, invalidArgument("minute %d out of range", minute)
	case second < 0 || second > 59:
		return LocalTime{}, invalidArgument("second %d out of range", second)
	case nanosecond < 0 || nanosecond >= nanosPerSecond:
		return LocalTime{}, invalidArgument("nanosecond %d out of range", nanosecond)
	}
	return LocalTime{hour: uint8(hour), minute: uint8(minute), second: uint8(second), nanosecond: int32(nanosecond)}, nil
}

// MustLocalTime is like NewLocalTime but panics on error.
func MustLocalTime(hour, minute, second, nanosecond int) LocalTime {
	t, err := NewLocalTime(hour, minute, second, nanosecond)
	if err != nil {
		panic(err)
	}
	return t
}

// LocalTimeFromNanosecondOfDay returns the time that is ns nanoseconds after midnight.
func LocalTimeFromNanosecondOfDay(ns int64) (LocalTime, error) {
	if ns < 0 || ns >= nanosPerDay {
		return LocalTime{}, invalidArgument("nanosecond of day %d out of range", ns)
	}
	return localTimeOfDay(ns), nil
}

func localTimeOfDay(ns int64) LocalTime {
	sec := ns / nanosPerSecond
	return LocalTime{
		hour:       uint8(sec / unixtime.SecondsPerHour),
		minute:     uint8(sec / unixtime.SecondsPerMinute % 60),
		second:     uint8(sec % 60),
		nanosecond: int32(ns % nanosPerSecond),
	}
}

func (t LocalTime) Hour() int       { return int(t.hour) }
func (t LocalTime) Minute() int     { return int(t.minute) }
func (t LocalTime) Second() int     { return int(t.second) }
func (t LocalTime) Nanosecond() int { return int(t.nanosecond) }

// SecondOfDay returns the whole seconds since midnight.
func (t LocalTime) SecondOfDay() int {
	return int(t.hour)*unixtime.SecondsPerHour + int(t.minute)*unixtime.SecondsPerMinute + int(t.second)
}

// NanosecondOfDay returns the nanoseconds since midnight.
func (t LocalTime) NanosecondOfDay() int64 {
	return int64(t.SecondOfDay())*nanosPerSecond + int64(t.nanosecond)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after other.
func (t LocalTime) Compare(other LocalTime) int {
	return cmpInt(t.NanosecondOfDay(), other.NanosecondOfDay())
}

func (t LocalTime) Before(other LocalTime) bool { return t.Compare(other) < 0 }
func (t LocalTime) After(other LocalTime) bool  { return t.Compare(other) > 0 }

// String returns "HH:MM" when seconds and nanoseconds are zero, "HH:MM:SS"
// otherwise, followed by a fraction in groups of three digits if needed.
func (t LocalTime) String() string {
	var b strings.Builder
	appendTime(&b, t, false)
	return b.String()
}

func appendTime(b *strings.Builder, t LocalTime, withSeconds bool) {
	appendPadded(b, int64(t.hour), 2)
	b.WriteByte(':')
	appendPadded(b, int64(t.minute), 2)
	if !withSeconds && t.second == 0 && t.nanosecond == 0 {
		return
	}
	b.WriteByte(':')
	appendPadded(b, int64(t.second), 2)
	if t.nanosecond == 0 {
		return
	}
	b.WriteByte('.')
	ns, width := int64(t.nanosecond), 9
	for ns%1000 == 0 {
		ns /= 1000
		width -= 3
	}
	appendPadded(b, ns, width)
}
