package datetime

import (
	"strconv"
	"strings"
)

const maxOffsetSeconds = 18 * 60 * 60

// UtcOffset is the difference between a civil time and UTC, between -18:00 and +18:00.
type UtcOffset struct {
	seconds int32
}

// UTCOffset is the zero offset.
var UTCOffset = UtcOffset{}

// NewUtcOffset returns the offset hours:minutes:seconds. All non-zero
// components must have the same sign.
func NewUtcOffset(hours, minutes, seconds int) (UtcOffset, error) {
	switch {
	case hours < -18 || hours > 18:
		return UtcOffset{}, invalidArgument("offset hours %d out of range", hours)
	case minutes < -59 || minutes > 59:
		return UtcOffset{}, invalidArgument("offset minutes %d out of range", minutes)
	case seconds < -59 || seconds > 59:
		return UtcOffset{}, invalidArgument("offset seconds %d out of range", seconds)
	}
	if mixedSigns(hours, minutes, seconds) {
		return UtcOffset{}, invalidArgument("offset components %d:%d:%d have different signs", hours, minutes, seconds)
	}
	return UtcOffsetFromSeconds(hours*3600 + minutes*60 + seconds)
}

func mixedSigns(values ...int) bool {
	var pos, neg bool
	for _, v := range values {
		pos = pos || v > 0
		neg = neg || v < 0
	}
	return pos && neg
}

// UtcOffsetFromSeconds returns the offset of the given total seconds.
func UtcOffsetFromSeconds(seconds int) (UtcOffset, error) {
	if seconds < -maxOffsetSeconds || seconds > maxOffsetSeconds {
		return UtcOffset{}, invalidArgument("offset of %d seconds is not within -18:00..+18:00", seconds)
	}
	return UtcOffset{seconds: int32(seconds)}, nil
}

// MustUtcOffset is like NewUtcOffset but panics on error.
func MustUtcOffset(hours, minutes, seconds int) UtcOffset {
	o, err := NewUtcOffset(hours, minutes, seconds)
	if err != nil {
		panic(err)
	}
	return o
}

// TotalSeconds returns the offset in seconds.
func (o UtcOffset) TotalSeconds() int { return int(o.seconds) }

// String returns "Z" for the zero offset and "+HH:MM" or "+HH:MM:SS" otherwise.
func (o UtcOffset) String() string {
	if o.seconds == 0 {
		return "Z"
	}
	var b strings.Builder
	appendOffset(&b, o)
	return b.String()
}

func appendOffset(b *strings.Builder, o UtcOffset) {
	s := int(o.seconds)
	if s == 0 {
		b.WriteByte('Z')
		return
	}
	if s < 0 {
		b.WriteByte('-')
		s = -s
	} else {
		b.WriteByte('+')
	}
	appendPadded(b, int64(s/3600), 2)
	b.WriteByte(':')
	appendPadded(b, int64(s/60%60), 2)
	if s%60 != 0 {
		b.WriteByte(':')
		appendPadded(b, int64(s%60), 2)
	}
}

func appendPadded(b *strings.Builder, v int64, width int) {
	s := strconv.FormatInt(v, 10)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}
