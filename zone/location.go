package zone

import (
	"time"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/internal/unixtime"
)

const maxOffsetSeconds = 18 * 60 * 60

// locationZone adapts a *time.Location. The location does not expose its
// transitions, so they are searched for between probes a day apart.
type locationZone struct {
	loc *time.Location
}

// FromLocation returns a zone that takes its offsets from loc. At most one
// transition within a day of a reading is detected, which holds for every
// zone in the IANA database. Offsets beyond ±18:00 are clamped.
func FromLocation(loc *time.Location) datetime.TimeZone { return locationZone{loc: loc} }

func (z locationZone) ID() string     { return z.loc.String() }
func (z locationZone) String() string { return z.loc.String() }

func (z locationZone) OffsetAt(i datetime.Instant) datetime.UtcOffset {
	return z.offsetAt(i.EpochSeconds())
}

func (z locationZone) offsetAt(sec int64) datetime.UtcOffset {
	_, off := time.Unix(sec, 0).In(z.loc).Zone()
	o, _ := datetime.UtcOffsetFromSeconds(min(max(off, -maxOffsetSeconds), maxOffsetSeconds))
	return o
}

func (z locationZone) OffsetInfo(dt datetime.LocalDateTime) datetime.OffsetInfo {
	ls := localSeconds(dt)
	lo, hi := ls-unixtime.SecondsPerDay, ls+unixtime.SecondsPerDay
	before, after := z.offsetAt(lo), z.offsetAt(hi)
	if before == after {
		return datetime.RegularOffset(before)
	}
	// The offset at lo holds up to the transition; find its first second.
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if z.offsetAt(mid) == before {
			lo = mid
		} else {
			hi = mid
		}
	}
	return offsetInfo(ls, []transition{{at: hi, before: before, after: z.offsetAt(hi)}})
}
