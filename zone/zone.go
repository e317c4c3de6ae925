// Package zone provides time zones for package datetime: zones read from
// TZif files, zones described by a POSIX TZ string, and adapters for
// *time.Location. A Database loads zones by identifier from a directory laid
// out like /usr/share/zoneinfo.
package zone

import (
	"fmt"
	"math"
	"sort"

	"github.com/ngrash/go-datetime/datetime"
	"github.com/ngrash/go-datetime/internal/unixtime"
	"github.com/ngrash/go-datetime/tzif"
)

// transition is a change of offset at a Unix second.
type transition struct {
	at            int64
	before, after datetime.UtcOffset
}

// Transition is a change of the offset of a zone.
type Transition struct {
	At            datetime.Instant
	Before, After datetime.UtcOffset
}

// Zone is a time zone defined by a table of transitions and, for the time
// after the last of them, a POSIX TZ rule. A Zone is immutable and safe for
// concurrent use.
type Zone struct {
	id          string
	initial     datetime.UtcOffset
	transitions []transition
	rule        *rule
}

var _ datetime.TimeZone = (*Zone)(nil)

// FromTZif returns the zone described by f. The offset before the first
// transition is that of local time type 0. Offsets beyond ±18:00 are rejected.
func FromTZif(id string, f *tzif.File) (*Zone, error) {
	if err := tzif.Validate(f); err != nil {
		return nil, fmt.Errorf("zone %s: %w", id, err)
	}
	offsets := make([]datetime.UtcOffset, len(f.LocalTimeTypes))
	for i, t := range f.LocalTimeTypes {
		o, err := datetime.UtcOffsetFromSeconds(int(t.Offset))
		if err != nil {
			return nil, fmt.Errorf("zone %s: local time type %d: %w", id, i, err)
		}
		offsets[i] = o
	}
	z := &Zone{id: id, initial: offsets[0]}
	before := z.initial
	for i, at := range f.Transitions {
		after := offsets[f.TransitionTypes[i]]
		z.transitions = append(z.transitions, transition{at: at, before: before, after: after})
		before = after
	}
	if f.Footer != "" {
		r, err := parseRule(f.Footer)
		if err != nil {
			return nil, fmt.Errorf("zone %s: footer: %w", id, err)
		}
		z.rule = r
	}
	return z, nil
}

// FromPOSIX returns the zone described by a POSIX TZ string such as
// "EST5EDT,M3.2.0,M11.1.0". The string is also the ID of the zone.
func FromPOSIX(tz string) (*Zone, error) {
	r, err := parseRule(tz)
	if err != nil {
		return nil, err
	}
	return &Zone{id: tz, initial: r.std, rule: r}, nil
}

// Fixed returns a zone with the constant offset o.
func Fixed(o datetime.UtcOffset) datetime.TimeZone { return datetime.FixedOffsetZone{Offset: o} }

func (z *Zone) ID() string     { return z.id }
func (z *Zone) String() string { return z.id }

// OffsetAt returns the offset in effect at i.
func (z *Zone) OffsetAt(i datetime.Instant) datetime.UtcOffset { return z.offsetAt(i.EpochSeconds()) }

func (z *Zone) offsetAt(sec int64) datetime.UtcOffset {
	n := len(z.transitions)
	if z.rule != nil && (n == 0 || sec >= z.transitions[n-1].at) {
		return z.rule.offsetAt(sec)
	}
	k := sort.Search(n, func(k int) bool { return z.transitions[k].at > sec })
	if k == 0 {
		return z.initial
	}
	return z.transitions[k-1].after
}

// OffsetInfo returns the offsets valid for the civil reading dt.
func (z *Zone) OffsetInfo(dt datetime.LocalDateTime) datetime.OffsetInfo {
	ls := localSeconds(dt)
	ts := z.near(ls)
	if len(ts) == 0 {
		return datetime.RegularOffset(z.offsetAt(ls))
	}
	return offsetInfo(ls, ts)
}

// offsetInfo finds the reading ls among the ordered transitions ts, which
// must include every transition within a day of ls.
func offsetInfo(ls int64, ts []transition) datetime.OffsetInfo {
	off := ts[0].before
	for _, t := range ts {
		b, a := int64(t.before.TotalSeconds()), int64(t.after.TotalSeconds())
		if ls < t.at+min(b, a) {
			break
		}
		if ls < t.at+max(b, a) {
			return datetime.TransitionOffset(datetime.InstantFromEpochSeconds(t.at, 0), t.before, t.after)
		}
		off = t.after
	}
	return datetime.RegularOffset(off)
}

// near returns the transitions within a day of the Unix second ls, from the
// table and from the rule.
func (z *Zone) near(ls int64) []transition {
	lo, hi := ls-unixtime.SecondsPerDay, ls+unixtime.SecondsPerDay
	n := len(z.transitions)
	i := sort.Search(n, func(k int) bool { return z.transitions[k].at >= lo })
	j := i
	for j < n && z.transitions[j].at <= hi {
		j++
	}
	ts := z.transitions[i:j:j]
	if z.rule == nil || n > 0 && hi < z.transitions[n-1].at {
		return ts
	}
	last := int64(math.MinInt64)
	if n > 0 {
		last = z.transitions[n-1].at
	}
	year := yearOf(ls)
	for _, t := range z.rule.appendTransitions(nil, year-1, year+1) {
		if t.at > last && lo <= t.at && t.at <= hi {
			ts = append(ts, t)
		}
	}
	return ts
}

// maxRuleYears bounds the number of years Transitions expands the rule for.
const maxRuleYears = 1000

// Transitions returns the changes of offset in [from, to). Changes that only
// rename the local time are left out. Changes derived from the rule are listed
// for at most 1000 years after the last transition of the table.
func (z *Zone) Transitions(from, to datetime.Instant) []Transition {
	lo, hi := from.EpochSeconds(), to.EpochSeconds()
	var out []Transition
	add := func(t transition) {
		if lo <= t.at && t.at < hi && t.before != t.after {
			out = append(out, Transition{At: datetime.InstantFromEpochSeconds(t.at, 0), Before: t.before, After: t.after})
		}
	}
	for _, t := range z.transitions {
		add(t)
	}
	if z.rule == nil || !z.rule.hasDST() {
		return out
	}
	last := int64(math.MinInt64)
	if n := len(z.transitions); n > 0 {
		last = z.transitions[n-1].at
	}
	first := yearOf(max(lo, last))
	end := min(yearOf(hi), first+maxRuleYears)
	for _, t := range z.rule.appendTransitions(nil, first, end) {
		if t.at > last {
			add(t)
		}
	}
	return out
}

func localSeconds(dt datetime.LocalDateTime) int64 {
	return unixtime.FromDateTime(int64(dt.Year()), int(dt.Month()), dt.Day(), dt.Hour(), dt.Minute(), dt.Second())
}
