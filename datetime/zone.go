package datetime

// TimeZone maps between instants and civil readings. Implementations must be
// deterministic and safe for concurrent use. Package zone provides
// implementations backed by TZif data and by *time.Location.
type TimeZone interface {
	// ID returns the zone identifier, e.g. "Europe/Berlin" or "+02:00".
	ID() string

	// OffsetAt returns the offset in effect at i.
	OffsetAt(i Instant) UtcOffset

	// OffsetInfo returns the offsets valid for the civil reading dt.
	OffsetInfo(dt LocalDateTime) OffsetInfo
}

// OffsetKind classifies how many offsets are valid for a civil reading.
type OffsetKind int

const (
	// Regular readings have exactly one valid offset.
	Regular OffsetKind = iota
	// Gap readings were skipped by a forward transition and have none.
	Gap
	// Overlap readings were repeated by a backward transition and have two.
	Overlap
)

func (k OffsetKind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Gap:
		return "gap"
	case Overlap:
		return "overlap"
	}
	return "OffsetKind(?)"
}

// OffsetInfo describes the offsets valid for a civil reading.
//
// For Regular readings only Offset is set. For Gap and Overlap readings,
// Before and After are the offsets in effect before and after the transition
// at instant Transition.
type OffsetInfo struct {
	Kind       OffsetKind
	Offset     UtcOffset
	Before     UtcOffset
	After      UtcOffset
	Transition Instant
}

// RegularOffset returns the OffsetInfo of a reading with the single valid offset o.
func RegularOffset(o UtcOffset) OffsetInfo {
	return OffsetInfo{Kind: Regular, Offset: o}
}

// TransitionOffset returns the OffsetInfo of a reading at a transition from
// before to after at instant t. The kind follows from the direction of the change.
func TransitionOffset(t Instant, before, after UtcOffset) OffsetInfo {
	kind := Overlap
	if after.seconds > before.seconds {
		kind = Gap
	}
	return OffsetInfo{Kind: kind, Before: before, After: after, Transition: t}
}

// earliest returns the offset giving the earliest valid instant for a
// Regular or Overlap reading.
func (oi OffsetInfo) earliest() UtcOffset {
	if oi.Kind == Regular {
		return oi.Offset
	}
	return oi.Before
}

// FixedOffsetZone is a zone whose offset never changes.
type FixedOffsetZone struct {
	Offset UtcOffset
}

// UTC is the zone of Coordinated Universal Time.
var UTC TimeZone = FixedOffsetZone{}

// ID returns "UTC" for the zero offset and the offset itself otherwise.
func (z FixedOffsetZone) ID() string {
	if z.Offset.seconds == 0 {
		return "UTC"
	}
	return z.Offset.String()
}

func (z FixedOffsetZone) OffsetAt(Instant) UtcOffset { return z.Offset }

func (z FixedOffsetZone) OffsetInfo(LocalDateTime) OffsetInfo { return RegularOffset(z.Offset) }

func (z FixedOffsetZone) String() string { return z.ID() }
