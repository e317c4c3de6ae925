// Package tzif reads and writes the Time Zone Information Format of RFC 8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// The version 1 and version 2+ parts of a file are merged into one File with
// 64-bit transition times. Leap second records and the standard/wall and
// UT/local indicators are skipped on reading: they are only needed to
// reconstruct the source rules, not to map instants to offsets.
package tzif

import (
	"encoding/binary"
	"fmt"
)

// All multi-octet values are stored big-endian, signed values in two's complement.
var order = binary.BigEndian

// Version identifies the format of a TZif file. Version 1 files carry 32-bit
// transition times only; later versions add a 64-bit data block and a footer.
type Version byte

const (
	V1 Version = 0x00
	V2 Version = '2'
	V3 Version = '3'
	V4 Version = '4'
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

// Magic identifies a TZif file.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// LocalTimeType is one of the local time types a transition switches to.
type LocalTimeType struct {
	// Offset is the number of seconds to add to UT to get local time.
	Offset int32
	DST    bool
	// Abbrev is the designation, e.g. "CEST". It may be empty.
	Abbrev string
}

// File is the content of a TZif file.
type File struct {
	Version Version

	// Transitions are the instants, in seconds since the Unix epoch, at which
	// the local time type changes. They are strictly ascending.
	Transitions []int64
	// TransitionTypes holds, for each transition, the index into
	// LocalTimeTypes of the type in effect from that transition on.
	TransitionTypes []uint8
	// LocalTimeTypes holds at least one type. Type 0 is in effect before
	// the first transition.
	LocalTimeTypes []LocalTimeType

	// Footer is the POSIX TZ string describing the local time after the last
	// transition, e.g. "CET-1CEST,M3.5.0,M10.5.0/3". It is empty for V1 files
	// and for zones without a rule.
	Footer string
}

// TypeAt returns the local time type in effect at sec, ignoring the footer.
func (f *File) TypeAt(sec int64) LocalTimeType {
	i := 0
	for j, t := range f.Transitions {
		if t > sec {
			break
		}
		i = int(f.TransitionTypes[j])
	}
	return f.LocalTimeTypes[i]
}

// header is the fixed part of a TZif header that follows the magic.
type header struct {
	Version  Version
	Reserved [15]byte
	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// blockSize returns the size of the data block following h for the given size
// of time values.
func (h header) blockSize(timeSize int64) int64 {
	return int64(h.Timecnt)*timeSize +
		int64(h.Timecnt) +
		int64(h.Typecnt)*6 +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*(timeSize+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
}

// ttinfo is the on-disk form of a local time type.
type ttinfo struct {
	Utoff int32
	Dst   bool
	Idx   uint8
}
