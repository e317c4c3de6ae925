package tzif

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate checks that f can be encoded and that every transition refers to a
// local time type. All problems found are reported together.
func Validate(f *File) error {
	var errs []error
	if f.Version != V1 && f.Version != V2 && f.Version != V3 && f.Version != V4 {
		errs = append(errs, fmt.Errorf("invalid version: %v", f.Version))
	}

	// Transitions
	if times, types := len(f.Transitions), len(f.TransitionTypes); times != types {
		errs = append(errs, fmt.Errorf("inconsistent transitions: transition times = %d, transition types = %d", times, types))
	}
	for i := 1; i < len(f.Transitions); i++ {
		if f.Transitions[i] <= f.Transitions[i-1] {
			errs = append(errs, fmt.Errorf("transition %d (%d) is not after transition %d (%d)", i, f.Transitions[i], i-1, f.Transitions[i-1]))
		}
	}
	for i, t := range f.TransitionTypes {
		if int(t) >= len(f.LocalTimeTypes) {
			errs = append(errs, fmt.Errorf("transition %d refers to local time type %d, have %d", i, t, len(f.LocalTimeTypes)))
		}
	}
	if n := len(f.Transitions); f.Version == V1 && n > 0 && (f.Transitions[0] < math.MinInt32 || f.Transitions[n-1] > math.MaxInt32) {
		errs = append(errs, fmt.Errorf("v1 transitions exceed the 32-bit range"))
	}

	// Local time types
	if len(f.LocalTimeTypes) == 0 {
		errs = append(errs, fmt.Errorf("invalid typecnt: must not be zero"))
	}
	if len(f.LocalTimeTypes) > 256 {
		errs = append(errs, fmt.Errorf("invalid typecnt (%d): must not exceed 256", len(f.LocalTimeTypes)))
	}
	for i, t := range f.LocalTimeTypes {
		if t.Offset == math.MinInt32 {
			errs = append(errs, fmt.Errorf("local time type %d: utoff must not be -2**31", i))
		}
		if strings.IndexByte(t.Abbrev, 0) >= 0 {
			errs = append(errs, fmt.Errorf("local time type %d: designation %q contains NUL", i, t.Abbrev))
		}
	}
	if len(errs) == 0 {
		if b, _ := f.designations(); len(b) > 256 {
			errs = append(errs, fmt.Errorf("time zone designations take %d octets, at most 256 are addressable", len(b)))
		}
	}

	// Footer
	if f.Version == V1 && f.Footer != "" {
		errs = append(errs, fmt.Errorf("v1 files have no footer"))
	}
	if strings.ContainsAny(f.Footer, "\x00\n") {
		errs = append(errs, fmt.Errorf("footer %q contains NUL or newline", f.Footer))
	}

	return errors.Join(errs...)
}
