package nextver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version is a major.minor.patch triple. Values are immutable by convention;
// ComputeNext returns a new Version instead of modifying its argument.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// VersionFormatError is returned when text is not exactly three dot-separated
// non-negative integers.
type VersionFormatError struct {
	Input   string // The text that failed to parse.
	Segment int    // Index of the failing segment, or -1 for a segment count error.
	Reason  string
}

func (e *VersionFormatError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid version %q: segment %d: %s", e.Input, e.Segment+1, e.Reason)
}

// Parse parses text of the form "major.minor.patch". Each segment must be a
// base-10 unsigned integer that fits in 64 bits. Leading zeros are accepted
// and dropped ("1.02.3" parses as 1.2.3); signs, whitespace, a "v" prefix and
// pre-release or build suffixes are rejected.
func Parse(text string) (Version, error) {
	var nums [3]uint64
	rest := text
	for i := range nums {
		segment, remainder, found := strings.Cut(rest, ".")
		if i < len(nums)-1 && !found {
			return Version{}, &VersionFormatError{Input: text, Segment: -1, Reason: fmt.Sprintf("expected 3 segments, got %d", i+1)}
		}
		if i == len(nums)-1 && found {
			return Version{}, &VersionFormatError{Input: text, Segment: -1, Reason: "more than 3 segments"}
		}
		n, err := parseSegment(segment)
		if err != nil {
			return Version{}, &VersionFormatError{Input: text, Segment: i, Reason: err.Error()}
		}
		nums[i] = n
		rest = remainder
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// parseSegment resolves a single numeric segment.
func parseSegment(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty segment")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit character %q", c)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		// Only a range error is possible once every byte is a digit.
		return 0, fmt.Errorf("%q exceeds the maximum value", s)
	}
	return n, nil
}

// MustParse is like Parse but panics if text is not a valid version.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
