package nextver

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse covers accepted inputs, including the leading-zero policy.
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Version
	}{
		{"1.2.3", Version{1, 2, 3}},
		{"0.0.0", Version{0, 0, 0}},
		{"10.20.30", Version{10, 20, 30}},
		// Leading zeros are parsed numerically and dropped.
		{"1.02.3", Version{1, 2, 3}},
		{"007.0.00", Version{7, 0, 0}},
		{"18446744073709551615.0.0", Version{math.MaxUint64, 0, 0}},
	}
	for _, tc := range tests {
		v, err := Parse(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.expected, v, tc.input)
	}
}

// TestParseErrors checks that anything but three non-negative integers is rejected.
func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		segment int
	}{
		{"", -1},
		{"1", -1},
		{"1.2", -1},
		{"1.2.3.4", -1},
		{"1.2.3.", -1},
		{"1..3", 1},
		{".2.3", 0},
		{"1.2.", 2},
		{"v1.2.3", 0},
		{"1.2.3-rc1", 2},
		{"1.2.3+build", 2},
		{"1.2.x", 2},
		{"-1.2.3", 0},
		{"+1.2.3", 0},
		{" 1.2.3", 0},
		{"1.2.3 ", 2},
		{"1.2.3\n", 2},
		{"1._2.3", 1},
		{"18446744073709551616.0.0", 0},
		{"1.2.99999999999999999999", 2},
	}
	for _, tc := range tests {
		_, err := Parse(tc.input)
		require.Error(t, err, tc.input)

		var formatErr *VersionFormatError
		require.True(t, errors.As(err, &formatErr), tc.input)
		require.Equal(t, tc.input, formatErr.Input)
		require.Equal(t, tc.segment, formatErr.Segment, tc.input)
		require.NotEmpty(t, formatErr.Error())
	}
}

// TestVersionString checks the rendered form has no padding or suffixes.
func TestVersionString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1.2.3", Version{1, 2, 3}.String())
	require.Equal(t, "0.0.0", Version{}.String())
	require.Equal(t, "1.2.3", MustParse("01.002.0003").String())
	require.Equal(t, "18446744073709551615.0.1", Version{Major: math.MaxUint64, Patch: 1}.String())
}

// TestParseFormatRoundTrip verifies Parse(v.String()) == v across component magnitudes.
func TestParseFormatRoundTrip(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 9, 10, 99, 100, 255, 65535, math.MaxUint32, math.MaxUint64 - 1, math.MaxUint64}
	for _, major := range values {
		for _, minor := range values {
			for _, patch := range values {
				v := Version{Major: major, Minor: minor, Patch: patch}
				got, err := Parse(v.String())
				require.NoError(t, err, v.String())
				require.Equal(t, v, got)
			}
		}
	}
}

// TestParseSegmentCount verifies that only exactly three segments parse.
func TestParseSegmentCount(t *testing.T) {
	t.Parallel()

	text := ""
	for n := 1; n <= 6; n++ {
		if n > 1 {
			text += "."
		}
		text += strconv.Itoa(n)

		_, err := Parse(text)
		if n == 3 {
			require.NoError(t, err, text)
		} else {
			require.Error(t, err, text)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { MustParse("1.2") })
	require.NotPanics(t, func() { MustParse("1.2.3") })
}
