package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_ISO(t *testing.T) {
	parsed, ok := ParseDate("2025-12-17")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDate_FallbackLayouts(t *testing.T) {
	testCases := []struct {
		input string
		want  time.Time
	}{
		{"2025-12-17T09:30:00Z", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"17 December 2025", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"17 Dec 2025", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"December 17, 2025", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"Dec 17, 2025", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"2025/12/17", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"17/12/2025", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
		{"Dec-25", time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)},
		{"  2025-12-17  ", time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			parsed, ok := ParseDate(tc.input)
			require.True(t, ok)
			assert.Equal(t, tc.want, parsed)
		})
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"sometime recently",
		"next Tuesday",
		"2025-13-40",
		"Decembruary 1",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseDate(input)
			assert.False(t, ok)
		})
	}
}

func TestKey_SameMonthSameKey(t *testing.T) {
	first, ok := ParseDate("2025-12-01")
	require.True(t, ok)
	last, ok := ParseDate("2025-12-31")
	require.True(t, ok)

	assert.Equal(t, "Dec-25", Key(first))
	assert.Equal(t, Key(first), Key(last))
}

func TestKey_DistinctMonths(t *testing.T) {
	nov, _ := ParseDate("2025-11-30")
	dec, _ := ParseDate("2025-12-01")
	assert.NotEqual(t, Key(nov), Key(dec))
}

func TestParseKey_CaseVariants(t *testing.T) {
	for _, input := range []string{"Dec-25", "dec-25", "DEC-25"} {
		t.Run(input, func(t *testing.T) {
			parsed, ok := ParseKey(input)
			require.True(t, ok)
			assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), parsed)
		})
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, input := range []string{"", "Dec25", "December-25", "Dec-"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseKey(input)
			assert.False(t, ok)
		})
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	parsed, ok := ParseDate("2026-01-05")
	require.True(t, ok)
	assert.Equal(t, "2026-01-05", FormatDate(parsed))
}
