package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"85", 85},
		{"85/h", 85},
		{" 85 / hour ", 85},
		{"1.5/min", 90},
		{"0.5/m", 30},
		{"0.02/s", 72},
		{"2/SEC", 7200},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRate(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseRate_Invalid(t *testing.T) {
	for _, in := range []string{"", "fast", "85/day", "/h"} {
		_, err := ParseRate(in)
		assert.Error(t, err, in)
	}
}

func TestPerHour(t *testing.T) {
	// GIVEN a mean service time of 65 seconds
	rate, err := PerHour(65 * time.Second)
	require.NoError(t, err)
	// THEN about 55.4 clients are served per hour
	assert.InDelta(t, 3600.0/65.0, rate, 1e-9)

	_, err = PerHour(0)
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatClock(0))
	assert.Equal(t, "01:30:00.000", FormatClock(1.5))
	assert.Equal(t, "00:01:05.000", FormatClock(65.0/3600))
	assert.Equal(t, "26:00:00.000", FormatClock(26))
}

func TestRate_FlagValue(t *testing.T) {
	var r Rate
	require.NoError(t, r.Set("1/min"))
	assert.Equal(t, Rate(60), r)
	assert.Equal(t, "60/h", r.String())
	assert.Equal(t, "rate", r.Type())
	assert.Error(t, r.Set("x"))
	assert.Equal(t, Rate(60), r, "failed Set leaves the value unchanged")
}
