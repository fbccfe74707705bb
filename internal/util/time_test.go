package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	// Wednesday 2026-08-26.
	wednesday := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	// Sunday 2026-08-30.
	sunday := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     time.Time
		weekStart string
		expected  time.Time
	}{
		{
			name:      "monday start from midweek",
			input:     wednesday,
			weekStart: "monday",
			expected:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday start from midweek",
			input:     wednesday,
			weekStart: "sunday",
			expected:  time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monday start on a sunday counts as day 7",
			input:     sunday,
			weekStart: "monday",
			expected:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "sunday start on a sunday is the same day",
			input:     sunday,
			weekStart: "sunday",
			expected:  time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tp.StartOfWeek(tt.input, tt.weekStart))
		})
	}
}

func TestSetTimezoneRejectsUnknownZone(t *testing.T) {
	tp := &TimeProvider{}
	assert.Error(t, tp.SetTimezone("Not/AZone"))
	assert.NoError(t, tp.SetTimezone("Europe/Madrid"))
	assert.NoError(t, tp.SetTimezone("Local"))
}
