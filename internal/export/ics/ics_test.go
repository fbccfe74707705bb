package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracktop/tracktop/internal/core/model"
)

func TestBuildRoundTrips(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	entries := []model.TimeEntry{
		{
			ID:          "7",
			Project:     "acme",
			Description: "api work",
			Start:       start,
			End:         start.Add(90 * time.Minute),
		},
		{
			ID:      "8",
			Project: "side-project",
			Start:   start.Add(24 * time.Hour),
			End:     start.Add(25 * time.Hour),
		},
	}

	payload := Build(entries)

	cal, err := ical.ParseCalendar(strings.NewReader(payload))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	uid := first.GetProperty(ical.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.Equal(t, "7@tracktop", uid.Value)

	summary := first.GetProperty(ical.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "acme", summary.Value)

	desc := first.GetProperty(ical.ComponentPropertyDescription)
	require.NotNil(t, desc)
	assert.Equal(t, "api work", desc.Value)

	gotStart, err := first.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, start.Unix(), gotStart.Unix())

	gotEnd, err := first.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, start.Add(90*time.Minute).Unix(), gotEnd.Unix())

	// Entries without a description omit the property.
	second := events[1]
	assert.Nil(t, second.GetProperty(ical.ComponentPropertyDescription))
}

func TestBuildEmptyList(t *testing.T) {
	payload := Build(nil)
	assert.Contains(t, payload, "BEGIN:VCALENDAR")
	assert.NotContains(t, payload, "BEGIN:VEVENT")
}
