package display

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/nowmarker"
)

func TestGridSizeFeedsMarkerMath(t *testing.T) {
	g := NewWeekGrid(76)
	w, h := g.Size()
	// (76 - gutter) / 7 columns of 10 cells each.
	assert.Equal(t, 70.0, w)
	assert.Equal(t, 24.0, h)
}

func TestGridWidthClamp(t *testing.T) {
	g := NewWeekGrid(3)
	w, _ := g.Size()
	assert.Greater(t, w, 0.0)
}

func TestRenderLineLayout(t *testing.T) {
	g := NewWeekGrid(76)
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	lines := g.Render(nil, nil, weekStart, -1, nowmarker.Position{})

	// One header line plus one line per hour.
	require.Len(t, lines, 25)
	assert.Contains(t, lines[0], "Mon 24")
	assert.Contains(t, lines[0], "Sun 30")
	assert.True(t, strings.HasPrefix(lines[1], "00:00 "))
	assert.True(t, strings.HasPrefix(lines[24], "23:00 "))
}

func TestRenderPlacesEntryAndLabel(t *testing.T) {
	g := NewWeekGrid(76)
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entries := []model.TimeEntry{
		{
			ID:      "7",
			Project: "acme",
			Start:   time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		},
	}
	projects := []model.Project{{Name: "acme", Color: "#aa69b9"}}

	lines := g.Render(entries, projects, weekStart, -1, nowmarker.Position{})

	// The label is drawn in the cell where the entry starts (09:00).
	assert.Contains(t, lines[1+9], "acme")
	assert.NotContains(t, lines[1+8], "acme")
	// The continuation cell (10:00) is occupied but unlabeled.
	assert.NotContains(t, lines[1+10], "acme")
}

func TestRenderDrawsMarkerOverlay(t *testing.T) {
	g := NewWeekGrid(76)
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)

	w, h := g.Size()
	marker := nowmarker.Compute(now, weekStart, w, h)
	require.True(t, marker.Visible())

	lines := g.Render(nil, nil, weekStart, -1, marker)

	// 14:30 falls in the 14:00 row, Wednesday column.
	assert.Contains(t, lines[1+14], "◉")
	for hour := 0; hour < 24; hour++ {
		if hour == 14 {
			continue
		}
		assert.NotContains(t, lines[1+hour], "◉")
	}
}

func TestRenderHiddenMarkerDrawsNothing(t *testing.T) {
	g := NewWeekGrid(76)
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)

	w, h := g.Size()
	marker := nowmarker.Compute(now, weekStart, w, h)
	require.False(t, marker.Visible())

	for _, line := range g.Render(nil, nil, weekStart, -1, marker) {
		assert.NotContains(t, line, "◉")
	}
}
