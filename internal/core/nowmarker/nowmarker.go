// Package nowmarker computes where the current wall-clock time falls
// inside the visible calendar week. The result is a pure overlay
// position; the renderer draws it on top of the grid without touching
// the grid's own cells, and the marker's affordance consumes only its
// own key so underlying interactions are never intercepted.
package nowmarker

import (
	"math"
	"time"
)

const (
	minutesPerDay = 1440
	visibleDays   = 7
)

// Position is the derived overlay placement. ColumnWidth is zero when
// "now" is outside the visible range, which hides the marker.
type Position struct {
	TopOffset   float64
	LeftOffset  float64
	ColumnWidth float64
}

// Visible reports whether the marker should be drawn.
func (p Position) Visible() bool {
	return p.ColumnWidth > 0
}

// DayIndex returns the day column the marker falls in, or -1 when
// hidden.
func (p Position) DayIndex() int {
	if !p.Visible() {
		return -1
	}
	return int(math.Floor(p.LeftOffset / p.ColumnWidth))
}

// Compute recalculates the marker position. It runs on the 1-second
// cadence and again whenever the visible range changes (week
// navigation).
//
// viewStart is midnight of the first visible day; width and height are
// the calendar grid's pixel (or cell) dimensions.
func Compute(now, viewStart time.Time, width, height float64) Position {
	minutesSinceMidnight := float64(now.Hour())*60 +
		float64(now.Minute()) +
		float64(now.Second())/60

	top := minutesSinceMidnight / minutesPerDay * height

	diffDays := int(math.Floor(float64(now.UnixMilli()-viewStart.UnixMilli()) / float64(24*time.Hour/time.Millisecond)))
	if diffDays < 0 || diffDays >= visibleDays {
		return Position{TopOffset: top}
	}

	columnWidth := width / visibleDays
	return Position{
		TopOffset:   top,
		LeftOffset:  float64(diffDays) * columnWidth,
		ColumnWidth: columnWidth,
	}
}
