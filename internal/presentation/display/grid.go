package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/nowmarker"
	"github.com/tracktop/tracktop/internal/util"
)

const (
	gutterWidth = 6  // "HH:00 "
	hourRows    = 24 // one row per hour, 00:00–23:00
	weekDays    = 7
)

var (
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// WeekGrid renders the 7-column week view. It owns only drawing; all
// gestures are routed by the orchestrator.
type WeekGrid struct {
	width int // total columns available for the grid
}

// NewWeekGrid creates a grid renderer for the given terminal width.
func NewWeekGrid(width int) *WeekGrid {
	if width < gutterWidth+weekDays {
		width = gutterWidth + weekDays
	}
	return &WeekGrid{width: width}
}

// Size returns the grid dimensions the now-marker computation needs:
// the usable event area width (excluding the hour gutter) and the row
// count.
func (g *WeekGrid) Size() (width, height float64) {
	return float64(g.colWidth() * weekDays), float64(hourRows)
}

func (g *WeekGrid) colWidth() int {
	return (g.width - gutterWidth) / weekDays
}

// cellOwner maps each (day, hour) cell to the entry covering it, if any.
type cellOwner struct {
	entry    model.TimeEntry
	selected bool
	starts   bool // entry starts within this cell
}

// Render produces the grid lines: a date header plus one line per hour.
// entries must be ordered by start; selected is an index into entries or
// -1. The marker position is drawn last so it overlays event cells.
func (g *WeekGrid) Render(entries []model.TimeEntry, projects []model.Project, weekStart time.Time, selected int, marker nowmarker.Position) []string {
	colWidth := g.colWidth()
	colors := make(map[string]string, len(projects))
	for _, p := range projects {
		colors[p.Name] = p.Color
	}

	cells := g.assignCells(entries, weekStart, selected)

	lines := make([]string, 0, hourRows+1)
	lines = append(lines, g.renderHeader(weekStart, colWidth))

	markerRow := int(marker.TopOffset)
	markerDay := marker.DayIndex()

	for hour := 0; hour < hourRows; hour++ {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%02d:00 ", hour))
		for day := 0; day < weekDays; day++ {
			cell := cells[day][hour]
			isMarker := marker.Visible() && day == markerDay && hour == markerRow
			b.WriteString(g.renderCell(cell, colors, colWidth, isMarker))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (g *WeekGrid) renderHeader(weekStart time.Time, colWidth int) string {
	tp := util.GetTimeProvider()
	today := tp.Now()
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for day := 0; day < weekDays; day++ {
		d := weekStart.AddDate(0, 0, day)
		label := util.CenterText(d.Format("Mon 02"), colWidth)
		if d.Year() == today.Year() && d.YearDay() == today.YearDay() {
			b.WriteString(todayStyle.Render(label))
		} else {
			b.WriteString(headerStyle.Render(label))
		}
	}
	return b.String()
}

// assignCells buckets entries into (day, hour) cells. A longer entry
// owns every hour it overlaps; later entries win ties, matching the
// top-most drawing order of a stacked calendar.
func (g *WeekGrid) assignCells(entries []model.TimeEntry, weekStart time.Time, selected int) [weekDays][hourRows]*cellOwner {
	var cells [weekDays][hourRows]*cellOwner
	weekEnd := weekStart.AddDate(0, 0, weekDays)

	for i, e := range entries {
		start := e.Start.In(weekStart.Location())
		end := e.End.In(weekStart.Location())
		if !end.After(weekStart) || !start.Before(weekEnd) {
			continue
		}
		if start.Before(weekStart) {
			start = weekStart
		}
		if end.After(weekEnd) {
			end = weekEnd
		}

		for t := start; t.Before(end); t = t.Add(time.Hour) {
			day := int(t.Sub(weekStart).Hours()) / 24
			hour := t.Hour()
			if day < 0 || day >= weekDays {
				continue
			}
			cells[day][hour] = &cellOwner{
				entry:    entries[i],
				selected: i == selected,
				starts:   t.Equal(start),
			}
		}
	}
	return cells
}

func (g *WeekGrid) renderCell(cell *cellOwner, colors map[string]string, colWidth int, isMarker bool) string {
	if isMarker {
		// The line itself is draw-only: its full width never captures
		// input, only the affordance key does.
		line := "◉" + strings.Repeat("─", colWidth-1)
		return markerStyle.Render(line)
	}
	if cell == nil {
		return strings.Repeat(" ", colWidth-1) + "│"
	}

	label := " "
	if cell.starts {
		label = " " + cell.entry.Project
	}
	label = util.PadString(label, colWidth, true)

	color := colors[cell.entry.Project]
	if color == "" {
		color = model.DefaultProjectColor
	}
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("#000000"))
	if cell.selected {
		style = style.Inherit(selectedStyle).Bold(true)
	}
	return style.Render(label)
}
