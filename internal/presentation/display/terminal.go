package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/nowmarker"
	"github.com/tracktop/tracktop/internal/util"
)

// Config holds the display settings.
type Config struct {
	Timezone   string
	TimeFormat string // "12h" or "24h"
}

// RenderState is everything the display needs for one frame. It is
// assembled by the orchestrator; the display holds no domain state of
// its own.
type RenderState struct {
	Stopwatch   model.StopwatchView
	Projects    []model.Project
	Entries     []model.TimeEntry // visible week, ordered by start
	WeekStart   time.Time
	Marker      nowmarker.Position
	Interaction model.InteractionState
	IsLoading   bool
	LoadingMsg  string
	DetailEntry *model.TimeEntry
}

// TerminalDisplay renders the dashboard into the alternate screen
// buffer.
type TerminalDisplay struct {
	config            *Config
	inAlternateScreen bool
	isFirstRender     bool
	currentMode       model.DisplayMode
	lastLayoutStyle   int
}

// NewTerminalDisplay creates a display with the given settings.
func NewTerminalDisplay(config *Config) *TerminalDisplay {
	return &TerminalDisplay{
		config:        config,
		isFirstRender: true,
		currentMode:   model.ModeNormal,
	}
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Print("\033[?1049h")
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.ClearScrollback)
		fmt.Print(util.ResetScrollRegion)
		fmt.Print(util.DisableScrollback)
		fmt.Print(util.HideCursor)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to the normal screen buffer.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.EnableScrollback)
		fmt.Print(util.ShowCursor)
		fmt.Print("\033[?1049l")
		td.inAlternateScreen = false
	}
}

// ClearScreen clears the alternate screen buffer.
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
	}
}

// TerminalSize returns the current terminal dimensions with a fallback.
func (td *TerminalDisplay) TerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 40 {
		return 100, 32
	}
	return w, h
}

// GridSize returns the calendar grid dimensions for the now-marker
// computation.
func (td *TerminalDisplay) GridSize() (width, height float64) {
	w, _ := td.TerminalSize()
	return NewWeekGrid(w).Size()
}

func (td *TerminalDisplay) determineDisplayMode(state model.InteractionState, isLoading bool) model.DisplayMode {
	// Priority order: Dialog > Form > Help > Loading > Normal.
	if state.ConfirmDialog != nil {
		return model.ModeDialog
	}
	if state.Form != nil {
		return model.ModeForm
	}
	if state.ShowHelp {
		return model.ModeHelp
	}
	if isLoading {
		return model.ModeLoading
	}
	return model.ModeNormal
}

// Render draws one frame, clearing the screen only on first render and
// mode or layout transitions.
func (td *TerminalDisplay) Render(rs RenderState) {
	newMode := td.determineDisplayMode(rs.Interaction, rs.IsLoading)

	if td.isFirstRender || newMode != td.currentMode || td.lastLayoutStyle != rs.Interaction.LayoutStyle {
		td.ClearScreen()
		td.isFirstRender = false
		td.currentMode = newMode
		td.lastLayoutStyle = rs.Interaction.LayoutStyle
	} else {
		fmt.Print(util.MoveCursorHome)
	}

	switch newMode {
	case model.ModeDialog:
		td.renderConfirmDialog(rs.Interaction.ConfirmDialog)
		return
	case model.ModeForm:
		td.renderForm(rs.Interaction.Form, rs.Projects)
		return
	case model.ModeHelp:
		td.renderHelp()
		return
	case model.ModeLoading:
		td.renderLoadingScreen(rs.LoadingMsg)
		return
	}

	width, _ := td.TerminalSize()

	if rs.Interaction.LayoutStyle == 0 {
		td.renderStopwatchPanel(rs, width)
	} else {
		td.renderStopwatchLine(rs, width)
	}

	grid := NewWeekGrid(width)
	for _, line := range grid.Render(rs.Entries, rs.Projects, rs.WeekStart, rs.Interaction.SelectedEvent, rs.Marker) {
		fmt.Print(line + util.ClearLineSuffix + "\n")
	}

	if rs.DetailEntry != nil {
		td.renderDetail(rs.DetailEntry, width)
	}

	td.renderFooter(rs, width)
	fmt.Print("\033[J")
}

func (td *TerminalDisplay) renderStopwatchPanel(rs RenderState, width int) {
	sw := rs.Stopwatch
	status := "paused"
	color := util.ColorYellow
	if sw.Running {
		status = "running"
		color = util.ColorGreen
	}
	project := sw.Project
	if project == "" {
		project = "(no project)"
	}

	fmt.Printf("%s%s%s%s\n", util.ColorBold, util.ColorCyan, util.CenterText("tracktop — timer", width), util.ColorReset)
	fmt.Printf("  %s%s%s  %s%s%s  project: %s%s\n",
		util.ColorBold, util.FormatClock(sw.ElapsedSeconds), util.ColorReset,
		color, status, util.ColorReset,
		project, util.ClearLineSuffix)
	desc := sw.Description
	if desc == "" {
		desc = "-"
	}
	fmt.Printf("  task: %s%s\n", desc, util.ClearLineSuffix)
	fmt.Print(strings.Repeat("─", width) + "\n")
}

func (td *TerminalDisplay) renderStopwatchLine(rs RenderState, width int) {
	sw := rs.Stopwatch
	status := "❚❚"
	if sw.Running {
		status = "▶"
	}
	project := sw.Project
	if project == "" {
		project = "(no project)"
	}
	line := fmt.Sprintf(" %s %s  %s", status, util.FormatClock(sw.ElapsedSeconds), project)
	fmt.Print(util.PadString(line, width, true) + "\n")
}

func (td *TerminalDisplay) renderDetail(entry *model.TimeEntry, width int) {
	layout := "15:04"
	if td.config.TimeFormat == "12h" {
		layout = "3:04 PM"
	}
	tp := util.GetTimeProvider()
	fmt.Print(strings.Repeat("─", width) + "\n")
	fmt.Printf("  %s  %s – %s  (%s)%s\n",
		entry.Project,
		tp.Format(entry.Start, "Mon 02 "+layout),
		tp.Format(entry.End, layout),
		util.FormatClock(int64(entry.Duration().Seconds())),
		util.ClearLineSuffix)
	desc := entry.Description
	if desc == "" {
		desc = "(no description)"
	}
	fmt.Printf("  %s%s\n", desc, util.ClearLineSuffix)
}

func (td *TerminalDisplay) renderFooter(rs RenderState, width int) {
	var parts []string
	if rs.Interaction.ErrorMessage != "" {
		parts = append(parts, util.ColorRed+rs.Interaction.ErrorMessage+util.ColorReset)
	} else if rs.Interaction.StatusMessage != "" {
		parts = append(parts, rs.Interaction.StatusMessage)
	}
	if rs.Interaction.IsPaused {
		parts = append(parts, util.ColorYellow+"refresh paused"+util.ColorReset)
	}
	parts = append(parts, "h: help  q: quit")
	fmt.Print(util.ClearLine + "  " + strings.Join(parts, "  ·  ") + "\n")
}

func (td *TerminalDisplay) renderHelp() {
	fmt.Print(util.MoveCursorHome)
	fmt.Println("tracktop — Help")
	fmt.Println(strings.Repeat("═", 72))
	fmt.Println()
	fmt.Println("Stopwatch:")
	fmt.Println("  s         - Start/pause the stopwatch")
	fmt.Println("  S         - Stop & save the current entry")
	fmt.Println("  R         - Reset elapsed time")
	fmt.Println("  p         - Cycle project selection")
	fmt.Println("  n         - Start the timer from the now marker")
	fmt.Println()
	fmt.Println("Calendar:")
	fmt.Println("  ↑/↓       - Select previous/next entry")
	fmt.Println("  ←/→       - Previous/next week")
	fmt.Println("  w         - Jump to the current week")
	fmt.Println("  Enter     - Show entry details")
	fmt.Println("  a         - Add a manual entry")
	fmt.Println("  d         - Delete the selected entry")
	fmt.Println("  H/L       - Move the selected entry ∓/± 15 minutes")
	fmt.Println("  J/K       - Grow/shrink the selected entry by 15 minutes")
	fmt.Println()
	fmt.Println("General:")
	fmt.Println("  r         - Force refetch from the server")
	fmt.Println("  P         - Pause/unpause auto-refresh")
	fmt.Println("  t         - Toggle layout (full / compact)")
	fmt.Println("  h         - Toggle this help")
	fmt.Println("  q/Ctrl+C  - Quit")
	fmt.Println()
	fmt.Println(strings.Repeat("═", 72))
	fmt.Println("Press 'h' to return...")
	fmt.Print("\033[J")
}

func (td *TerminalDisplay) renderConfirmDialog(dialog *model.ConfirmDialog) {
	td.ClearScreen()

	termWidth, _ := td.TerminalSize()
	boxWidth := 60
	padding := (termWidth - boxWidth) / 2
	if padding < 0 {
		padding = 0
	}

	fmt.Print("\n\n\n\n\n")
	pad := strings.Repeat(" ", padding)
	fmt.Printf("%s╔%s╗\n", pad, strings.Repeat("═", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, util.CenterText(dialog.Title, boxWidth-2))
	fmt.Printf("%s╠%s╣\n", pad, strings.Repeat("═", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, strings.Repeat(" ", boxWidth-2))
	for _, line := range wrapText(dialog.Message, boxWidth-4) {
		fmt.Printf("%s║ %s ║\n", pad, util.PadString(line, boxWidth-4, true))
	}
	fmt.Printf("%s║%s║\n", pad, strings.Repeat(" ", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, util.CenterText("(Y)es / (N)o", boxWidth-2))
	fmt.Printf("%s╚%s╝\n", pad, strings.Repeat("═", boxWidth-2))
}

func (td *TerminalDisplay) renderForm(form *model.EntryForm, projects []model.Project) {
	fmt.Print(util.MoveCursorHome)

	layout := "2006-01-02 15:04"
	tp := util.GetTimeProvider()
	project := "(none)"
	if form.ProjectIndex >= 0 && form.ProjectIndex < len(projects) {
		project = projects[form.ProjectIndex].Name
	}

	cursor := func(f model.PromptField) string {
		if form.Field == f {
			return "▸"
		}
		return " "
	}

	fmt.Println(form.Title)
	fmt.Println(strings.Repeat("═", 60))
	fmt.Println()
	fmt.Printf("%s Project:     %s  (←/→ to change)%s\n", cursor(model.FieldProject), project, util.ClearLineSuffix)
	fmt.Printf("%s Description: %s%s\n", cursor(model.FieldDescription), form.Description, util.ClearLineSuffix)
	if !form.StartTimer {
		fmt.Printf("%s Start:       %s  (←/→ ∓/± 15m)%s\n", cursor(model.FieldStart), tp.Format(form.Start, layout), util.ClearLineSuffix)
		fmt.Printf("%s End:         %s  (←/→ ∓/± 15m)%s\n", cursor(model.FieldEnd), tp.Format(form.End, layout), util.ClearLineSuffix)
	}
	fmt.Println()
	fmt.Println("↑/↓ field · type to edit description · Enter: save · Esc: cancel")
	fmt.Print("\033[J")
}

func (td *TerminalDisplay) renderLoadingScreen(message string) {
	fmt.Print(util.MoveCursorHome)
	fmt.Print(util.ClearScreen)
	fmt.Print(util.MoveCursorHome)

	termWidth, termHeight := td.TerminalSize()
	for i := 0; i < termHeight/2-4; i++ {
		fmt.Println()
	}

	boxWidth := 50
	padding := (termWidth - boxWidth) / 2
	if padding < 0 {
		padding = 0
	}
	pad := strings.Repeat(" ", padding)

	if message == "" {
		message = "Loading data..."
	}
	loadingChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	animIndex := int(time.Now().Unix()) % len(loadingChars)
	animated := fmt.Sprintf("%s %s", loadingChars[animIndex], message)

	fmt.Printf("%s╔%s╗\n", pad, strings.Repeat("═", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, util.CenterText("tracktop", boxWidth-2))
	fmt.Printf("%s╠%s╣\n", pad, strings.Repeat("═", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, strings.Repeat(" ", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, util.CenterText(animated, boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, strings.Repeat(" ", boxWidth-2))
	fmt.Printf("%s║%s║\n", pad, util.CenterText("Press 'q' to quit", boxWidth-2))
	fmt.Printf("%s╚%s╝\n", pad, strings.Repeat("═", boxWidth-2))
}

// wrapText wraps text to fit within the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}
	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""
	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}
