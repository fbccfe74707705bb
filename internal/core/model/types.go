package model

import (
	"time"
)

// DefaultProjectColor is applied to any project the server returns
// without a color.
const DefaultProjectColor = "#999999"

// Project is a user-defined project with billing metadata. Name is unique
// per user and immutable once created; only color and hourly rate can be
// updated.
type Project struct {
	ID         string
	Name       string
	Color      string // RGB hex, e.g. "#aa69b9"
	HourlyRate float64
}

// TimeEntry is a single logged span of work against a project. Events
// reference their project by name, not id. End is always after Start;
// violated inputs are rejected before submission.
type TimeEntry struct {
	ID          string
	Project     string
	Description string
	Start       time.Time
	End         time.Time
	DurationSec int64
}

// Duration returns the entry span as a time.Duration, derived from the
// timestamps when the server-provided duration is missing.
func (e TimeEntry) Duration() time.Duration {
	if e.DurationSec > 0 {
		return time.Duration(e.DurationSec) * time.Second
	}
	return e.End.Sub(e.Start)
}

// EventDraft is a manual calendar entry before submission.
type EventDraft struct {
	Project     string
	Description string
	Start       time.Time
	End         time.Time
}

// DisplayMode identifies what the terminal display is currently showing.
type DisplayMode int

const (
	ModeNormal DisplayMode = iota
	ModeLoading
	ModeHelp
	ModeDialog
	ModeForm
)

// ConfirmDialog is a modal yes/no prompt. The destructive operations
// (event delete, project delete) are only issued from OnConfirm.
type ConfirmDialog struct {
	Title     string
	Message   string
	OnConfirm func()
	OnCancel  func()
}

// PromptField identifies which input a form prompt is currently editing.
type PromptField int

const (
	FieldProject PromptField = iota
	FieldDescription
	FieldStart
	FieldEnd
)

// EntryForm is the in-progress manual event form or the now-marker start
// prompt. ProjectIndex indexes into the registry's project list.
type EntryForm struct {
	Title        string
	ProjectIndex int
	Description  string
	Start        time.Time
	End          time.Time
	Field        PromptField
	StartTimer   bool // now-marker prompt: start the stopwatch on confirm
}

// InteractionState represents the current UI interaction state.
type InteractionState struct {
	IsPaused      bool
	ShowHelp      bool
	ForceRefresh  bool
	LayoutStyle   int // 0: full dashboard, 1: compact
	StatusMessage string
	ErrorMessage  string
	SelectedEvent int    // index into the ordered visible event list, -1 none
	DetailEventID string // event shown in the detail pane, "" none
	ConfirmDialog *ConfirmDialog
	Form          *EntryForm
}

// StopwatchView is a read-only snapshot of the stopwatch for rendering.
type StopwatchView struct {
	ElapsedSeconds int64
	Running        bool
	Project        string
	Description    string
}
