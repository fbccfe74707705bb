// Package stopwatch owns the ephemeral timer state: elapsed seconds, the
// running flag, and the project/description the next saved entry will
// carry. The state object is created by the dashboard orchestrator and
// passed down explicitly; nothing here is a global.
package stopwatch

import (
	"sync"

	"github.com/tracktop/tracktop/internal/core/model"
)

// Stopwatch is the timer state machine. Idle and Running are the only
// live states; a successful save resets straight back to a fresh Idle.
type Stopwatch struct {
	mu          sync.Mutex
	elapsed     int64
	running     bool
	project     string
	description string
}

// New returns a stopwatch in the fresh Idle state.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Start begins ticking. Starting does not require a project; saving does.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
}

// Pause stops ticking and retains the elapsed count.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Toggle flips between running and paused.
func (s *Stopwatch) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = !s.running
}

// Tick advances the elapsed count by one second. Ticks that race a pause
// are dropped: the count only moves while running.
func (s *Stopwatch) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.elapsed++
	}
}

// Reset zeroes the elapsed count regardless of running state.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
}

// Running reports whether the stopwatch is ticking.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetProject selects the project the next saved entry is logged against.
func (s *Stopwatch) SetProject(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = name
}

// SetDescription sets the task description for the next saved entry.
func (s *Stopwatch) SetDescription(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.description = text
}

// StartFresh zeroes the elapsed count, applies the given selection, and
// starts ticking. Used by the now-marker affordance.
func (s *Stopwatch) StartFresh(project, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.project = project
	s.description = description
	s.running = true
}

// Snapshot returns a read-only copy for rendering and saving.
func (s *Stopwatch) Snapshot() model.StopwatchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.StopwatchView{
		ElapsedSeconds: s.elapsed,
		Running:        s.running,
		Project:        s.project,
		Description:    s.description,
	}
}

// ValidateSave checks that the stopwatch can be saved. A project
// selection is required; elapsed time may be zero (the server rejects it
// if it cares).
func (s *Stopwatch) ValidateSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == "" {
		return model.NewValidationError("project", "select a project before saving")
	}
	return nil
}

// FinishSave resets to a fresh Idle after a successful remote save. On
// remote failure callers must NOT invoke it, so elapsed time and the
// selection survive for a retry.
func (s *Stopwatch) FinishSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.running = false
	s.description = ""
}
