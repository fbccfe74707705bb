package dashboard

import (
	"sync"
	"time"

	"github.com/tracktop/tracktop/internal/core/model"
)

// StateManager manages application state in a thread-safe manner.
type StateManager struct {
	mu sync.RWMutex

	// Synchronized data
	projects []model.Project
	entries  []model.TimeEntry

	// Calendar view
	weekStart time.Time

	// Loading state
	isLoading      bool
	loadingMessage string

	// Interaction state
	interactionState model.InteractionState

	// Metadata
	lastDataUpdate int64
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{
		projects: make([]model.Project, 0),
		entries:  make([]model.TimeEntry, 0),
		interactionState: model.InteractionState{
			SelectedEvent: -1,
		},
	}
}

// GetProjects returns the current project list (thread-safe copy).
func (sm *StateManager) GetProjects() []model.Project {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	projects := make([]model.Project, len(sm.projects))
	copy(projects, sm.projects)
	return projects
}

// SetProjects updates the project list.
func (sm *StateManager) SetProjects(projects []model.Project) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.projects = projects
	sm.lastDataUpdate = time.Now().Unix()
}

// GetEntries returns all synchronized time entries (thread-safe copy).
func (sm *StateManager) GetEntries() []model.TimeEntry {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	entries := make([]model.TimeEntry, len(sm.entries))
	copy(entries, sm.entries)
	return entries
}

// SetEntries updates the synchronized entries.
func (sm *StateManager) SetEntries(entries []model.TimeEntry) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entries = entries
	sm.lastDataUpdate = time.Now().Unix()
}

// WeekStart returns the start of the currently displayed week.
func (sm *StateManager) WeekStart() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.weekStart
}

// SetWeekStart updates the displayed week.
func (sm *StateManager) SetWeekStart(t time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.weekStart = t
}

// GetLoadingState returns the current loading state and message.
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates the loading state and message.
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns a copy of the current interaction state.
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.interactionState
}

// UpdateInteractionState updates specific fields of the interaction
// state under the lock.
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interactionState)
}

// GetLastDataUpdate returns the timestamp of the last successful data
// update.
func (sm *StateManager) GetLastDataUpdate() int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate
}
