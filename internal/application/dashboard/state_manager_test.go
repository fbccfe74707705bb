package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracktop/tracktop/internal/core/model"
)

func TestStateManagerCopiesOnRead(t *testing.T) {
	sm := NewStateManager()
	sm.SetProjects([]model.Project{{Name: "acme"}})

	got := sm.GetProjects()
	got[0].Name = "mutated"

	assert.Equal(t, "acme", sm.GetProjects()[0].Name)
}

func TestStateManagerEntriesRoundTrip(t *testing.T) {
	sm := NewStateManager()
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	sm.SetEntries([]model.TimeEntry{{ID: "7", Start: start, End: start.Add(time.Hour)}})

	entries := sm.GetEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "7", entries[0].ID)
	assert.NotZero(t, sm.GetLastDataUpdate())
}

func TestUpdateInteractionState(t *testing.T) {
	sm := NewStateManager()
	assert.Equal(t, -1, sm.GetInteractionState().SelectedEvent)

	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.IsPaused = true
		s.StatusMessage = "entry saved"
	})

	state := sm.GetInteractionState()
	assert.True(t, state.IsPaused)
	assert.Equal(t, "entry saved", state.StatusMessage)

	// The returned state is a copy; mutating it does not leak back.
	state.IsPaused = false
	assert.True(t, sm.GetInteractionState().IsPaused)
}

func TestLoadingState(t *testing.T) {
	sm := NewStateManager()
	sm.SetLoadingState(true, "Fetching projects and events...")

	loading, msg := sm.GetLoadingState()
	assert.True(t, loading)
	assert.Equal(t, "Fetching projects and events...", msg)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "24h", cfg.TimeFormat)
	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, 30*time.Second, cfg.DataRefreshInterval)
}
