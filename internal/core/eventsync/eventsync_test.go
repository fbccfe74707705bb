package eventsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracktop/tracktop/internal/core/model"
)

// fakeStore is a scriptable in-memory Store.
type fakeStore struct {
	entries []model.TimeEntry

	fetchErr  error
	createErr error
	updateErr error
	deleteErr error

	fetchCalls  int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeStore) FetchEvents(ctx context.Context) ([]model.TimeEntry, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.TimeEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeStore) CreateManualEvent(ctx context.Context, project, description string, start, end time.Time) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeStore) CreateTimerEvent(ctx context.Context, project, description string, durationSec int64) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeStore) UpdateEventDates(ctx context.Context, id string, start, end time.Time) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

func entry(id string, start time.Time, dur time.Duration) model.TimeEntry {
	return model.TimeEntry{
		ID:          id,
		Project:     "acme",
		Start:       start,
		End:         start.Add(dur),
		DurationSec: int64(dur.Seconds()),
	}
}

func TestRefreshSortsByStart(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{
		entry("b", base.Add(2*time.Hour), time.Hour),
		entry("a", base, time.Hour),
	}}
	s := New(store)

	entries := s.Refresh(context.Background())
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}

func TestRefreshFailureKeepsCachedEntries(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	store.fetchErr = errors.New("connection refused")
	entries := s.Refresh(context.Background())

	// The calendar keeps showing what it had.
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
}

func TestEntriesIsStableWithoutMutation(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{
		entry("a", base, time.Hour),
		entry("b", base.Add(2*time.Hour), time.Hour),
	}}
	s := New(store)
	s.Refresh(context.Background())

	first := s.Entries()
	second := s.Entries()
	assert.Equal(t, first, second)

	// The returned slice is a copy; mutating it does not leak back.
	first[0].Project = "mutated"
	assert.Equal(t, "acme", s.Entries()[0].Project)
}

func TestCreateManualValidatesBeforeNetwork(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	s := New(store)

	tests := []struct {
		name  string
		draft model.EventDraft
	}{
		{
			name:  "missing project",
			draft: model.EventDraft{Start: base, End: base.Add(time.Hour)},
		},
		{
			name:  "end before start",
			draft: model.EventDraft{Project: "acme", Start: base, End: base.Add(-time.Hour)},
		},
		{
			name:  "end equals start",
			draft: model.EventDraft{Project: "acme", Start: base, End: base},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateManual(context.Background(), tt.draft)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, store.createCalls, "no network call for invalid drafts")
		})
	}
}

func TestCreateManualSubmitsAndRefreshes(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	s := New(store)

	err := s.CreateManual(context.Background(), model.EventDraft{
		Project: "acme",
		Start:   base,
		End:     base.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 1, store.fetchCalls)
}

func TestSaveTimerRequiresProject(t *testing.T) {
	store := &fakeStore{}
	s := New(store)

	err := s.SaveTimer(context.Background(), model.StopwatchView{ElapsedSeconds: 90})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, store.createCalls)

	err = s.SaveTimer(context.Background(), model.StopwatchView{Project: "acme", ElapsedSeconds: 90})
	require.NoError(t, err)
	assert.Equal(t, 1, store.createCalls)
}

func TestUpdateDatesOptimisticApply(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	newStart := base.Add(15 * time.Minute)
	err := s.UpdateDates(context.Background(), "a", newStart, newStart.Add(time.Hour))
	require.NoError(t, err)

	moved, ok := s.Find("a")
	require.True(t, ok)
	assert.Equal(t, newStart, moved.Start)
	assert.Equal(t, newStart.Add(time.Hour), moved.End)
}

func TestUpdateDatesRejectionRollsBack(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	var reverted []model.TimeEntry
	s.SetRevertHook(func(e model.TimeEntry) {
		reverted = append(reverted, e)
	})

	store.updateErr = errors.New("409 overlapping event")
	newStart := base.Add(15 * time.Minute)
	err := s.UpdateDates(context.Background(), "a", newStart, newStart.Add(time.Hour))
	require.Error(t, err)

	// The entry is back at its pre-edit position and the hook fired.
	restored, ok := s.Find("a")
	require.True(t, ok)
	assert.Equal(t, base, restored.Start)
	assert.Equal(t, base.Add(time.Hour), restored.End)
	require.Len(t, reverted, 1)
	assert.Equal(t, "a", reverted[0].ID)
}

func TestUpdateDatesDerivesMissingEnd(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		original model.TimeEntry
		wantSpan time.Duration
	}{
		{
			name:     "original duration preserved",
			original: entry("a", base, 90*time.Minute),
			wantSpan: 90 * time.Minute,
		},
		{
			name: "unknown duration falls back to one hour",
			original: model.TimeEntry{
				ID: "a", Project: "acme", Start: base, End: base,
			},
			wantSpan: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{entries: []model.TimeEntry{tt.original}}
			s := New(store)
			s.Refresh(context.Background())

			newStart := base.Add(30 * time.Minute)
			require.NoError(t, s.UpdateDates(context.Background(), "a", newStart, time.Time{}))

			moved, ok := s.Find("a")
			require.True(t, ok)
			assert.Equal(t, newStart.Add(tt.wantSpan), moved.End)
		})
	}
}

func TestUpdateDatesInvertedRangeRejectedLocally(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	err := s.UpdateDates(context.Background(), "a", base, base.Add(-time.Hour))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, store.updateCalls)

	restored, _ := s.Find("a")
	assert.Equal(t, base, restored.Start)
}

func TestUpdateDatesUnknownEvent(t *testing.T) {
	s := New(&fakeStore{})
	err := s.UpdateDates(context.Background(), "ghost", time.Now(), time.Now().Add(time.Hour))
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteRefreshesOnSuccess(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	store.entries = nil
	require.NoError(t, s.Delete(context.Background(), "a"))
	assert.Equal(t, 1, store.deleteCalls)
	assert.Empty(t, s.Entries())
}

func TestDeleteFailureKeepsEntry(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{entries: []model.TimeEntry{entry("a", base, time.Hour)}}
	s := New(store)
	s.Refresh(context.Background())

	store.deleteErr = errors.New("boom")
	require.Error(t, s.Delete(context.Background(), "a"))
	_, ok := s.Find("a")
	assert.True(t, ok)
}
