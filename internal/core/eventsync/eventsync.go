// Package eventsync reconciles the calendar's visual event list with the
// remote store. Reads are last-completed-fetch-authoritative; date edits
// are applied optimistically and rolled back when the server rejects
// them.
package eventsync

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/util"
)

// defaultSpan is used when a moved event has no known duration.
const defaultSpan = time.Hour

// Store is the slice of the remote API the synchronizer needs.
type Store interface {
	FetchEvents(ctx context.Context) ([]model.TimeEntry, error)
	CreateManualEvent(ctx context.Context, project, description string, start, end time.Time) error
	CreateTimerEvent(ctx context.Context, project, description string, durationSec int64) error
	UpdateEventDates(ctx context.Context, id string, start, end time.Time) error
	DeleteEvent(ctx context.Context, id string) error
}

// RevertFunc is the calendar adapter's rollback hook. It receives the
// entry restored to its pre-edit position and must bring the visual
// layer back in line with it.
type RevertFunc func(entry model.TimeEntry)

// Synchronizer owns the visual event list.
type Synchronizer struct {
	store  Store
	revert RevertFunc

	mu      sync.RWMutex
	entries []model.TimeEntry

	// Out-of-order fetch protection: completions older than the last
	// applied one are dropped.
	seq        uint64
	appliedSeq uint64
}

// New creates a Synchronizer backed by the given store.
func New(store Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// SetRevertHook registers the calendar adapter's rollback callback.
// Invoking it on rejection is mandatory for drag/resize edits.
func (s *Synchronizer) SetRevertHook(fn RevertFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revert = fn
}

// Refresh refetches the event list. Network errors degrade to an empty
// result without failing the caller: the calendar simply shows what it
// had, and the error is logged. A completion that lost the race against
// a newer fetch is discarded.
func (s *Synchronizer) Refresh(ctx context.Context) []model.TimeEntry {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.mu.Unlock()

	entries, err := s.store.FetchEvents(ctx)
	if err != nil {
		util.LogErrorf("Event fetch failed: %v", err)
		return s.Entries()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if mySeq < s.appliedSeq {
		// A newer fetch already completed; keep its result.
		return s.copyEntriesLocked()
	}
	s.appliedSeq = mySeq
	s.entries = entries
	return s.copyEntriesLocked()
}

// Entries returns a copy of the current visual event list, ordered by
// start time.
func (s *Synchronizer) Entries() []model.TimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyEntriesLocked()
}

func (s *Synchronizer) copyEntriesLocked() []model.TimeEntry {
	out := make([]model.TimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find returns the visual entry with the given id.
func (s *Synchronizer) Find(id string) (model.TimeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.TimeEntry{}, false
}

// CreateManual validates and submits a manual calendar entry. Validation
// failures are returned before any network call is issued.
func (s *Synchronizer) CreateManual(ctx context.Context, draft model.EventDraft) error {
	if draft.Project == "" {
		return model.NewValidationError("project", "select a project")
	}
	if !draft.End.After(draft.Start) {
		return model.NewValidationError("end", "end must be after start")
	}
	if err := s.store.CreateManualEvent(ctx, draft.Project, draft.Description, draft.Start, draft.End); err != nil {
		return err
	}
	s.Refresh(ctx)
	return nil
}

// SaveTimer submits a stopwatch-derived entry; the server derives the
// span as "now minus duration" to "now".
func (s *Synchronizer) SaveTimer(ctx context.Context, view model.StopwatchView) error {
	if view.Project == "" {
		return model.NewValidationError("project", "select a project before saving")
	}
	if err := s.store.CreateTimerEvent(ctx, view.Project, view.Description, view.ElapsedSeconds); err != nil {
		return err
	}
	s.Refresh(ctx)
	return nil
}

// UpdateDates applies a drag or resize. The visual layer is updated
// first so the edit shows immediately; a server rejection restores the
// pre-edit position and invokes the revert hook. An absent end is
// recomputed as newStart plus the original duration (one hour when the
// duration is unknown) and is never left undefined.
func (s *Synchronizer) UpdateDates(ctx context.Context, id string, newStart, newEnd time.Time) error {
	s.mu.Lock()
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return model.NewValidationError("event", "unknown event "+id)
	}
	original := s.entries[idx]

	if newEnd.IsZero() {
		span := original.Duration()
		if span <= 0 {
			span = defaultSpan
		}
		newEnd = newStart.Add(span)
	}

	// Optimistic apply.
	s.entries[idx].Start = newStart
	s.entries[idx].End = newEnd
	s.entries[idx].DurationSec = int64(newEnd.Sub(newStart).Seconds())
	revert := s.revert
	s.mu.Unlock()

	if !newEnd.After(newStart) {
		s.rollback(idx, original, revert)
		return model.NewValidationError("end", "end must be after start")
	}

	if err := s.store.UpdateEventDates(ctx, id, newStart, newEnd); err != nil {
		s.rollback(idx, original, revert)
		return err
	}
	return nil
}

func (s *Synchronizer) rollback(idx int, original model.TimeEntry, revert RevertFunc) {
	s.mu.Lock()
	if idx < len(s.entries) && s.entries[idx].ID == original.ID {
		s.entries[idx] = original
	}
	s.mu.Unlock()
	if revert != nil {
		revert(original)
	}
}

// Delete removes an entry. The caller is responsible for having
// confirmed the action with the user; on success the list is refreshed.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.Refresh(ctx)
	return nil
}
