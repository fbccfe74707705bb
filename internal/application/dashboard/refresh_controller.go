package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/tracktop/tracktop/internal/core/eventsync"
	"github.com/tracktop/tracktop/internal/core/model"
	"github.com/tracktop/tracktop/internal/core/registry"
)

// RefreshController coordinates refetches from the remote API. The
// refresh mutex serializes overlapping refreshes from the data ticker,
// the keyboard and the config watcher.
type RefreshController struct {
	registry *registry.Registry
	events   *eventsync.Synchronizer

	refreshMutex sync.Mutex
}

// NewRefreshController creates a new RefreshController instance.
func NewRefreshController(reg *registry.Registry, events *eventsync.Synchronizer) *RefreshController {
	return &RefreshController{
		registry: reg,
		events:   events,
	}
}

// RefreshAll refetches projects and events. A project fetch failure
// aborts the refresh; the event synchronizer degrades to its cached
// entries on its own.
func (rc *RefreshController) RefreshAll(ctx context.Context) ([]model.Project, []model.TimeEntry, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	if err := rc.registry.Refresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("project refresh failed: %w", err)
	}
	entries := rc.events.Refresh(ctx)
	return rc.registry.Projects(), entries, nil
}

// RefreshEvents refetches only the event list.
func (rc *RefreshController) RefreshEvents(ctx context.Context) []model.TimeEntry {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	return rc.events.Refresh(ctx)
}

// DeleteProject removes a project and refetches both collections. The
// server cascades the delete to every event of that project, so a
// project-only refetch would leave orphaned entries in the cached event
// list.
func (rc *RefreshController) DeleteProject(ctx context.Context, name string) ([]model.Project, []model.TimeEntry, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	if err := rc.registry.Delete(ctx, name); err != nil {
		return nil, nil, err
	}
	entries := rc.events.Refresh(ctx)
	return rc.registry.Projects(), entries, nil
}
