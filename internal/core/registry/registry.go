// Package registry caches the user's projects and funnels every mutation
// through the remote store. The cache is read-through: each successful
// mutation refetches the list so the client never trusts its own write.
package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/tracktop/tracktop/internal/core/model"
)

// Store is the slice of the remote API the registry needs.
type Store interface {
	FetchProjects(ctx context.Context) ([]model.Project, error)
	AddProject(ctx context.Context, name string, rate float64, color string) error
	UpdateProject(ctx context.Context, name string, rate float64, color string) error
	DeleteProject(ctx context.Context, name string) error
}

// Registry is the cached set of user-defined projects.
type Registry struct {
	mu       sync.RWMutex
	store    Store
	projects []model.Project
}

// New creates an empty registry backed by the given store.
func New(store Store) *Registry {
	return &Registry{store: store}
}

// Refresh refetches the project list from the remote store.
func (r *Registry) Refresh(ctx context.Context) error {
	projects, err := r.store.FetchProjects(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.projects = projects
	r.mu.Unlock()
	return nil
}

// Projects returns a copy of the cached project list.
func (r *Registry) Projects() []model.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Get looks up a cached project by name.
func (r *Registry) Get(name string) (model.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.Name == name {
			return p, true
		}
	}
	return model.Project{}, false
}

// validateRate enforces the one creation/update policy this client
// supports: an hourly rate is required and must be non-negative.
func validateRate(rate float64) error {
	if rate < 0 {
		return model.NewValidationError("rate", "hourly rate must be a non-negative number")
	}
	return nil
}

// Create adds a new project. Name must be non-blank and an hourly rate is
// required; a blank color falls back to the default.
func (r *Registry) Create(ctx context.Context, name string, rate float64, color string) error {
	if strings.TrimSpace(name) == "" {
		return model.NewValidationError("name", "project name must not be blank")
	}
	if err := validateRate(rate); err != nil {
		return err
	}
	if color == "" {
		color = model.DefaultProjectColor
	}
	if err := r.store.AddProject(ctx, name, rate, color); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Update changes the color and hourly rate of an existing project. The
// name is immutable.
func (r *Registry) Update(ctx context.Context, name string, rate float64, color string) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	if color == "" {
		color = model.DefaultProjectColor
	}
	if err := r.store.UpdateProject(ctx, name, rate, color); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Delete removes a project. The server cascades the delete to every
// event of that project, so the caller must also refetch the event list
// after a successful delete.
func (r *Registry) Delete(ctx context.Context, name string) error {
	if err := r.store.DeleteProject(ctx, name); err != nil {
		return err
	}
	return r.Refresh(ctx)
}
