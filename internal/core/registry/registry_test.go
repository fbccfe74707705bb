package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracktop/tracktop/internal/core/model"
)

type fakeStore struct {
	projects []model.Project

	fetchErr error
	addErr   error

	added   []model.Project
	updated []model.Project
	deleted []string
}

func (f *fakeStore) FetchProjects(ctx context.Context) ([]model.Project, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeStore) AddProject(ctx context.Context, name string, rate float64, color string) error {
	if f.addErr != nil {
		return f.addErr
	}
	p := model.Project{Name: name, HourlyRate: rate, Color: color}
	f.added = append(f.added, p)
	f.projects = append(f.projects, p)
	return nil
}

func (f *fakeStore) UpdateProject(ctx context.Context, name string, rate float64, color string) error {
	f.updated = append(f.updated, model.Project{Name: name, HourlyRate: rate, Color: color})
	return nil
}

func (f *fakeStore) DeleteProject(ctx context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	var kept []model.Project
	for _, p := range f.projects {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	return nil
}

func TestRefreshAndGet(t *testing.T) {
	store := &fakeStore{projects: []model.Project{
		{Name: "acme", HourlyRate: 25, Color: "#aa69b9"},
	}}
	r := New(store)

	require.NoError(t, r.Refresh(context.Background()))
	p, ok := r.Get("acme")
	require.True(t, ok)
	assert.Equal(t, 25.0, p.HourlyRate)

	_, ok = r.Get("ghost")
	assert.False(t, ok)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		projectName string
		rate        float64
		wantErr     bool
	}{
		{
			name:        "blank name rejected",
			projectName: "   ",
			rate:        10,
			wantErr:     true,
		},
		{
			name:        "negative rate rejected",
			projectName: "acme",
			rate:        -1,
			wantErr:     true,
		},
		{
			name:        "zero rate allowed",
			projectName: "pro-bono",
			rate:        0,
			wantErr:     false,
		},
		{
			name:        "normal create",
			projectName: "acme",
			rate:        25,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			r := New(store)
			err := r.Create(context.Background(), tt.projectName, tt.rate, "")
			if tt.wantErr {
				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Empty(t, store.added, "no network call for invalid input")
			} else {
				require.NoError(t, err)
				require.Len(t, store.added, 1)
			}
		})
	}
}

func TestCreateAppliesDefaultColor(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	require.NoError(t, r.Create(context.Background(), "acme", 25, ""))
	require.Len(t, store.added, 1)
	assert.Equal(t, model.DefaultProjectColor, store.added[0].Color)

	require.NoError(t, r.Create(context.Background(), "other", 25, "#aa69b9"))
	assert.Equal(t, "#aa69b9", store.added[1].Color)
}

func TestCreateRefreshesCache(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	require.NoError(t, r.Create(context.Background(), "acme", 25, ""))
	_, ok := r.Get("acme")
	assert.True(t, ok, "cache reflects the refetched list, not the local write")
}

func TestUpdateValidatesRate(t *testing.T) {
	store := &fakeStore{projects: []model.Project{{Name: "acme"}}}
	r := New(store)

	err := r.Update(context.Background(), "acme", -5, "#ffffff")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.updated)

	require.NoError(t, r.Update(context.Background(), "acme", 30, "#ffffff"))
	require.Len(t, store.updated, 1)
	assert.Equal(t, 30.0, store.updated[0].HourlyRate)
}

func TestDeleteRemovesFromCache(t *testing.T) {
	store := &fakeStore{projects: []model.Project{{Name: "acme"}, {Name: "other"}}}
	r := New(store)
	require.NoError(t, r.Refresh(context.Background()))

	require.NoError(t, r.Delete(context.Background(), "acme"))
	assert.Equal(t, []string{"acme"}, store.deleted)
	_, ok := r.Get("acme")
	assert.False(t, ok)
	_, ok = r.Get("other")
	assert.True(t, ok)
}

func TestCreateSurfacesStoreError(t *testing.T) {
	store := &fakeStore{addErr: errors.New("name already taken")}
	r := New(store)
	assert.Error(t, r.Create(context.Background(), "acme", 25, ""))
}
