// Package repo owns the authoritative in-memory task collection and keeps
// it synchronized with a storage backend.
package repo

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/ldi/tend/internal/storage"
	"github.com/ldi/tend/pkg/models"
)

// ErrNotFound is returned when an operation targets an id that is not in
// the collection.
var ErrNotFound = errors.New("task not found")

// Repository holds the single authoritative in-memory copy of the task
// collection. The durable copy is refreshed from it after every mutation
// and is rebuilt into it exactly once, at startup.
type Repository struct {
	store storage.Store
	tasks []*models.Task
}

// New creates a repository over the given store. Call Initialize before
// first use.
func New(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Initialize clears the collection and rebuilds it from durable state.
// It is safe to call repeatedly. Load failures degrade to an empty
// collection with a warning; the tool stays usable without storage.
func (r *Repository) Initialize(ctx context.Context) {
	r.tasks = nil

	loaded, err := r.store.LoadAll(ctx)
	if err != nil {
		log.Warn("could not load tasks, starting with an empty list", "err", err)
		return
	}
	r.tasks = loaded
}

// Persist replaces durable state with the current collection. A false
// return means the durable copy may be stale; the in-memory collection
// remains authoritative for the rest of the session.
func (r *Repository) Persist(ctx context.Context) bool {
	if err := r.store.SaveAll(ctx, r.tasks); err != nil {
		log.Warn("could not save tasks, changes are kept in memory only", "err", err)
		return false
	}
	return true
}

// Tasks returns the in-memory collection. Callers must not hold a
// divergent copy across mutations.
func (r *Repository) Tasks() []*models.Task {
	return r.tasks
}

// Append adds a task to the collection.
func (r *Repository) Append(t *models.Task) {
	r.tasks = append(r.tasks, t)
}

// Find returns the task with the given id, or ErrNotFound.
func (r *Repository) Find(id string) (*models.Task, error) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// Remove deletes the task with the given id, or returns ErrNotFound.
func (r *Repository) Remove(id string) error {
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
