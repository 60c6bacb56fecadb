// Package storage provides durable persistence for the task collection.
//
// Both backends replace the durable state wholesale on every save. That is
// only safe with a single writing process; two processes saving concurrently
// can interleave deletes and writes and lose data. tend assumes a single
// interactive user per data directory.
package storage

import (
	"context"

	"github.com/ldi/tend/pkg/models"
)

// Store is the persistence port for the task collection. Implementations
// are interchangeable: a flat JSON file and a SQLite-backed record store.
type Store interface {
	// LoadAll returns every previously persisted task. A backend that has
	// never been written to loads as an empty collection, not an error.
	LoadAll(ctx context.Context) ([]*models.Task, error)

	// SaveAll fully replaces durable state with the given collection.
	SaveAll(ctx context.Context, tasks []*models.Task) error

	// Close releases the underlying handle.
	Close() error
}
