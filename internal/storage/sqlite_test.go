package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ldi/tend/pkg/models"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// 1. Fresh store loads empty
	tasks, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected empty collection, got %d tasks", len(tasks))
	}

	// 2. Save a mixed collection
	pending, err := models.New("Water plants")
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	done, err := models.New("Buy milk")
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	done.MarkCompleted()

	if err := store.SaveAll(ctx, []*models.Task{pending, done}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// 3. Reload and verify every persisted field
	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(loaded))
	}

	byID := map[string]*models.Task{loaded[0].ID: loaded[0], loaded[1].ID: loaded[1]}

	got, ok := byID[pending.ID]
	if !ok {
		t.Fatalf("Pending task %s not found after reload", pending.ID)
	}
	if got.Description != "Water plants" || got.Completed {
		t.Errorf("Pending task changed after round trip: %+v", got)
	}
	if !got.CreatedAt.Equal(pending.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", pending.CreatedAt, got.CreatedAt)
	}
	if got.CompletedAt != nil {
		t.Error("Expected CompletedAt to stay absent for pending task")
	}

	got, ok = byID[done.ID]
	if !ok {
		t.Fatalf("Completed task %s not found after reload", done.ID)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Errorf("Completed task changed after round trip: %+v", got)
	}
	if !got.CompletedAt.Equal(*done.CompletedAt) {
		t.Errorf("Expected CompletedAt %v, got %v", done.CompletedAt, got.CompletedAt)
	}
}

func TestSQLiteStoreReplacesWholesale(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	first, _ := models.New("First")
	second, _ := models.New("Second")
	if err := store.SaveAll(ctx, []*models.Task{first, second}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := store.SaveAll(ctx, []*models.Task{second}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != second.ID {
		t.Errorf("Expected only %s after replace, got %d tasks", second.ID, len(loaded))
	}

	// Saving empty clears the table
	if err := store.SaveAll(ctx, nil); err != nil {
		t.Fatalf("Failed to save empty collection: %v", err)
	}
	loaded, err = store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected empty collection, got %d", len(loaded))
	}
}

func TestSQLiteStorePersistsAcrossHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tasks.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	task, _ := models.New("Survive a restart")
	if err := store.SaveAll(ctx, []*models.Task{task}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != task.ID {
		t.Fatalf("Expected task %s after reopen, got %d tasks", task.ID, len(loaded))
	}
	if loaded[0].Description != "Survive a restart" {
		t.Errorf("Expected description to survive, got %q", loaded[0].Description)
	}
}
