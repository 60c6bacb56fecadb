package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ldi/tend/internal/config"
	"github.com/ldi/tend/internal/repo"
	"github.com/ldi/tend/internal/service"
	"github.com/ldi/tend/internal/storage"
)

func setupTestService(t *testing.T) *service.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".tend", "tasks.json")
	r := repo.New(storage.NewFileStore(path))
	r.Initialize(context.Background())
	return service.New(r)
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return buf.String(), runErr
}

func TestRunAddAndList(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	out, err := captureStdout(t, func() error {
		return runAdd(ctx, svc, []string{"Buy", "milk"})
	})
	if err != nil {
		t.Fatalf("runAdd failed: %v", err)
	}
	if !strings.Contains(out, "Added \"Buy milk\"") {
		t.Errorf("expected add confirmation, got %q", out)
	}

	out, err = captureStdout(t, func() error {
		return runList(svc, []string{})
	})
	if err != nil {
		t.Fatalf("runList failed: %v", err)
	}
	if !strings.Contains(out, "Buy milk") {
		t.Errorf("expected task in listing, got %q", out)
	}
}

func TestRunListEmpty(t *testing.T) {
	svc := setupTestService(t)

	out, err := captureStdout(t, func() error {
		return runList(svc, []string{})
	})
	if err != nil {
		t.Fatalf("runList failed: %v", err)
	}
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("expected empty-result message, got %q", out)
	}
}

func TestRunListRejectsUnknownFilter(t *testing.T) {
	svc := setupTestService(t)

	_, err := captureStdout(t, func() error {
		return runList(svc, []string{"-filter", "bogus"})
	})
	if err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestRunDoneWithIDPrefix(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, "Water plants")
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return runDone(ctx, svc, []string{task.ID[:8]})
	})
	if err != nil {
		t.Fatalf("runDone failed: %v", err)
	}
	if !strings.Contains(out, "Completed") {
		t.Errorf("expected completion message, got %q", out)
	}
	if got := len(svc.ListTasks(service.FilterCompleted)); got != 1 {
		t.Errorf("expected 1 completed task, got %d", got)
	}
}

func TestResolveTaskUnknownID(t *testing.T) {
	svc := setupTestService(t)

	if _, err := resolveTask(svc, "deadbeef"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRunStats(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, _ := svc.AddTask(ctx, "One")
	svc.AddTask(ctx, "Two")
	if _, err := svc.CompleteTask(ctx, first.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return runStats(svc)
	})
	if err != nil {
		t.Fatalf("runStats failed: %v", err)
	}
	for _, want := range []string{"Total:      2", "Completed:  1 (50%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in stats output, got:\n%s", want, out)
		}
	}
}

func TestFlagOverridesConfig(t *testing.T) {
	tmpDir := t.TempDir()
	// Keep a developer's real user config out of the lookup
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })

	storeKind = "sqlite"
	dbPath = filepath.Join(tmpDir, "tasks.db")
	t.Cleanup(func() { storeKind, dataFile, dbPath = "", "", "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Store != "sqlite" {
		t.Errorf("expected flag to override store, got %q", cfg.Store)
	}
	if cfg.DBPath != dbPath {
		t.Errorf("expected flag to override db path, got %q", cfg.DBPath)
	}
	// Untouched keys keep config defaults
	if cfg.DataFile != config.DefaultDataFile {
		t.Errorf("expected default data file, got %q", cfg.DataFile)
	}
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	tmpDir := t.TempDir()

	fileStore, err := openStore(&config.Config{Store: "file", DataFile: filepath.Join(tmpDir, "tasks.json")})
	if err != nil {
		t.Fatalf("failed to open file store: %v", err)
	}
	defer fileStore.Close()
	if _, ok := fileStore.(*storage.FileStore); !ok {
		t.Errorf("expected *storage.FileStore, got %T", fileStore)
	}

	sqliteStore, err := openStore(&config.Config{Store: "sqlite", DBPath: filepath.Join(tmpDir, "tasks.db")})
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer sqliteStore.Close()
	if _, ok := sqliteStore.(*storage.SQLiteStore); !ok {
		t.Errorf("expected *storage.SQLiteStore, got %T", sqliteStore)
	}
}
