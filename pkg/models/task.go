package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyDescription is returned when a description is empty or
// whitespace-only after trimming.
var ErrEmptyDescription = errors.New("description must not be empty")

// Task represents one user-tracked unit of work.
//
// CompletedAt is present iff Completed is true. When a task returns to
// pending the field is removed entirely (nil pointer, omitted from JSON),
// so consumers cannot distinguish "never completed" from "reset".
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// New creates a pending task with a fresh ID and creation timestamp.
// The description is trimmed before storage; a blank description fails
// with ErrEmptyDescription.
func New(description string) (*Task, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil, ErrEmptyDescription
	}

	return &Task{
		ID:          uuid.New().String(),
		Description: trimmed,
		Completed:   false,
		CreatedAt:   time.Now(),
	}, nil
}

// ValidDescription reports whether s is non-empty after trimming.
func ValidDescription(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MarkCompleted transitions the task to completed. Calling it on an
// already completed task just refreshes CompletedAt; the service layer
// is responsible for only invoking it on pending tasks.
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Completed = true
	t.CompletedAt = &now
}

// MarkPending transitions the task back to pending and removes
// CompletedAt entirely.
func (t *Task) MarkPending() {
	t.Completed = false
	t.CompletedAt = nil
}

// NormalizeKey returns the comparison key used for duplicate detection:
// trimmed and lowercased.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
