// Package service implements the user-facing task operations and enforces
// the rules that need the whole collection: id uniqueness is guaranteed by
// generation, description uniqueness is checked here on create and edit.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ldi/tend/internal/repo"
	"github.com/ldi/tend/pkg/models"
)

var (
	// ErrDuplicate is returned when another task already has the same
	// description under case-insensitive, trim-normalized comparison.
	ErrDuplicate = errors.New("a task with this description already exists")

	// ErrEmptySearch is returned when a search term is blank after trimming.
	ErrEmptySearch = errors.New("search term must not be empty")

	// ErrAlreadyCompleted is returned when CompleteTask targets a task
	// that is already completed.
	ErrAlreadyCompleted = errors.New("task is already completed")

	// ErrNotCompleted is returned when ReopenTask targets a pending task.
	ErrNotCompleted = errors.New("task is not completed")
)

// Filter selects a subset of the collection for listing.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Service exposes the business operations over a repository. It is the
// only component that mutates the collection and the only caller of
// Persist.
type Service struct {
	repo *repo.Repository
}

// New creates a service over the given repository.
func New(r *repo.Repository) *Service {
	return &Service{repo: r}
}

// AddTask validates the description, rejects case-insensitive duplicates,
// and appends a new pending task. The collection is untouched on failure.
func (s *Service) AddTask(ctx context.Context, description string) (*models.Task, error) {
	if !models.ValidDescription(description) {
		return nil, models.ErrEmptyDescription
	}

	if s.findDuplicate(description, "") != nil {
		return nil, ErrDuplicate
	}

	task, err := models.New(description)
	if err != nil {
		return nil, err
	}

	s.repo.Append(task)
	s.repo.Persist(ctx)
	return task, nil
}

// ListTasks returns the matching subset sorted for display: pending tasks
// before completed ones, newest first within each group. The sort is
// stable so equal-timestamp tasks keep their collection order.
func (s *Service) ListTasks(filter Filter) []*models.Task {
	var out []*models.Task
	for _, t := range s.repo.Tasks() {
		switch filter {
		case FilterPending:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// EditTask replaces a task's description in place. The duplicate check
// excludes the task being edited, so re-saving the same description is
// allowed. ID, CreatedAt, and completion state are untouched.
func (s *Service) EditTask(ctx context.Context, id, newDescription string) (*models.Task, error) {
	task, err := s.repo.Find(id)
	if err != nil {
		return nil, err
	}

	if !models.ValidDescription(newDescription) {
		return nil, models.ErrEmptyDescription
	}

	if s.findDuplicate(newDescription, id) != nil {
		return nil, ErrDuplicate
	}

	task.Description = strings.TrimSpace(newDescription)
	s.repo.Persist(ctx)
	return task, nil
}

// CompleteTask marks a pending task as completed.
func (s *Service) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.Find(id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, ErrAlreadyCompleted
	}

	task.MarkCompleted()
	s.repo.Persist(ctx)
	return task, nil
}

// ReopenTask moves a completed task back to pending, removing its
// completion timestamp entirely.
func (s *Service) ReopenTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.Find(id)
	if err != nil {
		return nil, err
	}
	if !task.Completed {
		return nil, ErrNotCompleted
	}

	task.MarkPending()
	s.repo.Persist(ctx)
	return task, nil
}

// DeleteTask removes a task by id. Confirmation is the caller's concern.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Remove(id); err != nil {
		return err
	}
	s.repo.Persist(ctx)
	return nil
}

// SearchTasks returns every task whose description contains term as a
// case-insensitive substring, in collection order. Listing order does not
// apply here; search and sorted listing are distinct operations.
func (s *Service) SearchTasks(term string) ([]*models.Task, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return nil, ErrEmptySearch
	}

	needle := strings.ToLower(trimmed)
	var out []*models.Task
	for _, t := range s.repo.Tasks() {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

// findDuplicate returns a task whose normalized description equals the
// given one, skipping excludeID (the task being edited).
func (s *Service) findDuplicate(description, excludeID string) *models.Task {
	key := models.NormalizeKey(description)
	for _, t := range s.repo.Tasks() {
		if t.ID == excludeID {
			continue
		}
		if models.NormalizeKey(t.Description) == key {
			return t
		}
	}
	return nil
}
