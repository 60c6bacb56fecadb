package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ldi/tend/internal/service"
	"github.com/ldi/tend/pkg/models"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle = lipgloss.NewStyle().Faint(true)
)

// Session drives one interactive run: menu choice, prompts, service call,
// rendered output, repeat. Reader and writer are injected so the prompt
// flow is testable without a terminal.
type Session struct {
	svc *service.Service
	in  *bufio.Reader
	out io.Writer
}

func NewSession(svc *service.Service, in io.Reader, out io.Writer) *Session {
	return &Session{
		svc: svc,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Run loops the main menu until the user quits. Service errors are
// reported and the loop continues; only I/O failures end the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		choice, err := RunMenu()
		if err != nil {
			return fmt.Errorf("failed to run menu: %w", err)
		}
		if choice == "" || choice == "quit" {
			return nil
		}
		if err := s.Handle(ctx, choice); err != nil {
			return err
		}
	}
}

// Handle runs a single menu choice.
func (s *Session) Handle(ctx context.Context, choice string) error {
	switch choice {
	case "add":
		return s.handleAdd(ctx)
	case "list":
		return s.handleList()
	case "edit":
		return s.handleEdit(ctx)
	case "done":
		return s.handleDone(ctx)
	case "reopen":
		return s.handleReopen(ctx)
	case "delete":
		return s.handleDelete(ctx)
	case "search":
		return s.handleSearch()
	case "stats":
		return s.handleStats()
	default:
		return fmt.Errorf("unknown choice: %s", choice)
	}
}

func (s *Session) handleAdd(ctx context.Context) error {
	description, err := s.prompt("Description")
	if err != nil {
		return err
	}

	task, err := s.svc.AddTask(ctx, description)
	if err != nil {
		s.fail(err)
		return nil
	}
	s.ok("Added %q", task.Description)
	return nil
}

func (s *Session) handleList() error {
	filter, err := s.prompt("Filter (all/pending/completed, default all)")
	if err != nil {
		return err
	}
	if filter == "" {
		filter = "all"
	}
	switch service.Filter(filter) {
	case service.FilterAll, service.FilterPending, service.FilterCompleted:
	default:
		s.fail(fmt.Errorf("unknown filter %q", filter))
		return nil
	}

	s.RenderTasks(s.svc.ListTasks(service.Filter(filter)))
	return nil
}

func (s *Session) handleEdit(ctx context.Context) error {
	task, err := s.selectTask(s.svc.ListTasks(service.FilterAll), "Task to edit")
	if err != nil || task == nil {
		return err
	}

	description, err := s.prompt("New description")
	if err != nil {
		return err
	}

	edited, err := s.svc.EditTask(ctx, task.ID, description)
	if err != nil {
		s.fail(err)
		return nil
	}
	s.ok("Updated to %q", edited.Description)
	return nil
}

func (s *Session) handleDone(ctx context.Context) error {
	// Only pending tasks are offered
	task, err := s.selectTask(s.svc.ListTasks(service.FilterPending), "Task to complete")
	if err != nil || task == nil {
		return err
	}

	if _, err := s.svc.CompleteTask(ctx, task.ID); err != nil {
		s.fail(err)
		return nil
	}
	s.ok("Completed %q", task.Description)
	return nil
}

func (s *Session) handleReopen(ctx context.Context) error {
	task, err := s.selectTask(s.svc.ListTasks(service.FilterCompleted), "Task to reopen")
	if err != nil || task == nil {
		return err
	}

	if _, err := s.svc.ReopenTask(ctx, task.ID); err != nil {
		s.fail(err)
		return nil
	}
	s.ok("Reopened %q", task.Description)
	return nil
}

func (s *Session) handleDelete(ctx context.Context) error {
	task, err := s.selectTask(s.svc.ListTasks(service.FilterAll), "Task to delete")
	if err != nil || task == nil {
		return err
	}

	confirmed, err := s.confirm(fmt.Sprintf("Delete %q?", task.Description))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil
	}

	if err := s.svc.DeleteTask(ctx, task.ID); err != nil {
		s.fail(err)
		return nil
	}
	s.ok("Deleted %q", task.Description)
	return nil
}

func (s *Session) handleSearch() error {
	term, err := s.prompt("Search term")
	if err != nil {
		return err
	}

	results, err := s.svc.SearchTasks(term)
	if err != nil {
		s.fail(err)
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintf(s.out, "No tasks matching %q.\n", strings.TrimSpace(term))
		return nil
	}
	s.RenderTasks(results)
	return nil
}

func (s *Session) handleStats() error {
	s.RenderStats(s.svc.Statistics())
	return nil
}

// RenderTasks prints a numbered listing; callers decide the order.
func (s *Session) RenderTasks(tasks []*models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks.")
		return
	}

	for i, t := range tasks {
		line := fmt.Sprintf("%3d. %s %s  (created %s)", i+1, checkbox(t), t.Description, t.CreatedAt.Format("2006-01-02"))
		if t.Completed {
			line = doneStyle.Render(line)
		}
		fmt.Fprintln(s.out, line)
	}
}

// RenderStats prints the statistics block.
func (s *Session) RenderStats(stats service.Statistics) {
	fmt.Fprintln(s.out, "Task Statistics")
	fmt.Fprintln(s.out, "===============")
	fmt.Fprintf(s.out, "Total:      %d\n", stats.Total)
	fmt.Fprintf(s.out, "Pending:    %d\n", stats.Pending)
	fmt.Fprintf(s.out, "Completed:  %d (%d%%)\n", stats.Completed, stats.CompletionPercent)
	if stats.MostProductiveDay != "" {
		fmt.Fprintf(s.out, "Most productive day: %s\n", stats.MostProductiveDay)
	}
}

// selectTask shows a numbered listing and reads a selection. Empty input
// cancels and returns nil without error.
func (s *Session) selectTask(tasks []*models.Task, label string) (*models.Task, error) {
	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "No tasks.")
		return nil, nil
	}

	s.RenderTasks(tasks)
	answer, err := s.prompt(fmt.Sprintf("%s (number, empty to cancel)", label))
	if err != nil {
		return nil, err
	}
	if answer == "" {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(tasks) {
		s.fail(fmt.Errorf("invalid selection %q", answer))
		return nil, nil
	}
	return tasks[n-1], nil
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", label)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) confirm(label string) (bool, error) {
	answer, err := s.prompt(fmt.Sprintf("%s (y/N)", label))
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (s *Session) ok(format string, args ...any) {
	fmt.Fprintln(s.out, okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (s *Session) fail(err error) {
	fmt.Fprintln(s.out, failStyle.Render("✗ "+err.Error()))
}

func checkbox(t *models.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}
