package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ldi/tend/internal/config"
	"github.com/ldi/tend/internal/mcp"
	"github.com/ldi/tend/internal/repo"
	"github.com/ldi/tend/internal/service"
	"github.com/ldi/tend/internal/storage"
	"github.com/ldi/tend/internal/ui"
	"github.com/ldi/tend/pkg/models"
)

var (
	storeKind string
	dataFile  string
	dbPath    string
)

func main() {
	flag.StringVar(&storeKind, "store", "", "Persistence backend: file or sqlite (overrides config)")
	flag.StringVar(&dataFile, "data-file", "", "Path to the JSON task file (overrides config)")
	flag.StringVar(&dbPath, "db-path", "", "Path to the SQLite database (overrides config)")
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run opens the configured backend once, builds the service over it, and
// dispatches. The store handle is released on every exit path.
func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	r := repo.New(store)
	r.Initialize(ctx)
	svc := service.New(r)

	if len(args) == 0 {
		return ui.NewSession(svc, os.Stdin, os.Stdout).Run(ctx)
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "add":
		return runAdd(ctx, svc, rest)
	case "list":
		return runList(svc, rest)
	case "edit":
		return runEdit(ctx, svc, rest)
	case "done":
		return runDone(ctx, svc, rest)
	case "reopen":
		return runReopen(ctx, svc, rest)
	case "rm":
		return runRemove(ctx, svc, rest)
	case "search":
		return runSearch(svc, rest)
	case "stats":
		return runStats(svc)
	case "mcp":
		return mcp.Serve(mcp.NewServer(svc))
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if storeKind != "" {
		cfg.Store = storeKind
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case "sqlite":
		return storage.OpenSQLite(cfg.DBPath)
	default:
		return storage.NewFileStore(cfg.DataFile), nil
	}
}

func runAdd(ctx context.Context, svc *service.Service, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tend add <description>")
	}

	task, err := svc.AddTask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %q (%s)\n", task.Description, shortID(task.ID))
	return nil
}

func runList(svc *service.Service, args []string) error {
	listFlags := flag.NewFlagSet("list", flag.ContinueOnError)
	filterFlag := listFlags.String("filter", "all", "Filter by state (all, pending, completed)")
	if err := listFlags.Parse(args); err != nil {
		return err
	}

	filter := service.Filter(*filterFlag)
	switch filter {
	case service.FilterAll, service.FilterPending, service.FilterCompleted:
	default:
		return fmt.Errorf("unknown filter: %s", *filterFlag)
	}

	tasks := svc.ListTasks(filter)
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	fmt.Printf("%-10s %-5s %-40s %s\n", "ID", "DONE", "DESCRIPTION", "CREATED")
	fmt.Println(strings.Repeat("-", 70))
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Printf("%-10s [%s]   %-40s %s\n", shortID(t.ID), done, t.Description, t.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runEdit(ctx context.Context, svc *service.Service, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tend edit <id> <new description>")
	}

	task, err := resolveTask(svc, args[0])
	if err != nil {
		return err
	}

	edited, err := svc.EditTask(ctx, task.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated to %q\n", edited.Description)
	return nil
}

func runDone(ctx context.Context, svc *service.Service, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tend done <id>")
	}

	task, err := resolveTask(svc, args[0])
	if err != nil {
		return err
	}

	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Completed %q\n", task.Description)
	return nil
}

func runReopen(ctx context.Context, svc *service.Service, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tend reopen <id>")
	}

	task, err := resolveTask(svc, args[0])
	if err != nil {
		return err
	}

	if _, err := svc.ReopenTask(ctx, task.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Reopened %q\n", task.Description)
	return nil
}

func runRemove(ctx context.Context, svc *service.Service, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tend rm <id>")
	}

	task, err := resolveTask(svc, args[0])
	if err != nil {
		return err
	}

	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted %q\n", task.Description)
	return nil
}

func runSearch(svc *service.Service, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tend search <term>")
	}

	results, err := svc.SearchTasks(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matching tasks.")
		return nil
	}

	for _, t := range results {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Printf("%-10s [%s] %s\n", shortID(t.ID), done, t.Description)
	}
	return nil
}

func runStats(svc *service.Service) error {
	stats := svc.Statistics()

	fmt.Println("Task Statistics")
	fmt.Println("===============")
	fmt.Printf("Total:      %d\n", stats.Total)
	fmt.Printf("Pending:    %d\n", stats.Pending)
	fmt.Printf("Completed:  %d (%d%%)\n", stats.Completed, stats.CompletionPercent)
	if stats.MostProductiveDay != "" {
		fmt.Printf("Most productive day: %s\n", stats.MostProductiveDay)
	}
	return nil
}

// resolveTask finds a task by full id or unique id prefix.
func resolveTask(svc *service.Service, prefix string) (*models.Task, error) {
	var match *models.Task
	for _, t := range svc.ListTasks(service.FilterAll) {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous id prefix: %s", prefix)
		}
		match = t
	}
	if match == nil {
		return nil, fmt.Errorf("no task with id %s", prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
