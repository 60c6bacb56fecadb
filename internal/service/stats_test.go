package service

import (
	"context"
	"testing"
	"time"
)

func TestStatisticsEmpty(t *testing.T) {
	svc := newTestService(t)

	stats := svc.Statistics()
	if stats.Total != 0 || stats.Completed != 0 || stats.Pending != 0 {
		t.Errorf("Expected all counts 0, got %+v", stats)
	}
	if stats.CompletionPercent != 0 {
		t.Errorf("Expected 0%% on empty collection, got %d", stats.CompletionPercent)
	}
	if stats.MostProductiveDay != "" {
		t.Errorf("Expected no most productive day, got %q", stats.MostProductiveDay)
	}
}

func TestStatisticsCounts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, _ := svc.AddTask(ctx, "One")
	svc.AddTask(ctx, "Two")
	svc.AddTask(ctx, "Three")

	if _, err := svc.CompleteTask(ctx, first.ID); err != nil {
		t.Fatalf("Failed to complete task: %v", err)
	}

	stats := svc.Statistics()
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 {
		t.Errorf("Expected 3/1/2, got %+v", stats)
	}
	// 1/3 rounds to 33
	if stats.CompletionPercent != 33 {
		t.Errorf("Expected 33%%, got %d", stats.CompletionPercent)
	}
}

func TestStatisticsPercentRounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.AddTask(ctx, "A")
	b, _ := svc.AddTask(ctx, "B")
	svc.AddTask(ctx, "C")

	svc.CompleteTask(ctx, a.ID)
	svc.CompleteTask(ctx, b.ID)

	// 2/3 rounds to 67, not 66
	if got := svc.Statistics().CompletionPercent; got != 67 {
		t.Errorf("Expected 67%%, got %d", got)
	}
}

func TestMostProductiveDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	day1 := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)

	a, _ := svc.AddTask(ctx, "A")
	b, _ := svc.AddTask(ctx, "B")
	c, _ := svc.AddTask(ctx, "C")

	// Two tasks on day2, one on day1; time of day must not matter
	a.CreatedAt = day1
	b.CreatedAt = day2
	c.CreatedAt = day2.Add(10 * time.Hour)

	if got := svc.Statistics().MostProductiveDay; got != "2026-02-11" {
		t.Errorf("Expected 2026-02-11, got %q", got)
	}
}

func TestMostProductiveDayTieBreak(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// One task on each of two days: the earliest date wins the tie
	a, _ := svc.AddTask(ctx, "A")
	b, _ := svc.AddTask(ctx, "B")
	a.CreatedAt = time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)
	b.CreatedAt = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

	if got := svc.Statistics().MostProductiveDay; got != "2026-02-10" {
		t.Errorf("Expected tie to go to the earliest date 2026-02-10, got %q", got)
	}
}
