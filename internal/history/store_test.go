package history_test

import (
	"context"
	"errors"
	"testing"

	"musort/internal/history"
	"musort/internal/plan"
	"musort/internal/testsupport"
)

func TestStoreRecordsFullRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/library", "default")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run has no identifier")
	}

	ops := []plan.Operation{
		{Kind: plan.KindMove, Source: "/library/in/a.mp3", Destination: "/library/Punk/Amebix/a.mp3", Status: plan.StatusExecuted},
		{Kind: plan.KindMove, Source: "/library/in/b.mp3", Destination: "/library/Punk/Amebix/b.mp3", Status: plan.StatusSkipped, Reason: plan.ReasonSkippedExisting},
		{Kind: plan.KindRmdir, Source: "/library/in", Status: plan.StatusFailed, Err: errors.New("directory not empty")},
	}
	if err := store.RecordOperations(ctx, run.ID, ops); err != nil {
		t.Fatalf("RecordOperations: %v", err)
	}

	run.Executed, run.Skipped, run.Failed = 1, 1, 1
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Root != "/library" || got.Mode != "default" {
		t.Fatalf("run = %+v", got)
	}
	if got.Executed != 1 || got.Skipped != 1 || got.Failed != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.FinishedAt.IsZero() || got.FinishedAt.Before(got.StartedAt) {
		t.Fatalf("timestamps = %v .. %v", got.StartedAt, got.FinishedAt)
	}

	records, err := store.RunOperations(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunOperations: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1].Reason != string(plan.ReasonSkippedExisting) {
		t.Fatalf("records[1] = %+v", records[1])
	}
	if records[2].Error == "" {
		t.Fatalf("records[2] lost its error: %+v", records[2])
	}
}

func TestRecentRunsOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first, err := store.BeginRun(ctx, "/a", "default")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	second, err := store.BeginRun(ctx, "/b", "folder-mode")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != second.ID {
		t.Fatalf("runs = %+v, want only %s", runs, second.ID)
	}

	runs, err = store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	if _, err := store.BeginRun(context.Background(), "/library", "default"); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	store.Close()

	// Reopening the same database must succeed at the current version.
	store, err = history.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs after reopen = %+v, %v", runs, err)
	}
}
