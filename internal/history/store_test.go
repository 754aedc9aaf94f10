package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mediaforge/internal/history"
	"mediaforge/internal/jobs"
	"mediaforge/internal/services"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleBatch(id string) jobs.BatchResult {
	ok := jobs.Succeeded("/out/processed_web_a.mp4", jobs.BackendPrimary)
	ok.Metrics = &jobs.Metrics{DurationSeconds: 12.5, SizeBytes: 2048, BitrateBps: 1310}
	return jobs.BatchResult{
		ID:             id,
		Label:          "web",
		ProcessedCount: 2,
		Items: []jobs.ItemResult{
			{InputPath: "/in/a.mp4", Result: ok},
			{InputPath: "/in/b.mp4", Result: jobs.Failed("", jobs.BackendNone, services.Wrap(services.ErrInvalidInput, "validate", "/in/b.mp4", "missing", nil))},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.Record(ctx, sampleBatch("b1"), started, started.Add(time.Minute)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	batch, items, err := store.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if batch.Status != jobs.StatusPartialFailure || batch.Succeeded != 1 || batch.Failed != 1 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if !batch.StartedAt.Equal(started) {
		t.Fatalf("unexpected start time %v", batch.StartedAt)
	}
	if len(items) != 2 {
		t.Fatalf("expected two items, got %d", len(items))
	}
	if items[0].Backend != jobs.BackendPrimary || items[0].Metrics == nil || items[0].Metrics.SizeBytes != 2048 {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Success || items[1].ErrorKind != services.KindInvalidInput || items[1].Metrics != nil {
		t.Fatalf("unexpected second item %+v", items[1])
	}
}

func TestListNewestFirstAndClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		start := base.Add(time.Duration(i) * time.Hour)
		if err := store.Record(ctx, sampleBatch(id), start, start.Add(time.Minute)); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	batches, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(batches) != 2 || batches[0].ID != "new" || batches[1].ID != "mid" {
		t.Fatalf("unexpected listing %+v", batches)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected three removed, got %d", removed)
	}
	if _, _, err := store.Get(ctx, "old"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now()
	if err := store.Record(context.Background(), sampleBatch("persist"), now, now); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, _, err := reopened.Get(context.Background(), "persist"); err != nil {
		t.Fatalf("expected batch after reopen, got %v", err)
	}
}
