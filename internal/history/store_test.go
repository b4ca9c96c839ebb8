package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Append(context.Background(), Record{
		URL:     "https://youtu.be/ABC123",
		VideoID: "ABC123",
		State:   StateCompleted,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatal("expected an assigned id")
	}

	records, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != id {
		t.Fatalf("expected id %q, got %q", id, records[0].ID)
	}
	if records[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at to be filled in")
	}
}

func TestAppendRequiresState(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Append(context.Background(), Record{URL: "https://youtu.be/x"}); err == nil {
		t.Fatal("expected error for missing state")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, videoID := range []string{"first", "second", "third"} {
		_, err := store.Append(context.Background(), Record{
			URL:       "https://youtu.be/" + videoID,
			VideoID:   videoID,
			State:     StateCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %s: %v", videoID, err)
		}
	}

	records, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].VideoID != "third" || records[1].VideoID != "second" {
		t.Fatalf("expected newest first, got %q then %q", records[0].VideoID, records[1].VideoID)
	}
}

func TestRoundTripsFailedRun(t *testing.T) {
	store := openTestStore(t)
	completed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	_, err := store.Append(context.Background(), Record{
		URL:               "https://youtu.be/XYZ987",
		VideoID:           "XYZ987",
		Title:             "Broken",
		RequestedLanguage: "en",
		State:             StateFailed,
		ErrorMessage:      "download: yt-dlp exited 1",
		CompletedAt:       completed,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := records[0]
	if got.State != StateFailed || got.ErrorMessage == "" {
		t.Fatalf("unexpected record: %#v", got)
	}
	if !got.CompletedAt.Equal(completed) {
		t.Fatalf("expected completed_at %v, got %v", completed, got.CompletedAt)
	}
}

func TestReopenKeepsSchemaAndData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Append(context.Background(), Record{URL: "u", State: StateCopied}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].State != StateCopied {
		t.Fatalf("unexpected records after reopen: %#v", records)
	}
}
