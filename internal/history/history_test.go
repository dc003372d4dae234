package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dataDir, "history.db")); err != nil {
		t.Errorf("history.db missing: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	store.Record("download", "alice", "/home/pi/pi-bridge/alice/a.txt", 2048, 150*time.Millisecond, nil)
	store.Record("delete", "bob", "/home/pi/pi-bridge/bob", 0, 20*time.Millisecond, errors.New("remote failure"))

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Newest first.
	if entries[0].Op != "delete" {
		t.Errorf("entries[0].Op = %q, want delete", entries[0].Op)
	}
	if entries[0].Status != "error" || entries[0].Error != "remote failure" {
		t.Errorf("entries[0] = %+v, want error status", entries[0])
	}

	if entries[1].Op != "download" || entries[1].UserName != "alice" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if entries[1].Bytes != 2048 {
		t.Errorf("entries[1].Bytes = %d, want 2048", entries[1].Bytes)
	}
	if entries[1].DurationMS != 150 {
		t.Errorf("entries[1].DurationMS = %d, want 150", entries[1].DurationMS)
	}
	if entries[1].Status != "ok" || entries[1].Error != "" {
		t.Errorf("entries[1] = %+v, want ok status", entries[1])
	}
	if entries[1].CreatedAt == "" {
		t.Error("entries[1].CreatedAt is empty")
	}
}

func TestRecent_HonorsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.Record("connect", "alice", "", 0, time.Millisecond, nil)
	}

	entries, err := store.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestOpen_Reopenable(t *testing.T) {
	dataDir := t.TempDir()

	store, err := Open(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	store.Record("upload", "alice", "/x", 10, time.Millisecond, nil)
	store.Close()

	reopened, err := Open(dataDir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Op != "upload" {
		t.Errorf("entries after reopen = %+v", entries)
	}
}
