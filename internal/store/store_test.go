package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "legacy.json")
	s, err := Open(filepath.Join(dir, "test.db"), legacyPath, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, legacyPath
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path, filepath.Join(dir, "legacy.json"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	legacy := filepath.Join(dir, "legacy.json")

	for i := 0; i < 3; i++ {
		s, err := Open(path, legacy)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path, legacy)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='kv'",
	).Scan(&name)
	if err != nil {
		t.Errorf("kv table not found after idempotent opens: %v", err)
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db", "/nonexistent/dir/legacy.json")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestRequestPersistence_Grants(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.RequestPersistence(context.Background()) {
		t.Error("RequestPersistence() = false, want true")
	}

	status, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if !status.Persisted {
		t.Error("Status().Persisted = false after granted persistence")
	}
}

func TestStatus_ReportsUsage(t *testing.T) {
	s, _ := newTestStore(t, WithQuota(1<<20))

	if !s.Set(context.Background(), "cards", []byte(`[]`)) {
		t.Fatal("Set() failed")
	}

	status, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if status.Quota != 1<<20 {
		t.Errorf("Quota = %d, want %d", status.Quota, 1<<20)
	}
	if status.Usage <= 0 {
		t.Errorf("Usage = %d, want > 0", status.Usage)
	}
	if status.Percentage <= 0 {
		t.Errorf("Percentage = %v, want > 0", status.Percentage)
	}
}
