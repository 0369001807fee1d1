package telemetry

import (
	"testing"
	"time"

	"deptrack/internal/logging"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_StartAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	id, started, err := store.StartRun()
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if id == "" {
		t.Fatal("StartRun() returned empty id")
	}

	finished := started.Add(10 * time.Millisecond)
	if err := store.FinishRun(id, finished, 2, []string{"/p/a.js", "/p/b.js"}, nil); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns() = %d runs, want 1", len(runs))
	}
	if runs[0].ID != id {
		t.Errorf("RecentRuns()[0].ID = %q, want %q", runs[0].ID, id)
	}
	if len(runs[0].EntryFiles) != 2 {
		t.Errorf("RecentRuns()[0].EntryFiles = %v, want 2 entries", runs[0].EntryFiles)
	}
	if runs[0].Error != "" {
		t.Errorf("RecentRuns()[0].Error = %q, want empty", runs[0].Error)
	}
}

func TestStore_FinishRunWithError(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	id, started, err := store.StartRun()
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	if err := store.FinishRun(id, started, 0, nil, errFailedExample); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Error != errFailedExample.Error() {
		t.Errorf("RecentRuns() = %+v, want Error = %q", runs, errFailedExample.Error())
	}
}

func TestStore_RecentRunsOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	first, started, err := store.StartRun()
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if err := store.FinishRun(first, started, 0, nil, nil); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	second, started2, err := store.StartRun()
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if err := store.FinishRun(second, started2, 0, nil, nil); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns() = %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("RecentRuns() order = [%s %s], want newest first [%s %s]", runs[0].ID, runs[1].ID, second, first)
	}
}

var errFailedExample = &runError{"query failed"}

type runError struct{ msg string }

func (e *runError) Error() string { return e.msg }
