package telemetry

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Run records one completed AffectedEntryFiles query: what changed, what it
// affected, how long it took.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	ChangedCount int
	EntryFiles   []string
	Error        string
}

// Store persists Run records to the run-history database.
type Store struct {
	db *DB
}

// NewStore wraps db as a run-history Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// StartRun allocates a new run ID and records its start time. The returned
// ID is passed to FinishRun once the query completes.
func (s *Store) StartRun() (string, time.Time, error) {
	id := uuid.NewString()
	started := time.Now().UTC()
	err := s.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, started.Format("2006-01-02T15:04:05.000000000Z07:00"))
		return err
	})
	return id, started, err
}

// FinishRun records a run's outcome: when it finished, how many changed
// files fed the query, which entry files it found affected, and whether it
// failed.
func (s *Store) FinishRun(id string, finished time.Time, changedCount int, entryFiles []string, runErr error) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		errMsg := ""
		if runErr != nil {
			errMsg = runErr.Error()
		}
		if _, err := tx.Exec(
			`UPDATE runs SET finished_at = ?, changed_count = ?, affected_count = ?, error = ? WHERE id = ?`,
			finished.Format(time.RFC3339Nano), changedCount, len(entryFiles), errMsg, id,
		); err != nil {
			return err
		}
		for _, f := range entryFiles {
			if _, err := tx.Exec(`INSERT INTO run_entry_files (run_id, entry_file) VALUES (?, ?)`, id, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecentRuns returns up to limit of the most recently started runs, newest
// first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, started_at, finished_at, changed_count, affected_count, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			id, startedAt                string
			finishedAt, errMsg           sql.NullString
			changedCount, affectedCount  int
		)
		if err := rows.Scan(&id, &startedAt, &finishedAt, &changedCount, &affectedCount, &errMsg); err != nil {
			return nil, err
		}
		started, _ := time.Parse(time.RFC3339Nano, startedAt)
		var finished time.Time
		if finishedAt.Valid {
			finished, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
		}
		runs = append(runs, Run{
			ID:           id,
			StartedAt:    started,
			FinishedAt:   finished,
			ChangedCount: changedCount,
			Error:        errMsg.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		files, err := s.entryFilesForRun(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].EntryFiles = files
	}
	return runs, nil
}

func (s *Store) entryFilesForRun(runID string) ([]string, error) {
	rows, err := s.db.conn.Query(`SELECT entry_file FROM run_entry_files WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
