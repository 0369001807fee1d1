// Package telemetry records the history of affected and watch-mode runs (what query was
// issued, what it returned, how long it took) to a local SQLite database.
package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"deptrack/internal/logging"
)

// DB wraps a SQLite connection with the pragmas and transaction helper the
// rest of this package relies on.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
}

// Open opens or creates repoRoot/.deptrack/runs.db, creating the schema if
// the database is new.
func Open(repoRoot string, logger *logging.Logger) (*DB, error) {
	dir := filepath.Join(repoRoot, ".deptrack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .deptrack directory: %w", err)
	}
	dbPath := filepath.Join(dir, "runs.db")

	_, statErr := os.Stat(dbPath)
	dbExists := statErr == nil

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger}
	if !dbExists {
		logger.Info("creating new run-history database", map[string]interface{}{"path": dbPath})
	}
	if err := db.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back (re-panicking if fn panicked) on failure.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", map[string]interface{}{
				"error":         err.Error(),
				"rollbackError": rbErr.Error(),
			})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) initializeSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			started_at    TEXT NOT NULL,
			finished_at   TEXT,
			changed_count INTEGER NOT NULL DEFAULT 0,
			affected_count INTEGER NOT NULL DEFAULT 0,
			error         TEXT
		);
		CREATE TABLE IF NOT EXISTS run_entry_files (
			run_id     TEXT NOT NULL REFERENCES runs(id),
			entry_file TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_run_entry_files_run_id ON run_entry_files(run_id);
	`)
	return err
}
