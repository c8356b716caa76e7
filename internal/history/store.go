package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"musort/internal/config"
	"musort/internal/plan"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is a single invocation of the sorter against one root.
type Run struct {
	ID         string
	Root       string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Executed   int
	Skipped    int
	Failed     int
	Unreadable int
}

// Record is one persisted operation outcome belonging to a run.
type Record struct {
	Kind        string
	Source      string
	Destination string
	Status      string
	Reason      string
	Error       string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureStateDir(); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a new run record and returns it with a fresh identifier.
func (s *Store) BeginRun(ctx context.Context, root, mode string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, root, mode, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Root, run.Mode, run.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run's end time and outcome counts.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	run.FinishedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, executed = ?, skipped = ?, failed = ?, unreadable = ? WHERE id = ?",
		run.FinishedAt.Format(time.RFC3339Nano), run.Executed, run.Skipped, run.Failed, run.Unreadable, run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordOperations persists every terminal operation outcome for a run in a
// single transaction. Planned-only operations (dry runs) are stored too, so
// previews remain inspectable.
func (s *Store) RecordOperations(ctx context.Context, runID string, ops []plan.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin operations tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO operations (run_id, kind, source, destination, status, reason, error) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare operations insert: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		errText := ""
		if op.Err != nil {
			errText = op.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx,
			runID, string(op.Kind), op.Source, op.Destination,
			string(op.Status), string(op.Reason), errText); err != nil {
			return fmt.Errorf("insert operation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit operations: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, root, mode, started_at, finished_at, executed, skipped, failed, unreadable FROM runs ORDER BY rowid DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Root, &run.Mode, &started, &finished,
			&run.Executed, &run.Skipped, &run.Failed, &run.Unreadable); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if finished.Valid {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("parse run finish time: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOperations returns every recorded operation for a run, in insertion
// order.
func (s *Store) RunOperations(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, source, destination, status, reason, error FROM operations WHERE run_id = ? ORDER BY id",
		runID)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Kind, &rec.Source, &rec.Destination, &rec.Status, &rec.Reason, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
