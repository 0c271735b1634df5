package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite stores events in a SQLite database, one row per event.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens (or creates) the journal database at path.
// Use ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		execution_id TEXT NOT NULL,
		task_id      TEXT NOT NULL,
		task_name    TEXT NOT NULL,
		category     TEXT NOT NULL,
		algorithm    TEXT NOT NULL,
		kind         TEXT NOT NULL,
		detail       TEXT NOT NULL,
		duration_ns  INTEGER NOT NULL,
		at           TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_execution ON events(execution_id, seq);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Record implements Journal.
func (s *SQLite) Record(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (execution_id, task_id, task_name, category, algorithm, kind, detail, duration_ns, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExecutionID.String(), e.TaskID.String(), e.TaskName, e.Category, e.Algorithm,
		string(e.Kind), e.Detail, e.Duration.Nanoseconds(), at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Kind, err)
	}
	return nil
}

// Events returns the events of one execution in recording order.
func (s *SQLite) Events(ctx context.Context, executionID uuid.UUID) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT execution_id, task_id, task_name, category, algorithm, kind, detail, duration_ns, at
		 FROM events WHERE execution_id = ? ORDER BY seq`,
		executionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                   Event
			execID, taskID, at  string
			kind                string
			durationNanoseconds int64
		)
		if err := rows.Scan(&execID, &taskID, &e.TaskName, &e.Category, &e.Algorithm, &kind, &e.Detail, &durationNanoseconds, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.ExecutionID, err = uuid.Parse(execID); err != nil {
			return nil, fmt.Errorf("parse execution id: %w", err)
		}
		if e.TaskID, err = uuid.Parse(taskID); err != nil {
			return nil, fmt.Errorf("parse task id: %w", err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		e.Kind = Kind(kind)
		e.Duration = time.Duration(durationNanoseconds)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Executions returns the ids of every journaled execution, oldest first.
func (s *SQLite) Executions(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT execution_id FROM events GROUP BY execution_id ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan execution id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse execution id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close implements Journal.
func (s *SQLite) Close() error {
	return s.db.Close()
}
