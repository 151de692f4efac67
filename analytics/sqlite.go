package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicateEvent indicates an event id was already stored.
var ErrDuplicateEvent = errors.New("duplicate event")

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    params TEXT NOT NULL,
    occurred_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS events_run_id ON events (run_id, occurred_at);
`

// SQLiteSink stores events in a SQLite database.
type SQLiteSink struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}
	return &SQLiteSink{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *SQLiteSink) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Send inserts the event.
func (s *SQLiteSink) Send(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	params, err := json.Marshal(event.Params)
	if err != nil {
		return fmt.Errorf("encode event params: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO events (id, run_id, name, params, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		event.ID,
		event.RunID,
		event.Name,
		string(params),
		toMillis(event.Time),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateEvent, event.ID)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Events returns the stored events of a run in the order they occurred.
func (s *SQLiteSink) Events(ctx context.Context, runID string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, run_id, name, params, occurred_at FROM events WHERE run_id = ? ORDER BY occurred_at, rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			event      Event
			params     string
			occurredAt int64
		)
		if err := rows.Scan(&event.ID, &event.RunID, &event.Name, &params, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(params), &event.Params); err != nil {
			return nil, fmt.Errorf("decode event params: %w", err)
		}
		event.Time = fromMillis(occurredAt)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
