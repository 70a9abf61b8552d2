// internal/history/history.go
// Package history persists completed transmissions in a SQLite journal.
// The in-process session keeps only the last five entries; the journal
// keeps everything across runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultRecentLimit is how many entries Recent returns when the caller
// does not ask for a specific count. Matches the operator panel's history
// depth.
const DefaultRecentLimit = 5

// schemaDDL defines the journal schema.
// Execute against a SQLite database with: db.Exec(schemaDDL)
const schemaDDL = `
-- Completed transmissions, one row per send
CREATE TABLE IF NOT EXISTS transmissions (
    id TEXT PRIMARY KEY,
    color TEXT NOT NULL,
    number TEXT NOT NULL,
    pattern TEXT NOT NULL,
    profile TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    sent_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transmissions_sent_at
    ON transmissions(sent_at DESC);
`

// Record is one persisted transmission.
type Record struct {
	ID            string
	Color         string
	Number        string
	Pattern       string
	Profile       string
	TotalDuration time.Duration
	SentAt        time.Time
}

// Store manages the transmissions table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path, enforces WAL
// journal mode and a 5-second busy timeout, and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema on %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Insert persists a transmission. A missing ID is generated; the assigned
// ID is returned.
func (s *Store) Insert(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transmissions (id, color, number, pattern, profile, duration_ms, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Color, rec.Number, rec.Pattern, rec.Profile,
		rec.TotalDuration.Milliseconds(), rec.SentAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert transmission: %w", err)
	}
	return rec.ID, nil
}

// Recent returns the newest limit records, newest first. A non-positive
// limit falls back to DefaultRecentLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, color, number, pattern, profile, duration_ms, sent_at
		 FROM transmissions
		 ORDER BY sent_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transmissions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationMs int64
		var sentAt string
		if err := rows.Scan(&rec.ID, &rec.Color, &rec.Number, &rec.Pattern,
			&rec.Profile, &durationMs, &sentAt); err != nil {
			return nil, fmt.Errorf("scan transmission: %w", err)
		}
		rec.TotalDuration = time.Duration(durationMs) * time.Millisecond
		rec.SentAt, err = time.Parse(time.RFC3339Nano, sentAt)
		if err != nil {
			return nil, fmt.Errorf("parse sent_at %q: %w", sentAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transmissions: %w", err)
	}
	return records, nil
}

// Count returns how many transmissions the journal holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transmissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transmissions: %w", err)
	}
	return n, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
