// Package sqlite stores snapshots in a SQLite database, keeping the current
// snapshot plus a bounded history of previous ones.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/xtding233/idle-forge/internal/save"
)

// DefaultHistory is how many past snapshots are kept when none is configured.
const DefaultHistory = 20

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_history (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	payload TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
`

const upsertSnapshot = `
INSERT INTO snapshot (id, payload, saved_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`

// Store is a SQLite-backed save.Store.
type Store struct {
	db      *sqlx.DB
	history int
	now     func() time.Time
}

// HistoryEntry is one retained snapshot.
type HistoryEntry struct {
	Seq     int64  `db:"seq" json:"seq"`
	Payload string `db:"payload" json:"-"`
	SavedAt int64  `db:"saved_at" json:"savedAt"` // unix millis
}

// Open opens or creates the database at path and ensures the schema.
// history <= 0 uses DefaultHistory.
func Open(path string, history int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if history <= 0 {
		history = DefaultHistory
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; snapshots are written whole
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, history: history, now: time.Now}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM snapshot WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, save.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return []byte(payload), nil
}

// Write replaces the current snapshot and appends it to the history in one
// transaction, trimming history beyond the retention limit.
func (s *Store) Write(ctx context.Context, data []byte) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	savedAt := s.now().UnixMilli()
	if _, err := tx.ExecContext(ctx, upsertSnapshot, string(data), savedAt); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_history (payload, saved_at) VALUES (?, ?)`,
		string(data), savedAt); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM snapshot_history
WHERE seq NOT IN (SELECT seq FROM snapshot_history ORDER BY seq DESC LIMIT ?)`,
		s.history); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// History returns up to limit retained snapshots, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = s.history
	}
	var out []HistoryEntry
	if err := s.db.SelectContext(ctx, &out,
		`SELECT seq, payload, saved_at FROM snapshot_history ORDER BY seq DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	return out, nil
}

// Rollback drops the newest history entry and makes the one before it the
// current snapshot, in one transaction. Repeated calls walk further back.
// It returns save.ErrNotFound when no older entry is retained.
func (s *Store) Rollback(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var entries []HistoryEntry
	if err := tx.SelectContext(ctx, &entries,
		`SELECT seq, payload, saved_at FROM snapshot_history ORDER BY seq DESC LIMIT 2`); err != nil {
		return fmt.Errorf("select history: %w", err)
	}
	if len(entries) < 2 {
		return save.ErrNotFound
	}
	newest, prev := entries[0], entries[1]
	if err := save.Validate([]byte(prev.Payload)); err != nil {
		return fmt.Errorf("rollback target: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_history WHERE seq = ?`, newest.Seq); err != nil {
		return fmt.Errorf("drop newest history entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertSnapshot, prev.Payload, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
