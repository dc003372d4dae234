// Package history keeps a local log of completed bridge operations. This is
// server-side observability only; the remote tree stays the single durable
// artifact of the bridge itself.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    op TEXT NOT NULL,
    user_name TEXT NOT NULL,
    remote_path TEXT,
    bytes INTEGER DEFAULT 0,
    duration_ms INTEGER,
    status TEXT NOT NULL,
    error TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_operations_user ON operations(user_name);
`

// Store is the SQLite-backed operation log.
type Store struct {
	db *sql.DB
}

// Entry is one logged operation.
type Entry struct {
	ID         int64  `json:"id"`
	Op         string `json:"op"`
	UserName   string `json:"userName"`
	RemotePath string `json:"remotePath"`
	Bytes      uint64 `json:"bytes"`
	DurationMS int64  `json:"durationMs"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// Open opens (or creates) the history database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record logs one completed operation. Satisfies the service's Recorder
// interface; failures are swallowed because history must never fail a
// transfer.
func (s *Store) Record(op, user, remotePath string, bytes uint64, d time.Duration, opErr error) {
	status := "ok"
	errMsg := ""
	if opErr != nil {
		status = "error"
		errMsg = opErr.Error()
	}
	_, _ = s.db.Exec(
		`INSERT INTO operations (op, user_name, remote_path, bytes, duration_ms, status, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op, user, remotePath, int64(bytes), d.Milliseconds(), status, errMsg)
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, op, user_name, remote_path, bytes, duration_ms, status, error, created_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Op, &e.UserName, &e.RemotePath, &e.Bytes,
			&e.DurationMS, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
