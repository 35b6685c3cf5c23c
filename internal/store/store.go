package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists analysis reports keyed by file identity and model.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
    file       TEXT NOT NULL,
    size       INTEGER NOT NULL,
    mod_time   TEXT NOT NULL,
    model      TEXT NOT NULL,
    created_at TEXT NOT NULL,
    report     TEXT NOT NULL,
    PRIMARY KEY (file, size, mod_time, model)
)`

// Open initializes or connects to the verdict database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key identifies one cached verdict.
type Key struct {
	File    string
	Size    int64
	ModTime time.Time
	Model   string
}

// KeyFor builds a cache key from the file's current metadata.
func KeyFor(path string, info os.FileInfo, model string) Key {
	return Key{
		File:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
		Model:   model,
	}
}

// Get returns the cached report for the key, or (nil, false, nil) on a miss.
func (s *Store) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var report []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM verdicts WHERE file = ? AND size = ? AND mod_time = ? AND model = ?`,
		key.File, key.Size, key.ModTime.Format(time.RFC3339Nano), key.Model,
	).Scan(&report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query verdict: %w", err)
	}
	return report, true, nil
}

// Put stores or replaces the report for the key.
func (s *Store) Put(ctx context.Context, key Key, report []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO verdicts (file, size, mod_time, model, created_at, report)
         VALUES (?, ?, ?, ?, ?, ?)`,
		key.File, key.Size, key.ModTime.Format(time.RFC3339Nano), key.Model,
		time.Now().UTC().Format(time.RFC3339Nano), report,
	)
	if err != nil {
		return fmt.Errorf("insert verdict: %w", err)
	}
	return nil
}

// Purge removes every cached verdict for the given file path.
func (s *Store) Purge(ctx context.Context, file string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM verdicts WHERE file = ?`, file); err != nil {
		return fmt.Errorf("purge verdicts: %w", err)
	}
	return nil
}
