// Package kv is the device-scoped key/value persistence used for data that
// must never leave this machine (the archive cache). It lives in its own
// SQLite file, apart from the primary store.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/raveoir/internal/kv/migrations"
	"github.com/matheus3301/raveoir/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed key/value table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the key/value file and applies its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open kv: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping kv: %w", err)
	}
	if _, err := store.MigrateFS(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value for key. ok is false when the key was never set.
func (s *Store) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	return err
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
