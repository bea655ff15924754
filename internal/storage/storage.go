// Package storage implements the relational store: one connection pool
// over a single-file SQLite database holding agents, memory blocks,
// messages and archival chunks, plus a full-text index over chunk text
// and a sync-metadata table used by the sync client.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/haasonsaas/letta-lite/internal/lettaerr"
)

// Config configures the store's backing file and pool size.
type Config struct {
	Path           string `yaml:"path"`
	MaxConnections int    `yaml:"max_connections"`
}

// DefaultConfig returns the store defaults: a local file named letta.db
// with up to 5 pooled connections.
func DefaultConfig() Config {
	return Config{Path: "letta.db", MaxConnections: 5}
}

// Store wraps a pooled *sql.DB with the schema migrated and WAL mode and
// foreign keys enabled.
type Store struct {
	db *sql.DB
}

// New opens (creating if absent) the database at cfg.Path, applies
// pragmas and pending migrations, and returns a ready Store.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = "letta.db"
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 5
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, lettaerr.Wrap(lettaerr.KindStorage, err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)

	s := &Store{db: db}
	if err := s.configure(); err != nil {
		db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, lettaerr.Wrap(lettaerr.KindStorage, err)
	}
	return s, nil
}

// Memory opens an in-process, non-persisted store useful for tests and
// short-lived demos.
func Memory() (*Store, error) {
	return New(Config{Path: "file::memory:?cache=shared", MaxConnections: 1})
}

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return lettaerr.Wrap(lettaerr.KindStorage, fmt.Errorf("pragma %q: %w", p, err))
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
