package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "malleable.db"

// kvSchemaSQL is the single-table DDL for the key-value store.
const kvSchemaSQL = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// Compile-time interface check: SQLite must implement Store.
var _ types.Store = (*SQLite)(nil)

// SQLite is a file-backed Store on a single kv table. Unlike the
// in-memory store it survives process restarts, which is what the CLI
// uses for its schema list and submission history.
type SQLite struct {
	mu   sync.RWMutex
	open bool
	db   *sql.DB
}

// NewSQLite creates an unopened SQLite store; call Open with a Config
// to initialize it.
func NewSQLite() *SQLite {
	return &SQLite{}
}

// Open connects the store to the database under config.DataDir,
// creating the directory and the kv table if needed. Returns
// ErrAlreadyOpen if called while open.
func (s *SQLite) Open(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(kvSchemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	s.db = db
	s.open = true
	return nil
}

// Get returns the value for key and whether it was present.
func (s *SQLite) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return "", false, types.ErrStoreClosed
	}
	if key == "" {
		return "", false, types.ErrKeyEmpty
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLite) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrKeyEmpty
	}

	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (s *SQLite) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrKeyEmpty
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle. Idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	db := s.db
	s.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Open creates and opens the Store selected by config.Backend.
func Open(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendSQLite:
		s := NewSQLite()
		if err := s.Open(config); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
