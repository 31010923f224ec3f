// Package store persists small user settings (mirror override, theme,
// favorites, history) as string values keyed by name.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyMirror     = "mirror"
	KeyLastMirror = "last_mirror"
	KeyTheme      = "theme"
	KeyFavorites  = "favorites"
	KeyHistory    = "history"
)

// KV is a string key/value store. String sets are stored as ordered,
// de-duplicated lists.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	GetStrings(ctx context.Context, key string) ([]string, error)
	SetStrings(ctx context.Context, key string, values []string) error
}

//go:embed schema.sql
var schema string

// SQLite is a KV backed by a single-table sqlite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return open(path)
}

// OpenMemory opens a private in-memory database.
func OpenMemory() (*SQLite, error) {
	return open(":memory:")
}

func open(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating store schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) GetStrings(ctx context.Context, key string) ([]string, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	return decodeStrings(key, raw)
}

func (s *SQLite) SetStrings(ctx context.Context, key string, values []string) error {
	raw, err := encodeStrings(values)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// Memory is a KV kept in process memory.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) GetStrings(ctx context.Context, key string) ([]string, error) {
	raw, ok, _ := m.Get(ctx, key)
	if !ok {
		return nil, nil
	}
	return decodeStrings(key, raw)
}

func (m *Memory) SetStrings(ctx context.Context, key string, values []string) error {
	raw, err := encodeStrings(values)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, raw)
}

func encodeStrings(values []string) (string, error) {
	set := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(set, v) {
			set = append(set, v)
		}
	}
	data, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("encoding string set: %w", err)
	}
	return string(data), nil
}

func decodeStrings(key, raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return values, nil
}
