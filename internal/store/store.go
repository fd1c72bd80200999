// Package store owns lootkeeper's persistent actor state (claims, balances,
// inventory) and the authored surface catalog. Actor state lives in SQLite;
// every mutation path goes through one keyed, versioned write discipline so
// counters cannot drift between two homes and partial records are merged,
// never overwritten.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// StateStore is the single home of mutable per-actor and per-guild state.
// Callers hold it only for the duration of one read-modify-write call.
type StateStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*StateStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite behaves best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &StateStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables. Claim counters have exactly one
// home each (actor_claims, guild_claims); there is deliberately no second
// copy anywhere for a cache or a summary to drift against.
func (s *StateStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actor_claims (
		guild_id  TEXT NOT NULL,
		actor_id  TEXT NOT NULL,
		action_id TEXT NOT NULL,
		claims    INTEGER NOT NULL DEFAULT 0,
		version   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, actor_id, action_id)
	);

	CREATE TABLE IF NOT EXISTS guild_claims (
		guild_id  TEXT NOT NULL,
		action_id TEXT NOT NULL,
		claims    INTEGER NOT NULL DEFAULT 0,
		version   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, action_id)
	);

	CREATE TABLE IF NOT EXISTS balances (
		guild_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		currency INTEGER NOT NULL DEFAULT 0,
		version  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, actor_id)
	);

	CREATE TABLE IF NOT EXISTS inventory (
		guild_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		item_id  TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, actor_id, item_id)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *StateStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *StateStore) Path() string { return s.dbPath }
