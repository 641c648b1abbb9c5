// Package cache persists resolved game records in SQLite with a freshness
// window, so repeated lookups for the same title skip the catalog.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"gamesense/internal/logging"
	"gamesense/internal/resolver"
)

// TTL is the freshness window. Rows older than this read as absent but stay
// on disk until purged.
const TTL = 30 * 24 * time.Hour

// Store wraps a SQLite database holding one row per searched title. Writes
// should be serialized by the caller; reads are safe alongside a writer.
type Store struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the cache database at the given path. The connection
// is instrumented, so cache queries show up as spans under the resolve trace.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	s := &Store{conn: conn, path: path, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run cache migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Conn returns the underlying database connection.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// migrate runs schema migrations up to the current version.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := s.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := s.migrateV1(ctx); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the games table. The layout matches the agent's historic
// cache file, so existing databases keep working.
func (s *Store) migrateV1(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			game_name TEXT UNIQUE,
			data TEXT,
			last_updated INTEGER
		);

		INSERT INTO schema_version (version) VALUES (1);
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}

	return nil
}

// Get returns the cached record for key, or nil when there is no row, the row
// has aged past the TTL, or the stored payload does not decode. Keys are the
// raw searched title, not normalized. Expired rows are left in place.
func (s *Store) Get(ctx context.Context, key string) (*resolver.Record, error) {
	var data string
	var lastUpdated int64
	err := s.conn.QueryRowContext(ctx,
		"SELECT data, last_updated FROM games WHERE game_name = ?", key,
	).Scan(&data, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	if s.now().Unix()-lastUpdated >= int64(TTL.Seconds()) {
		return nil, nil
	}

	var rec resolver.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// A corrupt row is a miss, never a failure: resolution falls
		// through to the catalog and overwrites it.
		logging.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return nil, nil
	}
	return &rec, nil
}

// Put upserts the record under key, resetting its freshness clock. The table
// keeps exactly one row per key.
func (s *Store) Put(ctx context.Context, key string, rec *resolver.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := `
		INSERT INTO games (game_name, data, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(game_name) DO UPDATE SET
			data = excluded.data,
			last_updated = excluded.last_updated
	`
	if _, err := s.conn.ExecContext(ctx, query, key, string(data), s.now().Unix()); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Entry summarizes one cached row for inspection.
type Entry struct {
	Key         string
	Name        string
	LastUpdated time.Time
	Expired     bool
}

// Entries lists all cached rows, including expired ones.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT game_name, data, last_updated FROM games ORDER BY game_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cutoff := s.now().Add(-TTL).Unix()
	var entries []Entry
	for rows.Next() {
		var key, data string
		var lastUpdated int64
		if err := rows.Scan(&key, &data, &lastUpdated); err != nil {
			return nil, err
		}
		e := Entry{
			Key:         key,
			LastUpdated: time.Unix(lastUpdated, 0),
			Expired:     lastUpdated <= cutoff,
		}
		var rec resolver.Record
		if json.Unmarshal([]byte(data), &rec) == nil {
			e.Name = rec.Name
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes rows. With expiredOnly set, only rows past the TTL go;
// otherwise the whole table is emptied. Returns the number of rows removed.
func (s *Store) Purge(ctx context.Context, expiredOnly bool) (int64, error) {
	var res sql.Result
	var err error
	if expiredOnly {
		cutoff := s.now().Add(-TTL).Unix()
		res, err = s.conn.ExecContext(ctx, "DELETE FROM games WHERE last_updated <= ?", cutoff)
	} else {
		res, err = s.conn.ExecContext(ctx, "DELETE FROM games")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}
