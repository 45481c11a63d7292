package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS ipids (
	ipid       INTEGER PRIMARY KEY AUTOINCREMENT,
	ip         TEXT NOT NULL UNIQUE,
	first_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.IdentityStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file, or ":memory:".
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IPID returns the identity token for addr, inserting a new row on first sight.
func (s *SQLiteStore) IPID(ctx context.Context, addr string) (string, error) {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO ipids (ip) VALUES (?)`, addr); err != nil {
		return "", fmt.Errorf("insert ipid: %w", err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT ipid FROM ipids WHERE ip = ?`, addr).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("query ipid: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Count returns how many distinct addresses have been seen.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ipids`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ipids: %w", err)
	}
	return n, nil
}
