// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBFile is the database filename inside the cache directory.
const DBFile = "extract-cache.db"

// SQLiteCache keeps entries in a single SQLite database.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens or creates dir/DBFile and its schema.
func NewSQLiteCache(dir string) (*SQLiteCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, DBFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extracted (
			key TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := c.db.QueryRowContext(ctx, `SELECT text FROM extracted WHERE key = ?`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return text, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, key, text string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO extracted (key, text, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET text = excluded.text, created_at = excluded.created_at`,
		key, text, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Clear(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM extracted`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
