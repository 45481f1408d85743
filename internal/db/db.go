// Package db opens the Home Assistant SQLite database for maintenance.
// The schema is owned by Home Assistant; this package never creates or
// migrates it, and refuses to open a path that does not already exist.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoDatabase is returned when the database file does not exist.
var ErrNoDatabase = errors.New("database file not found")

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
	path string
}

// Open opens an existing SQLite database at the given path.
func Open(path string) (*DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (set an existing file with -d / --db-file)", ErrNoDatabase, path)
		}
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNoDatabase, path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Only set a busy timeout. Foreign-key enforcement stays at the SQLite
	// default so delete behavior matches what Home Assistant itself sees.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply busy_timeout pragma: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}
