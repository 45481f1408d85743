// Package testutil provides helpers for tests that need a database shaped
// like the Home Assistant statistics schema.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cgrohmann/hadbmaint/internal/db"
)

// schema is the subset of the Home Assistant schema this tool touches.
// Column names match the real schema; the unique indexes on the sample
// tables are what makes OR IGNORE meaningful.
const schema = `
CREATE TABLE statistics_meta (
	id INTEGER PRIMARY KEY,
	statistic_id TEXT
);
CREATE TABLE states_meta (
	metadata_id INTEGER PRIMARY KEY,
	entity_id TEXT
);
CREATE TABLE statistics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	metadata_id INTEGER,
	created_ts REAL,
	start_ts REAL
);
CREATE UNIQUE INDEX ix_statistics_statistic_id_start_ts
	ON statistics (metadata_id, start_ts);
CREATE TABLE statistics_short_term (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	metadata_id INTEGER,
	created_ts REAL,
	start_ts REAL
);
CREATE UNIQUE INDEX ix_statistics_short_term_statistic_id_start_ts
	ON statistics_short_term (metadata_id, start_ts);
CREATE TABLE states (
	state_id INTEGER PRIMARY KEY AUTOINCREMENT,
	metadata_id INTEGER
);
`

// TempDB creates a temporary database with the Home Assistant schema
// subset and returns the open connection and the file path.
func TempDB(t *testing.T) (*db.DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "home-assistant_v2.db")

	// An empty file is a valid empty SQLite database; db.Open refuses to
	// create files itself.
	if err := os.WriteFile(dbPath, nil, 0644); err != nil {
		t.Fatalf("Failed to create database file: %v", err)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database, dbPath
}

// InsertStatSensor inserts a statistics_meta row.
func InsertStatSensor(t *testing.T, database *db.DB, id int64, name string) {
	t.Helper()
	if _, err := database.Exec(
		`INSERT INTO statistics_meta (id, statistic_id) VALUES (?, ?)`, id, name); err != nil {
		t.Fatalf("Failed to insert statistics_meta row: %v", err)
	}
}

// InsertStateSensor inserts a states_meta row.
func InsertStateSensor(t *testing.T, database *db.DB, id int64, name string) {
	t.Helper()
	if _, err := database.Exec(
		`INSERT INTO states_meta (metadata_id, entity_id) VALUES (?, ?)`, id, name); err != nil {
		t.Fatalf("Failed to insert states_meta row: %v", err)
	}
}

// InsertSample inserts a row into one of the sample tables.
func InsertSample(t *testing.T, database *db.DB, table string, metaID int64, createdTS, startTS float64) {
	t.Helper()
	if table != "statistics" && table != "statistics_short_term" {
		t.Fatalf("Unknown sample table %q", table)
	}
	if _, err := database.Exec(
		`INSERT INTO `+table+` (metadata_id, created_ts, start_ts) VALUES (?, ?, ?)`,
		metaID, createdTS, startTS); err != nil {
		t.Fatalf("Failed to insert %s row: %v", table, err)
	}
}

// InsertState inserts a states row referencing a states_meta id.
func InsertState(t *testing.T, database *db.DB, metaID int64) {
	t.Helper()
	if _, err := database.Exec(
		`INSERT INTO states (metadata_id) VALUES (?)`, metaID); err != nil {
		t.Fatalf("Failed to insert states row: %v", err)
	}
}

// Count runs a counting query and returns the result.
func Count(t *testing.T, database *db.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := database.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows (%s): %v", query, err)
	}
	return n
}

// FileChecksum returns the hex SHA-256 of a file's contents.
func FileChecksum(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NewTestLogger returns a debug-level text logger writing to w with the
// time attribute stripped so output is stable across runs.
func NewTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// AssertNoError asserts that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertEqual asserts that two values are equal
func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("Expected %v, got %v", expected, actual)
	}
}

// AssertTextEqual asserts two multi-line strings match and fails with a
// unified diff when they do not.
func AssertTextEqual(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		t.Fatalf("Failed to build diff: %v", err)
	}
	t.Fatalf("Text mismatch:\n%s", text)
}
