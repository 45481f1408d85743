package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cgrohmann/hadbmaint/internal/db"
)

func TestMissingDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	rootCmd.SetArgs([]string{"list-sensors", "--db-file", path})
	err := rootCmd.Execute()
	if !errors.Is(err, db.ErrNoDatabase) {
		t.Fatalf("Expected ErrNoDatabase, got: %v", err)
	}

	// The file must not have been created as a side effect.
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("Command created the database file at %s", path)
	}
}

func TestNoSubcommand(t *testing.T) {
	rootCmd.SetArgs([]string{})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Expected an error when no subcommand is given")
	}
	if !strings.Contains(err.Error(), "no command specified") {
		t.Errorf("Unexpected error: %v", err)
	}
}
