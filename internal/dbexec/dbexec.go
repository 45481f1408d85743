// Package dbexec wraps statement execution against the maintenance database.
// Every write runs in its own transaction and is gated by the dry-run flag;
// reads are guarded against accidentally carrying a mutating statement.
package dbexec

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cgrohmann/hadbmaint/internal/db"
)

// SimulatedRows is returned from Write when the executor runs in dry-run
// mode and the statement was only recorded, not executed.
const SimulatedRows = int64(-1)

// ErrNotSelect is returned when a statement routed through the read path
// does not start with SELECT. This signals a programming error, not a
// recoverable condition.
var ErrNotSelect = errors.New("statement routed through read path is not a SELECT")

// Executor executes statements against a single database connection.
// Construct one per run; there is no global state.
type Executor struct {
	db     *db.DB
	dryRun bool
	log    *slog.Logger
	out    io.Writer
}

// New creates an executor. If logger is nil, slog.Default() is used.
func New(database *db.DB, dryRun bool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{db: database, dryRun: dryRun, log: logger, out: os.Stdout}
}

// DryRun reports whether the executor only simulates writes.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Logger returns the logger the executor was constructed with.
func (e *Executor) Logger() *slog.Logger {
	return e.log
}

// SetOutput redirects the row-count summary lines (default os.Stdout).
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// Write executes an UPDATE, DELETE or INSERT statement in its own
// transaction and returns the number of affected rows. In dry-run mode the
// statement and parameters are logged and SimulatedRows is returned.
func (e *Executor) Write(stmt string, args ...any) (int64, error) {
	stmt = strings.TrimSpace(stmt)
	if e.dryRun {
		e.log.Info("dry-run: statement not executed", "stmt", stmt, "params", fmt.Sprint(args))
		return SimulatedRows, nil
	}

	e.log.Debug("executing statement", "stmt", stmt, "params", fmt.Sprint(args))

	tx, err := e.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(stmt, args...)
	if err != nil {
		e.log.Error("error executing statement", "stmt", stmt, "params", fmt.Sprint(args), "err", err)
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		e.log.Error("error committing statement", "stmt", stmt, "err", err)
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	fmt.Fprintf(e.out, "%d rows modified / deleted\n", count)
	return count, nil
}

// Query executes a SELECT statement and returns the rows. Statements that
// do not start with SELECT after trimming whitespace are rejected.
func (e *Executor) Query(stmt string, args ...any) (*sql.Rows, error) {
	stmt = strings.TrimSpace(stmt)
	if !strings.HasPrefix(stmt, "SELECT") {
		return nil, fmt.Errorf("%w:\n%s", ErrNotSelect, stmt)
	}

	e.log.Debug("executing query", "stmt", stmt, "params", fmt.Sprint(args))

	rows, err := e.db.Query(stmt, args...)
	if err != nil {
		e.log.Error("error executing query", "stmt", stmt, "params", fmt.Sprint(args), "err", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}
