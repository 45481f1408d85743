package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cgrohmann/hadbmaint/internal/config"
	"github.com/cgrohmann/hadbmaint/internal/db"
	"github.com/cgrohmann/hadbmaint/internal/dbexec"
	"github.com/cgrohmann/hadbmaint/internal/maint"
)

// openService loads the configuration, opens the database and builds the
// maintenance service for one command invocation. The returned cleanup
// function closes the database connection.
func openService(cmd *cobra.Command) (*maint.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbFile := cmd.Flag("db-file").Value.String()
	if dbFile == "" {
		dbFile = cfg.DBFile
	}

	modify, err := cmd.Flags().GetBool("modify")
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	// The run id lets operators correlate a dry-run log with the later
	// --modify run of the same command.
	logger = logger.With("run_id", uuid.NewString())

	database, err := db.Open(dbFile)
	if err != nil {
		return nil, nil, err
	}

	if !modify {
		logger.Info("dry-run mode active, database will not be changed (use -m / --modify)")
	}

	ex := dbexec.New(database, !modify, logger)
	return maint.New(ex), func() { database.Close() }, nil
}
