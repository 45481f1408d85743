package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hadbmaint",
	Short: "Maintenance tool for the Home Assistant SQLite database",
	Long: `hadbmaint performs maintenance tasks on a Home Assistant SQLite
database: moving statistics data after a sensor rename and merging
accidentally duplicated sensors.

By default all commands run in dry-run mode and only log what they would
do. Set -m / --modify to actually change the database. Stop Home Assistant
beforehand and create a backup of the database to be able to undo the
change in case of unexpected results.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("no command specified")
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("db-file", "d", "", "SQLite database file (overrides HADBMAINT_DB_FILE)")
	rootCmd.PersistentFlags().BoolP("modify", "m", false, "Modify the database instead of the default dry-run")
}
