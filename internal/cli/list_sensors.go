package cli

import (
	"github.com/spf13/cobra"
)

var listSensorsCmd = &cobra.Command{
	Use:   "list-sensors",
	Short: "Show all available sensors",
	Long:  `Show all sensor names known to the statistics and states metadata tables.`,
	Args:  cobra.NoArgs,
	RunE:  runListSensors,
}

func init() {
	rootCmd.AddCommand(listSensorsCmd)
}

func runListSensors(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.ListSensors()
}
