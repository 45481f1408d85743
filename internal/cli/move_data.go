package cli

import (
	"github.com/spf13/cobra"
)

var moveDataCmd = &cobra.Command{
	Use:   "move-data <old-sensor> <new-sensor>",
	Short: "Assign data from old sensor to new sensor",
	Long: `Assign statistics data from the old sensor to the new sensor. This
command can be used to update statistical data after a sensor has been
renamed. Consistency checks ensure the two sensors' time ranges do not
overlap before any data is moved.`,
	Args: cobra.ExactArgs(2),
	RunE: runMoveData,
}

func init() {
	rootCmd.AddCommand(moveDataCmd)
}

func runMoveData(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.MoveData(args[0], args[1])
}
