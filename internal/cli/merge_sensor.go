package cli

import (
	"github.com/spf13/cobra"
)

var mergeSensorCmd = &cobra.Command{
	Use:   "merge-sensor <sensor>",
	Short: "Merge a duplicate sensor back into its base sensor",
	Long: `Merge the duplicate of the given sensor (its name plus the "_2"
suffix) back into the sensor itself. Statistics rows are reassigned and
the duplicate's metadata rows are deleted. No time-range check is
performed; the duplicate is assumed to be a re-registration of the same
source.`,
	Args: cobra.ExactArgs(1),
	RunE: runMergeSensor,
}

func init() {
	rootCmd.AddCommand(mergeSensorCmd)
}

func runMergeSensor(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.MergeSensor(args[0])
}
