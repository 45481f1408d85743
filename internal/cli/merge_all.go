package cli

import (
	"github.com/spf13/cobra"
)

var mergeAllCmd = &cobra.Command{
	Use:   "merge-all",
	Short: "Merge all discoverable duplicate sensors",
	Long: `Find every sensor whose name ends in the "_2" duplicate suffix and
merge it back into its base sensor. Multi-phase electric meter sensors
are skipped as known false positives. A missing base or duplicate only
skips that candidate, it does not stop the batch.`,
	Args: cobra.NoArgs,
	RunE: runMergeAll,
}

func init() {
	rootCmd.AddCommand(mergeAllCmd)
}

func runMergeAll(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.MergeAll()
}
