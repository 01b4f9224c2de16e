package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resyncCmd = &cobra.Command{
	Use:   "resync <question-id>...",
	Short: "Re-project questions onto the activity stream",
	Long: `Re-reads each question from the Q&A service and re-saves its activity,
recreating it if it was deleted. Answers and comments are not replayed.`,
	GroupID: "sync",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, id := range args {
			set, err := syncClient.Resync(cmd.Context(), id)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "resync %s: %v\n", id, err)
				failed++
				continue
			}
			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), set); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", id, set.ActivityID)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d resyncs failed", failed, len(args))
		}
		return nil
	},
}
