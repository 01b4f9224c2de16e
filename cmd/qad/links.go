package main

import (
	"fmt"

	"github.com/alfredjeanlab/qastream/internal/client"
	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:     "links <question-id>",
	Short:   "Show the activities linked to a question",
	GroupID: "sync",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := syncClient.GetLinks(cmd.Context(), args[0])
		if client.IsNotFound(err) {
			return fmt.Errorf("question %s has no linked activities", args[0])
		}
		if err != nil {
			return fmt.Errorf("getting links: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), set)
		}
		printLinkSet(cmd.OutOrStdout(), set)
		return nil
	},
}
