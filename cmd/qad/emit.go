package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alfredjeanlab/qastream/internal/events"
	"github.com/spf13/cobra"
)

var emitNATSURL string

// emitCmd publishes a mutation event as the Q&A service would.
var emitCmd = &cobra.Command{
	Use:   "emit <subject>",
	Short: "Publish a Q&A mutation event read from stdin",
	Long: `Reads one JSON payload from stdin and publishes it on the given subject.

Known subjects:
  ` + strings.Join(events.Topics, "\n  "),
	GroupID: "sync",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := args[0]
		if !events.IsKnownTopic(subject) {
			return fmt.Errorf("unknown subject %q", subject)
		}

		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("stdin is not valid JSON")
		}

		pub, err := events.NewNATSPublisher(emitNATSURL)
		if err != nil {
			return err
		}
		defer pub.Close()

		if err := pub.Publish(cmd.Context(), subject, json.RawMessage(data)); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
		if err := pub.Flush(); err != nil {
			return fmt.Errorf("flushing: %w", err)
		}
		if !jsonOutput {
			fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d bytes)\n", subject, len(data))
		}
		return nil
	},
}

func init() {
	emitCmd.Flags().StringVar(&emitNATSURL, "nats-url", envOr("QASTREAM_NATS_URL", "nats://localhost:4222"), "NATS server URL")
}
