package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/qastream/internal/config"
	"github.com/alfredjeanlab/qastream/internal/store/postgres"
	qasync "github.com/alfredjeanlab/qastream/internal/sync"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportPush   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the link registry as JSONL",
	Long: `Writes the link registry to stdout (or --output) as JSONL. With --push the
export is sent to the configured S3 and git destinations instead.

Reads the same QASTREAM_* configuration as serve.`,
	GroupID: "sync",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		registry, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer registry.Close()

		if exportPush {
			logger := slog.Default()
			dests := syncDestinations(ctx, cfg, logger)
			if len(dests) == 0 {
				return fmt.Errorf("no sync destinations configured (set QASTREAM_SYNC_S3_BUCKET or QASTREAM_SYNC_GIT_REPO)")
			}
			return qasync.NewScheduler(registry, dests, cfg.SyncInterval, logger).RunOnce(ctx)
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return qasync.ExportJSONL(ctx, registry, w)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportPush, "push", false, "push to the configured sync destinations")
}
