package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/qastream/internal/client"
	"github.com/alfredjeanlab/qastream/internal/config"
	"github.com/alfredjeanlab/qastream/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	grpcAddr   string
	authToken  string
	jsonOutput bool
	logLevel   string

	syncClient client.SyncClient
)

func envOr(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// newLogger builds the process logger; an unparsable level falls back to info.
func newLogger(level string) *slog.Logger {
	l, err := config.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using info\n", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

var rootCmd = &cobra.Command{
	Use:           "qad <command>",
	Short:         "Mirror Q&A activity into the social activity stream",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.Init(os.Stdout)
		slog.SetDefault(newLogger(logLevel))
		syncClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if syncClient != nil {
			syncClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", envOr("QASTREAM_HTTP_URL", "http://localhost:8080"), "qad HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "server", envOr("QASTREAM_SERVER", "localhost:9090"), "qad gRPC server address")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("QASTREAM_AUTH_TOKEN"), "bearer token for the HTTP API")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("QASTREAM_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Sync
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(exportCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
