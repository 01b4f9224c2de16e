package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/qastream/internal/client"
	"github.com/alfredjeanlab/qastream/internal/ui"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

var (
	healthService string
	healthTimeout time.Duration
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of a qad server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hc, err := client.NewHealthClient(grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		defer hc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		resp, err := hc.Check(ctx, healthService)
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			data, err := protojson.MarshalOptions{EmitUnpopulated: true}.Marshal(resp)
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			status := resp.GetStatus().String()
			if resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
				status = ui.RenderOK(status)
			} else {
				status = ui.RenderWarn(status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", status)
		}

		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			return fmt.Errorf("unhealthy: %s", resp.GetStatus())
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthService, "service", "", "service name to check (empty = whole server)")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "request timeout")
}
