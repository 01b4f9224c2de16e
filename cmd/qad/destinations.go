package main

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/qastream/internal/config"
	qasync "github.com/alfredjeanlab/qastream/internal/sync"
)

// syncDestinations builds the export targets enabled in cfg. A destination
// that fails to initialize is logged and skipped.
func syncDestinations(ctx context.Context, cfg *config.Config, logger *slog.Logger) []qasync.Destination {
	var dests []qasync.Destination

	if cfg.SyncS3Bucket != "" {
		s3Dest, err := qasync.NewS3Destination(ctx, cfg.SyncS3Bucket, cfg.SyncS3Key, cfg.SyncS3Region, cfg.SyncS3Endpoint)
		if err != nil {
			logger.Error("sync: failed to create S3 destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync: S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}

	if cfg.SyncGitRepo != "" {
		dests = append(dests, qasync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync: git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}

	return dests
}
