// Package client talks to a running qad server: the HTTP operator API for
// registry lookups and resyncs, and the gRPC health service.
package client

import (
	"context"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// SyncClient is the interface the qad CLI uses to reach the sync server.
type SyncClient interface {
	Health(ctx context.Context) (string, error)
	GetLinks(ctx context.Context, questionID string) (*model.LinkSet, error)
	// Resync forces a re-save of the question's activity and returns the
	// registry entries afterwards.
	Resync(ctx context.Context, questionID string) (*model.LinkSet, error)

	Close() error
}

var _ SyncClient = (*HTTPClient)(nil)
