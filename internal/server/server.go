package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/qastream/internal/store"
)

// Resyncer forces a non-new re-save of a question's activity.
type Resyncer interface {
	Resync(ctx context.Context, questionID string) error
}

// Server exposes the operator surface: registry lookups and forced resyncs.
type Server struct {
	links  store.LinkRegistry
	engine Resyncer
	logger *slog.Logger
}

// New returns a Server reading links from the registry and resyncing through
// engine.
func New(links store.LinkRegistry, engine Resyncer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{links: links, engine: engine, logger: logger}
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

func requireID(name, v string) error {
	if v == "" {
		return inputError(name + " is required")
	}
	return nil
}
