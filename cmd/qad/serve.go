package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/qastream/internal/config"
	"github.com/alfredjeanlab/qastream/internal/consumer"
	"github.com/alfredjeanlab/qastream/internal/events"
	"github.com/alfredjeanlab/qastream/internal/faq"
	"github.com/alfredjeanlab/qastream/internal/reconcile"
	"github.com/alfredjeanlab/qastream/internal/server"
	"github.com/alfredjeanlab/qastream/internal/store/postgres"
	qasync "github.com/alfredjeanlab/qastream/internal/sync"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the sync server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)
		slog.SetDefault(logger)

		// Link Registry.
		registry, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer registry.Close()

		// Social subsystem (optional).
		var social *reconcile.Social
		if cfg.SocialDatabaseURL != "" {
			socialStore, err := postgres.New(cfg.SocialDatabaseURL)
			if err != nil {
				return err
			}
			defer socialStore.Close()
			social = &reconcile.Social{
				Activities: socialStore,
				Identities: socialStore,
				Spaces:     socialStore,
			}
			logger.Info("serve: social stream enabled")
		} else {
			logger.Info("serve: social stream disabled (QASTREAM_SOCIAL_DATABASE_URL not set)")
		}

		engine := reconcile.New(faq.NewHTTPClient(cfg.FAQURL, cfg.FAQToken), registry, social, logger)
		srv := server.New(registry, engine, logger)
		grpcServer, healthServer := server.NewGRPCServer(cfg.AuthToken)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		go func() {
			logger.Info("serve: gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("serve: gRPC server error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.RequestLogger(logger, srv.NewHTTPHandler(cfg.AuthToken)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("serve: HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("serve: HTTP server error", "err", err)
			}
		}()

		// Registry snapshots.
		var scheduler *qasync.Scheduler
		if cfg.SyncInterval > 0 {
			if dests := syncDestinations(context.Background(), cfg, logger); len(dests) > 0 {
				scheduler = qasync.NewScheduler(registry, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("serve: sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		// Q&A mutation events.
		var consumerCancel context.CancelFunc
		consumerDone := make(chan struct{})
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					logger.Warn("serve: NATS disconnected", "err", err)
				}),
				nats.ReconnectHandler(func(nc *nats.Conn) {
					logger.Info("serve: NATS reconnected", "url", nc.ConnectedUrl())
				}),
			)
			if err != nil {
				logger.Error("serve: failed to create subscriber", "err", err)
				close(consumerDone)
			} else {
				sub.OnDrop = func(subject string) {
					logger.Warn("serve: event dropped, buffer full", "subject", subject)
				}
				var consumerCtx context.Context
				consumerCtx, consumerCancel = context.WithCancel(context.Background())
				handler := consumer.NewHandler(engine, logger)
				go func() {
					defer close(consumerDone)
					if err := handler.StartSubscriber(consumerCtx, sub, cfg.Subject); err != nil {
						logger.Error("serve: subscriber error", "err", err)
					}
					sub.Close()
				}()
			}
		} else {
			close(consumerDone)
			logger.Info("serve: event consumption disabled (QASTREAM_NATS_URL not set)")
		}

		logger.Info("serve: started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"social", engine.Enabled(),
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("serve: received signal, shutting down", "signal", sig)

		healthServer.Shutdown()

		if consumerCancel != nil {
			consumerCancel()
		}
		<-consumerDone

		if scheduler != nil {
			scheduler.Stop()
		}

		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("serve: HTTP server shutdown error", "err", err)
		}

		logger.Info("serve: shutdown complete")
		return nil
	},
}
