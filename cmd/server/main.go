// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/swiperec/internal/api"
	"github.com/tomtom215/swiperec/internal/config"
	"github.com/tomtom215/swiperec/internal/database"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/supervisor"
	"github.com/tomtom215/swiperec/internal/supervisor/services"
)

// shutdownTimeout bounds the HTTP drain and every supervised service stop.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingSettings())
	logging.Info().Str("version", api.Version).Msg("Starting Swiperec with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_path", cfg.Model.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(context.Background()); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	rc, err := initRecommend(cfg, db, logging.Logger())
	if err != nil {
		return err
	}
	defer rc.Close(logging.Logger())

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*)")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	addModelServices(tree, cfg, rc, logging.WithComponent("model"))

	handler := api.NewHandler(rc.Engine, db, api.HandlerConfig{
		ModelPath: cfg.Model.Path,
		Artifacts: rc.Artifacts,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))
	server := newHTTPServer(cfg, router.SetupChi())

	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
		cancel()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Let an in-flight background retrain finish before the store closes.
	rc.Engine.WaitForRetrains()
	return serveErr
}

// newHTTPServer applies the server timeouts. Synchronous training can
// outlast WriteTimeout; long runs should use POST /model/train?async=true.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
