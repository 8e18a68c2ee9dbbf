// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Command train rebuilds the recommendation model from the interaction store
// and writes the artifact to the configured model path.
//
// It uses the server's configuration, so the same environment works for both:
//
//	MODEL_PATH=/data/model/recommender.bin DUCKDB_PATH=/data/swiperec.duckdb ./train
//
// Flags override the model path and timeout:
//
//	./train -model /tmp/candidate.bin -timeout 10m
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/swiperec/internal/config"
	"github.com/tomtom215/swiperec/internal/database"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/recommend"
	"github.com/tomtom215/swiperec/internal/recommend/algorithms"
	"github.com/tomtom215/swiperec/internal/recommend/storage"
)

func main() {
	modelPath := flag.String("model", "", "artifact path (default: MODEL_PATH)")
	timeout := flag.Duration("timeout", 0, "training timeout (default: RETRAIN_TIMEOUT)")
	seed := flag.Bool("seed-demo", false, "seed demo data into an empty store first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())

	if *modelPath != "" {
		cfg.Model.Path = *modelPath
	}
	if *timeout > 0 {
		cfg.Retrain.Timeout = *timeout
	}
	cfg.Database.SeedDemoData = cfg.Database.SeedDemoData || *seed

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := train(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Training failed")
		stop()
		os.Exit(1)
	}
}

func train(ctx context.Context, cfg *config.Config) error {
	if cfg.Model.Path == "" {
		return errors.New("no model path configured (set MODEL_PATH or -model)")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	model, err := algorithms.NewFactorization(algorithms.Loss(cfg.Model.Loss))
	if err != nil {
		return fmt.Errorf("create collaborative model: %w", err)
	}

	// No cache: a one-shot run has nothing to invalidate.
	engine, err := recommend.NewEngine(cfg.EngineConfig(), db, model,
		logging.Logger(), recommend.WithArtifactStore(storage.NewModelStore()))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer engine.Close()

	runCtx, cancel := context.WithTimeout(ctx, cfg.Retrain.Timeout)
	defer cancel()

	start := time.Now()
	if err := engine.TrainWithTrigger(runCtx, recommend.TriggerManual); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := engine.SaveModel(cfg.Model.Path); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	status := engine.Status()
	logging.Info().
		Str("path", cfg.Model.Path).
		Str("model_version", status.ModelVersion).
		Int("users", status.NumUsers).
		Int("items", status.NumItems).
		Int("interactions", status.NumInteractions).
		Dur("duration", time.Since(start)).
		Msg("Model trained and saved")
	return nil
}
