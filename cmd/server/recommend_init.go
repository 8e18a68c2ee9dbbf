// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/config"
	"github.com/tomtom215/swiperec/internal/recommend"
	"github.com/tomtom215/swiperec/internal/recommend/algorithms"
	"github.com/tomtom215/swiperec/internal/recommend/storage"
	"github.com/tomtom215/swiperec/internal/supervisor"
	"github.com/tomtom215/swiperec/internal/supervisor/services"
)

// RecommendComponents holds the engine, the cache it serves from and the
// artifact store it persists to.
type RecommendComponents struct {
	Engine    *recommend.Engine
	Cache     cache.Store
	Artifacts *storage.ModelStore
}

// Close stops background retrains and releases the cache backend.
func (c *RecommendComponents) Close(logger zerolog.Logger) {
	c.Engine.Close()
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing recommendation cache")
		}
	}
}

// initRecommend builds the recommendation engine on top of the store.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, store recommend.DataSource, logger zerolog.Logger) (*RecommendComponents, error) {
	model, err := algorithms.NewFactorization(algorithms.Loss(cfg.Model.Loss))
	if err != nil {
		return nil, fmt.Errorf("create collaborative model: %w", err)
	}

	cacheCfg := cfg.CacheStoreConfig()
	cacheStore, err := cache.New(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", cacheCfg.Backend, err)
	}

	artifacts := storage.NewModelStore()
	opts := []recommend.Option{recommend.WithArtifactStore(artifacts)}
	if cacheStore != nil {
		opts = append(opts, recommend.WithCache(cacheStore))
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), store, model, logger, opts...)
	if err != nil {
		if cacheStore != nil {
			_ = cacheStore.Close()
		}
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info().
		Str("model", model.Name()).
		Str("cache_backend", string(cacheCfg.Backend)).
		Bool("cache_breaker", cacheCfg.CircuitBreaker).
		Int64("retrain_threshold", cfg.Retrain.Threshold).
		Dur("retrain_interval", cfg.Retrain.Interval).
		Msg("Recommendation engine initialized")

	return &RecommendComponents{Engine: engine, Cache: cacheStore, Artifacts: artifacts}, nil
}

// addModelServices registers the retrain loop and, for backends that need
// it, cache housekeeping in the model layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func addModelServices(tree *supervisor.SupervisorTree, cfg *config.Config, rc *RecommendComponents, logger zerolog.Logger) {
	tree.AddModelService(services.NewRetrainService(rc.Engine, services.RetrainServiceConfig{
		ModelPath:    cfg.Model.Path,
		OnStartup:    cfg.Retrain.OnStartup,
		ForceRetrain: cfg.Retrain.Force,
		Interval:     cfg.Retrain.Interval,
		Timeout:      cfg.Retrain.Timeout,
	}, logger))
	logger.Info().Str("model_path", cfg.Model.Path).Msg("Retrain service added to supervisor tree")

	if rc.Cache == nil {
		return
	}
	if m, ok := cache.Unwrap(rc.Cache).(cache.Maintainer); ok {
		tree.AddModelService(services.NewCacheMaintenanceService(m, 0))
		logger.Info().Str("backend", rc.Cache.Name()).Msg("Cache maintenance service added to supervisor tree")
	}
}
