// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"context"
	"path/filepath"
	"time"

	"github.com/tomtom215/swiperec/internal/recommend"
	"github.com/tomtom215/swiperec/internal/recommend/storage"
)

// Version is reported by the readiness probe.
var Version = "dev"

const (
	defaultRequestTimeout = 10 * time.Second
	defaultTrainTimeout   = 30 * time.Minute
)

// Recommender is the slice of *recommend.Engine the handlers use.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID string, count int) (*recommend.Response, error)
	RecordInteraction(ctx context.Context, userID, itemID string, signal recommend.SignalType) error
	TrainWithTrigger(ctx context.Context, trigger string) error
	ScheduleRetrain(trigger string) bool
	SaveModel(path string) error
	LoadModel(ctx context.Context, path string) error
	Status() recommend.Status
}

// Catalog is the store surface used outside the engine.
type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]recommend.Product, error)
	Ping(ctx context.Context) error
}

// ArtifactInspector reads stored model metadata without loading the model.
type ArtifactInspector interface {
	Metadata(path string) (*storage.ModelMetadata, error)
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// ModelPath is the default artifact for save and load. Its directory
	// confines caller-supplied paths.
	ModelPath string

	// RequestTimeout bounds store and engine calls per request. Default: 10s.
	RequestTimeout time.Duration

	// TrainTimeout bounds a synchronous POST /model/train. Default: 30m.
	TrainTimeout time.Duration

	// Artifacts, when set, adds the artifact at ModelPath to /model/status.
	Artifacts ArtifactInspector
}

// Handler serves the HTTP endpoints.
//
// Handler methods are split across files:
//   - handlers_recommend.go: recommendations, interactions, products
//   - handlers_model.go: model lifecycle
//   - handlers_health.go: liveness and readiness
type Handler struct {
	engine    Recommender
	catalog   Catalog
	config    HandlerConfig
	modelDir  string
	startTime time.Time
}

// NewHandler creates the API handler.
//
//	handler := api.NewHandler(engine, db, api.HandlerConfig{ModelPath: cfg.Model.Path})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(engine Recommender, catalog Catalog, cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = defaultTrainTimeout
	}

	h := &Handler{
		engine:    engine,
		catalog:   catalog,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.ModelPath != "" {
		h.modelDir = filepath.Dir(filepath.Clean(cfg.ModelPath))
	}
	return h
}

func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
