// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/metrics"
)

// Training triggers, used in logs and metrics.
const (
	TriggerManual    = "manual"
	TriggerThreshold = "threshold"
	TriggerSchedule  = "schedule"
	TriggerStartup   = "startup"
	TriggerColdStart = "cold_start"
)

// Fallback reasons, used in logs and metrics.
const (
	fallbackUntrained   = "untrained"
	fallbackUnknownUser = "unknown_user"
	fallbackEmptyHybrid = "empty_hybrid"
	fallbackStoreError  = "store_error"
)

// ArtifactStore persists trained model state.
type ArtifactStore interface {
	Save(path string, state *ModelState) error
	Load(path string) (*ModelState, error)
	Exists(path string) bool
}

// serving is everything a request reads, swapped as one unit.
type serving struct {
	model   *ModelState
	content *ContentIndex
	catalog []Product
}

// Engine serves hybrid recommendations and owns the model lifecycle.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	store     DataSource
	model     CollaborativeModel
	artifacts ArtifactStore

	features *FeatureBuilder
	signals  *SignalAggregator
	ranker   *Ranker
	cache    *ResultCache
	trigger  *RetrainTrigger

	live     atomic.Pointer[serving]
	training atomic.Bool

	statusMu     sync.RWMutex
	lastError    string
	lastDuration time.Duration

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables result caching on the given store.
func WithCache(store cache.Store) Option {
	return func(e *Engine) {
		e.cache = NewResultCache(store, e.config.Cache, e.logger)
	}
}

// WithArtifactStore enables SaveModel and LoadModel.
func WithArtifactStore(a ArtifactStore) Option {
	return func(e *Engine) {
		e.artifacts = a
	}
}

// WithRanker replaces the default ranker, typically with a seeded one in tests.
func WithRanker(r *Ranker) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store DataSource, model CollaborativeModel, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("data source is required")
	}
	if model == nil {
		return nil, errors.New("collaborative model is required")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	bgCtx, bgCancel := context.WithCancel(context.Background())

	e := &Engine{
		config:   cfg,
		logger:   logger,
		store:    store,
		model:    model,
		features: NewFeatureBuilder(cfg.Features, store, logger),
		signals:  NewSignalAggregator(cfg.Signals, store, logger),
		ranker:   NewRanker(cfg.Quota, nil),
		cache:    NewResultCache(nil, cfg.Cache, logger),
		trigger:  NewRetrainTrigger(cfg.Training.RetrainThreshold),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// GetRecommendations returns up to count items for the user. It never fails
// for lack of results; training and cache failures degrade to a popularity
// ranking or an uncached result.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, count int) (*Response, error) {
	start := time.Now()
	count = e.normalizeCount(count)

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}
	logger := e.logger.With().Str("request_id", requestID).Str("user_id", userID).Int("count", count).Logger()

	if list, ok := e.cache.Get(ctx, userID, count); ok {
		resp := e.buildResponse(userID, requestID, list, true, start)
		logger.Debug().Int("returned", len(resp.Items)).Msg("served recommendations from cache")
		return resp, nil
	}

	list := e.compute(ctx, userID, count, logger)
	e.cache.Set(ctx, userID, count, list)

	resp := e.buildResponse(userID, requestID, list, false, start)
	logger.Debug().
		Str("strategy", string(list.Strategy)).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")
	return resp, nil
}

// compute runs the hybrid ranker or a popularity fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) compute(ctx context.Context, userID string, count int, logger zerolog.Logger) cachedList {
	live := e.live.Load()
	if (live == nil || !live.model.IsTrained()) && e.config.Training.TrainOnColdStart {
		logger.Info().Msg("no trained model, training synchronously")
		if err := e.train(ctx, TriggerColdStart); err != nil {
			logger.Warn().Err(err).Msg("cold-start training failed, serving popular items")
		}
		live = e.live.Load()
	}

	if live == nil || !live.model.IsTrained() {
		return e.popular(ctx, userID, count, fallbackUntrained, logger)
	}
	if !live.model.KnowsUser(userID) {
		return e.popular(ctx, userID, count, fallbackUnknownUser, logger)
	}

	eligible, err := e.store.ActiveProducts(ctx)
	catalogRead := err == nil
	if err != nil {
		logger.Warn().Err(err).Msg("active catalog unavailable, using training snapshot")
		eligible = live.catalog
	}

	interacted, err := e.store.InteractedItems(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("interaction history unavailable, serving popular items")
		return e.popular(ctx, userID, count, fallbackStoreError, logger)
	}

	liked, err := e.store.LikedItems(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("liked items unavailable, skipping content similarity")
		liked = nil
	}

	// An index is only published from a catalog that was actually read.
	content := live.content
	if content == nil && catalogRead {
		content = e.ensureContentIndex(live, eligible)
	}

	items := e.ranker.Rank(RankInput{
		UserID:     userID,
		Count:      count,
		Eligible:   eligible,
		Interacted: interacted,
		Liked:      liked,
		Content:    content,
		State:      live.model,
	})
	if len(items) == 0 {
		return e.popular(ctx, userID, count, fallbackEmptyHybrid, logger)
	}

	return cachedList{
		Strategy:     StrategyHybrid,
		ModelVersion: live.model.Version,
		Items:        items,
	}
}

// popular ranks active items by wishlist count. Items the user already
// interacted with are skipped when that history is readable.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) popular(ctx context.Context, userID string, count int, reason string, logger zerolog.Logger) cachedList {
	metrics.RecordFallback(reason)
	logger.Debug().Str("reason", reason).Msg("serving popularity fallback")

	var interacted map[string]struct{}
	if reason != fallbackStoreError {
		var err error
		interacted, err = e.store.InteractedItems(ctx, userID)
		if err != nil {
			logger.Warn().Err(err).Msg("interaction history unavailable for popularity filter")
			interacted = nil
		}
	}

	products, err := e.store.PopularProducts(ctx, count+len(interacted))
	if err != nil {
		logger.Warn().Err(err).Msg("popular items unavailable, returning empty list")
		products = nil
	}

	items := make([]Recommendation, 0, count)
	for _, p := range products {
		if _, seen := interacted[p.ID]; seen {
			continue
		}
		items = append(items, Recommendation{
			Product: p,
			Score:   float64(p.WishlistCount),
			Source:  SourcePopular,
		})
		if len(items) == count {
			break
		}
	}

	list := cachedList{Strategy: StrategyPopular, Items: items}
	if live := e.live.Load(); live != nil && live.model != nil {
		list.ModelVersion = live.model.Version
	}
	return list
}

// ensureContentIndex builds and publishes a content index for a loaded
// model that has none yet. Concurrent callers may both build; one wins.
// The catalog must come from a successful store read.
func (e *Engine) ensureContentIndex(live *serving, catalog []Product) *ContentIndex {
	idx := BuildContentIndex(catalog)
	next := &serving{model: live.model, content: idx, catalog: catalog}
	e.live.CompareAndSwap(live, next)
	return idx
}

// RecordInteraction persists a signal. Swipes advance the retrain counter
// and may schedule a background retrain.
func (e *Engine) RecordInteraction(ctx context.Context, userID, itemID string, signal SignalType) error {
	if err := e.store.RecordInteraction(ctx, userID, itemID, signal); err != nil {
		return fmt.Errorf("record %s interaction: %w", signal, err)
	}
	metrics.RecordInteraction(signal.String())

	if !signal.IsSwipe() {
		return nil
	}

	fired := e.trigger.Record()
	metrics.RetrainCounter.Set(float64(e.trigger.Count()))
	if fired {
		e.logger.Info().
			Int64("threshold", e.trigger.Threshold()).
			Msg("swipe threshold reached, scheduling retrain")
		e.ScheduleRetrain(TriggerThreshold)
	}
	return nil
}

// ScheduleRetrain runs a retrain in the background. It returns false when a
// training run is already active.
func (e *Engine) ScheduleRetrain(trigger string) bool {
	if e.training.Load() {
		e.logger.Info().Str("trigger", trigger).Msg("retrain already in progress, not scheduling another")
		return false
	}

	e.bg.Add(1)
	go func() {
		defer e.bg.Done()

		ctx, cancel := context.WithTimeout(e.bgCtx, e.config.Training.Timeout)
		defer cancel()

		if err := e.train(ctx, trigger); err != nil {
			if errors.Is(err, ErrTrainingInProgress) {
				return
			}
			e.logger.Error().Err(err).Str("trigger", trigger).Msg("background retrain failed, keeping previous model")
		}
	}()
	return true
}

// Train runs a full training cycle synchronously. On success the new state
// replaces the live one atomically; on failure the live state is unchanged.
func (e *Engine) Train(ctx context.Context) error {
	return e.train(ctx, TriggerManual)
}

// TrainWithTrigger is Train with an explicit trigger label for metrics.
func (e *Engine) TrainWithTrigger(ctx context.Context, trigger string) error {
	return e.train(ctx, trigger)
}

func (e *Engine) train(ctx context.Context, trigger string) error {
	if !e.training.CompareAndSwap(false, true) {
		return ErrTrainingInProgress
	}
	defer e.training.Store(false)

	start := time.Now()
	e.logger.Info().Str("trigger", trigger).Msg("starting model training")

	state, catalog, err := e.buildState(ctx)
	duration := time.Since(start)
	metrics.RecordTraining(trigger, duration, err)

	e.statusMu.Lock()
	e.lastDuration = duration
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
	e.statusMu.Unlock()

	if err != nil {
		return err
	}

	e.install(state, catalog)

	e.logger.Info().
		Str("trigger", trigger).
		Str("version", state.Version).
		Int("users", len(state.UserIDs)).
		Int("items", len(state.ItemIDs)).
		Int("interactions", state.NumInteractions).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model training complete")
	return nil
}

// buildState fetches training data and fits a new model state.
func (e *Engine) buildState(ctx context.Context) (*ModelState, []Product, error) {
	userIDs, err := e.store.ActiveUserIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load active users: %w", err)
	}
	products, err := e.store.ActiveProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load active products: %w", err)
	}

	if len(userIDs) < e.config.Training.MinUsers || len(products) < e.config.Training.MinItems {
		return nil, nil, fmt.Errorf("%w: %d users, %d items (need %d and %d)",
			ErrInsufficientData, len(userIDs), len(products),
			e.config.Training.MinUsers, e.config.Training.MinItems)
	}

	itemIDs := make([]string, len(products))
	for i, p := range products {
		itemIDs[i] = p.ID
	}
	userIndex := indexOf(userIDs)
	itemIndex := indexOf(itemIDs)

	interactions := e.signals.Aggregate(ctx, userIndex, itemIndex)
	indexed := make([]IndexedInteraction, 0, len(interactions))
	for _, in := range interactions {
		indexed = append(indexed, IndexedInteraction{
			User:   userIndex[in.UserID],
			Item:   itemIndex[in.ItemID],
			Weight: in.Weight,
		})
	}
	if len(indexed) == 0 {
		// Factorization needs at least one observed cell.
		e.logger.Warn().Msg("no interactions available, training on a single placeholder interaction")
		indexed = append(indexed, IndexedInteraction{User: 0, Item: 0, Weight: 1.0})
	}

	userFeatures := e.features.BuildUserFeatures(ctx, userIDs)
	itemFeatures := e.features.BuildItemFeatures(products, itemIDs)

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("training cancelled: %w", err)
	}

	params, err := e.model.Fit(ctx, &TrainingData{
		NumUsers:     len(userIDs),
		NumItems:     len(itemIDs),
		Interactions: indexed,
		UserFeatures: userFeatures,
		ItemFeatures: itemFeatures,
	}, e.config.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("fit %s model: %w", e.model.Name(), err)
	}

	state := NewModelState(e.config.Training.ModelVersion, e.model.Name(),
		userIDs, itemIDs, userFeatures, itemFeatures, params, len(interactions))
	return state, products, nil
}

// install publishes a new serving bundle.
func (e *Engine) install(state *ModelState, catalog []Product) {
	var content *ContentIndex
	if catalog != nil {
		content = BuildContentIndex(catalog)
	}
	e.live.Store(&serving{model: state, content: content, catalog: catalog})
	metrics.UpdateModelInfo(len(state.UserIDs), len(state.ItemIDs), state.NumInteractions)
}

// SaveModel writes the live model state to path.
func (e *Engine) SaveModel(path string) error {
	if e.artifacts == nil {
		return ErrNoArtifactStore
	}
	live := e.live.Load()
	if live == nil || !live.model.IsTrained() {
		return ErrNotTrained
	}
	if err := e.artifacts.Save(path, live.model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	e.logger.Info().Str("path", path).Str("version", live.model.Version).Msg("model saved")
	return nil
}

// LoadModel replaces the live state with the artifact at path. The content
// index is rebuilt from the current catalog; if the catalog cannot be read,
// it is built lazily on the next request.
func (e *Engine) LoadModel(ctx context.Context, path string) error {
	if e.artifacts == nil {
		return ErrNoArtifactStore
	}
	state, err := e.artifacts.Load(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if state.Version == "" {
		state.Version = DefaultModelVersion
	}

	catalog, err := e.store.ActiveProducts(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("catalog unavailable after load, content index deferred")
		catalog = nil
	}
	e.install(state, catalog)

	e.logger.Info().
		Str("path", path).
		Str("version", state.Version).
		Time("trained_at", state.TrainedAt).
		Msg("model loaded")
	return nil
}

// InitializeModel loads the artifact at path when present, unless
// forceRetrain is set; otherwise it trains and saves a fresh model.
// Save failures after a successful train are logged, not returned.
func (e *Engine) InitializeModel(ctx context.Context, path string, forceRetrain bool) error {
	if !forceRetrain && path != "" && e.artifacts != nil && e.artifacts.Exists(path) {
		err := e.LoadModel(ctx, path)
		if err == nil {
			return nil
		}
		e.logger.Warn().Err(err).Str("path", path).Msg("stored model unusable, retraining")
	}

	if err := e.train(ctx, TriggerStartup); err != nil {
		return err
	}

	if path != "" && e.artifacts != nil {
		if err := e.SaveModel(path); err != nil {
			e.logger.Warn().Err(err).Str("path", path).Msg("failed to persist initialized model")
		}
	}
	return nil
}

// IsTrained reports whether a trained model is live.
func (e *Engine) IsTrained() bool {
	live := e.live.Load()
	return live != nil && live.model.IsTrained()
}

// Status returns a snapshot of the model lifecycle.
func (e *Engine) Status() Status {
	s := Status{
		SwipesSinceRetrain: e.trigger.Count(),
		RetrainInProgress:  e.training.Load(),
	}
	if live := e.live.Load(); live != nil && live.model != nil {
		s.Trained = live.model.IsTrained()
		s.ModelVersion = live.model.Version
		s.TrainedAt = live.model.TrainedAt
		s.NumUsers = len(live.model.UserIDs)
		s.NumItems = len(live.model.ItemIDs)
		s.NumInteractions = live.model.NumInteractions
		s.ContentItems = live.content.Len()
		s.ContentTerms = live.content.VocabularySize()
	}

	e.statusMu.RLock()
	s.LastError = e.lastError
	s.LastTrainingMS = e.lastDuration.Milliseconds()
	e.statusMu.RUnlock()
	return s
}

// WaitForRetrains blocks until scheduled background retrains finish.
func (e *Engine) WaitForRetrains() {
	e.bg.Wait()
}

// Close cancels background retrains and waits for them to exit.
func (e *Engine) Close() {
	e.bgCancel()
	e.bg.Wait()
}

func (e *Engine) normalizeCount(count int) int {
	if count <= 0 {
		return e.config.DefaultCount
	}
	if count > e.config.MaxCount {
		return e.config.MaxCount
	}
	return count
}

func (e *Engine) buildResponse(userID, requestID string, list cachedList, cacheHit bool, start time.Time) *Response {
	items := list.Items
	if items == nil {
		items = []Recommendation{}
	}
	latency := time.Since(start)

	sources := make(map[string]int, 4)
	for _, it := range items {
		sources[string(it.Source)]++
	}
	metrics.RecordRecommendation(string(list.Strategy), cacheHit, latency, sources)

	return &Response{
		UserID: userID,
		Items:  items,
		Metadata: ResponseMetadata{
			RequestID:    requestID,
			Strategy:     list.Strategy,
			CacheHit:     cacheHit,
			ModelVersion: list.ModelVersion,
			LatencyMS:    latency.Milliseconds(),
			Timestamp:    time.Now().UTC(),
		},
	}
}
