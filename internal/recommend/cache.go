// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/metrics"
)

// cachedList is the serialized form of a cached recommendation list.
type cachedList struct {
	Strategy     Strategy         `json:"strategy"`
	ModelVersion string           `json:"model_version,omitempty"`
	Items        []Recommendation `json:"items"`
}

// ResultCache is a read-through cache of recommendation lists keyed by
// (user, count). Entries expire by TTL only; a retrain does not invalidate
// them. Every backend failure is logged and treated as a miss.
type ResultCache struct {
	store  cache.Store
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

// NewResultCache creates a result cache. A nil store disables caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResultCache(store cache.Store, cfg CacheConfig, logger zerolog.Logger) *ResultCache {
	return &ResultCache{
		store:  store,
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
		logger: logger,
	}
}

// Key returns the cache key for a (user, count) pair.
func (c *ResultCache) Key(userID string, count int) string {
	return fmt.Sprintf("%s:%s:%d", c.prefix, userID, count)
}

// Enabled reports whether a backend is configured.
func (c *ResultCache) Enabled() bool {
	return c != nil && c.store != nil
}

// Get returns a cached list. ok is false on a miss, a decode failure or
// a backend error.
func (c *ResultCache) Get(ctx context.Context, userID string, count int) (list cachedList, ok bool) {
	if !c.Enabled() {
		return cachedList{}, false
	}
	key := c.Key(userID, count)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			metrics.RecordCacheError(c.store.Name(), "get")
			c.logger.Warn().Err(err).Str("key", key).Msg("recommendation cache read failed, computing uncached")
		} else {
			metrics.RecordCacheLookup(c.store.Name(), false)
		}
		return cachedList{}, false
	}

	if err := json.Unmarshal(data, &list); err != nil {
		metrics.RecordCacheError(c.store.Name(), "decode")
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return cachedList{}, false
	}
	metrics.RecordCacheLookup(c.store.Name(), true)
	return list, true
}

// Set stores a list. Failures are logged and swallowed.
func (c *ResultCache) Set(ctx context.Context, userID string, count int, list cachedList) {
	if !c.Enabled() {
		return
	}
	key := c.Key(userID, count)

	data, err := json.Marshal(list)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode recommendation list for cache")
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		metrics.RecordCacheError(c.store.Name(), "set")
		c.logger.Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
	}
}
