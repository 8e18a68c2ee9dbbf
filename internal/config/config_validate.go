// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/recommend/algorithms"
)

// validLogLevels contains the allowed log level values
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats contains the allowed log format values
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateModel(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateRetrain(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	// The engine applies its own invariants on top of the field checks above.
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine configuration: %w", err)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch cache.Backend(c.Cache.Backend) {
	case "", cache.BackendMemory, cache.BackendBadger, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: redis, badger, memory, none")
	}

	if c.Cache.RedisURL != "" {
		if err := validateRedisURL(c.Cache.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL %w", err)
		}
	}

	if c.Cache.TTLSeconds < 1 {
		return fmt.Errorf("RECOMMENDATION_CACHE_TTL must be a positive number of seconds")
	}
	return nil
}

// validateRedisURL checks the scheme and host of a Redis URL.
func validateRedisURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "redis" && parsedURL.Scheme != "rediss" {
		return fmt.Errorf("scheme must be redis or rediss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., redis://localhost:6379/0)")
	}
	return nil
}

func (c *Config) validateModel() error {
	if c.Model.Path == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if _, err := algorithms.NewFactorization(algorithms.Loss(c.Model.Loss)); err != nil {
		return fmt.Errorf("MODEL_LOSS: %w", err)
	}
	if c.Model.Epochs < 1 {
		return fmt.Errorf("MODEL_EPOCHS must be positive")
	}
	if c.Model.Factors < 1 {
		return fmt.Errorf("MODEL_FACTORS must be positive")
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("MODEL_LEARNING_RATE must be positive")
	}
	if c.Model.MaxSampled < 1 {
		return fmt.Errorf("MODEL_MAX_SAMPLED must be positive")
	}
	if c.Model.NumThreads < 1 {
		return fmt.Errorf("MODEL_NUM_THREADS must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultCount < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be positive")
	}
	if c.Recommend.MaxCount < c.Recommend.DefaultCount {
		return fmt.Errorf("RECOMMEND_MAX_COUNT must be at least RECOMMEND_DEFAULT_COUNT")
	}
	if c.Recommend.SwipeDislikeWeight < 0 {
		return fmt.Errorf("SWIPE_DISLIKE_WEIGHT must be non-negative")
	}

	thresholds := c.Recommend.PriceThresholds
	if len(thresholds) == 0 {
		return fmt.Errorf("PRICE_BUCKETS must list at least one threshold")
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return fmt.Errorf("PRICE_BUCKETS must be strictly ascending, got %v", thresholds)
		}
	}
	if len(c.Recommend.PriceLabels) != len(thresholds)+1 {
		return fmt.Errorf("PRICE_LABELS must have %d entries (one per threshold plus overflow), got %d",
			len(thresholds)+1, len(c.Recommend.PriceLabels))
	}
	return nil
}

func (c *Config) validateRetrain() error {
	if c.Retrain.Threshold < 1 {
		return fmt.Errorf("RETRAIN_THRESHOLD must be positive")
	}
	if c.Retrain.Interval < 0 {
		return fmt.Errorf("RETRAIN_INTERVAL must be non-negative")
	}
	if c.Retrain.Timeout <= 0 {
		return fmt.Errorf("RETRAIN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
