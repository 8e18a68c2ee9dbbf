// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package config

import (
	"os"
	"time"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/recommend"
)

// Config holds all service configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Retrain   RetrainConfig   `koanf:"retrain"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Seed a small demo catalog when the store is empty
}

// CacheConfig holds recommendation cache settings
type CacheConfig struct {
	Backend        string `koanf:"backend"` // redis, badger, memory or none
	RedisURL       string `koanf:"redis_url"`
	BadgerPath     string `koanf:"badger_path"` // empty runs Badger in memory
	TTLSeconds     int    `koanf:"ttl_seconds"`
	CircuitBreaker bool   `koanf:"circuit_breaker"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ModelConfig holds collaborative model hyperparameters and the artifact path
type ModelConfig struct {
	Path         string  `koanf:"path"`
	Loss         string  `koanf:"loss"` // warp or bpr
	Factors      int     `koanf:"factors"`
	Epochs       int     `koanf:"epochs"`
	LearningRate float64 `koanf:"learning_rate"`
	ItemAlpha    float64 `koanf:"item_alpha"`
	UserAlpha    float64 `koanf:"user_alpha"`
	MaxSampled   int     `koanf:"max_sampled"`
	RandomState  int64   `koanf:"random_state"`
	NumThreads   int     `koanf:"num_threads"`
}

// RecommendConfig holds serving settings
type RecommendConfig struct {
	DefaultCount       int       `koanf:"default_count"`
	MaxCount           int       `koanf:"max_count"`
	ContentQuota       int       `koanf:"content_quota"`
	CollaborativeQuota int       `koanf:"collaborative_quota"`
	RandomQuota        int       `koanf:"random_quota"`
	SwipeDislikeWeight float64   `koanf:"swipe_dislike_weight"`
	PriceThresholds    []float64 `koanf:"price_thresholds"`
	PriceLabels        []string  `koanf:"price_labels"` // one more label than thresholds; the last is the overflow label
}

// RetrainConfig holds model lifecycle settings
type RetrainConfig struct {
	Threshold int64         `koanf:"threshold"`  // swipes between threshold retrains
	Interval  time.Duration `koanf:"interval"`   // periodic retrain interval (0 disables)
	OnStartup bool          `koanf:"on_startup"` // initialize the model when the service starts
	Force     bool          `koanf:"force"`      // retrain on startup even when an artifact exists
	Timeout   time.Duration `koanf:"timeout"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds request limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EngineConfig builds the recommendation engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	ec := recommend.DefaultConfig()

	ec.Quota = recommend.QuotaConfig{
		Content:       c.Recommend.ContentQuota,
		Collaborative: c.Recommend.CollaborativeQuota,
		Random:        c.Recommend.RandomQuota,
	}
	ec.DefaultCount = c.Recommend.DefaultCount
	ec.MaxCount = c.Recommend.MaxCount
	ec.Signals.Dislike = c.Recommend.SwipeDislikeWeight

	if len(c.Recommend.PriceThresholds) > 0 {
		buckets := make([]recommend.PriceBucket, len(c.Recommend.PriceThresholds))
		for i, bound := range c.Recommend.PriceThresholds {
			buckets[i] = recommend.PriceBucket{UpperBound: bound, Label: c.Recommend.PriceLabels[i]}
		}
		ec.Features.PriceBuckets = buckets
		ec.Features.PriceOverflowLabel = c.Recommend.PriceLabels[len(c.Recommend.PriceLabels)-1]
	}

	ec.Model = recommend.Hyperparams{
		Factors:      c.Model.Factors,
		LearningRate: c.Model.LearningRate,
		ItemAlpha:    c.Model.ItemAlpha,
		UserAlpha:    c.Model.UserAlpha,
		Epochs:       c.Model.Epochs,
		MaxSampled:   c.Model.MaxSampled,
		Seed:         c.Model.RandomState,
		Threads:      c.Model.NumThreads,
	}

	ec.Training.RetrainThreshold = c.Retrain.Threshold
	ec.Training.Timeout = c.Retrain.Timeout

	ec.Cache.TTL = c.Cache.TTL()
	return ec
}

// CacheStoreConfig builds the cache backend configuration.
func (c *Config) CacheStoreConfig() cache.Config {
	backend := cache.Backend(c.Cache.Backend)
	if backend == "" {
		// REDIS_URL alone selects Redis, matching deployments that only set the URL.
		backend = cache.BackendMemory
		if c.Cache.RedisURL != "" {
			backend = cache.BackendRedis
		}
	}
	return cache.Config{
		Backend:        backend,
		TTL:            c.Cache.TTL(),
		RedisURL:       c.Cache.RedisURL,
		BadgerPath:     c.Cache.BadgerPath,
		CircuitBreaker: c.Cache.CircuitBreaker,
	}
}

// LoggingSettings builds the logger configuration.
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}
