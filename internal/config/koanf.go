// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/swiperec/config.yaml",
	"/etc/swiperec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/swiperec.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			SeedDemoData:           false,
		},
		Cache: CacheConfig{
			Backend:        "", // redis when REDIS_URL is set, memory otherwise
			RedisURL:       "",
			BadgerPath:     "",
			TTLSeconds:     3600,
			CircuitBreaker: true,
		},
		Model: ModelConfig{
			Path:         "/data/model/recommender.bin",
			Loss:         "warp",
			Factors:      10,
			Epochs:       30,
			LearningRate: 0.05,
			ItemAlpha:    1e-6,
			UserAlpha:    1e-6,
			MaxSampled:   10,
			RandomState:  42,
			NumThreads:   2,
		},
		Recommend: RecommendConfig{
			DefaultCount:       10,
			MaxCount:           100,
			ContentQuota:       4,
			CollaborativeQuota: 3,
			RandomQuota:        3,
			SwipeDislikeWeight: 0.1,
			PriceThresholds:    []float64{300, 800, 1500, 3000},
			PriceLabels:        []string{"ultra_budget", "budget", "mid_range", "premium", "luxury"},
		},
		Retrain: RetrainConfig{
			Threshold: 100,
			Interval:  24 * time.Hour,
			OnStartup: true,
			Force:     false,
			Timeout:   30 * time.Minute,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf with layered sources.
//
// Configuration is loaded in the following order (later sources override earlier):
//  1. Built-in defaults
//  2. Config file (config.yaml, or the path in CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing default path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config keys that accept comma-separated env values.
var sliceConfigPaths = []string{
	"recommend.price_thresholds",
	"recommend.price_labels",
	"security.cors_origins",
}

// processSliceFields splits comma-separated string values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config keys.
var envMappings = map[string]string{
	"database_url":        "database.path",
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"seed_demo_data":      "database.seed_demo_data",
	"redis_url":           "cache.redis_url",
	"cache_backend":       "cache.backend",
	"cache_badger_path":   "cache.badger_path",
	"cache_breaker":       "cache.circuit_breaker",
	"model_path":          "model.path",
	"model_loss":          "model.loss",
	"model_factors":       "model.factors",
	"model_epochs":        "model.epochs",
	"model_learning_rate": "model.learning_rate",
	"model_item_alpha":    "model.item_alpha",
	"model_user_alpha":    "model.user_alpha",
	"model_max_sampled":   "model.max_sampled",
	"model_random_state":  "model.random_state",
	"model_num_threads":   "model.num_threads",

	"recommendation_cache_ttl":      "cache.ttl_seconds",
	"recommend_default_count":       "recommend.default_count",
	"recommend_max_count":           "recommend.max_count",
	"recommend_content_quota":       "recommend.content_quota",
	"recommend_collaborative_quota": "recommend.collaborative_quota",
	"recommend_random_quota":        "recommend.random_quota",
	"swipe_dislike_weight":          "recommend.swipe_dislike_weight",
	"price_buckets":                 "recommend.price_thresholds",
	"price_labels":                  "recommend.price_labels",

	"retrain_threshold": "retrain.threshold",
	"retrain_interval":  "retrain.interval",
	"train_on_startup":  "retrain.on_startup",
	"force_retrain":     "retrain.force",
	"retrain_timeout":   "retrain.timeout",

	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables to config keys.
// Unmapped variables return an empty key and are skipped, so unrelated
// environment variables never leak into the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
