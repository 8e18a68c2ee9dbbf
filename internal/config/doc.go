// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package config provides centralized configuration management for Swiperec.

Configuration is layered with Koanf: built-in defaults, then an optional YAML
file (config.yaml, or the path in CONFIG_PATH), then environment variables.
Only environment variables listed in the mapping table are read.

# Environment Variables

Database:
  - DATABASE_URL / DUCKDB_PATH: DuckDB file path (default: /data/swiperec.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - SEED_DEMO_DATA: Seed a demo catalog into an empty store (default: false)

Cache:
  - REDIS_URL: Redis URL; selects the redis backend when CACHE_BACKEND is unset
  - CACHE_BACKEND: redis, badger, memory or none
  - CACHE_BADGER_PATH: Badger data directory (empty = in-memory)
  - RECOMMENDATION_CACHE_TTL: Entry lifetime in seconds (default: 3600)

Model:
  - MODEL_PATH: Artifact path (default: /data/model/recommender.bin)
  - MODEL_LOSS: warp or bpr (default: warp)
  - MODEL_FACTORS, MODEL_EPOCHS, MODEL_LEARNING_RATE, MODEL_ITEM_ALPHA,
    MODEL_USER_ALPHA, MODEL_MAX_SAMPLED, MODEL_RANDOM_STATE, MODEL_NUM_THREADS

Recommendations:
  - RECOMMEND_DEFAULT_COUNT (default: 10), RECOMMEND_MAX_COUNT (default: 100)
  - SWIPE_DISLIKE_WEIGHT (default: 0.1)
  - PRICE_BUCKETS: Comma-separated ascending thresholds (default: 300,800,1500,3000)
  - PRICE_LABELS: One label per threshold plus the overflow label

Retraining:
  - RETRAIN_THRESHOLD: Swipes between retrains (default: 100)
  - RETRAIN_INTERVAL: Periodic retrain interval (default: 24h, 0 disables)
  - TRAIN_ON_STARTUP: Load or train the model at startup (default: true)
  - FORCE_RETRAIN: Retrain at startup even if an artifact exists

HTTP:
  - HTTP_HOST, HTTP_PORT (default: 8000), HTTP_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engineCfg := cfg.EngineConfig()
*/
package config
