// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package main is the entry point for the Swiperec server.

Swiperec serves personalized product feeds for swipe marketplaces. Each
feed mixes content-similar items, collaborative-filtering picks and random
exploration, and falls back to popularity for users the model has not seen.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("swiperec")
	├── ModelSupervisor ("model-layer")
	│   ├── Retrain service (startup load-or-train, scheduled retrain)
	│   └── Cache maintenance (Badger backend only)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB interaction store, optionally seeded with demo data
 4. Cache: memory, Redis or Badger, wrapped in a circuit breaker
 5. Engine: hybrid ranker over the factorization model
 6. Supervisor Tree and HTTP Server

# Configuration

Common environment variables:

	DUCKDB_PATH=/data/swiperec.duckdb
	SEED_DEMO_DATA=true
	CACHE_BACKEND=redis            # memory, redis, badger or none
	REDIS_URL=redis://localhost:6379/0
	MODEL_PATH=/data/model/recommender.bin
	MODEL_LOSS=warp                # warp or bpr
	RETRAIN_THRESHOLD=100          # swipes between background retrains
	RETRAIN_INTERVAL=24h
	TRAIN_ON_STARTUP=true
	HTTP_PORT=8000
	LOG_LEVEL=info

# Signal Handling

SIGINT and SIGTERM stop the tree. The HTTP server drains for up to 10s,
an in-flight retrain is allowed to finish, then the cache and database are
closed.
*/
package main
