// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed by the API router at /metrics.

# Available Metrics

Database:
  - duckdb_query_duration_seconds (operation, table)
  - duckdb_query_errors_total (operation, table, error_type)

API:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests

Cache and circuit breakers:
  - cache_hits_total, cache_misses_total, cache_errors_total (cache_type)
  - circuit_breaker_state (name): 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)

Recommendations:
  - recommendation_requests_total (strategy, cache)
  - recommendation_latency_seconds (strategy)
  - recommendation_items_total (source)
  - recommendation_fallbacks_total (reason)
  - interactions_recorded_total (signal)
  - recommendation_swipes_since_retrain
  - recommendation_training_runs_total (trigger, result)
  - recommendation_training_duration_seconds
  - recommendation_model_entities (kind)
  - recommendation_model_trained

# Usage

	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	metrics.RecordRecommendation("hybrid", false, elapsed, sources)
*/
package metrics
