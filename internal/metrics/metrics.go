// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Recommendation serving and model training
// - Cache efficiency and circuit breakers

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "redis", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"cache_type", "operation"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// =============================================================================
// Recommendation Metrics
// =============================================================================

var (
	// RecommendationRequests counts served recommendation requests.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "cache"}, // strategy: hybrid, popular; cache: hit, miss
	)

	// RecommendationLatency tracks end-to-end recommendation latency.
	RecommendationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_latency_seconds",
			Help:    "Recommendation request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"strategy"},
	)

	// RecommendationItems tracks the number of items per response by source.
	RecommendationItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_items_total",
			Help: "Total number of recommended items by contributing source",
		},
		[]string{"source"}, // content, collaborative, random, popular
	)

	// RecommendationFallbacks counts cold-start and degraded-path fallbacks.
	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Total number of popularity fallbacks by reason",
		},
		[]string{"reason"}, // untrained, unknown_user, empty_hybrid
	)

	// InteractionsRecorded counts ingested interaction signals.
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of recorded interaction signals",
		},
		[]string{"signal"},
	)

	// RetrainCounter mirrors the swipes-since-retrain counter.
	RetrainCounter = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_swipes_since_retrain",
			Help: "Swipes ingested since the last retrain was scheduled",
		},
	)

	// TrainingRuns counts model training attempts.
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"trigger", "result"}, // trigger: manual, threshold, schedule, startup, cold_start
	)

	// TrainingDuration tracks model training time.
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800},
		},
	)

	// ModelInfo tracks the size of the live model.
	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommendation_model_entities",
			Help: "Number of entities in the live model",
		},
		[]string{"kind"}, // users, items, interactions
	)

	// ModelTrained is 1 when a trained model is live.
	ModelTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_model_trained",
			Help: "Whether a trained model is live (1) or not (0)",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a cache hit or miss for a backend
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheError records a cache backend failure
func RecordCacheError(cacheType, operation string) {
	CacheErrors.WithLabelValues(cacheType, operation).Inc()
}

// RecordRecommendation records one served recommendation response
func RecordRecommendation(strategy string, cacheHit bool, duration time.Duration, sources map[string]int) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	RecommendationRequests.WithLabelValues(strategy, cache).Inc()
	RecommendationLatency.WithLabelValues(strategy).Observe(duration.Seconds())
	for source, n := range sources {
		RecommendationItems.WithLabelValues(source).Add(float64(n))
	}
}

// RecordFallback records a popularity fallback
func RecordFallback(reason string) {
	RecommendationFallbacks.WithLabelValues(reason).Inc()
}

// RecordInteraction records an ingested signal
func RecordInteraction(signal string) {
	InteractionsRecorded.WithLabelValues(signal).Inc()
}

// RecordTraining records a training run
func RecordTraining(trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	TrainingRuns.WithLabelValues(trigger, result).Inc()
	if err == nil {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// UpdateModelInfo publishes the size of the live model
func UpdateModelInfo(users, items, interactions int) {
	ModelTrained.Set(1)
	ModelInfo.WithLabelValues("users").Set(float64(users))
	ModelInfo.WithLabelValues("items").Set(float64(items))
	ModelInfo.WithLabelValues("interactions").Set(float64(interactions))
}
