// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is an expiring byte-value key-value store.
//
// Usage:
//
//	var s Store = NewMemory(time.Hour)
//	_ = s.Set(ctx, "key", data, time.Hour)
//	data, err := s.Get(ctx, "key")
//	if errors.Is(err, ErrMiss) {
//	    // compute and store
//	}
type Store interface {
	// Get returns the value for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks backend reachability.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and metrics.
	Name() string

	// Close releases backend resources.
	Close() error
}

// Backend selects a Store implementation.
type Backend string

const (
	// BackendMemory is the in-process TTL cache (default when no Redis URL is set).
	BackendMemory Backend = "memory"

	// BackendRedis is a shared Redis server.
	BackendRedis Backend = "redis"

	// BackendBadger is an embedded on-disk Badger database.
	BackendBadger Backend = "badger"

	// BackendNone disables caching.
	BackendNone Backend = "none"
)

// Config holds configuration for creating a Store.
type Config struct {
	// Backend selects the implementation.
	Backend Backend

	// TTL is the default entry lifetime for the memory backend.
	TTL time.Duration

	// RedisURL is a redis:// URL for the redis backend.
	RedisURL string

	// BadgerPath is the data directory for the badger backend.
	// Empty runs Badger in memory.
	BadgerPath string

	// CircuitBreaker wraps remote backends with a circuit breaker.
	CircuitBreaker bool
}

// New creates a Store for the configured backend. BackendNone returns a nil
// Store and nil error; callers treat a nil Store as "run uncached".
func New(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Backend {
	case BackendNone:
		return nil, nil
	case BackendMemory, "":
		return NewMemory(cfg.TTL), nil
	case BackendRedis:
		s, err = NewRedis(cfg.RedisURL)
	case BackendBadger:
		s, err = NewBadger(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CircuitBreaker {
		s = NewBreaker(s)
	}
	return s, nil
}

// Maintainer is implemented by backends that need periodic housekeeping,
// such as Badger value log garbage collection.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Unwrap strips wrappers such as Breaker and returns the backend store.
func Unwrap(s Store) Store {
	for {
		w, ok := s.(interface{ Unwrap() Store })
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}
