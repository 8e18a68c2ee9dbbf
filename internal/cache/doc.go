// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package cache provides expiring key-value stores for recommendation results.

# Backends

  - Memory: in-process TTL map with a periodic sweeper (single instance deployments)
  - Redis: shared server via go-redis, for horizontally scaled API nodes
  - Badger: embedded on-disk store using native entry TTLs

Every backend implements Store and reports an absent or expired key as
ErrMiss. Remote backends can be wrapped in a Breaker, which opens after
repeated backend failures so requests stop paying connection timeouts.

# Failure Semantics

Callers treat every error other than ErrMiss as "cache unavailable" and
proceed uncached. A nil Store from New(Config{Backend: BackendNone}) means
caching is disabled.

# Usage Example

	store, err := cache.New(cache.Config{
	    Backend:        cache.BackendRedis,
	    RedisURL:       "redis://localhost:6379/0",
	    CircuitBreaker: true,
	})
	if err != nil {
	    return err
	}
	defer store.Close()
*/
package cache
