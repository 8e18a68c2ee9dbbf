// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package testinfra provides container-backed infrastructure for integration
// tests.
//
// It uses testcontainers-go to run a real Redis server so the Redis cache
// backend and its circuit breaker are tested against the actual protocol:
//
//	func TestRedisRoundTrip(t *testing.T) {
//	    redis := testinfra.StartRedis(t)
//	    store, err := cache.NewRedis(redis.URL)
//	    // ...
//	}
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// Tests skip when Docker is unavailable or -short is set.
package testinfra
