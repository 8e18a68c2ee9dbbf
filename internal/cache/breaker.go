// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/metrics"
)

// BreakerSettings tunes the cache circuit breaker.
type BreakerSettings struct {
	// MaxRequests allowed in half-open state.
	MaxRequests uint32
	// Interval resets counts in closed state.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// MinRequests before the failure ratio is evaluated.
	MinRequests uint32
	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests
// and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker wraps a Store with a circuit breaker. While open, calls fail
// immediately with gobreaker.ErrOpenState instead of waiting on a dead
// backend. Misses are successes.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
	name string
}

// NewBreaker wraps next with DefaultBreakerSettings.
func NewBreaker(next Store) *Breaker {
	return NewBreakerWithSettings(next, DefaultBreakerSettings())
}

// NewBreakerWithSettings wraps next with custom settings.
func NewBreakerWithSettings(next Store, s BreakerSettings) *Breaker {
	cbName := "cache-" + next.Name()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", cbName).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	})

	return &Breaker{next: next, cb: cb, name: cbName}
}

// Unwrap returns the wrapped store.
func (b *Breaker) Unwrap() Store { return b.next }

// Name returns the wrapped backend name.
func (b *Breaker) Name() string { return b.next.Name() }

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Get reads through the breaker.
func (b *Breaker) Get(ctx context.Context, key string) ([]byte, error) {
	return b.execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

// Set writes through the breaker.
func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

// Delete removes through the breaker.
func (b *Breaker) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

// Ping bypasses the breaker so health checks see the real backend state.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// Close closes the wrapped store.
func (b *Breaker) Close() error {
	return b.next.Close()
}

func (b *Breaker) execute(fn func() ([]byte, error)) ([]byte, error) {
	result, err := b.cb.Execute(fn)

	switch {
	case err == nil || errors.Is(err, ErrMiss):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
	}
	return result, err
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
