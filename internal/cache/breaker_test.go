// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// flakyStore fails every call while down is set.
type flakyStore struct {
	down  atomic.Bool
	calls atomic.Int64
	mem   *Memory
}

func newFlakyStore() *flakyStore {
	return &flakyStore{mem: NewMemory(time.Minute)}
}

var errBackendDown = errors.New("connection refused")

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls.Add(1)
	if f.down.Load() {
		return nil, errBackendDown
	}
	return f.mem.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.calls.Add(1)
	if f.down.Load() {
		return errBackendDown
	}
	return f.mem.Set(ctx, key, value, ttl)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	return f.mem.Delete(ctx, key)
}

func (f *flakyStore) Ping(context.Context) error {
	if f.down.Load() {
		return errBackendDown
	}
	return nil
}

func (f *flakyStore) Name() string { return "flaky" }
func (f *flakyStore) Close() error { return f.mem.Close() }

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		MinRequests:  4,
		FailureRatio: 0.5,
	}
}

func TestBreakerPassThrough(t *testing.T) {
	t.Parallel()
	f := newFlakyStore()
	b := NewBreakerWithSettings(f, testBreakerSettings())
	defer b.Close()
	ctx := context.Background()

	if err := b.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := b.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if b.Name() != "flaky" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestBreakerMissesDoNotTrip(t *testing.T) {
	t.Parallel()
	f := newFlakyStore()
	b := NewBreakerWithSettings(f, testBreakerSettings())
	defer b.Close()

	for i := 0; i < 20; i++ {
		if _, err := b.Get(context.Background(), "absent"); !errors.Is(err, ErrMiss) {
			t.Fatalf("expected ErrMiss, got %v", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreakerOpensAndRecovers(t *testing.T) {
	t.Parallel()
	f := newFlakyStore()
	b := NewBreakerWithSettings(f, testBreakerSettings())
	defer b.Close()
	ctx := context.Background()

	f.down.Store(true)
	for i := 0; i < 4; i++ {
		_, _ = b.Get(ctx, "k")
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	before := f.calls.Load()
	if _, err := b.Get(ctx, "k"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if f.calls.Load() != before {
		t.Error("open breaker should not call the backend")
	}

	f.down.Store(false)
	time.Sleep(80 * time.Millisecond)

	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("half-open probe: expected ErrMiss, got %v", err)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed after successful probe", b.State())
	}
}

func TestBreakerPingBypasses(t *testing.T) {
	t.Parallel()
	f := newFlakyStore()
	b := NewBreakerWithSettings(f, testBreakerSettings())
	defer b.Close()

	f.down.Store(true)
	if err := b.Ping(context.Background()); !errors.Is(err, errBackendDown) {
		t.Errorf("Ping = %v, want backend error", err)
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
