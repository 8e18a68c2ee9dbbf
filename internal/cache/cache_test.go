// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryBasicOperations(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(value) != "value1" {
		t.Errorf("Expected value1, got %q", value)
	}

	if _, err := c.Get(ctx, "key2"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected ErrMiss for key2, got %v", err)
	}
}

func TestMemoryCopiesValue(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
}

func TestMemoryExpiration(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("value1"), 100*time.Millisecond)

	if _, err := c.Get(ctx, "key1"); err != nil {
		t.Errorf("Expected key1 to exist immediately after set, got %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected key1 to be expired, got %v", err)
	}
	if c.GetStats().Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", c.GetStats().Evictions)
	}
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("value1"), 0)
	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key returned %v", err)
	}
	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrMiss) {
		t.Error("Expected key1 to be deleted")
	}
}

func TestMemoryClear(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_ = c.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), 0)
	}

	c.Clear()

	for i := 1; i <= 3; i++ {
		if _, err := c.Get(ctx, fmt.Sprintf("key%d", i)); !errors.Is(err, ErrMiss) {
			t.Errorf("Expected key%d to be cleared", i)
		}
	}
	if c.GetStats().TotalKeys != 0 {
		t.Errorf("Expected 0 keys, got %d", c.GetStats().TotalKeys)
	}
}

func TestMemoryStats(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("value1"), 0)
	_, _ = c.Get(ctx, "key1") // hit
	_, _ = c.Get(ctx, "key2") // miss
	_, _ = c.Get(ctx, "key1") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	hitRate := c.HitRate()
	expectedHitRate := 66.66666666666667
	if hitRate < expectedHitRate-0.01 || hitRate > expectedHitRate+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expectedHitRate, hitRate)
	}
}

func TestMemoryCleanup(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	_ = c.Set(ctx, "long", []byte("v"), time.Hour)
	time.Sleep(20 * time.Millisecond)

	c.cleanup()

	if got := c.GetStats().TotalKeys; got != 1 {
		t.Errorf("Expected 1 key after cleanup, got %d", got)
	}
	if _, err := c.Get(ctx, "long"); err != nil {
		t.Errorf("long-lived key should survive cleanup: %v", err)
	}
}

func TestMemoryCloseIdempotent(t *testing.T) {
	c := NewMemory(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			_ = c.Set(ctx, key, []byte("v"), 0)
			_, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if got := c.GetStats().TotalKeys; got != 10 {
		t.Errorf("Expected 10 keys, got %d", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
		want    string
	}{
		{name: "none disables caching", cfg: Config{Backend: BackendNone}, wantNil: true},
		{name: "empty defaults to memory", cfg: Config{}, want: "memory"},
		{name: "memory", cfg: Config{Backend: BackendMemory, TTL: time.Hour}, want: "memory"},
		{name: "badger in memory", cfg: Config{Backend: BackendBadger}, want: "badger"},
		{name: "badger with breaker", cfg: Config{Backend: BackendBadger, CircuitBreaker: true}, want: "badger"},
		{name: "redis lazy connect", cfg: Config{Backend: BackendRedis, RedisURL: "redis://localhost:6379/0"}, want: "redis"},
		{name: "redis missing url", cfg: Config{Backend: BackendRedis}, wantErr: true},
		{name: "redis bad url", cfg: Config{Backend: BackendRedis, RedisURL: "http://nope"}, wantErr: true},
		{name: "unknown backend", cfg: Config{Backend: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if s != nil {
					t.Fatalf("expected nil store, got %T", s)
				}
				return
			}
			defer s.Close()
			if s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}
