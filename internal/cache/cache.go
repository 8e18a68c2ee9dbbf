// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/swiperec/internal/metrics"
)

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 5 * time.Minute

// Entry represents a cached value with expiration
type Entry struct {
	Data      []byte
	ExpiresAt time.Time
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Memory provides a thread-safe in-process cache with TTL support.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration

	statsMu sync.RWMutex
	stats   Stats

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemory creates an in-process cache whose entries default to ttl.
//
// A background goroutine sweeps expired entries every five minutes until
// Close is called. Expired entries are also dropped lazily on Get.
//
// Example:
//
//	c := cache.NewMemory(time.Hour)
//	defer c.Close()
//	_ = c.Set(ctx, "recommendations:u1:10", payload, 0)
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &Memory{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stats: Stats{
			LastCleanup: time.Now(),
		},
		stop: make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Name returns the backend name.
func (c *Memory) Name() string {
	return string(BackendMemory)
}

// Get retrieves a value by key. Expired entries are removed and reported
// as ErrMiss.
func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, ErrMiss
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return nil, ErrMiss
	}

	c.recordHit()
	return entry.Data, nil
}

// Set stores a value. A non-positive ttl uses the cache default.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data := make([]byte, len(value))
	copy(data, value)

	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.TotalKeys = n
	c.statsMu.Unlock()
	metrics.CacheSize.WithLabelValues(c.Name()).Set(float64(n))
	return nil
}

// Delete removes a specific entry.
func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if existed {
		c.recordEviction()
	}
	return nil
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
}

// Ping always succeeds.
func (c *Memory) Ping(context.Context) error {
	return nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Memory) Close() error {
	c.closeOnce.Do(func() { close(c.stop) })
	return nil
}

// GetStats returns a snapshot of cache statistics.
func (c *Memory) GetStats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage
func (c *Memory) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries
func (c *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (c *Memory) cleanup() {
	now := time.Now()
	c.mu.Lock()
	evictions := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = n
	c.stats.LastCleanup = now
	c.statsMu.Unlock()

	metrics.CacheEvictions.WithLabelValues(c.Name()).Add(float64(evictions))
	metrics.CacheSize.WithLabelValues(c.Name()).Set(float64(n))
}

func (c *Memory) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *Memory) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

func (c *Memory) recordEviction() {
	c.statsMu.Lock()
	c.stats.Evictions++
	c.statsMu.Unlock()
}
