// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package services

import (
	"context"
	"time"

	"github.com/tomtom215/swiperec/internal/cache"
	"github.com/tomtom215/swiperec/internal/logging"
)

// CacheMaintenanceService periodically runs backend housekeeping, such as
// Badger value log GC, which reclaims disk held by expired entries.
type CacheMaintenanceService struct {
	target   cache.Maintainer
	interval time.Duration
}

// NewCacheMaintenanceService runs target.Maintain every interval (default 10m).
func NewCacheMaintenanceService(target cache.Maintainer, interval time.Duration) *CacheMaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CacheMaintenanceService{target: target, interval: interval}
}

// Serve implements suture.Service. Maintenance errors are logged; the next
// tick tries again.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.target.Maintain(ctx); err != nil {
				logging.Warn().Err(err).Msg("Cache maintenance failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Cache maintenance complete")
		}
	}
}

// String names the service in supervisor events.
func (s *CacheMaintenanceService) String() string {
	return "cache-maintenance"
}
