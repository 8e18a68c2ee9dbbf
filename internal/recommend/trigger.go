// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import "sync/atomic"

// RetrainTrigger counts swipe ingestions and fires once every threshold
// swipes. The counter resets in the same atomic step that fires, so
// concurrent callers never lose an increment and exactly one of them
// observes each crossing.
type RetrainTrigger struct {
	threshold int64
	count     atomic.Int64
}

// NewRetrainTrigger creates a trigger. A non-positive threshold never fires.
func NewRetrainTrigger(threshold int64) *RetrainTrigger {
	return &RetrainTrigger{threshold: threshold}
}

// Record counts one swipe and reports whether this call reached the
// threshold. When it returns true the counter is already zero.
func (t *RetrainTrigger) Record() bool {
	for {
		cur := t.count.Load()
		next := cur + 1
		fire := t.threshold > 0 && next >= t.threshold
		if fire {
			next = 0
		}
		if t.count.CompareAndSwap(cur, next) {
			return fire
		}
	}
}

// Count returns swipes recorded since the last firing.
func (t *RetrainTrigger) Count() int64 {
	return t.count.Load()
}

// Threshold returns the configured threshold.
func (t *RetrainTrigger) Threshold() int64 {
	return t.threshold
}
