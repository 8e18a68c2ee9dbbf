// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRetrainTrigger_FiresAtThreshold(t *testing.T) {
	t.Parallel()

	tr := NewRetrainTrigger(3)

	want := []bool{false, false, true, false, false, true}
	for i, w := range want {
		if got := tr.Record(); got != w {
			t.Errorf("Record() #%d = %v, want %v", i+1, got, w)
		}
	}
	if tr.Count() != 0 {
		t.Errorf("Count() = %d after firing, want 0", tr.Count())
	}
	if tr.Threshold() != 3 {
		t.Errorf("Threshold() = %d, want 3", tr.Threshold())
	}
}

func TestRetrainTrigger_NonPositiveNeverFires(t *testing.T) {
	t.Parallel()

	tr := NewRetrainTrigger(0)
	for range 10 {
		if tr.Record() {
			t.Fatal("zero threshold fired")
		}
	}
	if tr.Count() != 10 {
		t.Errorf("Count() = %d, want 10", tr.Count())
	}
}

func TestRetrainTrigger_Concurrent(t *testing.T) {
	t.Parallel()

	const (
		threshold  = 10
		goroutines = 20
		perWorker  = 50
	)
	tr := NewRetrainTrigger(threshold)

	var fired atomic.Int64
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				if tr.Record() {
					fired.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	total := int64(goroutines * perWorker)
	if fired.Load() != total/threshold {
		t.Errorf("fired %d times, want %d", fired.Load(), total/threshold)
	}
	if tr.Count() != total%threshold {
		t.Errorf("Count() = %d, want %d", tr.Count(), total%threshold)
	}
}
