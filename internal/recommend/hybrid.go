// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"math/rand/v2"
	"sort"
	"sync"
)

// RankInput carries everything the hybrid ranker needs for one request.
type RankInput struct {
	// UserID is the requesting user.
	UserID string

	// Count is the target list length.
	Count int

	// Eligible are the active, non-deleted products in catalog order.
	Eligible []Product

	// Interacted are items the user viewed, wishlisted or swiped.
	Interacted map[string]struct{}

	// Liked are items the user liked, carted or wishlisted.
	Liked []string

	// Content is the content similarity index. May be nil.
	Content *ContentIndex

	// State is the trained model. May be nil.
	State *ModelState
}

// Ranker blends content, collaborative and random candidates under a quota.
type Ranker struct {
	quota QuotaConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRanker creates a hybrid ranker. A nil rng uses a fresh unseeded source,
// so exploration differs across processes and calls.
func NewRanker(quota QuotaConfig, rng *rand.Rand) *Ranker {
	if rng == nil {
		//nolint:gosec // G404: exploration sampling is not security sensitive
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Ranker{
		quota: quota,
		rng:   rng,
	}
}

// Rank produces at most in.Count unique recommendations, none of which are in
// the interacted set or outside the eligible catalog. The list is content
// results, then collaborative, then random exploration, then random padding.
func (r *Ranker) Rank(in RankInput) []Recommendation {
	if in.Count <= 0 || len(in.Eligible) == 0 {
		return []Recommendation{}
	}

	eligible := make(map[string]Product, len(in.Eligible))
	for _, p := range in.Eligible {
		eligible[p.ID] = p
	}
	chosen := make(map[string]struct{}, in.Count)
	blocked := func(id string) bool {
		if _, ok := in.Interacted[id]; ok {
			return true
		}
		if _, ok := chosen[id]; ok {
			return true
		}
		_, ok := eligible[id]
		return !ok
	}

	out := make([]Recommendation, 0, in.Count)
	add := func(id string, score float64, src Source) {
		chosen[id] = struct{}{}
		out = append(out, Recommendation{Product: eligible[id], Score: score, Source: src})
	}

	for _, s := range in.Content.Similar(in.Liked, r.quota.Content, blocked) {
		add(s.ItemID, s.Score, SourceContent)
	}

	for _, s := range r.collaborative(in.State, in.UserID, r.quota.Collaborative, blocked) {
		add(s.ItemID, s.Score, SourceCollaborative)
	}

	for _, id := range r.sample(in.Eligible, r.quota.Random, blocked) {
		add(id, 0, SourceRandom)
	}

	if len(out) > in.Count {
		out = out[:in.Count]
	}

	if missing := in.Count - len(out); missing > 0 {
		for _, id := range r.sample(in.Eligible, missing, blocked) {
			add(id, 0, SourceRandom)
		}
	}

	return out
}

// collaborative returns the top-k model-scored items that pass the filter.
// Equal scores keep ascending item-index order.
func (r *Ranker) collaborative(state *ModelState, userID string, k int, blocked func(string) bool) []ScoredItem {
	if k <= 0 {
		return nil
	}
	scores := state.ScoreAll(userID)
	if len(scores) == 0 {
		return nil
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]ScoredItem, 0, k)
	for _, idx := range order {
		id := state.ItemIDs[idx]
		if blocked(id) {
			continue
		}
		out = append(out, ScoredItem{ItemID: id, Score: scores[idx]})
		if len(out) == k {
			break
		}
	}
	return out
}

// sample draws up to k distinct ids uniformly without replacement from the
// unblocked part of pool.
func (r *Ranker) sample(pool []Product, k int, blocked func(string) bool) []string {
	if k <= 0 {
		return nil
	}
	candidates := make([]string, 0, len(pool))
	for _, p := range pool {
		if !blocked(p.ID) {
			candidates = append(candidates, p.ID)
		}
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + r.rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:k]
}
