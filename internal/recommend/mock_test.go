// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var errStoreDown = errors.New("store unavailable")

// mockStore is an in-memory DataSource. Set errs[method] to make a method fail.
type mockStore struct {
	mu        sync.Mutex
	users     []string
	products  []Product
	views     []ViewCount
	wishlists []WishlistEntry
	swipes    []Swipe
	errs      map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{errs: make(map[string]error)}
}

func (m *mockStore) fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[method] = err
}

func (m *mockStore) err(method string) error {
	return m.errs[method]
}

func (m *mockStore) ActiveUserIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("ActiveUserIDs"); err != nil {
		return nil, err
	}
	return append([]string(nil), m.users...), nil
}

func (m *mockStore) ActiveProducts(context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("ActiveProducts"); err != nil {
		return nil, err
	}
	return append([]Product(nil), m.products...), nil
}

func (m *mockStore) ViewCounts(context.Context) ([]ViewCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("ViewCounts"); err != nil {
		return nil, err
	}
	return append([]ViewCount(nil), m.views...), nil
}

func (m *mockStore) WishlistEntries(context.Context) ([]WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("WishlistEntries"); err != nil {
		return nil, err
	}
	return append([]WishlistEntry(nil), m.wishlists...), nil
}

func (m *mockStore) Swipes(context.Context) ([]Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("Swipes"); err != nil {
		return nil, err
	}
	return append([]Swipe(nil), m.swipes...), nil
}

func (m *mockStore) UserViewTotals(context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("UserViewTotals"); err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, v := range m.views {
		out[v.UserID] += v.Count
	}
	return out, nil
}

func (m *mockStore) UserSwipeBalances(context.Context) (map[string]SwipeBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("UserSwipeBalances"); err != nil {
		return nil, err
	}
	out := make(map[string]SwipeBalance)
	for _, s := range m.swipes {
		b := out[s.UserID]
		if s.Signal == SignalSwipeDislike {
			b.Dislikes++
		} else {
			b.Likes++
		}
		out[s.UserID] = b
	}
	return out, nil
}

func (m *mockStore) InteractedItems(_ context.Context, userID string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("InteractedItems"); err != nil {
		return nil, err
	}
	out := make(map[string]struct{})
	for _, v := range m.views {
		if v.UserID == userID {
			out[v.ItemID] = struct{}{}
		}
	}
	for _, w := range m.wishlists {
		if w.UserID == userID {
			out[w.ItemID] = struct{}{}
		}
	}
	for _, s := range m.swipes {
		if s.UserID == userID {
			out[s.ItemID] = struct{}{}
		}
	}
	return out, nil
}

func (m *mockStore) LikedItems(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("LikedItems"); err != nil {
		return nil, err
	}
	var out []string
	for _, s := range m.swipes {
		if s.UserID == userID && (s.Signal == SignalSwipeLike || s.Signal == SignalSwipeCart) {
			out = append(out, s.ItemID)
		}
	}
	for _, w := range m.wishlists {
		if w.UserID == userID {
			out = append(out, w.ItemID)
		}
	}
	return out, nil
}

func (m *mockStore) PopularProducts(_ context.Context, limit int) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("PopularProducts"); err != nil {
		return nil, err
	}
	out := append([]Product(nil), m.products...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WishlistCount != out[j].WishlistCount {
			return out[i].WishlistCount > out[j].WishlistCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) RecordInteraction(_ context.Context, userID, itemID string, signal SignalType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("RecordInteraction"); err != nil {
		return err
	}
	switch signal {
	case SignalView:
		for i := range m.views {
			if m.views[i].UserID == userID && m.views[i].ItemID == itemID {
				m.views[i].Count++
				return nil
			}
		}
		m.views = append(m.views, ViewCount{UserID: userID, ItemID: itemID, Count: 1})
	case SignalWishlist:
		m.wishlists = append(m.wishlists, WishlistEntry{UserID: userID, ItemID: itemID})
	default:
		m.swipes = append(m.swipes, Swipe{UserID: userID, ItemID: itemID, Signal: signal})
	}
	return nil
}

// stubParams scores every user identically by item index.
type stubParams struct {
	Scores []float64
}

func (p *stubParams) Predict(_ int, items []int, _, _ *FeatureMatrix) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		if it >= 0 && it < len(p.Scores) {
			out[i] = p.Scores[it]
		}
	}
	return out
}

// stubModel fits stubParams where lower item indices score higher.
type stubModel struct {
	fits      atomic.Int32
	err       error
	startOnce sync.Once
	started   chan struct{}
	release   chan struct{}
	lastData  atomic.Pointer[TrainingData]
}

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) Fit(ctx context.Context, data *TrainingData, _ Hyperparams) (ModelParams, error) {
	m.lastData.Store(data)
	if m.started != nil {
		m.startOnce.Do(func() { close(m.started) })
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	m.fits.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	scores := make([]float64, data.NumItems)
	for i := range scores {
		scores[i] = float64(data.NumItems - i)
	}
	return &stubParams{Scores: scores}, nil
}

// failingCache fails every operation, simulating an unreachable cache server.
type failingCache struct {
	gets atomic.Int32
	sets atomic.Int32
}

func (f *failingCache) Get(context.Context, string) ([]byte, error) {
	f.gets.Add(1)
	return nil, errors.New("dial tcp: connection refused")
}

func (f *failingCache) Set(context.Context, string, []byte, time.Duration) error {
	f.sets.Add(1)
	return errors.New("dial tcp: connection refused")
}

func (f *failingCache) Delete(context.Context, string) error {
	return errors.New("dial tcp: connection refused")
}

func (f *failingCache) Ping(context.Context) error {
	return errors.New("dial tcp: connection refused")
}

func (f *failingCache) Name() string { return "failing" }
func (f *failingCache) Close() error { return nil }

// memoryArtifacts is an in-memory ArtifactStore.
type memoryArtifacts struct {
	mu     sync.Mutex
	states map[string]*ModelState
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{states: make(map[string]*ModelState)}
}

func (a *memoryArtifacts) Save(path string, state *ModelState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !state.IsTrained() {
		return ErrNotTrained
	}
	a.states[path] = state
	return nil
}

func (a *memoryArtifacts) Load(path string) (*ModelState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.states[path]
	if !ok {
		return nil, errors.New("artifact not found")
	}
	return s, nil
}

func (a *memoryArtifacts) Exists(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.states[path]
	return ok
}

// marketplaceFixture returns a store with users u1..u3 and products p1..p8.
func marketplaceFixture() *mockStore {
	m := newMockStore()
	m.users = []string{"u1", "u2", "u3"}
	m.products = []Product{
		{ID: "p1", Name: "Red Leather Boots", Category: "Shoes", Brand: "Acme", Gender: "Women", Price: 1200, WishlistCount: 9},
		{ID: "p2", Name: "Red Leather Ankle Boots", Category: "Shoes", Brand: "Acme", Gender: "Women", Price: 1400, WishlistCount: 4},
		{ID: "p3", Name: "Blue Cotton Shirt", Category: "Tops", Brand: "Basic", Gender: "Men", Price: 250, WishlistCount: 7},
		{ID: "p4", Name: "Green Wool Scarf", Category: "Accessories", Brand: "Knit", Price: 90, WishlistCount: 1},
		{ID: "p5", Name: "Black Denim Jacket", Category: "Outerwear", Brand: "Basic", Gender: "Unisex", Price: 2100, WishlistCount: 12},
		{ID: "p6", Name: "Gold Hoop Earrings", Category: "Jewelry", Brand: "Shine", Gender: "Women", Price: 4200, WishlistCount: 3},
		{ID: "p7", Name: "White Canvas Sneakers", Category: "Shoes", Brand: "Run", Gender: "Unisex", Price: 700, WishlistCount: 7},
		{ID: "p8", Name: "Grey Running Shorts", Category: "Bottoms", Brand: "Run", Gender: "Men", WishlistCount: 0},
	}
	m.views = []ViewCount{
		{UserID: "u1", ItemID: "p3", Count: 4},
		{UserID: "u2", ItemID: "p5", Count: 60},
	}
	m.wishlists = []WishlistEntry{
		{UserID: "u2", ItemID: "p6"},
	}
	m.swipes = []Swipe{
		{UserID: "u1", ItemID: "p1", Signal: SignalSwipeLike},
		{UserID: "u1", ItemID: "p4", Signal: SignalSwipeDislike},
		{UserID: "u2", ItemID: "p7", Signal: SignalSwipeCart},
		{UserID: "u3", ItemID: "p8", Signal: SignalSwipeLike},
	}
	return m
}
