// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swiperec/internal/recommend"
	"github.com/tomtom215/swiperec/internal/recommend/algorithms"
)

// swipeStore is a read-only store holding active users, products and swipes.
type swipeStore struct {
	users    []string
	products []recommend.Product
	swipes   []recommend.Swipe
}

func (s *swipeStore) ActiveUserIDs(context.Context) ([]string, error) { return s.users, nil }

func (s *swipeStore) ActiveProducts(context.Context) ([]recommend.Product, error) {
	return append([]recommend.Product(nil), s.products...), nil
}

func (s *swipeStore) ViewCounts(context.Context) ([]recommend.ViewCount, error) { return nil, nil }

func (s *swipeStore) WishlistEntries(context.Context) ([]recommend.WishlistEntry, error) {
	return nil, nil
}

func (s *swipeStore) Swipes(context.Context) ([]recommend.Swipe, error) { return s.swipes, nil }

func (s *swipeStore) UserViewTotals(context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func (s *swipeStore) UserSwipeBalances(context.Context) (map[string]recommend.SwipeBalance, error) {
	out := make(map[string]recommend.SwipeBalance)
	for _, sw := range s.swipes {
		b := out[sw.UserID]
		if sw.Signal == recommend.SignalSwipeDislike {
			b.Dislikes++
		} else {
			b.Likes++
		}
		out[sw.UserID] = b
	}
	return out, nil
}

func (s *swipeStore) InteractedItems(_ context.Context, userID string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, sw := range s.swipes {
		if sw.UserID == userID {
			out[sw.ItemID] = struct{}{}
		}
	}
	return out, nil
}

func (s *swipeStore) LikedItems(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, sw := range s.swipes {
		if sw.UserID == userID && sw.Signal != recommend.SignalSwipeDislike {
			out = append(out, sw.ItemID)
		}
	}
	return out, nil
}

func (s *swipeStore) PopularProducts(_ context.Context, limit int) ([]recommend.Product, error) {
	if limit > len(s.products) {
		limit = len(s.products)
	}
	return append([]recommend.Product(nil), s.products[:limit]...), nil
}

func (s *swipeStore) RecordInteraction(context.Context, string, string, recommend.SignalType) error {
	return nil
}

func TestEngine_TwoByTwoRecommendsOnlyTheOtherItem(t *testing.T) {
	t.Parallel()

	store := &swipeStore{
		users: []string{"a", "b"},
		products: []recommend.Product{
			{ID: "x", Name: "linen shirt", Category: "tops"},
			{ID: "y", Name: "suede loafers", Category: "shoes"},
		},
		swipes: []recommend.Swipe{
			{UserID: "a", ItemID: "x", Signal: recommend.SignalSwipeLike},
			{UserID: "b", ItemID: "y", Signal: recommend.SignalSwipeLike},
		},
	}

	e, err := recommend.NewEngine(nil, store, algorithms.NewWARP(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	t.Cleanup(e.Close)

	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error: %v", err)
	}

	tests := []struct {
		user  string
		other string
	}{
		{user: "a", other: "y"},
		{user: "b", other: "x"},
	}
	for _, tt := range tests {
		resp, err := e.GetRecommendations(context.Background(), tt.user, 10)
		if err != nil {
			t.Fatalf("GetRecommendations(%s) error: %v", tt.user, err)
		}
		if len(resp.Items) > 1 {
			t.Errorf("user %s got %d items, want at most 1", tt.user, len(resp.Items))
		}
		for _, it := range resp.Items {
			if it.ID != tt.other {
				t.Errorf("user %s got %s, want only %s", tt.user, it.ID, tt.other)
			}
		}
	}
}
