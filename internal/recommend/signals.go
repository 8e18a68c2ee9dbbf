// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SignalAggregator turns raw interaction events into weighted training tuples.
type SignalAggregator struct {
	weights SignalWeights
	store   DataSource
	logger  zerolog.Logger
}

// NewSignalAggregator creates a signal aggregator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSignalAggregator(weights SignalWeights, store DataSource, logger zerolog.Logger) *SignalAggregator {
	return &SignalAggregator{
		weights: weights,
		store:   store,
		logger:  logger,
	}
}

// ViewWeight returns the training weight of a view counter.
func (a *SignalAggregator) ViewWeight(count int) float64 {
	scaled := float64(count) / a.weights.ViewDivisor
	return math.Min(scaled, a.weights.ViewCap) + a.weights.ViewBase
}

// SwipeWeight returns the training weight of a swipe signal.
func (a *SignalAggregator) SwipeWeight(signal SignalType) float64 {
	switch signal {
	case SignalSwipeLike:
		return a.weights.Like
	case SignalSwipeCart:
		return a.weights.Cart
	case SignalSwipeDislike:
		return a.weights.Dislike
	default:
		return 0
	}
}

// Aggregate reads every signal class concurrently and returns one tuple per
// event. Tuples whose user or item is outside the given universes are
// dropped. A failing signal class is logged and skipped.
func (a *SignalAggregator) Aggregate(ctx context.Context, users, items map[string]int) []Interaction {
	var views, wishlists, swipes []Interaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.store.ViewCounts(gctx)
		if err != nil {
			a.logger.Warn().Err(err).Str("signal", SignalView.String()).Msg("skipping signal source")
			return nil
		}
		for _, r := range rows {
			if !known(users, items, r.UserID, r.ItemID) {
				continue
			}
			views = append(views, Interaction{
				UserID: r.UserID,
				ItemID: r.ItemID,
				Signal: SignalView,
				Weight: a.ViewWeight(r.Count),
			})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.WishlistEntries(gctx)
		if err != nil {
			a.logger.Warn().Err(err).Str("signal", SignalWishlist.String()).Msg("skipping signal source")
			return nil
		}
		for _, r := range rows {
			if !known(users, items, r.UserID, r.ItemID) {
				continue
			}
			wishlists = append(wishlists, Interaction{
				UserID: r.UserID,
				ItemID: r.ItemID,
				Signal: SignalWishlist,
				Weight: a.weights.Wishlist,
			})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.Swipes(gctx)
		if err != nil {
			a.logger.Warn().Err(err).Str("signal", "swipe").Msg("skipping signal source")
			return nil
		}
		for _, r := range rows {
			if !r.Signal.IsSwipe() || !known(users, items, r.UserID, r.ItemID) {
				continue
			}
			swipes = append(swipes, Interaction{
				UserID: r.UserID,
				ItemID: r.ItemID,
				Signal: r.Signal,
				Weight: a.SwipeWeight(r.Signal),
			})
		}
		return nil
	})
	// Goroutines swallow their own errors.
	_ = g.Wait() //nolint:errcheck // always nil

	out := make([]Interaction, 0, len(views)+len(wishlists)+len(swipes))
	out = append(out, views...)
	out = append(out, wishlists...)
	out = append(out, swipes...)

	a.logger.Debug().
		Int("views", len(views)).
		Int("wishlists", len(wishlists)).
		Int("swipes", len(swipes)).
		Msg("aggregated interaction signals")

	return out
}

func known(users, items map[string]int, userID, itemID string) bool {
	if _, ok := users[userID]; !ok {
		return false
	}
	_, ok := items[itemID]
	return ok
}
