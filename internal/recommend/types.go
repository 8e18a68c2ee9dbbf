// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SignalType classifies a recorded user-item interaction.
type SignalType int

const (
	// SignalView is a product detail view. Views are counted per (user, item).
	SignalView SignalType = iota
	// SignalWishlist is a wishlist add.
	SignalWishlist
	// SignalSwipeLike is a right swipe.
	SignalSwipeLike
	// SignalSwipeCart is a swipe that adds the item to the cart.
	SignalSwipeCart
	// SignalSwipeDislike is a left swipe.
	SignalSwipeDislike
)

// String returns the wire name of the signal.
func (s SignalType) String() string {
	switch s {
	case SignalView:
		return "view"
	case SignalWishlist:
		return "wishlist"
	case SignalSwipeLike:
		return "like"
	case SignalSwipeCart:
		return "cart"
	case SignalSwipeDislike:
		return "dislike"
	default:
		return "unknown"
	}
}

// IsSwipe reports whether the signal comes from the swipe deck.
// Only swipe signals advance the retrain counter.
func (s SignalType) IsSwipe() bool {
	return s == SignalSwipeLike || s == SignalSwipeCart || s == SignalSwipeDislike
}

// ParseSignalType converts a wire name into a SignalType.
func ParseSignalType(name string) (SignalType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "view":
		return SignalView, nil
	case "wishlist":
		return SignalWishlist, nil
	case "like":
		return SignalSwipeLike, nil
	case "cart":
		return SignalSwipeCart, nil
	case "dislike":
		return SignalSwipeDislike, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
	}
}

// Interaction is one weighted training tuple. The aggregator emits one tuple
// per (user, item, signal) occurrence; tuples are never merged across signals.
type Interaction struct {
	UserID string     `json:"user_id"`
	ItemID string     `json:"item_id"`
	Signal SignalType `json:"signal"`
	Weight float64    `json:"weight"`
}

// Product is an active, non-deleted catalog item.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	Price         float64 `json:"price"`
	WishlistCount int     `json:"-"`
}

// ViewCount is the accumulated view counter for a (user, item) pair.
type ViewCount struct {
	UserID string
	ItemID string
	Count  int
}

// WishlistEntry is a live wishlist item.
type WishlistEntry struct {
	UserID string
	ItemID string
}

// Swipe is a directional swipe event. Signal is one of the swipe signals.
type Swipe struct {
	UserID string
	ItemID string
	Signal SignalType
}

// SwipeBalance counts a user's likes and dislikes.
// Cart swipes count as likes.
type SwipeBalance struct {
	Likes    int
	Dislikes int
}

// Source names the strategy that contributed a recommendation.
type Source string

const (
	SourceContent       Source = "content"
	SourceCollaborative Source = "collaborative"
	SourceRandom        Source = "random"
	SourcePopular       Source = "popular"
)

// Recommendation is one ranked entry returned to callers.
type Recommendation struct {
	Product
	Score  float64 `json:"score"`
	Source Source  `json:"source"`
}

// Strategy describes which path produced a response.
type Strategy string

const (
	// StrategyHybrid is the quota blend of content, collaborative and random.
	StrategyHybrid Strategy = "hybrid"
	// StrategyPopular is the cold-start popularity ranking.
	StrategyPopular Strategy = "popular"
)

// Response is the result of GetRecommendations.
type Response struct {
	UserID   string           `json:"user_id"`
	Items    []Recommendation `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains information about how a response was produced.
type ResponseMetadata struct {
	RequestID    string    `json:"request_id,omitempty"`
	Strategy     Strategy  `json:"strategy"`
	CacheHit     bool      `json:"cache_hit"`
	ModelVersion string    `json:"model_version,omitempty"`
	LatencyMS    int64     `json:"latency_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// Status reports the engine's model lifecycle state.
type Status struct {
	Trained            bool      `json:"trained"`
	ModelVersion       string    `json:"model_version,omitempty"`
	TrainedAt          time.Time `json:"trained_at,omitempty"`
	NumUsers           int       `json:"num_users"`
	NumItems           int       `json:"num_items"`
	NumInteractions    int       `json:"num_interactions"`
	ContentItems       int       `json:"content_items"`
	ContentTerms       int       `json:"content_terms"`
	SwipesSinceRetrain int64     `json:"swipes_since_retrain"`
	RetrainInProgress  bool      `json:"retrain_in_progress"`
	LastError          string    `json:"last_error,omitempty"`
	LastTrainingMS     int64     `json:"last_training_ms,omitempty"`
}

// DataSource is the relational store the engine reads signals and catalog
// data from. Implementations apply their own timeouts.
type DataSource interface {
	// ActiveUserIDs returns ids of users whose status is active.
	ActiveUserIDs(ctx context.Context) ([]string, error)

	// ActiveProducts returns active, non-deleted products.
	ActiveProducts(ctx context.Context) ([]Product, error)

	// ViewCounts returns all per-(user, item) view counters.
	ViewCounts(ctx context.Context) ([]ViewCount, error)

	// WishlistEntries returns all live wishlist items.
	WishlistEntries(ctx context.Context) ([]WishlistEntry, error)

	// Swipes returns all swipe events.
	Swipes(ctx context.Context) ([]Swipe, error)

	// UserViewTotals returns the summed view count per user.
	UserViewTotals(ctx context.Context) (map[string]int, error)

	// UserSwipeBalances returns like/dislike counts per user.
	UserSwipeBalances(ctx context.Context) (map[string]SwipeBalance, error)

	// InteractedItems returns every item the user viewed, wishlisted or swiped.
	InteractedItems(ctx context.Context, userID string) (map[string]struct{}, error)

	// LikedItems returns items the user liked, carted or wishlisted.
	LikedItems(ctx context.Context, userID string) ([]string, error)

	// PopularProducts returns active products ordered by wishlist count.
	PopularProducts(ctx context.Context, limit int) ([]Product, error)

	// RecordInteraction persists a new signal.
	RecordInteraction(ctx context.Context, userID, itemID string, signal SignalType) error
}
