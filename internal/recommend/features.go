// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// TagKind is the category half of a feature tag.
type TagKind string

const (
	TagCategory   TagKind = "category"
	TagBrand      TagKind = "brand"
	TagGender     TagKind = "gender"
	TagPriceRange TagKind = "price_range"
	TagActivity   TagKind = "activity"
	TagPreference TagKind = "preference"
)

// Activity buckets.
const (
	ActivityLow    = "low"
	ActivityMedium = "medium"
	ActivityHigh   = "high"
)

// Preference-balance buckets.
const (
	PreferencePositive = "positive"
	PreferenceNegative = "negative"
	PreferenceBalanced = "balanced"
)

// Tag is a categorical feature such as category:shoes.
type Tag struct {
	Kind  TagKind
	Value string
}

// String renders the tag as kind:value.
func (t Tag) String() string {
	return string(t.Kind) + ":" + t.Value
}

// FeatureMatrix is a sparse entity-by-tag matrix over a closed vocabulary.
// Row i holds vocabulary indices for entity index i. It is built once per
// training cycle and never mutated afterwards.
type FeatureMatrix struct {
	Vocabulary []Tag
	Rows       [][]int
}

// NewFeatureMatrix builds a matrix from per-entity tag lists. The vocabulary
// is the sorted set of distinct tags.
func NewFeatureMatrix(rows [][]Tag) *FeatureMatrix {
	seen := make(map[Tag]struct{})
	for _, tags := range rows {
		for _, t := range tags {
			seen[t] = struct{}{}
		}
	}

	vocab := make([]Tag, 0, len(seen))
	for t := range seen {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		return vocab[i].String() < vocab[j].String()
	})

	index := make(map[Tag]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	m := &FeatureMatrix{
		Vocabulary: vocab,
		Rows:       make([][]int, len(rows)),
	}
	for i, tags := range rows {
		row := make([]int, 0, len(tags))
		for _, t := range tags {
			row = append(row, index[t])
		}
		sort.Ints(row)
		m.Rows[i] = row
	}
	return m
}

// NumFeatures returns the vocabulary size. A nil matrix has no features.
func (m *FeatureMatrix) NumFeatures() int {
	if m == nil {
		return 0
	}
	return len(m.Vocabulary)
}

// Row returns the feature indices for entity i.
func (m *FeatureMatrix) Row(i int) []int {
	if m == nil || i < 0 || i >= len(m.Rows) {
		return nil
	}
	return m.Rows[i]
}

// tags returns the tags for entity i.
func (m *FeatureMatrix) tags(i int) []Tag {
	row := m.Row(i)
	tags := make([]Tag, len(row))
	for j, idx := range row {
		tags[j] = m.Vocabulary[idx]
	}
	return tags
}

// FeatureBuilder derives categorical tags for users and items.
type FeatureBuilder struct {
	cfg    FeatureConfig
	store  DataSource
	logger zerolog.Logger
}

// NewFeatureBuilder creates a feature builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFeatureBuilder(cfg FeatureConfig, store DataSource, logger zerolog.Logger) *FeatureBuilder {
	return &FeatureBuilder{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// PriceRange returns the price bracket label for price.
func (b *FeatureBuilder) PriceRange(price float64) string {
	for _, bucket := range b.cfg.PriceBuckets {
		if price < bucket.UpperBound {
			return bucket.Label
		}
	}
	return b.cfg.PriceOverflowLabel
}

// ItemTags returns the tags derivable from a product. Empty attributes and a
// zero price contribute nothing.
func (b *FeatureBuilder) ItemTags(p Product) []Tag {
	var tags []Tag
	if v := normalizeTagValue(p.Category); v != "" {
		tags = append(tags, Tag{Kind: TagCategory, Value: v})
	}
	if v := normalizeTagValue(p.Brand); v != "" {
		tags = append(tags, Tag{Kind: TagBrand, Value: v})
	}
	if v := normalizeTagValue(p.Gender); v != "" {
		tags = append(tags, Tag{Kind: TagGender, Value: v})
	}
	if p.Price > 0 {
		tags = append(tags, Tag{Kind: TagPriceRange, Value: b.PriceRange(p.Price)})
	}
	return tags
}

// BuildItemFeatures returns a matrix whose rows align with itemIDs.
// Items missing from products get an empty row.
func (b *FeatureBuilder) BuildItemFeatures(products []Product, itemIDs []string) *FeatureMatrix {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	rows := make([][]Tag, len(itemIDs))
	for i, id := range itemIDs {
		if p, ok := byID[id]; ok {
			rows[i] = b.ItemTags(p)
		}
	}
	return NewFeatureMatrix(rows)
}

// ActivityLevel buckets a user's total view count.
func (b *FeatureBuilder) ActivityLevel(totalViews int) string {
	switch {
	case totalViews > b.cfg.ActivityHigh:
		return ActivityHigh
	case totalViews > b.cfg.ActivityMedium:
		return ActivityMedium
	default:
		return ActivityLow
	}
}

// PreferenceBalance buckets a user's like share. Users without swipes have
// no balance.
func (b *FeatureBuilder) PreferenceBalance(bal SwipeBalance) (string, bool) {
	total := bal.Likes + bal.Dislikes
	if total == 0 {
		return "", false
	}
	ratio := float64(bal.Likes) / float64(total)
	switch {
	case ratio > b.cfg.PositiveRatio:
		return PreferencePositive, true
	case ratio < b.cfg.NegativeRatio:
		return PreferenceNegative, true
	default:
		return PreferenceBalanced, true
	}
}

// BuildUserFeatures returns a matrix whose rows align with userIDs.
// A failed view-total query yields an empty feature set; a failed swipe
// query degrades to activity-only tags. Neither aborts training.
func (b *FeatureBuilder) BuildUserFeatures(ctx context.Context, userIDs []string) *FeatureMatrix {
	rows := make([][]Tag, len(userIDs))

	totals, err := b.store.UserViewTotals(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("user view totals unavailable, training without user features")
		return NewFeatureMatrix(rows)
	}

	balances, err := b.store.UserSwipeBalances(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("swipe balances unavailable, using activity features only")
		balances = nil
	}

	for i, id := range userIDs {
		tags := []Tag{{Kind: TagActivity, Value: b.ActivityLevel(totals[id])}}
		if bal, ok := balances[id]; ok {
			if v, ok := b.PreferenceBalance(bal); ok {
				tags = append(tags, Tag{Kind: TagPreference, Value: v})
			}
		}
		rows[i] = tags
	}
	return NewFeatureMatrix(rows)
}

func normalizeTagValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
