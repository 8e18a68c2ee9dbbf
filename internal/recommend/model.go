// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"context"
	"fmt"
	"time"
)

// IndexedInteraction is a training tuple in model index space.
type IndexedInteraction struct {
	User   int
	Item   int
	Weight float64
}

// TrainingData is the input of a collaborative fit.
type TrainingData struct {
	NumUsers     int
	NumItems     int
	Interactions []IndexedInteraction
	UserFeatures *FeatureMatrix
	ItemFeatures *FeatureMatrix
}

// CollaborativeModel fits latent-factor parameters from weighted interactions.
// Fit must be reproducible for fixed Hyperparams.Seed.
type CollaborativeModel interface {
	// Name returns the algorithm identifier.
	Name() string

	// Fit trains new parameters. The returned ModelParams must not share
	// mutable state with the receiver.
	Fit(ctx context.Context, data *TrainingData, hp Hyperparams) (ModelParams, error)
}

// ModelParams are fitted, immutable model parameters.
// Implementations must be registered with encoding/gob for persistence.
type ModelParams interface {
	// Predict returns one score per entry in items. Higher is better.
	Predict(user int, items []int, userFeatures, itemFeatures *FeatureMatrix) []float64
}

// ModelState is the complete trained bundle. It is never mutated after
// construction; a retrain builds a new ModelState and swaps the pointer.
type ModelState struct {
	Version   string
	Trained   bool
	TrainedAt time.Time
	Algorithm string

	UserIDs   []string
	ItemIDs   []string
	UserIndex map[string]int
	ItemIndex map[string]int

	UserFeatures *FeatureMatrix
	ItemFeatures *FeatureMatrix

	Params ModelParams

	NumInteractions int
}

// NewModelState builds a trained state and its reverse indices.
func NewModelState(version, algorithm string, userIDs, itemIDs []string, userFeatures, itemFeatures *FeatureMatrix, params ModelParams, numInteractions int) *ModelState {
	return &ModelState{
		Version:         version,
		Trained:         true,
		TrainedAt:       time.Now().UTC(),
		Algorithm:       algorithm,
		UserIDs:         userIDs,
		ItemIDs:         itemIDs,
		UserIndex:       indexOf(userIDs),
		ItemIndex:       indexOf(itemIDs),
		UserFeatures:    userFeatures,
		ItemFeatures:    itemFeatures,
		Params:          params,
		NumInteractions: numInteractions,
	}
}

// Validate checks that every required field is present and consistent and
// that the state is marked trained. It does not modify the state.
//
//nolint:gocyclo // validation needs to check many fields
func (s *ModelState) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidArtifact)
	}
	if !s.Trained {
		return fmt.Errorf("%w: state is not marked trained", ErrInvalidArtifact)
	}
	if s.Params == nil {
		return fmt.Errorf("%w: missing model parameters", ErrInvalidArtifact)
	}
	if len(s.UserIDs) == 0 || s.UserIndex == nil {
		return fmt.Errorf("%w: missing user id mapping", ErrInvalidArtifact)
	}
	if len(s.ItemIDs) == 0 || s.ItemIndex == nil {
		return fmt.Errorf("%w: missing item id mapping", ErrInvalidArtifact)
	}
	if len(s.UserIndex) != len(s.UserIDs) {
		return fmt.Errorf("%w: user mapping size mismatch (%d ids, %d index entries)",
			ErrInvalidArtifact, len(s.UserIDs), len(s.UserIndex))
	}
	if len(s.ItemIndex) != len(s.ItemIDs) {
		return fmt.Errorf("%w: item mapping size mismatch (%d ids, %d index entries)",
			ErrInvalidArtifact, len(s.ItemIDs), len(s.ItemIndex))
	}
	for id, idx := range s.UserIndex {
		if idx < 0 || idx >= len(s.UserIDs) || s.UserIDs[idx] != id {
			return fmt.Errorf("%w: user index for %q is inconsistent", ErrInvalidArtifact, id)
		}
	}
	for id, idx := range s.ItemIndex {
		if idx < 0 || idx >= len(s.ItemIDs) || s.ItemIDs[idx] != id {
			return fmt.Errorf("%w: item index for %q is inconsistent", ErrInvalidArtifact, id)
		}
	}
	if s.UserFeatures != nil && len(s.UserFeatures.Rows) != len(s.UserIDs) {
		return fmt.Errorf("%w: user feature rows do not match user count", ErrInvalidArtifact)
	}
	if s.ItemFeatures != nil && len(s.ItemFeatures.Rows) != len(s.ItemIDs) {
		return fmt.Errorf("%w: item feature rows do not match item count", ErrInvalidArtifact)
	}
	return nil
}

// IsTrained reports whether the state can serve predictions.
func (s *ModelState) IsTrained() bool {
	return s != nil && s.Trained && s.Params != nil
}

// KnowsUser reports whether the user is in the model's id universe.
func (s *ModelState) KnowsUser(userID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.UserIndex[userID]
	return ok
}

// ScoreAll scores every item in the model's universe for a user. Scores are
// returned in item-index order. Unknown users yield nil.
func (s *ModelState) ScoreAll(userID string) []float64 {
	if !s.IsTrained() {
		return nil
	}
	u, ok := s.UserIndex[userID]
	if !ok {
		return nil
	}
	items := make([]int, len(s.ItemIDs))
	for i := range items {
		items[i] = i
	}
	return s.Params.Predict(u, items, s.UserFeatures, s.ItemFeatures)
}

func indexOf(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
