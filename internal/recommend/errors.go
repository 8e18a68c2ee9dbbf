// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import "errors"

var (
	// ErrInsufficientData is returned when fewer than the configured minimum
	// users or items are available. The previously trained state stays live.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrNotTrained is returned when an operation requires a trained model.
	ErrNotTrained = errors.New("model is not trained")

	// ErrTrainingInProgress is returned when a training run is already active.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInvalidArtifact is returned when a loaded model state is missing
	// required fields.
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrUnknownSignal is returned for unrecognized signal names.
	ErrUnknownSignal = errors.New("unknown signal type")

	// ErrNoArtifactStore is returned by save/load when no store is configured.
	ErrNoArtifactStore = errors.New("no model store configured")
)
