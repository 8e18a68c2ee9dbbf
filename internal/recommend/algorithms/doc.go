// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package algorithms implements collaborative models for the hybrid engine.
//
// Factorization is a feature-aware matrix factorization: every user and item
// is the sum of an identity embedding and one embedding per categorical tag
// (category, brand, gender, price range for items; activity and preference
// balance for users). It trains with WARP loss by default, or BPR.
//
// Fit is single-threaded and reproducible for a fixed seed. The returned
// Params are immutable and safe for concurrent Predict calls; they are
// registered with encoding/gob so model artifacts can persist them.
package algorithms
