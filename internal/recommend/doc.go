// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package recommend implements a hybrid recommendation engine for swipe-based
// marketplaces.
//
// # Architecture
//
// Each response is a quota blend of three strategies:
//
//   - Content similarity: TF-IDF cosine against the centroid of liked items (4)
//   - Collaborative: a latent-factor model with user and item features (3)
//   - Exploration: uniform random sampling of the eligible catalog (3)
//
// Items the user already viewed, wishlisted or swiped are never returned.
// Users the model has not seen, and every request made before the first
// successful training, get a wishlist-count popularity ranking instead.
//
// # Training
//
// Training reads view counters, wishlist entries and swipes, weights them by
// trust (cart 4.0, wishlist 3.0, like 2.5, views 1.0 to 3.0, dislike 0.1) and
// fits the collaborative model supplied to NewEngine. A retrain is scheduled
// in the background every RetrainThreshold swipes. Only one training run is
// active at a time; a failed run leaves the previous model live.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, store, algorithms.NewWARP(), logger,
//	    recommend.WithCache(redisStore),
//	    recommend.WithArtifactStore(storage.NewModelStore()),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := engine.InitializeModel(ctx, "data/model.bin", false); err != nil {
//	    logger.Warn().Err(err).Msg("starting without a trained model")
//	}
//
//	resp, err := engine.GetRecommendations(ctx, userID, 10)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Requests read an immutable serving
// bundle through an atomic pointer; a retrain builds a complete replacement
// and swaps it in, so readers never observe a partially trained model.
package recommend
