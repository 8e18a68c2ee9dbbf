// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package database provides the DuckDB-backed interaction store.

The store holds the marketplace catalog, its users and every recorded
interaction signal (views, wishlist adds and swipes). *DB implements
recommend.DataSource, so the recommendation engine reads its training
snapshot and serving-time lookups through it.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	err = db.RecordInteraction(ctx, "user-1", "prod-9", recommend.SignalSwipeLike)

# Semantics

  - Products are live when active and not soft-deleted. Only live products
    are trained on, returned, or accept new interactions.
  - Views accumulate one counter per (user, product).
  - A repeated wishlist add returns ErrAlreadyWishlisted and does not bump
    the product's wishlist_count.
  - Swipes are ordered by an insert sequence, not by timestamp.

# Thread Safety

All methods are safe for concurrent use. Read-modify-write sequences are
serialized by an internal mutex and retried on DuckDB transaction conflicts.

Every call without a context deadline gets a 30 second timeout, and every
query is recorded in the DuckDB query metrics.
*/
package database
