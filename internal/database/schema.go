// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
schema.go - Database Schema Management

Tables:
  - users: marketplace accounts; only status = 'ACTIVE' users are trained on
  - products: catalog with attributes and the denormalized wishlist_count
  - view_counts: one accumulated counter per (user, product)
  - wishlists / wishlist_items: per-user wishlist and its soft-deletable entries
  - swipes: directional swipe events (like, dislike, cart), ordered by a
    sequence so events recorded in the same microsecond keep arrival order

Foreign keys are omitted: DuckDB enforces them on every update of the parent
row, which would block wishlist_count increments on wishlisted products.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates lookup indexes for per-user queries
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_guid TEXT PRIMARY KEY,
		user_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		product_guid TEXT PRIMARY KEY,
		product_name TEXT NOT NULL DEFAULT '',
		description TEXT,
		category_slug TEXT,
		brand TEXT,
		gender TEXT,
		price DOUBLE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		deleted_time TIMESTAMP,
		wishlist_count INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS view_counts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		"count" INTEGER NOT NULL DEFAULT 0,
		UNIQUE (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS wishlists (
		wishlist_guid TEXT PRIMARY KEY,
		user_guid TEXT NOT NULL,
		deleted_time TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS wishlist_items (
		id TEXT PRIMARY KEY,
		wishlist_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		deleted_time TIMESTAMP
	)`,

	`CREATE SEQUENCE IF NOT EXISTS swipes_seq START 1`,

	`CREATE TABLE IF NOT EXISTS swipes (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL DEFAULT nextval('swipes_seq'),
		user_guid TEXT NOT NULL,
		product_guid TEXT NOT NULL,
		direction TEXT NOT NULL CHECK (direction IN ('like', 'dislike', 'cart')),
		created_time TIMESTAMP NOT NULL
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_wishlists_user ON wishlists(user_guid)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_items_wishlist ON wishlist_items(wishlist_id)`,
	`CREATE INDEX IF NOT EXISTS idx_swipes_user ON swipes(user_guid)`,
}
