// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/swiperec/internal/recommend"
)

// maxWriteRetries bounds retries of writes that hit a transaction conflict.
const maxWriteRetries = 3

// User is a marketplace account.
type User struct {
	ID     string
	Name   string
	Status string // ACTIVE users are trained on
}

// RecordInteraction persists a new signal. Views increment the (user, product)
// counter, wishlist adds create a wishlist item and bump the product's
// wishlist_count, swipes insert an event row.
func (db *DB) RecordInteraction(ctx context.Context, userID, itemID string, signal recommend.SignalType) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert_"+signal.String(), "interactions", time.Now(), &err)

	if err := db.checkParticipants(ctx, userID, itemID); err != nil {
		return err
	}

	switch signal {
	case recommend.SignalView:
		return db.withRetry(ctx, func() error { return db.incrementView(ctx, userID, itemID) })
	case recommend.SignalWishlist:
		return db.withRetry(ctx, func() error { return db.addWishlistItem(ctx, userID, itemID) })
	case recommend.SignalSwipeLike, recommend.SignalSwipeDislike, recommend.SignalSwipeCart:
		return db.insertSwipe(ctx, userID, itemID, signal)
	default:
		return fmt.Errorf("%w: %d", recommend.ErrUnknownSignal, signal)
	}
}

func (db *DB) checkParticipants(ctx context.Context, userID, itemID string) error {
	ok, err := db.exists(ctx, `SELECT 1 FROM users WHERE user_guid = ?`, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	where, args := liveProducts().AddClause("product_guid = ?", itemID).BuildWithPrefix()
	ok, err = db.exists(ctx, `SELECT 1 FROM products `+where, args...)
	if err != nil {
		return fmt.Errorf("lookup product: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, itemID)
	}
	return nil
}

func (db *DB) incrementView(ctx context.Context, userID, itemID string) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE view_counts SET "count" = "count" + 1 WHERE user_id = ? AND product_id = ?`,
		userID, itemID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO view_counts (id, user_id, product_id, "count") VALUES (?, ?, ?, 1)`,
		uuid.NewString(), userID, itemID); err != nil {
		return fmt.Errorf("insert view count: %w", err)
	}
	return nil
}

func (db *DB) addWishlistItem(ctx context.Context, userID, itemID string) (err error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wishlist transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // the original error is returned
		}
	}()

	wishlistID, err := getOrCreateWishlist(ctx, tx, userID)
	if err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM wishlist_items WHERE wishlist_id = ? AND product_id = ? AND deleted_time IS NULL`,
		wishlistID, itemID).Scan(&one)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrAlreadyWishlisted, itemID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("lookup wishlist item: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wishlist_items (id, wishlist_id, product_id) VALUES (?, ?, ?)`,
		uuid.NewString(), wishlistID, itemID); err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE products SET wishlist_count = wishlist_count + 1 WHERE product_guid = ?`, itemID); err != nil {
		return fmt.Errorf("increment wishlist count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit wishlist transaction: %w", err)
	}
	return nil
}

// getOrCreateWishlist returns the user's live wishlist, creating one if needed.
func getOrCreateWishlist(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT wishlist_guid FROM wishlists WHERE user_guid = ? AND deleted_time IS NULL ORDER BY wishlist_guid LIMIT 1`,
		userID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup wishlist: %w", err)
	}

	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO wishlists (wishlist_guid, user_guid) VALUES (?, ?)`, id, userID); err != nil {
		return "", fmt.Errorf("create wishlist: %w", err)
	}
	return id, nil
}

func (db *DB) insertSwipe(ctx context.Context, userID, itemID string, signal recommend.SignalType) error {
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO swipes (id, user_guid, product_guid, direction, created_time) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, itemID, signal.String(), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert swipe: %w", err)
	}
	return nil
}

// withRetry retries fn on DuckDB transaction conflicts with exponential backoff.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if !isTransactionConflict(err) {
			return err
		}

		if attempt < maxWriteRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt)) // 1ms, 2ms, 4ms
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// UpsertUser inserts or updates a user.
func (db *DB) UpsertUser(ctx context.Context, u User) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "users", time.Now(), &err)

	status := u.Status
	if status == "" {
		status = "ACTIVE"
	}
	if _, err = db.conn.ExecContext(ctx, `
		INSERT INTO users (user_guid, user_name, status) VALUES (?, ?, ?)
		ON CONFLICT (user_guid) DO UPDATE SET user_name = EXCLUDED.user_name, status = EXCLUDED.status`,
		u.ID, u.Name, status); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpsertProduct inserts or updates an active product. The wishlist counter of
// an existing product is preserved.
func (db *DB) UpsertProduct(ctx context.Context, p recommend.Product) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "products", time.Now(), &err)

	if _, err = db.conn.ExecContext(ctx, `
		INSERT INTO products (product_guid, product_name, description, category_slug, brand, gender, price, active, wishlist_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?)
		ON CONFLICT (product_guid) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			description = EXCLUDED.description,
			category_slug = EXCLUDED.category_slug,
			brand = EXCLUDED.brand,
			gender = EXCLUDED.gender,
			price = EXCLUDED.price,
			active = TRUE`,
		p.ID, p.Name, nullable(p.Description), nullable(p.Category), nullable(p.Brand), nullable(p.Gender),
		p.Price, p.WishlistCount); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// DeactivateProduct hides a product from recommendations without deleting it.
func (db *DB) DeactivateProduct(ctx context.Context, productID string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "products", time.Now(), &err)

	if _, err = db.conn.ExecContext(ctx, `UPDATE products SET active = FALSE WHERE product_guid = ?`, productID); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

// DeleteProduct soft-deletes a product.
func (db *DB) DeleteProduct(ctx context.Context, productID string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "products", time.Now(), &err)

	if _, err = db.conn.ExecContext(ctx,
		`UPDATE products SET deleted_time = ? WHERE product_guid = ?`, time.Now().UTC(), productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
