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

	"github.com/tomtom215/swiperec/internal/database/query"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/metrics"
	"github.com/tomtom215/swiperec/internal/recommend"
)

// productColumns selects a recommend.Product row.
const productColumns = `product_guid, product_name, COALESCE(description, ''),
	COALESCE(category_slug, ''), COALESCE(brand, ''), COALESCE(gender, ''),
	COALESCE(price, 0), wishlist_count`

// liveProducts returns a filter for active, non-deleted products.
func liveProducts() *query.WhereBuilder {
	return query.NewWhereBuilder().AddClause("active AND deleted_time IS NULL")
}

// observe records query duration and errors. It is deferred with a pointer
// to the caller's named error result.
func observe(operation, table string, start time.Time, errp *error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), *errp)
}

// ActiveUserIDs returns ids of users whose status is ACTIVE.
func (db *DB) ActiveUserIDs(ctx context.Context) (ids []string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT user_guid FROM users WHERE status = 'ACTIVE' ORDER BY user_guid`)
	if err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}

// ActiveProducts returns active, non-deleted products ordered by id.
func (db *DB) ActiveProducts(ctx context.Context) (products []recommend.Product, err error) {
	defer observe("select", "products", time.Now(), &err)

	where, args := liveProducts().BuildWithPrefix()
	return db.queryProducts(ctx, `SELECT `+productColumns+` FROM products `+where+` ORDER BY product_guid`, args...)
}

// PopularProducts returns active products ordered by wishlist count, ties by id.
func (db *DB) PopularProducts(ctx context.Context, limit int) (products []recommend.Product, err error) {
	defer observe("select_popular", "products", time.Now(), &err)

	if limit <= 0 {
		return []recommend.Product{}, nil
	}
	where, args := liveProducts().BuildWithPrefix()
	args = append(args, limit)
	return db.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products `+where+` ORDER BY wishlist_count DESC, product_guid LIMIT ?`,
		args...)
}

// ProductsByIDs returns details of the live products among ids, ordered by id.
// Unknown or inactive ids are omitted.
func (db *DB) ProductsByIDs(ctx context.Context, ids []string) (products []recommend.Product, err error) {
	defer observe("select_by_id", "products", time.Now(), &err)

	wb := liveProducts().AddIn("product_guid", ids)
	if wb.MatchesNothing() {
		return []recommend.Product{}, nil
	}
	where, args := wb.BuildWithPrefix()
	return db.queryProducts(ctx, `SELECT `+productColumns+` FROM products `+where+` ORDER BY product_guid`, args...)
}

func (db *DB) queryProducts(ctx context.Context, q string, args ...any) ([]recommend.Product, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeWithLog(rows, "rows")

	products := []recommend.Product{}
	for rows.Next() {
		var p recommend.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Brand, &p.Gender, &p.Price, &p.WishlistCount); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// ViewCounts returns all per-(user, product) view counters.
func (db *DB) ViewCounts(ctx context.Context) (out []recommend.ViewCount, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "view_counts", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT user_id, product_id, "count" FROM view_counts ORDER BY user_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("query view counts: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var v recommend.ViewCount
		if err := rows.Scan(&v.UserID, &v.ItemID, &v.Count); err != nil {
			return nil, fmt.Errorf("scan view count: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view counts: %w", err)
	}
	return out, nil
}

// WishlistEntries returns live items of live wishlists.
func (db *DB) WishlistEntries(ctx context.Context) (out []recommend.WishlistEntry, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "wishlist_items", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT w.user_guid, wi.product_id
		FROM wishlist_items wi
		JOIN wishlists w ON wi.wishlist_id = w.wishlist_guid
		WHERE wi.deleted_time IS NULL AND w.deleted_time IS NULL
		ORDER BY w.user_guid, wi.product_id`)
	if err != nil {
		return nil, fmt.Errorf("query wishlist entries: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var e recommend.WishlistEntry
		if err := rows.Scan(&e.UserID, &e.ItemID); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist entries: %w", err)
	}
	return out, nil
}

// Swipes returns all swipe events in arrival order.
func (db *DB) Swipes(ctx context.Context) (out []recommend.Swipe, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "swipes", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `SELECT user_guid, product_guid, direction FROM swipes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query swipes: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			s         recommend.Swipe
			direction string
		)
		if err := rows.Scan(&s.UserID, &s.ItemID, &direction); err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		signal, perr := recommend.ParseSignalType(direction)
		if perr != nil || !signal.IsSwipe() {
			logging.Warn().Str("direction", direction).Msg("Skipping swipe with unknown direction")
			continue
		}
		s.Signal = signal
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swipes: %w", err)
	}
	return out, nil
}

// UserViewTotals returns the summed view count per user.
func (db *DB) UserViewTotals(ctx context.Context) (totals map[string]int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("aggregate", "view_counts", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, CAST(SUM("count") AS BIGINT) FROM view_counts GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query view totals: %w", err)
	}
	defer closeWithLog(rows, "rows")

	totals = make(map[string]int)
	for rows.Next() {
		var (
			userID string
			total  int64
		)
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("scan view total: %w", err)
		}
		totals[userID] = int(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view totals: %w", err)
	}
	return totals, nil
}

// UserSwipeBalances returns like and dislike counts per user. Cart swipes count as likes.
func (db *DB) UserSwipeBalances(ctx context.Context) (balances map[string]recommend.SwipeBalance, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("aggregate", "swipes", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_guid,
			COUNT(*) FILTER (WHERE direction IN ('like', 'cart')),
			COUNT(*) FILTER (WHERE direction = 'dislike')
		FROM swipes
		GROUP BY user_guid`)
	if err != nil {
		return nil, fmt.Errorf("query swipe balances: %w", err)
	}
	defer closeWithLog(rows, "rows")

	balances = make(map[string]recommend.SwipeBalance)
	for rows.Next() {
		var (
			userID          string
			likes, dislikes int64
		)
		if err := rows.Scan(&userID, &likes, &dislikes); err != nil {
			return nil, fmt.Errorf("scan swipe balance: %w", err)
		}
		balances[userID] = recommend.SwipeBalance{Likes: int(likes), Dislikes: int(dislikes)}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swipe balances: %w", err)
	}
	return balances, nil
}

// InteractedItems returns every product the user viewed, wishlisted or swiped.
func (db *DB) InteractedItems(ctx context.Context, userID string) (items map[string]struct{}, err error) {
	defer observe("select_interacted", "interactions", time.Now(), &err)

	ids, err := db.queryIDs(ctx, `
		SELECT product_id FROM view_counts WHERE user_id = ?
		UNION
		SELECT wi.product_id FROM wishlist_items wi
		JOIN wishlists w ON wi.wishlist_id = w.wishlist_guid
		WHERE w.user_guid = ? AND wi.deleted_time IS NULL AND w.deleted_time IS NULL
		UNION
		SELECT product_guid FROM swipes WHERE user_guid = ?`,
		userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query interacted items: %w", err)
	}

	items = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		items[id] = struct{}{}
	}
	return items, nil
}

// LikedItems returns products the user swiped like or cart on, or wishlisted.
func (db *DB) LikedItems(ctx context.Context, userID string) (ids []string, err error) {
	defer observe("select_liked", "interactions", time.Now(), &err)

	ids, err = db.queryIDs(ctx, `
		SELECT product_guid AS item FROM swipes WHERE user_guid = ? AND direction IN ('like', 'cart')
		UNION
		SELECT wi.product_id AS item FROM wishlist_items wi
		JOIN wishlists w ON wi.wishlist_id = w.wishlist_guid
		WHERE w.user_guid = ? AND wi.deleted_time IS NULL AND w.deleted_time IS NULL
		ORDER BY item`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked items: %w", err)
	}
	return ids, nil
}

func (db *DB) queryIDs(ctx context.Context, q string, args ...any) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// exists reports whether q returns a row.
func (db *DB) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ recommend.DataSource = (*DB)(nil)
