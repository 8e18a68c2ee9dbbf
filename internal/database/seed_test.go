// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package database

import (
	"context"
	"testing"
)

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}

	products, err := db.ActiveProducts(ctx)
	if err != nil {
		t.Fatalf("ActiveProducts() error = %v", err)
	}
	if len(products) != len(demoProducts) {
		t.Errorf("products = %d, want %d", len(products), len(demoProducts))
	}

	users, err := db.ActiveUserIDs(ctx)
	if err != nil {
		t.Fatalf("ActiveUserIDs() error = %v", err)
	}
	if len(users) != len(demoUsers)-1 {
		t.Errorf("active users = %d, want %d (one suspended)", len(users), len(demoUsers)-1)
	}

	swipes, err := db.Swipes(ctx)
	if err != nil {
		t.Fatalf("Swipes() error = %v", err)
	}
	if len(swipes) == 0 {
		t.Error("expected seeded swipes")
	}

	// A second call leaves the populated store untouched.
	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("second SeedDemoData() error = %v", err)
	}
	again, err := db.Swipes(ctx)
	if err != nil {
		t.Fatalf("Swipes() error = %v", err)
	}
	if len(again) != len(swipes) {
		t.Errorf("swipes after reseed = %d, want %d", len(again), len(swipes))
	}
}
