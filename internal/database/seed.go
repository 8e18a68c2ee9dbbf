// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/recommend"
)

// demoProducts is a small fashion catalog spanning every price bracket.
var demoProducts = []recommend.Product{
	{ID: "prod-001", Name: "Trail Runner Sneakers", Description: "Lightweight running sneakers with grippy soles", Category: "shoes", Brand: "stride", Gender: "unisex", Price: 1200},
	{ID: "prod-002", Name: "Classic Leather Sneakers", Description: "White leather sneakers for everyday wear", Category: "shoes", Brand: "stride", Gender: "men", Price: 1400},
	{ID: "prod-003", Name: "Canvas Slip-Ons", Description: "Breathable canvas shoes for summer", Category: "shoes", Brand: "breeze", Gender: "women", Price: 450},
	{ID: "prod-004", Name: "Suede Ankle Boots", Description: "Warm suede boots with a low heel", Category: "shoes", Brand: "atelier", Gender: "women", Price: 2600},
	{ID: "prod-005", Name: "Leather Tote Bag", Description: "Roomy leather tote with inner pockets", Category: "bags", Brand: "atelier", Gender: "women", Price: 3200},
	{ID: "prod-006", Name: "Canvas Backpack", Description: "Durable canvas backpack for daily commute", Category: "bags", Brand: "breeze", Gender: "unisex", Price: 900},
	{ID: "prod-007", Name: "Mini Crossbody Bag", Description: "Compact crossbody bag in soft leather", Category: "bags", Brand: "atelier", Gender: "women", Price: 1800},
	{ID: "prod-008", Name: "Floral Summer Dress", Description: "Light floral dress for warm days", Category: "dresses", Brand: "bloom", Gender: "women", Price: 700},
	{ID: "prod-009", Name: "Linen Midi Dress", Description: "Relaxed linen dress with pockets", Category: "dresses", Brand: "bloom", Gender: "women", Price: 1100},
	{ID: "prod-010", Name: "Steel Chronograph Watch", Description: "Stainless steel watch with chronograph dial", Category: "watches", Brand: "tempo", Gender: "men", Price: 5400},
	{ID: "prod-011", Name: "Minimal Leather Watch", Description: "Slim watch with leather strap", Category: "watches", Brand: "tempo", Gender: "unisex", Price: 2200},
	{ID: "prod-012", Name: "Cotton Crew Socks", Description: "Pack of cotton socks", Category: "accessories", Brand: "stride", Gender: "unisex", Price: 150},
}

var demoUsers = []User{
	{ID: "user-001", Name: "Alice"},
	{ID: "user-002", Name: "Bob"},
	{ID: "user-003", Name: "Chioma"},
	{ID: "user-004", Name: "Dmitri"},
	{ID: "user-005", Name: "Elif"},
	{ID: "user-006", Name: "Farah", Status: "SUSPENDED"},
}

// SeedDemoData seeds a demo catalog, users and interaction history when the
// store has no products. It is a no-op on a populated store.
func (db *DB) SeedDemoData(ctx context.Context) error {
	existing, err := db.ActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("check existing products: %w", err)
	}
	if len(existing) > 0 {
		logging.Debug().Int("products", len(existing)).Msg("Store already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo marketplace data...")

	for _, p := range demoProducts {
		if err := db.UpsertProduct(ctx, p); err != nil {
			return err
		}
	}
	for _, u := range demoUsers {
		if err := db.UpsertUser(ctx, u); err != nil {
			return err
		}
	}

	// Fixed seed so every demo database carries the same history.
	rng := rand.New(rand.NewPCG(2024, 6))
	recorded := 0
	for _, u := range demoUsers {
		for _, p := range demoProducts {
			for _, signal := range demoSignals(rng) {
				err := db.RecordInteraction(ctx, u.ID, p.ID, signal)
				if errors.Is(err, ErrAlreadyWishlisted) {
					continue
				}
				if err != nil {
					return fmt.Errorf("seed %s interaction: %w", signal, err)
				}
				recorded++
			}
		}
	}

	logging.Info().
		Int("products", len(demoProducts)).
		Int("users", len(demoUsers)).
		Int("interactions", recorded).
		Msg("Demo data seeded")
	return nil
}

// demoSignals draws the interactions one user has with one product.
func demoSignals(rng *rand.Rand) []recommend.SignalType {
	var signals []recommend.SignalType
	for range rng.IntN(4) {
		signals = append(signals, recommend.SignalView)
	}
	switch r := rng.Float64(); {
	case r < 0.25:
		signals = append(signals, recommend.SignalSwipeLike)
	case r < 0.35:
		signals = append(signals, recommend.SignalSwipeCart)
	case r < 0.55:
		signals = append(signals, recommend.SignalSwipeDislike)
	}
	if rng.Float64() < 0.1 {
		signals = append(signals, recommend.SignalWishlist)
	}
	return signals
}
