// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

// Request structs validated with go-playground/validator before the handler
// touches the engine. Field names in error messages follow the json tags.

// maxProductLookup bounds GET /products?ids=.
const maxProductLookup = 100

// RecommendationsRequest is GET /recommendations/{userID}?count=N.
// Count 0 means the engine default; counts above the engine maximum are
// clamped by the engine.
type RecommendationsRequest struct {
	UserID string `json:"user_id" validate:"opaqueid"`
	Count  int    `json:"count" validate:"gte=0,lte=1000"`
}

// InteractionRequest is the body of POST /interactions.
type InteractionRequest struct {
	UserID    string `json:"user_id" validate:"opaqueid"`
	ProductID string `json:"product_id" validate:"opaqueid"`
	Signal    string `json:"signal" validate:"required,oneof=view wishlist like dislike cart"`
}

// ProductsRequest is GET /products?ids=a,b,c.
type ProductsRequest struct {
	IDs []string `json:"ids" validate:"min=1,max=100,dive,opaqueid"`
}

// ModelPathRequest is the optional body of POST /model/save and /model/load.
type ModelPathRequest struct {
	Path string `json:"path" validate:"omitempty,max=4096"`
}
