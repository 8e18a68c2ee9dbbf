// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package validation validates HTTP request structs with
// go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so validating the same request type repeatedly is cheap.
//
// Field names in messages come from json tags, so a failure on
//
//	type InteractionRequest struct {
//	    UserID string `json:"user_id" validate:"opaqueid"`
//	    Signal string `json:"signal" validate:"required,oneof=view wishlist like dislike cart"`
//	}
//
// reads "user_id must be a non-empty id ..." rather than naming the Go field.
//
// # Custom Tags
//
//   - opaqueid: a user or product id. Non-empty, at most MaxIDLength bytes,
//     no whitespace or control characters.
//
// # Errors
//
// ValidateStruct returns *RequestValidationError, which converts to the
// VALIDATION_ERROR API payload with ToAPIError. A single failure carries
// field/tag/value details; several failures are listed under "fields".
package validation
