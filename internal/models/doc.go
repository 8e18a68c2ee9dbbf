// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package models defines the HTTP response envelope shared by all API handlers.

Domain types (products, signals, recommendations, model status) live in
package recommend; this package only wraps them for the wire:

	respondJSON(w, http.StatusOK, models.NewSuccess(resp))

Every response has the same top-level shape, {status, data, metadata, error},
so clients can branch on status without inspecting the HTTP code.
*/
package models
