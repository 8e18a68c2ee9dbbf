// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import "errors"

// Error codes used in API responses.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeUnprocessable      = "UNPROCESSABLE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var (
	// ErrNoModelPath is returned when save/load has no path to work with.
	ErrNoModelPath = errors.New("no model path configured")

	// ErrPathOutsideModelDir is returned for artifact paths outside the
	// configured model directory.
	ErrPathOutsideModelDir = errors.New("model path outside model directory")
)
