// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/swiperec/internal/logging"
)

var (
	// ErrUnknownUser is returned when an interaction names a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownProduct is returned when an interaction names a product that
	// does not exist or is no longer active.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrAlreadyWishlisted is returned when a product is already on the user's wishlist.
	ErrAlreadyWishlisted = errors.New("product already in wishlist")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() //nolint:errcheck // cleanup is best-effort
	}
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "Conflict on tuple deletion")
}
