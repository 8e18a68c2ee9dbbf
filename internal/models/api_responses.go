// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every HTTP endpoint returns.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "u-1", "items": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-02T12:00:00Z",
//	    "request_id": "5b8e...",
//	    "query_time_ms": 12
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "signal must be one of: view wishlist like dislike cart",
//	    "details": {"field": "signal"}
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
//
// Cached is true when a recommendation list came from the result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes in use:
//   - VALIDATION_ERROR: malformed or out-of-range input
//   - NOT_FOUND: unknown user, product or model artifact
//   - CONFLICT: duplicate wishlist add, training already running
//   - UNPROCESSABLE: not enough data to train, corrupt artifact
//   - SERVICE_UNAVAILABLE: a required collaborator is not configured or reachable
//   - RATE_LIMIT_EXCEEDED: per-IP request limit hit
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness probe.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	ModelTrained      bool    `json:"model_trained"`
	ModelVersion      string  `json:"model_version,omitempty"`
	Uptime            float64 `json:"uptime_seconds"`
}

// NewSuccess wraps data in a success envelope stamped with the current time.
func NewSuccess(data interface{}) *APIResponse {
	return &APIResponse{
		Status:   StatusSuccess,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	}
}

// NewError builds an error envelope.
func NewError(code, message string, details map[string]interface{}) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
