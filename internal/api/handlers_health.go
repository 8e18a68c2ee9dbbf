// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/swiperec/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probes. It reports 200 while the process runs,
// regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probes. The service is ready when the store
// answers; an untrained model is not a readiness failure because requests
// fall back to popularity.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbConnected := h.catalog != nil && h.catalog.Ping(ctx) == nil
	status := h.engine.Status()

	health := models.HealthStatus{
		Status:            "ready",
		Version:           Version,
		DatabaseConnected: dbConnected,
		ModelTrained:      status.Trained,
		ModelVersion:      status.ModelVersion,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	code := http.StatusOK
	if !dbConnected {
		health.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	resp := models.NewSuccess(health)
	if !dbConnected {
		resp.Status = models.StatusError
		resp.Error = &models.APIError{Code: ErrCodeServiceUnavailable, Message: "Database is not reachable"}
	}
	resp.Metadata.RequestID = requestIDOf(r)
	respondJSON(w, code, resp)
}
