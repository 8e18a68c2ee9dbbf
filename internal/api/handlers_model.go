// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/recommend"
	"github.com/tomtom215/swiperec/internal/recommend/storage"
)

// ModelArtifactResponse is returned by save and load.
type ModelArtifactResponse struct {
	Path   string           `json:"path"`
	Status recommend.Status `json:"status"`
}

// ModelStatusResponse is the engine status plus the stored artifact's
// metadata when one exists at the configured model path.
type ModelStatusResponse struct {
	recommend.Status
	Artifact *storage.ModelMetadata `json:"artifact,omitempty"`
}

// ModelStatus handles GET /api/v1/model/status.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	resp := ModelStatusResponse{Status: h.engine.Status()}
	if h.config.Artifacts != nil && h.config.ModelPath != "" {
		meta, err := h.config.Artifacts.Metadata(h.config.ModelPath)
		switch {
		case err == nil:
			resp.Artifact = meta
		case !errors.Is(err, fs.ErrNotExist):
			logging.Ctx(r.Context()).Warn().Err(err).Str("path", h.config.ModelPath).Msg("Stored model metadata unreadable")
		}
	}
	respondSuccess(w, r, resp)
}

// TrainModel handles POST /api/v1/model/train. With ?async=true the run is
// scheduled in the background and the call returns 202.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("async") == "true" {
		if !h.engine.ScheduleRetrain(recommend.TriggerManual) {
			respondError(w, r, http.StatusConflict, ErrCodeConflict, "Training already in progress", nil)
			return
		}
		respondStatus(w, r, http.StatusAccepted, h.engine.Status())
		return
	}

	// Training outlives a dropped client connection.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.config.TrainTimeout)
	defer cancel()

	err := h.engine.TrainWithTrigger(ctx, recommend.TriggerManual)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Training already in progress", nil)
		return
	case errors.Is(err, recommend.ErrInsufficientData):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error(), err)
		return
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Training failed, previous model kept", err)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Manual retrain complete")
	respondSuccess(w, r, h.engine.Status())
}

// SaveModel handles POST /api/v1/model/save with an optional {"path"} body.
func (h *Handler) SaveModel(w http.ResponseWriter, r *http.Request) {
	path, ok := h.modelPathFromBody(w, r)
	if !ok {
		return
	}

	err := h.engine.SaveModel(path)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrNotTrained):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "No trained model to save", nil)
		return
	case errors.Is(err, recommend.ErrNoArtifactStore):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Model storage is not configured", nil)
		return
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to save model", err)
		return
	}

	respondSuccess(w, r, ModelArtifactResponse{Path: path, Status: h.engine.Status()})
}

// LoadModel handles POST /api/v1/model/load with an optional {"path"} body.
// A failed load leaves the live model unchanged.
func (h *Handler) LoadModel(w http.ResponseWriter, r *http.Request) {
	path, ok := h.modelPathFromBody(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	err := h.engine.LoadModel(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Model artifact not found", nil)
		return
	case errors.Is(err, recommend.ErrInvalidArtifact), errors.Is(err, storage.ErrChecksumMismatch):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeUnprocessable, "Model artifact is corrupt", err)
		return
	case errors.Is(err, recommend.ErrNoArtifactStore):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Model storage is not configured", nil)
		return
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load model", err)
		return
	}

	respondSuccess(w, r, ModelArtifactResponse{Path: path, Status: h.engine.Status()})
}

// modelPathFromBody decodes and resolves the optional path. It writes the
// error response and returns false on failure.
func (h *Handler) modelPathFromBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ModelPathRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return "", false
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return "", false
	}

	path, err := h.resolveModelPath(req.Path)
	switch {
	case err == nil:
		return path, true
	case errors.Is(err, ErrNoModelPath):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "No model path configured", nil)
	default:
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "path must stay inside the model directory", nil)
	}
	return "", false
}
