// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/swiperec/internal/database"
	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/models"
	"github.com/tomtom215/swiperec/internal/recommend"
)

// Recommendations handles GET /api/v1/recommendations/{userID}?count=N.
// Unknown users get the popularity ranking, never a 404.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	count, err := getIntParam(r, "count", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := RecommendationsRequest{
		UserID: chi.URLParam(r, "userID"),
		Count:  count,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), req.UserID)
	ctx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.engine.GetRecommendations(ctx, req.UserID, req.Count)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to generate recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   resp.Metadata.Timestamp,
			RequestID:   requestIDOf(r),
			QueryTimeMS: resp.Metadata.LatencyMS,
			Cached:      resp.Metadata.CacheHit,
		},
	})
}

// InteractionResponse acknowledges a recorded interaction.
type InteractionResponse struct {
	UserID             string `json:"user_id"`
	ProductID          string `json:"product_id"`
	Signal             string `json:"signal"`
	SwipesSinceRetrain int64  `json:"swipes_since_retrain"`
	RetrainInProgress  bool   `json:"retrain_in_progress"`
}

// RecordInteraction handles POST /api/v1/interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	signal, err := recommend.ParseSignalType(req.Signal)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), req.UserID)
	ctx, cancel := h.requestContext(ctx)
	defer cancel()

	err = h.engine.RecordInteraction(ctx, req.UserID, req.ProductID, signal)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrUnknownUser):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown user", nil)
		return
	case errors.Is(err, database.ErrUnknownProduct):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown or inactive product", nil)
		return
	case errors.Is(err, database.ErrAlreadyWishlisted):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Product is already in the wishlist", nil)
		return
	case errors.Is(err, recommend.ErrUnknownSignal):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to record interaction", err)
		return
	}

	status := h.engine.Status()
	respondStatus(w, r, http.StatusCreated, InteractionResponse{
		UserID:             req.UserID,
		ProductID:          req.ProductID,
		Signal:             signal.String(),
		SwipesSinceRetrain: status.SwipesSinceRetrain,
		RetrainInProgress:  status.RetrainInProgress,
	})
}

// Products handles GET /api/v1/products?ids=a,b,c. Unknown, inactive and
// deleted ids are omitted; results are ordered by id.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	req := ProductsRequest{IDs: parseCommaSeparated(r.URL.Query().Get("ids"))}
	if req.IDs == nil {
		req.IDs = []string{}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	products, err := h.catalog.ProductsByIDs(ctx, req.IDs)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to load products", err)
		return
	}
	if products == nil {
		products = []recommend.Product{}
	}

	respondSuccess(w, r, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}
