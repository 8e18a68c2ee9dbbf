// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swiperec/internal/logging"
	"github.com/tomtom215/swiperec/internal/models"
	"github.com/tomtom215/swiperec/internal/validation"
)

// respondJSON writes the envelope with the given status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a 200 success envelope stamped with the request id.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondStatus(w, r, http.StatusOK, data)
}

func respondStatus(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	resp := models.NewSuccess(data)
	resp.Metadata.RequestID = requestIDOf(r)
	respondJSON(w, status, resp)
}

// respondError writes an error envelope. err, when set, is logged with the
// request's context fields and never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Err(err).Str("code", code).Str("path", r.URL.Path).Msg("API error")
	}

	resp := models.NewError(code, message, nil)
	resp.Metadata.RequestID = requestIDOf(r)
	respondJSON(w, status, resp)
}

// respondValidation writes a 400 VALIDATION_ERROR with field details.
func respondValidation(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	resp := models.NewError(apiErr.Code, apiErr.Message, apiErr.Details)
	resp.Metadata.RequestID = requestIDOf(r)
	respondJSON(w, http.StatusBadRequest, resp)
}

func requestIDOf(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSONBody decodes a JSON object into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSONBody(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return errors.New("request body is required")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// getIntParam parses an integer query parameter. Missing values return the
// default; malformed values return an error.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// parseCommaSeparated splits a comma-separated list, dropping blanks and
// duplicates while keeping first-seen order.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// resolveModelPath returns the artifact path for a save or load. Empty
// requests use the configured path; relative requests resolve against its
// directory.
func (h *Handler) resolveModelPath(requested string) (string, error) {
	if h.config.ModelPath == "" {
		return "", ErrNoModelPath
	}
	if requested == "" {
		return h.config.ModelPath, nil
	}

	path := requested
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.modelDir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(h.modelDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathOutsideModelDir
	}
	return path, nil
}
