// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package middleware provides the HTTP middleware shared by every route.

All middleware uses chi's func(http.Handler) http.Handler shape:

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context, so engine log lines carry the same id.
  - PrometheusMetrics: api_requests_total, api_request_duration_seconds and
    api_active_requests, labelled by chi route pattern.
  - AccessLog: one zerolog line per request.

Rate limiting, CORS and panic recovery come from go-chi/httprate, go-chi/cors
and chi's own middleware package; see package api for the assembled stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

RequestID must run first so later middleware and handlers see the id.
*/
package middleware
