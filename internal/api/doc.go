// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package api exposes the recommendation engine over HTTP using the chi router.

# Endpoints

	GET  /api/v1/health/live                      process is up
	GET  /api/v1/health/ready                     store reachable (503 otherwise)
	GET  /api/v1/recommendations/{userID}?count=N ranked products for a user
	POST /api/v1/interactions                     record view/wishlist/like/dislike/cart
	GET  /api/v1/products?ids=a,b,c               live products among the ids
	GET  /api/v1/model/status                     model lifecycle snapshot
	POST /api/v1/model/train[?async=true]         retrain now
	POST /api/v1/model/save                       write the artifact, optional {"path"}
	POST /api/v1/model/load                       replace the live model, optional {"path"}
	GET  /metrics                                 Prometheus exposition

Recommendation requests always succeed with a possibly empty list; training
and cache failures degrade inside the engine and never reach the client.

# Response Format

Every JSON response uses models.APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}
	{"status": "error", "data": null, "error": {"code": "NOT_FOUND", "message": "..."}, "metadata": {...}}

# Middleware

Global: request id, real IP, panic recovery, access log, CORS.
Under /api/v1: per-IP rate limit (httprate), body size limit, security
headers, Prometheus request metrics and gzip compression.

# Model Artifact Paths

Save and load accept an optional path. Relative paths resolve against the
directory of the configured model path, and paths that escape it are
rejected.
*/
package api
