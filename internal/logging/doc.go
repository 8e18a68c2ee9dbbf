// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package logging provides zerolog-based structured logging for swiperec.
//
// A global logger is configured once at startup from the LOG_* settings and
// used everywhere through package-level helpers:
//
//	logging.Init(cfg.LoggingSettings())
//
//	logging.Info().Int("users", n).Msg("Model trained")
//	logging.Warn().Err(err).Str("backend", "redis").Msg("Cache unavailable")
//
// Every line carries "service":"swiperec". HTTP handlers attach the request ID
// and acting user to the context, and Ctx picks them up:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	ctx = logging.ContextWithUserID(ctx, userID)
//	logging.Ctx(ctx).Info().Msg("Recommendations served")
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include file:line (default: false)
//
// # slog
//
// SlogHandler bridges log/slog onto zerolog for libraries that only accept a
// *slog.Logger, such as the sutureslog event hook of the supervisor tree.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
