// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package services adapts swiperec components to suture.Service.

  - RetrainService: startup InitializeModel (load the stored artifact or
    train and save) and the periodic full retrain
  - CacheMaintenanceService: periodic cache.Maintainer housekeeping
  - HTTPServerService: *http.Server with graceful shutdown

Every service returns ctx.Err() on cancellation and implements fmt.Stringer
so supervisor events name it.
*/
package services
