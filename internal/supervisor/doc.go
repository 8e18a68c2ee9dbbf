// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

/*
Package supervisor runs the long-lived parts of the service under a suture v4
supervision tree.

	swiperec (root)
	├── model-layer
	│   ├── retrain-service        startup load/train, periodic retrain
	│   └── cache-maintenance      Badger value log GC (badger backend only)
	└── api-layer
	    └── http-server

A service returning an error is restarted with backoff; repeated failures put
its layer into FailureBackoff without touching the other layer. Supervisor
events are logged through sutureslog and the zerolog slog bridge:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddModelService(services.NewRetrainService(engine, retrainCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
