// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package storage provides model persistence for the recommendation engine.
//
// A model artifact holds the complete trained state: version tag, user and
// item id mappings, feature matrices and fitted parameters. Persisting them
// together means a loaded model can serve requests without retraining.
//
// # Storage Format
//
//	structure:
//	  - Metadata (ModelMetadata, readable without decoding the model)
//	  - CompressedData (gzip-compressed gob-encoded recommend.ModelState)
//
// The SHA-256 checksum of the uncompressed payload is verified on load;
// a mismatch returns ErrChecksumMismatch.
//
// Model parameter types must be registered with encoding/gob by the package
// that defines them; algorithms.Params does this in its init function.
//
// # Usage Example
//
//	store := storage.NewModelStore()
//	if err := store.Save("data/model.bin", state); err != nil {
//	    return err
//	}
//
//	state, err := store.Load("data/model.bin")
//	if err != nil {
//	    return err
//	}
//	if err := state.Validate(); err != nil {
//	    return err
//	}
package storage
