// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/swiperec/internal/recommend"
)

// ErrChecksumMismatch is returned when an artifact's payload does not match
// the checksum recorded when it was written.
var ErrChecksumMismatch = errors.New("model artifact checksum mismatch")

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Version is the model version tag, e.g. "2.0.0".
	Version string `json:"version"`

	// Algorithm is the collaborative model name, e.g. "warp".
	Algorithm string `json:"algorithm"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// InteractionCount is the number of interactions used for training.
	InteractionCount int `json:"interaction_count"`

	// ItemCount is the number of items in the model universe.
	ItemCount int `json:"item_count"`

	// UserCount is the number of users in the model universe.
	UserCount int `json:"user_count"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// ModelStore persists trained model state as gzip-compressed gob with a
// checksum. Writes go to a temporary file that is renamed into place, so a
// crash mid-write never leaves a truncated artifact at the target path.
type ModelStore struct {
	mu sync.RWMutex
}

// NewModelStore creates a model store.
func NewModelStore() *ModelStore {
	return &ModelStore{}
}

// Save writes state to path, creating parent directories as needed.
func (s *ModelStore) Save(path string, state *recommend.ModelState) error {
	if !state.IsTrained() {
		return recommend.ErrNotTrained
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	sf := storedFile{
		Metadata: ModelMetadata{
			Version:          state.Version,
			Algorithm:        state.Algorithm,
			TrainedAt:        state.TrainedAt,
			SavedAt:          time.Now().UTC(),
			InteractionCount: state.NumInteractions,
			ItemCount:        len(state.ItemIDs),
			UserCount:        len(state.UserIDs),
			Checksum:         hex.EncodeToString(hash[:]),
			SizeBytes:        int64(compressed.Len()),
		},
		CompressedData: compressed.Bytes(),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install model file: %w", err)
	}
	return nil
}

// Load reads the model state at path and verifies its checksum.
// The caller is responsible for validating the decoded state.
func (s *ModelStore) Load(path string) (*recommend.ModelState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := readStoredFile(path)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	var state recommend.ModelState
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &state, nil
}

// Exists reports whether an artifact file is present at path.
func (s *ModelStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Metadata returns the metadata of the artifact at path without decoding
// the model payload.
func (s *ModelStore) Metadata(path string) (*ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := readStoredFile(path)
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

var _ recommend.ArtifactStore = (*ModelStore)(nil)
