// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by an embedded Badger database. Expiry is
// enforced by Badger's native entry TTL.
type Badger struct {
	db     *badger.DB
	ownsDB bool
}

// NewBadger opens a Badger database at path. An empty path runs in memory.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for cache: %w", err)
	}
	return &Badger{db: db, ownsDB: true}, nil
}

// NewBadgerFromDB wraps an already-open database. Close leaves it open.
func NewBadgerFromDB(db *badger.DB) *Badger {
	return &Badger{db: db}
}

// Name returns the backend name.
func (b *Badger) Name() string { return string(BackendBadger) }

// Get returns the value for key, mapping badger.ErrKeyNotFound to ErrMiss.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMiss
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores value with a native TTL. A non-positive ttl never expires.
func (b *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes key.
func (b *Badger) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	})
}

// Ping reports whether the database is open.
func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// gcDiscardRatio is the fraction of stale data a value log file needs before
// it is rewritten.
const gcDiscardRatio = 0.5

// Maintain runs one round of value log garbage collection, reclaiming space
// held by expired recommendation entries. Nothing to rewrite is not an error.
func (b *Badger) Maintain(context.Context) error {
	err := b.db.RunValueLogGC(gcDiscardRatio)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return fmt.Errorf("badger value log gc: %w", err)
}

// Close closes the database if this store opened it.
func (b *Badger) Close() error {
	if !b.ownsDB {
		return nil
	}
	return b.db.Close()
}
