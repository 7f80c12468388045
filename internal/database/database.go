// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"io"

	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/memory"
)

// Database wraps a key-value store with typed accessors for governance and
// registry records.
type Database struct {
	store  keyvalue.Beginner
	logger logging.Logger
}

func New(store keyvalue.Beginner, logger logging.Logger) *Database {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &Database{store: store, logger: logger.With("module", "database")}
}

// OpenInMemory opens an in-memory database, for tests and one-shot tooling.
func OpenInMemory(logger logging.Logger) *Database {
	return New(memory.New(nil), logger)
}

// Begin begins a batch. Batches must be committed or discarded.
func (d *Database) Begin(writable bool) *Batch {
	return &Batch{kv: d.store.Begin(nil, writable), logger: d.logger}
}

// Close closes the underlying store, if it can be closed.
func (d *Database) Close() error {
	if c, ok := d.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// View runs the function with a read-only batch.
func (d *Database) View(fn func(*Batch) error) error {
	batch := d.Begin(false)
	defer batch.Discard()
	return fn(batch)
}

// Update runs the function with a writable batch and commits if the
// function succeeds.
func (d *Database) Update(fn func(*Batch) error) error {
	batch := d.Begin(true)
	defer batch.Discard()
	err := fn(batch)
	if err != nil {
		return err
	}
	return batch.Commit()
}
