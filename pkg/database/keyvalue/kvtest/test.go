// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package kvtest is a conformance suite for keyvalue drivers. The fixtures
// mirror the key families the node actually stores, a Proposal family with
// numbered records and a Registry family with named records.
package kvtest

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/record"
)

type Opener = func() (keyvalue.Beginner, error)

type closableDb struct {
	keyvalue.Beginner
	t      testing.TB
	closed bool
}

func (c *closableDb) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if d, ok := c.Beginner.(io.Closer); ok {
		require.NoError(c.t, d.Close())
	}
}

func openDb(t testing.TB, open Opener) *closableDb {
	db, err := open()
	require.NoError(t, err)
	c := &closableDb{db, t, false}
	t.Cleanup(c.Close)
	return c
}

func proposalKey(i int) *record.Key {
	return record.NewKey("Proposal", i)
}

func proposalValue(i int) []byte {
	return []byte(fmt.Sprintf("proposal %d: enable conversion", i))
}

// seedProposals writes n proposal records and returns the expected contents,
// keyed by key hash.
func seedProposals(t testing.TB, cs keyvalue.Store, n int) map[record.KeyHash][]byte {
	t.Helper()
	expect := map[record.KeyHash][]byte{}
	for i := 0; i < n; i++ {
		key, value := proposalKey(i), proposalValue(i)
		expect[key.Hash()] = value
		require.NoError(t, cs.Put(key, value), "Put")
	}
	return expect
}

func requireMissing(t testing.TB, cs keyvalue.Store, key *record.Key) {
	t.Helper()
	_, err := cs.Get(key)
	require.ErrorIs(t, err, errors.NotFound)
	require.ErrorAs(t, err, new(*database.NotFoundError))
}

// TestSuite runs the conformance suite against a driver.
func TestSuite(t *testing.T, open Opener) {
	t.Run("Database", func(t *testing.T) { TestDatabase(t, open) })
	t.Run("Isolation", func(t *testing.T) { TestIsolation(t, open) })
	t.Run("SubBatch", func(t *testing.T) { TestSubBatch(t, open) })
	t.Run("Prefix", func(t *testing.T) { TestPrefix(t, open) })
	t.Run("Delete", func(t *testing.T) { TestDelete(t, open) })
}

// TestDatabase verifies writes survive a commit and a reopen, and that
// ForEach visits every record exactly once.
func TestDatabase(t *testing.T, open Opener) {
	const N = 1000

	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()

	// Nothing exists yet
	requireMissing(t, batch, proposalKey(0))

	expect := seedProposals(t, batch, N)
	require.NoError(t, batch.Commit())

	// Read back through a new batch
	batch = db.Begin(nil, false)
	defer batch.Discard()
	for i := 0; i < N; i++ {
		val, err := batch.Get(proposalKey(i))
		require.NoError(t, err, "Get")
		require.Equal(t, proposalValue(i), val)
	}
	batch.Discard()

	// Read back through a fresh instance
	db.Close()
	db = openDb(t, open)

	batch = db.Begin(nil, false)
	defer batch.Discard()
	for i := 0; i < N; i++ {
		val, err := batch.Get(proposalKey(i))
		require.NoError(t, err, "Get")
		require.Equal(t, proposalValue(i), val)
	}

	// Every record is visited exactly once
	require.NoError(t, batch.ForEach(func(key *record.Key, value []byte) error {
		want, ok := expect[key.Hash()]
		require.Truef(t, ok, "%v should exist", key)
		require.Equalf(t, want, value, "%v should match", key)
		delete(expect, key.Hash())
		return nil
	}))
	require.Empty(t, expect, "All records should be iterated over")
}

// TestIsolation verifies a batch does not observe writes committed after it
// began.
func TestIsolation(t *testing.T, open Opener) {
	db := openDb(t, open)

	key := record.NewKey("Registry", "Pairing", "core/native/MRD")
	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(key, []byte("fa/native")), "Put")
	require.NoError(t, batch.Commit())

	b1 := db.Begin(nil, true)
	defer b1.Discard()
	b2 := db.Begin(nil, false)
	defer b2.Discard()

	// Delete and commit through batch 1
	require.NoError(t, b1.Delete(key))
	require.NoError(t, b1.Commit())

	// Batch 2 still sees the value
	v, err := b2.Get(key)
	require.NoError(t, err, "Get")
	require.Equal(t, []byte("fa/native"), v)

	// A new batch does not
	batch = db.Begin(nil, true)
	defer batch.Discard()
	requireMissing(t, batch, key)
}

// TestSubBatch verifies sub-batch writes are staged into the parent.
func TestSubBatch(t *testing.T, open Opener) {
	const N = 1000

	db := openDb(t, open)

	batch := db.Begin(nil, true)
	defer batch.Discard()
	sub := batch.Begin(nil, true)
	defer sub.Discard()

	seedProposals(t, sub, N)
	require.NoError(t, sub.Commit())

	// A second sub-batch sees the staged writes without any commit of the
	// parent
	sub = batch.Begin(nil, true)
	defer sub.Discard()
	for i := 0; i < N; i++ {
		val, err := sub.Get(proposalKey(i))
		require.NoError(t, err, "Get")
		require.Equal(t, proposalValue(i), val)
	}
}

// TestPrefix verifies a prefixed batch reads and writes under its prefix.
func TestPrefix(t *testing.T, open Opener) {
	db := openDb(t, open)

	key := record.NewKey("Pairing", "core/native/MRD")
	batch := db.Begin(record.NewKey("Registry"), true)
	defer batch.Discard()
	require.NoError(t, batch.Put(key, []byte("fa/native")))
	require.NoError(t, batch.Commit())

	batch = db.Begin(record.NewKey("Registry"), true)
	defer batch.Discard()
	v, err := batch.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("fa/native"), v)
}

// TestDelete verifies a delete is visible within its batch and survives a
// reopen.
func TestDelete(t *testing.T, open Opener) {
	db := openDb(t, open)

	key := record.NewKey("Registry", "Map")
	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(key, []byte("map")))
	require.NoError(t, batch.Commit())

	batch = db.Begin(nil, false)
	defer batch.Discard()
	v, err := batch.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("map"), v)
	batch.Discard()

	batch = db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Delete(key))

	// Not found within the same batch
	requireMissing(t, batch, key)

	require.NoError(t, batch.Commit())
	db.Close()
	db = openDb(t, open)

	// Not found after a reopen
	batch = db.Begin(nil, false)
	defer batch.Discard()
	requireMissing(t, batch, key)
}
