// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/kvtest"
	bolt "go.etcd.io/bbolt"
)

func open(t *testing.T) kvtest.Opener {
	dir := t.TempDir()
	return func() (keyvalue.Beginner, error) {
		return Open(filepath.Join(dir, "bolt.db"))
	}
}

func TestDatabase(t *testing.T) {
	kvtest.TestDatabase(t, open(t))
}

func TestIsolation(t *testing.T) {
	t.Skip("Deadlocks due to database locks")
	kvtest.TestIsolation(t, open(t))
}

func TestSubBatch(t *testing.T) {
	kvtest.TestSubBatch(t, open(t))
}

func TestPrefix(t *testing.T) {
	kvtest.TestPrefix(t, open(t))
}

func TestDelete(t *testing.T) {
	kvtest.TestDelete(t, open(t))
}

// TestBucketLayout verifies that keys are laid out as one bucket per family
// with binary-encoded subkeys, and that the record families exist from the
// moment the file is created.
func TestBucketLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bolt.db")
	db, err := Open(path)
	require.NoError(t, err)

	batch := db.Begin(nil, true)
	defer batch.Discard()
	require.NoError(t, batch.Put(database.NewKey("Proposal", 1), []byte("a")))
	require.NoError(t, batch.Put(database.NewKey("Registry", "Pairing", "core/native/MRD"), []byte("b")))
	require.NoError(t, batch.Commit())
	require.NoError(t, db.Close())

	raw, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer func() { _ = raw.Close() }()

	require.NoError(t, raw.View(func(tx *bolt.Tx) error {
		for _, family := range []string{"Proposal", "Registry"} {
			require.NotNil(t, tx.Bucket([]byte(family)), family)
		}

		sub, err := database.NewKey(1).MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, []byte("a"), tx.Bucket([]byte("Proposal")).Get(sub))

		sub, err = database.NewKey("Pairing", "core/native/MRD").MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, []byte("b"), tx.Bucket([]byte("Registry")).Get(sub))
		return nil
	}))
}
