// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package bolt

import (
	"bytes"
	"log/slog"

	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/memory"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/record"
	bolt "go.etcd.io/bbolt"
)

// recordFamilies are the key families this store is laid out around. Each
// family gets its own bucket, created at open so reads never race bucket
// creation. Keys outside these families land in buckets created on demand.
var recordFamilies = []string{"Proposal", "Registry"}

// Database is a Bolt-backed key-value store. Keys are stored as the binary
// encoding of everything after the family part, so the store supports
// iteration.
type Database struct {
	bolt *bolt.DB
}

func Open(filepath string) (*Database, error) {
	db, err := bolt.Open(filepath, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range recordFamilies {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Database{bolt: db}, nil
}

func (d *Database) Close() error {
	return d.bolt.Close()
}

// emptySub marks a key with no parts beyond the family name. Bolt rejects
// empty keys, and part tags start at 1, so a lone zero byte is unambiguous.
var emptySub = []byte{0}

// split separates a key into its family (the bucket name) and the binary
// encoding of the rest (the subkey).
func split(key *record.Key) (family string, sub []byte, err error) {
	if key.Len() == 0 {
		return "", nil, errors.InternalError.With("empty key")
	}

	family, ok := key.Get(0).(string)
	if !ok {
		return "", nil, errors.InternalError.WithFormat("key %v does not start with a family name", key)
	}

	sub, err = key.SliceI(1).MarshalBinary()
	if err != nil {
		return "", nil, errors.InternalError.WithFormat("encode key %v: %w", key, err)
	}
	if len(sub) == 0 {
		sub = emptySub
	}
	return family, sub, nil
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	// Reads go through a single read-only transaction held for the life of
	// the change set
	rd, err := d.bolt.Begin(false)

	get := func(key *database.Key) ([]byte, error) {
		return d.get(rd, err, key)
	}

	forEach := func(fn func(*database.Key, []byte) error) error {
		return d.forEach(rd, fn)
	}

	discard := func() {
		_ = rd.Rollback()
	}

	var commit memory.CommitFunc
	if writable {
		commit = func(entries map[[32]byte]memory.Entry) error {
			return d.commit(rd, entries)
		}
	}

	// The memory changeset stages writes so Get observes Put within the
	// change set
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: forEach,
		Discard: discard,
	})
}

func (d *Database) get(txn *bolt.Tx, err error, key *database.Key) ([]byte, error) {
	if err != nil {
		return nil, err
	}

	family, sub, err := split(key)
	if err != nil {
		return nil, err
	}

	b := txn.Bucket([]byte(family))
	if b == nil {
		return nil, (*database.NotFoundError)(key)
	}

	v := b.Get(sub)
	if v == nil {
		return nil, (*database.NotFoundError)(key)
	}

	// The slice is only valid for the life of the transaction
	u := make([]byte, len(v))
	copy(u, v)
	return u, nil
}

func (d *Database) commit(rd *bolt.Tx, entries map[[32]byte]memory.Entry) error {
	// Release the read transaction so the write transaction can proceed
	_ = rd.Rollback()

	// Group entries by family so each bucket is resolved once
	families := map[string][]struct {
		sub   []byte
		entry memory.Entry
	}{}
	for _, e := range entries {
		family, sub, err := split(e.Key)
		if err != nil {
			return err
		}
		families[family] = append(families[family], struct {
			sub   []byte
			entry memory.Entry
		}{sub, e})
	}

	return d.bolt.Update(func(tx *bolt.Tx) error {
		for family, entries := range families {
			b, err := tx.CreateBucketIfNotExists([]byte(family))
			if err != nil {
				return err
			}

			for _, e := range entries {
				if e.entry.Delete {
					err = b.Delete(e.sub)
				} else {
					err = b.Put(e.sub, e.entry.Value)
				}
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (d *Database) forEach(txn *bolt.Tx, fn func(*database.Key, []byte) error) error {
	return txn.ForEach(func(name []byte, b *bolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			if bytes.Equal(k, emptySub) {
				k = nil
			}
			sub := new(record.Key)
			if err := sub.UnmarshalBinary(k); err != nil {
				slog.Error("Cannot decode database key", "family", string(name), "key", logging.AsHex(k), "error", err)
				return errors.InternalError.WithFormat("decode key: %w", err)
			}

			u := make([]byte, len(v))
			copy(u, v)

			return fn(record.NewKey(string(name)).AppendKey(sub), u)
		})
	})
}
