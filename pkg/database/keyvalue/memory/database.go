// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package memory

import (
	"sync"

	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
)

// Database is an in-memory key-value store. Commits replace the entry map
// wholesale, so open change sets keep reading the snapshot they began with.
type Database struct {
	mu      sync.RWMutex
	entries map[[32]byte]Entry
	prefix  *database.Key
}

var _ keyvalue.Beginner = (*Database)(nil)

func New(prefix *database.Key) *Database {
	return &Database{prefix: prefix, entries: map[[32]byte]Entry{}}
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	d.mu.RLock()
	snapshot := d.entries
	d.mu.RUnlock()

	get := func(key *database.Key) ([]byte, error) {
		key = d.prefix.AppendKey(key)
		entry, ok := snapshot[key.Hash()]
		if !ok {
			return nil, (*database.NotFoundError)(key)
		}
		return entry.Value, nil
	}

	var commit CommitFunc
	if writable {
		commit = d.commit
	}

	forEach := func(fn func(*database.Key, []byte) error) error {
		for _, e := range snapshot {
			err := fn(e.Key, e.Value)
			if err != nil {
				return err
			}
		}
		return nil
	}

	return NewChangeSet(ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: forEach,
	})
}

// Export exports the database as a set of entries. Export is not safe to use
// concurrently with commits.
func (d *Database) Export() ([]Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		entries = append(entries, e)
	}
	return entries, nil
}

// Import imports a set of entries into the database.
func (d *Database) Import(entries []Entry) error {
	m := make(map[[32]byte]Entry, len(entries))
	for _, e := range entries {
		m[e.Key.Hash()] = e
	}
	return d.commit(m)
}

func (d *Database) commit(entries map[[32]byte]Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Copy-on-write so snapshots held by open change sets are unaffected
	next := make(map[[32]byte]Entry, len(d.entries)+len(entries))
	for h, e := range d.entries {
		next[h] = e
	}

	for _, e := range entries {
		key := d.prefix.AppendKey(e.Key)

		if e.Delete {
			delete(next, key.Hash())
		} else {
			next[key.Hash()] = Entry{Key: key, Value: e.Value}
		}
	}

	d.entries = next
	return nil
}
