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
	"gitlab.com/meridianframework/meridian/pkg/errors"
)

// Entry is a pending key-value change.
type Entry struct {
	Key    *database.Key
	Value  []byte
	Delete bool
}

type GetFunc func(*database.Key) ([]byte, error)
type CommitFunc func(map[[32]byte]Entry) error
type ForEachFunc func(func(*database.Key, []byte) error) error
type DiscardFunc func()

// ChangeSetOptions are the callbacks a driver supplies to NewChangeSet.
// Commit may be nil, which makes the change set read-only. ForEach and
// Discard may be nil.
type ChangeSetOptions struct {
	Prefix  *database.Key
	Get     GetFunc
	Commit  CommitFunc
	ForEach ForEachFunc
	Discard DiscardFunc
}

// ChangeSet caches pending changes in a map so Get sees values updated with
// Put regardless of the underlying driver's transaction behavior. Drivers
// build their change sets on this.
type ChangeSet struct {
	opts    ChangeSetOptions
	mu      sync.RWMutex
	entries map[[32]byte]Entry
	done    bool
}

var _ keyvalue.ChangeSet = (*ChangeSet)(nil)

func NewChangeSet(opts ChangeSetOptions) *ChangeSet {
	return &ChangeSet{opts: opts}
}

func (c *ChangeSet) Get(key *database.Key) ([]byte, error) {
	return c.getRaw(c.opts.Prefix.AppendKey(key))
}

// getRaw expects a fully prefixed key.
func (c *ChangeSet) getRaw(key *database.Key) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key.Hash()]
	c.mu.RUnlock()
	if ok {
		if entry.Delete {
			return nil, (*database.NotFoundError)(key)
		}
		return entry.Value, nil
	}

	if c.opts.Get == nil {
		return nil, (*database.NotFoundError)(key)
	}
	return c.opts.Get(key)
}

func (c *ChangeSet) Put(key *database.Key, value []byte) error {
	return c.put(Entry{Key: c.opts.Prefix.AppendKey(key), Value: value})
}

func (c *ChangeSet) Delete(key *database.Key) error {
	return c.put(Entry{Key: c.opts.Prefix.AppendKey(key), Delete: true})
}

func (c *ChangeSet) put(e Entry) error {
	if c.opts.Commit == nil {
		return errors.NotAllowed.With("change set is not writable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.NotAllowed.With("change set is done")
	}
	if c.entries == nil {
		c.entries = map[[32]byte]Entry{}
	}
	c.entries[e.Key.Hash()] = e
	return nil
}

func (c *ChangeSet) ForEach(fn func(*database.Key, []byte) error) error {
	if c.opts.ForEach == nil {
		return errors.NotAllowed.With("driver does not support iteration")
	}

	c.mu.RLock()
	pending := make(map[[32]byte]Entry, len(c.entries))
	for h, e := range c.entries {
		pending[h] = e
	}
	c.mu.RUnlock()

	// Iterate over the underlying store, masking pending changes
	err := c.opts.ForEach(func(key *database.Key, value []byte) error {
		if e, ok := pending[key.Hash()]; ok {
			delete(pending, key.Hash())
			if e.Delete {
				return nil
			}
			return fn(key, e.Value)
		}
		return fn(key, value)
	})
	if err != nil {
		return err
	}

	// Iterate over pending changes the store has not seen
	for _, e := range pending {
		if e.Delete {
			continue
		}
		err = fn(e.Key, e.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

// Begin begins a nested change set that commits into this one.
func (c *ChangeSet) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	var commit CommitFunc
	if writable && c.opts.Commit != nil {
		commit = func(entries map[[32]byte]Entry) error {
			for _, e := range entries {
				err := c.put(e)
				if err != nil {
					return err
				}
			}
			return nil
		}
	}

	return NewChangeSet(ChangeSetOptions{
		Prefix:  c.opts.Prefix.AppendKey(prefix),
		Get:     c.getRaw,
		Commit:  commit,
		ForEach: c.forEachNested,
	})
}

func (c *ChangeSet) forEachNested(fn func(*database.Key, []byte) error) error {
	if c.opts.ForEach == nil {
		return errors.NotAllowed.With("driver does not support iteration")
	}
	return c.ForEach(fn)
}

// Commit commits pending changes to the driver.
func (c *ChangeSet) Commit() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return errors.NotAllowed.With("change set is done")
	}
	c.done = true
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	if c.opts.Commit == nil {
		return errors.NotAllowed.With("change set is not writable")
	}
	err := c.opts.Commit(entries)
	if c.opts.Discard != nil {
		c.opts.Discard()
	}
	return err
}

// Discard discards pending changes.
func (c *ChangeSet) Discard() {
	c.mu.Lock()
	already := c.done
	c.done = true
	c.entries = nil
	c.mu.Unlock()

	if !already && c.opts.Discard != nil {
		c.opts.Discard()
	}
}
