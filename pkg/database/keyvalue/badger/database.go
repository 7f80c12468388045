// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package badger

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger"
	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue/memory"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/record"
)

type Database struct {
	opts
	badger *badger.DB
	ready  bool
	mu     sync.RWMutex
}

type opts struct {
	plainKeys bool
}

type Option func(*opts) error

// WithPlainKeys stores keys as their binary encoding instead of hashing
// them. Plain keys support iteration; hashed keys do not.
func WithPlainKeys(o *opts) error {
	o.plainKeys = true
	return nil
}

func New(filepath string, o ...Option) (*Database, error) {
	// Make sure all directories exist
	err := os.MkdirAll(filepath, 0700)
	if err != nil {
		return nil, errors.UnknownError.WithFormat("open badger: create %q: %w", filepath, err)
	}

	opts := badger.DefaultOptions(filepath)
	opts = opts.WithLogger(Slogger{})

	d := new(Database)
	for _, o := range o {
		err = o(&d.opts)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
	}

	d.ready = true

	// Open Badger
	d.badger, err = badger.Open(opts)
	if err != nil {
		return nil, err
	}

	// Run GC every hour
	go d.gc()

	return d, nil
}

func (d *Database) key(key *record.Key) []byte {
	if d.plainKeys {
		b, err := key.MarshalBinary()
		if err != nil {
			panic(err)
		}
		return b
	}
	h := key.Hash()
	return h[:]
}

// Begin begins a change set.
func (d *Database) Begin(prefix *database.Key, writable bool) keyvalue.ChangeSet {
	// Use a read-only transaction for reading
	rd := d.badger.NewTransaction(false)

	// Read from the transaction
	get := func(key *database.Key) ([]byte, error) {
		l, err := d.lock(false)
		if err != nil {
			return nil, err
		}
		defer l.Unlock()

		item, err := rd.Get(d.key(key))
		switch {
		case err == nil:
			// Ok
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, (*database.NotFoundError)(key)
		default:
			return nil, err
		}

		v, err := item.ValueCopy(nil)
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, (*database.NotFoundError)(key)
		default:
			return nil, errors.UnknownError.WithFormat("get %v: %w", key, err)
		}
	}

	// Commit to the write batch
	var commit memory.CommitFunc
	if writable {
		commit = func(entries map[[32]byte]memory.Entry) error {
			start := time.Now()
			defer func() { mCommitDuration.Set(time.Since(start).Seconds()) }()

			l, err := d.lock(false)
			if err != nil {
				return err
			}
			defer l.Unlock()

			// Use a write batch for writing to work around Badger's
			// limitations
			wr := d.badger.NewWriteBatch()

			for _, e := range entries {
				if e.Delete {
					err = wr.Delete(d.key(e.Key))
				} else {
					err = wr.Set(d.key(e.Key), e.Value)
				}
				if err != nil {
					return err
				}
			}

			return wr.Flush()
		}
	}

	// Discard the transaction
	discard := func() {
		rd.Discard()
	}

	// The memory changeset caches entries in a map so Get will see values
	// updated with Put, regardless of the underlying transaction and write
	// batch behavior
	return memory.NewChangeSet(memory.ChangeSetOptions{
		Prefix:  prefix,
		Get:     get,
		Commit:  commit,
		ForEach: d.forEach(rd),
		Discard: discard,
	})
}

func (d *Database) forEach(rd *badger.Txn) memory.ForEachFunc {
	if !d.plainKeys {
		return nil
	}

	return func(fn func(*database.Key, []byte) error) error {
		l, err := d.lock(false)
		if err != nil {
			return err
		}
		defer l.Unlock()

		it := rd.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			key := new(record.Key)
			err := key.UnmarshalBinary(item.Key())
			if err != nil {
				return errors.InternalError.WithFormat("cannot unmarshal key: %w", err)
			}

			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			err = fn(key, v)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// Close closes the underlying database.
func (d *Database) Close() error {
	if l, err := d.lock(true); err != nil {
		return err
	} else {
		defer l.Unlock()
	}

	d.ready = false
	return d.badger.Close()
}

func (d *Database) gc() {
	for {
		// GC every hour
		time.Sleep(time.Hour)

		// Still open?
		l, err := d.lock(false)
		if err != nil {
			return
		}

		// Run GC if 50% space could be reclaimed
		start := time.Now()
		err = d.badger.RunValueLogGC(0.5)
		if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
			slog.Error("Badger GC failed", "error", err, "module", "badger")
		}
		mGcRun.Inc()
		mGcDuration.Set(time.Since(start).Seconds())

		// Release the lock
		l.Unlock()
	}
}

// lock acquires a lock on the ready mutex and checks for readiness. This
// prevents race conditions between Get/Put and Close, which can cause panics.
func (d *Database) lock(closing bool) (sync.Locker, error) {
	var l sync.Locker = &d.mu
	if !closing {
		l = d.mu.RLocker()
	}

	l.Lock()
	if !d.ready {
		l.Unlock()
		return nil, errors.NotReady
	}

	return l, nil
}
