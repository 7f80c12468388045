// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package keyvalue

import "gitlab.com/meridianframework/meridian/pkg/database"

// A Store is a key-value store.
type Store interface {
	// Get loads a value.
	Get(*database.Key) ([]byte, error)

	// Put stores a value.
	Put(*database.Key, []byte) error

	// Delete deletes a key-value entry.
	Delete(*database.Key) error

	// ForEach iterates over each value.
	ForEach(func(*database.Key, []byte) error) error
}

// ChangeSet is a key-value change set.
type ChangeSet interface {
	Store
	Beginner

	// Commit commits pending changes.
	Commit() error

	// Discard discards pending changes.
	Discard()
}

// A Beginner can begin key-value change sets.
type Beginner interface {
	// Begin begins a transaction or sub-transaction with a prefix applied to keys.
	Begin(prefix *database.Key, writable bool) ChangeSet
}
