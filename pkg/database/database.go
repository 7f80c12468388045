// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"gitlab.com/meridianframework/meridian/pkg/types/record"
)

// Key is a record key.
type Key = record.Key

// KeyHash is the hash of a record key.
type KeyHash = record.KeyHash

func NewKey(v ...any) *Key { return record.NewKey(v...) }
