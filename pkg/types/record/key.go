// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record

import (
	"encoding/hex"
	"fmt"
	"strings"

	"gitlab.com/meridianframework/meridian/pkg/errors"
)

// A Key is the key for a record.
type Key struct {
	values []any
}

func NewKey(v ...any) *Key {
	return &Key{v}
}

func (k *Key) Len() int {
	if k == nil {
		return 0
	}
	return len(k.values)
}

func (k *Key) Get(i int) any {
	if i < 0 || i >= k.Len() {
		return nil
	}
	return k.values[i]
}

// SliceI returns the key excluding the first I parts.
func (k *Key) SliceI(i int) *Key {
	return &Key{k.values[i:]}
}

// Append creates a child key of this key.
func (k *Key) Append(v ...any) *Key {
	if len(v) == 0 {
		return k
	}
	if k.Len() == 0 {
		return &Key{v}
	}
	l := make([]any, len(k.values)+len(v))
	n := copy(l, k.values)
	copy(l[n:], v)
	return &Key{l}
}

// AppendKey appends one key to another.
func (k *Key) AppendKey(l *Key) *Key {
	if k.Len() == 0 {
		return l
	}
	if l.Len() == 0 {
		return k
	}
	return k.Append(l.values...)
}

// Hash converts the record key to a storage key.
func (k *Key) Hash() KeyHash {
	if k.Len() == 0 {
		return KeyHash{}
	}
	return (KeyHash{}).Append(k.values...)
}

// String returns a human-readable string for the key.
func (k *Key) String() string {
	if k.Len() == 0 {
		return "()"
	}
	s := make([]string, len(k.values))
	for i, v := range k.values {
		switch v := v.(type) {
		case []byte:
			s[i] = hex.EncodeToString(v)
		case [32]byte:
			s[i] = hex.EncodeToString(v[:])
		case string:
			s[i] = v
		default:
			s[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(s, ".")
}

// Compare compares two keys part by part.
func (k *Key) Compare(l *Key) int {
	for i := 0; i < k.Len() && i < l.Len(); i++ {
		a, b := fmt.Sprint(k.values[i]), fmt.Sprint(l.values[i])
		if a != b {
			return strings.Compare(a, b)
		}
	}
	return k.Len() - l.Len()
}

// Equal returns true if the keys hash to the same storage key.
func (k *Key) Equal(l *Key) bool {
	return k.Hash() == l.Hash()
}

// Copy returns a copy of the key.
func (k *Key) Copy() *Key {
	l := make([]any, len(k.values))
	copy(l, k.values)
	return &Key{l}
}

func (k *Key) checkParts() error {
	for _, v := range k.values {
		switch v.(type) {
		case string, int, int64, uint, uint64, []byte, [32]byte:
			// Supported
		default:
			return errors.EncodingError.WithFormat("unsupported key part type %T", v)
		}
	}
	return nil
}
