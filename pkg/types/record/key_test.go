// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyHashAppend(t *testing.T) {
	a := NewKey("Proposal", uint64(42)).Hash()
	b := NewKey("Proposal").Hash().Append(uint64(42))
	require.Equal(t, a, b)
}

func TestKeyHashDistinct(t *testing.T) {
	a := NewKey("Pairing", "core/native/MRD").Hash()
	b := NewKey("Pairing", "core/native/MRX").Hash()
	require.NotEqual(t, a, b)
}

func TestKeyBinaryRoundTrip(t *testing.T) {
	cases := map[string]*Key{
		"string": NewKey("Proposal"),
		"mixed":  NewKey("Proposal", uint64(42), "step", 1),
		"bytes":  NewKey("Hash", []byte{1, 2, 3}, [32]byte{4, 5, 6}),
	}
	for name, k := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := k.MarshalBinary()
			require.NoError(t, err)
			l := new(Key)
			require.NoError(t, l.UnmarshalBinary(b))
			require.Equal(t, k.Hash(), l.Hash())
		})
	}
}

func TestAppendKey(t *testing.T) {
	k := NewKey("Registry").AppendKey(NewKey("Pairing", "core/native/MRD"))
	require.Equal(t, NewKey("Registry", "Pairing", "core/native/MRD").Hash(), k.Hash())
}
