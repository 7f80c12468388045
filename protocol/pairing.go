// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"time"

	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/encoding"
)

// A Pairing is one conversion map entry, linking a coin type to its fungible
// asset counterpart.
type Pairing struct {
	Coin         CoinType  `json:"coin"`
	Asset        AssetType `json:"asset"`
	Proposal     uint64    `json:"proposal"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func (p *Pairing) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(p.Coin))
	w.WriteString(2, string(p.Asset))
	w.WriteUint(3, p.Proposal)
	w.WriteTime(4, p.RegisteredAt)
	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

func (p *Pairing) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		p.Coin = CoinType(v)
	}
	if v, ok := r.ReadString(2); ok {
		p.Asset = AssetType(v)
	}
	if v, ok := r.ReadUint(3); ok {
		p.Proposal = v
	}
	if v, ok := r.ReadTime(4); ok {
		p.RegisteredAt = v
	}
	return errors.EncodingError.Wrap(r.Err())
}

// Equal returns true if the pairings link the same coin to the same asset.
// Provenance fields are not compared.
func (p *Pairing) Equal(q *Pairing) bool {
	return p.Coin == q.Coin && p.Asset == q.Asset
}
