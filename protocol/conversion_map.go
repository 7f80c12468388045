// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"encoding/json"
	"time"

	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/encoding"
)

// ConversionMap is the singleton state of the coin to fungible asset
// registry. Pairings are stored as separate records; Coins is the index of
// registered coin types.
type ConversionMap struct {
	CreatedBy        uint64     `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	MigrationEnabled bool       `json:"migrationEnabled"`
	Coins            []CoinType `json:"coins,omitempty"`
}

func (m *ConversionMap) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, m.CreatedBy)
	w.WriteTime(2, m.CreatedAt)
	w.WriteBool(3, m.MigrationEnabled)

	if len(m.Coins) > 0 {
		coins, err := json.Marshal(m.Coins)
		if err != nil {
			return nil, errors.EncodingError.Wrap(err)
		}
		w.WriteBytes(4, coins)
	}

	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

func (m *ConversionMap) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadUint(1); ok {
		m.CreatedBy = v
	}
	if v, ok := r.ReadTime(2); ok {
		m.CreatedAt = v
	}
	if v, ok := r.ReadBool(3); ok {
		m.MigrationEnabled = v
	}
	if b, ok := r.ReadBytes(4); ok {
		if err := json.Unmarshal(b, &m.Coins); err != nil {
			return errors.EncodingError.Wrap(err)
		}
	}
	return errors.EncodingError.Wrap(r.Err())
}

// AddCoin adds a coin type to the index. It returns false if the coin is
// already present.
func (m *ConversionMap) AddCoin(coin CoinType) bool {
	for _, c := range m.Coins {
		if c == coin {
			return false
		}
	}
	m.Coins = append(m.Coins, coin)
	return true
}
