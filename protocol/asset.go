// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

// NativeDecimals is the decimal precision of every paired fungible asset.
// Paired assets mirror the coin they wrap one to one.
const NativeDecimals = 8

// AssetMetadata describes the fungible asset paired with a coin.
type AssetMetadata struct {
	Type     AssetType `json:"type"`
	Symbol   string    `json:"symbol"`
	Decimals uint64    `json:"decimals"`
}

// PairedAssetMetadata derives the metadata of the coin's paired asset. The
// asset inherits the coin's symbol.
func (c CoinType) PairedAssetMetadata() AssetMetadata {
	return AssetMetadata{
		Type:     c.PairedAssetType(),
		Symbol:   c.Symbol(),
		Decimals: NativeDecimals,
	}
}
