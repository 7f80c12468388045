// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gitlab.com/meridianframework/meridian/pkg/errors"
)

// A CoinType identifies a native coin. Coin types have the form
// publisher/module/symbol, for example core/native/MRD.
type CoinType string

// NativeCoinType is the framework's native coin.
const NativeCoinType CoinType = "core/native/MRD"

// pairedAssetSeed is the domain separator for deriving a coin's paired
// fungible asset type. Changing it would re-derive every pairing, so it is
// versioned.
const pairedAssetSeed = "meridian/paired-asset/v1"

// ParseCoinType parses and validates a coin type.
func ParseCoinType(s string) (CoinType, error) {
	c := CoinType(s)
	if err := c.Valid(); err != nil {
		return "", err
	}
	return c, nil
}

// Valid checks that the coin type has the publisher/module/symbol form.
func (c CoinType) Valid() error {
	parts := strings.Split(string(c), "/")
	if len(parts) != 3 {
		return errors.BadRequest.WithFormat("invalid coin type %q: expected publisher/module/symbol", c)
	}
	for _, p := range parts {
		if p == "" {
			return errors.BadRequest.WithFormat("invalid coin type %q: empty segment", c)
		}
		for _, r := range p {
			switch {
			case r >= 'a' && r <= 'z',
				r >= 'A' && r <= 'Z',
				r >= '0' && r <= '9',
				r == '-', r == '_':
				// Ok
			default:
				return errors.BadRequest.WithFormat("invalid coin type %q: invalid character %q", c, r)
			}
		}
	}
	return nil
}

// Symbol returns the coin's symbol, the last segment of the coin type.
func (c CoinType) Symbol() string {
	i := strings.LastIndexByte(string(c), '/')
	return string(c)[i+1:]
}

func (c CoinType) String() string { return string(c) }

// An AssetType identifies a fungible asset.
type AssetType string

func (a AssetType) String() string { return string(a) }

// PairedAssetType derives the fungible asset type paired with the coin. The
// derivation is deterministic so every node computes the same pairing.
func (c CoinType) PairedAssetType() AssetType {
	h := sha256.Sum256([]byte(pairedAssetSeed + "/" + string(c)))
	return AssetType("fa/" + hex.EncodeToString(h[:16]))
}

// NativeAssetType is the asset paired with the native coin.
func NativeAssetType() AssetType {
	return NativeCoinType.PairedAssetType()
}
