// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/pkg/errors"
)

func TestCoinTypeValidation(t *testing.T) {
	cases := map[string]bool{
		"core/native/MRD":  true,
		"acme/tokens/FOO":  true,
		"a/b":              false,
		"core//MRD":        false,
		"core/native/MRD!": false,
		"":                 false,
	}
	for s, ok := range cases {
		_, err := ParseCoinType(s)
		if ok {
			require.NoError(t, err, s)
		} else {
			require.ErrorIs(t, err, errors.BadRequest, s)
		}
	}
}

func TestPairedAssetDerivation(t *testing.T) {
	a := NativeCoinType.PairedAssetType()
	b := NativeCoinType.PairedAssetType()
	require.Equal(t, a, b, "derivation must be deterministic")
	require.NotEqual(t, a, CoinType("acme/tokens/FOO").PairedAssetType())
}

func TestPairedAssetMetadata(t *testing.T) {
	md := NativeCoinType.PairedAssetMetadata()
	require.Equal(t, NativeCoinType.PairedAssetType(), md.Type)
	require.Equal(t, "MRD", md.Symbol)
	require.Equal(t, uint64(NativeDecimals), md.Decimals)
}

func TestProposalRoundTrip(t *testing.T) {
	hash1, err := PayloadHash(&InitializeConversionMap{Coin: NativeCoinType})
	require.NoError(t, err)
	hash2, err := PayloadHash(&SetMigrationFlag{Enabled: true})
	require.NoError(t, err)

	p := &Proposal{
		ID:        42,
		Title:     "Initialize the conversion map",
		Submitter: "council.alpha",
		Status:    ProposalApproved,
		Steps: []ProposalStep{
			{ScriptHash: hash1, Executed: true, ExecutedAt: time.Unix(1700000000, 0).UTC()},
			{ScriptHash: hash2},
		},
		Approvals:   []string{"council.alpha", "council.bravo"},
		SubmittedAt: time.Unix(1690000000, 0).UTC(),
	}

	b, err := p.MarshalBinary()
	require.NoError(t, err)

	q := new(Proposal)
	require.NoError(t, q.UnmarshalBinary(b))
	require.Equal(t, p, q)

	i, ok := q.NextStep()
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestPayloadRoundTrip(t *testing.T) {
	payloads := []Payload{
		&InitializeConversionMap{Coin: NativeCoinType},
		&RegisterPairing{Coin: "acme/tokens/FOO"},
		&SetMigrationFlag{Enabled: true},
	}
	for _, p := range payloads {
		b, err := MarshalPayload(p)
		require.NoError(t, err)
		q, err := UnmarshalPayload(b)
		require.NoError(t, err)
		require.Equal(t, p, q)
	}
}

func TestPayloadHashCommitsToContents(t *testing.T) {
	a, err := PayloadHash(&RegisterPairing{Coin: "acme/tokens/FOO"})
	require.NoError(t, err)
	b, err := PayloadHash(&RegisterPairing{Coin: "acme/tokens/BAR"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// Different payload types with the same coin must not collide
	c, err := PayloadHash(&InitializeConversionMap{Coin: "acme/tokens/FOO"})
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}
