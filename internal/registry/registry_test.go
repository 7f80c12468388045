// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// resolve submits and approves a proposal for the given payloads and
// resolves each step, returning one capability per payload.
func resolve(t *testing.T, batch *database.Batch, payloads ...protocol.Payload) []*governance.Authority {
	t.Helper()
	g := governance.New(governance.Options{})

	p, err := g.Submit(batch, "test", "council.alpha", payloads)
	require.NoError(t, err)
	_, err = g.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	_, err = g.Approve(batch, p.ID, "council.bravo")
	require.NoError(t, err)

	auths := make([]*governance.Authority, len(payloads))
	for i, payload := range payloads {
		hash, err := protocol.PayloadHash(payload)
		require.NoError(t, err)
		auths[i], err = g.ResolveStep(batch, p.ID, g.Authority(), hash)
		require.NoError(t, err)
	}
	return auths
}

func TestEnsureConversionMap(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	_, err := r.ConversionMap(batch)
	require.ErrorIs(t, err, errors.NotFound)

	auths := resolve(t, batch,
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType})

	require.NoError(t, r.EnsureConversionMap(batch, auths[0]))
	m, err := r.ConversionMap(batch)
	require.NoError(t, err)

	// Idempotent: a second creation is a no-op and preserves provenance
	require.NoError(t, r.EnsureConversionMap(batch, auths[1]))
	m2, err := r.ConversionMap(batch)
	require.NoError(t, err)
	require.Equal(t, m.CreatedBy, m2.CreatedBy)
	require.Equal(t, m.CreatedAt, m2.CreatedAt)
}

func TestEnsureConversionMapRequiresAuthority(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	err := r.EnsureConversionMap(batch, nil)
	require.ErrorIs(t, err, errors.Unauthorized)

	_, err = r.ConversionMap(batch)
	require.ErrorIs(t, err, errors.NotFound)
}

func TestRegisterPairing(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	auths := resolve(t, batch,
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.RegisterPairing{Coin: protocol.NativeCoinType})

	require.NoError(t, r.EnsureConversionMap(batch, auths[0]))

	pair, err := r.RegisterPairing(batch, auths[1], protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, protocol.NativeCoinType, pair.Coin)
	require.Equal(t, protocol.NativeAssetType(), pair.Asset)

	got, err := r.GetPairing(batch, protocol.NativeCoinType)
	require.NoError(t, err)
	require.True(t, got.Equal(pair))

	list, err := r.ListPairings(batch)
	require.NoError(t, err)
	require.Len(t, list, 1)

	md, err := r.AssetMetadata(batch, protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, pair.Asset, md.Type)
	require.Equal(t, protocol.NativeCoinType.Symbol(), md.Symbol)

	_, err = r.AssetMetadata(batch, "acme/tokens/FOO")
	require.ErrorIs(t, err, errors.NotFound)
}

func TestRegisterPairingRequiresMap(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	auths := resolve(t, batch, &protocol.RegisterPairing{Coin: protocol.NativeCoinType})
	_, err := r.RegisterPairing(batch, auths[0], protocol.NativeCoinType)
	require.ErrorIs(t, err, errors.NotReady)
}

func TestRegisterPairingConflict(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	auths := resolve(t, batch,
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.RegisterPairing{Coin: protocol.NativeCoinType},
		&protocol.RegisterPairing{Coin: protocol.NativeCoinType})

	require.NoError(t, r.EnsureConversionMap(batch, auths[0]))

	// Plant an incompatible entry for the native coin
	bogus := &protocol.Pairing{Coin: protocol.NativeCoinType, Asset: "fa/bogus"}
	require.NoError(t, batch.PutPairing(bogus))

	_, err := r.RegisterPairing(batch, auths[1], protocol.NativeCoinType)
	require.ErrorIs(t, err, errors.Conflict)

	// The existing entry is unchanged
	got, err := r.GetPairing(batch, protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, protocol.AssetType("fa/bogus"), got.Asset)

	// Re-registering an identical pairing is a no-op
	require.NoError(t, batch.PutPairing(&protocol.Pairing{
		Coin:  protocol.NativeCoinType,
		Asset: protocol.NativeCoinType.PairedAssetType(),
	}))
	pair, err := r.RegisterPairing(batch, auths[2], protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, protocol.NativeAssetType(), pair.Asset)
}

func TestMigrationFlag(t *testing.T) {
	db := database.OpenInMemory(nil)
	r := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	auths := resolve(t, batch,
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.SetMigrationFlag{Enabled: true})

	err := r.SetMigrationFlag(batch, auths[1], true)
	require.ErrorIs(t, err, errors.NotReady)

	require.NoError(t, r.EnsureConversionMap(batch, auths[0]))
	require.NoError(t, r.SetMigrationFlag(batch, auths[1], true))

	m, err := r.ConversionMap(batch)
	require.NoError(t, err)
	require.True(t, m.MigrationEnabled)
}
