// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package governance

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

func testPayloads() []protocol.Payload {
	return []protocol.Payload{
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.RegisterPairing{Coin: protocol.NativeCoinType},
	}
}

func submit(t *testing.T, g *Governor, batch *database.Batch) *protocol.Proposal {
	t.Helper()
	p, err := g.Submit(batch, "Enable native coin conversion", "council.alpha", testPayloads())
	require.NoError(t, err)
	return p
}

func TestSubmit(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)
	require.Equal(t, uint64(1), p.ID)
	require.Equal(t, protocol.ProposalPending, p.Status)
	require.Len(t, p.Steps, 2)

	// Step hashes commit to the payloads
	h, err := protocol.PayloadHash(&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType})
	require.NoError(t, err)
	require.Equal(t, h, p.Steps[0].ScriptHash)

	// IDs are sequential
	q := submit(t, g, batch)
	require.Equal(t, uint64(2), q.ID)
}

func TestSubmitRequiresMembership(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	_, err := g.Submit(batch, "Sneaky", "outsider", testPayloads())
	require.ErrorIs(t, err, errors.Unauthorized)
}

func TestApprovalThreshold(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)

	p, err := g.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalPending, p.Status)

	p, err = g.Approve(batch, p.ID, "council.bravo")
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalApproved, p.Status)
}

func TestDoubleVote(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)
	_, err := g.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	_, err = g.Approve(batch, p.ID, "council.alpha")
	require.ErrorIs(t, err, errors.Conflict)
	_, err = g.Reject(batch, p.ID, "council.alpha")
	require.ErrorIs(t, err, errors.Conflict)
}

func TestRejection(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)

	// With three members and a threshold of two, two rejections make
	// approval unreachable
	p, err := g.Reject(batch, p.ID, "council.bravo")
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalPending, p.Status)

	p, err = g.Reject(batch, p.ID, "council.charlie")
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalRejected, p.Status)

	// Voting is closed
	_, err = g.Approve(batch, p.ID, "council.alpha")
	require.ErrorIs(t, err, errors.NotAllowed)
}

func TestResolveGating(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)
	hash := p.Steps[0].ScriptHash

	// Missing proposal
	_, err := g.ResolveStep(batch, 42, g.Authority(), hash)
	require.ErrorIs(t, err, errors.NotReady)

	// Not approved
	_, err = g.ResolveStep(batch, p.ID, g.Authority(), hash)
	require.ErrorIs(t, err, errors.NotReady)

	// Wrong authority
	_, err = g.ResolveStep(batch, p.ID, "someone.else", hash)
	require.ErrorIs(t, err, errors.NotReady)

	_, err = g.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	_, err = g.Approve(batch, p.ID, "council.bravo")
	require.NoError(t, err)

	// Wrong hash
	_, err = g.ResolveStep(batch, p.ID, g.Authority(), [32]byte{1})
	require.ErrorIs(t, err, errors.NotReady)

	auth, err := g.ResolveStep(batch, p.ID, g.Authority(), hash)
	require.NoError(t, err)
	require.Equal(t, g.Authority(), auth.Name())
	require.Equal(t, p.ID, auth.Proposal())
	require.Equal(t, 0, auth.Step())
}

func TestResolveConsumesSteps(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	p := submit(t, g, batch)
	_, err := g.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	_, err = g.Approve(batch, p.ID, "council.bravo")
	require.NoError(t, err)

	// A step resolves exactly once, and in order
	_, err = g.ResolveStep(batch, p.ID, g.Authority(), p.Steps[1].ScriptHash)
	require.ErrorIs(t, err, errors.NotReady)

	auth, err := g.ResolveStep(batch, p.ID, g.Authority(), p.Steps[0].ScriptHash)
	require.NoError(t, err)
	require.Equal(t, 0, auth.Step())

	_, err = g.ResolveStep(batch, p.ID, g.Authority(), p.Steps[0].ScriptHash)
	require.ErrorIs(t, err, errors.NotReady)

	auth, err = g.ResolveStep(batch, p.ID, g.Authority(), p.Steps[1].ScriptHash)
	require.NoError(t, err)
	require.Equal(t, 1, auth.Step())

	// Resolving the final step executes the proposal
	q, err := g.Proposal(batch, p.ID)
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalExecuted, q.Status)

	_, err = g.ResolveStep(batch, p.ID, g.Authority(), p.Steps[1].ScriptHash)
	require.ErrorIs(t, err, errors.NotReady)
}

func TestListProposals(t *testing.T) {
	db := database.OpenInMemory(nil)
	g := New(Options{})

	batch := db.Begin(true)
	defer batch.Discard()

	submit(t, g, batch)
	submit(t, g, batch)
	submit(t, g, batch)

	list, err := g.ListProposals(batch)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, p := range list {
		require.Equal(t, uint64(i+1), p.ID)
	}
}
