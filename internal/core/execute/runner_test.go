// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/internal/registry"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

type testHarness struct {
	db  *database.Database
	gov *governance.Governor
	reg *registry.Registry
	run *Runner
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := new(testHarness)
	h.db = database.OpenInMemory(nil)
	h.gov = governance.New(governance.Options{})
	h.reg = registry.New(registry.Options{})
	h.run = NewRunner(RunnerOptions{Database: h.db, Governance: h.gov, Registry: h.reg})
	return h
}

// submit submits a proposal for the given payloads and commits.
func (h *testHarness) submit(t *testing.T, payloads []protocol.Payload) uint64 {
	t.Helper()
	batch := h.db.Begin(true)
	defer batch.Discard()
	p, err := h.gov.Submit(batch, "Enable native coin conversion", "council.alpha", payloads)
	require.NoError(t, err)
	require.NoError(t, batch.Commit())
	return p.ID
}

// approve records enough approvals to approve the proposal and commits.
func (h *testHarness) approve(t *testing.T, id uint64) {
	t.Helper()
	batch := h.db.Begin(true)
	defer batch.Discard()
	_, err := h.gov.Approve(batch, id, "council.alpha")
	require.NoError(t, err)
	p, err := h.gov.Approve(batch, id, "council.bravo")
	require.NoError(t, err)
	require.Equal(t, protocol.ProposalApproved, p.Status)
	require.NoError(t, batch.Commit())
}

func (h *testHarness) mapExists(t *testing.T) bool {
	t.Helper()
	batch := h.db.Begin(false)
	defer batch.Discard()
	_, err := h.reg.ConversionMap(batch)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errors.NotFound):
		return false
	default:
		t.Fatal(err)
		return false
	}
}

func (h *testHarness) status(t *testing.T, id uint64) protocol.ProposalStatus {
	t.Helper()
	batch := h.db.Begin(false)
	defer batch.Discard()
	p, err := h.gov.Proposal(batch, id)
	require.NoError(t, err)
	return p.Status
}

// submitNativeConversion arranges for the native conversion proposal to
// carry a specific ID by submitting filler proposals first.
func (h *testHarness) submitNativeConversion(t *testing.T, id uint64) {
	t.Helper()
	for h.submit(t, NativeConversionPayloads()) < id {
	}
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t)

	// Proposal 42, approved, empty map
	h.submitNativeConversion(t, 42)
	h.approve(t, 42)
	require.False(t, h.mapExists(t))

	require.NoError(t, h.run.RunNativeConversion(42))

	// Map created, native pairing present, proposal executed
	batch := h.db.Begin(false)
	defer batch.Discard()

	pair, err := h.reg.GetPairing(batch, protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, protocol.NativeCoinType, pair.Coin)
	require.Equal(t, protocol.NativeAssetType(), pair.Asset)
	require.Equal(t, uint64(42), pair.Proposal)

	list, err := h.reg.ListPairings(batch)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.Equal(t, protocol.ProposalExecuted, h.status(t, 42))
}

func TestUnapprovedProposal(t *testing.T) {
	h := newHarness(t)

	// Proposal 42, not approved
	h.submitNativeConversion(t, 42)

	err := h.run.RunNativeConversion(42)
	require.ErrorIs(t, err, errors.NotReady)

	// Zero observable mutation: the proposal is still pending, so voting can
	// continue and the proposal can still be executed
	require.False(t, h.mapExists(t))
	require.Equal(t, protocol.ProposalPending, h.status(t, 42))

	h.approve(t, 42)
	require.NoError(t, h.run.RunNativeConversion(42))
	require.True(t, h.mapExists(t))
	require.Equal(t, protocol.ProposalExecuted, h.status(t, 42))
}

func TestMissingProposal(t *testing.T) {
	h := newHarness(t)

	err := h.run.RunNativeConversion(42)
	require.ErrorIs(t, err, errors.NotReady)
	require.False(t, h.mapExists(t))
}

func TestIdempotentMapCreation(t *testing.T) {
	h := newHarness(t)

	// Two separate successful proposals both create the map; the second
	// creation is a no-op
	id1 := h.submit(t, []protocol.Payload{&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType}})
	h.approve(t, id1)
	require.NoError(t, h.run.ExecuteProposal(id1, []protocol.Payload{&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType}}))
	require.True(t, h.mapExists(t))

	id2 := h.submit(t, []protocol.Payload{&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType}})
	h.approve(t, id2)
	require.NoError(t, h.run.ExecuteProposal(id2, []protocol.Payload{&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType}}))
	require.True(t, h.mapExists(t))

	batch := h.db.Begin(false)
	defer batch.Discard()
	m, err := h.reg.ConversionMap(batch)
	require.NoError(t, err)
	require.Equal(t, id1, m.CreatedBy)
}

func TestPairingConflict(t *testing.T) {
	h := newHarness(t)

	// Plant an incompatible entry for the native coin
	batch := h.db.Begin(true)
	auths := resolveForTest(t, h, batch)
	require.NoError(t, h.reg.EnsureConversionMap(batch, auths[0]))
	require.NoError(t, batch.PutPairing(&protocol.Pairing{Coin: protocol.NativeCoinType, Asset: "fa/bogus"}))
	require.NoError(t, batch.Commit())

	id := h.submit(t, NativeConversionPayloads())
	h.approve(t, id)

	err := h.run.RunNativeConversion(id)
	require.ErrorIs(t, err, errors.Conflict)

	// The existing entry is unchanged and the proposal is failed
	batch = h.db.Begin(false)
	defer batch.Discard()
	pair, err := h.reg.GetPairing(batch, protocol.NativeCoinType)
	require.NoError(t, err)
	require.Equal(t, protocol.AssetType("fa/bogus"), pair.Asset)
	require.Equal(t, protocol.ProposalFailed, h.status(t, id))
}

func TestFailureDiscardsAllSteps(t *testing.T) {
	h := newHarness(t)

	// Plant a conflicting entry without creating the map, so step one
	// creates the map and step two fails
	batch := h.db.Begin(true)
	require.NoError(t, batch.PutPairing(&protocol.Pairing{Coin: protocol.NativeCoinType, Asset: "fa/bogus"}))
	require.NoError(t, batch.Commit())

	id := h.submit(t, NativeConversionPayloads())
	h.approve(t, id)

	err := h.run.RunNativeConversion(id)
	require.ErrorIs(t, err, errors.Conflict)

	// Step one's map creation was discarded along with everything else
	require.False(t, h.mapExists(t))
}

func TestWrongPayloads(t *testing.T) {
	h := newHarness(t)

	id := h.submit(t, NativeConversionPayloads())
	h.approve(t, id)

	// Executing with payloads the proposal was not submitted with fails
	// the hash check
	err := h.run.ExecuteProposal(id, []protocol.Payload{&protocol.RegisterPairing{Coin: "other/coin/ABC"}})
	require.ErrorIs(t, err, errors.NotReady)
	require.False(t, h.mapExists(t))

	// The resolution failure did not consume the proposal
	require.Equal(t, protocol.ProposalApproved, h.status(t, id))
	require.NoError(t, h.run.RunNativeConversion(id))
}

// resolveForTest mints capabilities outside the runner, for seeding state.
func resolveForTest(t *testing.T, h *testHarness, batch *database.Batch) []*governance.Authority {
	t.Helper()
	payloads := []protocol.Payload{&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType}}
	p, err := h.gov.Submit(batch, "seed", "council.alpha", payloads)
	require.NoError(t, err)
	_, err = h.gov.Approve(batch, p.ID, "council.alpha")
	require.NoError(t, err)
	_, err = h.gov.Approve(batch, p.ID, "council.bravo")
	require.NoError(t, err)
	hash, err := protocol.PayloadHash(payloads[0])
	require.NoError(t, err)
	auth, err := h.gov.ResolveStep(batch, p.ID, h.gov.Authority(), hash)
	require.NoError(t, err)
	return []*governance.Authority{auth}
}
