// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

func TestBatchCommit(t *testing.T) {
	db := OpenInMemory(nil)

	batch := db.Begin(true)
	defer batch.Discard()

	p := &protocol.Proposal{
		ID:          1,
		Title:       "Register the native coin",
		Submitter:   "council.alpha",
		Status:      protocol.ProposalPending,
		SubmittedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, batch.PutProposal(p))
	require.NoError(t, batch.PutProposalCount(1))
	require.NoError(t, batch.Commit())

	batch = db.Begin(false)
	defer batch.Discard()

	q, err := batch.Proposal(1)
	require.NoError(t, err)
	require.Equal(t, p.Title, q.Title)
	require.Equal(t, p.Status, q.Status)

	n, err := batch.ProposalCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}

func TestBatchDiscard(t *testing.T) {
	db := OpenInMemory(nil)

	batch := db.Begin(true)
	m := new(protocol.ConversionMap)
	m.CreatedBy = 1
	m.CreatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, batch.PutConversionMap(m))
	batch.Discard()

	batch = db.Begin(false)
	defer batch.Discard()
	_, err := batch.ConversionMap()
	require.Error(t, err)
	require.ErrorIs(t, err, errors.NotFound)
}

func TestBatchNotFound(t *testing.T) {
	db := OpenInMemory(nil)
	batch := db.Begin(false)
	defer batch.Discard()

	_, err := batch.Proposal(42)
	require.ErrorIs(t, err, errors.NotFound)

	_, err = batch.Pairing(protocol.NativeCoinType)
	require.ErrorIs(t, err, errors.NotFound)

	n, err := batch.ProposalCount()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSubBatchStaging(t *testing.T) {
	db := OpenInMemory(nil)

	batch := db.Begin(true)
	defer batch.Discard()

	sub := batch.Begin(true)
	pair := &protocol.Pairing{
		Coin:         protocol.NativeCoinType,
		Asset:        protocol.NativeCoinType.PairedAssetType(),
		Proposal:     1,
		RegisteredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, sub.PutPairing(pair))
	require.NoError(t, sub.Commit())

	// Staged in the parent, not yet committed to the database
	got, err := batch.Pairing(protocol.NativeCoinType)
	require.NoError(t, err)
	require.True(t, got.Equal(pair))

	other := db.Begin(false)
	_, err = other.Pairing(protocol.NativeCoinType)
	require.ErrorIs(t, err, errors.NotFound)
	other.Discard()

	require.NoError(t, batch.Commit())

	other = db.Begin(false)
	defer other.Discard()
	got, err = other.Pairing(protocol.NativeCoinType)
	require.NoError(t, err)
	require.True(t, got.Equal(pair))
}
