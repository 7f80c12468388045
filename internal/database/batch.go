// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package database

import (
	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/pkg/database"
	"gitlab.com/meridianframework/meridian/pkg/database/keyvalue"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// A Batch is a set of pending changes to governance and registry records.
// Nothing is visible to other batches until Commit.
type Batch struct {
	kv     keyvalue.ChangeSet
	logger logging.Logger
}

// Begin begins a sub-batch. Committing the sub-batch stages its changes in
// this batch.
func (b *Batch) Begin(writable bool) *Batch {
	return &Batch{kv: b.kv.Begin(nil, writable), logger: b.logger}
}

// Commit commits pending changes.
func (b *Batch) Commit() error {
	return b.kv.Commit()
}

// Discard discards pending changes.
func (b *Batch) Discard() {
	b.kv.Discard()
}

func proposalKey(id uint64) *database.Key {
	return database.NewKey("Proposal", id)
}

var proposalCountKey = database.NewKey("Proposal", "Count")
var conversionMapKey = database.NewKey("Registry", "Map")

func pairingKey(coin protocol.CoinType) *database.Key {
	return database.NewKey("Registry", "Pairing", string(coin))
}

// Proposal loads a proposal. Returns NotFound if the proposal does not
// exist.
func (b *Batch) Proposal(id uint64) (*protocol.Proposal, error) {
	data, err := b.kv.Get(proposalKey(id))
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	p := new(protocol.Proposal)
	err = p.UnmarshalBinary(data)
	if err != nil {
		return nil, errors.InternalError.WithFormat("load proposal %d: %w", id, err)
	}
	return p, nil
}

// PutProposal stores a proposal.
func (b *Batch) PutProposal(p *protocol.Proposal) error {
	if p.ID == 0 {
		return errors.InternalError.With("proposal ID is zero")
	}
	data, err := p.MarshalBinary()
	if err != nil {
		return errors.InternalError.WithFormat("store proposal %d: %w", p.ID, err)
	}
	return b.kv.Put(proposalKey(p.ID), data)
}

// ProposalCount returns the number of proposals ever submitted. Proposal IDs
// are assigned sequentially from one.
func (b *Batch) ProposalCount() (uint64, error) {
	data, err := b.kv.Get(proposalCountKey)
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return 0, nil
	default:
		return 0, errors.UnknownError.Wrap(err)
	}
	if len(data) != 8 {
		return 0, errors.InternalError.With("invalid proposal count record")
	}
	var v uint64
	for _, c := range data {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// PutProposalCount stores the proposal count.
func (b *Batch) PutProposalCount(v uint64) error {
	data := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		data[i] = byte(v)
		v >>= 8
	}
	return b.kv.Put(proposalCountKey, data)
}

// ConversionMap loads the conversion map. Returns NotFound if the map has
// not been created.
func (b *Batch) ConversionMap() (*protocol.ConversionMap, error) {
	data, err := b.kv.Get(conversionMapKey)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	m := new(protocol.ConversionMap)
	err = m.UnmarshalBinary(data)
	if err != nil {
		return nil, errors.InternalError.WithFormat("load conversion map: %w", err)
	}
	return m, nil
}

// PutConversionMap stores the conversion map.
func (b *Batch) PutConversionMap(m *protocol.ConversionMap) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return errors.InternalError.WithFormat("store conversion map: %w", err)
	}
	return b.kv.Put(conversionMapKey, data)
}

// Pairing loads the pairing registered for a coin type.
func (b *Batch) Pairing(coin protocol.CoinType) (*protocol.Pairing, error) {
	data, err := b.kv.Get(pairingKey(coin))
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	p := new(protocol.Pairing)
	err = p.UnmarshalBinary(data)
	if err != nil {
		return nil, errors.InternalError.WithFormat("load pairing %v: %w", coin, err)
	}
	return p, nil
}

// PutPairing stores a pairing.
func (b *Batch) PutPairing(p *protocol.Pairing) error {
	data, err := p.MarshalBinary()
	if err != nil {
		return errors.InternalError.WithFormat("store pairing %v: %w", p.Coin, err)
	}
	return b.kv.Put(pairingKey(p.Coin), data)
}
