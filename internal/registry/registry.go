// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package registry implements the global coin to fungible asset conversion
// map. Mutations require a capability resolved from an approved governance
// proposal.
package registry

import (
	"time"

	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// Options configure a Registry.
type Options struct {
	// Authority is the name of the authority whose capabilities are
	// accepted. Defaults to protocol.RootAuthority.
	Authority string

	Logger logging.Logger
}

// A Registry manages the conversion map. All methods operate within the
// caller's batch.
type Registry struct {
	authority string
	logger    logging.Logger
}

func New(opts Options) *Registry {
	r := new(Registry)
	r.authority = opts.Authority
	if r.authority == "" {
		r.authority = protocol.RootAuthority
	}
	if opts.Logger != nil {
		r.logger = opts.Logger.With("module", "registry")
	} else {
		r.logger = logging.NullLogger{}
	}
	return r
}

func (r *Registry) checkAuthority(auth *governance.Authority) error {
	if auth == nil {
		return errors.Unauthorized.With("missing authority")
	}
	if auth.Name() != r.authority {
		return errors.Unauthorized.WithFormat("%s is not authorized to mutate the conversion map", auth.Name())
	}
	return nil
}

// EnsureConversionMap creates the conversion map if it does not exist.
// Calling it when the map already exists is a no-op.
func (r *Registry) EnsureConversionMap(batch *database.Batch, auth *governance.Authority) error {
	err := r.checkAuthority(auth)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	_, err = batch.ConversionMap()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.NotFound):
		// Create it
	default:
		return errors.UnknownError.Wrap(err)
	}

	m := new(protocol.ConversionMap)
	m.CreatedBy = auth.Proposal()
	m.CreatedAt = time.Now().UTC()
	err = batch.PutConversionMap(m)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	mMapCreated.Inc()
	r.logger.Info("Created conversion map", "proposal", auth.Proposal())
	return nil
}

// RegisterPairing registers the pairing between a coin type and its derived
// fungible asset type. Registering an identical pairing again is a no-op.
// Registering over an existing entry with a different asset type fails with
// a conflict.
func (r *Registry) RegisterPairing(batch *database.Batch, auth *governance.Authority, coin protocol.CoinType) (*protocol.Pairing, error) {
	err := r.checkAuthority(auth)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	err = coin.Valid()
	if err != nil {
		return nil, errors.BadRequest.Wrap(err)
	}

	m, err := batch.ConversionMap()
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return nil, errors.NotReady.With("the conversion map has not been created")
	default:
		return nil, errors.UnknownError.Wrap(err)
	}

	pair := &protocol.Pairing{
		Coin:         coin,
		Asset:        coin.PairedAssetType(),
		Proposal:     auth.Proposal(),
		RegisteredAt: time.Now().UTC(),
	}

	existing, err := batch.Pairing(coin)
	switch {
	case errors.Is(err, errors.NotFound):
		// New entry
	case err != nil:
		return nil, errors.UnknownError.Wrap(err)
	case existing.Equal(pair):
		return existing, nil
	default:
		mPairingConflicts.Inc()
		return nil, errors.Conflict.WithFormat("%v is already paired with %v", coin, existing.Asset)
	}

	err = batch.PutPairing(pair)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	if m.AddCoin(coin) {
		err = batch.PutConversionMap(m)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
		mMapSize.Set(float64(len(m.Coins)))
	}

	mPairingsRegistered.Inc()
	r.logger.Info("Registered pairing", "coin", coin.String(), "asset", pair.Asset.String(), "proposal", auth.Proposal())
	return pair, nil
}

// SetMigrationFlag enables or disables coin to asset migration.
func (r *Registry) SetMigrationFlag(batch *database.Batch, auth *governance.Authority, enabled bool) error {
	err := r.checkAuthority(auth)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	m, err := batch.ConversionMap()
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return errors.NotReady.With("the conversion map has not been created")
	default:
		return errors.UnknownError.Wrap(err)
	}

	m.MigrationEnabled = enabled
	err = batch.PutConversionMap(m)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	r.logger.Info("Set migration flag", "enabled", enabled, "proposal", auth.Proposal())
	return nil
}

// AssetMetadata returns the metadata of the asset paired with the coin.
// Fails with NotFound if the coin has no registered pairing.
func (r *Registry) AssetMetadata(batch *database.Batch, coin protocol.CoinType) (*protocol.AssetMetadata, error) {
	_, err := batch.Pairing(coin)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	md := coin.PairedAssetMetadata()
	return &md, nil
}

// GetPairing returns the pairing registered for a coin type.
func (r *Registry) GetPairing(batch *database.Batch, coin protocol.CoinType) (*protocol.Pairing, error) {
	return batch.Pairing(coin)
}

// ConversionMap returns the conversion map.
func (r *Registry) ConversionMap(batch *database.Batch) (*protocol.ConversionMap, error) {
	return batch.ConversionMap()
}

// ListPairings returns every registered pairing, in registration order.
func (r *Registry) ListPairings(batch *database.Batch) ([]*protocol.Pairing, error) {
	m, err := batch.ConversionMap()
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return nil, nil
	default:
		return nil, errors.UnknownError.Wrap(err)
	}

	list := make([]*protocol.Pairing, 0, len(m.Coins))
	for _, coin := range m.Coins {
		p, err := batch.Pairing(coin)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
		list = append(list, p)
	}
	return list, nil
}
