// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/internal/registry"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// RunnerOptions configure a Runner.
type RunnerOptions struct {
	Database   *database.Database
	Governance *governance.Governor
	Registry   *registry.Registry
	Logger     logging.Logger
}

// A Runner executes approved proposals. Each execution runs every supplied
// payload within a single batch, which is committed only if every step
// succeeds.
type Runner struct {
	db     *database.Database
	gov    *governance.Governor
	reg    *registry.Registry
	logger logging.Logger
}

func NewRunner(opts RunnerOptions) *Runner {
	r := new(Runner)
	r.db = opts.Database
	r.gov = opts.Governance
	r.reg = opts.Registry
	if opts.Logger != nil {
		r.logger = opts.Logger.With("module", "execute")
	} else {
		r.logger = logging.NullLogger{}
	}
	return r
}

// ExecuteProposal resolves and executes the proposal's remaining steps, one
// per payload, in order. Every step must resolve against the proposal's
// recorded script hashes, so the payloads must be exactly the ones the
// proposal was submitted with. Any failure discards all changes. Once a step
// has resolved, the proposal is committed to executing and a failure also
// marks it failed; a failure to resolve leaves the proposal untouched, so
// voting can continue if it was still pending.
func (r *Runner) ExecuteProposal(id uint64, payloads []protocol.Payload) error {
	batch := r.db.Begin(true)
	defer batch.Discard()

	var executing bool
	for _, payload := range payloads {
		resolved, err := r.executeStep(batch, id, payload)
		executing = executing || resolved
		if err != nil {
			batch.Discard()
			if executing {
				r.markFailed(id)
			}
			return errors.UnknownError.Wrap(err)
		}
	}

	err := batch.Commit()
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}

	r.logger.Info("Executed proposal", "id", id, "steps", len(payloads))
	return nil
}

// executeStep runs a single payload. It reports whether the step resolved
// into an authority, which is the point of no return for the proposal.
func (r *Runner) executeStep(batch *database.Batch, id uint64, payload protocol.Payload) (bool, error) {
	hash, err := protocol.PayloadHash(payload)
	if err != nil {
		return false, errors.UnknownError.WithFormat("hash payload: %w", err)
	}

	x, err := executorFor(payload.Type())
	if err != nil {
		return false, errors.UnknownError.Wrap(err)
	}
	err = x.Validate(payload)
	if err != nil {
		return false, errors.BadRequest.WithFormat("validate %v: %w", payload.Type(), err)
	}

	auth, err := r.gov.ResolveStep(batch, id, r.gov.Authority(), hash)
	if err != nil {
		return false, errors.UnknownError.Wrap(err)
	}

	st := &State{Batch: batch, Authority: auth, Registry: r.reg}
	err = x.Execute(st, payload)
	if err != nil {
		return true, errors.UnknownError.WithFormat("execute %v: %w", payload.Type(), err)
	}
	return true, nil
}

// markFailed records the failure in its own batch, since the execution
// batch was discarded.
func (r *Runner) markFailed(id uint64) {
	batch := r.db.Begin(true)
	defer batch.Discard()

	err := r.gov.MarkFailed(batch, id)
	if err == nil {
		err = batch.Commit()
	}
	if err != nil {
		r.logger.Error("Unable to mark proposal failed", "id", id, "error", err)
	}
}

// NativeConversionPayloads returns the fixed payload sequence that enables
// conversion for the native coin: create the conversion map, then register
// the native coin's pairing.
func NativeConversionPayloads() []protocol.Payload {
	return []protocol.Payload{
		&protocol.InitializeConversionMap{Coin: protocol.NativeCoinType},
		&protocol.RegisterPairing{Coin: protocol.NativeCoinType},
	}
}

// RunNativeConversion executes a proposal submitted with the native
// conversion payload sequence.
func (r *Runner) RunNativeConversion(id uint64) error {
	return r.ExecuteProposal(id, NativeConversionPayloads())
}
