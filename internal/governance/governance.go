// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package governance implements the council proposal state machine and the
// resolution of approved proposal steps into privileged capabilities.
package governance

import (
	"time"

	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/logging"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// Options configure a Governor.
type Options struct {
	// Authority is the name of the root authority. Defaults to
	// protocol.RootAuthority.
	Authority string

	// Council lists the members allowed to submit and vote on proposals.
	// Defaults to protocol.DefaultCouncil.
	Council []string

	// Threshold is the number of approvals required before a proposal may
	// execute. Defaults to protocol.DefaultApprovalThreshold.
	Threshold int

	Logger logging.Logger
}

// A Governor manages the proposal lifecycle. All methods operate within the
// caller's batch; nothing is persisted until the batch commits.
type Governor struct {
	authority string
	council   []string
	threshold int
	logger    logging.Logger
}

func New(opts Options) *Governor {
	g := new(Governor)
	g.authority = opts.Authority
	if g.authority == "" {
		g.authority = protocol.RootAuthority
	}
	g.council = opts.Council
	if g.council == nil {
		g.council = protocol.DefaultCouncil
	}
	g.threshold = opts.Threshold
	if g.threshold == 0 {
		g.threshold = protocol.DefaultApprovalThreshold
	}
	if opts.Logger != nil {
		g.logger = opts.Logger.With("module", "governance")
	} else {
		g.logger = logging.NullLogger{}
	}
	return g
}

// Authority returns the name of the root authority.
func (g *Governor) Authority() string { return g.authority }

func (g *Governor) isMember(name string) bool {
	for _, m := range g.council {
		if m == name {
			return true
		}
	}
	return false
}

// Submit creates a new pending proposal with one step per payload. Each
// step's script hash commits the proposal to the exact payload that may
// execute it.
func (g *Governor) Submit(batch *database.Batch, title, submitter string, payloads []protocol.Payload) (*protocol.Proposal, error) {
	if !g.isMember(submitter) {
		return nil, errors.Unauthorized.WithFormat("%s is not a council member", submitter)
	}
	if title == "" {
		return nil, errors.BadRequest.With("missing title")
	}
	if len(payloads) == 0 {
		return nil, errors.BadRequest.With("a proposal must have at least one step")
	}

	p := new(protocol.Proposal)
	p.Title = title
	p.Submitter = submitter
	p.Status = protocol.ProposalPending
	p.SubmittedAt = time.Now().UTC()
	for _, payload := range payloads {
		hash, err := protocol.PayloadHash(payload)
		if err != nil {
			return nil, errors.UnknownError.WithFormat("hash payload: %w", err)
		}
		p.Steps = append(p.Steps, protocol.ProposalStep{ScriptHash: hash})
	}

	count, err := batch.ProposalCount()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	p.ID = count + 1

	err = batch.PutProposal(p)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	err = batch.PutProposalCount(p.ID)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	g.logger.Info("Submitted proposal", "id", p.ID, "title", title, "submitter", submitter, "steps", len(p.Steps))
	return p, nil
}

// Approve records a council member's approval. Once the approval threshold
// is reached the proposal becomes approved.
func (g *Governor) Approve(batch *database.Batch, id uint64, member string) (*protocol.Proposal, error) {
	return g.vote(batch, id, member, true)
}

// Reject records a council member's rejection. Once approval can no longer
// be reached the proposal becomes rejected.
func (g *Governor) Reject(batch *database.Batch, id uint64, member string) (*protocol.Proposal, error) {
	return g.vote(batch, id, member, false)
}

func (g *Governor) vote(batch *database.Batch, id uint64, member string, approve bool) (*protocol.Proposal, error) {
	if !g.isMember(member) {
		return nil, errors.Unauthorized.WithFormat("%s is not a council member", member)
	}

	p, err := batch.Proposal(id)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	if p.Status != protocol.ProposalPending {
		return nil, errors.NotAllowed.WithFormat("proposal %d is %v, voting is closed", id, p.Status)
	}
	if p.HasVoted(member) {
		return nil, errors.Conflict.WithFormat("%s has already voted on proposal %d", member, id)
	}

	if approve {
		p.Approvals = append(p.Approvals, member)
		if len(p.Approvals) >= g.threshold {
			p.Status = protocol.ProposalApproved
		}
	} else {
		p.Rejections = append(p.Rejections, member)
		if len(p.Rejections) > len(g.council)-g.threshold {
			p.Status = protocol.ProposalRejected
		}
	}

	err = batch.PutProposal(p)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	g.logger.Info("Recorded vote", "id", id, "member", member, "approve", approve, "status", p.Status.String())
	return p, nil
}

// ResolveStep validates that the proposal is approved and at its next
// unexecuted step, and that the expected hash matches the step's recorded
// script hash. On success it marks the step executed and returns a
// capability for the root authority. Resolving the final step marks the
// whole proposal executed.
func (g *Governor) ResolveStep(batch *database.Batch, id uint64, authority string, expected [32]byte) (*Authority, error) {
	if authority != g.authority {
		return nil, errors.NotReady.WithFormat("unknown authority %s", authority)
	}

	p, err := batch.Proposal(id)
	switch {
	case err == nil:
		// Ok
	case errors.Is(err, errors.NotFound):
		return nil, errors.NotReady.WithFormat("proposal %d does not exist", id)
	default:
		return nil, errors.UnknownError.Wrap(err)
	}

	if p.Status != protocol.ProposalApproved {
		return nil, errors.NotReady.WithFormat("proposal %d is %v, not approved", id, p.Status)
	}

	step, ok := p.NextStep()
	if !ok {
		return nil, errors.NotReady.WithFormat("proposal %d has no remaining steps", id)
	}
	if p.Steps[step].ScriptHash != expected {
		return nil, errors.NotReady.WithFormat("script hash does not match step %d of proposal %d", step, id)
	}

	p.Steps[step].Executed = true
	p.Steps[step].ExecutedAt = time.Now().UTC()
	if _, ok := p.NextStep(); !ok {
		p.Status = protocol.ProposalExecuted
	}

	err = batch.PutProposal(p)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	g.logger.Info("Resolved proposal step", "id", id, "step", step, "status", p.Status.String())
	return &Authority{name: g.authority, proposal: id, step: step}, nil
}

// MarkFailed records that execution of the proposal failed.
func (g *Governor) MarkFailed(batch *database.Batch, id uint64) error {
	p, err := batch.Proposal(id)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	p.Status = protocol.ProposalFailed
	err = batch.PutProposal(p)
	if err != nil {
		return errors.UnknownError.Wrap(err)
	}
	g.logger.Info("Marked proposal failed", "id", id)
	return nil
}

// Proposal loads a proposal.
func (g *Governor) Proposal(batch *database.Batch, id uint64) (*protocol.Proposal, error) {
	return batch.Proposal(id)
}

// ListProposals loads every proposal, in submission order.
func (g *Governor) ListProposals(batch *database.Batch) ([]*protocol.Proposal, error) {
	count, err := batch.ProposalCount()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	list := make([]*protocol.Proposal, 0, count)
	for id := uint64(1); id <= count; id++ {
		p, err := batch.Proposal(id)
		if err != nil {
			return nil, errors.UnknownError.Wrap(err)
		}
		list = append(list, p)
	}
	return list, nil
}
