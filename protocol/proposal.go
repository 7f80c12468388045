// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/encoding"
)

// ProposalStatus is the lifecycle state of a governance proposal.
type ProposalStatus uint64

const (
	ProposalPending ProposalStatus = iota + 1
	ProposalApproved
	ProposalRejected
	ProposalExecuted
	ProposalFailed
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalPending:
		return "pending"
	case ProposalApproved:
		return "approved"
	case ProposalRejected:
		return "rejected"
	case ProposalExecuted:
		return "executed"
	case ProposalFailed:
		return "failed"
	default:
		return fmt.Sprintf("ProposalStatus:%d", s)
	}
}

func (s ProposalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProposalStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	switch str {
	case "pending":
		*s = ProposalPending
	case "approved":
		*s = ProposalApproved
	case "rejected":
		*s = ProposalRejected
	case "executed":
		*s = ProposalExecuted
	case "failed":
		*s = ProposalFailed
	default:
		return errors.EncodingError.WithFormat("invalid proposal status %q", str)
	}
	return nil
}

// A ProposalStep is one step of a multi-step proposal. The script hash
// commits the proposal to the exact payload that may execute the step.
type ProposalStep struct {
	ScriptHash [32]byte  `json:"scriptHash"`
	Executed   bool      `json:"executed"`
	ExecutedAt time.Time `json:"executedAt,omitempty"`
}

// A Proposal is a multi-step governance proposal.
type Proposal struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Submitter   string         `json:"submitter"`
	Status      ProposalStatus `json:"status"`
	Steps       []ProposalStep `json:"steps"`
	Approvals   []string       `json:"approvals,omitempty"`
	Rejections  []string       `json:"rejections,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// NextStep returns the index of the first unexecuted step.
func (p *Proposal) NextStep() (int, bool) {
	for i, s := range p.Steps {
		if !s.Executed {
			return i, true
		}
	}
	return 0, false
}

// HasVoted returns true if the member has already approved or rejected the
// proposal.
func (p *Proposal) HasVoted(member string) bool {
	for _, m := range p.Approvals {
		if m == member {
			return true
		}
	}
	for _, m := range p.Rejections {
		if m == member {
			return true
		}
	}
	return false
}

func (p *Proposal) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, p.ID)
	w.WriteString(2, p.Title)
	w.WriteString(3, p.Submitter)
	w.WriteUint(4, uint64(p.Status))
	w.WriteTime(5, p.SubmittedAt)

	// Length-prefixed nested objects
	steps := new(bytes.Buffer)
	sw := encoding.NewWriter(steps)
	sw.WriteUint(1, uint64(len(p.Steps)))
	for i, s := range p.Steps {
		hash := s.ScriptHash
		b := new(bytes.Buffer)
		bw := encoding.NewWriter(b)
		bw.WriteHash(1, &hash)
		bw.WriteBool(2, s.Executed)
		bw.WriteTime(3, s.ExecutedAt)
		if bw.Err() != nil {
			return nil, errors.EncodingError.Wrap(bw.Err())
		}
		sw.WriteBytes(uint(i)+2, b.Bytes())
	}
	if sw.Err() != nil {
		return nil, errors.EncodingError.Wrap(sw.Err())
	}
	w.WriteBytes(6, steps.Bytes())

	votes, err := json.Marshal([2][]string{p.Approvals, p.Rejections})
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	w.WriteBytes(7, votes)

	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

func (p *Proposal) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadUint(1); ok {
		p.ID = v
	}
	if v, ok := r.ReadString(2); ok {
		p.Title = v
	}
	if v, ok := r.ReadString(3); ok {
		p.Submitter = v
	}
	if v, ok := r.ReadUint(4); ok {
		p.Status = ProposalStatus(v)
	}
	if v, ok := r.ReadTime(5); ok {
		p.SubmittedAt = v
	}

	if b, ok := r.ReadBytes(6); ok {
		sr := encoding.NewReader(bytes.NewReader(b))
		n, _ := sr.ReadUint(1)
		p.Steps = make([]ProposalStep, n)
		for i := range p.Steps {
			sb, ok := sr.ReadBytes(uint(i) + 2)
			if !ok {
				return errors.EncodingError.WithFormat("missing proposal step %d", i)
			}
			br := encoding.NewReader(bytes.NewReader(sb))
			if h, ok := br.ReadHash(1); ok {
				p.Steps[i].ScriptHash = *h
			}
			if v, ok := br.ReadBool(2); ok {
				p.Steps[i].Executed = v
			}
			if v, ok := br.ReadTime(3); ok {
				p.Steps[i].ExecutedAt = v
			}
			if br.Err() != nil {
				return errors.EncodingError.Wrap(br.Err())
			}
		}
		if sr.Err() != nil {
			return errors.EncodingError.Wrap(sr.Err())
		}
	}

	if b, ok := r.ReadBytes(7); ok {
		var votes [2][]string
		if err := json.Unmarshal(b, &votes); err != nil {
			return errors.EncodingError.Wrap(err)
		}
		p.Approvals, p.Rejections = votes[0], votes[1]
	}

	return errors.EncodingError.Wrap(r.Err())
}
