// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package execute dispatches approved governance proposal steps to payload
// executors.
package execute

import (
	"gitlab.com/meridianframework/meridian/internal/database"
	"gitlab.com/meridianframework/meridian/internal/governance"
	"gitlab.com/meridianframework/meridian/internal/registry"
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

// An Executor executes one type of governance payload. Validate checks the
// payload without state access; Execute applies it.
type Executor interface {
	Type() protocol.PayloadType
	Validate(payload protocol.Payload) error
	Execute(st *State, payload protocol.Payload) error
}

// State is the context a payload executes in. The authority is the
// capability resolved from the payload's proposal step.
type State struct {
	Batch     *database.Batch
	Authority *governance.Authority
	Registry  *registry.Registry
}

var executors = map[protocol.PayloadType]Executor{}

func register(x Executor) {
	if _, ok := executors[x.Type()]; ok {
		panic("double registration of executor " + x.Type().String())
	}
	executors[x.Type()] = x
}

func executorFor(typ protocol.PayloadType) (Executor, error) {
	x, ok := executors[typ]
	if !ok {
		return nil, errors.InternalError.WithFormat("no executor for payload type %v", typ)
	}
	return x, nil
}
