// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package execute

import (
	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/protocol"
)

func init() { register(InitializeConversionMap{}) }

// InitializeConversionMap ensures the conversion map exists.
type InitializeConversionMap struct{}

func (InitializeConversionMap) Type() protocol.PayloadType {
	return protocol.PayloadTypeInitializeConversionMap
}

func (InitializeConversionMap) Validate(payload protocol.Payload) error {
	body, ok := payload.(*protocol.InitializeConversionMap)
	if !ok {
		return errors.InternalError.WithFormat("invalid payload: want %v, got %v", protocol.PayloadTypeInitializeConversionMap, payload.Type())
	}
	return body.Coin.Valid()
}

func (InitializeConversionMap) Execute(st *State, payload protocol.Payload) error {
	err := st.Registry.EnsureConversionMap(st.Batch, st.Authority)
	return errors.UnknownError.Wrap(err)
}
