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

func init() { register(RegisterPairing{}) }

// RegisterPairing registers a coin type's pairing in the conversion map.
type RegisterPairing struct{}

func (RegisterPairing) Type() protocol.PayloadType {
	return protocol.PayloadTypeRegisterPairing
}

func (RegisterPairing) Validate(payload protocol.Payload) error {
	body, ok := payload.(*protocol.RegisterPairing)
	if !ok {
		return errors.InternalError.WithFormat("invalid payload: want %v, got %v", protocol.PayloadTypeRegisterPairing, payload.Type())
	}
	return body.Coin.Valid()
}

func (RegisterPairing) Execute(st *State, payload protocol.Payload) error {
	body, ok := payload.(*protocol.RegisterPairing)
	if !ok {
		return errors.InternalError.WithFormat("invalid payload: want %v, got %v", protocol.PayloadTypeRegisterPairing, payload.Type())
	}

	_, err := st.Registry.RegisterPairing(st.Batch, st.Authority, body.Coin)
	return errors.UnknownError.Wrap(err)
}
