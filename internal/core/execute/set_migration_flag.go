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

func init() { register(SetMigrationFlag{}) }

// SetMigrationFlag enables or disables coin to asset migration.
type SetMigrationFlag struct{}

func (SetMigrationFlag) Type() protocol.PayloadType {
	return protocol.PayloadTypeSetMigrationFlag
}

func (SetMigrationFlag) Validate(payload protocol.Payload) error {
	_, ok := payload.(*protocol.SetMigrationFlag)
	if !ok {
		return errors.InternalError.WithFormat("invalid payload: want %v, got %v", protocol.PayloadTypeSetMigrationFlag, payload.Type())
	}
	return nil
}

func (SetMigrationFlag) Execute(st *State, payload protocol.Payload) error {
	body, ok := payload.(*protocol.SetMigrationFlag)
	if !ok {
		return errors.InternalError.WithFormat("invalid payload: want %v, got %v", protocol.PayloadTypeSetMigrationFlag, payload.Type())
	}

	err := st.Registry.SetMigrationFlag(st.Batch, st.Authority, body.Enabled)
	return errors.UnknownError.Wrap(err)
}
