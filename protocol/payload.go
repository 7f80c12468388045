// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"gitlab.com/meridianframework/meridian/pkg/errors"
	"gitlab.com/meridianframework/meridian/pkg/types/encoding"
)

// PayloadType identifies the operation a proposal step executes.
type PayloadType uint64

const (
	PayloadTypeInitializeConversionMap PayloadType = iota + 1
	PayloadTypeRegisterPairing
	PayloadTypeSetMigrationFlag
)

func (t PayloadType) String() string {
	switch t {
	case PayloadTypeInitializeConversionMap:
		return "initializeConversionMap"
	case PayloadTypeRegisterPairing:
		return "registerPairing"
	case PayloadTypeSetMigrationFlag:
		return "setMigrationFlag"
	default:
		return fmt.Sprintf("PayloadType:%d", t)
	}
}

func (t PayloadType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PayloadType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParsePayloadType(str)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParsePayloadType parses the string name of a payload type.
func ParsePayloadType(s string) (PayloadType, error) {
	switch s {
	case "initializeConversionMap":
		return PayloadTypeInitializeConversionMap, nil
	case "registerPairing":
		return PayloadTypeRegisterPairing, nil
	case "setMigrationFlag":
		return PayloadTypeSetMigrationFlag, nil
	default:
		return 0, errors.EncodingError.WithFormat("invalid payload type %q", s)
	}
}

// A Payload is the body of a proposal step.
type Payload interface {
	// Type returns the payload's type.
	Type() PayloadType

	// MarshalBinary encodes the payload without its type tag.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary decodes the payload without its type tag.
	UnmarshalBinary(data []byte) error
}

// InitializeConversionMap creates the conversion map if it does not exist.
// Coin names the coin the proposal is converting, so the step's script hash
// is bound to that coin; the map itself is global and the pairing is
// registered by a separate RegisterPairing step.
type InitializeConversionMap struct {
	Coin CoinType `json:"coin"`
}

func (InitializeConversionMap) Type() PayloadType { return PayloadTypeInitializeConversionMap }

func (p *InitializeConversionMap) MarshalBinary() ([]byte, error) {
	return marshalCoinPayload(p.Coin)
}

func (p *InitializeConversionMap) UnmarshalBinary(data []byte) error {
	return unmarshalCoinPayload(data, &p.Coin)
}

// RegisterPairing registers a pairing for one coin type.
type RegisterPairing struct {
	Coin CoinType `json:"coin"`
}

func (RegisterPairing) Type() PayloadType { return PayloadTypeRegisterPairing }

func (p *RegisterPairing) MarshalBinary() ([]byte, error) {
	return marshalCoinPayload(p.Coin)
}

func (p *RegisterPairing) UnmarshalBinary(data []byte) error {
	return unmarshalCoinPayload(data, &p.Coin)
}

// SetMigrationFlag enables or disables coin to fungible asset conversion.
type SetMigrationFlag struct {
	Enabled bool `json:"enabled"`
}

func (SetMigrationFlag) Type() PayloadType { return PayloadTypeSetMigrationFlag }

func (p *SetMigrationFlag) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteBool(1, p.Enabled)
	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

func (p *SetMigrationFlag) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadBool(1); ok {
		p.Enabled = v
	}
	return errors.EncodingError.Wrap(r.Err())
}

func marshalCoinPayload(coin CoinType) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteString(1, string(coin))
	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

func unmarshalCoinPayload(data []byte, coin *CoinType) error {
	r := encoding.NewReader(bytes.NewReader(data))
	if v, ok := r.ReadString(1); ok {
		*coin = CoinType(v)
	}
	return errors.EncodingError.Wrap(r.Err())
}

// NewPayload creates a payload of the given type.
func NewPayload(typ PayloadType) (Payload, error) {
	switch typ {
	case PayloadTypeInitializeConversionMap:
		return new(InitializeConversionMap), nil
	case PayloadTypeRegisterPairing:
		return new(RegisterPairing), nil
	case PayloadTypeSetMigrationFlag:
		return new(SetMigrationFlag), nil
	default:
		return nil, errors.BadRequest.WithFormat("invalid payload type %d", typ)
	}
}

// MarshalPayload encodes a payload with a leading type tag.
func MarshalPayload(p Payload) ([]byte, error) {
	body, err := p.MarshalBinary()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteUint(1, uint64(p.Type()))
	w.WriteBytes(2, body)
	if w.Err() != nil {
		return nil, errors.EncodingError.Wrap(w.Err())
	}
	return buf.Bytes(), nil
}

// UnmarshalPayload decodes a payload encoded by MarshalPayload.
func UnmarshalPayload(data []byte) (Payload, error) {
	r := encoding.NewReader(bytes.NewReader(data))
	typ, ok := r.ReadUint(1)
	if !ok {
		return nil, errors.EncodingError.With("missing payload type")
	}
	body, _ := r.ReadBytes(2)
	if r.Err() != nil {
		return nil, errors.EncodingError.Wrap(r.Err())
	}

	p, err := NewPayload(PayloadType(typ))
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	err = p.UnmarshalBinary(body)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	return p, nil
}

// PayloadHash returns the script hash of a payload. Proposals commit to this
// hash; resolution verifies it before anything executes.
func PayloadHash(p Payload) ([32]byte, error) {
	b, err := MarshalPayload(p)
	if err != nil {
		return [32]byte{}, errors.UnknownError.Wrap(err)
	}
	return sha256.Sum256(b), nil
}
