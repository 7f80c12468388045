// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package record

import (
	"bytes"
	"encoding/binary"
	"io"

	"gitlab.com/meridianframework/meridian/pkg/errors"
)

// Key part type tags for the binary encoding.
const (
	partString = 1
	partInt    = 2
	partUint   = 3
	partBytes  = 4
	partHash   = 5
)

// MarshalBinary encodes the key as a sequence of tagged parts. The encoding
// is used by storage drivers that keep plain keys, so it must be stable.
func (k *Key) MarshalBinary() ([]byte, error) {
	if err := k.checkParts(); err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	buf := new(bytes.Buffer)
	for _, v := range k.values {
		switch v := v.(type) {
		case string:
			buf.WriteByte(partString)
			writeLen(buf, len(v))
			buf.WriteString(v)
		case int:
			buf.WriteByte(partInt)
			writeInt64(buf, int64(v))
		case int64:
			buf.WriteByte(partInt)
			writeInt64(buf, v)
		case uint:
			buf.WriteByte(partUint)
			writeUint64(buf, uint64(v))
		case uint64:
			buf.WriteByte(partUint)
			writeUint64(buf, v)
		case []byte:
			buf.WriteByte(partBytes)
			writeLen(buf, len(v))
			buf.Write(v)
		case [32]byte:
			buf.WriteByte(partHash)
			buf.Write(v[:])
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a key encoded by MarshalBinary.
func (k *Key) UnmarshalBinary(b []byte) error {
	rd := bytes.NewReader(b)
	var values []any
	for rd.Len() > 0 {
		tag, err := rd.ReadByte()
		if err != nil {
			return errors.EncodingError.Wrap(err)
		}

		switch tag {
		case partString:
			v, err := readBytes(rd)
			if err != nil {
				return err
			}
			values = append(values, string(v))
		case partInt:
			var v int64
			err = binary.Read(rd, binary.BigEndian, &v)
			if err != nil {
				return errors.EncodingError.Wrap(err)
			}
			values = append(values, v)
		case partUint:
			var v uint64
			err = binary.Read(rd, binary.BigEndian, &v)
			if err != nil {
				return errors.EncodingError.Wrap(err)
			}
			values = append(values, v)
		case partBytes:
			v, err := readBytes(rd)
			if err != nil {
				return err
			}
			values = append(values, v)
		case partHash:
			var v [32]byte
			_, err = io.ReadFull(rd, v[:])
			if err != nil {
				return errors.EncodingError.Wrap(err)
			}
			values = append(values, v)
		default:
			return errors.EncodingError.WithFormat("invalid key part tag %d", tag)
		}
	}
	k.values = values
	return nil
}

func writeLen(buf *bytes.Buffer, n int) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readBytes(rd *bytes.Reader) ([]byte, error) {
	var n uint32
	err := binary.Read(rd, binary.BigEndian, &n)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	if int(n) > rd.Len() {
		return nil, errors.EncodingError.WithFormat("invalid key part length %d", n)
	}
	v := make([]byte, n)
	_, err = io.ReadFull(rd, v)
	if err != nil {
		return nil, errors.EncodingError.Wrap(err)
	}
	return v, nil
}
