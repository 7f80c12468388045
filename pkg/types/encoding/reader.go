// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bufio"
	"encoding/binary"
	"io"
	"time"
)

// Reader reads a binary object written by [Writer]. Fields must be read in
// order of increasing field number. If the next field on the wire is not the
// requested one, the read reports absence instead of consuming it.
type Reader struct {
	r    *bufio.Reader
	err  error
	next uint64
	ok   bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Err returns the first error encountered while reading. Reaching the end of
// the input is not an error.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

func (r *Reader) peekField() (uint64, bool) {
	if r.err != nil {
		return 0, false
	}
	if r.ok {
		return r.next, true
	}
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		r.err = err
		return 0, false
	}
	r.next, r.ok = v, true
	return v, true
}

func (r *Reader) field(n uint) bool {
	v, ok := r.peekField()
	if !ok || v != uint64(n) {
		return false
	}
	r.ok = false
	return true
}

func (r *Reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *Reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(r.r)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *Reader) ReadUint(n uint) (uint64, bool) {
	if !r.field(n) {
		return 0, false
	}
	return r.uvarint(), r.err == nil
}

func (r *Reader) ReadInt(n uint) (int64, bool) {
	if !r.field(n) {
		return 0, false
	}
	return r.varint(), r.err == nil
}

func (r *Reader) ReadBool(n uint) (bool, bool) {
	if !r.field(n) {
		return false, false
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.err = err
		return false, false
	}
	return b != 0, true
}

func (r *Reader) ReadString(n uint) (string, bool) {
	b, ok := r.ReadBytes(n)
	return string(b), ok
}

func (r *Reader) ReadBytes(n uint) ([]byte, bool) {
	if !r.field(n) {
		return nil, false
	}
	l := r.uvarint()
	if r.err != nil {
		return nil, false
	}
	b := make([]byte, l)
	_, err := io.ReadFull(r.r, b)
	if err != nil {
		r.err = err
		return nil, false
	}
	return b, true
}

func (r *Reader) ReadHash(n uint) (*[32]byte, bool) {
	if !r.field(n) {
		return nil, false
	}
	v := new([32]byte)
	_, err := io.ReadFull(r.r, v[:])
	if err != nil {
		r.err = err
		return nil, false
	}
	return v, true
}

func (r *Reader) ReadTime(n uint) (time.Time, bool) {
	if !r.field(n) {
		return time.Time{}, false
	}
	v := r.varint()
	if r.err != nil {
		return time.Time{}, false
	}
	return time.Unix(v, 0).UTC(), true
}
