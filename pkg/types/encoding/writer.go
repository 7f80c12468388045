// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"encoding/binary"
	"io"
	"time"
)

// Writer writes a binary object as a sequence of field number-value pairs.
// Fields must be written in order of increasing field number. An omitted
// field is simply not written, so zero values cost nothing on the wire.
type Writer struct {
	w    io.Writer
	err  error
	last uint
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error { return w.err }

func (w *Writer) field(n uint) bool {
	if w.err != nil {
		return false
	}
	if n <= w.last {
		w.err = ErrFieldOrder
		return false
	}
	w.last = n
	w.uvarint(uint64(n))
	return w.err == nil
}

func (w *Writer) uvarint(v uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], v)
	w.write(b[:n])
}

func (w *Writer) varint(v int64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutVarint(b[:], v)
	w.write(b[:n])
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) WriteUint(n uint, v uint64) {
	if v == 0 {
		return
	}
	if w.field(n) {
		w.uvarint(v)
	}
}

func (w *Writer) WriteInt(n uint, v int64) {
	if v == 0 {
		return
	}
	if w.field(n) {
		w.varint(v)
	}
}

func (w *Writer) WriteBool(n uint, v bool) {
	if !v {
		return
	}
	if w.field(n) {
		w.write([]byte{1})
	}
}

func (w *Writer) WriteString(n uint, v string) {
	if v == "" {
		return
	}
	if w.field(n) {
		w.uvarint(uint64(len(v)))
		w.write([]byte(v))
	}
}

func (w *Writer) WriteBytes(n uint, v []byte) {
	if len(v) == 0 {
		return
	}
	if w.field(n) {
		w.uvarint(uint64(len(v)))
		w.write(v)
	}
}

func (w *Writer) WriteHash(n uint, v *[32]byte) {
	if v == nil || *v == [32]byte{} {
		return
	}
	if w.field(n) {
		w.write(v[:])
	}
}

func (w *Writer) WriteTime(n uint, v time.Time) {
	if v.IsZero() {
		return
	}
	if w.field(n) {
		w.varint(v.UTC().Unix())
	}
}
