// Copyright (C) 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package endian implements binary.Reader and binary.Writer for a fixed byte
// order over an io.Reader or io.Writer.
package endian

import (
	eb "encoding/binary"
	"io"
	"math"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
)

// chunkSize bounds the allocation made for a single length prefixed read, so
// that a corrupt length cannot allocate more than the source actually holds.
const chunkSize = 64 * 1024

// Reader returns a binary.Reader that decodes values in the given byte order.
func Reader(r io.Reader, order eb.ByteOrder) binary.Reader {
	return &reader{reader: r, byteOrder: order}
}

// Writer returns a binary.Writer that encodes values in the given byte order.
func Writer(w io.Writer, order eb.ByteOrder) binary.Writer {
	return &writer{writer: w, byteOrder: order}
}

type reader struct {
	reader    io.Reader
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

type writer struct {
	writer    io.Writer
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

func (r *reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.reader.Read(p)
}

func (r *reader) Data(p []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.reader, p)
}

func (w *writer) Data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, r.err = io.ReadFull(r.reader, r.tmp[:n]); r.err != nil {
		return nil
	}
	return r.tmp[:n]
}

func (r *reader) Bool() bool {
	return r.Uint8() != 0
}

func (w *writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (r *reader) Int8() int8 {
	return int8(r.Uint8())
}

func (w *writer) Int8(v int8) {
	w.Uint8(uint8(v))
}

func (r *reader) Uint8() uint8 {
	b := r.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.Data(w.tmp[:1])
}

func (r *reader) Int16() int16 {
	return int16(r.Uint16())
}

func (w *writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

func (r *reader) Uint16() uint16 {
	b := r.read(2)
	if b == nil {
		return 0
	}
	return r.byteOrder.Uint16(b)
}

func (w *writer) Uint16(v uint16) {
	w.byteOrder.PutUint16(w.tmp[:], v)
	w.Data(w.tmp[:2])
}

func (r *reader) Int32() int32 {
	return int32(r.Uint32())
}

func (w *writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

func (r *reader) Uint32() uint32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return r.byteOrder.Uint32(b)
}

func (w *writer) Uint32(v uint32) {
	w.byteOrder.PutUint32(w.tmp[:], v)
	w.Data(w.tmp[:4])
}

func (r *reader) Int64() int64 {
	return int64(r.Uint64())
}

func (w *writer) Int64(v int64) {
	w.Uint64(uint64(v))
}

func (r *reader) Uint64() uint64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return r.byteOrder.Uint64(b)
}

func (w *writer) Uint64(v uint64) {
	w.byteOrder.PutUint64(w.tmp[:], v)
	w.Data(w.tmp[:8])
}

func (r *reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

func (w *writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

func (r *reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

func (w *writer) Float64(v float64) {
	w.Uint64(math.Float64bits(v))
}

func (r *reader) Bytes() []byte {
	n := int(r.Count())
	if r.err != nil {
		return nil
	}
	out := make([]byte, 0, min(n, chunkSize))
	for len(out) < n {
		chunk := min(n-len(out), chunkSize)
		start := len(out)
		out = append(out, make([]byte, chunk)...)
		r.Data(out[start:])
		if r.err != nil {
			return nil
		}
	}
	return out
}

func (w *writer) Bytes(v []byte) {
	w.Count(uint32(len(v)))
	w.Data(v)
}

func (r *reader) String() string {
	return string(r.Bytes())
}

func (w *writer) String(v string) {
	w.Bytes([]byte(v))
}

func (r *reader) Count() uint32 {
	return r.Uint32()
}

func (w *writer) Count(v uint32) {
	w.Uint32(v)
}

func (w *writer) Error() error {
	return w.err
}

func (r *reader) Error() error {
	return r.err
}

func (r *reader) SetError(err error) {
	if r.err != nil {
		return
	}
	r.err = err
}

func (w *writer) SetError(err error) {
	if w.err != nil {
		return
	}
	w.err = err
}
