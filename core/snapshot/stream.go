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

// Package snapshot provides the byte stream that checkpoints are written to
// and read from, and the Serializable protocol implemented by every object
// that takes part in a checkpoint.
package snapshot

import "github.com/Shinoby92/platform-external-qemu/core/data/binary"

// Stream is a byte buffer with independent read and write cursors.
//
// Writes append at the write position. Reads copy from the read position and
// never pass the write position. A stream can be filled by a producer and then
// drained by a consumer without copying.
//
// Reads are all-or-nothing: a Read that asks for more bytes than remain
// returns ErrShortRead and does not advance. Stream is not safe for concurrent
// use.
type Stream struct {
	data     []byte
	growable bool
	readPos  int
	writePos int
}

// New returns a stream that writes into buf. The capacity of the stream is
// len(buf); a write that does not fit fails with ErrShortWrite.
func New(buf []byte) *Stream {
	return &Stream{data: buf}
}

// NewGrowable returns a stream whose backing buffer grows as it is written.
func NewGrowable(capacity int) *Stream {
	return &Stream{data: make([]byte, 0, capacity), growable: true}
}

// Wrap returns a stream for reading data that has already been written.
func Wrap(data []byte) *Stream {
	return &Stream{data: data, writePos: len(data)}
}

// Write appends p at the write position.
func (s *Stream) Write(p []byte) (int, error) {
	if s.growable {
		s.data = append(s.data[:s.writePos], p...)
		s.writePos += len(p)
		return len(p), nil
	}
	if len(p) > len(s.data)-s.writePos {
		return 0, ErrShortWrite
	}
	copy(s.data[s.writePos:], p)
	s.writePos += len(p)
	return len(p), nil
}

// Read copies len(p) bytes from the read position into p.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) > s.ReadSize() {
		return 0, ErrShortRead
	}
	copy(p, s.data[s.readPos:])
	s.readPos += len(p)
	return len(p), nil
}

// WrittenSize returns the number of bytes written to the stream.
func (s *Stream) WrittenSize() int { return s.writePos }

// ReadPos returns the read cursor.
func (s *Stream) ReadPos() int { return s.readPos }

// ReadSize returns the number of bytes that can still be read.
func (s *Stream) ReadSize() int { return s.writePos - s.readPos }

// Bytes returns the written bytes. The slice aliases the stream's buffer.
func (s *Stream) Bytes() []byte { return s.data[:s.writePos] }

// Rewind moves the read cursor back to the start of the stream.
func (s *Stream) Rewind() { s.readPos = 0 }

// Save writes the stream's contents and cursors to w, so a stream can be
// nested inside another checkpoint.
func (s *Stream) Save(w binary.Writer) {
	w.Uint32(uint32(s.readPos))
	w.Bytes(s.Bytes())
}

// Load replaces the stream's contents and cursors with those read from r.
// The loaded stream is growable.
func (s *Stream) Load(r binary.Reader) error {
	readPos := int(r.Uint32())
	data := r.Bytes()
	if err := r.Error(); err != nil {
		return err
	}
	if readPos > len(data) {
		return ErrCorrupt
	}
	s.data, s.growable = data, true
	s.readPos, s.writePos = readPos, len(data)
	return nil
}
