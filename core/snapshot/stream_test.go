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

package snapshot_test

import (
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
)

func TestStreamCursors(t *testing.T) {
	ctx := log.Testing(t)
	s := snapshot.New(make([]byte, 8))

	n, err := s.Write([]byte{1, 2, 3})
	assert.For(ctx, "write").ThatError(err).Succeeded()
	assert.For(ctx, "write n").ThatInteger(n).Equals(3)
	assert.For(ctx, "written").ThatInteger(s.WrittenSize()).Equals(3)
	assert.For(ctx, "readable").ThatInteger(s.ReadSize()).Equals(3)

	buf := make([]byte, 2)
	_, err = s.Read(buf)
	assert.For(ctx, "read").ThatError(err).Succeeded()
	assert.For(ctx, "read bytes").ThatSlice(buf).Equals([]byte{1, 2})
	assert.For(ctx, "read pos").ThatInteger(s.ReadPos()).Equals(2)

	s.Write([]byte{4})
	_, err = s.Read(buf)
	assert.For(ctx, "read after write").ThatSlice(buf).Equals([]byte{3, 4})
	assert.For(ctx, "read size").ThatInteger(s.ReadSize()).Equals(0)

	s.Rewind()
	assert.For(ctx, "rewound").ThatInteger(s.ReadSize()).Equals(4)
}

func TestStreamShortRead(t *testing.T) {
	ctx := log.Testing(t)
	s := snapshot.Wrap([]byte{1, 2})
	buf := make([]byte, 3)
	n, err := s.Read(buf)
	assert.For(ctx, "short read").ThatError(err).Equals(snapshot.ErrShortRead)
	assert.For(ctx, "short read n").ThatInteger(n).Equals(0)
	assert.For(ctx, "not advanced").ThatInteger(s.ReadPos()).Equals(0)

	_, err = s.Read(nil)
	assert.For(ctx, "empty read").ThatError(err).Succeeded()
}

func TestStreamShortWrite(t *testing.T) {
	ctx := log.Testing(t)
	s := snapshot.New(make([]byte, 4))
	_, err := s.Write([]byte{1, 2, 3})
	assert.For(ctx, "fits").ThatError(err).Succeeded()
	_, err = s.Write([]byte{4, 5})
	assert.For(ctx, "overflow").ThatError(err).Equals(snapshot.ErrShortWrite)
	assert.For(ctx, "size unchanged").ThatInteger(s.WrittenSize()).Equals(3)
}

func TestGrowableStream(t *testing.T) {
	ctx := log.Testing(t)
	s := snapshot.NewGrowable(1)
	w := snapshot.Writer(s)
	for i := uint32(0); i < 100; i++ {
		w.Uint32(i)
	}
	assert.For(ctx, "error").ThatError(w.Error()).Succeeded()
	assert.For(ctx, "size").ThatInteger(s.WrittenSize()).Equals(400)
	r := snapshot.Reader(s)
	for i := uint32(0); i < 100; i++ {
		if !assert.For(ctx, "value %d", i).That(r.Uint32()).Equals(i) {
			break
		}
	}
}

func TestNestedStream(t *testing.T) {
	ctx := log.Testing(t)
	inner := snapshot.NewGrowable(16)
	inner.Write([]byte("hello"))
	inner.Read(make([]byte, 2))

	outer, err := snapshot.Save(inner)
	assert.For(ctx, "save").ThatError(err).Succeeded()

	restored := &snapshot.Stream{}
	assert.For(ctx, "load").ThatError(snapshot.Load(outer, restored)).Succeeded()
	assert.For(ctx, "bytes").ThatString(restored.Bytes()).Equals("hello")
	assert.For(ctx, "read pos").ThatInteger(restored.ReadPos()).Equals(2)
	assert.For(ctx, "outer drained").ThatInteger(outer.ReadSize()).Equals(0)
}

func TestHeader(t *testing.T) {
	ctx := log.Testing(t)
	kind := snapshot.Kind{'T', 'E', 'S', 'T'}
	s := snapshot.NewGrowable(16)
	snapshot.WriteHeader(snapshot.Writer(s), kind)
	assert.For(ctx, "header size").ThatInteger(s.WrittenSize()).Equals(12)

	assert.For(ctx, "same kind").ThatError(snapshot.ReadHeader(snapshot.Reader(s), kind)).Succeeded()

	s.Rewind()
	err := snapshot.ReadHeader(snapshot.Reader(s), snapshot.Kind{'D', 'I', 'S', 'P'})
	assert.For(ctx, "other kind").ThatError(err).HasCause(snapshot.ErrBadMagic)

	truncated := snapshot.Wrap(s.Bytes()[:6])
	err = snapshot.ReadHeader(snapshot.Reader(truncated), kind)
	assert.For(ctx, "truncated").ThatError(err).Equals(snapshot.ErrShortRead)
}

type point struct{ x, y int32 }

func (p *point) Save(w binary.Writer) {
	w.Int32(p.x)
	w.Int32(p.y)
}

func (p *point) Load(r binary.Reader) error {
	p.x, p.y = r.Int32(), r.Int32()
	return r.Error()
}

func TestSerializableRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	var s snapshot.Serializable = &point{3, -4}
	out, err := snapshot.Save(s)
	assert.For(ctx, "save").ThatError(err).Succeeded()

	got := &point{}
	assert.For(ctx, "load").ThatError(snapshot.Load(out, got)).Succeeded()
	assert.For(ctx, "value").That(*got).Equals(point{3, -4})

	short := snapshot.Wrap(out.Bytes()[:5])
	assert.For(ctx, "short").ThatError(snapshot.Load(short, &point{})).Equals(snapshot.ErrShortRead)
}
