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

package gles

import (
	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Buffer is the state of a buffer object.
type Buffer struct {
	Usage uint32
	Data  []byte
}

// Kind implements Object.
func (b *Buffer) Kind() host.ObjectKind { return host.Buffer }

// Param returns the glGetBufferParameteriv value for pname.
func (b *Buffer) Param(pname uint32) (int32, error) {
	switch pname {
	case BufferSize:
		return int32(len(b.Data)), nil
	case BufferUsage:
		return int32(b.Usage), nil
	default:
		return 0, errors.Wrapf(ErrInvalidEnum, "buffer parameter 0x%x", pname)
	}
}

// Save implements snapshot.Serializable.
func (b *Buffer) Save(w binary.Writer) {
	w.Uint32(b.Usage)
	w.Bytes(b.Data)
}

// Load implements snapshot.Serializable.
func (b *Buffer) Load(r binary.Reader) error {
	b.Usage = r.Uint32()
	b.Data = r.Bytes()
	return r.Error()
}

// Renderbuffer is the state of a renderbuffer object.
type Renderbuffer struct {
	InternalFormat uint32
	Width          int32
	Height         int32
	Samples        int32
}

// Kind implements Object.
func (b *Renderbuffer) Kind() host.ObjectKind { return host.Renderbuffer }

// Param returns the glGetRenderbufferParameteriv value for pname.
func (b *Renderbuffer) Param(pname uint32) (int32, error) {
	switch pname {
	case RenderbufferWidth:
		return b.Width, nil
	case RenderbufferHeight:
		return b.Height, nil
	case RenderbufferInternalFormat:
		return int32(b.InternalFormat), nil
	case RenderbufferSamples:
		return b.Samples, nil
	default:
		return 0, errors.Wrapf(ErrInvalidEnum, "renderbuffer parameter 0x%x", pname)
	}
}

// Save implements snapshot.Serializable.
func (b *Renderbuffer) Save(w binary.Writer) {
	w.Uint32(b.InternalFormat)
	w.Int32(b.Width)
	w.Int32(b.Height)
	w.Int32(b.Samples)
}

// Load implements snapshot.Serializable.
func (b *Renderbuffer) Load(r binary.Reader) error {
	b.InternalFormat = r.Uint32()
	b.Width = r.Int32()
	b.Height = r.Int32()
	b.Samples = r.Int32()
	return r.Error()
}
