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
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Object is the client-visible state of a GL object. The host resource that
// backs it is owned by the NameSpace, not by the Object.
type Object interface {
	snapshot.Serializable
	Kind() host.ObjectKind
}

// newObject returns the zero state object for a freshly generated name.
func newObject(kind host.ObjectKind) (Object, error) {
	switch kind {
	case host.Shader:
		return &Shader{}, nil
	case host.Program:
		return &Program{}, nil
	case host.Texture:
		return newTexture(), nil
	case host.Buffer:
		return &Buffer{Usage: StaticDraw}, nil
	case host.Renderbuffer:
		return &Renderbuffer{InternalFormat: RGBA4}, nil
	case host.Sampler, host.Framebuffer, host.VertexArray:
		return &Plain{kind: kind}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidEnum, "object kind %v", kind)
	}
}

// Plain is an object whose state this package does not track. Only its name
// is shared and snapshotted.
type Plain struct {
	kind host.ObjectKind
}

// Kind implements Object.
func (o *Plain) Kind() host.ObjectKind { return o.kind }

// Save implements snapshot.Serializable.
func (o *Plain) Save(w binary.Writer) {}

// Load implements snapshot.Serializable.
func (o *Plain) Load(r binary.Reader) error { return nil }

// logLength is the GL length of a string including its terminator, or zero
// for an empty string.
func logLength(s string) int32 {
	if len(s) == 0 {
		return 0
	}
	return int32(len(s)) + 1
}

func boolParam(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
