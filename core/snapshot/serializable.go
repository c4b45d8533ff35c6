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

package snapshot

import (
	eb "encoding/binary"
	"io"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/data/endian"
	"github.com/pkg/errors"
)

// Version is the checkpoint format version written by this package.
const Version = 1

var magic = [4]byte{'E', 'G', 'L', 'S'}

// ByteOrder is the byte order of every checkpoint.
var ByteOrder = eb.LittleEndian

// Serializable is implemented by every object that can be captured in a
// checkpoint. Save must write every field that affects observable state in a
// fixed order. Load must read them back in the same order and leave the
// receiver indistinguishable from the object that was saved.
//
// Save reports failures through the writer's sticky error.
type Serializable interface {
	Save(w binary.Writer)
	Load(r binary.Reader) error
}

// Kind is a four character tag that identifies the root object of a
// checkpoint.
type Kind [4]byte

// Writer returns a binary.Writer that encodes to w in the checkpoint byte
// order.
func Writer(w io.Writer) binary.Writer { return endian.Writer(w, ByteOrder) }

// Reader returns a binary.Reader that decodes from r in the checkpoint byte
// order.
func Reader(r io.Reader) binary.Reader { return endian.Reader(r, ByteOrder) }

// WriteHeader writes the checkpoint header for a root object of kind k.
func WriteHeader(w binary.Writer, k Kind) {
	w.Data(magic[:])
	w.Uint32(Version)
	w.Data(k[:])
}

// ReadHeader reads and checks a checkpoint header for a root object of kind
// k.
func ReadHeader(r binary.Reader, k Kind) error {
	var got [4]byte
	r.Data(got[:])
	version := r.Uint32()
	var kind Kind
	r.Data(kind[:])
	if err := r.Error(); err != nil {
		return err
	}
	if got != magic || kind != k {
		return errors.Wrapf(ErrBadMagic, "expected %q checkpoint, got %q/%q", k[:], got[:], kind[:])
	}
	if version > Version {
		return errors.Wrapf(ErrVersion, "version %d, supported up to %d", version, Version)
	}
	return nil
}

// Save is a helper that encodes s into a new growable stream.
func Save(s Serializable) (*Stream, error) {
	out := NewGrowable(4096)
	w := Writer(out)
	s.Save(w)
	return out, w.Error()
}

// Load is a helper that decodes s from the unread part of in.
func Load(in *Stream, s Serializable) error {
	r := Reader(in)
	if err := s.Load(r); err != nil {
		return err
	}
	return r.Error()
}
