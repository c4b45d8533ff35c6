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
	"sort"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Level is a single mip level image of a texture.
type Level struct {
	Level          int32
	Width          int32
	Height         int32
	InternalFormat uint32
	Format         uint32
	Type           uint32
	Data           []byte
}

// Texture is the state of a texture object.
type Texture struct {
	// Target is zero until the texture is first bound.
	Target    uint32
	MinFilter int32
	MagFilter int32
	WrapS     int32
	WrapT     int32
	Levels    []Level // Sorted by Level.
}

func newTexture() *Texture {
	return &Texture{
		MinFilter: NearestMipmapLinear,
		MagFilter: Linear,
		WrapS:     Repeat,
		WrapT:     Repeat,
	}
}

func validTextureTarget(t uint32) bool {
	switch t {
	case Texture2D, Texture3D, TextureCubeMap, Texture2DArray, TextureExternalOES:
		return true
	}
	return false
}

// Kind implements Object.
func (t *Texture) Kind() host.ObjectKind { return host.Texture }

func (t *Texture) bind(target uint32) error {
	switch t.Target {
	case 0:
		t.Target = target
	case target:
	default:
		return errors.Wrapf(ErrInvalidOperation,
			"texture bound to 0x%x cannot be bound to 0x%x", t.Target, target)
	}
	return nil
}

// Level returns the image at the given mip level, or nil.
func (t *Texture) Level(level int32) *Level {
	i := sort.Search(len(t.Levels), func(i int) bool { return t.Levels[i].Level >= level })
	if i < len(t.Levels) && t.Levels[i].Level == level {
		return &t.Levels[i]
	}
	return nil
}

func (t *Texture) setLevel(l Level) {
	if existing := t.Level(l.Level); existing != nil {
		*existing = l
		return
	}
	t.Levels = append(t.Levels, l)
	sort.Slice(t.Levels, func(i, j int) bool { return t.Levels[i].Level < t.Levels[j].Level })
}

func (t *Texture) setParam(pname uint32, value int32) error {
	switch pname {
	case TextureMinFilter:
		t.MinFilter = value
	case TextureMagFilter:
		t.MagFilter = value
	case TextureWrapS:
		t.WrapS = value
	case TextureWrapT:
		t.WrapT = value
	default:
		return errors.Wrapf(ErrInvalidEnum, "texture parameter 0x%x", pname)
	}
	return nil
}

// LevelParam returns the glGetTexLevelParameteriv value for pname.
func (t *Texture) LevelParam(level int32, pname uint32) (int32, error) {
	l := t.Level(level)
	if l == nil {
		l = &Level{}
	}
	switch pname {
	case TextureWidth:
		return l.Width, nil
	case TextureHeight:
		return l.Height, nil
	case TextureInternalFormat:
		return int32(l.InternalFormat), nil
	default:
		return 0, errors.Wrapf(ErrInvalidEnum, "texture level parameter 0x%x", pname)
	}
}

// Save implements snapshot.Serializable.
func (t *Texture) Save(w binary.Writer) {
	w.Uint32(t.Target)
	w.Int32(t.MinFilter)
	w.Int32(t.MagFilter)
	w.Int32(t.WrapS)
	w.Int32(t.WrapT)
	w.Count(uint32(len(t.Levels)))
	for _, l := range t.Levels {
		w.Int32(l.Level)
		w.Int32(l.Width)
		w.Int32(l.Height)
		w.Uint32(l.InternalFormat)
		w.Uint32(l.Format)
		w.Uint32(l.Type)
		w.Bytes(l.Data)
	}
}

// Load implements snapshot.Serializable.
func (t *Texture) Load(r binary.Reader) error {
	t.Target = r.Uint32()
	t.MinFilter = r.Int32()
	t.MagFilter = r.Int32()
	t.WrapS = r.Int32()
	t.WrapT = r.Int32()
	n := r.Count()
	t.Levels = nil
	for i := uint32(0); i < n && r.Error() == nil; i++ {
		l := Level{
			Level:          r.Int32(),
			Width:          r.Int32(),
			Height:         r.Int32(),
			InternalFormat: r.Uint32(),
			Format:         r.Uint32(),
			Type:           r.Uint32(),
			Data:           r.Bytes(),
		}
		if r.Error() == nil && len(t.Levels) > 0 && t.Levels[len(t.Levels)-1].Level >= l.Level {
			r.SetError(errors.Wrapf(snapshot.ErrCorrupt, "texture level %d out of order", l.Level))
		}
		t.Levels = append(t.Levels, l)
	}
	if err := r.Error(); err != nil {
		return err
	}
	if t.Target != 0 && !validTextureTarget(t.Target) {
		return errors.Wrapf(snapshot.ErrCorrupt, "texture target 0x%x", t.Target)
	}
	return nil
}
