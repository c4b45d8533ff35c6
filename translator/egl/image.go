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

package egl

import (
	"context"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
)

// Image is shareable pixel storage. An image made from a texture keeps the
// texture's host storage alive after the texture is deleted.
type Image struct {
	refCounted
	display        *Display
	target         int32
	width          int32
	height         int32
	internalFormat uint32
	source         Handle
	texture        gles.GlobalName
	host           host.Image
}

func newImage(d *Display, target int32, width, height int32, internalFormat uint32, source Handle, texture gles.GlobalName, hi host.Image) *Image {
	i := &Image{
		display:        d,
		target:         target,
		width:          width,
		height:         height,
		internalFormat: internalFormat,
		source:         source,
		texture:        texture,
		host:           hi,
	}
	i.init(i.destroy)
	return i
}

func (i *Image) destroy(ctx context.Context) error {
	errs := fault.List{}
	errs.Collect(i.display.backend.DestroyImage(ctx, i.host))
	if i.texture != 0 && !i.stale.Load() {
		errs.Collect(i.display.names.ReleaseHost(ctx, i.texture))
	}
	if err := errs.First(); err != nil {
		return log.Errf(ctx, err, "Destroying image %d", i.handle)
	}
	return nil
}

// Target returns the EGL target the image was created from.
func (i *Image) Target() int32 { return i.target }

// Size returns the size of the image.
func (i *Image) Size() (width, height int32) { return i.width, i.height }

// InternalFormat returns the GL internal format of the image storage.
func (i *Image) InternalFormat() uint32 { return i.internalFormat }

// Source returns the context the image was created in.
func (i *Image) Source() Handle { return i.source }

// Texture returns the host texture the image aliases, or zero.
func (i *Image) Texture() gles.GlobalName { return i.texture }

// Host returns the host image.
func (i *Image) Host() host.Image { return i.host }

func blankImage(d *Display) *Image {
	i := &Image{display: d}
	i.init(i.destroy)
	return i
}

// Save writes the image to w. The texture is written as a reference into
// the global shared namespace.
func (i *Image) Save(w binary.Writer) {
	w.Uint32(uint32(i.target))
	w.Int32(i.width)
	w.Int32(i.height)
	w.Uint32(i.internalFormat)
	w.Uint32(uint32(i.source))
	w.Bool(i.texture != 0)
	if i.texture != 0 {
		w.Uint8(uint8(host.Texture))
		w.Uint32(uint32(i.texture))
	}
}

// Load reads an image written by Save. The host image is not created.
func (i *Image) Load(r binary.Reader) error {
	i.target = int32(r.Uint32())
	i.width = r.Int32()
	i.height = r.Int32()
	i.internalFormat = r.Uint32()
	i.source = Handle(r.Uint32())
	if r.Bool() {
		kind := host.ObjectKind(r.Uint8())
		i.texture = gles.GlobalName(r.Uint32())
		if r.Error() == nil && (kind != host.Texture || i.texture == 0) {
			return corrupt("image %d source %v %d", i.handle, kind, i.texture)
		}
	}
	if err := r.Error(); err != nil {
		return err
	}
	if i.target != GLTexture2D || i.source == 0 {
		return corrupt("image %d target 0x%x from context %d", i.handle, i.target, i.source)
	}
	return nil
}
