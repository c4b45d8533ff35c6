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
	"github.com/pkg/errors"
)

// Context is a client rendering context.
type Context struct {
	refCounted
	display    *Display
	config     *Config
	version    gles.Version
	group      gles.ShareGroupID
	sharedWith Handle
	host       host.Context

	// Guarded by display.mu.
	draw, read Handle
}

func renderableBit(v gles.Version) int32 {
	switch v {
	case gles.Version1:
		return OpenGLESBit
	case gles.Version2:
		return OpenGLES2Bit
	default:
		return OpenGLES3Bit
	}
}

func newContext(d *Display, cfg *Config, v gles.Version, group gles.ShareGroupID, sharedWith Handle, hc host.Context) *Context {
	c := &Context{
		display:    d,
		config:     cfg,
		version:    v,
		group:      group,
		sharedWith: sharedWith,
		host:       hc,
	}
	c.init(c.destroy)
	return c
}

func (c *Context) destroy(ctx context.Context) error {
	errs := fault.List{}
	if !c.stale.Load() {
		errs.Collect(c.display.names.Manager(c.version).Detach(ctx, c.group))
	}
	errs.Collect(c.display.backend.DestroyContext(ctx, c.host))
	if err := errs.First(); err != nil {
		return log.Errf(ctx, err, "Destroying context %d", c.handle)
	}
	return nil
}

// Config returns the config the context was created with.
func (c *Context) Config() *Config { return c.config }

// Version returns the GLES version bucket of the context.
func (c *Context) Version() gles.Version { return c.version }

// ShareGroupID returns the share group of the context. It never changes.
func (c *Context) ShareGroupID() gles.ShareGroupID { return c.group }

// SharedWith returns the handle of the context this one was created to
// share with, or zero.
func (c *Context) SharedWith() Handle { return c.sharedWith }

// Host returns the host context.
func (c *Context) Host() host.Context { return c.host }

// Surfaces returns the draw and read surfaces bound to the context.
func (c *Context) Surfaces() (draw, read Handle) {
	c.display.mu.Lock()
	defer c.display.mu.Unlock()
	return c.draw, c.read
}

// Group returns the share group holding the GL objects of the context.
func (c *Context) Group() (*gles.ShareGroup, error) {
	sg, ok := c.display.names.Manager(c.version).ShareGroup(c.group)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "share group of context %d", c.handle)
	}
	return sg, nil
}

func blankContext(d *Display) *Context {
	c := &Context{display: d}
	c.init(c.destroy)
	return c
}

// Save writes the context to w. The handle is written by the registry and the
// share group state by the namespace.
func (c *Context) Save(w binary.Writer) {
	w.Int32(c.config.ID)
	w.Uint8(uint8(c.version))
	w.Uint32(uint32(c.group))
	w.Uint32(uint32(c.sharedWith))
	w.Uint32(uint32(c.draw))
	w.Uint32(uint32(c.read))
}

// Load reads a context written by Save. The host context is not created.
func (c *Context) Load(r binary.Reader) error {
	cfg, err := c.display.loadConfig(r, "context", c.handle)
	if err != nil {
		return err
	}
	c.config = cfg
	c.version = gles.Version(r.Uint8())
	c.group = gles.ShareGroupID(r.Uint32())
	c.sharedWith = Handle(r.Uint32())
	c.draw = Handle(r.Uint32())
	c.read = Handle(r.Uint32())
	if err := r.Error(); err != nil {
		return err
	}
	if !c.version.Valid() || cfg.RenderableType&renderableBit(c.version) == 0 {
		return corrupt("context %d version %v", c.handle, c.version)
	}
	if c.sharedWith >= c.handle {
		return corrupt("context %d shares with later context %d", c.handle, c.sharedWith)
	}
	return nil
}
