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
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Surface is a drawable.
type Surface struct {
	refCounted
	display *Display
	kind    host.SurfaceKind
	config  *Config
	width   int32
	height  int32
	window  host.NativeWindow
	host    host.Surface

	// Guarded by display.mu.
	bound Handle
}

var surfaceBits = map[host.SurfaceKind]int32{
	host.WindowSurface:  WindowBit,
	host.PbufferSurface: PbufferBit,
	host.PixmapSurface:  PixmapBit,
}

// checkSurface validates the arguments of a surface of the given kind
// against cfg.
func checkSurface(kind host.SurfaceKind, cfg *Config, window host.NativeWindow, width, height int32) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidArgument, "nil config")
	}
	bit, ok := surfaceBits[kind]
	if !ok {
		return errors.Wrapf(ErrInvalidArgument, "surface kind %v", kind)
	}
	if cfg.SurfaceType&bit == 0 {
		return errors.Wrapf(ErrInvalidArgument, "config %d does not support %v surfaces", cfg.ID, kind)
	}
	if width < 0 || height < 0 {
		return errors.Wrapf(ErrInvalidArgument, "surface size %dx%d", width, height)
	}
	switch kind {
	case host.WindowSurface:
		if window == 0 {
			return errors.Wrap(ErrInvalidArgument, "window surface without a native window")
		}
	case host.PbufferSurface:
		if width > cfg.MaxPbufferWidth || height > cfg.MaxPbufferHeight ||
			int64(width)*int64(height) > int64(cfg.MaxPbufferPixels) {
			return errors.Wrapf(ErrInvalidArgument, "pbuffer %dx%d exceeds config %d", width, height, cfg.ID)
		}
	}
	return nil
}

func newSurface(d *Display, kind host.SurfaceKind, cfg *Config, window host.NativeWindow, width, height int32, hs host.Surface) *Surface {
	s := &Surface{
		display: d,
		kind:    kind,
		config:  cfg,
		width:   width,
		height:  height,
		window:  window,
		host:    hs,
	}
	s.init(s.destroy)
	return s
}

func (s *Surface) destroy(ctx context.Context) error {
	if err := s.display.backend.DestroySurface(ctx, s.host); err != nil {
		return log.Errf(ctx, err, "Destroying surface %d", s.handle)
	}
	return nil
}

// Kind returns whether the surface is a window, pbuffer or pixmap.
func (s *Surface) Kind() host.SurfaceKind { return s.kind }

// Config returns the config the surface was created with.
func (s *Surface) Config() *Config { return s.config }

// Size returns the size of the surface.
func (s *Surface) Size() (width, height int32) { return s.width, s.height }

// Window returns the native window of a window surface.
func (s *Surface) Window() host.NativeWindow { return s.window }

// Host returns the host surface.
func (s *Surface) Host() host.Surface { return s.host }

// BoundContext returns the context the surface is bound to, or zero.
func (s *Surface) BoundContext() Handle {
	s.display.mu.Lock()
	defer s.display.mu.Unlock()
	return s.bound
}

func blankSurface(d *Display) *Surface {
	s := &Surface{display: d}
	s.init(s.destroy)
	return s
}

// Save writes the surface to w.
func (s *Surface) Save(w binary.Writer) {
	w.Uint8(uint8(s.kind))
	w.Int32(s.config.ID)
	w.Int32(s.width)
	w.Int32(s.height)
	w.Uint64(uint64(s.window))
	w.Uint32(uint32(s.bound))
}

// Load reads a surface written by Save. The host surface is not created.
func (s *Surface) Load(r binary.Reader) error {
	s.kind = host.SurfaceKind(r.Uint8())
	cfg, err := s.display.loadConfig(r, "surface", s.handle)
	if err != nil {
		return err
	}
	s.config = cfg
	s.width = r.Int32()
	s.height = r.Int32()
	s.window = host.NativeWindow(r.Uint64())
	s.bound = Handle(r.Uint32())
	if err := r.Error(); err != nil {
		return err
	}
	if err := checkSurface(s.kind, s.config, s.window, s.width, s.height); err != nil {
		return corrupt("surface %d: %v", s.handle, err)
	}
	return nil
}
