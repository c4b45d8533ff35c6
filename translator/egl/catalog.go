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
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Catalog is the immutable set of configs of a display. Config ids run from
// 1 in the order the host reported the formats, and the handle of a config
// is its position in the catalog plus one.
type Catalog struct {
	configs []*Config
}

// NewCatalog builds the catalog for the host formats, keeping the
// renderable types in renderable. Formats that yield an identical config
// are only listed once.
func NewCatalog(formats []host.PixelFormat, renderable int32) *Catalog {
	c := &Catalog{}
	for _, f := range formats {
		cfg := newConfig(f, renderable)
		if cfg == nil || c.contains(cfg) {
			continue
		}
		cfg.ID = int32(len(c.configs) + 1)
		c.configs = append(c.configs, cfg)
	}
	c.addMissingConfigs()
	return c
}

func (c *Catalog) contains(cfg *Config) bool {
	for _, o := range c.configs {
		if o.sameAs(cfg) {
			return true
		}
	}
	return false
}

// addMissingConfigs adds an RGB565 config, cloned from the best 24 bit
// window and pbuffer config, when the host reports none.
func (c *Catalog) addMissingConfigs() {
	cr, _ := NewCriteria([]int32{
		RedSize, 5, GreenSize, 6, BlueSize, 5,
		DepthSize, 16,
		SurfaceType, WindowBit | PbufferBit,
		RenderableType, DontCare,
		None,
	})
	var src *Config
	for _, m := range c.match(cr) {
		switch {
		case m.BufferSize == 16:
			return
		case m.BufferSize == 24 && src == nil:
			src = m
		}
	}
	if src == nil {
		return
	}
	cfg := *src
	cfg.Red, cfg.Green, cfg.Blue, cfg.Alpha = 5, 6, 5, 0
	cfg.BufferSize = 16
	cfg.BindToTextureRGBA = false
	cfg.Format.Red, cfg.Format.Green, cfg.Format.Blue, cfg.Format.Alpha = 5, 6, 5, 0
	cfg.ID = int32(len(c.configs) + 1)
	c.configs = append(c.configs, &cfg)
}

// Count returns the number of configs.
func (c *Catalog) Count() int { return len(c.configs) }

// Configs returns every config in catalog order.
func (c *Catalog) Configs() []*Config {
	return append([]*Config(nil), c.configs...)
}

// List writes the handles of the first len(out) configs to out and returns
// how many were written. An empty out returns the config count instead.
func (c *Catalog) List(out []ConfigHandle) int {
	if len(out) == 0 {
		return len(c.configs)
	}
	n := min(len(out), len(c.configs))
	for i := 0; i < n; i++ {
		out[i] = ConfigHandle(i + 1)
	}
	return n
}

func (c *Catalog) match(cr *Criteria) []*Config {
	out := []*Config{}
	for _, cfg := range c.configs {
		if cr.Matches(cfg) {
			out = append(out, cfg)
		}
	}
	cr.sort(out)
	return out
}

// Choose writes the handles of the configs matching cr to out, best match
// first, and returns how many were written. An empty out returns the number
// of matching configs without writing anything.
func (c *Catalog) Choose(cr *Criteria, out []ConfigHandle) int {
	matches := c.match(cr)
	if len(out) == 0 {
		return len(matches)
	}
	n := min(len(out), len(matches))
	for i := 0; i < n; i++ {
		out[i] = ConfigHandle(matches[i].ID)
	}
	return n
}

// Handle returns the handle of a config of this catalog, or zero.
func (c *Catalog) Handle(cfg *Config) ConfigHandle {
	if cfg == nil || cfg.ID < 1 || int(cfg.ID) > len(c.configs) || c.configs[cfg.ID-1] != cfg {
		return 0
	}
	return ConfigHandle(cfg.ID)
}

// ByID returns the config with the given EGL_CONFIG_ID.
func (c *Catalog) ByID(id int32) (*Config, error) {
	if id < 1 || int(id) > len(c.configs) {
		return nil, errors.Wrapf(ErrNotFound, "config id %d", id)
	}
	return c.configs[id-1], nil
}

// ByHandle returns the config with the given handle.
func (c *Catalog) ByHandle(h ConfigHandle) (*Config, error) {
	if h < 1 || int(h) > len(c.configs) {
		return nil, errors.Wrapf(ErrNotFound, "config handle %d", h)
	}
	return c.configs[h-1], nil
}
