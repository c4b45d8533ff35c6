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

package egl_test

import (
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/host/memhost"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
)

const allES = egl.OpenGLESBit | egl.OpenGLES2Bit | egl.OpenGLES3Bit

func choose(t *testing.T, c *egl.Catalog, attribs ...int32) []egl.ConfigHandle {
	cr, err := egl.NewCriteria(attribs)
	if err != nil {
		t.Fatalf("NewCriteria(%v): %v", attribs, err)
	}
	out := make([]egl.ConfigHandle, c.Count())
	return out[:c.Choose(cr, out)]
}

func TestCatalogBuild(t *testing.T) {
	ctx := log.Testing(t)
	c := egl.NewCatalog(memhost.DefaultFormats, allES)
	assert.For(ctx, "count").ThatInteger(c.Count()).Equals(len(memhost.DefaultFormats))

	for i, cfg := range c.Configs() {
		assert.For(ctx, "id of config %d", i).That(cfg.ID).Equals(int32(i + 1))
		h := c.Handle(cfg)
		got, err := c.ByHandle(h)
		assert.For(ctx, "ByHandle(%d)", h).ThatError(err).Succeeded()
		assert.For(ctx, "ByHandle(%d) config", h).That(got).Equals(cfg)
	}

	cfg, err := c.ByID(1)
	assert.For(ctx, "ByID(1)").ThatError(err).Succeeded()
	size, _ := cfg.Attrib(egl.BufferSize)
	assert.For(ctx, "buffer size").ThatInteger(int(size)).Equals(32)
	caveat, _ := cfg.Attrib(egl.ConfigCaveat)
	assert.For(ctx, "caveat").ThatInteger(int(caveat)).Equals(int(egl.None))
	_, err = cfg.Attrib(0x1234)
	assert.For(ctx, "bad attribute").ThatError(err).HasCause(egl.ErrInvalidArgument)

	slow, _ := c.ByID(6)
	assert.For(ctx, "ES2 only").That(slow.RenderableType).Equals(egl.OpenGLES2Bit)

	_, err = c.ByID(99)
	assert.For(ctx, "ByID(99)").ThatError(err).HasCause(egl.ErrNotFound)
	_, err = c.ByHandle(0)
	assert.For(ctx, "ByHandle(0)").ThatError(err).HasCause(egl.ErrNotFound)
}

func TestCatalogDedupAndMissingConfigs(t *testing.T) {
	ctx := log.Testing(t)
	rgba := host.PixelFormat{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, SurfaceType: 5}
	rgb := host.PixelFormat{Red: 8, Green: 8, Blue: 8, Depth: 24, SurfaceType: 5}
	c := egl.NewCatalog([]host.PixelFormat{rgba, rgb, rgba}, allES)

	assert.For(ctx, "count").ThatInteger(c.Count()).Equals(3)
	added, err := c.ByID(3)
	assert.For(ctx, "added config").ThatError(err).Succeeded()
	assert.For(ctx, "added red").That(added.Red).Equals(int32(5))
	assert.For(ctx, "added green").That(added.Green).Equals(int32(6))
	assert.For(ctx, "added buffer size").That(added.BufferSize).Equals(int32(16))
	assert.For(ctx, "added depth").That(added.Depth).Equals(int32(24))

	none := egl.NewCatalog([]host.PixelFormat{{Red: 8, Green: 8, Blue: 8, RenderableType: egl.OpenVGBit}}, allES)
	assert.For(ctx, "unrenderable").ThatInteger(none.Count()).Equals(0)
}

func TestCatalogChoose(t *testing.T) {
	ctx := log.Testing(t)
	c := egl.NewCatalog(memhost.DefaultFormats, allES)
	for _, test := range []struct {
		name    string
		attribs []int32
		expect  []egl.ConfigHandle
	}{
		{"depth", []int32{egl.DepthSize, 16, egl.None}, []egl.ConfigHandle{3, 4, 1, 5}},
		{"red depth", []int32{egl.RedSize, 8, egl.DepthSize, 24, egl.None}, []egl.ConfigHandle{4, 1, 5}},
		{"rgba depth", []int32{egl.RedSize, 8, egl.AlphaSize, 8, egl.DepthSize, 24}, []egl.ConfigHandle{1, 5}},
		{"caveat last", []int32{egl.SurfaceType, egl.PbufferBit, egl.RenderableType, egl.OpenGLES2Bit, egl.RedSize, 8, egl.None},
			[]egl.ConfigHandle{2, 1, 5, 6}},
		{"pixmap", []int32{egl.SurfaceType, egl.PixmapBit, egl.RenderableType, egl.OpenGLES2Bit, egl.None}, []egl.ConfigHandle{6}},
		{"no slow", []int32{egl.SurfaceType, egl.PixmapBit, egl.RenderableType, egl.OpenGLES2Bit, egl.ConfigCaveat, egl.None, egl.None}, []egl.ConfigHandle{}},
		{"config id", []int32{egl.ConfigID, 3, egl.RedSize, 8, egl.None}, []egl.ConfigHandle{3}},
		{"samples", []int32{egl.Samples, 2, egl.None}, []egl.ConfigHandle{5}},
		{"dont care", []int32{egl.SurfaceType, egl.DontCare, egl.RenderableType, egl.DontCare, egl.None}, []egl.ConfigHandle{3, 4, 2, 1, 5, 6}},
	} {
		assert.For(ctx, test.name).ThatSlice(choose(t, c, test.attribs...)).Equals(test.expect)
	}
}

func TestCatalogChooseCountOnly(t *testing.T) {
	ctx := log.Testing(t)
	c := egl.NewCatalog(memhost.DefaultFormats, allES)
	cr, err := egl.NewCriteria([]int32{egl.DepthSize, 16, egl.None})
	assert.For(ctx, "NewCriteria").ThatError(err).Succeeded()

	assert.For(ctx, "nil out").ThatInteger(c.Choose(cr, nil)).Equals(4)
	assert.For(ctx, "empty out").ThatInteger(c.Choose(cr, []egl.ConfigHandle{})).Equals(4)

	out := []egl.ConfigHandle{0, 0}
	assert.For(ctx, "short out").ThatInteger(c.Choose(cr, out)).Equals(2)
	assert.For(ctx, "short out values").ThatSlice(out).Equals([]egl.ConfigHandle{3, 4})

	// Matching is idempotent and stable.
	first := choose(t, c, egl.DepthSize, 16)
	for i := 0; i < 5; i++ {
		assert.For(ctx, "repeat %d", i).ThatSlice(choose(t, c, egl.DepthSize, 16)).Equals(first)
	}

	list := make([]egl.ConfigHandle, 3)
	assert.For(ctx, "List").ThatInteger(c.List(list)).Equals(3)
	assert.For(ctx, "List values").ThatSlice(list).Equals([]egl.ConfigHandle{1, 2, 3})
	assert.For(ctx, "List count").ThatInteger(c.List(nil)).Equals(6)
}

func TestNewCriteria(t *testing.T) {
	ctx := log.Testing(t)
	_, err := egl.NewCriteria([]int32{0x1234, 1, egl.None})
	assert.For(ctx, "unknown attribute").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = egl.NewCriteria([]int32{egl.RedSize})
	assert.For(ctx, "missing value").ThatError(err).HasCause(egl.ErrInvalidArgument)

	cr, err := egl.NewCriteria(nil)
	assert.For(ctx, "defaults").ThatError(err).Succeeded()
	assert.For(ctx, "default surface type").That(cr.Get(egl.SurfaceType)).Equals(egl.WindowBit)
	assert.For(ctx, "default caveat").That(cr.Get(egl.ConfigCaveat)).Equals(egl.DontCare)

	cr, _ = egl.NewCriteria([]int32{egl.RedSize, 8, egl.None, egl.GreenSize, 8})
	assert.For(ctx, "stops at EGL_NONE").That(cr.Get(egl.GreenSize)).Equals(int32(0))

	a, ok := egl.AttribByName("red_size")
	assert.For(ctx, "AttribByName").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "AttribByName value").That(a).Equals(egl.RedSize)
	assert.For(ctx, "AttribName").ThatString(egl.AttribName(egl.DepthSize)).Equals("EGL_DEPTH_SIZE")
}
