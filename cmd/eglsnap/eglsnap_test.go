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

package main

import (
	"strings"
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/app"
	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
)

const yamlProfile = `
renderable: [es2, es3]
formats:
  - red: 8
    green: 8
    blue: 8
    alpha: 8
    depth: 24
    surface_type: 5
    max_pbuffer_width: 1024
    max_pbuffer_height: 1024
    max_pbuffer_pixels: 1048576
  - red: 5
    green: 6
    blue: 5
    surface_type: 4
`

const tomlProfile = `
renderable = ["es2"]

[[formats]]
red = 8
green = 8
blue = 8
surface_type = 1
max_pbuffer_width = 64
max_pbuffer_height = 64
max_pbuffer_pixels = 4096
`

func TestParseProfile(t *testing.T) {
	ctx := log.Testing(t)
	p, err := parseProfile("host.yaml", []byte(yamlProfile))
	assert.For(ctx, "yaml").ThatError(err).Succeeded()
	assert.For(ctx, "yaml renderable").ThatSlice(p.Renderable).Equals([]string{"es2", "es3"})
	assert.For(ctx, "yaml formats").ThatInteger(len(p.Formats)).Equals(2)
	assert.For(ctx, "yaml format").That(p.Formats[0]).DeepEquals(host.PixelFormat{
		Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, SurfaceType: 5,
		MaxPbufferWidth: 1024, MaxPbufferHeight: 1024, MaxPbufferPixels: 1048576,
	})
	mask, err := p.RenderableMask()
	assert.For(ctx, "mask").ThatError(err).Succeeded()
	assert.For(ctx, "mask value").That(mask).Equals(egl.OpenGLES2Bit | egl.OpenGLES3Bit)

	p, err = parseProfile("host.toml", []byte(tomlProfile))
	assert.For(ctx, "toml").ThatError(err).Succeeded()
	assert.For(ctx, "toml renderable").ThatSlice(p.Renderable).Equals([]string{"es2"})
	assert.For(ctx, "toml pbuffer").That(p.Formats[0].MaxPbufferPixels).Equals(int32(4096))

	p, err = parseProfile("empty.yaml", nil)
	assert.For(ctx, "empty").ThatError(err).Succeeded()
	assert.For(ctx, "default renderable").ThatSlice(p.Renderable).Equals([]string{"es1", "es2", "es3"})

	_, err = parseProfile("bad.yaml", []byte("colour: red\n"))
	assert.For(ctx, "unknown yaml field").ThatError(err).Failed()
	_, err = parseProfile("bad.toml", []byte("colour = \"red\"\n"))
	assert.For(ctx, "unknown toml field").ThatError(err).Failed()
	_, err = Profile{Renderable: []string{"vulkan"}}.RenderableMask()
	assert.For(ctx, "unknown api").ThatError(err).Failed()
}

func TestParseAttribs(t *testing.T) {
	ctx := log.Testing(t)
	attribs, err := parseAttribs([]string{"red_size=8", "EGL_SURFACE_TYPE=0x4", "depth_size=dont_care"})
	assert.For(ctx, "parse").ThatError(err).Succeeded()
	assert.For(ctx, "attribs").ThatSlice(attribs).Equals([]int32{
		egl.RedSize, 8, egl.SurfaceType, egl.WindowBit, egl.DepthSize, egl.DontCare, egl.None,
	})
	_, err = parseAttribs([]string{"red_size"})
	assert.For(ctx, "no value").ThatError(err).HasCause(app.ErrUsage)
	_, err = parseAttribs([]string{"hue=3"})
	assert.For(ctx, "unknown").ThatError(err).HasCause(app.ErrUsage)
	_, err = parseAttribs([]string{"red_size=eight"})
	assert.For(ctx, "bad value").ThatError(err).HasCause(app.ErrUsage)
}

func TestDemoCheckpoint(t *testing.T) {
	ctx := log.Testing(t)
	src, _, err := DisplayFlags{}.open(ctx)
	assert.For(ctx, "open").ThatError(err).Succeeded()
	defer src.Terminate(ctx)
	assert.For(ctx, "buildDemo").ThatError(buildDemo(ctx, src, 1)).Succeeded()
	out := snapshot.NewGrowable(0)
	assert.For(ctx, "Save").ThatError(src.Save(ctx, snapshot.Writer(out))).Succeeded()

	dst, _, _ := DisplayFlags{}.open(ctx)
	defer dst.Terminate(ctx)
	assert.For(ctx, "Load").ThatError(dst.Load(ctx, snapshot.Reader(snapshot.Wrap(out.Bytes())))).Succeeded()

	want, got := &strings.Builder{}, &strings.Builder{}
	assert.For(ctx, "describe src").ThatError(describe(ctx, want, src)).Succeeded()
	assert.For(ctx, "describe dst").ThatError(describe(ctx, got, dst)).Succeeded()
	assert.For(ctx, "same description").ThatString(got.String()).Equals(want.String())
	assert.For(ctx, "contexts").ThatString(got.String()).Contains("share group 1 draw 3 read 4")
	assert.For(ctx, "group").ThatString(got.String()).Contains("2 contexts, 1 Texture, 2 Shader, 1 Program")
	assert.For(ctx, "image").ThatString(got.String()).Contains("image 5: 16x16")
}

func TestDemoIsDeterministic(t *testing.T) {
	ctx := log.Testing(t)
	var first []byte
	for i := 0; i < 4; i++ {
		d, _, err := DisplayFlags{}.open(ctx)
		assert.For(ctx, "open").ThatError(err).Succeeded()
		assert.For(ctx, "buildDemo").ThatError(buildDemo(ctx, d, 1)).Succeeded()
		out := snapshot.NewGrowable(0)
		assert.For(ctx, "Save").ThatError(d.Save(ctx, snapshot.Writer(out))).Succeeded()
		d.Terminate(ctx)
		if first == nil {
			first = out.Bytes()
			continue
		}
		assert.For(ctx, "run %d", i).ThatSlice(out.Bytes()).Equals(first)
	}
}
