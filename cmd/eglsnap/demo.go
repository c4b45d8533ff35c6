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
	"context"
	"flag"
	"os"

	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
	"github.com/pkg/errors"
)

const (
	demoVertex   = "attribute vec4 pos;\nvoid main() { gl_Position = pos; }\n"
	demoFragment = "precision mediump float;\nvoid main() { gl_FragColor = vec4(1.0); }\n"
)

type demoVerb struct {
	DisplayFlags
	Out    string `help:"The checkpoint file to write"`
	Shared int    `help:"The number of extra contexts sharing with the first"`
}

func (v *demoVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	d, _, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer d.Terminate(ctx)
	if err := buildDemo(ctx, d, v.Shared); err != nil {
		return err
	}
	out := snapshot.NewGrowable(4096)
	if err := d.Save(ctx, snapshot.Writer(out)); err != nil {
		return err
	}
	if err := os.WriteFile(v.Out, out.Bytes(), 0644); err != nil {
		return err
	}
	log.I(ctx, "Wrote %d bytes to %s", out.WrittenSize(), v.Out)
	return nil
}

// buildDemo populates d with a GLES2 context and shared contexts, a window
// and a pbuffer bound to it, a linked program, a texture and an image of
// that texture.
func buildDemo(ctx context.Context, d *egl.Display, shared int) error {
	handles := make([]egl.ConfigHandle, 1)
	n, err := d.ChooseConfigs([]int32{
		egl.RenderableType, egl.OpenGLES2Bit,
		egl.SurfaceType, egl.WindowBit | egl.PbufferBit,
		egl.None,
	}, handles)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no GLES2 window and pbuffer config")
	}
	cfg, err := d.ConfigByHandle(handles[0])
	if err != nil {
		return err
	}

	first, err := d.CreateContext(ctx, cfg, gles.Version2, 0)
	if err != nil {
		return err
	}
	for i := 0; i < shared; i++ {
		if _, err := d.CreateContext(ctx, cfg, gles.Version2, first); err != nil {
			return err
		}
	}
	win, err := d.CreateWindowSurface(ctx, cfg, 0x1, 640, 480)
	if err != nil {
		return err
	}
	pb, err := d.CreatePbufferSurface(ctx, cfg, 256, 256)
	if err != nil {
		return err
	}
	if err := d.MakeCurrent(first, win, pb); err != nil {
		return err
	}

	c, err := d.Context(first)
	if err != nil {
		return err
	}
	defer c.Release(ctx)
	sg, err := c.Group()
	if err != nil {
		return err
	}
	program, err := sg.CreateProgram(ctx)
	if err != nil {
		return err
	}
	for _, sh := range []struct {
		ty  uint32
		src string
	}{
		{gles.VertexShader, demoVertex},
		{gles.FragmentShader, demoFragment},
	} {
		s, err := sg.CreateShader(ctx, sh.ty)
		if err != nil {
			return err
		}
		if err := sg.ShaderSource(s, sh.src); err != nil {
			return err
		}
		if err := sg.CompileShader(ctx, s); err != nil {
			return err
		}
		if err := sg.AttachShader(program, s); err != nil {
			return err
		}
	}
	if err := sg.LinkProgram(ctx, program); err != nil {
		return err
	}

	tex, err := sg.GenTextures(ctx, 1)
	if err != nil {
		return err
	}
	if err := sg.BindTexture(ctx, gles.Texture2D, tex[0]); err != nil {
		return err
	}
	pixels := make([]byte, 16*16*4)
	if err := sg.TexImage2D(tex[0], 0, gles.RGBA, 16, 16, gles.RGBA, gles.UnsignedByte, pixels); err != nil {
		return err
	}
	_, err = d.CreateImage(ctx, first, egl.GLTexture2D, tex[0])
	return err
}
