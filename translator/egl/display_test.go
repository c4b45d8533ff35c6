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
	"context"
	"sync"
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/host/memhost"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
	"golang.org/x/sync/errgroup"
)

func newDisplay(ctx context.Context, t *testing.T) (*egl.Display, *memhost.Backend) {
	backend := memhost.New()
	d := egl.NewDisplay(1, 2, backend, egl.Options{IsDefault: true})
	if err := d.Initialize(ctx, allES); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return d, backend
}

func config(t *testing.T, d *egl.Display, id int32) *egl.Config {
	cfg, err := d.ConfigByID(id)
	if err != nil {
		t.Fatalf("ConfigByID(%d): %v", id, err)
	}
	return cfg
}

func TestDisplayLifecycle(t *testing.T) {
	ctx := log.Testing(t)
	backend := memhost.New()
	d := egl.NewDisplay(1, 2, backend, egl.Options{IsDefault: true})
	assert.For(ctx, "state").That(d.State()).Equals(egl.Created)

	_, err := d.ConfigCount()
	assert.For(ctx, "ConfigCount before init").ThatError(err).HasCause(egl.ErrNotInitialized)
	_, err = d.Context(1)
	assert.For(ctx, "Context before init").ThatError(err).HasCause(egl.ErrNotInitialized)

	assert.For(ctx, "Initialize").ThatError(d.Initialize(ctx, allES)).Succeeded()
	assert.For(ctx, "Initialize again").ThatError(d.Initialize(ctx, allES)).Succeeded()
	assert.For(ctx, "initialized").ThatBoolean(d.IsInitialized()).IsTrue()
	n, err := d.ConfigCount()
	assert.For(ctx, "ConfigCount").ThatError(err).Succeeded()
	assert.For(ctx, "config count").ThatInteger(n).Equals(len(memhost.DefaultFormats))

	global, err := d.GlobalSharedContext(ctx)
	assert.For(ctx, "GlobalSharedContext").ThatError(err).Succeeded()
	assert.For(ctx, "global context").That(global).NotEquals(host.Context(0))
	again, _ := d.GlobalSharedContext(ctx)
	assert.For(ctx, "same global context").That(again).Equals(global)

	h, err := d.CreateContext(ctx, config(t, d, 1), gles.Version2, 0)
	assert.For(ctx, "CreateContext").ThatError(err).Succeeded()
	_, err = d.CreatePbufferSurface(ctx, config(t, d, 1), 64, 64)
	assert.For(ctx, "CreatePbufferSurface").ThatError(err).Succeeded()

	assert.For(ctx, "Terminate").ThatError(d.Terminate(ctx)).Succeeded()
	assert.For(ctx, "terminated").That(d.State()).Equals(egl.Terminated)
	assert.For(ctx, "no leaks").ThatString(backend.Leaked()).Equals("")
	_, err = d.Context(h)
	assert.For(ctx, "Context after terminate").ThatError(err).HasCause(egl.ErrNotInitialized)
	_, err = d.RemoveContext(ctx, h)
	assert.For(ctx, "RemoveContext after terminate").ThatError(err).HasCause(egl.ErrNotInitialized)
	_, err = d.GetConfigs(nil)
	assert.For(ctx, "GetConfigs after terminate").ThatError(err).HasCause(egl.ErrNotInitialized)
	assert.For(ctx, "Terminate again").ThatError(d.Terminate(ctx)).Succeeded()

	assert.For(ctx, "Initialize after terminate").ThatError(d.Initialize(ctx, allES)).Succeeded()
	h2, err := d.CreateContext(ctx, config(t, d, 1), gles.Version2, 0)
	assert.For(ctx, "CreateContext after re-init").ThatError(err).Succeeded()
	assert.For(ctx, "handle not reused").ThatBoolean(h2 > h).IsTrue()
	d.Terminate(ctx)
}

func TestRegistryHandles(t *testing.T) {
	ctx := log.Testing(t)
	d, _ := newDisplay(ctx, t)
	cfg := config(t, d, 1)

	h1, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)
	c1, err := d.Context(h1)
	assert.For(ctx, "Context").ThatError(err).Succeeded()
	c1b, _ := d.Context(h1)
	assert.For(ctx, "same object").That(c1b).Equals(c1)
	assert.For(ctx, "handle").That(c1.Handle()).Equals(h1)
	c1.Release(ctx)
	c1b.Release(ctx)

	removed, err := d.RemoveContext(ctx, h1)
	assert.For(ctx, "first remove").ThatError(err).Succeeded()
	assert.For(ctx, "first remove result").ThatBoolean(removed).IsTrue()
	removed, err = d.RemoveContext(ctx, h1)
	assert.For(ctx, "second remove").ThatError(err).Succeeded()
	assert.For(ctx, "second remove result").ThatBoolean(removed).IsFalse()

	h2, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)
	assert.For(ctx, "new handle").That(h2).NotEquals(h1)
	_, err = d.Context(h1)
	assert.For(ctx, "stale handle").ThatError(err).HasCause(egl.ErrNotFound)

	s, _ := d.CreatePbufferSurface(ctx, cfg, 16, 16)
	assert.For(ctx, "surface handle after context").ThatBoolean(s > h2).IsTrue()
	removed, _ = d.RemoveSurface(ctx, s)
	assert.For(ctx, "RemoveSurface").ThatBoolean(removed).IsTrue()
	removed, _ = d.RemoveSurface(ctx, s)
	assert.For(ctx, "RemoveSurface again").ThatBoolean(removed).IsFalse()

	_, err = d.AddContext(nil)
	assert.For(ctx, "AddContext(nil)").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.AddSurface(nil)
	assert.For(ctx, "AddSurface(nil)").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.AddImage(nil)
	assert.For(ctx, "AddImage(nil)").ThatError(err).HasCause(egl.ErrInvalidArgument)
	d.Terminate(ctx)
}

func TestRegistryAddTwice(t *testing.T) {
	ctx := log.Testing(t)
	d, backend := newDisplay(ctx, t)
	cfg := config(t, d, 1)

	c, err := d.NewContext(ctx, cfg, gles.Version2, 0)
	assert.For(ctx, "NewContext").ThatError(err).Succeeded()
	h, err := d.AddContext(c)
	assert.For(ctx, "AddContext").ThatError(err).Succeeded()
	_, err = d.AddContext(c)
	assert.For(ctx, "AddContext again").ThatError(err).HasCause(egl.ErrInvalidArgument)

	s, err := d.NewSurface(ctx, host.PbufferSurface, cfg, 0, 8, 8)
	assert.For(ctx, "NewSurface").ThatError(err).Succeeded()
	sh, _ := d.AddSurface(s)
	_, err = d.AddSurface(s)
	assert.For(ctx, "AddSurface again").ThatError(err).HasCause(egl.ErrInvalidArgument)

	removed, err := d.RemoveContext(ctx, h)
	assert.For(ctx, "RemoveContext").ThatError(err).Succeeded()
	assert.For(ctx, "removed").ThatBoolean(removed).IsTrue()
	removed, err = d.RemoveContext(ctx, h)
	assert.For(ctx, "RemoveContext again").ThatError(err).Succeeded()
	assert.For(ctx, "removed again").ThatBoolean(removed).IsFalse()
	_, err = d.AddContext(c)
	assert.For(ctx, "AddContext after remove").ThatError(err).HasCause(egl.ErrInvalidArgument)
	d.RemoveSurface(ctx, sh)

	d.Terminate(ctx)
	assert.For(ctx, "no leaks").ThatString(backend.Leaked()).Equals("")
}

func TestDeferredDestruction(t *testing.T) {
	ctx := log.Testing(t)
	d, backend := newDisplay(ctx, t)
	before := backend.Stats().Contexts

	h, _ := d.CreateContext(ctx, config(t, d, 1), gles.Version2, 0)
	c, _ := d.Context(h)
	d.RemoveContext(ctx, h)
	_, err := d.Context(h)
	assert.For(ctx, "unreachable after remove").ThatError(err).HasCause(egl.ErrNotFound)
	assert.For(ctx, "alive while referenced").ThatInteger(backend.Stats().Contexts).Equals(before + 1)

	assert.For(ctx, "Release").ThatError(c.Release(ctx)).Succeeded()
	assert.For(ctx, "destroyed on last release").ThatInteger(backend.Stats().Contexts).Equals(before)
	d.Terminate(ctx)
}

func TestSharedContexts(t *testing.T) {
	ctx := log.Testing(t)
	d, backend := newDisplay(ctx, t)
	cfg := config(t, d, 1)

	a, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)
	b, err := d.CreateContext(ctx, cfg, gles.Version2, a)
	assert.For(ctx, "shared CreateContext").ThatError(err).Succeeded()
	lone, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)

	ca, _ := d.Context(a)
	cb, _ := d.Context(b)
	cl, _ := d.Context(lone)
	assert.For(ctx, "same group").That(cb.ShareGroupID()).Equals(ca.ShareGroupID())
	assert.For(ctx, "other group").That(cl.ShareGroupID()).NotEquals(ca.ShareGroupID())
	assert.For(ctx, "shared with").That(cb.SharedWith()).Equals(a)

	m := d.Manager(gles.Version2)
	ga, err := m.GenName(ctx, ca.ShareGroupID(), host.Texture, 5)
	assert.For(ctx, "GenName in a").ThatError(err).Succeeded()
	gb, err := m.GenName(ctx, cb.ShareGroupID(), host.Texture, 5)
	assert.For(ctx, "GenName in b").ThatError(err).Succeeded()
	assert.For(ctx, "same host object").That(gb).Equals(ga)
	gl, _ := m.GenName(ctx, cl.ShareGroupID(), host.Texture, 5)
	assert.For(ctx, "different host object").That(gl).NotEquals(ga)

	m.DeleteName(ctx, ca.ShareGroupID(), host.Texture, 5)
	got, err := m.Resolve(cb.ShareGroupID(), host.Texture, 5)
	assert.For(ctx, "still valid in b").ThatError(err).Succeeded()
	assert.For(ctx, "still same").That(got).Equals(ga)

	_, err = d.CreateContext(ctx, cfg, gles.Version3, a)
	assert.For(ctx, "share across versions").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.CreateContext(ctx, cfg, gles.Version2, 999)
	assert.For(ctx, "share with unknown").ThatError(err).HasCause(egl.ErrNotFound)
	_, err = d.CreateContext(ctx, config(t, d, 6), gles.Version1, 0)
	assert.For(ctx, "unsupported version").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.CreateContext(ctx, nil, gles.Version2, 0)
	assert.For(ctx, "nil config").ThatError(err).HasCause(egl.ErrInvalidArgument)

	ca.Release(ctx)
	cb.Release(ctx)
	cl.Release(ctx)
	d.RemoveContext(ctx, a)
	assert.For(ctx, "kept by b").ThatInteger(backend.Live(host.Texture)).Equals(2)
	d.RemoveContext(ctx, b)
	assert.For(ctx, "released with group").ThatInteger(backend.Live(host.Texture)).Equals(1)
	d.Terminate(ctx)
	assert.For(ctx, "no leaks").ThatString(backend.Leaked()).Equals("")
}

func TestMakeCurrent(t *testing.T) {
	ctx := log.Testing(t)
	d, _ := newDisplay(ctx, t)
	cfg := config(t, d, 1)

	c1, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)
	c2, _ := d.CreateContext(ctx, cfg, gles.Version2, 0)
	win, err := d.CreateWindowSurface(ctx, cfg, 0x77, 640, 480)
	assert.For(ctx, "CreateWindowSurface").ThatError(err).Succeeded()
	pb, _ := d.CreatePbufferSurface(ctx, cfg, 32, 32)

	assert.For(ctx, "MakeCurrent").ThatError(d.MakeCurrent(c1, win, pb)).Succeeded()
	ctx1, _ := d.Context(c1)
	draw, read := ctx1.Surfaces()
	assert.For(ctx, "draw").That(draw).Equals(win)
	assert.For(ctx, "read").That(read).Equals(pb)
	s, _ := d.Surface(win)
	assert.For(ctx, "bound").That(s.BoundContext()).Equals(c1)

	assert.For(ctx, "steal").ThatError(d.MakeCurrent(c2, win, win)).Succeeded()
	draw, read = ctx1.Surfaces()
	assert.For(ctx, "draw taken").That(draw).Equals(egl.Handle(0))
	assert.For(ctx, "read kept").That(read).Equals(pb)
	assert.For(ctx, "bound to c2").That(s.BoundContext()).Equals(c2)

	assert.For(ctx, "release nothing").ThatError(d.MakeCurrent(0, 0, 0)).Succeeded()
	assert.For(ctx, "release pbuffer").ThatError(d.MakeCurrent(0, pb, 0)).Succeeded()
	_, read = ctx1.Surfaces()
	assert.For(ctx, "read released").That(read).Equals(egl.Handle(0))
	p, _ := d.Surface(pb)
	assert.For(ctx, "pbuffer unbound").That(p.BoundContext()).Equals(egl.Handle(0))
	p.Release(ctx)
	assert.For(ctx, "release unknown").ThatError(d.MakeCurrent(0, 999, 0)).HasCause(egl.ErrNotFound)

	d.RemoveSurface(ctx, win)
	ctx2, _ := d.Context(c2)
	draw, read = ctx2.Surfaces()
	assert.For(ctx, "unbound on remove").That(draw).Equals(egl.Handle(0))
	assert.For(ctx, "unbound read on remove").That(read).Equals(egl.Handle(0))

	assert.For(ctx, "unknown surface").ThatError(d.MakeCurrent(c1, 999, 0)).HasCause(egl.ErrNotFound)
	assert.For(ctx, "unknown context").ThatError(d.MakeCurrent(999, 0, 0)).HasCause(egl.ErrNotFound)

	_, err = d.CreateWindowSurface(ctx, cfg, 0, 1, 1)
	assert.For(ctx, "window without native window").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.CreatePixmapSurface(ctx, cfg, 1, 1)
	assert.For(ctx, "pixmap unsupported").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.CreatePbufferSurface(ctx, cfg, 8192, 8)
	assert.For(ctx, "pbuffer too large").ThatError(err).HasCause(egl.ErrInvalidArgument)

	ctx1.Release(ctx)
	ctx2.Release(ctx)
	s.Release(ctx)
	d.Terminate(ctx)
}

func TestImages(t *testing.T) {
	ctx := log.Testing(t)
	d, backend := newDisplay(ctx, t)
	h, _ := d.CreateContext(ctx, config(t, d, 1), gles.Version2, 0)
	c, _ := d.Context(h)
	defer c.Release(ctx)
	sg, err := c.Group()
	assert.For(ctx, "Group").ThatError(err).Succeeded()

	tex, _ := sg.GenTextures(ctx, 2)
	sg.BindTexture(ctx, gles.Texture2D, tex[0])
	sg.TexImage2D(tex[0], 0, gles.RGBA, 8, 4, gles.RGBA, gles.UnsignedByte, make([]byte, 128))

	_, err = d.CreateImage(ctx, h, egl.GLTexture2D, tex[1])
	assert.For(ctx, "image of empty texture").ThatError(err).HasCause(egl.ErrInvalidArgument)
	_, err = d.CreateImage(ctx, h, 0x1234, tex[0])
	assert.For(ctx, "bad target").ThatError(err).HasCause(egl.ErrInvalidArgument)

	ih, err := d.CreateImage(ctx, h, egl.GLTexture2D, tex[0])
	assert.For(ctx, "CreateImage").ThatError(err).Succeeded()
	img, _ := d.Image(ih)
	w, hgt := img.Size()
	assert.For(ctx, "width").That(w).Equals(int32(8))
	assert.For(ctx, "height").That(hgt).Equals(int32(4))
	img.Release(ctx)

	sg.DeleteTextures(ctx, tex...)
	assert.For(ctx, "storage kept by image").ThatInteger(backend.Live(host.Texture)).Equals(1)
	removed, err := d.DestroyImage(ctx, ih)
	assert.For(ctx, "DestroyImage").ThatError(err).Succeeded()
	assert.For(ctx, "DestroyImage result").ThatBoolean(removed).IsTrue()
	assert.For(ctx, "storage released").ThatInteger(backend.Live(host.Texture)).Equals(0)
	removed, _ = d.DestroyImage(ctx, ih)
	assert.For(ctx, "DestroyImage again").ThatBoolean(removed).IsFalse()
	d.Terminate(ctx)
}

func TestRegistryConcurrency(t *testing.T) {
	ctx := log.Testing(t)
	d, backend := newDisplay(ctx, t)
	cfg := config(t, d, 1)

	const workers, perWorker = 8, 50
	var mu sync.Mutex
	seen := map[egl.Handle]bool{}
	g := errgroup.Group{}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < perWorker; j++ {
				h, err := d.CreatePbufferSurface(ctx, cfg, 4, 4)
				if err != nil {
					return err
				}
				mu.Lock()
				dup := seen[h]
				seen[h] = true
				mu.Unlock()
				if dup {
					t.Errorf("handle %d issued twice", h)
				}
				s, err := d.Surface(h)
				if err != nil {
					return err
				}
				s.Release(ctx)
				if removed, err := d.RemoveSurface(ctx, h); err != nil || !removed {
					t.Errorf("RemoveSurface(%d) = %v, %v", h, removed, err)
				}
			}
			return nil
		})
	}
	assert.For(ctx, "workers").ThatError(g.Wait()).Succeeded()
	assert.For(ctx, "handles").ThatInteger(len(seen)).Equals(workers * perWorker)
	assert.For(ctx, "surfaces released").ThatInteger(backend.Stats().Surfaces).Equals(0)
	d.Terminate(ctx)
}
