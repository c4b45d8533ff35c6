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

package gles_test

import (
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/host/memhost"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
)

func TestNameManagerSharing(t *testing.T) {
	ctx := log.Testing(t)
	backend := memhost.New()
	ns := gles.NewNameSpace(backend)
	m := ns.Manager(gles.Version2)

	a := m.CreateShareGroup()
	b := m.CreateShareGroup()
	assert.For(ctx, "group ids").That(a).NotEquals(b)

	name, err := m.CreateName(ctx, a, host.Texture)
	assert.For(ctx, "CreateName").ThatError(err).Succeeded()
	assert.For(ctx, "first name").That(name).Equals(uint32(1))

	_, err = m.Resolve(b, host.Texture, name)
	assert.For(ctx, "name in other group").ThatError(err).HasCause(gles.ErrNotFound)
	_, err = ns.Manager(gles.Version3).Resolve(a, host.Texture, name)
	assert.For(ctx, "name in other bucket").ThatError(err).HasCause(gles.ErrNotFound)

	// A second context sharing with the first sees the same host object.
	assert.For(ctx, "Attach").ThatError(m.Attach(a)).Succeeded()
	g1, err := m.Resolve(a, host.Texture, name)
	assert.For(ctx, "Resolve").ThatError(err).Succeeded()
	g2, err := m.GenName(ctx, a, host.Texture, name)
	assert.For(ctx, "GenName existing").ThatError(err).Succeeded()
	assert.For(ctx, "same host object").That(g2).Equals(g1)
	assert.For(ctx, "live textures").ThatInteger(backend.Live(host.Texture)).Equals(1)

	removed, err := m.DeleteName(ctx, a, host.Texture, name)
	assert.For(ctx, "first delete").ThatError(err).Succeeded()
	assert.For(ctx, "first delete removed").ThatBoolean(removed).IsFalse()
	_, err = m.Resolve(a, host.Texture, name)
	assert.For(ctx, "still resolves").ThatError(err).Succeeded()
	assert.For(ctx, "still live").ThatInteger(backend.Live(host.Texture)).Equals(1)

	removed, err = m.DeleteName(ctx, a, host.Texture, name)
	assert.For(ctx, "second delete").ThatError(err).Succeeded()
	assert.For(ctx, "second delete removed").ThatBoolean(removed).IsTrue()
	_, err = m.Resolve(a, host.Texture, name)
	assert.For(ctx, "gone").ThatError(err).HasCause(gles.ErrNotFound)
	assert.For(ctx, "released").ThatInteger(backend.Live(host.Texture)).Equals(0)

	_, err = m.DeleteName(ctx, a, host.Texture, name)
	assert.For(ctx, "third delete").ThatError(err).HasCause(gles.ErrNotFound)
}

func TestNameManagerGenName(t *testing.T) {
	ctx := log.Testing(t)
	ns := gles.NewNameSpace(memhost.New())
	m := ns.Manager(gles.Version3)
	id := m.CreateShareGroup()

	_, err := m.GenName(ctx, id, host.Buffer, 0)
	assert.For(ctx, "name 0").ThatError(err).HasCause(gles.ErrInvalidValue)
	_, err = m.GenName(ctx, id, host.Buffer, 10)
	assert.For(ctx, "GenName 10").ThatError(err).Succeeded()
	name, err := m.CreateName(ctx, id, host.Buffer)
	assert.For(ctx, "CreateName").ThatError(err).Succeeded()
	assert.For(ctx, "name after 10").That(name).Equals(uint32(11))

	_, err = m.CreateName(ctx, 99, host.Buffer)
	assert.For(ctx, "unknown group").ThatError(err).HasCause(gles.ErrNotFound)
}

func TestNameManagerDetach(t *testing.T) {
	ctx := log.Testing(t)
	backend := memhost.New()
	ns := gles.NewNameSpace(backend)
	m := ns.Manager(gles.Version2)
	id := m.CreateShareGroup()
	assert.For(ctx, "Attach").ThatError(m.Attach(id)).Succeeded()

	sg, ok := m.ShareGroup(id)
	assert.For(ctx, "ShareGroup").ThatBoolean(ok).IsTrue()
	_, err := sg.GenBuffers(ctx, 3)
	assert.For(ctx, "GenBuffers").ThatError(err).Succeeded()
	assert.For(ctx, "contexts").ThatInteger(sg.Contexts()).Equals(2)

	assert.For(ctx, "first Detach").ThatError(m.Detach(ctx, id)).Succeeded()
	assert.For(ctx, "buffers kept").ThatInteger(backend.Live(host.Buffer)).Equals(3)

	assert.For(ctx, "last Detach").ThatError(m.Detach(ctx, id)).Succeeded()
	assert.For(ctx, "buffers released").ThatInteger(backend.Live(host.Buffer)).Equals(0)
	_, ok = m.ShareGroup(id)
	assert.For(ctx, "group gone").ThatBoolean(ok).IsFalse()
	_, err = sg.GenBuffers(ctx, 1)
	assert.For(ctx, "destroyed group").ThatError(err).HasCause(gles.ErrNotFound)
	assert.For(ctx, "Detach again").ThatError(m.Detach(ctx, id)).HasCause(gles.ErrNotFound)
}

func TestNameManagerExhaustion(t *testing.T) {
	ctx := log.Testing(t)
	backend := memhost.New()
	ns := gles.NewNameSpace(backend)
	sg, _ := ns.Manager(gles.Version2).ShareGroup(ns.Manager(gles.Version2).CreateShareGroup())

	backend.ExhaustAfter(2)
	_, err := sg.GenTextures(ctx, 3)
	assert.For(ctx, "GenTextures").ThatError(err).HasCause(host.ErrResourceExhausted)
	assert.For(ctx, "rolled back").ThatInteger(backend.Live(host.Texture)).Equals(0)
	assert.For(ctx, "no names").ThatSlice(sg.Names(host.Texture)).IsEmpty()
}

func TestRetainHost(t *testing.T) {
	ctx := log.Testing(t)
	backend := memhost.New()
	ns := gles.NewNameSpace(backend)
	m := ns.Manager(gles.Version2)
	id := m.CreateShareGroup()
	name, _ := m.CreateName(ctx, id, host.Texture)
	g, _ := m.Resolve(id, host.Texture, name)

	assert.For(ctx, "RetainHost").ThatError(ns.RetainHost(g)).Succeeded()
	m.DeleteName(ctx, id, host.Texture, name)
	assert.For(ctx, "kept by retain").ThatInteger(backend.Live(host.Texture)).Equals(1)
	kind, _, err := ns.HostName(g)
	assert.For(ctx, "HostName").ThatError(err).Succeeded()
	assert.For(ctx, "kind").That(kind).Equals(host.Texture)

	assert.For(ctx, "ReleaseHost").ThatError(ns.ReleaseHost(ctx, g)).Succeeded()
	assert.For(ctx, "released").ThatInteger(backend.Live(host.Texture)).Equals(0)
	assert.For(ctx, "ReleaseHost again").ThatError(ns.ReleaseHost(ctx, g)).HasCause(gles.ErrNotFound)
}
