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
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
	"github.com/pkg/errors"
)

// SnapshotKind tags display checkpoints.
var SnapshotKind = snapshot.Kind{'D', 'I', 'S', 'P'}

// Save writes the contexts, surfaces and images of the display in ascending
// handle order, followed by the global shared namespace. The config catalog
// is not saved: it is rebuilt by Initialize.
//
// No other call may be made on the display while it is saved.
func (d *Display) Save(ctx context.Context, w binary.Writer) error {
	ctx = log.Enter(ctx, "Display.Save")
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	snapshot.WriteHeader(w, SnapshotKind)
	w.Uint32(uint32(d.next))
	d.contexts.save(w)
	d.surfaces.save(w)
	d.images.save(w)
	d.names.Save(w)
	if err := w.Error(); err != nil {
		return log.Err(ctx, err, "Saving display")
	}
	log.I(ctx, "Saved %d contexts, %d surfaces and %d images", d.contexts.len(), d.surfaces.len(), d.images.len())
	return nil
}

// Load replaces the objects of the display with the ones read from r,
// recreating their host resources. The display must be initialized, with
// the same host formats as the display that was saved.
//
// Load either succeeds or leaves the display exactly as it was: any error,
// including a truncated stream or a host allocation failure, releases
// whatever was recreated so far. No other call may be made on the display
// while it is loaded.
//
// A successful Load invalidates every handle handed out before it. Restored
// objects keep their saved handles, so an old handle may now name a
// restored object of the same kind.
func (d *Display) Load(ctx context.Context, r binary.Reader) error {
	ctx = log.Enter(ctx, "Display.Load")
	if _, err := d.Configs(); err != nil {
		return err
	}
	if err := snapshot.ReadHeader(r, SnapshotKind); err != nil {
		return err
	}
	l := &loaded{next: Handle(r.Uint32())}
	if err := l.decode(d, r); err != nil {
		return err
	}
	staged, err := gles.LoadNameSpace(ctx, d.backend, r)
	if err != nil {
		return err
	}
	if err := l.check(staged); err != nil {
		staged.Clear(ctx)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		staged.Clear(ctx)
		return err
	}
	if err := d.createHostLocked(ctx, staged, l); err != nil {
		d.destroyHost(ctx, l)
		staged.Clear(ctx)
		return log.Err(ctx, err, "Restoring display")
	}

	errs := fault.List{}
	d.releaseAllLocked(ctx, &errs)
	errs.Collect(d.names.Adopt(ctx, staged))
	if len(errs) > 0 {
		log.W(ctx, "Releasing previous display state: %v", errs.Err())
	}
	for _, c := range l.contexts {
		d.contexts.add(c.handle, c)
	}
	for _, s := range l.surfaces {
		d.surfaces.add(s.handle, s)
	}
	for _, i := range l.images {
		d.images.add(i.handle, i)
	}
	if l.next > d.next {
		d.next = l.next
	}
	log.I(ctx, "Loaded %d contexts, %d surfaces and %d images", len(l.contexts), len(l.surfaces), len(l.images))
	return nil
}

// Checkpoint returns the display as a snapshot.Serializable that saves and
// loads with ctx.
func (d *Display) Checkpoint(ctx context.Context) snapshot.Serializable {
	return checkpoint{ctx: ctx, display: d}
}

type checkpoint struct {
	ctx     context.Context
	display *Display
}

func (c checkpoint) Save(w binary.Writer) {
	if err := c.display.Save(c.ctx, w); err != nil && w.Error() == nil {
		w.SetError(err)
	}
}

func (c checkpoint) Load(r binary.Reader) error { return c.display.Load(c.ctx, r) }

func corrupt(format string, args ...interface{}) error {
	return errors.Wrapf(snapshot.ErrCorrupt, format, args...)
}

// loadConfig reads a config id and returns the config of the catalog with
// that id.
func (d *Display) loadConfig(r binary.Reader, what string, h Handle) (*Config, error) {
	id := r.Int32()
	if err := r.Error(); err != nil {
		return nil, err
	}
	catalog := d.catalog.Load()
	if catalog == nil {
		return nil, errors.Wrapf(ErrNotInitialized, "display %d", d.native)
	}
	cfg, err := catalog.ByID(id)
	if err != nil {
		return nil, corrupt("%s %d has unknown config %d", what, h, id)
	}
	return cfg, nil
}

// loaded holds the unregistered objects of a display being loaded.
type loaded struct {
	next     Handle
	contexts []*Context
	surfaces []*Surface
	images   []*Image
}

func (l *loaded) decode(d *Display, r binary.Reader) error {
	seen := map[Handle]bool{}
	var err error
	if l.contexts, err = loadTable(r, "context", l.next, seen, func() *Context { return blankContext(d) }); err != nil {
		return err
	}
	if l.surfaces, err = loadTable(r, "surface", l.next, seen, func() *Surface { return blankSurface(d) }); err != nil {
		return err
	}
	l.images, err = loadTable(r, "image", l.next, seen, func() *Image { return blankImage(d) })
	return err
}

// check validates the references between the decoded objects and the staged
// namespace.
func (l *loaded) check(ns *gles.NameSpace) error {
	type groupKey struct {
		version gles.Version
		group   gles.ShareGroupID
	}
	members := map[groupKey]int{}
	byContext := map[Handle]*Context{}
	for _, c := range l.contexts {
		members[groupKey{c.version, c.group}]++
		byContext[c.handle] = c
	}
	for k, n := range members {
		sg, ok := ns.Manager(k.version).ShareGroup(k.group)
		if !ok {
			return corrupt("%v share group %d does not exist", k.version, k.group)
		}
		if sg.Contexts() != n {
			return corrupt("%v share group %d has %d contexts, %d restored", k.version, k.group, sg.Contexts(), n)
		}
	}
	for v := 0; v < gles.MaxVersion; v++ {
		for _, id := range ns.Manager(gles.Version(v)).ShareGroups() {
			if members[groupKey{gles.Version(v), id}] == 0 {
				return corrupt("%v share group %d has no context", gles.Version(v), id)
			}
		}
	}

	bySurface := map[Handle]*Surface{}
	for _, s := range l.surfaces {
		bySurface[s.handle] = s
	}
	for _, c := range l.contexts {
		for _, h := range []Handle{c.draw, c.read} {
			if s, ok := bySurface[h]; h != 0 && (!ok || s.bound != c.handle) {
				return corrupt("context %d bound to surface %d", c.handle, h)
			}
		}
	}
	for _, s := range l.surfaces {
		if c, ok := byContext[s.bound]; s.bound != 0 && (!ok || (c.draw != s.handle && c.read != s.handle)) {
			return corrupt("surface %d bound to context %d", s.handle, s.bound)
		}
	}

	external := map[gles.GlobalName]int{}
	for _, i := range l.images {
		if i.source > l.next {
			return corrupt("image %d from context %d", i.handle, i.source)
		}
		if i.texture != 0 {
			external[i.texture]++
		}
	}
	return ns.VerifyRefs(external)
}

// createHostLocked creates the host resources of the loaded objects.
// Contexts share with the host context of the context they were created to
// share with, if that was restored, or the global shared context.
func (d *Display) createHostLocked(ctx context.Context, ns *gles.NameSpace, l *loaded) error {
	global, err := d.globalLocked(ctx)
	if err != nil {
		return err
	}
	hosts := map[Handle]host.Context{}
	for _, c := range l.contexts {
		share, ok := hosts[c.sharedWith]
		if !ok {
			share = global
		}
		if c.host, err = d.backend.CreateContext(ctx, d.internal, c.config.Format, share); err != nil {
			return err
		}
		hosts[c.handle] = c.host
	}
	for _, s := range l.surfaces {
		info := host.SurfaceInfo{
			Kind:   s.kind,
			Format: s.config.Format,
			Window: s.window,
			Width:  s.width,
			Height: s.height,
		}
		if s.host, err = d.backend.CreateSurface(ctx, d.internal, info); err != nil {
			return err
		}
	}
	for _, i := range l.images {
		info := host.ImageInfo{
			Target:         uint32(i.target),
			Width:          i.width,
			Height:         i.height,
			InternalFormat: i.internalFormat,
		}
		if i.texture != 0 {
			if _, info.Source, err = ns.HostName(i.texture); err != nil {
				return err
			}
		}
		if i.host, err = d.backend.CreateImage(ctx, info); err != nil {
			return err
		}
	}
	return nil
}

// destroyHost releases the host resources createHostLocked managed to
// create. The loaded objects are dropped without being released, as they
// never joined the display's namespace.
func (d *Display) destroyHost(ctx context.Context, l *loaded) {
	errs := fault.List{}
	for _, i := range l.images {
		if i.host != 0 {
			errs.Collect(d.backend.DestroyImage(ctx, i.host))
		}
	}
	for _, s := range l.surfaces {
		if s.host != 0 {
			errs.Collect(d.backend.DestroySurface(ctx, s.host))
		}
	}
	for _, c := range l.contexts {
		if c.host != 0 {
			errs.Collect(d.backend.DestroyContext(ctx, c.host))
		}
	}
	if len(errs) > 0 {
		log.W(ctx, "Releasing partially restored display: %v", errs.Err())
	}
}
