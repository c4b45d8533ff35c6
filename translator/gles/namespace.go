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

package gles

import (
	"context"
	"sort"
	"sync"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// GlobalName identifies a host object within a NameSpace. Unlike host names
// it is stable across a snapshot save and load, so it is what other
// snapshotted state uses to refer to host objects.
type GlobalName uint32

type hostObject struct {
	kind host.ObjectKind
	name host.Name
	refs int
}

// NameSpace is the global shared namespace of a display. It owns one
// NameManager per GLES version bucket and every host object created for
// them.
//
// All NameManagers and ShareGroups of a NameSpace share its lock.
type NameSpace struct {
	mu       sync.Mutex
	backend  host.Backend
	objects  map[GlobalName]*hostObject
	next     GlobalName
	managers [MaxVersion]*NameManager
}

// NewNameSpace returns an empty NameSpace that creates host objects with
// backend.
func NewNameSpace(backend host.Backend) *NameSpace {
	ns := &NameSpace{backend: backend}
	ns.reset()
	return ns
}

func (ns *NameSpace) reset() {
	ns.objects = map[GlobalName]*hostObject{}
	for v := range ns.managers {
		ns.managers[v] = newNameManager(ns, Version(v))
	}
}

// Manager returns the NameManager of version bucket v, or nil if v is not a
// valid bucket.
func (ns *NameSpace) Manager(v Version) *NameManager {
	if !v.Valid() {
		return nil
	}
	return ns.managers[v]
}

// HostName returns the kind and backend name of the host object g.
func (ns *NameSpace) HostName(g GlobalName) (host.ObjectKind, host.Name, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	o, ok := ns.objects[g]
	if !ok {
		return 0, 0, errors.Wrapf(ErrNotFound, "global name %d", g)
	}
	return o.kind, o.name, nil
}

// RetainHost adds a reference to the host object g, keeping it alive after
// every virtual name for it has been deleted.
func (ns *NameSpace) RetainHost(g GlobalName) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	o, ok := ns.objects[g]
	if !ok {
		return errors.Wrapf(ErrNotFound, "global name %d", g)
	}
	o.refs++
	return nil
}

// ReleaseHost drops a reference taken with RetainHost.
func (ns *NameSpace) ReleaseHost(ctx context.Context, g GlobalName) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.releaseLocked(ctx, g)
}

// HostObjects returns the number of live host objects owned by ns.
func (ns *NameSpace) HostObjects() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.objects)
}

// VerifyRefs checks that the reference count of every host object is
// exactly the number of virtual names bound to it plus external[g].
func (ns *NameSpace) VerifyRefs(external map[GlobalName]int) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	counts := map[GlobalName]int{}
	for g, n := range external {
		counts[g] += n
	}
	for _, m := range ns.managers {
		for _, sg := range m.groups {
			for _, e := range sg.names {
				counts[e.global]++
			}
		}
	}
	for g := range counts {
		if _, ok := ns.objects[g]; !ok {
			return errors.Wrapf(snapshot.ErrCorrupt, "reference to unknown global name %d", g)
		}
	}
	for g, o := range ns.objects {
		if counts[g] != o.refs {
			return errors.Wrapf(snapshot.ErrCorrupt,
				"global name %d has %d references, %d in use", g, o.refs, counts[g])
		}
	}
	return nil
}

func (ns *NameSpace) allocLocked(ctx context.Context, kind host.ObjectKind) (GlobalName, error) {
	n, err := ns.backend.CreateObject(ctx, kind)
	if err != nil {
		return 0, err
	}
	ns.next++
	ns.objects[ns.next] = &hostObject{kind: kind, name: n, refs: 1}
	return ns.next, nil
}

func (ns *NameSpace) releaseLocked(ctx context.Context, g GlobalName) error {
	o, ok := ns.objects[g]
	if !ok {
		return errors.Wrapf(ErrNotFound, "global name %d", g)
	}
	if o.refs--; o.refs > 0 {
		return nil
	}
	delete(ns.objects, g)
	if err := ns.backend.DeleteObject(ctx, o.kind, o.name); err != nil {
		return log.Errf(ctx, err, "Deleting host %v %d", o.kind, o.name)
	}
	return nil
}

// Clear deletes every share group and releases every host object regardless
// of outstanding references. Allocation of global names continues from where
// it was.
func (ns *NameSpace) Clear(ctx context.Context) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.clearLocked(ctx)
}

func (ns *NameSpace) clearLocked(ctx context.Context) error {
	errs := fault.List{}
	for _, g := range ns.sortedGlobals() {
		o := ns.objects[g]
		errs.Collect(ns.backend.DeleteObject(ctx, o.kind, o.name))
	}
	for _, m := range ns.managers {
		for _, sg := range m.groups {
			sg.destroyed = true
		}
	}
	ns.reset()
	if len(errs) > 0 {
		log.W(ctx, "Releasing %d host objects failed: %v", len(errs), errs)
	}
	return errs.First()
}

func (ns *NameSpace) sortedGlobals() []GlobalName {
	out := make([]GlobalName, 0, len(ns.objects))
	for g := range ns.objects {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Save writes the host object table followed by every version bucket.
func (ns *NameSpace) Save(w binary.Writer) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	w.Uint32(uint32(ns.next))
	w.Count(uint32(len(ns.objects)))
	for _, g := range ns.sortedGlobals() {
		o := ns.objects[g]
		w.Uint8(uint8(o.kind))
		w.Uint32(uint32(g))
		w.Uint32(uint32(o.refs))
	}
	for _, m := range ns.managers {
		m.save(w)
	}
}

// Load replaces the contents of ns with the namespace read from r. See
// LoadNameSpace.
func (ns *NameSpace) Load(ctx context.Context, r binary.Reader) error {
	staged, err := LoadNameSpace(ctx, ns.backend, r)
	if err != nil {
		return err
	}
	return ns.Adopt(ctx, staged)
}

// Adopt releases everything ns holds and moves the contents of staged into
// it. staged must not be used afterwards.
func (ns *NameSpace) Adopt(ctx context.Context, staged *NameSpace) error {
	staged.mu.Lock()
	defer staged.mu.Unlock()
	ns.mu.Lock()
	defer ns.mu.Unlock()
	err := ns.clearLocked(ctx)
	ns.objects, ns.next, ns.managers = staged.objects, staged.next, staged.managers
	for _, m := range ns.managers {
		m.ns = ns
	}
	staged.reset()
	return err
}

// LoadNameSpace decodes a namespace from r, recreating every host object
// through backend. Shaders saved as compiled are compiled again and programs
// saved as linked are linked again, but their reported status is the one
// that was saved.
//
// On error every host object created so far is released and nil is
// returned.
func LoadNameSpace(ctx context.Context, backend host.Backend, r binary.Reader) (*NameSpace, error) {
	ns := NewNameSpace(backend)
	if err := ns.decode(ctx, r); err != nil {
		ns.Clear(ctx)
		return nil, err
	}
	return ns, nil
}

func (ns *NameSpace) decode(ctx context.Context, r binary.Reader) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	next := GlobalName(r.Uint32())
	count := r.Count()
	for i := uint32(0); i < count; i++ {
		kind := host.ObjectKind(r.Uint8())
		g := GlobalName(r.Uint32())
		refs := r.Uint32()
		if err := r.Error(); err != nil {
			return err
		}
		switch _, dup := ns.objects[g]; {
		case !kind.Valid():
			return errors.Wrapf(snapshot.ErrCorrupt, "host object kind %d", kind)
		case g == 0 || g > next || dup:
			return errors.Wrapf(snapshot.ErrCorrupt, "global name %d", g)
		case refs == 0:
			return errors.Wrapf(snapshot.ErrCorrupt, "global name %d has no references", g)
		}
		n, err := ns.backend.CreateObject(ctx, kind)
		if err != nil {
			return err
		}
		ns.objects[g] = &hostObject{kind: kind, name: n, refs: int(refs)}
	}
	ns.next = next
	for _, m := range ns.managers {
		if err := m.load(r); err != nil {
			return err
		}
	}
	used := map[GlobalName]int{}
	for _, m := range ns.managers {
		for _, sg := range m.groups {
			for k, e := range sg.names {
				o, ok := ns.objects[e.global]
				if !ok || o.kind != k.kind {
					return errors.Wrapf(snapshot.ErrCorrupt, "%v %d bound to global name %d", k.kind, k.name, e.global)
				}
				if used[e.global]++; used[e.global] > o.refs {
					return errors.Wrapf(snapshot.ErrCorrupt, "global name %d over-referenced", e.global)
				}
			}
		}
	}
	for _, m := range ns.managers {
		for _, sg := range m.sortedGroups() {
			if err := sg.restoreLocked(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
