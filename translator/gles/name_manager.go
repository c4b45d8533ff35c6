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

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// ShareGroupID identifies a share group within a NameManager.
type ShareGroupID uint32

// NameManager maps the virtual object names of the share groups of one GLES
// version bucket to host objects.
type NameManager struct {
	ns      *NameSpace
	version Version
	groups  map[ShareGroupID]*ShareGroup
	next    ShareGroupID
}

func newNameManager(ns *NameSpace, v Version) *NameManager {
	return &NameManager{ns: ns, version: v, groups: map[ShareGroupID]*ShareGroup{}}
}

type entryKey struct {
	kind host.ObjectKind
	name uint32
}

type entry struct {
	global GlobalName
	refs   int
	object Object
}

// ShareGroup is a set of virtual object names visible to every context that
// shares it.
type ShareGroup struct {
	mgr       *NameManager
	id        ShareGroupID
	contexts  int
	nextName  uint32
	names     map[entryKey]*entry
	destroyed bool
}

// Version returns the version bucket of the manager.
func (m *NameManager) Version() Version { return m.version }

// CreateShareGroup creates a new share group with one attached context.
func (m *NameManager) CreateShareGroup() ShareGroupID {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	m.next++
	m.groups[m.next] = m.newGroup(m.next)
	m.groups[m.next].contexts = 1
	return m.next
}

func (m *NameManager) newGroup(id ShareGroupID) *ShareGroup {
	return &ShareGroup{mgr: m, id: id, names: map[entryKey]*entry{}}
}

// ShareGroup returns the share group with the given id.
func (m *NameManager) ShareGroup(id ShareGroupID) (*ShareGroup, bool) {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, ok := m.groups[id]
	return sg, ok
}

// ShareGroups returns the ids of every live share group in ascending order.
func (m *NameManager) ShareGroups() []ShareGroupID {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	out := []ShareGroupID{}
	for _, sg := range m.sortedGroups() {
		out = append(out, sg.id)
	}
	return out
}

// Attach adds a context to the share group id.
func (m *NameManager) Attach(id ShareGroupID) error {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return err
	}
	sg.contexts++
	return nil
}

// Detach removes a context from the share group id. When the last context
// leaves, the group is destroyed and every host object it named is
// released.
func (m *NameManager) Detach(ctx context.Context, id ShareGroupID) error {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return err
	}
	if sg.contexts--; sg.contexts > 0 {
		return nil
	}
	delete(m.groups, id)
	sg.destroyed = true
	errs := fault.List{}
	for _, k := range sg.sortedKeys() {
		errs.Collect(m.ns.releaseLocked(ctx, sg.names[k].global))
	}
	sg.names = map[entryKey]*entry{}
	return errs.First()
}

// CreateName allocates a fresh virtual name of the given kind in the share
// group id, backed by a new host object.
func (m *NameManager) CreateName(ctx context.Context, id ShareGroupID, kind host.ObjectKind) (uint32, error) {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return 0, err
	}
	name, _, err := sg.createLocked(ctx, kind)
	return name, err
}

// GenName makes the caller chosen name of the given kind exist in the share
// group id. If it already exists it gains a reference and keeps its host
// object.
func (m *NameManager) GenName(ctx context.Context, id ShareGroupID, kind host.ObjectKind, name uint32) (GlobalName, error) {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return 0, err
	}
	e, err := sg.genLocked(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	return e.global, nil
}

// Resolve returns the host object bound to a virtual name.
func (m *NameManager) Resolve(id ShareGroupID, kind host.ObjectKind, name uint32) (GlobalName, error) {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return 0, err
	}
	e, err := sg.lookupLocked(kind, name)
	if err != nil {
		return 0, err
	}
	return e.global, nil
}

// DeleteName drops one reference to a virtual name. The mapping is removed,
// and the host object released, only when no reference remains. A shader
// still attached to a program is flagged for deletion instead. It returns
// whether the mapping was removed.
func (m *NameManager) DeleteName(ctx context.Context, id ShareGroupID, kind host.ObjectKind, name uint32) (bool, error) {
	m.ns.mu.Lock()
	defer m.ns.mu.Unlock()
	sg, err := m.groupLocked(id)
	if err != nil {
		return false, err
	}
	return sg.deleteLocked(ctx, kind, name)
}

func (m *NameManager) groupLocked(id ShareGroupID) (*ShareGroup, error) {
	sg, ok := m.groups[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%v share group %d", m.version, id)
	}
	return sg, nil
}

func (m *NameManager) sortedGroups() []*ShareGroup {
	out := make([]*ShareGroup, 0, len(m.groups))
	for _, sg := range m.groups {
		out = append(out, sg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (m *NameManager) save(w binary.Writer) {
	w.Uint32(uint32(m.next))
	w.Count(uint32(len(m.groups)))
	for _, sg := range m.sortedGroups() {
		w.Uint32(uint32(sg.id))
		w.Uint32(uint32(sg.contexts))
		w.Uint32(sg.nextName)
		w.Count(uint32(len(sg.names)))
		for _, k := range sg.sortedKeys() {
			e := sg.names[k]
			w.Uint8(uint8(k.kind))
			w.Uint32(k.name)
			w.Uint32(uint32(e.refs))
			w.Uint32(uint32(e.global))
			e.object.Save(w)
		}
	}
}

func (m *NameManager) load(r binary.Reader) error {
	m.next = ShareGroupID(r.Uint32())
	count := r.Count()
	for i := uint32(0); i < count; i++ {
		sg := m.newGroup(ShareGroupID(r.Uint32()))
		sg.contexts = int(r.Uint32())
		sg.nextName = r.Uint32()
		names := r.Count()
		if err := r.Error(); err != nil {
			return err
		}
		if _, dup := m.groups[sg.id]; dup || sg.id == 0 || sg.id > m.next {
			return errors.Wrapf(snapshot.ErrCorrupt, "%v share group %d", m.version, sg.id)
		}
		if sg.contexts == 0 {
			return errors.Wrapf(snapshot.ErrCorrupt, "%v share group %d has no contexts", m.version, sg.id)
		}
		for j := uint32(0); j < names; j++ {
			k := entryKey{kind: host.ObjectKind(r.Uint8()), name: r.Uint32()}
			e := &entry{refs: int(r.Uint32()), global: GlobalName(r.Uint32())}
			if err := r.Error(); err != nil {
				return err
			}
			if !k.kind.Valid() || k.name == 0 || k.name > sg.nextName || e.refs == 0 {
				return errors.Wrapf(snapshot.ErrCorrupt, "%v %d in share group %d", k.kind, k.name, sg.id)
			}
			if _, dup := sg.names[k]; dup {
				return errors.Wrapf(snapshot.ErrCorrupt, "duplicate %v %d in share group %d", k.kind, k.name, sg.id)
			}
			o, err := newObject(k.kind)
			if err != nil {
				return err
			}
			if err := o.Load(r); err != nil {
				return err
			}
			e.object = o
			sg.names[k] = e
		}
		m.groups[sg.id] = sg
	}
	return r.Error()
}

func (sg *ShareGroup) sortedKeys() []entryKey {
	out := make([]entryKey, 0, len(sg.names))
	for k := range sg.names {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		return out[i].name < out[j].name
	})
	return out
}

func (sg *ShareGroup) checkLocked() error {
	if sg.destroyed {
		return errors.Wrapf(ErrNotFound, "%v share group %d was destroyed", sg.mgr.version, sg.id)
	}
	return nil
}

func (sg *ShareGroup) lookupLocked(kind host.ObjectKind, name uint32) (*entry, error) {
	if err := sg.checkLocked(); err != nil {
		return nil, err
	}
	e, ok := sg.names[entryKey{kind, name}]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%v %d in share group %d", kind, name, sg.id)
	}
	return e, nil
}

func (sg *ShareGroup) createLocked(ctx context.Context, kind host.ObjectKind) (uint32, *entry, error) {
	if err := sg.checkLocked(); err != nil {
		return 0, nil, err
	}
	name := sg.nextName + 1
	e, err := sg.genLocked(ctx, kind, name)
	if err != nil {
		return 0, nil, err
	}
	return name, e, nil
}

func (sg *ShareGroup) genLocked(ctx context.Context, kind host.ObjectKind, name uint32) (*entry, error) {
	if err := sg.checkLocked(); err != nil {
		return nil, err
	}
	if name == 0 {
		return nil, errors.Wrapf(ErrInvalidValue, "%v name 0", kind)
	}
	k := entryKey{kind, name}
	if e, ok := sg.names[k]; ok {
		e.refs++
		return e, nil
	}
	o, err := newObject(kind)
	if err != nil {
		return nil, err
	}
	g, err := sg.mgr.ns.allocLocked(ctx, kind)
	if err != nil {
		return nil, err
	}
	e := &entry{global: g, refs: 1, object: o}
	sg.names[k] = e
	if name > sg.nextName {
		sg.nextName = name
	}
	return e, nil
}

func (sg *ShareGroup) deleteLocked(ctx context.Context, kind host.ObjectKind, name uint32) (bool, error) {
	k := entryKey{kind, name}
	e, err := sg.lookupLocked(kind, name)
	if err != nil {
		return false, err
	}
	if e.refs--; e.refs > 0 {
		return false, nil
	}
	if s, ok := e.object.(*Shader); ok && s.attached > 0 {
		// Kept alive by its programs until the last one detaches it.
		e.refs = 1
		s.DeleteStatus = true
		return false, nil
	}
	delete(sg.names, k)
	errs := fault.List{}
	if p, ok := e.object.(*Program); ok {
		for _, s := range p.Attached {
			errs.Collect(sg.releaseShaderLocked(ctx, s))
		}
		p.Attached = nil
	}
	errs.Collect(sg.mgr.ns.releaseLocked(ctx, e.global))
	return true, errs.First()
}

// restoreLocked brings the host objects of a freshly loaded group back to the
// state their snapshot describes.
func (sg *ShareGroup) restoreLocked(ctx context.Context) error {
	keys := sg.sortedKeys()
	for _, k := range keys {
		p, ok := sg.names[k].object.(*Program)
		if !ok {
			continue
		}
		for _, name := range p.Attached {
			e, ok := sg.names[entryKey{host.Shader, name}]
			if !ok {
				return errors.Wrapf(snapshot.ErrCorrupt, "program %d has unknown shader %d attached", k.name, name)
			}
			e.object.(*Shader).attached++
		}
	}
	for _, k := range keys {
		e := sg.names[k]
		s, ok := e.object.(*Shader)
		if !ok {
			continue
		}
		if s.DeleteStatus && s.attached == 0 {
			return errors.Wrapf(snapshot.ErrCorrupt, "deleted shader %d is not attached", k.name)
		}
		if s.Status != Compiled {
			continue
		}
		if _, _, err := sg.mgr.ns.backend.CompileShader(ctx, sg.hostLocked(e), s.Type, s.CompiledSource); err != nil {
			return err
		}
	}
	for _, k := range keys {
		e := sg.names[k]
		p, ok := e.object.(*Program)
		if !ok || p.Status != Linked {
			continue
		}
		if _, _, err := sg.mgr.ns.backend.LinkProgram(ctx, sg.hostLocked(e), sg.shaderHostsLocked(p)); err != nil {
			return err
		}
	}
	log.D(ctx, "Restored %v share group %d with %d names", sg.mgr.version, sg.id, len(keys))
	return nil
}

func (sg *ShareGroup) hostLocked(e *entry) host.Name {
	return sg.mgr.ns.objects[e.global].name
}

func (sg *ShareGroup) shaderHostsLocked(p *Program) []host.Name {
	out := make([]host.Name, 0, len(p.Attached))
	for _, name := range p.Attached {
		if e, ok := sg.names[entryKey{host.Shader, name}]; ok {
			out = append(out, sg.hostLocked(e))
		}
	}
	return out
}
