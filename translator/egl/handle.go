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
	"sort"
	"sync/atomic"

	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
)

// Handle is the opaque value handed to clients for a context, surface or
// image. Handles are allocated from a single counter per display, start at
// 1 and are never reused.
type Handle uint32

// refCounted is embedded by every object held in a registry. The registry
// owns one reference; lookups hand out another that the caller drops with
// Release. The object's host resources are freed with the last reference.
type refCounted struct {
	handle Handle
	refs   atomic.Int32
	free   func(ctx context.Context) error
	// stale is set when the namespace the object was created in has been
	// cleared, so freeing must not touch it.
	stale atomic.Bool
}

// Handle returns the handle of the object, or zero if it was never added to
// a display.
func (r *refCounted) Handle() Handle { return r.handle }

func (r *refCounted) init(free func(ctx context.Context) error) {
	r.refs.Store(1)
	r.free = free
}

func (r *refCounted) acquire() { r.refs.Add(1) }

// Release drops a reference to the object. The host resources of the object
// are destroyed when the last reference is dropped.
func (r *refCounted) Release(ctx context.Context) error {
	switch n := r.refs.Add(-1); {
	case n > 0:
		return nil
	case n < 0:
		panic("egl: object released too many times")
	}
	if r.free == nil {
		return nil
	}
	return r.free(ctx)
}

func (r *refCounted) base() *refCounted { return r }

type object interface {
	snapshot.Serializable
	base() *refCounted
}

// table maps handles to the objects of one kind. It is guarded by the
// display lock.
type table[T object] struct {
	items map[Handle]T
}

func newTable[T object]() table[T] {
	return table[T]{items: map[Handle]T{}}
}

func (t *table[T]) add(h Handle, o T) {
	o.base().handle = h
	t.items[h] = o
}

// get returns the object with handle h with a reference acquired for the
// caller.
func (t *table[T]) get(h Handle) (T, bool) {
	o, ok := t.items[h]
	if ok {
		o.base().acquire()
	}
	return o, ok
}

// peek returns the object with handle h without acquiring a reference.
func (t *table[T]) peek(h Handle) (T, bool) {
	o, ok := t.items[h]
	return o, ok
}

// remove unregisters h and returns the object, still carrying the reference
// the table held.
func (t *table[T]) remove(h Handle) (T, bool) {
	o, ok := t.items[h]
	if ok {
		delete(t.items, h)
	}
	return o, ok
}

func (t *table[T]) len() int { return len(t.items) }

// sorted returns every object in ascending handle order.
func (t *table[T]) sorted() []T {
	out := make([]T, 0, len(t.items))
	for _, o := range t.items {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].base().handle < out[j].base().handle })
	return out
}

// clear empties the table and returns what it held, in handle order.
func (t *table[T]) clear() []T {
	out := t.sorted()
	t.items = map[Handle]T{}
	return out
}

// save writes the objects of the table in ascending handle order, each
// prefixed with its handle.
func (t *table[T]) save(w binary.Writer) {
	objects := t.sorted()
	w.Count(uint32(len(objects)))
	for _, o := range objects {
		w.Uint32(uint32(o.base().handle))
		o.Save(w)
	}
}

// loadTable reads what table.save wrote into unregistered objects made by
// blank. Handles must ascend, must not exceed next and must not be in seen,
// which collects the handles of every kind.
func loadTable[T object](r binary.Reader, what string, next Handle, seen map[Handle]bool, blank func() T) ([]T, error) {
	out := []T{}
	prev := Handle(0)
	for i, n := uint32(0), r.Count(); i < n; i++ {
		h := Handle(r.Uint32())
		if err := r.Error(); err != nil {
			return nil, err
		}
		if h == 0 || h > next || h <= prev || seen[h] {
			return nil, corrupt("%s handle %d", what, h)
		}
		seen[h] = true
		o := blank()
		o.base().handle = h
		if err := o.Load(r); err != nil {
			return nil, err
		}
		if err := r.Error(); err != nil {
			return nil, err
		}
		out = append(out, o)
		prev = h
	}
	return out, r.Error()
}
