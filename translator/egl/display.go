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
	"sync"
	"sync/atomic"

	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
	"github.com/pkg/errors"
)

// State is the lifecycle state of a display.
type State int32

const (
	Created State = iota
	Initialized
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Initialized:
		return "Initialized"
	case Terminated:
		return "Terminated"
	default:
		return "State(?)"
	}
}

// Options configures a display.
type Options struct {
	// IsDefault marks the default display, which creates the global shared
	// context as soon as it is initialized.
	IsDefault bool
}

// Display owns every EGL object of one native display: the config catalog,
// the context, surface and image registries and the global shared
// namespace.
type Display struct {
	native    host.NativeDisplay
	internal  host.InternalDisplay
	backend   host.Backend
	isDefault bool
	names     *gles.NameSpace

	// The catalog is built once and read without locking.
	catalog atomic.Pointer[Catalog]
	state   atomic.Int32

	mu       sync.Mutex
	next     Handle
	contexts table[*Context]
	surfaces table[*Surface]
	images   table[*Image]
	global   host.Context
}

// NewDisplay returns a display in the Created state.
func NewDisplay(native host.NativeDisplay, internal host.InternalDisplay, backend host.Backend, opts Options) *Display {
	return &Display{
		native:    native,
		internal:  internal,
		backend:   backend,
		isDefault: opts.IsDefault,
		names:     gles.NewNameSpace(backend),
		contexts:  newTable[*Context](),
		surfaces:  newTable[*Surface](),
		images:    newTable[*Image](),
	}
}

// NativeDisplay returns the native display handle.
func (d *Display) NativeDisplay() host.NativeDisplay { return d.native }

// InternalDisplay returns the internal display handle.
func (d *Display) InternalDisplay() host.InternalDisplay { return d.internal }

// IsDefault returns true for the default display.
func (d *Display) IsDefault() bool { return d.isDefault }

// State returns the lifecycle state of the display.
func (d *Display) State() State { return State(d.state.Load()) }

// IsInitialized returns true if the display is initialized.
func (d *Display) IsInitialized() bool { return d.State() == Initialized }

func (d *Display) check() error {
	if s := d.State(); s != Initialized {
		return errors.Wrapf(ErrNotInitialized, "display is %v", s)
	}
	return nil
}

// Initialize builds the config catalog from the host pixel formats, keeping
// the renderable types in renderable. Initializing an initialized display
// does nothing. A terminated display can be initialized again and keeps its
// catalog.
func (d *Display) Initialize(ctx context.Context, renderable int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.IsInitialized() {
		return nil
	}
	if d.catalog.Load() == nil {
		formats, err := d.backend.PixelFormats(ctx, d.internal)
		if err != nil {
			return log.Err(ctx, err, "Querying host pixel formats")
		}
		d.catalog.Store(NewCatalog(formats, renderable))
	}
	d.state.Store(int32(Initialized))
	if d.isDefault {
		if _, err := d.globalLocked(ctx); err != nil {
			d.state.Store(int32(Created))
			return err
		}
	}
	log.I(ctx, "Display %d initialized with %d configs", d.native, d.catalog.Load().Count())
	return nil
}

// Terminate removes every context, surface and image, releases the host
// objects of the namespace and the global shared context. Later lookups fail
// with ErrNotInitialized until the display is initialized again.
func (d *Display) Terminate(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.IsInitialized() {
		return nil
	}
	d.state.Store(int32(Terminated))
	errs := fault.List{}
	d.releaseAllLocked(ctx, &errs)
	if d.global != 0 {
		errs.Collect(d.backend.DestroyContext(ctx, d.global))
		d.global = 0
	}
	if len(errs) > 0 {
		log.W(ctx, "Display %d terminated with %d release failures", d.native, len(errs))
	} else {
		log.I(ctx, "Display %d terminated", d.native)
	}
	return errs.First()
}

// releaseAllLocked empties every registry and the namespace. Objects still
// referenced elsewhere are marked stale so that their final release does not
// touch the namespace again.
func (d *Display) releaseAllLocked(ctx context.Context, errs *fault.List) {
	images, surfaces, contexts := d.images.clear(), d.surfaces.clear(), d.contexts.clear()
	for _, i := range images {
		i.stale.Store(true)
		errs.Collect(i.Release(ctx))
	}
	for _, s := range surfaces {
		errs.Collect(s.Release(ctx))
	}
	for _, c := range contexts {
		c.stale.Store(true)
		errs.Collect(c.Release(ctx))
	}
	errs.Collect(d.names.Clear(ctx))
}

// GlobalSharedContext returns the host context that keeps the host GPU
// context alive when no client context is bound. It is created on first
// use and lives until the display is terminated.
func (d *Display) GlobalSharedContext(ctx context.Context) (host.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	return d.globalLocked(ctx)
}

func (d *Display) globalLocked(ctx context.Context) (host.Context, error) {
	if d.global != 0 {
		return d.global, nil
	}
	f := host.PixelFormat{}
	if configs := d.catalog.Load().Configs(); len(configs) > 0 {
		f = configs[0].Format
	}
	hc, err := d.backend.CreateContext(ctx, d.internal, f, 0)
	if err != nil {
		return 0, log.Err(ctx, err, "Creating global shared context")
	}
	d.global = hc
	return hc, nil
}

// Manager returns the name manager of version bucket v.
func (d *Display) Manager(v gles.Version) *gles.NameManager { return d.names.Manager(v) }

// NameSpace returns the global shared namespace of the display.
func (d *Display) NameSpace() *gles.NameSpace { return d.names }

// Configs returns the config catalog.
func (d *Display) Configs() (*Catalog, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.catalog.Load(), nil
}

// ConfigCount returns the number of configs.
func (d *Display) ConfigCount() (int, error) {
	c, err := d.Configs()
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// GetConfigs writes up to len(out) config handles to out, as eglGetConfigs
// does.
func (d *Display) GetConfigs(out []ConfigHandle) (int, error) {
	c, err := d.Configs()
	if err != nil {
		return 0, err
	}
	return c.List(out), nil
}

// ChooseConfigs writes the configs matching the attribute list to out, as
// eglChooseConfig does.
func (d *Display) ChooseConfigs(attribs []int32, out []ConfigHandle) (int, error) {
	c, err := d.Configs()
	if err != nil {
		return 0, err
	}
	cr, err := NewCriteria(attribs)
	if err != nil {
		return 0, err
	}
	return c.Choose(cr, out), nil
}

// ConfigByID returns the config with the given EGL_CONFIG_ID.
func (d *Display) ConfigByID(id int32) (*Config, error) {
	c, err := d.Configs()
	if err != nil {
		return nil, err
	}
	return c.ByID(id)
}

// ConfigByHandle returns the config with the given handle.
func (d *Display) ConfigByHandle(h ConfigHandle) (*Config, error) {
	c, err := d.Configs()
	if err != nil {
		return nil, err
	}
	return c.ByHandle(h)
}

func (d *Display) allocLocked() Handle {
	d.next++
	return d.next
}

// NewContext creates an unregistered context for cfg in version bucket v.
// If shareWith is not zero the new context joins the share group of that
// context.
func (d *Display) NewContext(ctx context.Context, cfg *Config, v gles.Version, shareWith Handle) (*Context, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil config")
	}
	if !v.Valid() {
		return nil, errors.Wrapf(ErrInvalidArgument, "version %v", v)
	}
	if cfg.RenderableType&renderableBit(v) == 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "config %d does not support %v", cfg.ID, v)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	share, err := d.globalLocked(ctx)
	if err != nil {
		return nil, err
	}
	var shared *Context
	if shareWith != 0 {
		var ok bool
		if shared, ok = d.contexts.peek(shareWith); !ok {
			return nil, errors.Wrapf(ErrNotFound, "share context %d", shareWith)
		}
		if shared.version != v {
			return nil, errors.Wrapf(ErrInvalidArgument, "cannot share %v context %d with a %v context", shared.version, shareWith, v)
		}
		share = shared.host
	}
	hc, err := d.backend.CreateContext(ctx, d.internal, cfg.Format, share)
	if err != nil {
		return nil, err
	}
	m := d.names.Manager(v)
	var group gles.ShareGroupID
	if shared != nil {
		group = shared.group
		err = m.Attach(group)
	} else {
		group = m.CreateShareGroup()
	}
	if err != nil {
		d.backend.DestroyContext(ctx, hc)
		return nil, err
	}
	return newContext(d, cfg, v, group, shareWith, hc), nil
}

// AddContext registers c and returns its new handle. An object can
// only be added once.
func (d *Display) AddContext(c *Context) (Handle, error) {
	if c == nil {
		return 0, errors.Wrap(ErrInvalidArgument, "nil context")
	}
	if c.display != d {
		return 0, errors.Wrap(ErrInvalidArgument, "context of another display")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	if c.handle != 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "context already added as %d", c.handle)
	}
	h := d.allocLocked()
	d.contexts.add(h, c)
	return h, nil
}

// CreateContext creates and registers a context. See NewContext.
func (d *Display) CreateContext(ctx context.Context, cfg *Config, v gles.Version, shareWith Handle) (Handle, error) {
	c, err := d.NewContext(ctx, cfg, v, shareWith)
	if err != nil {
		return 0, err
	}
	h, err := d.AddContext(c)
	if err != nil {
		c.Release(ctx)
		return 0, err
	}
	return h, nil
}

// Context returns the context with handle h. The caller must Release it.
func (d *Display) Context(h Handle) (*Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	c, ok := d.contexts.get(h)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "context %d", h)
	}
	return c, nil
}

// RemoveContext unregisters the context with handle h. It returns false if
// there is no such context. The context is destroyed once every reference
// handed out by Context is released.
func (d *Display) RemoveContext(ctx context.Context, h Handle) (bool, error) {
	d.mu.Lock()
	if err := d.check(); err != nil {
		d.mu.Unlock()
		return false, err
	}
	c, ok := d.contexts.remove(h)
	if ok {
		d.unbindLocked(c)
	}
	d.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, c.Release(ctx)
}

// NewSurface creates an unregistered surface.
func (d *Display) NewSurface(ctx context.Context, kind host.SurfaceKind, cfg *Config, window host.NativeWindow, width, height int32) (*Surface, error) {
	if err := checkSurface(kind, cfg, window, width, height); err != nil {
		return nil, err
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	hs, err := d.backend.CreateSurface(ctx, d.internal, host.SurfaceInfo{
		Kind:   kind,
		Format: cfg.Format,
		Window: window,
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, err
	}
	return newSurface(d, kind, cfg, window, width, height, hs), nil
}

// AddSurface registers s and returns its new handle. An object can
// only be added once.
func (d *Display) AddSurface(s *Surface) (Handle, error) {
	if s == nil {
		return 0, errors.Wrap(ErrInvalidArgument, "nil surface")
	}
	if s.display != d {
		return 0, errors.Wrap(ErrInvalidArgument, "surface of another display")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	if s.handle != 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "surface already added as %d", s.handle)
	}
	h := d.allocLocked()
	d.surfaces.add(h, s)
	return h, nil
}

func (d *Display) createSurface(ctx context.Context, kind host.SurfaceKind, cfg *Config, window host.NativeWindow, width, height int32) (Handle, error) {
	s, err := d.NewSurface(ctx, kind, cfg, window, width, height)
	if err != nil {
		return 0, err
	}
	h, err := d.AddSurface(s)
	if err != nil {
		s.Release(ctx)
		return 0, err
	}
	return h, nil
}

// CreateWindowSurface creates and registers a surface for a native window.
func (d *Display) CreateWindowSurface(ctx context.Context, cfg *Config, window host.NativeWindow, width, height int32) (Handle, error) {
	return d.createSurface(ctx, host.WindowSurface, cfg, window, width, height)
}

// CreatePbufferSurface creates and registers an off-screen surface.
func (d *Display) CreatePbufferSurface(ctx context.Context, cfg *Config, width, height int32) (Handle, error) {
	return d.createSurface(ctx, host.PbufferSurface, cfg, 0, width, height)
}

// CreatePixmapSurface creates and registers a pixmap surface.
func (d *Display) CreatePixmapSurface(ctx context.Context, cfg *Config, width, height int32) (Handle, error) {
	return d.createSurface(ctx, host.PixmapSurface, cfg, 0, width, height)
}

// Surface returns the surface with handle h. The caller must Release it.
func (d *Display) Surface(h Handle) (*Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	s, ok := d.surfaces.get(h)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "surface %d", h)
	}
	return s, nil
}

// RemoveSurface unregisters the surface with handle h, unbinding it from
// its context. It returns false if there is no such surface.
func (d *Display) RemoveSurface(ctx context.Context, h Handle) (bool, error) {
	d.mu.Lock()
	if err := d.check(); err != nil {
		d.mu.Unlock()
		return false, err
	}
	s, ok := d.surfaces.remove(h)
	if ok {
		if c, bound := d.contexts.peek(s.bound); bound {
			if c.draw == h {
				c.draw = 0
			}
			if c.read == h {
				c.read = 0
			}
		}
	}
	d.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, s.Release(ctx)
}

// MakeCurrent binds the draw and read surfaces to the context c. Zero
// surfaces unbind. A surface bound to another context is taken from it.
// A zero context only releases the given surfaces from whichever context
// holds them, so MakeCurrent(0, 0, 0) always succeeds.
func (d *Display) MakeCurrent(c, draw, read Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	for _, h := range []Handle{draw, read} {
		if _, ok := d.surfaces.peek(h); h != 0 && !ok {
			return errors.Wrapf(ErrNotFound, "surface %d", h)
		}
	}
	if c == 0 {
		for _, h := range []Handle{draw, read} {
			if s, ok := d.surfaces.peek(h); ok {
				d.releaseSurfaceLocked(s, h)
			}
		}
		return nil
	}
	ctxt, ok := d.contexts.peek(c)
	if !ok {
		return errors.Wrapf(ErrNotFound, "context %d", c)
	}
	d.unbindLocked(ctxt)
	for _, h := range []Handle{draw, read} {
		s, ok := d.surfaces.peek(h)
		if !ok {
			continue
		}
		if s.bound != c {
			d.releaseSurfaceLocked(s, h)
		}
		s.bound = c
	}
	ctxt.draw, ctxt.read = draw, read
	return nil
}

// releaseSurfaceLocked takes the surface h away from the context it is bound
// to.
func (d *Display) releaseSurfaceLocked(s *Surface, h Handle) {
	if other, ok := d.contexts.peek(s.bound); ok {
		if other.draw == h {
			other.draw = 0
		}
		if other.read == h {
			other.read = 0
		}
	}
	s.bound = 0
}

func (d *Display) unbindLocked(c *Context) {
	for _, h := range []Handle{c.draw, c.read} {
		if s, ok := d.surfaces.peek(h); ok && s.bound == c.handle {
			s.bound = 0
		}
	}
	c.draw, c.read = 0, 0
}

// NewImage creates an unregistered image aliasing level 0 of a 2D texture
// of the context source.
func (d *Display) NewImage(ctx context.Context, source Handle, target int32, texture uint32) (*Image, error) {
	if target != GLTexture2D {
		return nil, errors.Wrapf(ErrInvalidArgument, "image target 0x%x", target)
	}
	c, err := d.Context(source)
	if err != nil {
		return nil, err
	}
	defer c.Release(ctx)
	sg, err := c.Group()
	if err != nil {
		return nil, err
	}
	o, err := sg.Object(host.Texture, texture)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "texture %d: %v", texture, err)
	}
	t := o.(*gles.Texture)
	level := t.Level(0)
	if level == nil || (t.Target != gles.Texture2D && t.Target != 0) {
		return nil, errors.Wrapf(ErrInvalidArgument, "texture %d has no 2D level 0", texture)
	}
	g, err := d.Manager(c.version).Resolve(c.group, host.Texture, texture)
	if err != nil {
		return nil, err
	}
	if err := d.names.RetainHost(g); err != nil {
		return nil, err
	}
	_, hn, err := d.names.HostName(g)
	if err == nil {
		var hi host.Image
		hi, err = d.backend.CreateImage(ctx, host.ImageInfo{
			Target:         uint32(target),
			Width:          level.Width,
			Height:         level.Height,
			InternalFormat: level.InternalFormat,
			Source:         hn,
		})
		if err == nil {
			return newImage(d, target, level.Width, level.Height, level.InternalFormat, source, g, hi), nil
		}
	}
	d.names.ReleaseHost(ctx, g)
	return nil, err
}

// AddImage registers i and returns its new handle. An object can
// only be added once.
func (d *Display) AddImage(i *Image) (Handle, error) {
	if i == nil {
		return 0, errors.Wrap(ErrInvalidArgument, "nil image")
	}
	if i.display != d {
		return 0, errors.Wrap(ErrInvalidArgument, "image of another display")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	if i.handle != 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "image already added as %d", i.handle)
	}
	h := d.allocLocked()
	d.images.add(h, i)
	return h, nil
}

// CreateImage creates and registers an image. See NewImage.
func (d *Display) CreateImage(ctx context.Context, source Handle, target int32, texture uint32) (Handle, error) {
	i, err := d.NewImage(ctx, source, target, texture)
	if err != nil {
		return 0, err
	}
	h, err := d.AddImage(i)
	if err != nil {
		i.Release(ctx)
		return 0, err
	}
	return h, nil
}

// Image returns the image with handle h. The caller must Release it.
func (d *Display) Image(h Handle) (*Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	i, ok := d.images.get(h)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "image %d", h)
	}
	return i, nil
}

// DestroyImage unregisters the image with handle h. It returns false if
// there is no such image.
func (d *Display) DestroyImage(ctx context.Context, h Handle) (bool, error) {
	d.mu.Lock()
	if err := d.check(); err != nil {
		d.mu.Unlock()
		return false, err
	}
	i, ok := d.images.remove(h)
	d.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, i.Release(ctx)
}

// Handles returns the handles of every registered context, surface and
// image in ascending order.
func (d *Display) Handles() (contexts, surfaces, images []Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	contexts, surfaces, images = []Handle{}, []Handle{}, []Handle{}
	for _, c := range d.contexts.sorted() {
		contexts = append(contexts, c.handle)
	}
	for _, s := range d.surfaces.sorted() {
		surfaces = append(surfaces, s.handle)
	}
	for _, i := range d.images.sorted() {
		images = append(images, i.handle)
	}
	return contexts, surfaces, images
}
