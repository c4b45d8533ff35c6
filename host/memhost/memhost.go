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

// Package memhost is an in-memory host.Backend. It allocates names and
// handles without touching a GPU, counts live resources so tests can check for
// leaks, and can be told to run out of resources.
package memhost

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

const (
	pbufferBit = 0x0001
	pixmapBit  = 0x0002
	windowBit  = 0x0004

	es2Bit = 0x0004

	slowConfig = 0x3050
)

// DefaultFormats is the pixel format list reported when none is supplied.
var DefaultFormats = []host.PixelFormat{
	{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, SurfaceType: windowBit | pbufferBit, NativeVisualID: 0x21, BindToTextureRGBA: true, MaxSwapInterval: 1, MaxPbufferWidth: 4096, MaxPbufferHeight: 4096, MaxPbufferPixels: 4096 * 4096},
	{Red: 8, Green: 8, Blue: 8, Alpha: 8, SurfaceType: windowBit | pbufferBit, NativeVisualID: 0x22, BindToTextureRGBA: true, MaxSwapInterval: 1, MaxPbufferWidth: 4096, MaxPbufferHeight: 4096, MaxPbufferPixels: 4096 * 4096},
	{Red: 5, Green: 6, Blue: 5, Depth: 16, SurfaceType: windowBit | pbufferBit, NativeVisualID: 0x23, BindToTextureRGB: true, MaxSwapInterval: 1, MaxPbufferWidth: 4096, MaxPbufferHeight: 4096, MaxPbufferPixels: 4096 * 4096},
	{Red: 8, Green: 8, Blue: 8, Depth: 24, Stencil: 8, SurfaceType: windowBit, NativeVisualID: 0x24, MaxSwapInterval: 1},
	{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, SampleBuffers: 1, Samples: 4, SurfaceType: windowBit | pbufferBit, NativeVisualID: 0x25, MaxSwapInterval: 1, MaxPbufferWidth: 4096, MaxPbufferHeight: 4096, MaxPbufferPixels: 4096 * 4096},
	{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, SurfaceType: windowBit | pbufferBit | pixmapBit, RenderableType: es2Bit, Caveat: slowConfig, NativeVisualID: 0x26, MaxPbufferWidth: 2048, MaxPbufferHeight: 2048, MaxPbufferPixels: 2048 * 2048},
}

// Backend is an in-memory host.Backend.
type Backend struct {
	mu       sync.Mutex
	formats  []host.PixelFormat
	next     uint64
	names    [host.ObjectKindCount]host.Name
	contexts map[host.Context]host.Context // context -> share
	surfaces map[host.Surface]host.SurfaceInfo
	images   map[host.Image]host.ImageInfo
	objects  [host.ObjectKindCount]map[host.Name]struct{}
	compiled map[host.Name]bool
	budget   int // allocations left before exhaustion, <0 for unlimited
	compiles int
	links    int
}

// New returns a backend that reports formats, or DefaultFormats if formats is
// empty.
func New(formats ...host.PixelFormat) *Backend {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	b := &Backend{
		formats:  formats,
		contexts: map[host.Context]host.Context{},
		surfaces: map[host.Surface]host.SurfaceInfo{},
		images:   map[host.Image]host.ImageInfo{},
		compiled: map[host.Name]bool{},
		budget:   -1,
	}
	for i := range b.objects {
		b.objects[i] = map[host.Name]struct{}{}
	}
	return b
}

// ExhaustAfter makes every allocation after the next n fail with
// host.ErrResourceExhausted. A negative n removes the limit.
func (b *Backend) ExhaustAfter(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.budget = n
}

// Stats is a count of live resources.
type Stats struct {
	Contexts int
	Surfaces int
	Images   int
	Objects  [host.ObjectKindCount]int
	Compiles int
	Links    int
}

// Stats returns the number of live resources of each type.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Stats{
		Contexts: len(b.contexts),
		Surfaces: len(b.surfaces),
		Images:   len(b.images),
		Compiles: b.compiles,
		Links:    b.links,
	}
	for i, o := range b.objects {
		s.Objects[i] = len(o)
	}
	return s
}

// Live returns the number of live objects of kind k.
func (b *Backend) Live(k host.ObjectKind) int {
	return b.Stats().Objects[k]
}

// Leaked returns a description of every live resource, or an empty string.
func (b *Backend) Leaked() string {
	s := b.Stats()
	parts := []string{}
	if s.Contexts > 0 {
		parts = append(parts, fmt.Sprintf("%d contexts", s.Contexts))
	}
	if s.Surfaces > 0 {
		parts = append(parts, fmt.Sprintf("%d surfaces", s.Surfaces))
	}
	if s.Images > 0 {
		parts = append(parts, fmt.Sprintf("%d images", s.Images))
	}
	for k, n := range s.Objects {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %v objects", n, host.ObjectKind(k)))
		}
	}
	return strings.Join(parts, ", ")
}

// allocLocked consumes one unit of the allocation budget.
func (b *Backend) allocLocked() error {
	switch {
	case b.budget == 0:
		return host.ErrResourceExhausted
	case b.budget > 0:
		b.budget--
	}
	b.next++
	return nil
}

// PixelFormats implements host.Backend.
func (b *Backend) PixelFormats(ctx context.Context, d host.InternalDisplay) ([]host.PixelFormat, error) {
	out := make([]host.PixelFormat, len(b.formats))
	copy(out, b.formats)
	return out, nil
}

// CreateContext implements host.Backend.
func (b *Backend) CreateContext(ctx context.Context, d host.InternalDisplay, f host.PixelFormat, share host.Context) (host.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if share != 0 {
		if _, ok := b.contexts[share]; !ok {
			return 0, errors.Errorf("memhost: share context %d does not exist", share)
		}
	}
	if err := b.allocLocked(); err != nil {
		return 0, err
	}
	c := host.Context(b.next)
	b.contexts[c] = share
	return c, nil
}

// DestroyContext implements host.Backend.
func (b *Backend) DestroyContext(ctx context.Context, c host.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.contexts[c]; !ok {
		return errors.Errorf("memhost: context %d does not exist", c)
	}
	delete(b.contexts, c)
	return nil
}

// CreateSurface implements host.Backend.
func (b *Backend) CreateSurface(ctx context.Context, d host.InternalDisplay, info host.SurfaceInfo) (host.Surface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.allocLocked(); err != nil {
		return 0, err
	}
	s := host.Surface(b.next)
	b.surfaces[s] = info
	return s, nil
}

// DestroySurface implements host.Backend.
func (b *Backend) DestroySurface(ctx context.Context, s host.Surface) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.surfaces[s]; !ok {
		return errors.Errorf("memhost: surface %d does not exist", s)
	}
	delete(b.surfaces, s)
	return nil
}

// CreateImage implements host.Backend.
func (b *Backend) CreateImage(ctx context.Context, info host.ImageInfo) (host.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if info.Source != 0 {
		if _, ok := b.objects[host.Texture][info.Source]; !ok {
			return 0, errors.Errorf("memhost: image source texture %d does not exist", info.Source)
		}
	}
	if err := b.allocLocked(); err != nil {
		return 0, err
	}
	i := host.Image(b.next)
	b.images[i] = info
	return i, nil
}

// DestroyImage implements host.Backend.
func (b *Backend) DestroyImage(ctx context.Context, i host.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.images[i]; !ok {
		return errors.Errorf("memhost: image %d does not exist", i)
	}
	delete(b.images, i)
	return nil
}

// CreateObject implements host.Backend.
func (b *Backend) CreateObject(ctx context.Context, kind host.ObjectKind) (host.Name, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !kind.Valid() {
		return 0, errors.Errorf("memhost: invalid object kind %v", kind)
	}
	if err := b.allocLocked(); err != nil {
		return 0, err
	}
	b.names[kind]++
	name := b.names[kind]
	b.objects[kind][name] = struct{}{}
	return name, nil
}

// DeleteObject implements host.Backend.
func (b *Backend) DeleteObject(ctx context.Context, kind host.ObjectKind, name host.Name) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !kind.Valid() {
		return errors.Errorf("memhost: invalid object kind %v", kind)
	}
	if _, ok := b.objects[kind][name]; !ok {
		return errors.Errorf("memhost: %v %d does not exist", kind, name)
	}
	delete(b.objects[kind], name)
	if kind == host.Shader {
		delete(b.compiled, name)
	}
	return nil
}

// CompileShader implements host.Backend. Sources that are empty or contain an
// #error directive fail to compile.
func (b *Backend) CompileShader(ctx context.Context, name host.Name, shaderType uint32, source string) (bool, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[host.Shader][name]; !ok {
		return false, "", errors.Errorf("memhost: shader %d does not exist", name)
	}
	b.compiles++
	ok, infoLog := compile(source)
	b.compiled[name] = ok
	if !ok {
		log.D(ctx, "memhost: shader %d failed to compile: %s", name, infoLog)
	}
	return ok, infoLog, nil
}

func compile(source string) (bool, string) {
	if strings.TrimSpace(source) == "" {
		return false, "ERROR: 0:0: '' : syntax error, empty source"
	}
	for i, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#error") {
			return false, fmt.Sprintf("ERROR: 0:%d: '#error' : %s", i+1, strings.TrimSpace(line))
		}
	}
	return true, ""
}

// LinkProgram implements host.Backend. Linking fails unless every attached
// shader compiled.
func (b *Backend) LinkProgram(ctx context.Context, name host.Name, shaders []host.Name) (bool, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[host.Program][name]; !ok {
		return false, "", errors.Errorf("memhost: program %d does not exist", name)
	}
	b.links++
	if len(shaders) == 0 {
		return false, "error: no shaders attached", nil
	}
	for _, s := range shaders {
		if !b.compiled[s] {
			return false, fmt.Sprintf("error: shader %d is not compiled", s), nil
		}
	}
	return true, "", nil
}
