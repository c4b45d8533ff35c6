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

// Package host declares what the EGL translator consumes from its
// collaborators: the native display handles supplied by the windowing glue and
// the GPU backend that owns real host resources.
package host

import (
	"context"
	"fmt"

	"github.com/Shinoby92/platform-external-qemu/core/fault"
)

// ErrResourceExhausted is returned by a Backend that could not allocate a
// host resource.
const ErrResourceExhausted = fault.Const("host: resource exhausted")

// NativeDisplay is the windowing system's display handle.
type NativeDisplay uintptr

// InternalDisplay is the backend's own identifier for a native display.
type InternalDisplay uintptr

// NativeWindow is the windowing system's handle for a window.
type NativeWindow uintptr

// Context is the backend's handle for a native rendering context.
type Context uint64

// Surface is the backend's handle for a native drawable.
type Surface uint64

// Image is the backend's handle for shareable pixel storage.
type Image uint64

// Name is the backend's name for a GL object.
type Name uint32

// ObjectKind identifies the GL object namespaces.
type ObjectKind uint8

const (
	Texture ObjectKind = iota
	Buffer
	Renderbuffer
	Shader
	Program
	Sampler
	Framebuffer
	VertexArray

	ObjectKindCount = int(iota)
)

func (k ObjectKind) String() string {
	switch k {
	case Texture:
		return "Texture"
	case Buffer:
		return "Buffer"
	case Renderbuffer:
		return "Renderbuffer"
	case Shader:
		return "Shader"
	case Program:
		return "Program"
	case Sampler:
		return "Sampler"
	case Framebuffer:
		return "Framebuffer"
	case VertexArray:
		return "VertexArray"
	default:
		return fmt.Sprintf("ObjectKind(%d)", uint8(k))
	}
}

// Valid returns true if k names one of the known object kinds.
func (k ObjectKind) Valid() bool { return int(k) < ObjectKindCount }

// SurfaceKind is the type of a drawable.
type SurfaceKind uint8

const (
	WindowSurface SurfaceKind = iota
	PbufferSurface
	PixmapSurface
)

func (k SurfaceKind) String() string {
	switch k {
	case WindowSurface:
		return "Window"
	case PbufferSurface:
		return "Pbuffer"
	case PixmapSurface:
		return "Pixmap"
	default:
		return fmt.Sprintf("SurfaceKind(%d)", uint8(k))
	}
}

// PixelFormat describes one pixel format supported by the host. The EGL
// config catalog is built from the list reported by the backend.
type PixelFormat struct {
	Red           int32 `yaml:"red,omitempty" toml:"red,omitempty"`
	Green         int32 `yaml:"green,omitempty" toml:"green,omitempty"`
	Blue          int32 `yaml:"blue,omitempty" toml:"blue,omitempty"`
	Alpha         int32 `yaml:"alpha,omitempty" toml:"alpha,omitempty"`
	Luminance     int32 `yaml:"luminance,omitempty" toml:"luminance,omitempty"`
	AlphaMask     int32 `yaml:"alpha_mask,omitempty" toml:"alpha_mask,omitempty"`
	Depth         int32 `yaml:"depth,omitempty" toml:"depth,omitempty"`
	Stencil       int32 `yaml:"stencil,omitempty" toml:"stencil,omitempty"`
	SampleBuffers int32 `yaml:"sample_buffers,omitempty" toml:"sample_buffers,omitempty"`
	Samples       int32 `yaml:"samples,omitempty" toml:"samples,omitempty"`
	// SurfaceType is a mask of EGL_WINDOW_BIT, EGL_PBUFFER_BIT and
	// EGL_PIXMAP_BIT.
	SurfaceType int32 `yaml:"surface_type" toml:"surface_type"`
	// RenderableType is a mask of EGL_OPENGL_ES*_BIT values. Zero means every
	// renderable type the display is initialized with.
	RenderableType    int32 `yaml:"renderable_type,omitempty" toml:"renderable_type,omitempty"`
	Conformant        int32 `yaml:"conformant,omitempty" toml:"conformant,omitempty"`
	Caveat            int32 `yaml:"caveat,omitempty" toml:"caveat,omitempty"`
	Level             int32 `yaml:"level,omitempty" toml:"level,omitempty"`
	NativeRenderable  bool  `yaml:"native_renderable,omitempty" toml:"native_renderable,omitempty"`
	NativeVisualID    int32 `yaml:"native_visual_id,omitempty" toml:"native_visual_id,omitempty"`
	NativeVisualType  int32 `yaml:"native_visual_type,omitempty" toml:"native_visual_type,omitempty"`
	BindToTextureRGB  bool  `yaml:"bind_to_texture_rgb,omitempty" toml:"bind_to_texture_rgb,omitempty"`
	BindToTextureRGBA bool  `yaml:"bind_to_texture_rgba,omitempty" toml:"bind_to_texture_rgba,omitempty"`
	MinSwapInterval   int32 `yaml:"min_swap_interval,omitempty" toml:"min_swap_interval,omitempty"`
	MaxSwapInterval   int32 `yaml:"max_swap_interval,omitempty" toml:"max_swap_interval,omitempty"`
	MaxPbufferWidth   int32 `yaml:"max_pbuffer_width,omitempty" toml:"max_pbuffer_width,omitempty"`
	MaxPbufferHeight  int32 `yaml:"max_pbuffer_height,omitempty" toml:"max_pbuffer_height,omitempty"`
	MaxPbufferPixels  int32 `yaml:"max_pbuffer_pixels,omitempty" toml:"max_pbuffer_pixels,omitempty"`
	TransparentType   int32 `yaml:"transparent_type,omitempty" toml:"transparent_type,omitempty"`
	TransparentRed    int32 `yaml:"transparent_red,omitempty" toml:"transparent_red,omitempty"`
	TransparentGreen  int32 `yaml:"transparent_green,omitempty" toml:"transparent_green,omitempty"`
	TransparentBlue   int32 `yaml:"transparent_blue,omitempty" toml:"transparent_blue,omitempty"`
}

// SurfaceInfo describes a drawable to create.
type SurfaceInfo struct {
	Kind   SurfaceKind
	Format PixelFormat
	Window NativeWindow
	Width  int32
	Height int32
}

// ImageInfo describes shareable pixel storage to create.
type ImageInfo struct {
	Target         uint32
	Width, Height  int32
	InternalFormat uint32
	// Source is the texture the image aliases, or zero.
	Source Name
}

// Backend is the host GPU binding. Every method may be called from any
// goroutine; implementations synchronize internally.
type Backend interface {
	// PixelFormats returns the pixel formats the host display supports.
	PixelFormats(ctx context.Context, d InternalDisplay) ([]PixelFormat, error)

	// CreateContext creates a native context, sharing objects with share if
	// it is not zero.
	CreateContext(ctx context.Context, d InternalDisplay, f PixelFormat, share Context) (Context, error)
	DestroyContext(ctx context.Context, c Context) error

	CreateSurface(ctx context.Context, d InternalDisplay, info SurfaceInfo) (Surface, error)
	DestroySurface(ctx context.Context, s Surface) error

	CreateImage(ctx context.Context, info ImageInfo) (Image, error)
	DestroyImage(ctx context.Context, i Image) error

	CreateObject(ctx context.Context, kind ObjectKind) (Name, error)
	DeleteObject(ctx context.Context, kind ObjectKind, name Name) error

	// CompileShader compiles source into the shader object name.
	CompileShader(ctx context.Context, name Name, shaderType uint32, source string) (ok bool, infoLog string, err error)
	// LinkProgram links the program object name from the attached shaders.
	LinkProgram(ctx context.Context, name Name, shaders []Name) (ok bool, infoLog string, err error)
}
