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
	"fmt"

	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// ConfigHandle is the opaque value handed to clients for a Config.
type ConfigHandle uint32

// Config is an immutable EGL frame buffer configuration.
type Config struct {
	ID                int32
	BufferSize        int32
	Red               int32
	Green             int32
	Blue              int32
	Luminance         int32
	Alpha             int32
	AlphaMask         int32
	BindToTextureRGB  bool
	BindToTextureRGBA bool
	ColorBufferType   int32
	Caveat            int32
	Conformant        int32
	Depth             int32
	Level             int32
	MaxPbufferWidth   int32
	MaxPbufferHeight  int32
	MaxPbufferPixels  int32
	MaxSwapInterval   int32
	MinSwapInterval   int32
	NativeRenderable  bool
	NativeVisualID    int32
	NativeVisualType  int32
	RenderableType    int32
	SampleBuffers     int32
	Samples           int32
	Stencil           int32
	SurfaceType       int32
	TransparentType   int32
	TransparentRed    int32
	TransparentGreen  int32
	TransparentBlue   int32

	// Format is the host pixel format surfaces and contexts of this config
	// are created with.
	Format host.PixelFormat
}

// newConfig returns the config for the host format f, or nil if f supports
// none of the renderable types in renderable.
func newConfig(f host.PixelFormat, renderable int32) *Config {
	rt := renderable
	if f.RenderableType != 0 {
		rt &= f.RenderableType
	}
	if rt == 0 {
		return nil
	}
	c := &Config{
		Red:               f.Red,
		Green:             f.Green,
		Blue:              f.Blue,
		Luminance:         f.Luminance,
		Alpha:             f.Alpha,
		AlphaMask:         f.AlphaMask,
		BindToTextureRGB:  f.BindToTextureRGB,
		BindToTextureRGBA: f.BindToTextureRGBA,
		ColorBufferType:   RGBBuffer,
		Caveat:            f.Caveat,
		Conformant:        f.Conformant,
		Depth:             f.Depth,
		Level:             f.Level,
		MaxPbufferWidth:   f.MaxPbufferWidth,
		MaxPbufferHeight:  f.MaxPbufferHeight,
		MaxPbufferPixels:  f.MaxPbufferPixels,
		MaxSwapInterval:   f.MaxSwapInterval,
		MinSwapInterval:   f.MinSwapInterval,
		NativeRenderable:  f.NativeRenderable,
		NativeVisualID:    f.NativeVisualID,
		NativeVisualType:  f.NativeVisualType,
		RenderableType:    rt,
		SampleBuffers:     f.SampleBuffers,
		Samples:           f.Samples,
		Stencil:           f.Stencil,
		SurfaceType:       f.SurfaceType,
		TransparentType:   f.TransparentType,
		TransparentRed:    f.TransparentRed,
		TransparentGreen:  f.TransparentGreen,
		TransparentBlue:   f.TransparentBlue,
		Format:            f,
	}
	if c.Caveat == 0 {
		c.Caveat = None
	}
	if c.TransparentType == 0 {
		c.TransparentType = None
	}
	if c.Conformant == 0 {
		c.Conformant = rt
	} else {
		c.Conformant &= rt
	}
	if c.Red == 0 && c.Green == 0 && c.Blue == 0 && c.Luminance > 0 {
		c.ColorBufferType = LuminanceBuffer
		c.BufferSize = c.Luminance + c.Alpha
	} else {
		c.BufferSize = c.Red + c.Green + c.Blue + c.Alpha
	}
	return c
}

// sameAs returns true if c and o only differ by id and host format.
func (c *Config) sameAs(o *Config) bool {
	a, b := *c, *o
	a.ID, b.ID = 0, 0
	a.Format, b.Format = host.PixelFormat{}, host.PixelFormat{}
	return a == b
}

func boolAttrib(b bool) int32 {
	if b {
		return True
	}
	return False
}

// Attrib returns the value of an attribute, as eglGetConfigAttrib does.
func (c *Config) Attrib(attr int32) (int32, error) {
	switch attr {
	case BufferSize:
		return c.BufferSize, nil
	case RedSize:
		return c.Red, nil
	case GreenSize:
		return c.Green, nil
	case BlueSize:
		return c.Blue, nil
	case LuminanceSize:
		return c.Luminance, nil
	case AlphaSize:
		return c.Alpha, nil
	case AlphaMaskSize:
		return c.AlphaMask, nil
	case BindToTextureRGB:
		return boolAttrib(c.BindToTextureRGB), nil
	case BindToTextureRGBA:
		return boolAttrib(c.BindToTextureRGBA), nil
	case ColorBufferType:
		return c.ColorBufferType, nil
	case ConfigCaveat:
		return c.Caveat, nil
	case ConfigID:
		return c.ID, nil
	case Conformant:
		return c.Conformant, nil
	case DepthSize:
		return c.Depth, nil
	case Level:
		return c.Level, nil
	case MaxPbufferWidth:
		return c.MaxPbufferWidth, nil
	case MaxPbufferHeight:
		return c.MaxPbufferHeight, nil
	case MaxPbufferPixels:
		return c.MaxPbufferPixels, nil
	case MaxSwapInterval:
		return c.MaxSwapInterval, nil
	case MinSwapInterval:
		return c.MinSwapInterval, nil
	case NativeRenderable:
		return boolAttrib(c.NativeRenderable), nil
	case NativeVisualID:
		return c.NativeVisualID, nil
	case NativeVisualType:
		return c.NativeVisualType, nil
	case RenderableType:
		return c.RenderableType, nil
	case SampleBuffers:
		return c.SampleBuffers, nil
	case Samples:
		return c.Samples, nil
	case StencilSize:
		return c.Stencil, nil
	case SurfaceType:
		return c.SurfaceType, nil
	case TransparentType:
		return c.TransparentType, nil
	case TransparentRed:
		return c.TransparentRed, nil
	case TransparentGreen:
		return c.TransparentGreen, nil
	case TransparentBlue:
		return c.TransparentBlue, nil
	default:
		return 0, errors.Wrapf(ErrInvalidArgument, "config attribute 0x%x", attr)
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("config %d: rgba %d%d%d%d depth %d stencil %d samples %d surfaces 0x%x renderable 0x%x caveat 0x%x",
		c.ID, c.Red, c.Green, c.Blue, c.Alpha, c.Depth, c.Stencil, c.Samples, c.SurfaceType, c.RenderableType, c.Caveat)
}
