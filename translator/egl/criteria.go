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
	"sort"

	"github.com/pkg/errors"
)

type rule uint8

const (
	ignored rule = iota
	atLeast
	exact
	mask
)

// rules is the matching rule of every attribute eglChooseConfig accepts, as
// in table 3.4 of the EGL 1.4 specification.
var rules = map[int32]rule{
	BufferSize:        atLeast,
	RedSize:           atLeast,
	GreenSize:         atLeast,
	BlueSize:          atLeast,
	LuminanceSize:     atLeast,
	AlphaSize:         atLeast,
	AlphaMaskSize:     atLeast,
	BindToTextureRGB:  exact,
	BindToTextureRGBA: exact,
	ColorBufferType:   exact,
	ConfigCaveat:      exact,
	ConfigID:          exact,
	Conformant:        mask,
	DepthSize:         atLeast,
	Level:             exact,
	MatchNativePixmap: ignored,
	MaxPbufferWidth:   ignored,
	MaxPbufferHeight:  ignored,
	MaxPbufferPixels:  ignored,
	MaxSwapInterval:   exact,
	MinSwapInterval:   exact,
	NativeRenderable:  exact,
	NativeVisualID:    ignored,
	NativeVisualType:  exact,
	RenderableType:    mask,
	SampleBuffers:     atLeast,
	Samples:           atLeast,
	StencilSize:       atLeast,
	SurfaceType:       mask,
	TransparentType:   exact,
	TransparentRed:    exact,
	TransparentGreen:  exact,
	TransparentBlue:   exact,
}

// defaults holds the value of every attribute not given in an attribute
// list.
var defaults = map[int32]int32{
	BufferSize:        0,
	RedSize:           0,
	GreenSize:         0,
	BlueSize:          0,
	LuminanceSize:     0,
	AlphaSize:         0,
	AlphaMaskSize:     0,
	BindToTextureRGB:  DontCare,
	BindToTextureRGBA: DontCare,
	ColorBufferType:   RGBBuffer,
	ConfigCaveat:      DontCare,
	ConfigID:          DontCare,
	Conformant:        0,
	DepthSize:         0,
	Level:             0,
	MaxSwapInterval:   DontCare,
	MinSwapInterval:   DontCare,
	NativeRenderable:  DontCare,
	NativeVisualType:  DontCare,
	RenderableType:    OpenGLESBit,
	SampleBuffers:     0,
	Samples:           0,
	StencilSize:       0,
	SurfaceType:       WindowBit,
	TransparentType:   None,
	TransparentRed:    DontCare,
	TransparentGreen:  DontCare,
	TransparentBlue:   DontCare,
}

// Criteria is a parsed eglChooseConfig attribute list.
type Criteria struct {
	values map[int32]int32
}

// NewCriteria parses an attribute list of name/value pairs, optionally
// terminated by EGL_NONE. Attributes not in the list take their EGL default.
func NewCriteria(attribs []int32) (*Criteria, error) {
	c := &Criteria{values: make(map[int32]int32, len(defaults))}
	for a, v := range defaults {
		c.values[a] = v
	}
	for i := 0; i < len(attribs); i += 2 {
		attr := attribs[i]
		if attr == None {
			break
		}
		if i+1 >= len(attribs) {
			return nil, errors.Wrapf(ErrInvalidArgument, "attribute 0x%x has no value", attr)
		}
		if _, ok := rules[attr]; !ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "unsupported attribute 0x%x", attr)
		}
		c.values[attr] = attribs[i+1]
	}
	return c, nil
}

// Get returns the requested value of attr.
func (c *Criteria) Get(attr int32) int32 {
	if v, ok := c.values[attr]; ok {
		return v
	}
	return DontCare
}

// Matches returns true if cfg satisfies every criterion.
func (c *Criteria) Matches(cfg *Config) bool {
	if id := c.Get(ConfigID); id != DontCare {
		return cfg.ID == id
	}
	transparent := c.Get(TransparentType) == TransparentRGB
	for attr, want := range c.values {
		if want == DontCare {
			continue
		}
		switch attr {
		case TransparentRed, TransparentGreen, TransparentBlue:
			if !transparent {
				continue
			}
		}
		r := rules[attr]
		if r == ignored {
			continue
		}
		got, err := cfg.Attrib(attr)
		if err != nil {
			return false
		}
		switch r {
		case atLeast:
			if got < want {
				return false
			}
		case exact:
			if got != want {
				return false
			}
		case mask:
			if got&want != want {
				return false
			}
		}
	}
	return true
}

func caveatRank(caveat int32) int {
	switch caveat {
	case None:
		return 0
	case SlowConfig:
		return 1
	default:
		return 2
	}
}

func bufferTypeRank(t int32) int {
	if t == RGBBuffer {
		return 0
	}
	return 1
}

// colorBits is the sum of the sizes of the color components requested with
// a non-zero value.
func (c *Criteria) colorBits(cfg *Config) int32 {
	sum := int32(0)
	add := func(attr, bits int32) {
		if v := c.Get(attr); v != 0 && v != DontCare {
			sum += bits
		}
	}
	if cfg.ColorBufferType == RGBBuffer {
		add(RedSize, cfg.Red)
		add(GreenSize, cfg.Green)
		add(BlueSize, cfg.Blue)
	} else {
		add(LuminanceSize, cfg.Luminance)
	}
	add(AlphaSize, cfg.Alpha)
	return sum
}

// less orders configs as in section 3.4.1.2 of the EGL 1.4 specification,
// with config id as the final tie breaker.
func (c *Criteria) less(a, b *Config) bool {
	if x, y := caveatRank(a.Caveat), caveatRank(b.Caveat); x != y {
		return x < y
	}
	if x, y := bufferTypeRank(a.ColorBufferType), bufferTypeRank(b.ColorBufferType); x != y {
		return x < y
	}
	if x, y := c.colorBits(a), c.colorBits(b); x != y {
		return x > y
	}
	for _, p := range [][2]int32{
		{a.BufferSize, b.BufferSize},
		{a.SampleBuffers, b.SampleBuffers},
		{a.Samples, b.Samples},
		{a.Depth, b.Depth},
		{a.Stencil, b.Stencil},
		{a.AlphaMask, b.AlphaMask},
	} {
		if p[0] != p[1] {
			return p[0] < p[1]
		}
	}
	return a.ID < b.ID
}

func (c *Criteria) sort(configs []*Config) {
	sort.SliceStable(configs, func(i, j int) bool { return c.less(configs[i], configs[j]) })
}
