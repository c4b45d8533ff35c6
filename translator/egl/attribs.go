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

import "strings"

// EGL 1.4 attribute names.
const (
	None              int32 = 0x3038
	BufferSize        int32 = 0x3020
	AlphaSize         int32 = 0x3021
	BlueSize          int32 = 0x3022
	GreenSize         int32 = 0x3023
	RedSize           int32 = 0x3024
	DepthSize         int32 = 0x3025
	StencilSize       int32 = 0x3026
	ConfigCaveat      int32 = 0x3027
	ConfigID          int32 = 0x3028
	Level             int32 = 0x3029
	MaxPbufferHeight  int32 = 0x302A
	MaxPbufferPixels  int32 = 0x302B
	MaxPbufferWidth   int32 = 0x302C
	NativeRenderable  int32 = 0x302D
	NativeVisualID    int32 = 0x302E
	NativeVisualType  int32 = 0x302F
	Samples           int32 = 0x3031
	SampleBuffers     int32 = 0x3032
	SurfaceType       int32 = 0x3033
	TransparentType   int32 = 0x3034
	TransparentBlue   int32 = 0x3035
	TransparentGreen  int32 = 0x3036
	TransparentRed    int32 = 0x3037
	BindToTextureRGB  int32 = 0x3039
	BindToTextureRGBA int32 = 0x303A
	MinSwapInterval   int32 = 0x303B
	MaxSwapInterval   int32 = 0x303C
	LuminanceSize     int32 = 0x303D
	AlphaMaskSize     int32 = 0x303E
	ColorBufferType   int32 = 0x303F
	RenderableType    int32 = 0x3040
	MatchNativePixmap int32 = 0x3041
	Conformant        int32 = 0x3042
	DontCare          int32 = -1
	True              int32 = 1
	False             int32 = 0
	SlowConfig        int32 = 0x3050
	NonConformant     int32 = 0x3051
	TransparentRGB    int32 = 0x3052
	RGBBuffer         int32 = 0x308E
	LuminanceBuffer   int32 = 0x308F
	PbufferBit        int32 = 0x0001
	PixmapBit         int32 = 0x0002
	WindowBit         int32 = 0x0004
	OpenGLESBit       int32 = 0x0001
	OpenVGBit         int32 = 0x0002
	OpenGLES2Bit      int32 = 0x0004
	OpenGLBit         int32 = 0x0008
	OpenGLES3Bit      int32 = 0x0040
	GLTexture2D       int32 = 0x30B1
)

var attribNames = map[int32]string{
	BufferSize:        "EGL_BUFFER_SIZE",
	AlphaSize:         "EGL_ALPHA_SIZE",
	BlueSize:          "EGL_BLUE_SIZE",
	GreenSize:         "EGL_GREEN_SIZE",
	RedSize:           "EGL_RED_SIZE",
	DepthSize:         "EGL_DEPTH_SIZE",
	StencilSize:       "EGL_STENCIL_SIZE",
	ConfigCaveat:      "EGL_CONFIG_CAVEAT",
	ConfigID:          "EGL_CONFIG_ID",
	Level:             "EGL_LEVEL",
	MaxPbufferHeight:  "EGL_MAX_PBUFFER_HEIGHT",
	MaxPbufferPixels:  "EGL_MAX_PBUFFER_PIXELS",
	MaxPbufferWidth:   "EGL_MAX_PBUFFER_WIDTH",
	NativeRenderable:  "EGL_NATIVE_RENDERABLE",
	NativeVisualID:    "EGL_NATIVE_VISUAL_ID",
	NativeVisualType:  "EGL_NATIVE_VISUAL_TYPE",
	Samples:           "EGL_SAMPLES",
	SampleBuffers:     "EGL_SAMPLE_BUFFERS",
	SurfaceType:       "EGL_SURFACE_TYPE",
	TransparentType:   "EGL_TRANSPARENT_TYPE",
	TransparentBlue:   "EGL_TRANSPARENT_BLUE_VALUE",
	TransparentGreen:  "EGL_TRANSPARENT_GREEN_VALUE",
	TransparentRed:    "EGL_TRANSPARENT_RED_VALUE",
	BindToTextureRGB:  "EGL_BIND_TO_TEXTURE_RGB",
	BindToTextureRGBA: "EGL_BIND_TO_TEXTURE_RGBA",
	MinSwapInterval:   "EGL_MIN_SWAP_INTERVAL",
	MaxSwapInterval:   "EGL_MAX_SWAP_INTERVAL",
	LuminanceSize:     "EGL_LUMINANCE_SIZE",
	AlphaMaskSize:     "EGL_ALPHA_MASK_SIZE",
	ColorBufferType:   "EGL_COLOR_BUFFER_TYPE",
	RenderableType:    "EGL_RENDERABLE_TYPE",
	MatchNativePixmap: "EGL_MATCH_NATIVE_PIXMAP",
	Conformant:        "EGL_CONFORMANT",
}

// AttribName returns the EGL name of an attribute, or an empty string.
func AttribName(attr int32) string { return attribNames[attr] }

// AttribByName returns the attribute with the given EGL name. The EGL_
// prefix and case are optional, so "red_size" finds EGL_RED_SIZE.
func AttribByName(name string) (int32, bool) {
	name = strings.ToUpper(name)
	if !strings.HasPrefix(name, "EGL_") {
		name = "EGL_" + name
	}
	for a, n := range attribNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}
