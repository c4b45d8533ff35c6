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

// GL enum values understood by the share group object API.
const (
	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31
	ComputeShader  uint32 = 0x91B9

	ShaderType         uint32 = 0x8B4F
	DeleteStatus       uint32 = 0x8B80
	CompileStatus      uint32 = 0x8B81
	LinkStatus         uint32 = 0x8B82
	ValidateStatus     uint32 = 0x8B83
	InfoLogLength      uint32 = 0x8B84
	AttachedShaders    uint32 = 0x8B85
	ShaderSourceLength uint32 = 0x8B88

	Texture2D          uint32 = 0x0DE1
	Texture3D          uint32 = 0x806F
	TextureCubeMap     uint32 = 0x8513
	Texture2DArray     uint32 = 0x8C1A
	TextureExternalOES uint32 = 0x8D65

	TextureMagFilter uint32 = 0x2800
	TextureMinFilter uint32 = 0x2801
	TextureWrapS     uint32 = 0x2802
	TextureWrapT     uint32 = 0x2803

	TextureWidth          uint32 = 0x1000
	TextureHeight         uint32 = 0x1001
	TextureInternalFormat uint32 = 0x1003

	Nearest             int32 = 0x2600
	Linear              int32 = 0x2601
	NearestMipmapLinear int32 = 0x2702
	Repeat              int32 = 0x2901
	ClampToEdge         int32 = 0x812F

	StaticDraw  uint32 = 0x88E4
	DynamicDraw uint32 = 0x88E8
	StreamDraw  uint32 = 0x88E0
	BufferSize  uint32 = 0x8764
	BufferUsage uint32 = 0x8765

	RenderbufferSamples        uint32 = 0x8CAB
	RenderbufferWidth          uint32 = 0x8D42
	RenderbufferHeight         uint32 = 0x8D43
	RenderbufferInternalFormat uint32 = 0x8D44

	RGBA            uint32 = 0x1908
	RGB             uint32 = 0x1907
	UnsignedByte    uint32 = 0x1401
	RGBA4           uint32 = 0x8056
	RGBA8           uint32 = 0x8058
	Depth24Stencil8 uint32 = 0x88F0
)
