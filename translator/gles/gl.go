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

	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// ID returns the id of the share group within its NameManager.
func (sg *ShareGroup) ID() ShareGroupID { return sg.id }

// Contexts returns the number of contexts attached to the share group.
func (sg *ShareGroup) Contexts() int {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	return sg.contexts
}

// Names returns every virtual name of the given kind in ascending order.
func (sg *ShareGroup) Names(kind host.ObjectKind) []uint32 {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	out := []uint32{}
	for k := range sg.names {
		if k.kind == kind {
			out = append(out, k.name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Object returns the state of a named object. The returned object must only
// be read.
func (sg *ShareGroup) Object(kind host.ObjectKind, name uint32) (Object, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(kind, name)
	if err != nil {
		return nil, err
	}
	return e.object, nil
}

// Gen generates n fresh names of the given kind.
func (sg *ShareGroup) Gen(ctx context.Context, kind host.ObjectKind, n int) ([]uint32, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidValue, "generating %d names", n)
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		name, _, err := sg.createLocked(ctx, kind)
		if err != nil {
			for _, name := range out {
				sg.deleteLocked(ctx, kind, name)
			}
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// Delete deletes the given names of kind. Unknown names and 0 are ignored,
// as glDelete* does.
func (sg *ShareGroup) Delete(ctx context.Context, kind host.ObjectKind, names ...uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	if err := sg.checkLocked(); err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := sg.names[entryKey{kind, name}]; !ok {
			continue
		}
		if _, err := sg.deleteLocked(ctx, kind, name); err != nil {
			return err
		}
	}
	return nil
}

func (sg *ShareGroup) shaderLocked(name uint32) (*Shader, error) {
	e, err := sg.lookupLocked(host.Shader, name)
	if err != nil {
		return nil, err
	}
	return e.object.(*Shader), nil
}

func (sg *ShareGroup) programLocked(name uint32) (*Program, *entry, error) {
	e, err := sg.lookupLocked(host.Program, name)
	if err != nil {
		return nil, nil, err
	}
	return e.object.(*Program), e, nil
}

// CreateShader creates a shader object of type shaderType.
func (sg *ShareGroup) CreateShader(ctx context.Context, shaderType uint32) (uint32, error) {
	if !validShaderType(shaderType) {
		return 0, errors.Wrapf(ErrInvalidEnum, "shader type 0x%x", shaderType)
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	name, e, err := sg.createLocked(ctx, host.Shader)
	if err != nil {
		return 0, err
	}
	e.object.(*Shader).Type = shaderType
	return name, nil
}

// ShaderSource replaces the source of a shader.
func (sg *ShareGroup) ShaderSource(name uint32, source string) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	s, err := sg.shaderLocked(name)
	if err != nil {
		return err
	}
	s.Source = source
	return nil
}

// CompileShader compiles the current source of a shader on the host. A
// failed compilation is not an error; it is reported through the compile
// status and info log.
func (sg *ShareGroup) CompileShader(ctx context.Context, name uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Shader, name)
	if err != nil {
		return err
	}
	s := e.object.(*Shader)
	ok, info, err := sg.mgr.ns.backend.CompileShader(ctx, sg.hostLocked(e), s.Type, s.Source)
	if err != nil {
		return err
	}
	s.InfoLog = info
	if ok {
		s.Status, s.CompiledSource = Compiled, s.Source
	} else {
		s.Status = CompileFailed
	}
	return nil
}

// GetShaderiv returns a shader parameter.
func (sg *ShareGroup) GetShaderiv(name uint32, pname uint32) (int32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	s, err := sg.shaderLocked(name)
	if err != nil {
		return 0, err
	}
	return s.Param(pname)
}

// GetShaderSource returns the current source of a shader.
func (sg *ShareGroup) GetShaderSource(name uint32) (string, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	s, err := sg.shaderLocked(name)
	if err != nil {
		return "", err
	}
	return s.Source, nil
}

// GetShaderInfoLog returns the info log of the last compile of a shader.
func (sg *ShareGroup) GetShaderInfoLog(name uint32) (string, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	s, err := sg.shaderLocked(name)
	if err != nil {
		return "", err
	}
	return s.InfoLog, nil
}

// IsShader returns true if name is a shader.
func (sg *ShareGroup) IsShader(name uint32) bool {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	_, err := sg.shaderLocked(name)
	return err == nil
}

// DeleteShader deletes a shader. A shader attached to a program is only
// flagged for deletion and goes away once it is detached from every
// program.
func (sg *ShareGroup) DeleteShader(ctx context.Context, name uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	s, err := sg.shaderLocked(name)
	if err != nil {
		return err
	}
	if s.attached > 0 {
		s.DeleteStatus = true
		return nil
	}
	_, err = sg.deleteLocked(ctx, host.Shader, name)
	return err
}

func (sg *ShareGroup) releaseShaderLocked(ctx context.Context, name uint32) error {
	s, err := sg.shaderLocked(name)
	if err != nil {
		return err
	}
	if s.attached--; s.attached > 0 || !s.DeleteStatus {
		return nil
	}
	// Flagged shaders are removed outright, whatever their name references.
	sg.names[entryKey{host.Shader, name}].refs = 1
	_, err = sg.deleteLocked(ctx, host.Shader, name)
	return err
}

// CreateProgram creates a program object.
func (sg *ShareGroup) CreateProgram(ctx context.Context) (uint32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	name, _, err := sg.createLocked(ctx, host.Program)
	return name, err
}

// AttachShader attaches a shader to a program. A program holds at most one
// shader of each type.
func (sg *ShareGroup) AttachShader(program, shader uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, _, err := sg.programLocked(program)
	if err != nil {
		return err
	}
	s, err := sg.shaderLocked(shader)
	if err != nil {
		return err
	}
	if p.isAttached(shader) {
		return errors.Wrapf(ErrInvalidOperation, "shader %d already attached to program %d", shader, program)
	}
	for _, other := range p.Attached {
		if o, err := sg.shaderLocked(other); err == nil && o.Type == s.Type {
			return errors.Wrapf(ErrInvalidOperation, "program %d already has a 0x%x shader", program, s.Type)
		}
	}
	p.Attached = append(p.Attached, shader)
	s.attached++
	return nil
}

// DetachShader detaches a shader from a program, deleting it if it was
// flagged for deletion and is no longer attached anywhere.
func (sg *ShareGroup) DetachShader(ctx context.Context, program, shader uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, _, err := sg.programLocked(program)
	if err != nil {
		return err
	}
	if _, err := sg.shaderLocked(shader); err != nil {
		return err
	}
	if !p.detach(shader) {
		return errors.Wrapf(ErrInvalidOperation, "shader %d is not attached to program %d", shader, program)
	}
	return sg.releaseShaderLocked(ctx, shader)
}

// LinkProgram links the attached shaders of a program on the host. As with
// CompileShader, a failed link is reported through the program status.
func (sg *ShareGroup) LinkProgram(ctx context.Context, name uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, e, err := sg.programLocked(name)
	if err != nil {
		return err
	}
	ok, info, err := sg.mgr.ns.backend.LinkProgram(ctx, sg.hostLocked(e), sg.shaderHostsLocked(p))
	if err != nil {
		return err
	}
	p.InfoLog, p.Validated = info, false
	if ok {
		p.Status = Linked
	} else {
		p.Status = LinkFailed
	}
	return nil
}

// ValidateProgram records whether the program could execute, which here is
// whether it is linked.
func (sg *ShareGroup) ValidateProgram(name uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, _, err := sg.programLocked(name)
	if err != nil {
		return err
	}
	p.Validated = p.Status == Linked
	return nil
}

// GetProgramiv returns a program parameter.
func (sg *ShareGroup) GetProgramiv(name uint32, pname uint32) (int32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, _, err := sg.programLocked(name)
	if err != nil {
		return 0, err
	}
	return p.Param(pname)
}

// GetProgramInfoLog returns the info log of the last link of a program.
func (sg *ShareGroup) GetProgramInfoLog(name uint32) (string, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	p, _, err := sg.programLocked(name)
	if err != nil {
		return "", err
	}
	return p.InfoLog, nil
}

// IsProgram returns true if name is a program.
func (sg *ShareGroup) IsProgram(name uint32) bool {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	_, _, err := sg.programLocked(name)
	return err == nil
}

// DeleteProgram deletes a program, detaching its shaders.
func (sg *ShareGroup) DeleteProgram(ctx context.Context, name uint32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	if _, _, err := sg.programLocked(name); err != nil {
		return err
	}
	_, err := sg.deleteLocked(ctx, host.Program, name)
	return err
}

// GenTextures generates n texture names.
func (sg *ShareGroup) GenTextures(ctx context.Context, n int) ([]uint32, error) {
	return sg.Gen(ctx, host.Texture, n)
}

// DeleteTextures deletes texture names.
func (sg *ShareGroup) DeleteTextures(ctx context.Context, names ...uint32) error {
	return sg.Delete(ctx, host.Texture, names...)
}

func (sg *ShareGroup) textureLocked(name uint32) (*Texture, error) {
	e, err := sg.lookupLocked(host.Texture, name)
	if err != nil {
		return nil, err
	}
	return e.object.(*Texture), nil
}

// BindTexture fixes the target of a texture on its first bind. Binding a
// name that does not exist yet creates it.
func (sg *ShareGroup) BindTexture(ctx context.Context, target, name uint32) error {
	if !validTextureTarget(target) {
		return errors.Wrapf(ErrInvalidEnum, "texture target 0x%x", target)
	}
	if name == 0 {
		return nil
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Texture, name)
	if errors.Cause(err) == ErrNotFound && !sg.destroyed {
		e, err = sg.genLocked(ctx, host.Texture, name)
	}
	if err != nil {
		return err
	}
	return e.object.(*Texture).bind(target)
}

// TexImage2D specifies a level of a texture.
func (sg *ShareGroup) TexImage2D(name uint32, level int32, internalFormat uint32, width, height int32, format, ty uint32, data []byte) error {
	if level < 0 || width < 0 || height < 0 {
		return errors.Wrapf(ErrInvalidValue, "level %d of %dx%d", level, width, height)
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	t, err := sg.textureLocked(name)
	if err != nil {
		return err
	}
	if t.Target == 0 {
		t.Target = Texture2D
	}
	t.setLevel(Level{
		Level:          level,
		Width:          width,
		Height:         height,
		InternalFormat: internalFormat,
		Format:         format,
		Type:           ty,
		Data:           append([]byte(nil), data...),
	})
	return nil
}

// TexParameteri sets a texture parameter.
func (sg *ShareGroup) TexParameteri(name uint32, pname uint32, value int32) error {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	t, err := sg.textureLocked(name)
	if err != nil {
		return err
	}
	return t.setParam(pname, value)
}

// GetTexLevelParameteriv returns a parameter of a texture level.
func (sg *ShareGroup) GetTexLevelParameteriv(name uint32, level int32, pname uint32) (int32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	t, err := sg.textureLocked(name)
	if err != nil {
		return 0, err
	}
	return t.LevelParam(level, pname)
}

// GenBuffers generates n buffer names.
func (sg *ShareGroup) GenBuffers(ctx context.Context, n int) ([]uint32, error) {
	return sg.Gen(ctx, host.Buffer, n)
}

// BufferData replaces the contents of a buffer.
func (sg *ShareGroup) BufferData(name uint32, data []byte, usage uint32) error {
	switch usage {
	case StaticDraw, DynamicDraw, StreamDraw:
	default:
		return errors.Wrapf(ErrInvalidEnum, "buffer usage 0x%x", usage)
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Buffer, name)
	if err != nil {
		return err
	}
	b := e.object.(*Buffer)
	b.Data, b.Usage = append([]byte(nil), data...), usage
	return nil
}

// GetBufferParameteriv returns a buffer parameter.
func (sg *ShareGroup) GetBufferParameteriv(name uint32, pname uint32) (int32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Buffer, name)
	if err != nil {
		return 0, err
	}
	return e.object.(*Buffer).Param(pname)
}

// GenRenderbuffers generates n renderbuffer names.
func (sg *ShareGroup) GenRenderbuffers(ctx context.Context, n int) ([]uint32, error) {
	return sg.Gen(ctx, host.Renderbuffer, n)
}

// RenderbufferStorage allocates the storage of a renderbuffer.
func (sg *ShareGroup) RenderbufferStorage(name uint32, internalFormat uint32, samples, width, height int32) error {
	if samples < 0 || width < 0 || height < 0 {
		return errors.Wrapf(ErrInvalidValue, "%d samples of %dx%d", samples, width, height)
	}
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Renderbuffer, name)
	if err != nil {
		return err
	}
	*e.object.(*Renderbuffer) = Renderbuffer{
		InternalFormat: internalFormat,
		Width:          width,
		Height:         height,
		Samples:        samples,
	}
	return nil
}

// GetRenderbufferParameteriv returns a renderbuffer parameter.
func (sg *ShareGroup) GetRenderbufferParameteriv(name uint32, pname uint32) (int32, error) {
	sg.mgr.ns.mu.Lock()
	defer sg.mgr.ns.mu.Unlock()
	e, err := sg.lookupLocked(host.Renderbuffer, name)
	if err != nil {
		return 0, err
	}
	return e.object.(*Renderbuffer).Param(pname)
}
