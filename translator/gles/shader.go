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
	"github.com/Shinoby92/platform-external-qemu/core/data/binary"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/pkg/errors"
)

// Compilation is the outcome of the last compile of a shader. A shader that
// was never compiled is distinct from one that failed, even though both
// report GL_COMPILE_STATUS as GL_FALSE.
type Compilation uint8

const (
	NotCompiled Compilation = iota
	Compiled
	CompileFailed
)

func (c Compilation) String() string {
	switch c {
	case NotCompiled:
		return "NotCompiled"
	case Compiled:
		return "Compiled"
	case CompileFailed:
		return "CompileFailed"
	default:
		return "Compilation(?)"
	}
}

// Shader is the state of a shader object.
type Shader struct {
	Type   uint32
	Source string
	// CompiledSource is the source the last successful compile used. The
	// source may be replaced after compiling without affecting programs
	// linked against it.
	CompiledSource string
	Status         Compilation
	InfoLog        string
	DeleteStatus   bool

	attached int // Programs this shader is attached to.
}

func validShaderType(t uint32) bool {
	switch t {
	case VertexShader, FragmentShader, ComputeShader:
		return true
	}
	return false
}

// Kind implements Object.
func (s *Shader) Kind() host.ObjectKind { return host.Shader }

// SourceLength returns GL_SHADER_SOURCE_LENGTH, which counts the terminator.
func (s *Shader) SourceLength() int32 { return logLength(s.Source) }

// Param returns the glGetShaderiv value for pname.
func (s *Shader) Param(pname uint32) (int32, error) {
	switch pname {
	case ShaderType:
		return int32(s.Type), nil
	case DeleteStatus:
		return boolParam(s.DeleteStatus), nil
	case CompileStatus:
		return boolParam(s.Status == Compiled), nil
	case InfoLogLength:
		return logLength(s.InfoLog), nil
	case ShaderSourceLength:
		return s.SourceLength(), nil
	default:
		return 0, errors.Wrapf(ErrInvalidEnum, "shader parameter 0x%x", pname)
	}
}

// Save implements snapshot.Serializable.
func (s *Shader) Save(w binary.Writer) {
	w.Uint32(s.Type)
	w.String(s.Source)
	w.String(s.CompiledSource)
	w.Uint8(uint8(s.Status))
	w.String(s.InfoLog)
	w.Bool(s.DeleteStatus)
}

// Load implements snapshot.Serializable.
func (s *Shader) Load(r binary.Reader) error {
	s.Type = r.Uint32()
	s.Source = r.String()
	s.CompiledSource = r.String()
	s.Status = Compilation(r.Uint8())
	s.InfoLog = r.String()
	s.DeleteStatus = r.Bool()
	if err := r.Error(); err != nil {
		return err
	}
	if !validShaderType(s.Type) {
		return errors.Wrapf(snapshot.ErrCorrupt, "shader type 0x%x", s.Type)
	}
	if s.Status > CompileFailed {
		return errors.Wrapf(snapshot.ErrCorrupt, "shader compile status %d", s.Status)
	}
	return nil
}
