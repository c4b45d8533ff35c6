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

// Linkage is the outcome of the last link of a program.
type Linkage uint8

const (
	NotLinked Linkage = iota
	Linked
	LinkFailed
)

// Program is the state of a program object.
type Program struct {
	// Attached holds the virtual names of the attached shaders in attach
	// order.
	Attached     []uint32
	Status       Linkage
	InfoLog      string
	Validated    bool
	DeleteStatus bool
}

// Kind implements Object.
func (p *Program) Kind() host.ObjectKind { return host.Program }

func (p *Program) isAttached(shader uint32) bool {
	for _, s := range p.Attached {
		if s == shader {
			return true
		}
	}
	return false
}

func (p *Program) detach(shader uint32) bool {
	for i, s := range p.Attached {
		if s == shader {
			p.Attached = append(p.Attached[:i], p.Attached[i+1:]...)
			return true
		}
	}
	return false
}

// Param returns the glGetProgramiv value for pname.
func (p *Program) Param(pname uint32) (int32, error) {
	switch pname {
	case DeleteStatus:
		return boolParam(p.DeleteStatus), nil
	case LinkStatus:
		return boolParam(p.Status == Linked), nil
	case ValidateStatus:
		return boolParam(p.Validated), nil
	case InfoLogLength:
		return logLength(p.InfoLog), nil
	case AttachedShaders:
		return int32(len(p.Attached)), nil
	default:
		return 0, errors.Wrapf(ErrInvalidEnum, "program parameter 0x%x", pname)
	}
}

// Save implements snapshot.Serializable.
func (p *Program) Save(w binary.Writer) {
	w.Count(uint32(len(p.Attached)))
	for _, s := range p.Attached {
		w.Uint32(s)
	}
	w.Uint8(uint8(p.Status))
	w.Bool(p.DeleteStatus)
	w.String(p.InfoLog)
	w.Bool(p.Validated)
}

// Load implements snapshot.Serializable.
func (p *Program) Load(r binary.Reader) error {
	n := r.Count()
	p.Attached = nil
	for i := uint32(0); i < n && r.Error() == nil; i++ {
		p.Attached = append(p.Attached, r.Uint32())
	}
	p.Status = Linkage(r.Uint8())
	p.DeleteStatus = r.Bool()
	p.InfoLog = r.String()
	p.Validated = r.Bool()
	if err := r.Error(); err != nil {
		return err
	}
	if p.Status > LinkFailed {
		return errors.Wrapf(snapshot.ErrCorrupt, "program link status %d", p.Status)
	}
	return nil
}
