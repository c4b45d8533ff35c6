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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/host/memhost"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile describes the host a display is built over.
type Profile struct {
	// Renderable lists the client APIs the display supports: es1, es2 and
	// es3.
	Renderable []string `yaml:"renderable" toml:"renderable"`
	// Formats are the host pixel formats. If empty the memhost defaults are
	// used.
	Formats []host.PixelFormat `yaml:"formats" toml:"formats"`
}

var renderableBits = map[string]int32{
	"es1": egl.OpenGLESBit,
	"es2": egl.OpenGLES2Bit,
	"es3": egl.OpenGLES3Bit,
}

func defaultProfile() Profile {
	return Profile{Renderable: []string{"es1", "es2", "es3"}}
}

// parseProfile decodes a profile. TOML is used for names ending in .toml
// and YAML otherwise.
func parseProfile(name string, data []byte) (Profile, error) {
	p := defaultProfile()
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&p)
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&p)
	}
	if err != nil {
		return Profile{}, errors.Wrapf(err, "parsing profile %s", name)
	}
	return p, nil
}

func loadProfile(path string) (Profile, error) {
	if path == "" {
		return defaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	return parseProfile(path, data)
}

// RenderableMask returns the EGL_RENDERABLE_TYPE mask of p.
func (p Profile) RenderableMask() (int32, error) {
	mask := int32(0)
	for _, name := range p.Renderable {
		bit, ok := renderableBits[strings.ToLower(name)]
		if !ok {
			return 0, errors.Errorf("unknown renderable API %q", name)
		}
		mask |= bit
	}
	if mask == 0 {
		return 0, errors.New("profile has no renderable API")
	}
	return mask, nil
}

// DisplayFlags select the host profile of the display a verb works on.
type DisplayFlags struct {
	Profile string `help:"A YAML or TOML host profile"`
}

// open builds and initializes a default display over an in-memory host
// described by the profile.
func (f DisplayFlags) open(ctx context.Context) (*egl.Display, *memhost.Backend, error) {
	p, err := loadProfile(f.Profile)
	if err != nil {
		return nil, nil, err
	}
	mask, err := p.RenderableMask()
	if err != nil {
		return nil, nil, err
	}
	backend := memhost.New(p.Formats...)
	d := egl.NewDisplay(1, 1, backend, egl.Options{IsDefault: true})
	if err := d.Initialize(ctx, mask); err != nil {
		return nil, nil, err
	}
	log.D(ctx, "Display built from %d host formats", len(p.Formats))
	return d, backend, nil
}
