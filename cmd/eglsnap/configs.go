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
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/Shinoby92/platform-external-qemu/core/app"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
	"github.com/pkg/errors"
)

type configsVerb struct {
	DisplayFlags
	Attrib string `help:"Only print this attribute, such as red_size"`
}

func (v *configsVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	d, _, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer d.Terminate(ctx)
	n, err := d.GetConfigs(nil)
	if err != nil {
		return err
	}
	handles := make([]egl.ConfigHandle, n)
	d.GetConfigs(handles)
	return printConfigs(d, handles, v.Attrib)
}

func printConfigs(d *egl.Display, handles []egl.ConfigHandle, attrib string) error {
	attr := int32(0)
	if attrib != "" {
		var ok bool
		if attr, ok = egl.AttribByName(attrib); !ok {
			return errors.Wrapf(app.ErrUsage, "unknown attribute %q", attrib)
		}
	}
	for _, h := range handles {
		cfg, err := d.ConfigByHandle(h)
		if err != nil {
			return err
		}
		if attr == 0 {
			fmt.Fprintln(app.Stdout, cfg)
			continue
		}
		value, err := cfg.Attrib(attr)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Stdout, "config %d: %s = %d\n", cfg.ID, egl.AttribName(attr), value)
	}
	return nil
}

type chooseVerb struct {
	DisplayFlags
	Max int `help:"The most configs to print, 0 for all"`
}

func (v *chooseVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	attribs, err := parseAttribs(flags.Args())
	if err != nil {
		return err
	}
	d, _, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer d.Terminate(ctx)
	n, err := d.ChooseConfigs(attribs, nil)
	if err != nil {
		return err
	}
	if v.Max > 0 && v.Max < n {
		n = v.Max
	}
	handles := make([]egl.ConfigHandle, n)
	n, _ = d.ChooseConfigs(attribs, handles)
	log.I(ctx, "%d configs match", n)
	return printConfigs(d, handles[:n], "")
}

// parseAttribs turns attribute=value arguments into an EGL attribute list
// terminated with EGL_NONE. Values may be decimal, 0x prefixed hex or
// dont_care.
func parseAttribs(args []string) ([]int32, error) {
	out := []int32{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.Wrapf(app.ErrUsage, "expected attribute=value, got %q", arg)
		}
		attr, ok := egl.AttribByName(name)
		if !ok {
			return nil, errors.Wrapf(app.ErrUsage, "unknown attribute %q", name)
		}
		v := int64(egl.DontCare)
		if !strings.EqualFold(value, "dont_care") {
			var err error
			if v, err = strconv.ParseInt(value, 0, 32); err != nil {
				return nil, errors.Wrapf(app.ErrUsage, "%s: %v", name, err)
			}
		}
		out = append(out, attr, int32(v))
	}
	return append(out, egl.None), nil
}
