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
	"io"
	"os"

	"github.com/Shinoby92/platform-external-qemu/core/app"
	"github.com/Shinoby92/platform-external-qemu/core/snapshot"
	"github.com/Shinoby92/platform-external-qemu/host"
	"github.com/Shinoby92/platform-external-qemu/translator/egl"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
	"github.com/pkg/errors"
)

type inspectVerb struct {
	DisplayFlags
}

func (v *inspectVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.Wrap(app.ErrUsage, "inspect takes one checkpoint file")
	}
	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}
	d, _, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer d.Terminate(ctx)
	if err := d.Load(ctx, snapshot.Reader(snapshot.Wrap(data))); err != nil {
		return err
	}
	return describe(ctx, app.Stdout, d)
}

// describe prints the objects registered with d and the share groups of its
// namespace.
func describe(ctx context.Context, w io.Writer, d *egl.Display) error {
	contexts, surfaces, images := d.Handles()
	for _, h := range contexts {
		c, err := d.Context(h)
		if err != nil {
			return err
		}
		draw, read := c.Surfaces()
		fmt.Fprintf(w, "context %d: config %d %v share group %d draw %d read %d\n",
			h, c.Config().ID, c.Version(), c.ShareGroupID(), draw, read)
		c.Release(ctx)
	}
	for _, h := range surfaces {
		s, err := d.Surface(h)
		if err != nil {
			return err
		}
		width, height := s.Size()
		fmt.Fprintf(w, "surface %d: %v %dx%d config %d bound to %d\n",
			h, s.Kind(), width, height, s.Config().ID, s.BoundContext())
		s.Release(ctx)
	}
	for _, h := range images {
		i, err := d.Image(h)
		if err != nil {
			return err
		}
		width, height := i.Size()
		fmt.Fprintf(w, "image %d: %dx%d format 0x%x texture %d from context %d\n",
			h, width, height, i.InternalFormat(), i.Texture(), i.Source())
		i.Release(ctx)
	}
	for v := 0; v < gles.MaxVersion; v++ {
		m := d.Manager(gles.Version(v))
		for _, id := range m.ShareGroups() {
			sg, ok := m.ShareGroup(id)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%v share group %d: %d contexts", m.Version(), id, sg.Contexts())
			for k := 0; k < host.ObjectKindCount; k++ {
				if names := sg.Names(host.ObjectKind(k)); len(names) > 0 {
					fmt.Fprintf(w, ", %d %v", len(names), host.ObjectKind(k))
				}
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "host objects: %d\n", d.NameSpace().HostObjects())
	return nil
}
