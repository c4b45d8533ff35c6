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

package flags_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Shinoby92/platform-external-qemu/core/app/flags"
	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
)

type upper string

func (f *upper) String() string     { return string(*f) }
func (f *upper) Set(v string) error { *f = upper(strings.ToUpper(v)); return nil }

type logFlags struct {
	Level string `help:"the log level"`
	Quiet bool   `name:"q" help:"_hide progress"`
}

type verbFlags struct {
	Log      logFlags
	Profile  string        `fullname:"profile" help:"the host profile"`
	Timeout  time.Duration `help:"how long to wait"`
	Attribs  []string      `name:"attrib" help:"an attribute=value pair"`
	Widths   []int
	Mode     upper
	internal int
}

func bind(t *testing.T, args ...string) (*verbFlags, *flags.Set, error) {
	v := &verbFlags{Timeout: time.Second}
	set := &flags.Set{}
	set.Bind("", v, "")
	return v, set, set.Parse(args...)
}

func TestBind(t *testing.T) {
	ctx := log.Testing(t)
	v, set, err := bind(t,
		"-log-level", "debug", "-log-q",
		"-profile", "host.yaml",
		"-timeout", "3s",
		"-attrib", "red_size=8", "-attrib", "depth_size=24",
		"-widths", "1", "-widths", "2",
		"-mode", "fast",
		"configs", "extra")
	assert.For(ctx, "Parse").ThatError(err).Succeeded()
	assert.For(ctx, "level").ThatString(v.Log.Level).Equals("debug")
	assert.For(ctx, "quiet").ThatBoolean(v.Log.Quiet).IsTrue()
	assert.For(ctx, "profile").ThatString(v.Profile).Equals("host.yaml")
	assert.For(ctx, "timeout").That(v.Timeout).Equals(3 * time.Second)
	assert.For(ctx, "attribs").ThatSlice(v.Attribs).Equals([]string{"red_size=8", "depth_size=24"})
	assert.For(ctx, "widths").ThatSlice(v.Widths).Equals([]int{1, 2})
	assert.For(ctx, "mode").That(v.Mode).Equals(upper("FAST"))
	assert.For(ctx, "args").ThatSlice(set.Args()).Equals([]string{"configs", "extra"})
	assert.For(ctx, "unexported").That(set.Raw.Lookup("internal")).IsNil()
}

func TestParseErrors(t *testing.T) {
	ctx := log.Testing(t)
	_, _, err := bind(t, "-unknown")
	assert.For(ctx, "unknown flag").ThatError(err).Failed()
	_, _, err = bind(t, "-widths", "x")
	assert.For(ctx, "bad repeated value").ThatError(err).Failed()
}

func TestUsage(t *testing.T) {
	ctx := log.Testing(t)
	_, set, _ := bind(t)
	assert.For(ctx, "visible").ThatBoolean(set.HasVisibleFlags(false)).IsTrue()

	brief := &strings.Builder{}
	set.WriteUsage(brief, false)
	assert.For(ctx, "profile help").ThatString(brief.String()).Contains("the host profile")
	assert.For(ctx, "default").ThatString(brief.String()).Contains("(default 1s)")
	assert.For(ctx, "hidden").ThatBoolean(strings.Contains(brief.String(), "log-q")).IsFalse()

	full := &strings.Builder{}
	set.WriteUsage(full, true)
	assert.For(ctx, "full help").ThatString(full.String()).Contains("hide progress")
}
