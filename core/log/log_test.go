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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/pkg/errors"
)

type testMessage struct {
	msg      string
	args     []interface{}
	values   log.V
	severity log.Severity
	tag      string
	trace    string

	raw    string
	brief  string
	normal string
}

func (m testMessage) send(h log.Handler) {
	ctx := context.Background()
	ctx = log.PutHandler(ctx, h)
	ctx = log.PutTag(ctx, m.tag)
	if m.trace != "" {
		ctx = log.Enter(ctx, m.trace)
	}
	ctx = m.values.Bind(ctx)
	log.From(ctx).Logf(m.severity, false, m.msg, m.args...)
}

var testMessages = []testMessage{
	{
		msg:      "plain warning",
		severity: log.Warning,

		raw:    "plain warning",
		brief:  "W: plain warning",
		normal: "W: plain warning",
	}, {
		msg:      "info with values",
		severity: log.Info,
		values:   log.V{"handle": 3, "kind": "context"},

		raw:    "info with values",
		brief:  "I: info with values",
		normal: "I: info with values (handle: 3, kind: context)",
	}, {
		msg:      "error %d in %s",
		args:     []interface{}{7, "load"},
		severity: log.Error,
		tag:      "egl",
		trace:    "Display.Load",

		raw:    "error 7 in load",
		brief:  "E: error 7 in load",
		normal: "E: [Display.Load] [egl] error 7 in load",
	},
}

func TestStyles(t *testing.T) {
	var buf bytes.Buffer

	for _, test := range testMessages {
		for _, w := range []struct {
			handler  log.Handler
			name     string
			expected string
		}{
			{log.Raw.Handler(log.To(&buf)), "Raw", test.raw},
			{log.Brief.Handler(log.To(&buf)), "Brief", test.brief},
			{log.Normal.Handler(log.To(&buf)), "Normal", test.normal},
		} {
			buf.Reset()
			test.send(w.handler)
			assert.To(t).
				For("%s(%s)", w.name, test.msg).
				ThatString(buf.String()).Equals(w.expected + "\n")
		}
	}
}

func TestFilter(t *testing.T) {
	var buf bytes.Buffer
	ctx := log.PutHandler(context.Background(), log.Raw.Handler(log.To(&buf)))
	ctx = log.PutFilter(ctx, log.SeverityFilter(log.Warning))

	log.I(ctx, "hidden")
	log.W(ctx, "shown")
	assert.To(t).For("filtered output").ThatString(buf.String()).Equals("shown\n")
}

func TestNoHandler(t *testing.T) {
	// Logging without a handler is a no-op rather than a crash.
	log.E(context.Background(), "nobody is listening")
}

func TestErrCause(t *testing.T) {
	const cause = fault.Const("out of memory")
	ctx := log.V{"handle": 12}.Bind(context.Background())
	err := log.Errf(ctx, cause, "restoring %s", "texture")
	assert.To(t).For("cause").ThatError(err).HasCause(cause)
	assert.To(t).For("message").ThatString(err.Error()).Contains("restoring texture")
	assert.To(t).For("stdlib unwrap").ThatBoolean(errors.Is(err, cause)).IsTrue()
}

func TestFlagValues(t *testing.T) {
	assert := assert.To(t)
	var s log.Severity
	assert.For("long").ThatError(s.Set("warning")).Succeeded()
	assert.For("warning").That(s).Equals(log.Warning)
	assert.For("short").ThatError(s.Set("D")).Succeeded()
	assert.For("debug").That(s).Equals(log.Debug)
	assert.For("unknown").ThatError(s.Set("loud")).Failed()

	style := log.Normal
	assert.For("style").ThatError(style.Set("Detailed")).Succeeded()
	assert.For("detailed").ThatString(style.String()).Equals("detailed")
	assert.For("unknown style").ThatError(style.Set("fancy")).Failed()
}
