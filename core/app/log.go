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

package app

import (
	"context"
	"os"

	"github.com/Shinoby92/platform-external-qemu/core/log"
)

// LogFlags control where and how the application logs.
type LogFlags struct {
	Level log.Severity `help:"Only log messages at or above this severity"`
	Style log.Style    `help:"The log style: raw, brief, normal or detailed"`
	File  string       `help:"Log to this file instead of stderr"`
}

func logDefaults() LogFlags {
	return LogFlags{
		Level: log.Info,
		Style: log.Normal,
	}
}

// prepareContext builds the root context and returns a function that
// closes the log.
func prepareContext(flags *LogFlags) (context.Context, func()) {
	to, closer := log.Stderr(), func() {}
	var err error
	if flags.File != "" {
		var f *os.File
		if f, err = os.Create(flags.File); err == nil {
			to, closer = log.To(f), func() { f.Close() }
		}
	}
	ctx := log.PutTag(context.Background(), Name)
	ctx = log.PutFilter(ctx, log.SeverityFilter(flags.Level))
	ctx = log.PutHandler(ctx, flags.Style.Handler(to))
	if err != nil {
		log.W(ctx, "Logging to stderr: %v", err)
	}
	return ctx, closer
}
