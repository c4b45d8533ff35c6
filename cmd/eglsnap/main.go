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

// The eglsnap command builds EGL displays over an in-memory host, lists and
// chooses their configs, and writes and inspects display checkpoints.
package main

import (
	"github.com/Shinoby92/platform-external-qemu/core/app"
)

func main() {
	app.ShortHelp = "eglsnap inspects EGL display configs and checkpoints."
	app.Version = app.VersionSpec{Major: 1, Minor: 0, Point: -1}
	app.AddVerb(&app.Verb{
		Name:      "configs",
		ShortHelp: "Lists the configs of a display",
		Auto:      &configsVerb{},
	})
	app.AddVerb(&app.Verb{
		Name:       "choose",
		ShortHelp:  "Chooses configs matching attribute=value pairs",
		ShortUsage: "<attribute=value>...",
		Auto:       &chooseVerb{},
	})
	app.AddVerb(&app.Verb{
		Name:      "demo",
		ShortHelp: "Builds a sample display and saves a checkpoint of it",
		Auto:      &demoVerb{Out: "display.snap"},
	})
	app.AddVerb(&app.Verb{
		Name:       "inspect",
		ShortHelp:  "Loads a checkpoint and prints what it holds",
		ShortUsage: "<checkpoint>",
		Auto:       &inspectVerb{},
	})
	app.Run(app.VerbMain)
}
