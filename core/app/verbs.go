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
	"flag"
	"fmt"
	"strings"

	"github.com/Shinoby92/platform-external-qemu/core/app/flags"
	"github.com/pkg/errors"
)

// Verb holds information about a runnable command.
type Verb struct {
	Name       string                                              // The name of the command
	Run        func(ctx context.Context, flags flag.FlagSet) error // The action for the command
	Auto       AutoVerb                                            // If set, Run and Flags are filled from this
	ShortHelp  string                                              // Help for the purpose of the command
	ShortUsage string                                              // Help for how to use the command
	Flags      flags.Set                                           // The command line flags it accepts
	verbs      []*Verb
	selected   *Verb
}

// AutoVerb is the interface for objects that want to automatically configure
// a verb. Its exported fields are bound as the verb's flags.
type AutoVerb interface {
	// Run is the method to perform the action associated with a verb.
	Run(ctx context.Context, flags flag.FlagSet) error
}

var globalVerbs Verb

// Add adds a new verb to the supported set, it will panic if a duplicate
// name is encountered.
func (v *Verb) Add(child *Verb) {
	if child.Auto != nil {
		child.Flags.Bind("", child.Auto, "")
		if child.Run == nil {
			child.Run = child.Auto.Run
		}
	}
	for _, other := range v.verbs {
		if other.Name == child.Name {
			panic(fmt.Errorf("Duplicate verb name %s", child.Name))
		}
	}
	v.verbs = append(v.verbs, child)
	if v.Run == nil {
		v.Run = v.run
	}
}

// Filter returns the verbs whose names start with prefix. A verb named
// exactly prefix is the only match.
func (v *Verb) Filter(prefix string) (result []*Verb) {
	for _, child := range v.verbs {
		if child.Name == prefix {
			return []*Verb{child}
		}
		if strings.HasPrefix(child.Name, prefix) {
			result = append(result, child)
		}
	}
	return result
}

// Invoke runs a verb, handing it the command line arguments it should
// process.
func (v *Verb) Invoke(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.Wrapf(ErrUsage, "Must supply a verb to %s", v.Name)
	}
	verb := args[0]
	if verb == "help" {
		writeUsage(Stdout, v, "", len(args) > 1)
		return nil
	}
	matches := v.Filter(verb)
	switch len(matches) {
	case 1:
		v.selected = matches[0]
		if err := v.selected.Flags.Parse(args[1:]...); err != nil {
			return errors.Wrapf(ErrUsage, "%s: %v", v.selected.Name, err)
		}
		return v.selected.Run(ctx, v.selected.Flags.Raw)
	case 0:
		return errors.Wrapf(ErrUsage, "Verb '%s' is unknown", verb)
	default:
		return errors.Wrapf(ErrUsage, "Verb '%s' is ambiguous", verb)
	}
}

func (v *Verb) run(ctx context.Context, flags flag.FlagSet) error {
	return v.Invoke(ctx, flags.Args())
}

// AddVerb adds a new verb to the global set, it will panic if a duplicate
// name is encountered.
func AddVerb(v *Verb) {
	globalVerbs.Add(v)
}

// VerbMain is a task that can be handed to Run to invoke the verb handling
// system.
func VerbMain(ctx context.Context) error {
	return globalVerbs.Invoke(ctx, globalVerbs.Flags.Args())
}

func prepareVerbs(flags *AppFlags) {
	globalVerbs.Name = Name
	globalVerbs.ShortHelp = ShortHelp
	globalVerbs.ShortUsage = ShortUsage
	globalVerbs.Flags.Bind("", flags, "")
}
