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
	"fmt"
	"io"
)

// Usage prints message and the command usage to Stderr, and then exits
// with UsageExit.
func Usage(message string, args ...interface{}) {
	writeUsage(Stderr, &globalVerbs, fmt.Sprintf(message, args...), false)
	panic(UsageExit)
}

func writeUsage(w io.Writer, v *Verb, message string, verbose bool) {
	if message != "" {
		fmt.Fprintf(w, "\n%s\n\n", message)
	}
	verbShorthelp(w, v)
	fmt.Fprint(w, "Usage:")
	verbUsage(w, v, verbose)
	verbHelp(w, v, verbose)
}

func verbShorthelp(w io.Writer, v *Verb) {
	if v.ShortHelp != "" {
		fmt.Fprintf(w, "%s: %s\n", v.Name, v.ShortHelp)
	}
	if v.selected != nil {
		verbShorthelp(w, v.selected)
	}
}

func verbUsage(w io.Writer, v *Verb, verbose bool) {
	fmt.Fprintf(w, " %s", v.Name)
	if v.Flags.HasVisibleFlags(verbose) {
		fmt.Fprintf(w, " [%s-flags]", v.Name)
	}
	switch {
	case v.selected != nil:
		verbUsage(w, v.selected, verbose)
		return
	case v.ShortUsage != "":
		fmt.Fprintf(w, " %s", v.ShortUsage)
	case len(v.verbs) > 0:
		fmt.Fprint(w, " verb [args]")
	}
	fmt.Fprintln(w)
}

func verbHelp(w io.Writer, v *Verb, verbose bool) {
	if v.Flags.HasVisibleFlags(verbose) {
		fmt.Fprintf(w, "%s-flags:\n", v.Name)
		v.Flags.WriteUsage(w, verbose)
	}
	if v.selected != nil {
		verbHelp(w, v.selected, verbose)
		return
	}
	if len(v.verbs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s verbs:\n", v.Name)
	longest := 0
	for _, child := range v.verbs {
		if longest < len(child.Name) {
			longest = len(child.Name)
		}
	}
	for _, child := range v.verbs {
		fmt.Fprintf(w, "    %-*s - %s\n", longest, child.Name, child.ShortHelp)
	}
}
