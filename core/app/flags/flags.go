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

// Package flags binds the fields of a struct to command line flags.
package flags

import (
	"flag"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

// Set is a set of bound flags.
type Set struct {
	// Raw is the underlying flag set.
	Raw flag.FlagSet
}

// Bind uses reflection to bind flag values to value.
// It recurses into nested structures adding all leaf fields. Field names are
// lower cased and joined to their parent with a '-' unless a name or
// fullname tag is given. The help tag is the usage text; a usage starting
// with '_' is only shown in the full help.
func (s *Set) Bind(name string, value interface{}, help string) {
	switch val := value.(type) {
	case *bool:
		s.Raw.BoolVar(val, name, *val, help)
		return
	case *int:
		s.Raw.IntVar(val, name, *val, help)
		return
	case *int64:
		s.Raw.Int64Var(val, name, *val, help)
		return
	case *uint:
		s.Raw.UintVar(val, name, *val, help)
		return
	case *uint64:
		s.Raw.Uint64Var(val, name, *val, help)
		return
	case *float64:
		s.Raw.Float64Var(val, name, *val, help)
		return
	case *string:
		s.Raw.StringVar(val, name, *val, help)
		return
	case *time.Duration:
		s.Raw.DurationVar(val, name, *val, help)
		return
	case flag.Value:
		s.Raw.Var(val, name, help)
		return
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Flag value not a pointer: %v", rv.Type()))
	}

	switch e := rv.Elem(); e.Kind() {
	case reflect.Slice:
		s.Raw.Var(newRepeatedFlag(e), name, help)
	case reflect.Struct:
		t := e.Type()
		for i := 0; i < e.NumField(); i++ {
			tf := t.Field(i)
			if tf.PkgPath != "" {
				continue // Unexported.
			}
			field := e.Field(i)
			fname := strings.ToLower(tf.Name)
			fullname := tf.Tag.Get("fullname")
			if tf.Anonymous {
				fname = ""
			}
			if partial := tf.Tag.Get("name"); partial != "" {
				fname = partial
			}
			switch {
			case fullname != "":
			case fname == "":
				fullname = name
			case name == "":
				fullname = fname
			default:
				fullname = name + "-" + fname
			}
			s.Bind(fullname, field.Addr().Interface(), tf.Tag.Get("help"))
		}
	default:
		panic(fmt.Sprintf("Unhandled flag type: %v", rv.Type()))
	}
}

// HasVisibleFlags returns true if the set has bound flags for the specified
// verbosity.
func (s *Set) HasVisibleFlags(verbose bool) bool {
	result := false
	s.Raw.VisitAll(func(f *flag.Flag) {
		if _, _, hidden := flagUsage(f, verbose); !hidden {
			result = true
		}
	})
	return result
}

func flagUsage(f *flag.Flag, verbose bool) (string, string, bool) {
	name, usage := flag.UnquoteUsage(f)
	if !strings.HasPrefix(usage, "_") {
		return name, usage, false
	}
	return name, usage[1:], !verbose
}

func defaultText(f *flag.Flag) string {
	switch f.DefValue {
	case "", "0", "false", "[]":
		return ""
	}
	if _, isString := f.Value.(flag.Getter).Get().(string); isString {
		return fmt.Sprintf(" (default %q)", f.DefValue)
	}
	return fmt.Sprintf(" (default %v)", f.DefValue)
}

// WriteUsage writes the usage of every visible flag to w.
func (s *Set) WriteUsage(w io.Writer, verbose bool) {
	s.Raw.VisitAll(func(f *flag.Flag) {
		name, usage, hidden := flagUsage(f, verbose)
		if hidden {
			return
		}
		fmt.Fprintf(w, "  -%s %s\n\t%s", f.Name, name, usage)
		if _, ok := f.Value.(flag.Getter); ok {
			fmt.Fprint(w, defaultText(f))
		}
		fmt.Fprintln(w)
	})
}

// Parse processes the args to fill in the flags. Errors are returned rather
// than printed.
func (s *Set) Parse(args ...string) error {
	s.Raw.Init(s.Raw.Name(), flag.ContinueOnError)
	s.Raw.SetOutput(io.Discard)
	s.Raw.Usage = func() {}
	return s.Raw.Parse(args)
}

// Args returns the unprocessed part of the command line passed to Parse.
func (s *Set) Args() []string {
	return s.Raw.Args()
}
