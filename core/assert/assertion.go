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

package assert

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/stretchr/testify/assert"
)

type level int

const (
	levelLog level = iota
	levelError
	levelFatal
)

func (l level) String() string {
	switch l {
	case levelLog:
		return "Info"
	case levelError:
		return "Error"
	case levelFatal:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Assertion collects the report of a single assertion. It is started by For
// and finished by one of the typed checks, which write the report to the
// output only when the check fails.
type Assertion struct {
	level level
	out   *bytes.Buffer
	to    Output
}

// Log writes the report and args to the output at info level.
func (a *Assertion) Log(args ...interface{}) { a.flush(levelLog, args) }

// Error writes the report and args to the output as a test failure.
func (a *Assertion) Error(args ...interface{}) { a.flush(levelError, args) }

// Fatal writes the report and args to the output and stops the test.
func (a *Assertion) Fatal(args ...interface{}) { a.flush(levelFatal, args) }

func (a *Assertion) flush(l level, args []interface{}) {
	fmt.Fprint(a.out, args...)
	a.level = l
	a.commit()
}

// pretty quotes strings and errors so that empty values stay visible.
func pretty(v interface{}) string {
	switch v := v.(type) {
	case error:
		return "`" + v.Error() + "`"
	case string:
		return "`" + v + "`"
	default:
		return fmt.Sprint(v)
	}
}

// row adds a line of tab separated cells to the report.
func (a Assertion) row(cells ...string) Assertion {
	a.out.WriteString(strings.Join(cells, "\t"))
	a.out.WriteString("\n    ")
	return a
}

// compare adds the usual Got and Expect rows to the report.
func (a Assertion) compare(got interface{}, op string, expect interface{}) Assertion {
	return a.row("Got", "", pretty(got)).row("Expect", op, pretty(expect))
}

// check writes the report if ok is false, and returns ok.
func (a Assertion) check(ok bool) bool {
	if !ok {
		a.commit()
	}
	return ok
}

func (a Assertion) commit() {
	buf := &bytes.Buffer{}
	tabs := tabwriter.NewWriter(buf, 1, 4, 1, ' ', tabwriter.StripEscape)
	tabs.Write(a.out.Bytes())
	tabs.Flush()
	message := a.level.String() + ":" + strings.TrimRightFunc(buf.String(), unicode.IsSpace)
	switch a.level {
	case levelError:
		a.to.Error(message)
	case levelFatal:
		a.to.Fatal(message)
	default:
		a.to.Log(message)
	}
}

func deepEqual(a, b interface{}) bool {
	return assert.ObjectsAreEqual(a, b)
}
