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
	"fmt"

	"github.com/pkg/errors"
)

// OnError holds an error under test.
type OnError struct {
	Assertion
	err error
}

// ThatError starts the checks on an error.
func (a Assertion) ThatError(err error) OnError {
	return OnError{Assertion: a, err: err}
}

// Succeeded asserts that the error is nil.
func (o OnError) Succeeded() bool {
	return o.row("Got", "", fmt.Sprint(o.err)).row("Expect", "", "success").check(o.err == nil)
}

// Failed asserts that the error is not nil.
func (o OnError) Failed() bool {
	return o.row("Expect", "", "failure").check(o.err != nil)
}

// Equals asserts that the error is == expect.
func (o OnError) Equals(expect error) bool {
	return o.compare(o.err, "==", expect).check(o.err == expect)
}

// HasCause asserts that the cause of the error, as found by errors.Cause, is
// expect.
func (o OnError) HasCause(expect error) bool {
	cause := errors.Cause(o.err)
	return o.row("Got", "", pretty(o.err)).
		row("Cause", "", pretty(cause)).
		row("Expect", "==", pretty(expect)).
		check(cause == expect)
}
