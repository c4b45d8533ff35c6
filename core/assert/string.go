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
	"strings"
)

// OnString holds a string under test.
type OnString struct {
	Assertion
	value string
}

// ThatString starts the checks on a string. Byte slices are converted
// directly, anything else with fmt.Sprint.
func (a Assertion) ThatString(value interface{}) OnString {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(value)
	}
	return OnString{Assertion: a, value: s}
}

// Equals asserts that the string is expect.
func (o OnString) Equals(expect string) bool {
	return o.compare(o.value, "==", expect).check(o.value == expect)
}

// Contains asserts that the string contains substr.
func (o OnString) Contains(substr string) bool {
	return o.compare(o.value, "contains", substr).check(strings.Contains(o.value, substr))
}
