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

// OnBoolean holds a bool under test.
type OnBoolean struct {
	Assertion
	value bool
}

// ThatBoolean starts the checks on a bool.
func (a Assertion) ThatBoolean(value bool) OnBoolean {
	return OnBoolean{Assertion: a, value: value}
}

// IsTrue asserts that the value is true.
func (o OnBoolean) IsTrue() bool {
	return o.compare(o.value, "==", true).check(o.value)
}

// IsFalse asserts that the value is false.
func (o OnBoolean) IsFalse() bool {
	return o.compare(o.value, "==", false).check(!o.value)
}
