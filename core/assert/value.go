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

import "reflect"

// OnValue holds a value of any type under test.
type OnValue struct {
	Assertion
	value interface{}
}

// That starts the checks that work for values of any type.
func (a Assertion) That(value interface{}) OnValue {
	return OnValue{Assertion: a, value: value}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// IsNil asserts that the value is nil. Typed nils count as nil.
func (o OnValue) IsNil() bool {
	return o.compare(o.value, "==", "nil").check(isNil(o.value))
}

// IsNotNil asserts that the value is neither nil nor a typed nil.
func (o OnValue) IsNotNil() bool {
	return o.compare(o.value, "!=", "nil").check(!isNil(o.value))
}

// Equals asserts that the value is == expect.
func (o OnValue) Equals(expect interface{}) bool {
	return o.compare(o.value, "==", expect).check(o.value == expect)
}

// NotEquals asserts that the value is != test.
func (o OnValue) NotEquals(test interface{}) bool {
	return o.compare(o.value, "!=", test).check(o.value != test)
}

// DeepEquals asserts that the value is deeply equal to expect.
func (o OnValue) DeepEquals(expect interface{}) bool {
	return o.compare(o.value, "deep ==", expect).check(deepEqual(o.value, expect))
}
