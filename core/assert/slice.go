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
	"reflect"
	"strconv"
)

// OnSlice holds a slice or array under test.
type OnSlice struct {
	Assertion
	slice interface{}
}

// ThatSlice starts the checks on a slice or array. A nil interface is an
// empty slice; any other non slice value panics.
func (a Assertion) ThatSlice(slice interface{}) OnSlice {
	return OnSlice{Assertion: a, slice: slice}
}

func elements(slice interface{}) []interface{} {
	v := reflect.ValueOf(slice)
	if !v.IsValid() {
		return nil
	}
	out := make([]interface{}, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// IsEmpty asserts that the slice has no elements.
func (o OnSlice) IsEmpty() bool {
	n := len(elements(o.slice))
	return o.row("Got", "", strconv.Itoa(n)).row("Expect", "is", "empty").check(n == 0)
}

// IsLength asserts that the slice has length elements.
func (o OnSlice) IsLength(length int) bool {
	n := len(elements(o.slice))
	return o.compare(n, "length ==", length).check(n == length)
}

// Equals asserts that the elements of the slice are == those of expect.
func (o OnSlice) Equals(expect interface{}) bool {
	return o.match(expect, func(a, b interface{}) bool { return a == b })
}

// DeepEquals asserts that the elements of the slice are deeply equal to
// those of expect.
func (o OnSlice) DeepEquals(expect interface{}) bool {
	return o.match(expect, deepEqual)
}

// match reports every element, marking missing ones with -, extra ones with
// + and different ones with *.
func (o OnSlice) match(expect interface{}, same func(a, b interface{}) bool) bool {
	got, want := elements(o.slice), elements(expect)
	ok := len(got) == len(want)
	for i := 0; i < len(got) || i < len(want); i++ {
		index := strconv.Itoa(i)
		switch {
		case i >= len(got):
			o.row("-", index, "", "==>", pretty(want[i]))
		case i >= len(want):
			o.row("+", index, pretty(got[i]))
		case same(got[i], want[i]):
			o.row("", index, pretty(got[i]))
		default:
			o.row("*", index, pretty(got[i]), "==>", pretty(want[i]))
			ok = false
		}
	}
	return o.check(ok)
}
