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

package egl

import "github.com/Shinoby92/platform-external-qemu/core/fault"

const (
	// ErrNotFound is returned when a handle, config id or config handle does
	// not resolve to a live object.
	ErrNotFound = fault.Const("egl: not found")
	// ErrNotInitialized is returned by operations on a display that is not
	// initialized, or was terminated.
	ErrNotInitialized = fault.Const("egl: display not initialized")
	// ErrInvalidArgument is returned for nil objects, unsupported criteria
	// attributes and arguments the config does not support.
	ErrInvalidArgument = fault.Const("egl: invalid argument")
)
