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

package gles

import "github.com/Shinoby92/platform-external-qemu/core/fault"

const (
	// ErrNotFound is returned when a virtual name, share group or global
	// name does not resolve in the given scope.
	ErrNotFound = fault.Const("gles: name not found")
	// ErrInvalidValue corresponds to GL_INVALID_VALUE.
	ErrInvalidValue = fault.Const("gles: invalid value")
	// ErrInvalidEnum corresponds to GL_INVALID_ENUM.
	ErrInvalidEnum = fault.Const("gles: invalid enum")
	// ErrInvalidOperation corresponds to GL_INVALID_OPERATION.
	ErrInvalidOperation = fault.Const("gles: invalid operation")
)
