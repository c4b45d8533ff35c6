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

package snapshot

import "github.com/Shinoby92/platform-external-qemu/core/fault"

const (
	// ErrShortRead is returned when a stream holds fewer bytes than a read
	// asked for. It means the checkpoint is truncated or corrupt.
	ErrShortRead = fault.Const("snapshot: short read")
	// ErrShortWrite is returned when a fixed size stream has no room left.
	ErrShortWrite = fault.Const("snapshot: short write")
	// ErrBadMagic is returned when a stream does not start with a checkpoint
	// header of the expected kind.
	ErrBadMagic = fault.Const("snapshot: bad magic")
	// ErrVersion is returned for a checkpoint written by a newer format.
	ErrVersion = fault.Const("snapshot: unsupported format version")
	// ErrCorrupt is returned when decoded values are inconsistent with each
	// other.
	ErrCorrupt = fault.Const("snapshot: corrupt stream")
)
