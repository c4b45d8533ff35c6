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

// Package binary declares the Reader and Writer interfaces used to encode
// fixed-width values to a byte stream.
//
// Both interfaces use sticky errors: after the first failure every further
// call is a no-op (or returns the zero value) and Error reports the failure.
// This lets encoders be written as straight-line code with one error check at
// the end.
package binary
