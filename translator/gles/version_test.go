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

package gles_test

import (
	"testing"

	"github.com/Shinoby92/platform-external-qemu/core/assert"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/Shinoby92/platform-external-qemu/translator/gles"
)

func TestParseVersion(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		str    string
		expect gles.GLVersion
		bucket gles.Version
	}{
		{"OpenGL ES 2.0 (ANGLE 2.1.0)", gles.GLVersion{IsES: true, Major: 2, Minor: 0}, gles.Version2},
		{"OpenGL ES 3.1 Mesa 20.0", gles.GLVersion{IsES: true, Major: 3, Minor: 1}, gles.Version3},
		{"OpenGL ES-CM 1.1", gles.GLVersion{IsES: true, Major: 1, Minor: 1}, gles.Version1},
	} {
		got, err := gles.ParseVersion(test.str)
		assert.For(ctx, "ParseVersion(%q) err", test.str).ThatError(err).Succeeded()
		assert.For(ctx, "ParseVersion(%q)", test.str).That(got).Equals(test.expect)
		bucket, err := got.Bucket()
		assert.For(ctx, "Bucket(%q) err", test.str).ThatError(err).Succeeded()
		assert.For(ctx, "Bucket(%q)", test.str).That(bucket).Equals(test.bucket)
	}

	desktop, err := gles.ParseVersion("4.5.0 NVIDIA 460.32")
	assert.For(ctx, "desktop err").ThatError(err).Succeeded()
	_, err = desktop.Bucket()
	assert.For(ctx, "desktop bucket").ThatError(err).HasCause(gles.ErrInvalidValue)

	_, err = gles.ParseVersion("garbage")
	assert.For(ctx, "garbage").ThatError(err).Failed()
}

func TestVersionFor(t *testing.T) {
	ctx := log.Testing(t)
	v, err := gles.VersionFor(3)
	assert.For(ctx, "3").ThatError(err).Succeeded()
	assert.For(ctx, "3 bucket").That(v).Equals(gles.Version3)
	_, err = gles.VersionFor(4)
	assert.For(ctx, "4").ThatError(err).HasCause(gles.ErrInvalidValue)
}
