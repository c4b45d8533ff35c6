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

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Version is a GLES major version bucket. Object names are never shared
// between buckets, so every bucket has its own NameManager.
type Version uint8

const (
	Version1 Version = iota
	Version2
	Version3

	// MaxVersion is the number of version buckets.
	MaxVersion = int(iota)
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "GLES1"
	case Version2:
		return "GLES2"
	case Version3:
		return "GLES3"
	default:
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
}

// Valid returns true if v is one of the known buckets.
func (v Version) Valid() bool { return int(v) < MaxVersion }

// VersionFor returns the bucket for the client API major version, as passed
// in EGL_CONTEXT_CLIENT_VERSION.
func VersionFor(major int) (Version, error) {
	switch major {
	case 1:
		return Version1, nil
	case 2:
		return Version2, nil
	case 3:
		return Version3, nil
	default:
		return 0, errors.Wrapf(ErrInvalidValue, "unsupported GLES major version %d", major)
	}
}

// GLVersion represents the GL version major and minor numbers,
// and whether its flavour is ES, as opposed to Desktop GL.
type GLVersion struct {
	IsES  bool
	Major int
	Minor int
}

// AtLeast returns true if the version is greater or equal to major.minor.
func (v GLVersion) AtLeast(major, minor int) bool {
	if v.Major > major {
		return true
	}
	if v.Major < major {
		return false
	}
	return v.Minor >= minor
}

// Bucket returns the name space bucket an ES context of this version uses.
func (v GLVersion) Bucket() (Version, error) {
	if !v.IsES {
		return 0, errors.Wrapf(ErrInvalidValue, "%d.%d is not an OpenGL ES version", v.Major, v.Minor)
	}
	return VersionFor(v.Major)
}

var versionRe = regexp.MustCompile(`^(OpenGL ES.*? )?(\d+)\.(\d+).*`)

// ParseVersion parses the GL version major, minor and flavour from the output of glGetString(GL_VERSION).
func ParseVersion(str string) (GLVersion, error) {
	if match := versionRe.FindStringSubmatch(str); match != nil {
		isES := len(match[1]) > 0 // Desktop GL doesn't have a flavour prefix.
		major, _ := strconv.Atoi(match[2])
		minor, _ := strconv.Atoi(match[3])
		return GLVersion{IsES: isES, Major: major, Minor: minor}, nil
	}
	return GLVersion{}, errors.Errorf("Unknown GL_VERSION format: %s", str)
}
