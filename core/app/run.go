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

// Package app provides the start up and verb dispatch shared by the command
// line tools.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Shinoby92/platform-external-qemu/core/fault"
	"github.com/Shinoby92/platform-external-qemu/core/log"
	"github.com/pkg/errors"
)

// Task is the main function of an application.
type Task func(ctx context.Context) error

// ExitCode is the process exit status. Panicking with an ExitCode inside Run
// exits with that status.
type ExitCode int

const (
	// SuccessExit is the exit code for success.
	SuccessExit = ExitCode(0)
	// FatalExit is the exit code when the main task fails.
	FatalExit = ExitCode(1)
	// UsageExit is the exit code for a bad command line.
	UsageExit = ExitCode(2)

	// ErrUsage is the cause of errors caused by a bad command line. Run
	// prints the usage when the main task fails with it.
	ErrUsage = fault.Const("bad command line")
)

var (
	// Name is the name of the application.
	Name = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
	// ShortHelp is printed at the top of the usage text.
	ShortHelp = ""
	// ShortUsage is usage text for the additional non-flag arguments.
	ShortUsage = ""
	// Version is reported by the -version flag if it is valid.
	Version VersionSpec
	// ExitFuncForTesting is called to exit the process. It defaults to
	// os.Exit.
	ExitFuncForTesting = os.Exit
	// Stdout is where verbs write their results.
	Stdout io.Writer = os.Stdout
	// Stderr is where the usage is written.
	Stderr io.Writer = os.Stderr
)

// VersionSpec is the version of an application.
type VersionSpec struct {
	// Major version, the version structure is invalid if <0.
	Major int
	// Minor version, not used if <0.
	Minor int
	// Point version, not used if <0.
	Point int
	// The build identifier, not used if an empty string.
	Build string
}

// IsValid reports true if the VersionSpec has a Major version.
func (v VersionSpec) IsValid() bool {
	return v.Major >= 0
}

// Format implements fmt.Formatter to print the version.
func (v VersionSpec) Format(f fmt.State, c rune) {
	fmt.Fprint(f, v.Major)
	if v.Minor >= 0 {
		fmt.Fprint(f, ".", v.Minor)
	}
	if v.Point >= 0 {
		fmt.Fprint(f, ".", v.Point)
	}
	if v.Build != "" {
		fmt.Fprint(f, ":", v.Build)
	}
}

// AppFlags are the flags every application accepts.
type AppFlags struct {
	Log      LogFlags
	Version  bool `help:"Print the version and exit"`
	FullHelp bool `name:"fullhelp" help:"_Print the full help"`
}

// Run parses the command line, builds the root context, which is cancelled
// on SIGINT or SIGTERM, and runs main. It exits the process with UsageExit
// on a bad command line and FatalExit if main fails.
func Run(main Task) {
	defer func() {
		switch cause := recover().(type) {
		case nil:
		case ExitCode:
			ExitFuncForTesting(int(cause))
		default:
			panic(cause)
		}
	}()
	flags := &AppFlags{Log: logDefaults()}
	prepareVerbs(flags)
	if err := globalVerbs.Flags.Parse(os.Args[1:]...); err != nil {
		Usage(err.Error())
	}
	if flags.Version && Version.IsValid() {
		fmt.Fprint(Stdout, Name, " version ", Version, "\n")
		return
	}
	if flags.FullHelp {
		writeUsage(Stderr, &globalVerbs, "", true)
		return
	}

	ctx, closeLog := prepareContext(&flags.Log)
	defer closeLog()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := main(ctx)
	switch {
	case err == nil:
	case errors.Cause(err) == ErrUsage:
		Usage(err.Error())
	default:
		log.E(ctx, "Main failed\nError: %v", err)
		panic(FatalExit)
	}
}
