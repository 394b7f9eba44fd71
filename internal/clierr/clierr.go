// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package clierr provides structured error handling for lilyc.
//
// It defines UserError, a type that carries structured error
// information — what went wrong, why, and how to fix it — along with
// the four exit codes lilyc's CLI surface uses.
//
// # Usage
//
//	err := clierr.NewUsageError(
//	    "unknown command \"buidl\"",
//	    "",
//	    "run 'lilyc --help' for a list of commands",
//	)
//	if err != nil {
//	    clierr.FatalError(err, false)
//	}
//
// # Exit codes
//
// The package mirrors the CLI's documented exit-code contract:
//   - ExitSuccess (0): successful build/run/test
//   - ExitCompile (1): compile failure (lexical/syntax/type errors)
//   - ExitUsage (2): CLI usage error (bad flags, unknown command)
//   - ExitInternal (10): an internal invariant was violated (a
//     compiler bug, not a user error — e.g. an `unreachable` MIR
//     instruction was actually reached)
package clierr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for lilyc's CLI surface.
const (
	// ExitSuccess indicates a successful build, run, or test.
	ExitSuccess = 0

	// ExitCompile indicates a compile failure: lexical, syntax, or
	// type errors reported against the input program.
	ExitCompile = 1

	// ExitUsage indicates a CLI usage error: bad flags, a missing
	// argument, or an unknown subcommand.
	ExitUsage = 2

	// ExitInternal indicates an internal invariant violation — a bug
	// in lilyc itself, not in the compiled program.
	ExitInternal = 10
)

// UserError represents an error with structured context for end
// users: what went wrong (Message), why (Cause), and how to fix it
// (Fix). It carries an exit code for consistent CLI exit behavior and
// optionally wraps an underlying error for errors.Is/As compatibility.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewCompileError creates a compile-failure error with exit code
// ExitCompile, for use when the diagnostic list itself (not a single
// UserError) isn't the right vehicle — e.g. a build that can't even
// reach the parser because the entry file doesn't exist.
//
// Example:
//
//	return clierr.NewCompileError(
//	    "cannot read entry file",
//	    "open main.lily: no such file or directory",
//	    "check the path passed to 'lilyc build'",
//	    err,
//	)
func NewCompileError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitCompile, Err: err}
}

// NewUsageError creates a CLI usage error with exit code ExitUsage.
// Usage errors typically do not wrap an underlying error.
//
// Example:
//
//	return clierr.NewUsageError(
//	    "--max-heap-capacity requires a size suffix",
//	    "got \"4096\", expected e.g. \"4096K\" or \"64M\"",
//	    "pass a size like 64M",
//	)
func NewUsageError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitUsage}
}

// NewInternalError creates an internal error with exit code
// ExitInternal. Use this for violated compiler invariants — a reached
// `unreachable` MIR instruction, a nil signature where the analyzer
// should have rejected the program earlier, and similar conditions
// that indicate a bug in lilyc rather than in the input program.
//
// Example:
//
//	return clierr.NewInternalError(
//	    "reached unreachable MIR instruction",
//	    fmt.Sprintf("block %d, instr %d", blockID, instrID),
//	    "this is a compiler bug, please report it with the input that triggered it",
//	    nil,
//	)
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display:
//
//	Error: cannot read entry file
//	Cause: open main.lily: no such file or directory
//	Fix:   check the path passed to 'lilyc build'
//
// Empty Cause or Fix fields are omitted. Color output respects
// NO_COLOR and can be explicitly disabled via noColor.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the JSON-serializable form of UserError, for --json
// output consumed by editors/LSP clients.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints err and exits with the appropriate code. If err
// is a *UserError its ExitCode is used; otherwise ExitInternal is
// assumed since an un-typed error escaping to this point means some
// stage failed to wrap it properly. Never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
