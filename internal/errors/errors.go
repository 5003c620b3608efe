// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the codeindex engine
// and its CLI front-end.
//
// It defines RunError, a type that carries one of a closed set of error
// codes matching the JSON error contract the engine exposes on stdout, plus
// a human message and an optional detail string. RunError.ExitCode collapses
// that code set down to the two non-zero process exit codes the interface
// allows: configuration/setup problems exit 2, everything else that reaches
// this type exits 1. Per-file parse errors never become a RunError; they are
// attached to the file's own result and never change the process exit code.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Code identifies the category of a RunError. The values match the error
// codes in the engine's JSON output contract one-to-one.
type Code string

const (
	DirectoryNotFound Code = "DIRECTORY_NOT_FOUND"
	NoConfigFound      Code = "NO_CONFIG_FOUND"
	InvalidPath        Code = "INVALID_PATH"
	ParseError         Code = "PARSE_ERROR"
	Unknown            Code = "UNKNOWN_ERROR"
)

// Process exit codes. Only two non-zero values are ever returned to the
// shell; ExitSuccess is used solely for documentation of the zero case.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// RunError represents a fatal, run-level error: something that stops the
// whole invocation rather than disabling a single file's results.
type RunError struct {
	Code   Code
	Message string
	Detail  string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RunError) Unwrap() error { return e.Err }

// ExitCode maps the error's Code onto the process exit-code contract:
// directory/config/path problems are setup errors (exit 2); parse and
// unknown errors are generic run failures (exit 1).
func (e *RunError) ExitCode() int {
	switch e.Code {
	case DirectoryNotFound, NoConfigFound, InvalidPath:
		return ExitConfig
	default:
		return ExitFailure
	}
}

// NewDirectoryNotFound reports a scan root that does not exist or is not a directory.
func NewDirectoryNotFound(msg, detail string, err error) *RunError {
	return &RunError{Code: DirectoryNotFound, Message: msg, Detail: detail, Err: err}
}

// NewNoConfigFound reports a missing configuration file.
func NewNoConfigFound(msg, detail string, err error) *RunError {
	return &RunError{Code: NoConfigFound, Message: msg, Detail: detail, Err: err}
}

// NewInvalidPath reports a path that fails validation (traversal, sensitive
// directory, malformed value).
func NewInvalidPath(msg, detail string, err error) *RunError {
	return &RunError{Code: InvalidPath, Message: msg, Detail: detail, Err: err}
}

// NewParseError reports a run-level parse failure (not a per-file one).
func NewParseError(msg, detail string, err error) *RunError {
	return &RunError{Code: ParseError, Message: msg, Detail: detail, Err: err}
}

// NewUnknown wraps any other fatal error.
func NewUnknown(msg, detail string, err error) *RunError {
	return &RunError{Code: Unknown, Message: msg, Detail: detail, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorDetail = color.New(color.FgYellow)
)

// Format renders the error for terminal display, respecting NO_COLOR.
func (e *RunError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Detail != "" {
		out.WriteString(colorDetail.Sprint("Detail: "))
		out.WriteString(e.Detail)
		out.WriteString("\n")
	}

	return out.String()
}

// JSONError is the §6 JSON error envelope shape.
type JSONError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// JSON converts the RunError into its envelope form.
func (e *RunError) JSON() JSONError {
	return JSONError{Code: e.Code, Message: e.Message, Detail: e.Detail}
}

// FatalError prints the error and exits with the appropriate code. It never
// returns. Non-RunError values are treated as unknown failures (exit 1).
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if re, ok := err.(*RunError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(re.JSON())
		} else {
			fmt.Fprint(os.Stderr, re.Format(false))
		}
		os.Exit(re.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitFailure)
}
