// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestRunError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RunError
		want string
	}{
		{
			name: "with underlying error",
			err:  &RunError{Message: "cannot open file", Err: fmt.Errorf("file locked")},
			want: "cannot open file: file locked",
		},
		{
			name: "without underlying error",
			err:  &RunError{Message: "invalid input"},
			want: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &RunError{Message: "test", Err: underlying}

	if err.Unwrap() != underlying {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlying)
	}
	if (&RunError{Message: "test"}).Unwrap() != nil {
		t.Error("Unwrap() of error with no Err should be nil")
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{DirectoryNotFound, ExitConfig},
		{NoConfigFound, ExitConfig},
		{InvalidPath, ExitConfig},
		{ParseError, ExitFailure},
		{Unknown, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			re := &RunError{Code: tt.code}
			if got := re.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() for %s = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	underlying := fmt.Errorf("underlying error")

	tests := []struct {
		name        string
		constructor func() *RunError
		wantCode    Code
		wantExit    int
	}{
		{"NewDirectoryNotFound", func() *RunError { return NewDirectoryNotFound("m", "d", underlying) }, DirectoryNotFound, ExitConfig},
		{"NewNoConfigFound", func() *RunError { return NewNoConfigFound("m", "d", nil) }, NoConfigFound, ExitConfig},
		{"NewInvalidPath", func() *RunError { return NewInvalidPath("m", "d", nil) }, InvalidPath, ExitConfig},
		{"NewParseError", func() *RunError { return NewParseError("m", "d", underlying) }, ParseError, ExitFailure},
		{"NewUnknown", func() *RunError { return NewUnknown("m", "d", underlying) }, Unknown, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.constructor()
			if got.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.ExitCode() != tt.wantExit {
				t.Errorf("ExitCode() = %d, want %d", got.ExitCode(), tt.wantExit)
			}
			if got.Message != "m" || got.Detail != "d" {
				t.Errorf("Message/Detail = %q/%q, want m/d", got.Message, got.Detail)
			}
		})
	}
}

func TestErrorChain(t *testing.T) {
	sentinel := fmt.Errorf("sentinel error")
	wrapped := fmt.Errorf("wrapped: %w", sentinel)
	runErr := NewParseError("parse error", "cause", wrapped)

	if !errors.Is(runErr, sentinel) {
		t.Error("errors.Is should find sentinel error in chain")
	}

	var target *RunError
	if !errors.As(runErr, &target) {
		t.Fatal("errors.As should extract RunError")
	}
	if target.Code != ParseError {
		t.Errorf("Code = %s, want %s", target.Code, ParseError)
	}
}

func TestRunError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *RunError
		want []string
	}{
		{
			name: "with detail",
			err:  &RunError{Message: "cannot scan repository", Detail: "permission denied"},
			want: []string{"Error: cannot scan repository", "Detail: permission denied"},
		},
		{
			name: "message only",
			err:  &RunError{Message: "something failed"},
			want: []string{"Error: something failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(true)
			for _, substr := range tt.want {
				if !strings.Contains(got, substr) {
					t.Errorf("Format() output missing %q\nGot: %s", substr, got)
				}
			}
		})
	}
}

func TestRunError_Format_NoColorEnv(t *testing.T) {
	oldNoColor := os.Getenv("NO_COLOR")
	defer func() {
		if oldNoColor != "" {
			os.Setenv("NO_COLOR", oldNoColor)
		} else {
			os.Unsetenv("NO_COLOR")
		}
	}()

	os.Setenv("NO_COLOR", "1")
	err := &RunError{Message: "test error", Detail: "test detail"}
	output := err.Format(false)

	if strings.Contains(output, "\x1b[") {
		t.Error("Format() output contains ANSI codes despite NO_COLOR being set")
	}
}

func TestRunError_JSON(t *testing.T) {
	err := &RunError{Code: InvalidPath, Message: "bad path", Detail: "outside scan root"}
	got := err.JSON()

	if got.Code != InvalidPath {
		t.Errorf("Code = %s, want %s", got.Code, InvalidPath)
	}
	if got.Message != "bad path" || got.Detail != "outside scan root" {
		t.Errorf("Message/Detail = %q/%q", got.Message, got.Detail)
	}
}

func TestFatalError_NilDoesNothing(t *testing.T) {
	FatalError(nil, false)
}
