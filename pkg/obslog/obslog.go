// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package obslog wraps log/slog with the repo's stock logging idiom: a
// text handler on stderr, structured key-value fields, dotted
// component.action event names, no custom formatter.
package obslog

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
)

// New builds a logger writing structured text records to stderr at the
// given level. When noColor is true (or NO_COLOR is set, or stderr
// isn't a terminal), color.NoColor already disables ANSI sequences in
// the handler's surrounding CLI output, so the handler itself stays
// plain: slog's text handler never emits color codes on its own.
func New(level slog.Level, noColor bool) *slog.Logger {
	if noColor {
		color.NoColor = true
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// LevelFor maps a verbosity count (e.g. repeated -v flags) to a slog
// level: 0 is Info, 1 is Debug, anything higher stays at Debug.
func LevelFor(verbosity int) slog.Level {
	if verbosity > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
