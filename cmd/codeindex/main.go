// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package main implements the codeindex CLI: a tree-sitter-based static
// analysis and documentation engine for multi-language repositories.
//
// Usage:
//
//	codeindex index <path> [options]   Index a repository, writing Markdown
//	codeindex query <path> [options]   Emit the JSON contract for one file
//	                                    or a whole scan
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	codeerrors "github.com/kraklabs/codeindex/internal/errors"
	"github.com/kraklabs/codeindex/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// GlobalFlags carries the flags every subcommand reads regardless of which
// one was invoked.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	NoColor bool
	Verbose int
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `codeindex - tree-sitter code indexing and documentation engine

Usage:
  codeindex <command> [options]

Commands:
  index   Index a repository and write README_AI.md files plus a symbol index
  query   Emit the JSON parse contract for a file or a whole scan

Global Options:
  --version   Show version and exit

Run 'codeindex <command> --help' for command-specific options.
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("codeindex version %s (commit %s)\n", version, commit)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(codeerrors.ExitFailure)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "index":
		runIndex(cmdArgs)
	case "query":
		runQuery(cmdArgs)
	default:
		ui.Error(fmt.Sprintf("unknown command: %s", command))
		flag.Usage()
		os.Exit(codeerrors.ExitFailure)
	}
}
