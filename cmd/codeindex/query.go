// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	codeerrors "github.com/kraklabs/codeindex/internal/errors"
	"github.com/kraklabs/codeindex/internal/output"
	"github.com/kraklabs/codeindex/pkg/engine"
	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/obslog"
)

// queryResult is the JSON envelope written to stdout: results and a
// summary on success, with an additional error object on failure.
type queryResult struct {
	Success bool                  `json:"success"`
	Results []*model.ParseResult  `json:"results"`
	Summary querySummary          `json:"summary"`
	Error   *codeerrors.JSONError `json:"error,omitempty"`
}

type querySummary struct {
	TotalFiles   int `json:"total_files"`
	TotalSymbols int `json:"total_symbols"`
	TotalImports int `json:"total_imports"`
	Errors       int `json:"errors"`
}

func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a codeindex.yaml configuration file")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	quiet := fs.BoolP("quiet", "q", false, "Suppress non-JSON status output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codeindex query <path> [options]

Parses <path> (a single source file, or a directory to scan) and writes
the JSON parse contract to stdout. Writes nothing to disk.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(codeerrors.ExitFailure)
	}

	globals := GlobalFlags{JSON: true, Quiet: *quiet, NoColor: *noColor}

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(codeerrors.ExitFailure)
	}
	path := fs.Arg(0)

	if _, err := os.Stat(path); err != nil {
		emitQueryError(codeerrors.NewDirectoryNotFound(
			fmt.Sprintf("cannot query %s", path),
			"path does not exist",
			err,
		))
		return
	}

	logger := obslog.New(obslog.LevelFor(0), globals.NoColor)

	cfg, err := loadIndexConfig(*configPath)
	if err != nil {
		emitQueryError(err)
		return
	}

	eng := engine.New(cfg, logger)
	result, err := eng.Query(context.Background(), path)
	if err != nil {
		emitQueryError(codeerrors.NewParseError("query failed", err.Error(), err))
		return
	}

	_ = output.JSON(queryResult{
		Success: true,
		Results: result.Results,
		Summary: querySummary{
			TotalFiles:   result.TotalFiles,
			TotalSymbols: result.TotalSymbols,
			TotalImports: result.TotalImports,
			Errors:       result.ParseErrors,
		},
	})
}

func emitQueryError(err error) {
	envelope := queryResult{Success: false, Results: []*model.ParseResult{}}
	exitCode := codeerrors.ExitFailure
	if re, ok := err.(*codeerrors.RunError); ok {
		je := re.JSON()
		envelope.Error = &je
		exitCode = re.ExitCode()
	} else {
		je := codeerrors.NewUnknown("query failed", err.Error(), err).JSON()
		envelope.Error = &je
	}
	_ = output.JSON(envelope)
	os.Exit(exitCode)
}
