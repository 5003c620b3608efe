// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	codeerrors "github.com/kraklabs/codeindex/internal/errors"
	"github.com/kraklabs/codeindex/internal/output"
	"github.com/kraklabs/codeindex/internal/ui"
	"github.com/kraklabs/codeindex/pkg/config"
	"github.com/kraklabs/codeindex/pkg/engine"
	"github.com/kraklabs/codeindex/pkg/incremental"
	"github.com/kraklabs/codeindex/pkg/metrics"
	"github.com/kraklabs/codeindex/pkg/obslog"
)

// indexResult is the JSON result envelope emitted by `codeindex index --json`.
type indexResult struct {
	Success bool                  `json:"success"`
	Summary indexSummary          `json:"summary"`
	Error   *codeerrors.JSONError `json:"error,omitempty"`
}

type indexSummary struct {
	TotalFiles   int `json:"total_files"`
	TotalSymbols int `json:"total_symbols"`
	TotalImports int `json:"total_imports"`
	Errors       int `json:"errors"`
	DirsWritten  int `json:"dirs_written"`
}

func runIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a codeindex.yaml configuration file")
	languages := fs.String("languages", "", "Comma-separated languages to index (default: all supported)")
	exclude := fs.StringSlice("exclude", nil, "Additional exclude glob patterns")
	workers := fs.Int("workers", 0, "Parallel worker count (default: from config)")
	outputFile := fs.String("output", "", "README filename per directory (default: from config)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	since := fs.String("since", "", "Limit the run to directories changed since this git revision")
	until := fs.String("until", "HEAD", "End revision for --since (default: HEAD)")
	jsonOutput := fs.Bool("json", false, "Emit the JSON result envelope instead of human-readable output")
	quiet := fs.BoolP("quiet", "q", false, "Suppress progress output")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.CountP("verbose", "v", "Increase log verbosity")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codeindex index <path> [options]

Scans <path>, parses every matched source file, and writes a Markdown
README per indexed directory plus a repo-wide symbol index.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(codeerrors.ExitFailure)
	}

	globals := GlobalFlags{JSON: *jsonOutput, Quiet: *quiet, NoColor: *noColor, Verbose: *verbose}
	ui.InitColors(globals.NoColor)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(codeerrors.ExitFailure)
	}
	rootPath := fs.Arg(0)

	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		codeerrors.FatalError(codeerrors.NewDirectoryNotFound(
			fmt.Sprintf("cannot index %s", rootPath),
			"path does not exist or is not a directory",
			err,
		), globals.JSON)
	}

	logger := obslog.New(obslog.LevelFor(globals.Verbose), globals.NoColor)

	cfg, err := loadIndexConfig(*configPath)
	if err != nil {
		codeerrors.FatalError(err, globals.JSON)
	}
	if *languages != "" {
		cfg.Languages = strings.Split(*languages, ",")
	}
	if len(*exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, *exclude...)
	}
	if *workers > 0 {
		cfg.ParallelWorkers = *workers
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}

	if *since != "" {
		skip := applyIncrementalScope(rootPath, *since, *until, cfg, logger, globals)
		if skip {
			if globals.JSON {
				_ = output.JSON(indexResult{Success: true, Summary: indexSummary{}})
			} else if !globals.Quiet {
				ui.Info("no code changes since " + *since + "; nothing to index")
			}
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("index.shutdown.signal", "signal", sig.String())
		cancel()
	}()

	if *metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, *metricsAddr, logger); err != nil {
				logger.Warn("index.metrics.error", "err", err)
			}
		}()
	}

	spinner := NewSpinner(NewProgressConfig(globals), "Indexing "+rootPath)
	eng := engine.New(cfg, logger)

	start := time.Now()
	report, err := eng.Run(ctx, rootPath)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if err != nil {
		codeerrors.FatalError(codeerrors.NewParseError(
			"indexing failed",
			err.Error(),
			err,
		), globals.JSON)
	}

	if globals.JSON {
		_ = output.JSON(indexResult{
			Success: true,
			Summary: indexSummary{
				TotalFiles:   report.TotalFiles,
				TotalSymbols: report.TotalSymbols,
				TotalImports: report.TotalImports,
				Errors:       report.ParseErrors,
				DirsWritten:  report.DirsWritten,
			},
		})
		return
	}

	if !globals.Quiet {
		ui.Success(fmt.Sprintf("indexed %d files across %d directories in %s",
			report.TotalFiles, report.DirsWritten, time.Since(start).Round(time.Millisecond)))
		fmt.Printf("  %s %s\n", ui.Label("Symbols:"), ui.CountText(report.TotalSymbols))
		fmt.Printf("  %s %s\n", ui.Label("Imports:"), ui.CountText(report.TotalImports))
		if report.ParseErrors > 0 {
			ui.Warning(fmt.Sprintf("%d files failed to parse", report.ParseErrors))
		}
		if report.TechDebt.AverageQualityScore > 0 {
			fmt.Printf("  %s %.1f\n", ui.Label("Avg quality score:"), report.TechDebt.AverageQualityScore)
		}
	}
}

func loadIndexConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}

// applyIncrementalScope narrows cfg.Include to the directories affected by
// changes between since and until, using the repository's own git history.
// It returns true when AnalyzeChanges recommends skipping the run entirely.
func applyIncrementalScope(rootPath, since, until string, cfg *config.Config, logger *slog.Logger, globals GlobalFlags) bool {
	reader, err := incremental.NewGitChangeReader(rootPath)
	if err != nil {
		logger.Warn("index.incremental.git_error", "err", err)
		return false
	}
	changes, err := reader.Changes(since, until)
	if err != nil {
		logger.Warn("index.incremental.diff_error", "err", err)
		return false
	}

	thresholds := incremental.Thresholds{
		SkipLines:   cfg.Incremental.SkipLines,
		CurrentOnly: cfg.Incremental.CurrentOnly,
		SuggestFull: cfg.Incremental.SuggestFull,
	}
	analysis := incremental.AnalyzeChanges(changes, cfg.Languages, thresholds)

	switch analysis.Level {
	case incremental.LevelSkip:
		return true
	case incremental.LevelCurrent, incremental.LevelAffected:
		cfg.Include = analysis.AffectedDirs
		if !globals.Quiet && !globals.JSON {
			ui.Info(fmt.Sprintf("%s (%d dirs, %d changed lines)", analysis.Message, len(analysis.AffectedDirs), analysis.TotalLines()))
		}
	case incremental.LevelFull:
		if !globals.Quiet && !globals.JSON {
			ui.Warning(analysis.Message)
		}
	}
	return false
}
