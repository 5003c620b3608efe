// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package engine wires the scanner, language parsers, directory tree,
// tech-debt detector, symbol scorer, route registry, adaptive selector,
// and writer into a single run: scan a repository root, parse every
// matched file, walk the directory tree bottom-up, and write a Markdown
// README per directory plus one repo-wide symbol index.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/codeindex/pkg/config"
	"github.com/kraklabs/codeindex/pkg/dirtree"
	"github.com/kraklabs/codeindex/pkg/metrics"
	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/parse"
	"github.com/kraklabs/codeindex/pkg/routes"
	"github.com/kraklabs/codeindex/pkg/scanner"
	"github.com/kraklabs/codeindex/pkg/selector"
	"github.com/kraklabs/codeindex/pkg/symbolindex"
	"github.com/kraklabs/codeindex/pkg/techdebt"
	"github.com/kraklabs/codeindex/pkg/treesitter"
	"github.com/kraklabs/codeindex/pkg/writer"
)

// SymbolIndexFile is the default name of the repo-wide symbol index,
// written at the scan root alongside the per-directory READMEs.
const SymbolIndexFile = "PROJECT_SYMBOLS.md"

// Report aggregates the outcome of a single Run.
type Report struct {
	RootPath     string
	TotalFiles   int
	TotalSymbols int
	TotalImports int
	ParseErrors  int
	DirsWritten  int
	WriteResults []writer.WriteResult
	TechDebt     techdebt.Report
	Duration     time.Duration
}

// Engine holds every component C1-C11 wires together, all built once at
// startup and shared read-only across the run's goroutines.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	adapter  *treesitter.Adapter
	parsers  *parse.Registry
	routeReg *routes.Registry
	sel      *selector.Selector
	wr       *writer.Writer
}

// New builds an Engine from a loaded configuration. logger may be nil,
// in which case slog.Default() is used.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	adapter := treesitter.New()
	parsers := parse.NewRegistry(adapter)

	routeReg := routes.NewRegistry()
	if cfg.Routes.ThinkPHP {
		routeReg.Register(routes.ThinkPHPExtractor{})
	}
	if cfg.Routes.Spring {
		routeReg.Register(routes.SpringExtractor{})
	}

	sel := selector.New()
	sel.Thresholds = selector.Thresholds{
		Tiny:   cfg.Indexing.AdaptiveTiny,
		Small:  cfg.Indexing.AdaptiveSmall,
		Medium: cfg.Indexing.AdaptiveMedium,
		Large:  cfg.Indexing.AdaptiveLarge,
		XLarge: cfg.Indexing.AdaptiveXLarge,
		Huge:   cfg.Indexing.AdaptiveHuge,
	}
	sel.MinSymbols = cfg.Indexing.MinSymbols
	sel.MaxSymbols = cfg.Indexing.MaxSymbols

	wcfg := writer.DefaultConfig()
	wcfg.MaxReadmeSize = cfg.Indexing.MaxReadmeSize
	wcfg.OutputFile = cfg.OutputFile
	wcfg.GroupingPatterns = cfg.Indexing.GroupingPatterns
	wcfg.ExcludePatterns = cfg.Exclude

	wr := writer.New(wcfg, sel, routeReg)

	return &Engine{
		cfg:      cfg,
		logger:   logger,
		adapter:  adapter,
		parsers:  parsers,
		routeReg: routeReg,
		sel:      sel,
		wr:       wr,
	}
}

// Run scans rootPath, parses every matched file, and writes a README per
// indexed directory plus the repo-wide symbol index. It returns as soon
// as the context is canceled between files or directories; anything
// already written to disk is left in place.
func (e *Engine) Run(ctx context.Context, rootPath string) (*Report, error) {
	start := time.Now()

	scan := scanner.New(e.logger, e.cfg.Include, e.cfg.Exclude, e.cfg.Languages)
	scanResult, err := scan.Scan(rootPath)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rootPath, err)
	}
	for range scanResult.Files {
		metrics.RecordFileScanned()
	}

	tree := dirtree.Build(scanResult.Dirs, scanResult.DirsWithFiles)

	byDir := map[string][]*model.ParseResult{}
	if err := e.parseAll(ctx, rootPath, scanResult.Files, byDir); err != nil {
		return nil, err
	}

	report := &Report{RootPath: rootPath}
	var debts []techdebt.FileDebt
	for _, results := range byDir {
		for _, r := range results {
			report.TotalFiles++
			report.TotalSymbols += len(r.Symbols)
			report.TotalImports += len(r.Imports)
			if r.Error != nil {
				report.ParseErrors++
				continue
			}
			debts = append(debts, techdebt.AnalyzeFile(r))
		}
	}
	report.TechDebt = techdebt.BuildReport(debts)

	order := tree.ProcessingOrder()
	results, err := e.writeByLevel(ctx, rootPath, order, tree, byDir)
	if err != nil {
		return nil, err
	}
	report.WriteResults = results
	for _, wres := range results {
		if wres.Success {
			report.DirsWritten++
			metrics.RecordDirWritten()
			metrics.RecordBytesWritten(wres.SizeBytes)
		}
		if wres.Truncated {
			metrics.RecordTruncatedWrite()
		}
	}

	if err := e.writeSymbolIndex(rootPath, byDir); err != nil {
		e.logger.Warn("engine.symbolindex.write_error", "err", err)
	}

	report.Duration = time.Since(start)
	metrics.ObserveRunDuration(report.Duration.Seconds())
	return report, nil
}

// parseAll parses every scanned file with a bounded worker pool and
// groups the results by their containing directory.
func (e *Engine) parseAll(ctx context.Context, rootPath string, files []scanner.File, byDir map[string][]*model.ParseResult) error {
	type outcome struct {
		dir    string
		result *model.ParseResult
	}

	outcomes := make([]outcome, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.ParallelWorkers)

	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			result := e.parseOne(egCtx, f)
			outcomes[i] = outcome{dir: filepath.ToSlash(filepath.Dir(f.Path)), result: result}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("parse %s: %w", rootPath, err)
	}

	for _, o := range outcomes {
		if o.result == nil {
			continue
		}
		byDir[o.dir] = append(byDir[o.dir], o.result)
	}
	return nil
}

// parseOne reads and parses a single file, never returning nil: a read
// failure or an unsupported extension still yields a ParseResult with
// Error set so size-based classifiers downstream keep working.
func (e *Engine) parseOne(ctx context.Context, f scanner.File) *model.ParseResult {
	ext := strings.ToLower(filepath.Ext(f.Path))
	p, ok := e.parsers.ForExtension(ext)
	if !ok {
		e.logger.Warn("engine.parse.unsupported", "path", f.Path)
		return &model.ParseResult{Path: f.Path, Language: f.Language, Error: model.StrPtr("unsupported_language")}
	}

	source, err := os.ReadFile(f.FullPath)
	if err != nil {
		e.logger.Warn("engine.parse.read_error", "path", f.Path, "err", err)
		metrics.RecordParseError()
		return &model.ParseResult{Path: f.Path, Language: f.Language, Error: model.StrPtr("io_error")}
	}

	parseStart := time.Now()
	result := p.Parse(ctx, f.Path, source)
	metrics.ObserveParseDuration(time.Since(parseStart).Seconds())

	if result.Error != nil {
		e.logger.Warn("engine.parse.error", "path", f.Path, "err", *result.Error)
		metrics.RecordParseError()
	} else {
		metrics.RecordFileParsed()
	}
	return result
}

// writeByLevel writes a README for every directory in order (already
// bottom-up), so a parent directory's overview/navigation generation can
// read its children's just-written READMEs. dirtree paths are relative
// to rootPath; every path handed to the writer is resolved to a real
// filesystem path first, since the writer reads children's READMEs
// straight off disk.
func (e *Engine) writeByLevel(ctx context.Context, rootPath string, order []string, tree *dirtree.Tree, byDir map[string][]*model.ParseResult) ([]writer.WriteResult, error) {
	levels := map[dirtree.Level][]string{}
	for _, dir := range order {
		lvl := tree.Level(dir)
		levels[lvl] = append(levels[lvl], dir)
	}

	var results []writer.WriteResult
	for _, lvl := range []dirtree.Level{dirtree.LevelDetailed, dirtree.LevelNavigation, dirtree.LevelOverview} {
		dirsAtLevel := onlyInOrder(order, levels[lvl])
		for _, dir := range dirsAtLevel {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("write %s: %w", rootPath, err)
			}
			children := tree.Children(dir)
			fsChildren := make([]string, len(children))
			for i, c := range children {
				fsChildren[i] = filepath.Join(rootPath, c)
			}

			writeStart := time.Now()
			wres := e.wr.WriteReadme(filepath.Join(rootPath, dir), byDir[dir], lvl, fsChildren)
			metrics.ObserveWriteDuration(time.Since(writeStart).Seconds())
			if !wres.Success {
				e.logger.Warn("engine.write.error", "dir", dir, "err", wres.Error)
			}
			results = append(results, wres)
		}
	}
	return results, nil
}

// onlyInOrder filters order down to the dirs present in the set, while
// preserving order's original bottom-up-by-depth sequence.
func onlyInOrder(order, dirs []string) []string {
	set := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		set[d] = true
	}
	out := make([]string, 0, len(dirs))
	for _, d := range order {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

// QueryResult is the outcome of Query: every parsed file plus the
// aggregate counts the JSON contract's summary object needs.
type QueryResult struct {
	Results      []*model.ParseResult
	TotalFiles   int
	TotalSymbols int
	TotalImports int
	ParseErrors  int
}

// Query parses path and returns its ParseResults without writing any
// Markdown. If path is a single file, only that file is parsed; if it is
// a directory, it is scanned and parsed exactly as Run would, minus the
// README/symbol-index write stage.
func (e *Engine) Query(ctx context.Context, path string) (*QueryResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		ext := strings.ToLower(filepath.Ext(path))
		lang := ""
		if p, ok := e.parsers.ForExtension(ext); ok {
			lang = p.Language()
		}
		result := e.parseOne(ctx, scanner.File{Path: path, FullPath: path, Language: lang})
		return summarizeResults([]*model.ParseResult{result}), nil
	}

	scan := scanner.New(e.logger, e.cfg.Include, e.cfg.Exclude, e.cfg.Languages)
	scanResult, err := scan.Scan(path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	byDir := map[string][]*model.ParseResult{}
	if err := e.parseAll(ctx, path, scanResult.Files, byDir); err != nil {
		return nil, err
	}

	var all []*model.ParseResult
	for _, results := range byDir {
		all = append(all, results...)
	}
	return summarizeResults(all), nil
}

func summarizeResults(results []*model.ParseResult) *QueryResult {
	qr := &QueryResult{Results: results}
	for _, r := range results {
		qr.TotalFiles++
		qr.TotalSymbols += len(r.Symbols)
		qr.TotalImports += len(r.Imports)
		if r.Error != nil {
			qr.ParseErrors++
		}
	}
	return qr
}

// writeSymbolIndex collects every parsed result across the whole repo
// and renders the repo-wide PROJECT_SYMBOLS.md at rootPath.
func (e *Engine) writeSymbolIndex(rootPath string, byDir map[string][]*model.ParseResult) error {
	var all []*model.ParseResult
	for _, results := range byDir {
		all = append(all, results...)
	}
	return symbolindex.Write(filepath.Join(rootPath, SymbolIndexFile), all)
}
