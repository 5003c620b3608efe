// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package writer renders per-directory Markdown documentation at the
// level dirtree assigns that directory (overview/navigation/detailed),
// under a hard size cap, and writes it to disk as README_AI.md.
package writer

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/kraklabs/codeindex/pkg/dirtree"
	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/routes"
	"github.com/kraklabs/codeindex/pkg/selector"
)

// Config controls grouping, filtering, and size-capping behavior shared
// across all three generators.
type Config struct {
	MaxReadmeSize     int
	OutputFile        string
	GroupingEnabled   bool
	GroupingPatterns  []string
	ExcludePatterns   []string
	IncludeVisibility []string
}

// DefaultConfig mirrors the stock indexing configuration: a 50 KB cap,
// README_AI.md output, and a grouping pass over the common MVC suffixes.
func DefaultConfig() Config {
	return Config{
		MaxReadmeSize:    50 * 1024,
		OutputFile:       "README_AI.md",
		GroupingEnabled:  true,
		GroupingPatterns: []string{"Controller", "Service", "Model", "Repository"},
	}
}

// WriteResult reports the outcome of writing one directory's README.
type WriteResult struct {
	Path      string
	Success   bool
	Error     string
	SizeBytes int
	Truncated bool
}

// Writer dispatches to a level-specific generator and handles truncation
// and file I/O.
type Writer struct {
	config   Config
	selector *selector.Selector
	routes   *routes.Registry
}

// New builds a Writer. sel and reg may be nil to fall back to their
// package defaults / an empty registry respectively.
func New(config Config, sel *selector.Selector, reg *routes.Registry) *Writer {
	if sel == nil {
		sel = selector.New()
	}
	if reg == nil {
		reg = routes.NewRegistry()
	}
	return &Writer{config: config, selector: sel, routes: reg}
}

// Generate produces the Markdown content for dirPath at level, without
// touching the filesystem beyond reading childDirs' already-written
// READMEs (they are read, never written, by Generate).
func (w *Writer) Generate(dirPath string, results []*model.ParseResult, level dirtree.Level, childDirs []string) string {
	switch level {
	case dirtree.LevelOverview:
		return w.generateOverview(dirPath, results, childDirs)
	case dirtree.LevelNavigation:
		return w.generateNavigation(dirPath, results, childDirs)
	default:
		return w.generateDetailed(dirPath, results, childDirs)
	}
}

// WriteReadme generates dirPath's README content, truncates it if it
// exceeds the configured size cap, and writes it to
// dirPath/config.OutputFile.
func (w *Writer) WriteReadme(dirPath string, results []*model.ParseResult, level dirtree.Level, childDirs []string) WriteResult {
	outputPath := filepath.Join(dirPath, w.config.OutputFile)

	content := w.Generate(dirPath, results, level, childDirs)

	truncated := false
	if len([]byte(content)) > w.config.MaxReadmeSize {
		content, truncated = truncateContent(content, w.config.MaxReadmeSize)
	}
	data := []byte(content)

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return WriteResult{Path: outputPath, Success: false, Error: err.Error()}
	}
	return WriteResult{Path: outputPath, Success: true, SizeBytes: len(data), Truncated: truncated}
}

func dirName(dirPath string) string {
	name := filepath.Base(dirPath)
	if name == "." || name == "" {
		return "."
	}
	return name
}

func sortedResultsByPath(results []*model.ParseResult) []*model.ParseResult {
	out := make([]*model.ParseResult, len(results))
	copy(out, results)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
