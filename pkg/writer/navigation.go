// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package writer

import (
	"fmt"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/routes"
)

// generateNavigation renders a module-level README for a directory that
// has subdirectories: files are grouped by suffix pattern, each file
// shows its key symbols only, and any routes the registry recognizes in
// this directory are appended as a table.
func (w *Writer) generateNavigation(dirPath string, results []*model.ParseResult, childDirs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", dirName(dirPath))

	totalSymbols := 0
	for _, r := range results {
		totalSymbols += len(r.Symbols)
	}
	fmt.Fprintf(&b, "**Files**: %d  \n", len(results))
	fmt.Fprintf(&b, "**Symbols**: %d\n\n", totalSymbols)

	if len(childDirs) > 0 {
		b.WriteString("## Subdirectories\n\n")
		for _, child := range childDirs {
			fmt.Fprintf(&b, "- [%s](%s/%s)\n", dirName(child), dirName(child), w.config.OutputFile)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Files\n\n")
	if w.config.GroupingEnabled {
		for _, group := range groupFiles(results, w.config.GroupingPatterns) {
			label := group.Pattern
			if label == "_ungrouped" {
				label = "Other"
			}
			fmt.Fprintf(&b, "### %s\n\n", label)
			writeFileSummaries(&b, group.Results, w.config)
		}
	} else {
		writeFileSummaries(&b, results, w.config)
	}

	ctx := routes.Context{CurrentDir: dirPath, ParseResults: results}
	for _, framework := range w.routes.ListFrameworks() {
		e, ok := w.routes.Get(framework)
		if !ok || !e.CanExtract(ctx) {
			continue
		}
		if table := formatRouteTable(e.ExtractRoutes(ctx), framework); table != "" {
			b.WriteString(table)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeFileSummaries(b *strings.Builder, results []*model.ParseResult, config Config) {
	for _, r := range sortedResultsByPath(results) {
		fmt.Fprintf(b, "- **%s**\n", baseFileName(r.Path))
		filtered := filterSymbols(r.Symbols, config.ExcludePatterns, config.IncludeVisibility)
		for _, sym := range getKeySymbols(filtered) {
			fmt.Fprintf(b, "  - %s\n", symbolMarker(sym))
		}
	}
	b.WriteString("\n")
}
