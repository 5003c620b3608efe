// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package writer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/routes"
	"github.com/kraklabs/codeindex/pkg/scorer"
)

// generateDetailed renders a leaf-level README: every file gets full
// symbol detail (signature, first docstring line, start line), trimmed to the
// adaptive per-file limit selected by file size and symbol count, with
// the highest-scoring symbols kept. Inheritance edges and any recognized
// routes are summarized at the end.
func (w *Writer) generateDetailed(dirPath string, results []*model.ParseResult, childDirs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", dirName(dirPath))

	totalSymbols := 0
	for _, r := range results {
		totalSymbols += len(r.Symbols)
	}
	fmt.Fprintf(&b, "**Files**: %d  \n", len(results))
	fmt.Fprintf(&b, "**Symbols**: %d\n\n", totalSymbols)

	for _, r := range sortedResultsByPath(results) {
		writeFileDetail(&b, r, w.config, w.selector)
	}

	var allInheritances []model.Inheritance
	for _, r := range results {
		allInheritances = append(allInheritances, r.Inheritances...)
	}
	if len(allInheritances) > 0 {
		b.WriteString("## Inheritance\n\n")
		for _, inh := range allInheritances {
			fmt.Fprintf(&b, "- `%s` extends/implements `%s`\n", inh.Child, inh.Parent)
		}
		b.WriteString("\n")
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

func writeFileDetail(b *strings.Builder, r *model.ParseResult, config Config, sel selectorLimiter) {
	fmt.Fprintf(b, "## %s\n\n", baseFileName(r.Path))
	if r.Error != nil {
		fmt.Fprintf(b, "_Parse error: %s_\n\n", *r.Error)
		return
	}
	if r.ModuleDocstring != "" {
		fmt.Fprintf(b, "%s\n\n", r.ModuleDocstring)
	}

	filtered := filterSymbols(r.Symbols, config.ExcludePatterns, config.IncludeVisibility)
	kept := selectTopSymbols(filtered, r.FileLines, sel)

	for _, sym := range kept {
		fmt.Fprintf(b, "- %s `%s` (line %d)\n", sym.Kind, sym.Signature, sym.LineStart)
		if sym.Docstring != "" {
			fmt.Fprintf(b, "  %s\n", firstLine(sym.Docstring))
		}
	}
	b.WriteString("\n")
}

// selectTopSymbols applies the adaptive per-file symbol limit, keeping
// the highest-scoring symbols and restoring source order for display.
func selectTopSymbols(symbols []model.Symbol, fileLines int, sel selectorLimiter) []model.Symbol {
	limit := sel.CalculateLimit(fileLines, len(symbols))
	if limit >= len(symbols) {
		return sortByLine(symbols)
	}

	scored := make([]model.Symbol, len(symbols))
	copy(scored, symbols)
	sort.SliceStable(scored, func(i, j int) bool {
		return scorer.Score(scored[i]) > scorer.Score(scored[j])
	})
	kept := scored[:limit]
	return sortByLine(kept)
}

func sortByLine(symbols []model.Symbol) []model.Symbol {
	out := make([]model.Symbol, len(symbols))
	copy(out, symbols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineStart < out[j].LineStart })
	return out
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// selectorLimiter is the narrow surface detailed.go needs from
// selector.Selector.
type selectorLimiter interface {
	CalculateLimit(fileLines, totalSymbols int) int
}
