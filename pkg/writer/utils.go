// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/routes"
)

// fileGroup is one bucket of a groupFiles pass: a suffix pattern (e.g.
// "Controller") plus the results whose base name carries it.
type fileGroup struct {
	Pattern string
	Results []*model.ParseResult
}

// groupFiles buckets results by filename suffix pattern, preserving
// pattern order, with unmatched files collected into a trailing
// "_ungrouped" bucket.
func groupFiles(results []*model.ParseResult, patterns []string) []fileGroup {
	buckets := make(map[string][]*model.ParseResult, len(patterns)+1)
	order := make([]string, 0, len(patterns)+1)

	for _, r := range sortedResultsByPath(results) {
		stem := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		matched := ""
		for _, p := range patterns {
			if strings.HasSuffix(stem, p) {
				matched = p
				break
			}
		}
		if matched == "" {
			matched = "_ungrouped"
		}
		if _, seen := buckets[matched]; !seen {
			order = append(order, matched)
		}
		buckets[matched] = append(buckets[matched], r)
	}

	// Emit in pattern-declaration order first, "_ungrouped" last.
	groups := make([]fileGroup, 0, len(order))
	for _, p := range patterns {
		if rs, ok := buckets[p]; ok {
			groups = append(groups, fileGroup{Pattern: p, Results: rs})
		}
	}
	if rs, ok := buckets["_ungrouped"]; ok {
		groups = append(groups, fileGroup{Pattern: "_ungrouped", Results: rs})
	}
	return groups
}

// matchesGlob is a small fnmatch-style matcher supporting '*' and '?'.
func matchesGlob(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

func baseFileName(p string) string {
	return filepath.Base(p)
}

func baseSymbolName(name string) string {
	if idx := strings.LastIndexAny(name, ".:"); idx >= 0 {
		return strings.TrimLeft(name[idx+1:], ":")
	}
	return name
}

// filterSymbols drops symbols matching any exclude pattern, then applies
// visibility filtering if includeVisibility names at least one keyword
// that actually appears in the symbol's signature vocabulary.
func filterSymbols(symbols []model.Symbol, excludePatterns, includeVisibility []string) []model.Symbol {
	out := make([]model.Symbol, 0, len(symbols))
	for _, sym := range symbols {
		base := baseSymbolName(sym.Name)
		excluded := false
		for _, pat := range excludePatterns {
			if matchesGlob(pat, base) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if len(includeVisibility) > 0 && hasVisibilityKeyword(sym.Signature) {
			visible := false
			for _, v := range includeVisibility {
				if strings.Contains(sym.Signature, v) {
					visible = true
					break
				}
			}
			if !visible {
				continue
			}
		}
		out = append(out, sym)
	}
	return out
}

var visibilityKeywords = []string{"public", "protected", "private"}

func hasVisibilityKeyword(signature string) bool {
	for _, kw := range visibilityKeywords {
		if strings.Contains(signature, kw) {
			return true
		}
	}
	return false
}

// getKeySymbols returns classes first, then public functions/methods,
// capped at 5 entries total.
func getKeySymbols(symbols []model.Symbol) []model.Symbol {
	const maxKeySymbols = 5
	var classes, funcs []model.Symbol
	for _, sym := range symbols {
		switch sym.Kind {
		case model.KindClass, model.KindInterface, model.KindEnum, model.KindRecord:
			classes = append(classes, sym)
		case model.KindFunction, model.KindMethod, model.KindConstructor:
			if isPrivateName(baseSymbolName(sym.Name)) {
				continue
			}
			funcs = append(funcs, sym)
		}
	}
	out := append(classes, funcs...)
	if len(out) > maxKeySymbols {
		out = out[:maxKeySymbols]
	}
	return out
}

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "_")
}

// symbolMarker formats one symbol as a kind/name marker line that
// extractModuleDescription and collectTopSymbols can regex back out of an
// already-written README.
func symbolMarker(sym model.Symbol) string {
	return fmt.Sprintf("**%s** `%s`", sym.Kind, baseSymbolName(sym.Name))
}

var statsFilesRe = regexp.MustCompile(`\*\*Files\*\*:\s*(\d+)`)
var statsSymbolsRe = regexp.MustCompile(`\*\*Symbols\*\*:\s*(\d+)`)

// collectRecursiveStats sums the Files/Symbols counts recorded in each
// child directory's already-written README.
func collectRecursiveStats(childDirs []string, outputFile string) (files, symbols int) {
	for _, dir := range childDirs {
		data, err := os.ReadFile(filepath.Join(dir, outputFile))
		if err != nil {
			continue
		}
		content := string(data)
		if m := statsFilesRe.FindStringSubmatch(content); m != nil {
			files += atoiSafe(m[1])
		}
		if m := statsSymbolsRe.FindStringSubmatch(content); m != nil {
			symbols += atoiSafe(m[1])
		}
	}
	return files, symbols
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// topSymbol is one entry surfaced by collectTopSymbols.
type topSymbol struct {
	Name   string
	Kind   string
	Module string
}

var markerRe = regexp.MustCompile("\\*\\*(class|function|method|interface)\\*\\* `([^`]+)`")

// collectTopSymbols scans the README of each immediate child directory for
// symbolMarker lines and returns up to limit distinct symbols.
func collectTopSymbols(childDirs []string, outputFile string, limit int) []topSymbol {
	var out []topSymbol
	seen := map[string]bool{}

	var walk func(dir string)
	walk = func(dir string) {
		data, err := os.ReadFile(filepath.Join(dir, outputFile))
		if err != nil {
			return
		}
		for _, m := range markerRe.FindAllStringSubmatch(string(data), -1) {
			if len(out) >= limit {
				return
			}
			kind, name := m[1], m[2]
			key := kind + ":" + name
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, topSymbol{Name: name, Kind: kind, Module: filepath.Base(dir)})
		}
	}
	for _, dir := range childDirs {
		if len(out) >= limit {
			break
		}
		walk(dir)
	}
	return out
}

// extractModuleDescription derives a one-line summary of a child
// directory from its already-written README: structured stats plus the
// first class name found, falling back to the first free-text line, and
// finally a generic label.
func extractModuleDescription(dirPath, outputFile string) string {
	data, err := os.ReadFile(filepath.Join(dirPath, outputFile))
	if err != nil {
		return "Module directory"
	}
	content := string(data)
	lines := strings.Split(content, "\n")

	filesM := statsFilesRe.FindStringSubmatch(content)
	classM := regexp.MustCompile("\\*\\*class\\*\\* `([^`]+)`").FindStringSubmatch(content)
	if filesM != nil || classM != nil {
		var parts []string
		if filesM != nil {
			parts = append(parts, fmt.Sprintf("%s files", filesM[1]))
		}
		if classM != nil {
			parts = append(parts, fmt.Sprintf("key type `%s`", classM[1]))
		}
		return strings.Join(parts, " | ")
	}

	end := len(lines)
	if end > 15 {
		end = 15
	}
	for _, line := range lines[minInt(2, len(lines)):end] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "|") {
			continue
		}
		if len(line) > 80 {
			line = line[:80]
		}
		return line
	}
	return "Module directory"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// frameworkDisplayNames maps a registered framework key to the label
// formatRouteTable shows a reader.
var frameworkDisplayNames = map[string]string{
	"thinkphp": "ThinkPHP",
	"spring":   "Spring",
}

func frameworkDisplayName(framework string) string {
	if name, ok := frameworkDisplayNames[framework]; ok {
		return name
	}
	return strings.Title(framework)
}

const maxRouteTableRows = 30

// formatRouteTable renders routes as a capped Markdown table, or "" when
// there are none.
func formatRouteTable(rs []routes.RouteInfo, framework string) string {
	if len(rs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### %s Routes\n\n", frameworkDisplayName(framework))
	b.WriteString("| URL | Controller | Action | Location | Description |\n")
	b.WriteString("|---|---|---|---|---|\n")

	shown := rs
	truncatedBy := 0
	if len(rs) > maxRouteTableRows {
		shown = rs[:maxRouteTableRows]
		truncatedBy = len(rs) - maxRouteTableRows
	}
	for _, r := range shown {
		location := fmt.Sprintf("%s:%d", r.FilePath, r.LineNumber)
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n", r.URL, r.Controller, r.Action, location, r.Description)
	}
	if truncatedBy > 0 {
		fmt.Fprintf(&b, "| ... | | | | *+%d more routes* |\n", truncatedBy)
	}
	return b.String()
}

// truncateContent caps content at maxSize bytes, preferring to cut at the
// last "## " section boundary past the midpoint of the kept text (the first
// maxSize-200 bytes, leaving room for the notice) so a reader
// never sees a section sliced in half, then appends a fixed notice.
func truncateContent(content string, maxSize int) (string, bool) {
	if len(content) <= maxSize {
		return content, false
	}

	budget := maxSize - 200
	if budget < 0 {
		budget = 0
	}
	cut := content[:budget]

	if idx := strings.LastIndex(cut, "\n## "); idx > len(cut)/2 {
		cut = cut[:idx]
	}

	cut = strings.TrimRight(cut, "\n")
	cut += "\n\n---\n_Content truncated due to size limit. See individual module README files for details._\n"
	return cut, true
}
