// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package parse implements the five language-dispatching parsers: Python,
// PHP, Java, TypeScript/TSX, and JavaScript/JSX. Each parser walks the
// tree-sitter CST for one file and emits a model.ParseResult: symbols,
// imports, inheritances, and calls, with language-aware name resolution.
//
// Parsers never panic on routine syntactic trouble. A read failure or a
// tree with an error root still yields a ParseResult, with Error set and
// FileLines preserved so size-based classifiers downstream keep working.
package parse

import (
	"bytes"
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/treesitter"
)

// Parser is the capability set every language parser implements.
type Parser interface {
	// Language is the grammar name the Registry dispatches on. It equals
	// ParseResult.Language for every parser except TSX, whose key is "tsx"
	// while its results report "typescript".
	Language() string

	// Parse extracts symbols, imports, inheritances, and calls from one
	// file's source bytes. It never returns a nil *model.ParseResult.
	Parse(ctx context.Context, path string, source []byte) *model.ParseResult
}

// countLines returns the 1-based number of lines in source, treating a
// trailing newline as not starting an extra empty line.
func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte("\n"))
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}

// newResult builds the common skeleton every parser fills in.
func newResult(path, language string, source []byte) *model.ParseResult {
	return &model.ParseResult{
		Path:         path,
		Language:     language,
		FileLines:    countLines(source),
		Symbols:      []model.Symbol{},
		Imports:      []model.Import{},
		Inheritances: []model.Inheritance{},
		Calls:        []model.Call{},
	}
}

// withError attaches a parse-level error to a result without discarding
// whatever partial facts were already collected.
func withError(result *model.ParseResult, msg string) *model.ParseResult {
	result.Error = model.StrPtr(msg)
	return result
}

// cleanDocstring strips the quote delimiters from a raw string-literal node
// text (triple or single quoted, single or double quote character) and
// trims surrounding whitespace. Used for Python docstrings and for the
// quoted module paths of JS/TS imports and PHP includes.
func cleanDocstring(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return strings.TrimSpace(raw[len(q) : len(raw)-len(q)])
		}
	}
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2 {
			return strings.TrimSpace(raw[1 : len(raw)-1])
		}
	}
	return raw
}

// cleanBlockComment strips /** ... */ or /* ... */ or a run of leading //
// lines into flat documentation text, used by PHP/Java/TS/JS docstrings.
func cleanBlockComment(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/**") {
		raw = strings.TrimPrefix(raw, "/**")
		raw = strings.TrimSuffix(raw, "*/")
	} else if strings.HasPrefix(raw, "/*") {
		raw = strings.TrimPrefix(raw, "/*")
		raw = strings.TrimSuffix(raw, "*/")
	} else {
		raw = strings.TrimPrefix(raw, "//")
	}

	lines := strings.Split(raw, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, " ")
}

// stripGenerics removes a trailing `<...>` or `[...]` generic/subscript
// parameter list from a type name: List<String> -> List, List[str] -> List.
func stripGenerics(name string) string {
	if i := strings.IndexAny(name, "<["); i >= 0 {
		return name[:i]
	}
	return name
}

// text is a short alias for treesitter.NodeText, used throughout the
// per-language walkers.
func text(node *sitter.Node, source []byte) string {
	return treesitter.NodeText(node, source)
}

// leadingDocComment looks at the previous sibling for a /** ... */ block
// comment, the PHP/Java/TS doc-comment convention.
func leadingDocComment(node *sitter.Node, source []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	raw := text(prev, source)
	if !strings.HasPrefix(raw, "/**") {
		return ""
	}
	return cleanBlockComment(raw)
}
