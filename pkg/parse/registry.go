// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package parse

import "github.com/kraklabs/codeindex/pkg/treesitter"

// Registry dispatches a file extension to the parser that handles it.
type Registry struct {
	byGrammar map[string]Parser
}

// NewRegistry builds the full set of language parsers over a shared adapter.
func NewRegistry(adapter *treesitter.Adapter) *Registry {
	r := &Registry{byGrammar: make(map[string]Parser, 6)}
	for _, p := range []Parser{
		NewPythonParser(adapter),
		NewPHPParser(adapter),
		NewJavaParser(adapter),
		NewTypeScriptParser(adapter),
		NewTSXParser(adapter),
		NewJavaScriptParser(adapter),
	} {
		r.byGrammar[p.Language()] = p
	}
	return r
}

// ForExtension returns the parser for a lowercase file extension (including
// the leading dot), and whether the extension is supported at all.
func (r *Registry) ForExtension(ext string) (Parser, bool) {
	grammar, ok := treesitter.GrammarForExtension(ext)
	if !ok {
		return nil, false
	}
	p, ok := r.byGrammar[grammar]
	return p, ok
}
