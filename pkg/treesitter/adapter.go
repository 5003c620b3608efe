// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package treesitter holds one configured tree-sitter parser per supported
// grammar and the small set of helpers every language parser in pkg/parse
// needs: source-text extraction from a node, and positional-argument
// counting from an argument-list node.
//
// A *sitter.Parser is not safe for concurrent Parse calls on the same
// instance, so the Adapter keeps a small pool per grammar rather than one
// shared parser; ParseTree checks one out, uses it, and returns it.
package treesitter

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Grammar names. These double as the "language" field written into a
// ParseResult, except that "typescript"/"tsx"/"javascript" all map to the
// ecosystem's "typescript"/"javascript" family; pkg/parse is responsible for
// collapsing tsx into typescript at the ParseResult level when needed.
const (
	Python     = "python"
	PHP        = "php"
	Java       = "java"
	TypeScript = "typescript"
	TSX        = "tsx"
	JavaScript = "javascript"
)

var languageFuncs = map[string]func() *sitter.Language{
	Python:     python.GetLanguage,
	PHP:        php.GetLanguage,
	Java:       java.GetLanguage,
	TypeScript: typescript.GetLanguage,
	TSX:        tsx.GetLanguage,
	JavaScript: javascript.GetLanguage,
}

// GrammarForExtension returns the grammar name tree-sitter should use for a
// given lowercase file extension (including the leading dot), and whether
// the extension is supported at all.
func GrammarForExtension(ext string) (string, bool) {
	switch ext {
	case ".py":
		return Python, true
	case ".php":
		return PHP, true
	case ".java":
		return Java, true
	case ".ts":
		return TypeScript, true
	case ".tsx":
		return TSX, true
	case ".js", ".jsx":
		return JavaScript, true
	default:
		return "", false
	}
}

type parserPool struct {
	mu   sync.Mutex
	free []*sitter.Parser
	lang *sitter.Language
}

func (p *parserPool) get() *sitter.Parser {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		parser := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return parser
	}
	p.mu.Unlock()

	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)
	return parser
}

func (p *parserPool) put(parser *sitter.Parser) {
	p.mu.Lock()
	p.free = append(p.free, parser)
	p.mu.Unlock()
}

// Adapter owns a parser pool per grammar. Build one with New and share it
// read-only across every goroutine that parses files concurrently.
type Adapter struct {
	pools map[string]*parserPool
}

// New constructs an Adapter with a pool seeded for every supported grammar.
func New() *Adapter {
	a := &Adapter{pools: make(map[string]*parserPool, len(languageFuncs))}
	for name, fn := range languageFuncs {
		a.pools[name] = &parserPool{lang: fn()}
	}
	return a
}

// ParseTree parses source bytes under the named grammar and returns the
// resulting tree. The caller must not retain the tree past the lifetime of
// source, and must copy out any node text it needs before source is reused.
func (a *Adapter) ParseTree(ctx context.Context, grammar string, source []byte) (*sitter.Tree, error) {
	pool, ok := a.pools[grammar]
	if !ok {
		return nil, fmt.Errorf("treesitter: unsupported grammar %q", grammar)
	}

	parser := pool.get()
	defer pool.put(parser)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("treesitter: parse failed: %w", err)
	}
	return tree, nil
}

// NodeText returns the source slice a node spans, copied out of source so
// it survives the tree being dropped.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}

// HasSyntaxError reports whether the tree's root node contains an ERROR
// node anywhere in its span; a partial/garbled parse still returns a tree,
// but downstream code needs to know it was not clean.
func HasSyntaxError(tree *sitter.Tree) bool {
	return tree.RootNode().HasError()
}

// CountArguments counts positional arguments inside an argument-list-shaped
// node by counting its named children, which already excludes the
// punctuation tokens '(' ')' ',' that tree-sitter keeps as unnamed nodes.
func CountArguments(argList *sitter.Node) int {
	if argList == nil {
		return 0
	}
	return int(argList.NamedChildCount())
}
