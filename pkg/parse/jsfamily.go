// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/treesitter"
)

// JSFamilyParser handles TypeScript, TSX, and JavaScript/JSX with one
// implementation parameterized by grammar, since the three share import
// forms, class-member shapes, and call resolution almost verbatim; only
// grammar routing and error recovery for JSX differ.
type JSFamilyParser struct {
	adapter *treesitter.Adapter
	grammar string // treesitter.TypeScript, treesitter.TSX, or treesitter.JavaScript
	// reportLanguage is what ParseResult.Language carries: tsx collapses
	// into "typescript" since the two grammars produce the same symbol
	// shape and callers never need to distinguish them downstream.
	reportLanguage string
}

func NewTypeScriptParser(adapter *treesitter.Adapter) *JSFamilyParser {
	return &JSFamilyParser{adapter: adapter, grammar: treesitter.TypeScript, reportLanguage: treesitter.TypeScript}
}

func NewTSXParser(adapter *treesitter.Adapter) *JSFamilyParser {
	return &JSFamilyParser{adapter: adapter, grammar: treesitter.TSX, reportLanguage: treesitter.TypeScript}
}

func NewJavaScriptParser(adapter *treesitter.Adapter) *JSFamilyParser {
	return &JSFamilyParser{adapter: adapter, grammar: treesitter.JavaScript, reportLanguage: treesitter.JavaScript}
}

func (p *JSFamilyParser) Language() string { return p.grammar }

func (p *JSFamilyParser) Parse(ctx context.Context, path string, source []byte) *model.ParseResult {
	result := newResult(path, p.reportLanguage, source)

	tree, err := p.adapter.ParseTree(ctx, p.grammar, source)
	if err != nil {
		return withError(result, err.Error())
	}
	root := tree.RootNode()
	if treesitter.HasSyntaxError(tree) {
		result.Error = model.StrPtr("syntax_error")
	}

	w := &jsWalker{source: source}
	imports := jsImports(root, source)
	result.Imports = imports
	w.importMap = buildJSImportMap(imports)

	symbols, inheritances := w.symbolsAndInheritances(root, "")
	result.Symbols = symbols
	result.Inheritances = inheritances

	calls := []model.Call{}
	w.calls = &calls
	w.walk(root, jsCallCtx{caller: "<module>"})
	result.Calls = calls

	return result
}

type jsWalker struct {
	source    []byte
	importMap map[string]string // local binding -> resolved module or module.name
}

// unwrapExport strips a wrapping export_statement/default export, returning
// the declaration it wraps (or node itself if not wrapped).
func unwrapExport(node *sitter.Node) *sitter.Node {
	if node.Type() != "export_statement" {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration",
			"abstract_class_declaration", "interface_declaration", "enum_declaration",
			"type_alias_declaration", "lexical_declaration":
			return c
		}
	}
	return node
}

func jsImports(root *sitter.Node, source []byte) []model.Import {
	imports := []model.Import{}
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		switch c.Type() {
		case "import_statement":
			imports = append(imports, parseJSImportStatement(c, source)...)
		case "export_statement":
			if imp, ok := parseJSReExport(c, source); ok {
				imports = append(imports, imp)
			}
		case "lexical_declaration":
			imports = append(imports, jsRequireImports(c, source)...)
		}
	}
	return imports
}

func parseJSImportStatement(node *sitter.Node, source []byte) []model.Import {
	moduleNode := node.ChildByFieldName("source")
	if moduleNode == nil {
		moduleNode = findChildType(node, "string")
	}
	module := cleanDocstring(text(moduleNode, source))

	clause := findChildType(node, "import_clause")
	if clause == nil {
		return []model.Import{{Module: module, Names: []string{}}}
	}

	var out []model.Import
	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(i)
		switch c.Type() {
		case "identifier":
			out = append(out, model.Import{Module: module, Names: []string{}, Alias: text(c, source)})
		case "namespace_import":
			alias := firstIdentifier(c, source)
			out = append(out, model.Import{Module: module, Names: []string{"*"}, Alias: alias})
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name, alias := jsImportSpecifierParts(spec, source)
				out = append(out, model.Import{Module: module, Names: []string{name}, IsFrom: true, Alias: alias})
			}
		}
	}
	if len(out) == 0 {
		out = append(out, model.Import{Module: module, Names: []string{}})
	}
	return out
}

func jsImportSpecifierParts(node *sitter.Node, source []byte) (name, alias string) {
	name = firstIdentifier(node, source)
	if aliasNode := node.ChildByFieldName("alias"); aliasNode != nil {
		alias = text(aliasNode, source)
	} else {
		ids := jsAllIdentifiers(node, source)
		if len(ids) > 1 {
			name = ids[0]
			alias = ids[1]
		}
	}
	return
}

func jsAllIdentifiers(n *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "identifier" {
			out = append(out, text(n.Child(i), source))
		}
	}
	return out
}

func parseJSReExport(node *sitter.Node, source []byte) (model.Import, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return model.Import{}, false
	}
	module := cleanDocstring(text(sourceNode, source))
	if findChildType(node, "*") != nil {
		return model.Import{Module: module, Names: []string{"*"}, IsFrom: true}, true
	}
	return model.Import{Module: module, Names: []string{}, IsFrom: true}, true
}

// jsRequireImports recognizes `const X = require('m')` and
// `const { A, B } = require('m')` among a lexical_declaration's declarators.
func jsRequireImports(node *sitter.Node, source []byte) []model.Import {
	var out []model.Import
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		valueNode := decl.ChildByFieldName("value")
		if valueNode == nil || valueNode.Type() != "call_expression" {
			continue
		}
		fn := valueNode.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" || text(fn, source) != "require" {
			continue
		}
		args := valueNode.ChildByFieldName("arguments")
		strNode := findChildType(args, "string")
		module := cleanDocstring(text(strNode, source))

		if nameNode.Type() == "object_pattern" {
			var names []string
			for j := 0; j < int(nameNode.NamedChildCount()); j++ {
				names = append(names, jsAllIdentifiers(nameNode.NamedChild(j), source)...)
			}
			out = append(out, model.Import{Module: module, Names: names})
		} else {
			out = append(out, model.Import{Module: module, Names: []string{}, Alias: text(nameNode, source)})
		}
	}
	return out
}

func buildJSImportMap(imports []model.Import) map[string]string {
	m := map[string]string{}
	for _, imp := range imports {
		switch {
		case imp.IsFrom && len(imp.Names) == 1 && imp.Names[0] != "*":
			local := imp.Names[0]
			if imp.Alias != "" {
				local = imp.Alias
			}
			m[local] = imp.Module + "." + imp.Names[0]
		case imp.Alias != "":
			m[imp.Alias] = imp.Module
		}
	}
	return m
}

func (w *jsWalker) symbolsAndInheritances(node *sitter.Node, classPrefix string) ([]model.Symbol, []model.Inheritance) {
	symbols := []model.Symbol{}
	inheritances := []model.Inheritance{}
	for i := 0; i < int(node.ChildCount()); i++ {
		w.collectTopLevel(node.Child(i), classPrefix, &symbols, &inheritances)
	}
	return symbols, inheritances
}

func (w *jsWalker) collectTopLevel(raw *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	node := unwrapExport(raw)
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		*symbols = append(*symbols, w.buildFunctionSymbol(node, classPrefix))
	case "class_declaration", "abstract_class_declaration":
		w.extractClass(node, classPrefix, symbols, inheritances)
	case "interface_declaration":
		w.extractInterface(node, classPrefix, symbols, inheritances)
	case "enum_declaration":
		*symbols = append(*symbols, w.buildSimpleTypeSymbol(node, model.KindEnum, classPrefix))
	case "type_alias_declaration":
		*symbols = append(*symbols, w.buildSimpleTypeSymbol(node, model.KindTypeAlias, classPrefix))
	case "lexical_declaration":
		if classPrefix == "" {
			*symbols = append(*symbols, w.buildLexicalSymbols(node)...)
		}
	}
}

func (w *jsWalker) buildFunctionSymbol(node *sitter.Node, classPrefix string) model.Symbol {
	name := firstIdentifier(node, w.source)
	full := qualify(classPrefix, name)
	sig := "function " + name
	if params := findChildType(node, "formal_parameters"); params != nil {
		sig += text(params, w.source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += text(ret, w.source)
	}
	return model.Symbol{
		Name:        full,
		Kind:        model.KindFunction,
		Signature:   sig,
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func (w *jsWalker) buildSimpleTypeSymbol(node *sitter.Node, kind model.SymbolKind, classPrefix string) model.Symbol {
	name := firstIdentifier(node, w.source)
	return model.Symbol{
		Name:        qualify(classPrefix, name),
		Kind:        kind,
		Signature:   text(node, w.source),
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func (w *jsWalker) buildLexicalSymbols(node *sitter.Node) []model.Symbol {
	var out []model.Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		d := node.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		nameNode := d.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			continue
		}
		name := text(nameNode, w.source)
		valueNode := d.ChildByFieldName("value")
		kind := model.KindVariable
		sig := "const " + name
		if valueNode != nil && (valueNode.Type() == "arrow_function" || valueNode.Type() == "function_expression" || valueNode.Type() == "generator_function") {
			kind = model.KindFunction
			sig = "const " + name + " = " + jsFunctionSignaturePreview(valueNode, w.source)
		}
		out = append(out, model.Symbol{
			Name:        name,
			Kind:        kind,
			Signature:   sig,
			Docstring:   leadingDocComment(node, w.source),
			LineStart:   int(d.StartPoint().Row) + 1,
			LineEnd:     int(d.EndPoint().Row) + 1,
			Annotations: []model.Annotation{},
		})
	}
	return out
}

func jsFunctionSignaturePreview(node *sitter.Node, source []byte) string {
	params := findChildType(node, "formal_parameters")
	if params == nil {
		return "(...) => {...}"
	}
	return text(params, source) + " => {...}"
}

func (w *jsWalker) extractClass(node *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	name := firstIdentifier(node, w.source)
	full := qualify(classPrefix, name)

	*symbols = append(*symbols, model.Symbol{
		Name:        full,
		Kind:        model.KindClass,
		Signature:   jsClassSignature(node, name, w.source),
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	})

	if heritage := findChildType(node, "class_heritage"); heritage != nil {
		for i := 0; i < int(heritage.ChildCount()); i++ {
			c := heritage.Child(i)
			switch c.Type() {
			case "extends_clause":
				if t := c.NamedChild(0); t != nil {
					*inheritances = append(*inheritances, model.Inheritance{Child: full, Parent: stripGenerics(text(t, w.source))})
				}
			case "implements_clause":
				for j := 0; j < int(c.NamedChildCount()); j++ {
					*inheritances = append(*inheritances, model.Inheritance{Child: full, Parent: stripGenerics(text(c.NamedChild(j), w.source))})
				}
			}
		}
	}

	if body := findChildType(node, "class_body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			c := body.Child(i)
			switch c.Type() {
			case "method_definition":
				*symbols = append(*symbols, w.buildMethodSymbol(c, full))
			case "public_field_definition":
				*symbols = append(*symbols, w.buildFieldSymbol(c, full))
			}
		}
	}
}

func jsClassSignature(node *sitter.Node, name string, source []byte) string {
	sig := "class " + name
	if tp := findChildType(node, "type_parameters"); tp != nil {
		sig += text(tp, source)
	}
	return sig
}

func (w *jsWalker) extractInterface(node *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	name := firstIdentifier(node, w.source)
	full := qualify(classPrefix, name)
	*symbols = append(*symbols, model.Symbol{
		Name:        full,
		Kind:        model.KindInterface,
		Signature:   "interface " + name,
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	})
	if ext := findChildType(node, "extends_type_clause"); ext != nil {
		for i := 0; i < int(ext.NamedChildCount()); i++ {
			*inheritances = append(*inheritances, model.Inheritance{Child: full, Parent: stripGenerics(text(ext.NamedChild(i), w.source))})
		}
	}
}

func (w *jsWalker) buildMethodSymbol(node *sitter.Node, classPrefix string) model.Symbol {
	name := firstIdentifier(node, w.source)
	if name == "" {
		name = phpNameField(node, w.source)
	}
	kind := model.KindMethod
	if name == "constructor" {
		kind = model.KindConstructor
	}

	var prefixes []string
	if acc := findChildType(node, "accessibility_modifier"); acc != nil {
		prefixes = append(prefixes, text(acc, w.source))
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "get", "set", "static", "async":
			prefixes = append(prefixes, text(node.Child(i), w.source))
		}
	}
	sig := strings.Join(prefixes, " ")
	if sig != "" {
		sig += " "
	}
	sig += name
	if params := findChildType(node, "formal_parameters"); params != nil {
		sig += text(params, w.source)
	}

	return model.Symbol{
		Name:        classPrefix + "." + name,
		Kind:        kind,
		Signature:   sig,
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func (w *jsWalker) buildFieldSymbol(node *sitter.Node, classPrefix string) model.Symbol {
	name := firstIdentifier(node, w.source)
	var prefixes []string
	if acc := findChildType(node, "accessibility_modifier"); acc != nil {
		prefixes = append(prefixes, text(acc, w.source))
	}
	sig := strings.Join(prefixes, " ")
	if sig != "" {
		sig += " "
	}
	sig += name
	if t := node.ChildByFieldName("type"); t != nil {
		sig += text(t, w.source)
	}

	return model.Symbol{
		Name:        classPrefix + "." + name,
		Kind:        model.KindField,
		Signature:   sig,
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

type jsCallCtx struct {
	caller      string
	classPrefix string
}

func (w *jsWalker) walk(node *sitter.Node, ctx jsCallCtx) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "export_statement":
			w.walk(child, ctx)
		case "class_declaration", "abstract_class_declaration":
			name := firstIdentifier(child, w.source)
			full := qualify(ctx.classPrefix, name)
			if body := findChildType(child, "class_body"); body != nil {
				w.walk(body, jsCallCtx{caller: "<module>", classPrefix: full})
			}
		case "function_declaration", "generator_function_declaration":
			name := firstIdentifier(child, w.source)
			w.walk(child, jsCallCtx{caller: qualify(ctx.classPrefix, name), classPrefix: ctx.classPrefix})
		case "method_definition":
			name := firstIdentifier(child, w.source)
			if name == "" {
				name = phpNameField(child, w.source)
			}
			w.walk(child, jsCallCtx{caller: ctx.classPrefix + "." + name, classPrefix: ctx.classPrefix})
		case "call_expression":
			if call, ok := w.resolveCallExpression(child, ctx); ok {
				*w.calls = append(*w.calls, call)
			}
			w.walk(child, ctx)
		case "new_expression":
			*w.calls = append(*w.calls, w.resolveNewExpression(child, ctx))
			w.walk(child, ctx)
		default:
			w.walk(child, ctx)
		}
	}
}

func (w *jsWalker) resolveCallExpression(node *sitter.Node, ctx jsCallCtx) (model.Call, bool) {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	lineNumber := int(node.StartPoint().Row) + 1
	argCount := treesitter.CountArguments(args)

	if fn != nil && fn.Type() == "identifier" && text(fn, w.source) == "require" {
		return model.Call{}, false
	}

	if fn != nil && fn.Type() == "member_expression" {
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		objText := text(obj, w.source)
		propText := text(prop, w.source)
		raw := objText + "." + propText

		callType := model.CallMethod
		if objText != "this" && isUpperFirst(objText) {
			callType = model.CallStaticMethod
		}

		resolved := raw
		if objText != "this" && objText != "super" {
			resolved = resolveAlias(raw, w.importMap)
		}
		return model.Call{
			Caller:         ctx.caller,
			Callee:         model.StrPtr(resolved),
			LineNumber:     lineNumber,
			CallType:       callType,
			ArgumentsCount: model.IntPtr(argCount),
		}, true
	}

	if fn != nil && fn.Type() == "identifier" {
		name := text(fn, w.source)
		resolved := resolveAlias(name, w.importMap)
		return model.Call{
			Caller:         ctx.caller,
			Callee:         model.StrPtr(resolved),
			LineNumber:     lineNumber,
			CallType:       model.CallFunction,
			ArgumentsCount: model.IntPtr(argCount),
		}, true
	}

	return model.Call{Caller: ctx.caller, LineNumber: lineNumber, CallType: model.CallDynamic, ArgumentsCount: model.IntPtr(argCount)}, true
}

func (w *jsWalker) resolveNewExpression(node *sitter.Node, ctx jsCallCtx) model.Call {
	ctorNode := node.ChildByFieldName("constructor")
	args := node.ChildByFieldName("arguments")
	raw := stripGenerics(text(ctorNode, w.source))
	resolved := resolveAlias(raw, w.importMap) + ".<init>"
	return model.Call{
		Caller:         ctx.caller,
		Callee:         model.StrPtr(resolved),
		LineNumber:     int(node.StartPoint().Row) + 1,
		CallType:       model.CallConstructor,
		ArgumentsCount: model.IntPtr(treesitter.CountArguments(args)),
	}
}
