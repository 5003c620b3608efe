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

// PHPParser extracts symbols, imports, inheritances, and calls from PHP
// source. Namespace resolution runs through a single use-map built from the
// file's `use` declarations; class names in Inheritance and Call records are
// always namespace-qualified, Symbol names are not.
type PHPParser struct {
	adapter *treesitter.Adapter
}

func NewPHPParser(adapter *treesitter.Adapter) *PHPParser {
	return &PHPParser{adapter: adapter}
}

func (p *PHPParser) Language() string { return treesitter.PHP }

func (p *PHPParser) Parse(ctx context.Context, path string, source []byte) *model.ParseResult {
	result := newResult(path, treesitter.PHP, source)

	tree, err := p.adapter.ParseTree(ctx, treesitter.PHP, source)
	if err != nil {
		return withError(result, err.Error())
	}
	root := tree.RootNode()
	if treesitter.HasSyntaxError(tree) {
		result.Error = model.StrPtr("syntax_error")
	}

	w := &phpWalker{source: source, useMap: map[string]string{}}
	w.namespace = phpNamespace(root, source)
	result.Namespace = w.namespace

	phpCollectUseMap(root, source, w.useMap)

	symbols, inheritances := w.symbolsAndInheritances(root)
	result.Symbols = symbols
	result.Inheritances = inheritances
	result.Imports = phpImports(root, source, w.useMap)
	w.cachedParents = buildParentMap(inheritances)

	calls := []model.Call{}
	w.calls = &calls
	w.walk(root, phpCallCtx{caller: "<module>"})
	result.Calls = calls

	return result
}

type phpCallCtx struct {
	caller       string
	className    string // short (unqualified) class name, empty outside a class
	qualifiedCls string // namespace-qualified class name
}

type phpWalker struct {
	source        []byte
	namespace     string
	useMap        map[string]string
	calls         *[]model.Call
	cachedParents map[string]string
}

func phpNamespace(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() == "namespace_definition" {
			for j := 0; j < int(c.ChildCount()); j++ {
				cc := c.Child(j)
				if cc.Type() == "namespace_name" || cc.Type() == "name" {
					return text(cc, source)
				}
			}
		}
	}
	return ""
}

// phpQualify namespace-qualifies a bare class name; already-qualified names
// (leading backslash, or resolved through the use-map) pass through resolve.
func (w *phpWalker) phpQualify(name string) string {
	return w.resolveClassName(name)
}

func (w *phpWalker) resolveClassName(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "\\") {
		return strings.TrimPrefix(raw, "\\")
	}
	first := raw
	rest := ""
	if idx := strings.Index(raw, "\\"); idx >= 0 {
		first = raw[:idx]
		rest = raw[idx:]
	}
	if full, ok := w.useMap[first]; ok {
		return full + rest
	}
	if w.namespace != "" {
		return w.namespace + "\\" + raw
	}
	return raw
}

// phpCollectUseMap maps every locally-bound name (alias, or the last segment
// of an unaliased use) to the fully qualified name it stands for.
func phpCollectUseMap(root *sitter.Node, source []byte, useMap map[string]string) {
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() != "namespace_use_declaration" {
			continue
		}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			clause := c.NamedChild(j)
			switch clause.Type() {
			case "namespace_use_clause":
				name, alias := phpUseClauseParts(clause, source)
				key := alias
				if key == "" {
					key = lastSegment(name, "\\")
				}
				useMap[key] = name
			case "namespace_use_group_clause_1", "namespace_use_group":
				phpCollectGroupUse(clause, source, useMap)
			}
		}
		// grouped form: "use A\{B, C as D}" parses as a clause holding a
		// prefix name plus a group of member clauses.
		phpCollectGroupUse(c, source, useMap)
	}
}

func phpCollectGroupUse(node *sitter.Node, source []byte, useMap map[string]string) {
	var prefix string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "namespace_name", "qualified_name", "name":
			if prefix == "" {
				prefix = text(c, source)
			}
		case "namespace_use_group":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				member := c.NamedChild(j)
				name, alias := phpUseClauseParts(member, source)
				full := name
				if prefix != "" {
					full = prefix + "\\" + name
				}
				key := alias
				if key == "" {
					key = lastSegment(name, "\\")
				}
				useMap[key] = full
			}
		}
	}
}

func phpUseClauseParts(node *sitter.Node, source []byte) (name, alias string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "namespace_name", "qualified_name", "name":
			if name == "" {
				name = text(c, source)
			}
		case "namespace_aliasing_clause":
			for j := 0; j < int(c.ChildCount()); j++ {
				if c.Child(j).Type() == "name" {
					alias = text(c.Child(j), source)
				}
			}
		}
	}
	return
}

func lastSegment(s, sep string) string {
	if idx := strings.LastIndex(s, sep); idx >= 0 {
		return s[idx+len(sep):]
	}
	return s
}

func phpImports(root *sitter.Node, source []byte, useMap map[string]string) []model.Import {
	imports := []model.Import{}
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		switch c.Type() {
		case "namespace_use_declaration":
			imports = append(imports, phpUseImports(c, source)...)
		case "expression_statement":
			if inc := findChildType(c, "include_expression"); inc != nil {
				if imp, ok := phpIncludeImport(inc, source); ok {
					imports = append(imports, imp)
				}
			} else if inc := findChildType(c, "require_expression"); inc != nil {
				if imp, ok := phpIncludeImport(inc, source); ok {
					imports = append(imports, imp)
				}
			}
		}
	}
	return imports
}

func phpUseImports(node *sitter.Node, source []byte) []model.Import {
	var out []model.Import
	var prefix string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "namespace_use_clause":
			name, alias := phpUseClauseParts(c, source)
			out = append(out, model.Import{Module: name, Names: []string{}, Alias: alias})
		case "namespace_name", "qualified_name", "name":
			prefix = text(c, source)
		case "namespace_use_group":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				member := c.NamedChild(j)
				name, alias := phpUseClauseParts(member, source)
				full := name
				if prefix != "" {
					full = prefix + "\\" + name
				}
				out = append(out, model.Import{Module: full, Names: []string{}, Alias: alias})
			}
		}
	}
	return out
}

func phpIncludeImport(node *sitter.Node, source []byte) (model.Import, bool) {
	str := findChildType(node, "string")
	if str == nil {
		return model.Import{}, false
	}
	return model.Import{Module: cleanDocstring(text(str, source)), Names: []string{}}, true
}

func (w *phpWalker) symbolsAndInheritances(root *sitter.Node) ([]model.Symbol, []model.Inheritance) {
	symbols := []model.Symbol{}
	inheritances := []model.Inheritance{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "class_declaration":
				w.extractClass(c, &symbols, &inheritances)
			case "function_definition":
				symbols = append(symbols, w.buildFunctionSymbol(c, ""))
			case "namespace_definition", "declaration_list", "compound_statement":
				walk(c)
			default:
				walk(c)
			}
		}
	}
	walk(root)
	return symbols, inheritances
}

func (w *phpWalker) extractClass(node *sitter.Node, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	name := firstIdentifier(node, w.source)
	if name == "" {
		name = phpNameField(node, w.source)
	}
	qualified := w.phpQualify(name)

	modifiers := phpModifiers(node, w.source)
	sig := strings.Join(append(modifiers, "class", name), " ")

	*symbols = append(*symbols, model.Symbol{
		Name:        name,
		Kind:        model.KindClass,
		Signature:   sig,
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	})

	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "base_clause":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				parent := w.phpQualify(stripGenerics(text(c.NamedChild(j), w.source)))
				*inheritances = append(*inheritances, model.Inheritance{Child: qualified, Parent: parent})
			}
		case "class_interface_clause":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				parent := w.phpQualify(stripGenerics(text(c.NamedChild(j), w.source)))
				*inheritances = append(*inheritances, model.Inheritance{Child: qualified, Parent: parent})
			}
		case "declaration_list":
			for j := 0; j < int(c.ChildCount()); j++ {
				member := c.Child(j)
				switch member.Type() {
				case "method_declaration":
					*symbols = append(*symbols, w.buildFunctionSymbol(member, name))
				case "property_declaration":
					*symbols = append(*symbols, w.buildPropertySymbols(member, name)...)
				}
			}
		}
	}
}

func phpNameField(node *sitter.Node, source []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return text(n, source)
	}
	return ""
}

func phpModifiers(node *sitter.Node, source []byte) []string {
	var mods []string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "abstract_modifier", "final_modifier", "visibility_modifier", "static_modifier":
			mods = append(mods, text(c, source))
		}
	}
	return mods
}

func (w *phpWalker) buildFunctionSymbol(node *sitter.Node, owner string) model.Symbol {
	name := firstIdentifier(node, w.source)
	if name == "" {
		name = phpNameField(node, w.source)
	}
	kind := model.KindFunction
	full := name
	if owner != "" {
		full = owner + "::" + name
		kind = model.KindMethod
		if name == "__construct" {
			kind = model.KindConstructor
		}
	}

	mods := phpModifiers(node, w.source)
	sig := strings.Join(mods, " ")
	if sig != "" {
		sig += " "
	}
	sig += "function " + name
	if params := findChildType(node, "formal_parameters"); params != nil {
		sig += text(params, w.source)
	}

	return model.Symbol{
		Name:        full,
		Kind:        kind,
		Signature:   sig,
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func (w *phpWalker) buildPropertySymbols(node *sitter.Node, owner string) []model.Symbol {
	mods := phpModifiers(node, w.source)
	var typeText string
	if t := findChildType(node, "union_type"); t != nil {
		typeText = text(t, w.source)
	} else if t := findChildType(node, "named_type"); t != nil {
		typeText = text(t, w.source)
	}

	var out []model.Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() != "property_element" {
			continue
		}
		varName := firstChildTextOfType(c, "variable_name", w.source)
		if varName == "" {
			continue
		}
		sig := strings.Join(mods, " ")
		if typeText != "" {
			sig += " " + typeText
		}
		sig += " " + varName
		out = append(out, model.Symbol{
			Name:        owner + "::" + varName,
			Kind:        model.KindProperty,
			Signature:   strings.TrimSpace(sig),
			LineStart:   int(node.StartPoint().Row) + 1,
			LineEnd:     int(node.EndPoint().Row) + 1,
			Annotations: []model.Annotation{},
		})
	}
	return out
}

func firstChildTextOfType(n *sitter.Node, t string, source []byte) string {
	c := findChildType(n, t)
	if c == nil {
		return ""
	}
	return text(c, source)
}


func (w *phpWalker) walk(node *sitter.Node, ctx phpCallCtx) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration":
			name := firstIdentifier(child, w.source)
			if name == "" {
				name = phpNameField(child, w.source)
			}
			newCtx := phpCallCtx{caller: "<module>", className: name, qualifiedCls: w.phpQualify(name)}
			w.walk(child, newCtx)
		case "method_declaration", "function_definition":
			name := firstIdentifier(child, w.source)
			if name == "" {
				name = phpNameField(child, w.source)
			}
			caller := name
			if ctx.className != "" {
				caller = ctx.qualifiedCls + "::" + name
			}
			w.walk(child, phpCallCtx{caller: caller, className: ctx.className, qualifiedCls: ctx.qualifiedCls})
		case "function_call_expression":
			*w.calls = append(*w.calls, w.resolveFunctionCall(child, ctx))
			w.walk(child, ctx)
		case "member_call_expression":
			*w.calls = append(*w.calls, w.resolveMemberCall(child, ctx))
			w.walk(child, ctx)
		case "scoped_call_expression":
			*w.calls = append(*w.calls, w.resolveScopedCall(child, ctx))
			w.walk(child, ctx)
		case "object_creation_expression":
			if call, ok := w.resolveObjectCreation(child, ctx); ok {
				*w.calls = append(*w.calls, call)
			}
			w.walk(child, ctx)
		default:
			w.walk(child, ctx)
		}
	}
}

func (w *phpWalker) resolveFunctionCall(node *sitter.Node, ctx phpCallCtx) model.Call {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	raw := text(fn, w.source)

	resolved := raw
	if strings.HasPrefix(raw, "\\") {
		resolved = strings.TrimPrefix(raw, "\\")
	} else if full, ok := w.useMap[raw]; ok {
		resolved = full
	}

	return model.Call{
		Caller:         ctx.caller,
		Callee:         model.StrPtr(resolved),
		LineNumber:     int(node.StartPoint().Row) + 1,
		CallType:       model.CallFunction,
		ArgumentsCount: model.IntPtr(treesitter.CountArguments(args)),
	}
}

func (w *phpWalker) resolveMemberCall(node *sitter.Node, ctx phpCallCtx) model.Call {
	obj := node.ChildByFieldName("object")
	nameNode := node.ChildByFieldName("name")
	args := node.ChildByFieldName("arguments")
	method := text(nameNode, w.source)
	lineNumber := int(node.StartPoint().Row) + 1
	argCount := treesitter.CountArguments(args)

	if obj == nil {
		return model.Call{Caller: ctx.caller, LineNumber: lineNumber, CallType: model.CallDynamic, ArgumentsCount: model.IntPtr(argCount)}
	}
	objText := text(obj, w.source)
	if objText == "$this" && ctx.qualifiedCls != "" {
		return model.Call{
			Caller:         ctx.caller,
			Callee:         model.StrPtr(ctx.qualifiedCls + "::" + method),
			LineNumber:     lineNumber,
			CallType:       model.CallMethod,
			ArgumentsCount: model.IntPtr(argCount),
		}
	}
	if strings.HasPrefix(objText, "$") && len(objText) > 1 {
		varName := objText[1:]
		guess := strings.ToUpper(varName[:1]) + varName[1:]
		resolved := w.resolveClassName(guess)
		return model.Call{
			Caller:         ctx.caller,
			Callee:         model.StrPtr(resolved + "::" + method),
			LineNumber:     lineNumber,
			CallType:       model.CallMethod,
			ArgumentsCount: model.IntPtr(argCount),
		}
	}
	return model.Call{Caller: ctx.caller, LineNumber: lineNumber, CallType: model.CallDynamic, ArgumentsCount: model.IntPtr(argCount)}
}

func (w *phpWalker) resolveScopedCall(node *sitter.Node, ctx phpCallCtx) model.Call {
	scope := node.ChildByFieldName("scope")
	nameNode := node.ChildByFieldName("name")
	args := node.ChildByFieldName("arguments")
	method := text(nameNode, w.source)
	lineNumber := int(node.StartPoint().Row) + 1
	argCount := treesitter.CountArguments(args)

	scopeText := text(scope, w.source)
	var resolvedClass string
	switch scopeText {
	case "parent":
		resolvedClass = ctx.parentOf(w)
	case "self", "static":
		resolvedClass = ctx.qualifiedCls
	default:
		resolvedClass = w.resolveClassName(scopeText)
	}

	return model.Call{
		Caller:         ctx.caller,
		Callee:         model.StrPtr(resolvedClass + "::" + method),
		LineNumber:     lineNumber,
		CallType:       model.CallStaticMethod,
		ArgumentsCount: model.IntPtr(argCount),
	}
}

// parentOf resolves "parent::" within ctx's class by consulting the calls
// walker's namespace-qualified parent, tracked per-class by the caller.
func (ctx phpCallCtx) parentOf(w *phpWalker) string {
	if parent, ok := w.parentMap()[ctx.qualifiedCls]; ok {
		return parent
	}
	return ctx.qualifiedCls
}

// parentMap returns the className -> first-parent map that Parse built once
// from this file's inheritances, or an empty map when none was built.
func (w *phpWalker) parentMap() map[string]string {
	if w.cachedParents != nil {
		return w.cachedParents
	}
	return map[string]string{}
}

func (w *phpWalker) resolveObjectCreation(node *sitter.Node, ctx phpCallCtx) (model.Call, bool) {
	classNode := node.ChildByFieldName("class")
	if classNode == nil || classNode.Type() == "anonymous_class" {
		return model.Call{}, false
	}
	args := node.ChildByFieldName("arguments")
	raw := text(classNode, w.source)
	resolved := w.resolveClassName(raw)

	return model.Call{
		Caller:         ctx.caller,
		Callee:         model.StrPtr(resolved + "::__construct"),
		LineNumber:     int(node.StartPoint().Row) + 1,
		CallType:       model.CallConstructor,
		ArgumentsCount: model.IntPtr(treesitter.CountArguments(args)),
	}, true
}
