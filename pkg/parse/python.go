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

// PythonParser extracts symbols, imports, inheritances, and calls from
// Python source using the self/super-aware resolution rules described for
// this language: alias maps built from imports, self. rewritten against the
// enclosing method's owner, super. rewritten against the first known parent.
type PythonParser struct {
	adapter *treesitter.Adapter
}

// NewPythonParser builds a Python parser backed by the given adapter.
func NewPythonParser(adapter *treesitter.Adapter) *PythonParser {
	return &PythonParser{adapter: adapter}
}

func (p *PythonParser) Language() string { return treesitter.Python }

func (p *PythonParser) Parse(ctx context.Context, path string, source []byte) *model.ParseResult {
	result := newResult(path, treesitter.Python, source)

	tree, err := p.adapter.ParseTree(ctx, treesitter.Python, source)
	if err != nil {
		return withError(result, err.Error())
	}
	root := tree.RootNode()
	if treesitter.HasSyntaxError(tree) {
		result.Error = model.StrPtr("syntax_error")
	}

	result.ModuleDocstring = moduleDocstring(root, source)

	symbols, inheritances := pythonSymbolsAndInheritances(root, source)
	imports := pythonImports(root, source)

	result.Symbols = symbols
	result.Inheritances = inheritances
	result.Imports = imports

	aliasMap := buildPythonAliasMap(imports)
	parentMap := buildParentMap(inheritances)

	calls := []model.Call{}
	w := &pythonCallWalker{source: source, aliasMap: aliasMap, parentMap: parentMap, calls: &calls}
	w.walk(root, pyCallCtx{caller: "<module>"})
	result.Calls = calls

	return result
}

// pyCallCtx tracks the fully qualified caller symbol and the innermost
// enclosing class name while walking the CST looking for call nodes.
type pyCallCtx struct {
	caller    string
	className string
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func findChildType(n *sitter.Node, t string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == t {
			return n.Child(i)
		}
	}
	return nil
}

func firstIdentifier(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "identifier" {
			return text(n.Child(i), source)
		}
	}
	return ""
}

func moduleDocstring(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() == "comment" {
			continue
		}
		if c.Type() != "expression_statement" {
			return ""
		}
		for j := 0; j < int(c.ChildCount()); j++ {
			if c.Child(j).Type() == "string" {
				return cleanDocstring(text(c.Child(j), source))
			}
		}
		return ""
	}
	return ""
}

func functionDocstring(fnNode *sitter.Node, source []byte) string {
	block := findChildType(fnNode, "block")
	if block == nil {
		return ""
	}
	for i := 0; i < int(block.ChildCount()); i++ {
		c := block.Child(i)
		if c.Type() != "expression_statement" {
			return ""
		}
		for j := 0; j < int(c.ChildCount()); j++ {
			if c.Child(j).Type() == "string" {
				return cleanDocstring(text(c.Child(j), source))
			}
		}
		return ""
	}
	return ""
}

func pythonSymbolsAndInheritances(root *sitter.Node, source []byte) ([]model.Symbol, []model.Inheritance) {
	symbols := []model.Symbol{}
	inheritances := []model.Inheritance{}
	for i := 0; i < int(root.ChildCount()); i++ {
		extractPythonDef(root.Child(i), source, "", &symbols, &inheritances)
	}
	return symbols, inheritances
}

func extractPythonDef(node *sitter.Node, source []byte, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	switch node.Type() {
	case "function_definition":
		*symbols = append(*symbols, buildPythonFunctionSymbol(node, source, classPrefix))
	case "class_definition":
		name := firstIdentifier(node, source)
		full := qualify(classPrefix, name)
		*symbols = append(*symbols, buildPythonClassSymbol(node, source, full))
		for _, base := range pythonClassBases(node, source) {
			*inheritances = append(*inheritances, model.Inheritance{Child: full, Parent: base})
		}
		block := findChildType(node, "block")
		if block != nil {
			for i := 0; i < int(block.ChildCount()); i++ {
				c := block.Child(i)
				switch c.Type() {
				case "function_definition":
					*symbols = append(*symbols, buildPythonFunctionSymbol(c, source, full))
				case "class_definition", "decorated_definition":
					extractPythonDef(c, source, full, symbols, inheritances)
				}
			}
		}
	case "decorated_definition":
		for i := 0; i < int(node.ChildCount()); i++ {
			c := node.Child(i)
			if c.Type() == "function_definition" || c.Type() == "class_definition" {
				extractPythonDef(c, source, classPrefix, symbols, inheritances)
			}
		}
	}
}

func buildPythonFunctionSymbol(node *sitter.Node, source []byte, classPrefix string) model.Symbol {
	name := firstIdentifier(node, source)
	full := qualify(classPrefix, name)
	kind := model.KindFunction
	if classPrefix != "" {
		kind = model.KindMethod
		if name == "__init__" {
			kind = model.KindConstructor
		}
	}

	sig := "def " + name
	if params := findChildType(node, "parameters"); params != nil {
		sig += text(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + text(ret, source)
	}

	return model.Symbol{
		Name:        full,
		Kind:        kind,
		Signature:   sig,
		Docstring:   functionDocstring(node, source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func buildPythonClassSymbol(node *sitter.Node, source []byte, fullName string) model.Symbol {
	shortName := fullName
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		shortName = fullName[i+1:]
	}
	sig := "class " + shortName
	if argList := findChildType(node, "argument_list"); argList != nil {
		sig += text(argList, source)
	}

	return model.Symbol{
		Name:        fullName,
		Kind:        model.KindClass,
		Signature:   sig,
		Docstring:   functionDocstring(node, source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: []model.Annotation{},
	}
}

func pythonClassBases(node *sitter.Node, source []byte) []string {
	argList := findChildType(node, "argument_list")
	if argList == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(argList.NamedChildCount()); i++ {
		c := argList.NamedChild(i)
		switch c.Type() {
		case "identifier", "attribute", "subscript":
			bases = append(bases, stripGenerics(text(c, source)))
		}
	}
	return bases
}

func pythonImports(root *sitter.Node, source []byte) []model.Import {
	imports := []model.Import{}
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		switch c.Type() {
		case "import_statement":
			imports = append(imports, parsePythonImportStatement(c, source)...)
		case "import_from_statement":
			imports = append(imports, parsePythonImportFromStatement(c, source)...)
		}
	}
	return imports
}

// aliasParts splits an aliased_import node ("X as Y") into the raw name
// text and the alias text by locating the "as" keyword token positionally,
// since both the name and the alias may themselves be plain "identifier"
// nodes (field-name lookups can't tell them apart).
func aliasParts(n *sitter.Node, source []byte) (name, alias string) {
	asIdx := -1
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.Child(i).Type() == "as" {
			asIdx = i
			break
		}
	}
	if asIdx <= 0 || asIdx+1 >= count {
		return "", ""
	}
	return text(n.Child(asIdx-1), source), text(n.Child(asIdx+1), source)
}

func parsePythonImportStatement(node *sitter.Node, source []byte) []model.Import {
	var out []model.Import
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			out = append(out, model.Import{Module: text(c, source), Names: []string{}})
		case "aliased_import":
			name, alias := aliasParts(c, source)
			out = append(out, model.Import{Module: name, Names: []string{}, Alias: alias})
		}
	}
	return out
}

func parsePythonImportFromStatement(node *sitter.Node, source []byte) []model.Import {
	var module string
	var targets []*sitter.Node
	wildcard := false

	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "relative_import":
			module = text(c, source)
		case "dotted_name":
			if module == "" {
				module = text(c, source)
			} else {
				targets = append(targets, c)
			}
		case "wildcard_import":
			wildcard = true
		case "aliased_import", "identifier":
			targets = append(targets, c)
		}
	}
	if module == "" {
		return nil
	}
	if wildcard {
		return []model.Import{{Module: module, Names: []string{"*"}, IsFrom: true}}
	}

	out := make([]model.Import, 0, len(targets))
	for _, t := range targets {
		if t.Type() == "aliased_import" {
			name, alias := aliasParts(t, source)
			out = append(out, model.Import{Module: module, Names: []string{name}, IsFrom: true, Alias: alias})
			continue
		}
		out = append(out, model.Import{Module: module, Names: []string{text(t, source)}, IsFrom: true})
	}
	return out
}

func buildPythonAliasMap(imports []model.Import) map[string]string {
	m := map[string]string{}
	for _, imp := range imports {
		if imp.IsFrom {
			if len(imp.Names) == 1 && imp.Names[0] != "*" {
				local := imp.Names[0]
				if imp.Alias != "" {
					local = imp.Alias
				}
				m[local] = imp.Module + "." + imp.Names[0]
			}
		} else if imp.Alias != "" {
			m[imp.Alias] = imp.Module
		}
	}
	return m
}

func buildParentMap(inheritances []model.Inheritance) map[string]string {
	m := map[string]string{}
	for _, e := range inheritances {
		if _, ok := m[e.Child]; !ok {
			m[e.Child] = e.Parent
		}
	}
	return m
}

func resolveAlias(name string, aliasMap map[string]string) string {
	if direct, ok := aliasMap[name]; ok {
		return direct
	}
	if idx := strings.Index(name, "."); idx >= 0 {
		if repl, ok := aliasMap[name[:idx]]; ok {
			return repl + name[idx:]
		}
	}
	return name
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

type pythonCallWalker struct {
	source    []byte
	aliasMap  map[string]string
	parentMap map[string]string
	calls     *[]model.Call
}

func (w *pythonCallWalker) walk(node *sitter.Node, ctx pyCallCtx) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_definition":
			name := firstIdentifier(child, w.source)
			fqn := qualify(ctx.className, name)
			w.walk(child, pyCallCtx{caller: fqn, className: ctx.className})
		case "class_definition":
			name := firstIdentifier(child, w.source)
			full := qualify(ctx.className, name)
			w.walk(child, pyCallCtx{caller: "<module>", className: full})
		case "decorated_definition":
			declCaller := "<module>"
			if ctx.className != "" {
				declCaller = ctx.className
			}
			for j := 0; j < int(child.ChildCount()); j++ {
				dec := child.Child(j)
				if dec.Type() == "decorator" {
					w.handleDecorator(dec, declCaller)
				}
			}
			w.walk(child, ctx)
		case "call":
			*w.calls = append(*w.calls, w.resolveCall(child, ctx))
			w.walk(child, ctx)
		default:
			w.walk(child, ctx)
		}
	}
}

// handleDecorator records a simple (no call-argument) decorator as a
// function-type call per the deferred-decorator-with-arguments design note.
func (w *pythonCallWalker) handleDecorator(dec *sitter.Node, caller string) {
	var expr *sitter.Node
	for i := 0; i < int(dec.ChildCount()); i++ {
		c := dec.Child(i)
		if c.Type() == "identifier" || c.Type() == "attribute" {
			expr = c
			break
		}
		if c.Type() == "call" {
			return // deferred: decorators with call arguments are not recorded
		}
	}
	if expr == nil {
		return
	}
	name := extractPythonCallName(expr, w.source)
	*w.calls = append(*w.calls, model.Call{
		Caller:         caller,
		Callee:         model.StrPtr(name),
		LineNumber:     int(dec.StartPoint().Row) + 1,
		CallType:       model.CallFunction,
		ArgumentsCount: model.IntPtr(1),
	})
}

func extractPythonCallName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "identifier":
		return text(node, source)
	case "attribute":
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		return pythonObjectText(obj, source) + "." + text(attr, source)
	default:
		return text(node, source)
	}
}

func pythonObjectText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Type() == "call" {
		if fn := node.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" && text(fn, source) == "super" {
			return "super"
		}
	}
	if node.Type() == "attribute" {
		return extractPythonCallName(node, source)
	}
	return text(node, source)
}

func determinePythonCallType(raw string, funcNode *sitter.Node) (model.CallType, bool) {
	if funcNode == nil {
		return model.CallFunction, false
	}
	switch funcNode.Type() {
	case "identifier":
		switch raw {
		case "getattr", "setattr", "eval", "exec", "__import__":
			return model.CallDynamic, true
		}
		if isUpperFirst(raw) {
			return model.CallConstructor, false
		}
		return model.CallFunction, false
	case "attribute":
		parts := strings.Split(raw, ".")
		last := parts[len(parts)-1]
		objPart := strings.Join(parts[:len(parts)-1], ".")
		if isUpperFirst(last) {
			return model.CallConstructor, false
		}
		if isUpperFirst(objPart) {
			return model.CallStaticMethod, false
		}
		return model.CallMethod, false
	default:
		return model.CallFunction, false
	}
}

func (w *pythonCallWalker) resolveCall(node *sitter.Node, ctx pyCallCtx) model.Call {
	funcNode := node.ChildByFieldName("function")
	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil {
		argsNode = findChildType(node, "argument_list")
	}

	raw := extractPythonCallName(funcNode, w.source)
	callType, isDynamic := determinePythonCallType(raw, funcNode)

	call := model.Call{
		Caller:         ctx.caller,
		LineNumber:     int(node.StartPoint().Row) + 1,
		CallType:       callType,
		ArgumentsCount: model.IntPtr(treesitter.CountArguments(argsNode)),
	}
	if isDynamic {
		return call
	}

	resolved := raw
	switch {
	case strings.HasPrefix(resolved, "self.") && strings.Contains(ctx.caller, "."):
		owner := ctx.caller[:strings.LastIndex(ctx.caller, ".")]
		resolved = owner + "." + strings.TrimPrefix(resolved, "self.")
	case strings.HasPrefix(resolved, "super."):
		if parent, ok := w.parentMap[ctx.className]; ok {
			resolved = parent + "." + strings.TrimPrefix(resolved, "super.")
		}
	}
	resolved = resolveAlias(resolved, w.aliasMap)
	if callType == model.CallConstructor {
		resolved += ".__init__"
	}
	call.Callee = model.StrPtr(resolved)
	return call
}
