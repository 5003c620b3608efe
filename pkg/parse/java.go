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

// javaWellKnown lists java.lang classes resolved without an explicit import.
var javaWellKnown = map[string]bool{
	"Object": true, "String": true, "Exception": true, "RuntimeException": true,
	"Throwable": true, "Error": true, "Integer": true, "Long": true, "Double": true,
	"Float": true, "Short": true, "Byte": true, "Boolean": true, "Character": true,
	"Number": true, "Thread": true, "Runnable": true, "StringBuilder": true,
	"StringBuffer": true, "Math": true, "System": true, "Class": true,
	"Comparable": true, "Iterable": true, "Void": true,
}

// JavaParser extracts symbols, imports, inheritances, and calls from Java
// source. Parent and call resolution follow import > java.lang > same
// package precedence. Inheritance.Child, Call.Caller, and Call.Callee are
// always package-qualified; member Symbol names are not, matching the
// class-local names the rest of the toolchain reports them under.
type JavaParser struct {
	adapter *treesitter.Adapter
}

func NewJavaParser(adapter *treesitter.Adapter) *JavaParser {
	return &JavaParser{adapter: adapter}
}

func (p *JavaParser) Language() string { return treesitter.Java }

func (p *JavaParser) Parse(ctx context.Context, path string, source []byte) *model.ParseResult {
	result := newResult(path, treesitter.Java, source)

	tree, err := p.adapter.ParseTree(ctx, treesitter.Java, source)
	if err != nil {
		return withError(result, err.Error())
	}
	root := tree.RootNode()
	if treesitter.HasSyntaxError(tree) {
		result.Error = model.StrPtr("syntax_error")
	}

	w := &javaWalker{source: source, importMap: map[string]string{}, staticImports: map[string]string{}}
	w.pkg = javaPackage(root, source)
	result.Namespace = w.pkg

	w.wildcardImport = ""
	imports := []model.Import{}
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() == "import_declaration" {
			imp := w.collectImport(c)
			imports = append(imports, imp)
		}
	}
	result.Imports = imports

	symbols, inheritances := w.symbolsAndInheritances(root, "")
	result.Symbols = symbols
	result.Inheritances = inheritances
	w.parentMap = buildParentMap(inheritances)

	calls := []model.Call{}
	w.calls = &calls
	w.walk(root, javaCallCtx{caller: "<module>"})
	result.Calls = calls

	return result
}

func javaPackage(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		if c.Type() == "package_declaration" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if c.NamedChild(j).Type() == "scoped_identifier" || c.NamedChild(j).Type() == "identifier" {
					return text(c.NamedChild(j), source)
				}
			}
		}
	}
	return ""
}

type javaWalker struct {
	source         []byte
	pkg            string
	importMap      map[string]string // simple name -> fully qualified
	staticImports  map[string]string // member name -> Owner.member
	wildcardImport string            // last seen wildcard package, used as fallback
	staticWildcard string
	parentMap      map[string]string
	calls          *[]model.Call
}

func (w *javaWalker) collectImport(node *sitter.Node) model.Import {
	raw := ""
	isStatic := false
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "static":
			isStatic = true
		case "scoped_identifier", "identifier":
			raw = text(c, w.source)
		case "asterisk":
			raw += ".*"
		}
	}

	if strings.HasSuffix(raw, ".*") {
		pkg := strings.TrimSuffix(raw, ".*")
		if isStatic {
			w.staticWildcard = pkg
		} else {
			w.wildcardImport = pkg
		}
		return model.Import{Module: raw, Names: []string{"*"}, IsFrom: !isStatic}
	}

	last := lastSegment(raw, ".")
	if isStatic {
		w.staticImports[last] = raw
	} else {
		w.importMap[last] = raw
	}
	return model.Import{Module: raw, Names: []string{}, IsFrom: isStatic}
}

func (w *javaWalker) resolveClass(name string) string {
	name = stripGenerics(name)
	if full, ok := w.importMap[name]; ok {
		return full
	}
	if javaWellKnown[name] {
		return "java.lang." + name
	}
	if w.wildcardImport != "" {
		return w.wildcardImport + "." + name
	}
	if w.pkg != "" {
		return w.pkg + "." + name
	}
	return name
}

func (w *javaWalker) symbolsAndInheritances(node *sitter.Node, classPrefix string) ([]model.Symbol, []model.Inheritance) {
	symbols := []model.Symbol{}
	inheritances := []model.Inheritance{}
	w.collectTypeBody(node, classPrefix, &symbols, &inheritances)
	return symbols, inheritances
}

func (w *javaWalker) collectTypeBody(node *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			w.extractType(c, classPrefix, symbols, inheritances)
		default:
			w.collectTypeBody(c, classPrefix, symbols, inheritances)
		}
	}
}

func (w *javaWalker) extractType(node *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	name := firstIdentifier(node, w.source)
	full := qualify(classPrefix, name)
	qualified := w.resolveClass(full)

	kind := model.KindClass
	switch node.Type() {
	case "interface_declaration":
		kind = model.KindInterface
	case "enum_declaration":
		kind = model.KindEnum
	case "record_declaration":
		kind = model.KindRecord
	}

	*symbols = append(*symbols, model.Symbol{
		Name:        full,
		Kind:        kind,
		Signature:   javaTypeSignature(node, name, w.source),
		Docstring:   leadingDocComment(node, w.source),
		LineStart:   int(node.StartPoint().Row) + 1,
		LineEnd:     int(node.EndPoint().Row) + 1,
		Annotations: javaAnnotations(node, w.source),
	})

	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "superclass":
			if t := findChildType(c, "type_identifier"); t != nil {
				*inheritances = append(*inheritances, model.Inheritance{Child: qualified, Parent: w.resolveClass(text(t, w.source))})
			} else if t := findChildType(c, "generic_type"); t != nil {
				*inheritances = append(*inheritances, model.Inheritance{Child: qualified, Parent: w.resolveClass(stripGenerics(text(t, w.source)))})
			}
		case "super_interfaces", "extends_interfaces":
			list := findChildType(c, "type_list")
			if list == nil {
				list = c
			}
			for j := 0; j < int(list.NamedChildCount()); j++ {
				*inheritances = append(*inheritances, model.Inheritance{Child: qualified, Parent: w.resolveClass(stripGenerics(text(list.NamedChild(j), w.source)))})
			}
		case "class_body", "interface_body", "enum_body":
			w.extractMembers(c, full, symbols, inheritances)
		}
	}
}

func (w *javaWalker) extractMembers(body *sitter.Node, classPrefix string, symbols *[]model.Symbol, inheritances *[]model.Inheritance) {
	for i := 0; i < int(body.ChildCount()); i++ {
		c := body.Child(i)
		switch c.Type() {
		case "method_declaration":
			*symbols = append(*symbols, w.buildMethodSymbol(c, classPrefix, false))
		case "constructor_declaration":
			*symbols = append(*symbols, w.buildMethodSymbol(c, classPrefix, true))
		case "field_declaration":
			*symbols = append(*symbols, w.buildFieldSymbols(c, classPrefix)...)
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			w.extractType(c, classPrefix, symbols, inheritances)
		}
	}
}

func javaTypeSignature(node *sitter.Node, name string, source []byte) string {
	var mods []string
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "modifiers" {
			for j := 0; j < int(node.Child(i).NamedChildCount()); j++ {
				m := node.Child(i).NamedChild(j)
				if m.Type() != "marker_annotation" && m.Type() != "annotation" {
					mods = append(mods, text(m, source))
				}
			}
		}
	}
	kw := "class"
	switch node.Type() {
	case "interface_declaration":
		kw = "interface"
	case "enum_declaration":
		kw = "enum"
	case "record_declaration":
		kw = "record"
	}
	sig := strings.Join(append(mods, kw, name), " ")
	if params := findChildType(node, "formal_parameters"); params != nil {
		sig += text(params, source)
	}
	return sig
}

func javaAnnotations(node *sitter.Node, source []byte) []model.Annotation {
	anns := []model.Annotation{}
	mods := findChildType(node, "modifiers")
	if mods == nil {
		return anns
	}
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		c := mods.NamedChild(i)
		switch c.Type() {
		case "marker_annotation":
			name := firstChildTextOfType(c, "identifier", source)
			anns = append(anns, model.Annotation{Name: name, Arguments: map[string]string{}})
		case "annotation":
			name := firstChildTextOfType(c, "identifier", source)
			args := map[string]string{}
			if list := findChildType(c, "annotation_argument_list"); list != nil {
				for j := 0; j < int(list.NamedChildCount()); j++ {
					pair := list.NamedChild(j)
					if pair.Type() == "element_value_pair" {
						key := firstChildTextOfType(pair, "identifier", source)
						val := pair.NamedChild(int(pair.NamedChildCount()) - 1)
						if key != "" && val != nil {
							args[key] = text(val, source)
						}
					} else {
						args["0"] = text(pair, source)
					}
				}
			}
			anns = append(anns, model.Annotation{Name: name, Arguments: args})
		}
	}
	return anns
}

func (w *javaWalker) buildMethodSymbol(node *sitter.Node, classPrefix string, isConstructor bool) model.Symbol {
	name := firstIdentifier(node, w.source)
	kind := model.KindMethod
	full := qualify(classPrefix, name)
	if isConstructor {
		kind = model.KindConstructor
		full = classPrefix + ".<init>"
	}

	var mods []string
	if m := findChildType(node, "modifiers"); m != nil {
		for i := 0; i < int(m.ChildCount()); i++ {
			c := m.Child(i)
			if c.Type() != "marker_annotation" && c.Type() != "annotation" {
				mods = append(mods, text(c, w.source))
			}
		}
	}
	sig := strings.Join(mods, " ")
	if sig != "" {
		sig += " "
	}
	if t := node.ChildByFieldName("type"); t != nil {
		sig += text(t, w.source) + " "
	}
	sig += name
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
		Annotations: javaAnnotations(node, w.source),
	}
}

func (w *javaWalker) buildFieldSymbols(node *sitter.Node, classPrefix string) []model.Symbol {
	var mods []string
	if m := findChildType(node, "modifiers"); m != nil {
		for i := 0; i < int(m.ChildCount()); i++ {
			c := m.Child(i)
			if c.Type() != "marker_annotation" && c.Type() != "annotation" {
				mods = append(mods, text(c, w.source))
			}
		}
	}
	typeText := ""
	if t := node.ChildByFieldName("type"); t != nil {
		typeText = text(t, w.source)
	}

	var out []model.Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		varName := firstIdentifier(c, w.source)
		if varName == "" {
			continue
		}
		sig := strings.Join(mods, " ")
		if typeText != "" {
			sig += " " + typeText
		}
		sig += " " + varName
		out = append(out, model.Symbol{
			Name:        qualify(classPrefix, varName),
			Kind:        model.KindField,
			Signature:   strings.TrimSpace(sig),
			LineStart:   int(node.StartPoint().Row) + 1,
			LineEnd:     int(node.EndPoint().Row) + 1,
			Annotations: []model.Annotation{},
		})
	}
	return out
}

type javaCallCtx struct {
	caller       string
	classPrefix  string
	qualifiedCls string
}

func (w *javaWalker) walk(node *sitter.Node, ctx javaCallCtx) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			name := firstIdentifier(child, w.source)
			full := qualify(ctx.classPrefix, name)
			newCtx := javaCallCtx{caller: "<module>", classPrefix: full, qualifiedCls: w.resolveClass(full)}
			body := findChildType(child, "class_body")
			if body == nil {
				body = findChildType(child, "interface_body")
			}
			if body == nil {
				body = findChildType(child, "enum_body")
			}
			if body != nil {
				w.walk(body, newCtx)
			}
		case "method_declaration", "constructor_declaration":
			name := firstIdentifier(child, w.source)
			caller := qualify(ctx.qualifiedCls, name)
			if child.Type() == "constructor_declaration" {
				caller = ctx.qualifiedCls + ".<init>"
			}
			w.walk(child, javaCallCtx{caller: caller, classPrefix: ctx.classPrefix, qualifiedCls: ctx.qualifiedCls})
		case "method_invocation":
			*w.calls = append(*w.calls, w.resolveMethodInvocation(child, ctx))
			w.walk(child, ctx)
		case "object_creation_expression":
			*w.calls = append(*w.calls, w.resolveObjectCreation(child, ctx))
			w.walk(child, ctx)
		default:
			w.walk(child, ctx)
		}
	}
}

func (w *javaWalker) resolveMethodInvocation(node *sitter.Node, ctx javaCallCtx) model.Call {
	nameNode := node.ChildByFieldName("name")
	objNode := node.ChildByFieldName("object")
	args := node.ChildByFieldName("arguments")
	method := text(nameNode, w.source)
	lineNumber := int(node.StartPoint().Row) + 1
	argCount := treesitter.CountArguments(args)

	if objNode == nil {
		if full, ok := w.staticImports[method]; ok {
			return model.Call{Caller: ctx.caller, Callee: model.StrPtr(full), LineNumber: lineNumber, CallType: model.CallStaticMethod, ArgumentsCount: model.IntPtr(argCount)}
		}
		if w.staticWildcard != "" {
			return model.Call{Caller: ctx.caller, Callee: model.StrPtr(w.staticWildcard + "." + method), LineNumber: lineNumber, CallType: model.CallStaticMethod, ArgumentsCount: model.IntPtr(argCount)}
		}
		resolved := ctx.qualifiedCls + "." + method
		return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallMethod, ArgumentsCount: model.IntPtr(argCount)}
	}

	objText := text(objNode, w.source)
	if objText == "super" {
		parent := w.parentMap[ctx.qualifiedCls]
		resolved := parent + "." + method
		return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallMethod, ArgumentsCount: model.IntPtr(argCount)}
	}

	switch objNode.Type() {
	case "identifier":
		if isUpperFirst(objText) {
			resolved := w.resolveClass(objText) + "." + method
			return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallStaticMethod, ArgumentsCount: model.IntPtr(argCount)}
		}
		resolved := objText + "." + method
		return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallMethod, ArgumentsCount: model.IntPtr(argCount)}
	case "field_access", "method_invocation":
		parts := strings.Split(objText, ".")
		if full, ok := w.importMap[parts[0]]; ok {
			resolved := full + "." + strings.Join(parts[1:], ".") + "." + method
			return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallStaticMethod, ArgumentsCount: model.IntPtr(argCount)}
		}
		resolved := w.resolveClass(objText) + "." + method
		return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallStaticMethod, ArgumentsCount: model.IntPtr(argCount)}
	default:
		resolved := objText + "." + method
		return model.Call{Caller: ctx.caller, Callee: model.StrPtr(resolved), LineNumber: lineNumber, CallType: model.CallMethod, ArgumentsCount: model.IntPtr(argCount)}
	}
}

func (w *javaWalker) resolveObjectCreation(node *sitter.Node, ctx javaCallCtx) model.Call {
	typeNode := node.ChildByFieldName("type")
	args := node.ChildByFieldName("arguments")
	raw := stripGenerics(text(typeNode, w.source))
	resolved := w.resolveClass(raw) + ".<init>"
	return model.Call{
		Caller:         ctx.caller,
		Callee:         model.StrPtr(resolved),
		LineNumber:     int(node.StartPoint().Row) + 1,
		CallType:       model.CallConstructor,
		ArgumentsCount: model.IntPtr(treesitter.CountArguments(args)),
	}
}
