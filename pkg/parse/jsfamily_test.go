// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/treesitter"
)

func TestTypeScriptParser_NamedImportAndMethodCall(t *testing.T) {
	src := []byte(`import { parse } from "./util";

export class Loader {
    run() {
        parse("x");
        this.prepare();
    }

    prepare() {}
}
`)
	p := NewTypeScriptParser(treesitter.New())
	result := p.Parse(context.Background(), "f.ts", src)
	require.Nil(t, result.Error)
	assert.Equal(t, treesitter.TypeScript, result.Language)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "./util", result.Imports[0].Module)
	assert.Equal(t, []string{"parse"}, result.Imports[0].Names)

	var funcCall, methodCall *model.Call
	for i := range result.Calls {
		c := &result.Calls[i]
		if c.Callee == nil {
			continue
		}
		switch *c.Callee {
		case "./util.parse":
			funcCall = c
		case "this.prepare":
			methodCall = c
		}
	}
	require.NotNil(t, funcCall)
	assert.Equal(t, model.CallFunction, funcCall.CallType)
	require.NotNil(t, methodCall)
	assert.Equal(t, model.CallMethod, methodCall.CallType)
}

func TestTSXParser_ReportsTypeScriptLanguage(t *testing.T) {
	src := []byte(`export function Widget() {
    return null;
}
`)
	p := NewTSXParser(treesitter.New())
	result := p.Parse(context.Background(), "f.tsx", src)
	require.Nil(t, result.Error)
	assert.Equal(t, treesitter.TypeScript, result.Language)
}

func TestJavaScriptParser_RequireImport(t *testing.T) {
	src := []byte(`const fs = require("fs");

function read() {
    fs.readFileSync("x");
}
`)
	p := NewJavaScriptParser(treesitter.New())
	result := p.Parse(context.Background(), "f.js", src)
	require.Nil(t, result.Error)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "fs", result.Imports[0].Module)
	assert.Equal(t, "fs", result.Imports[0].Alias)
}

func TestJavaScriptParser_NewExpressionConstructorCall(t *testing.T) {
	src := []byte(`function make() {
    return new Widget();
}
`)
	p := NewJavaScriptParser(treesitter.New())
	result := p.Parse(context.Background(), "f.js", src)
	require.Nil(t, result.Error)

	var ctor *model.Call
	for i := range result.Calls {
		if result.Calls[i].CallType == model.CallConstructor {
			ctor = &result.Calls[i]
		}
	}
	require.NotNil(t, ctor)
	require.NotNil(t, ctor.Callee)
	assert.Equal(t, "Widget.<init>", *ctor.Callee)
}
