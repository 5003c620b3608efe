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

func TestPythonParser_AliasedImportAndCall(t *testing.T) {
	src := []byte(`import pandas as pd

def load():
    return pd.read_csv("a.csv")
`)
	p := NewPythonParser(treesitter.New())
	result := p.Parse(context.Background(), "f.py", src)
	require.Nil(t, result.Error)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "pandas", result.Imports[0].Module)
	assert.Equal(t, "pd", result.Imports[0].Alias)

	require.Len(t, result.Calls, 1)
	call := result.Calls[0]
	assert.Equal(t, "load", call.Caller)
	require.NotNil(t, call.Callee)
	assert.Equal(t, "pandas.read_csv", *call.Callee)
	assert.Equal(t, model.CallFunction, call.CallType)
}

func TestPythonParser_SelfAndSuperRewriting(t *testing.T) {
	src := []byte(`class A:
    def f(self):
        pass

class B(A):
    def f(self):
        self.g()
        super().f()

    def g(self):
        pass
`)
	p := NewPythonParser(treesitter.New())
	result := p.Parse(context.Background(), "f.py", src)
	require.Nil(t, result.Error)

	require.Len(t, result.Inheritances, 1)
	assert.Equal(t, model.Inheritance{Child: "B", Parent: "A"}, result.Inheritances[0])

	var selfCall, superCall *model.Call
	for i := range result.Calls {
		c := &result.Calls[i]
		if c.Caller != "B.f" {
			continue
		}
		switch *c.Callee {
		case "B.g":
			selfCall = c
		case "A.f":
			superCall = c
		}
	}
	require.NotNil(t, selfCall)
	assert.Equal(t, model.CallMethod, selfCall.CallType)
	require.NotNil(t, superCall)
}

func TestPythonParser_ConstructorAndDynamicCallTypes(t *testing.T) {
	src := []byte(`class Widget:
    def __init__(self):
        pass

def make():
    w = Widget()
    getattr(w, "name")
`)
	p := NewPythonParser(treesitter.New())
	result := p.Parse(context.Background(), "f.py", src)
	require.Nil(t, result.Error)

	var ctor, dyn *model.Call
	for i := range result.Calls {
		c := &result.Calls[i]
		switch c.CallType {
		case model.CallConstructor:
			ctor = c
		case model.CallDynamic:
			dyn = c
		}
	}
	require.NotNil(t, ctor)
	require.NotNil(t, ctor.Callee)
	assert.Equal(t, "Widget.__init__", *ctor.Callee)

	require.NotNil(t, dyn)
	assert.Nil(t, dyn.Callee)
}

func TestPythonParser_NestedClassAndModuleDocstring(t *testing.T) {
	src := []byte(`"""Module summary."""

class Outer:
    class Inner:
        def m(self):
            pass
`)
	p := NewPythonParser(treesitter.New())
	result := p.Parse(context.Background(), "f.py", src)
	require.Nil(t, result.Error)
	assert.Equal(t, "Module summary.", result.ModuleDocstring)

	names := map[string]bool{}
	for _, s := range result.Symbols {
		names[s.Name] = true
	}
	assert.True(t, names["Outer"])
	assert.True(t, names["Outer.Inner"])
	assert.True(t, names["Outer.Inner.m"])
}

func TestPythonParser_SyntaxErrorStillReturnsPartialResult(t *testing.T) {
	src := []byte(`def broken(:\n    pass`)
	p := NewPythonParser(treesitter.New())
	result := p.Parse(context.Background(), "f.py", src)
	require.NotNil(t, result.Error)
	assert.Equal(t, "syntax_error", *result.Error)
	assert.Greater(t, result.FileLines, 0)
}
