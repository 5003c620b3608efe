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

func TestJavaParser_PackageAndImportResolution(t *testing.T) {
	src := []byte(`package com.example.app;

import com.example.util.Helper;

public class Service extends Helper {
    public Service() {
    }

    public void run() {
        Helper.assist();
    }
}
`)
	p := NewJavaParser(treesitter.New())
	result := p.Parse(context.Background(), "Service.java", src)
	require.Nil(t, result.Error)
	assert.Equal(t, "com.example.app", result.Namespace)

	require.Len(t, result.Inheritances, 1)
	assert.Equal(t, "com.example.app.Service", result.Inheritances[0].Child)
	assert.Equal(t, "com.example.util.Helper", result.Inheritances[0].Parent)

	var ctorSymbol bool
	for _, s := range result.Symbols {
		if s.Kind == model.KindConstructor {
			ctorSymbol = true
			assert.Equal(t, "Service.<init>", s.Name)
		}
	}
	assert.True(t, ctorSymbol)

	var runCaller string
	for _, c := range result.Calls {
		if c.CallType == model.CallStaticMethod {
			runCaller = c.Caller
		}
	}
	assert.Equal(t, "com.example.app.Service.run", runCaller)
}

func TestJavaParser_ObjectCreationConstructorCall(t *testing.T) {
	src := []byte(`package com.example.app;

public class Factory {
    public Object build() {
        return new String("x");
    }
}
`)
	p := NewJavaParser(treesitter.New())
	result := p.Parse(context.Background(), "Factory.java", src)
	require.Nil(t, result.Error)

	var ctorCall *model.Call
	for i := range result.Calls {
		if result.Calls[i].CallType == model.CallConstructor {
			ctorCall = &result.Calls[i]
		}
	}
	require.NotNil(t, ctorCall)
	require.NotNil(t, ctorCall.Callee)
	assert.Equal(t, "java.lang.String.<init>", *ctorCall.Callee)
}
