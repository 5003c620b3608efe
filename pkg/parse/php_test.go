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

func TestPHPParser_NamespaceAndUseMap(t *testing.T) {
	src := []byte(`<?php
namespace App\Service;

use App\Model\User as UserModel;

class UserService extends UserModel
{
    public function find()
    {
        return new UserModel();
    }
}
`)
	p := NewPHPParser(treesitter.New())
	result := p.Parse(context.Background(), "f.php", src)
	require.Nil(t, result.Error)
	assert.Equal(t, "App\\Service", result.Namespace)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "App\\Model\\User", result.Imports[0].Module)
	assert.Equal(t, "UserModel", result.Imports[0].Alias)

	require.Len(t, result.Inheritances, 1)
	assert.Equal(t, "App\\Service\\UserService", result.Inheritances[0].Child)
	assert.Equal(t, "App\\Model\\User", result.Inheritances[0].Parent)

	var ctor *model.Call
	for i := range result.Calls {
		if result.Calls[i].CallType == model.CallConstructor {
			ctor = &result.Calls[i]
		}
	}
	require.NotNil(t, ctor)
	require.NotNil(t, ctor.Callee)
	assert.Equal(t, "App\\Model\\User::__construct", *ctor.Callee)
}

func TestPHPParser_ThisMemberCall(t *testing.T) {
	src := []byte(`<?php
class Widget
{
    public function render()
    {
        $this->prepare();
    }

    private function prepare()
    {
    }
}
`)
	p := NewPHPParser(treesitter.New())
	result := p.Parse(context.Background(), "f.php", src)
	require.Nil(t, result.Error)

	var call *model.Call
	for i := range result.Calls {
		if result.Calls[i].Caller == "Widget::render" {
			call = &result.Calls[i]
		}
	}
	require.NotNil(t, call)
	require.NotNil(t, call.Callee)
	assert.Equal(t, "Widget::prepare", *call.Callee)
	assert.Equal(t, model.CallMethod, call.CallType)
}

func TestPHPParser_GroupedUseImports(t *testing.T) {
	src := []byte(`<?php
use App\Http\{Request, Response as Resp};
`)
	p := NewPHPParser(treesitter.New())
	result := p.Parse(context.Background(), "f.php", src)
	require.Nil(t, result.Error)
	require.Len(t, result.Imports, 2)
}
