// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package symbolindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/model"
)

func TestBuild_SkipsErroredResults(t *testing.T) {
	errMsg := "syntax error"
	results := []*model.ParseResult{
		{Path: "bad.go", Error: &errMsg, Symbols: []model.Symbol{{Name: "Ghost", Kind: model.KindFunction}}},
		{Path: "good.go", Symbols: []model.Symbol{{Name: "Real", Kind: model.KindFunction}}},
	}

	idx := Build(results)
	require.Equal(t, 1, idx.Len())
	assert.Equal(t, "Real", idx.entries[0].Name)
}

func TestByKind_GroupsAndOrdersByFileThenName(t *testing.T) {
	results := []*model.ParseResult{
		{Path: "b.go", Symbols: []model.Symbol{{Name: "Bravo", Kind: model.KindFunction}}},
		{Path: "a.go", Symbols: []model.Symbol{{Name: "Zulu", Kind: model.KindFunction}, {Name: "Alpha", Kind: model.KindClass}}},
	}
	idx := Build(results)
	groups := idx.ByKind()

	require.Len(t, groups, 2)
	assert.Equal(t, model.KindClass, groups[0].Kind)
	assert.Equal(t, model.KindFunction, groups[1].Kind)
	require.Len(t, groups[1].Entries, 2)
	assert.Equal(t, "a.go", groups[1].Entries[0].File)
	assert.Equal(t, "b.go", groups[1].Entries[1].File)
}

func TestByFile_SortsEntriesByLine(t *testing.T) {
	results := []*model.ParseResult{
		{Path: "x.go", Symbols: []model.Symbol{
			{Name: "Second", Kind: model.KindFunction, LineStart: 20},
			{Name: "First", Kind: model.KindFunction, LineStart: 5},
		}},
	}
	idx := Build(results)
	groups := idx.ByFile()

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "First", groups[0].Entries[0].Name)
	assert.Equal(t, "Second", groups[0].Entries[1].Name)
}

func TestRender_IncludesBothSections(t *testing.T) {
	results := []*model.ParseResult{
		{Path: "svc.go", Symbols: []model.Symbol{{Name: "Service", Kind: model.KindClass, LineStart: 1}}},
	}
	content := Build(results).Render()

	assert.Contains(t, content, "## By Kind")
	assert.Contains(t, content, "### Classes (1)")
	assert.Contains(t, content, "## By File")
	assert.Contains(t, content, "svc.go")
	assert.Contains(t, content, "**Total symbols**: 1")
}

func TestWrite_ProducesFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PROJECT_SYMBOLS.md")
	results := []*model.ParseResult{
		{Path: "m.go", Symbols: []model.Symbol{{Name: "M", Kind: model.KindFunction}}},
	}

	require.NoError(t, Write(path, results))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Project Symbol Index")
}
