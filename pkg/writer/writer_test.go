// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/dirtree"
	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/routes"
)

func testResult(path string, symbols ...model.Symbol) *model.ParseResult {
	return &model.ParseResult{Path: path, FileLines: 100, Symbols: symbols}
}

func TestGenerateOverview_ListsChildModuleDescriptions(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "users")
	require.NoError(t, os.Mkdir(child, 0o755))
	readme := "# users\n\n**Files**: 2  \n**Symbols**: 5\n\n- **class** `UserService`\n"
	require.NoError(t, os.WriteFile(filepath.Join(child, "README_AI.md"), []byte(readme), 0o644))

	w := New(DefaultConfig(), nil, nil)
	content := w.generateOverview(dir, nil, []string{child})

	assert.Contains(t, content, "## Modules")
	assert.Contains(t, content, "key type `UserService`")
	assert.Contains(t, content, "**Files**: 2")
	assert.Contains(t, content, "**Symbols**: 5")
}

func TestGenerateNavigation_GroupsFilesBySuffixPattern(t *testing.T) {
	results := []*model.ParseResult{
		testResult("UserController.java", model.Symbol{Name: "UserController", Kind: model.KindClass}),
		testResult("utils.go"),
	}
	w := New(DefaultConfig(), nil, nil)
	content := w.generateNavigation("Application", results, nil)

	assert.Contains(t, content, "### Controller")
	assert.Contains(t, content, "### Other")
	assert.Contains(t, content, "UserController.java")
	assert.Contains(t, content, "utils.go")
}

func TestGenerateNavigation_IncludesMatchingRouteTable(t *testing.T) {
	reg := routes.NewRegistry()
	reg.Register(routes.ThinkPHPExtractor{})
	result := &model.ParseResult{
		Path: "IndexController.class.php",
		Symbols: []model.Symbol{
			{Name: "IndexController", Kind: model.KindClass},
			{Name: "IndexController::home", Kind: model.KindMethod, Signature: "public function home()", LineStart: 10},
		},
	}

	w := New(DefaultConfig(), nil, reg)
	content := w.generateNavigation("Application/Admin/Controller", []*model.ParseResult{result}, nil)

	assert.Contains(t, content, "### ThinkPHP Routes")
	assert.Contains(t, content, "/admin/index/home")
}

func TestGenerateDetailed_TrimsToAdaptiveLimit(t *testing.T) {
	symbols := make([]model.Symbol, 0, 20)
	for i := 0; i < 20; i++ {
		symbols = append(symbols, model.Symbol{
			Name:      "Thing.method",
			Kind:      model.KindMethod,
			Signature: "func method()",
			LineStart: i,
		})
	}
	result := &model.ParseResult{Path: "thing.go", FileLines: 50, Symbols: symbols}

	w := New(DefaultConfig(), nil, nil)
	content := w.generateDetailed("pkg/thing", []*model.ParseResult{result}, nil)

	assert.Equal(t, 10, strings.Count(content, "func method()"))
}

func TestGenerateDetailed_SummarizesInheritance(t *testing.T) {
	result := &model.ParseResult{
		Path:         "dog.go",
		Symbols:      []model.Symbol{{Name: "Dog", Kind: model.KindClass, Signature: "type Dog struct"}},
		Inheritances: []model.Inheritance{{Child: "Dog", Parent: "Animal"}},
	}
	w := New(DefaultConfig(), nil, nil)
	content := w.generateDetailed("pkg/animals", []*model.ParseResult{result}, nil)

	assert.Contains(t, content, "## Inheritance")
	assert.Contains(t, content, "`Dog` extends/implements `Animal`")
}

func TestWriteReadme_DispatchesByLevel(t *testing.T) {
	dir := t.TempDir()
	w := New(DefaultConfig(), nil, nil)

	res := w.WriteReadme(dir, nil, dirtree.LevelOverview, nil)
	require.True(t, res.Success)
	assert.Equal(t, filepath.Join(dir, "README_AI.md"), res.Path)
	assert.False(t, res.Truncated)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTruncateContent_CutsAtHeaderPastMidpoint(t *testing.T) {
	section := strings.Repeat("x", 60)
	content := "# Title\n\n## First\n" + section + "\n## Second\n" + strings.Repeat("y", 5000)

	truncated, wasTruncated := truncateContent(content, 300)
	require.True(t, wasTruncated)
	assert.True(t, strings.HasSuffix(truncated, "_Content truncated due to size limit. See individual module README files for details._\n"))
	assert.False(t, strings.Contains(truncated, "## Second"))
}

func TestTruncateContent_NoopWhenUnderLimit(t *testing.T) {
	content := "# short\n"
	out, truncated := truncateContent(content, 1024)
	assert.Equal(t, content, out)
	assert.False(t, truncated)
}

func TestFilterSymbols_ExcludesGlobMatches(t *testing.T) {
	symbols := []model.Symbol{
		{Name: "Thing.getName", Kind: model.KindMethod},
		{Name: "Thing.Process", Kind: model.KindMethod},
	}
	out := filterSymbols(symbols, []string{"get*"}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "Thing.Process", out[0].Name)
}

func TestGetKeySymbols_ClassesFirstThenCappedAtFive(t *testing.T) {
	symbols := []model.Symbol{
		{Name: "fn1", Kind: model.KindFunction},
		{Name: "fn2", Kind: model.KindFunction},
		{Name: "fn3", Kind: model.KindFunction},
		{Name: "fn4", Kind: model.KindFunction},
		{Name: "fn5", Kind: model.KindFunction},
		{Name: "fn6", Kind: model.KindFunction},
		{Name: "Widget", Kind: model.KindClass},
	}
	out := getKeySymbols(symbols)
	require.Len(t, out, 5)
	assert.Equal(t, "Widget", out[0].Name)
}

func TestFormatRouteTable_EmptyWhenNoRoutes(t *testing.T) {
	assert.Equal(t, "", formatRouteTable(nil, "thinkphp"))
}

func TestCollectRecursiveStats_SumsChildReadmes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.Mkdir(a, 0o755))
	require.NoError(t, os.Mkdir(b, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a, "README_AI.md"), []byte("**Files**: 3  \n**Symbols**: 10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(b, "README_AI.md"), []byte("**Files**: 2  \n**Symbols**: 4\n"), 0o644))

	files, symbols := collectRecursiveStats([]string{a, b}, "README_AI.md")
	assert.Equal(t, 5, files)
	assert.Equal(t, 14, symbols)
}
