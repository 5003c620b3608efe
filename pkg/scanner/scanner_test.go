// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
}

func TestScanner_LanguageExtensionFilterAndExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py")
	writeFile(t, root, "src/vendor/lib.py")
	writeFile(t, root, "README.md")

	s := New(nil, nil, []string{"vendor/**"}, nil)
	result, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/app.py", result.Files[0].Path)
	assert.Equal(t, "python", result.Files[0].Language)
}

func TestScanner_IncludePrefixFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py")
	writeFile(t, root, "tests/test_app.py")

	s := New(nil, []string{"src"}, nil, nil)
	result, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/app.py", result.Files[0].Path)
}

func TestScanner_TSXCollapsesToTypeScriptLanguage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.tsx")

	s := New(nil, nil, nil, nil)
	result, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "typescript", result.Files[0].Language)
}

func TestFindAllDirectories_IncludesAncestors(t *testing.T) {
	dirs := FindAllDirectories(map[string]bool{"a/b/c": true})
	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, dirs)
}

func TestMatchesGlob_DoubleStarAtAnyDepth(t *testing.T) {
	assert.True(t, matchesGlob("a/b/node_modules/x.js", "**/node_modules/**"))
	assert.False(t, matchesGlob("a/b/x.js", "**/node_modules/**"))
}
