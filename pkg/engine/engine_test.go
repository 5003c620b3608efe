// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_WritesReadmesAndSymbolIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/alpha/widget.py", "class Widget:\n    def render(self):\n        pass\n")
	writeFile(t, root, "pkg/beta/gadget.py", "def build():\n    pass\n")

	cfg := config.DefaultConfig()
	cfg.Languages = []string{"python"}
	eng := New(cfg, nil)

	report, err := eng.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalFiles)
	assert.GreaterOrEqual(t, report.TotalSymbols, 2)
	assert.Equal(t, 0, report.ParseErrors)
	assert.NotEmpty(t, report.WriteResults)

	for _, wres := range report.WriteResults {
		assert.True(t, wres.Success, wres.Error)
		_, statErr := os.Stat(wres.Path)
		assert.NoError(t, statErr)
	}

	_, statErr := os.Stat(filepath.Join(root, SymbolIndexFile))
	assert.NoError(t, statErr)
}

func TestRun_ParseErrorsDoNotAbortTheRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.py", "def f(:\n")
	writeFile(t, root, "ok.py", "def g():\n    pass\n")

	cfg := config.DefaultConfig()
	cfg.Languages = []string{"python"}
	eng := New(cfg, nil)

	report, err := eng.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalFiles)
}
