// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/config"
)

func TestLoadIndexConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := loadIndexConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadIndexConfig_LoadsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codeindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  - python\noutput_file: README_AI.md\n"), 0o644))

	cfg, err := loadIndexConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, cfg.Languages)
}

func TestApplyIncrementalScope_NonRepoFallsBackToFullScan(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	logger := slog.Default()

	skip := applyIncrementalScope(dir, "HEAD~1", "HEAD", cfg, logger, GlobalFlags{Quiet: true})
	assert.False(t, skip, "a directory with no git history should never be treated as skippable")
}
