// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"

	codeerrors "github.com/kraklabs/codeindex/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_HasAllFiveLanguages(t *testing.T) {
	cfg := DefaultConfig()
	assert.ElementsMatch(t, []string{"python", "php", "java", "typescript", "javascript"}, cfg.Languages)
	assert.Equal(t, "README_AI.md", cfg.OutputFile)
	assert.Greater(t, cfg.ParallelWorkers, 0)
}

func TestLoad_MissingFileReturnsNoConfigFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	runErr, ok := err.(*codeerrors.RunError)
	require.True(t, ok)
	assert.Equal(t, codeerrors.NoConfigFound, runErr.Code)
}

func TestLoad_AppliesDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  - python\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"python"}, cfg.Languages)
	assert.Equal(t, "README_AI.md", cfg.OutputFile)
	assert.Greater(t, cfg.ParallelWorkers, 0)
	assert.Equal(t, 50*1024, cfg.Indexing.MaxReadmeSize)
}

func TestLoad_InvalidLanguageReturnsInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  - cobol\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	runErr, ok := err.(*codeerrors.RunError)
	require.True(t, ok)
	assert.Equal(t, codeerrors.InvalidPath, runErr.Code)
}

func TestLoad_MalformedYAMLReturnsInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	runErr, ok := err.(*codeerrors.RunError)
	require.True(t, ok)
	assert.Equal(t, codeerrors.InvalidPath, runErr.Code)
}

func TestValidate_RejectsZeroParallelWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParallelWorkers = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParallelWorkers")
}

func TestValidate_RejectsEmptyOutputFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputFile = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutputFile")
}

func TestValidate_AcceptsDefaultConfig(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}
