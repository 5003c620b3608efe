// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package incremental

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCodeFiles_KeepsOnlyConfiguredLanguages(t *testing.T) {
	changes := []FileChange{
		{Path: "pkg/a.py"},
		{Path: "pkg/a.go"},
		{Path: "pkg/a.rs"},
		{Path: "pkg/a.tsx"},
	}
	out := FilterCodeFiles(changes, []string{"python", "typescript"})

	assert.Len(t, out, 2)
	assert.Equal(t, "pkg/a.py", out[0].Path)
	assert.Equal(t, "pkg/a.tsx", out[1].Path)
}

func TestAnalyzeChanges_NoCodeFilesSkips(t *testing.T) {
	changes := []FileChange{{Path: "README.md", Additions: 500}}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, LevelSkip, analysis.Level)
	assert.Empty(t, analysis.Files)
}

func TestAnalyzeChanges_BelowSkipThreshold(t *testing.T) {
	changes := []FileChange{{Path: "a.py", Additions: 2, Deletions: 1}}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, LevelSkip, analysis.Level)
}

func TestAnalyzeChanges_CurrentOnly(t *testing.T) {
	changes := []FileChange{{Path: "a.py", Additions: 10, Deletions: 5}}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, LevelCurrent, analysis.Level)
	assert.Equal(t, 15, analysis.TotalLines())
}

func TestAnalyzeChanges_Affected(t *testing.T) {
	changes := []FileChange{{Path: "a.py", Additions: 80, Deletions: 20}}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, LevelAffected, analysis.Level)
}

func TestAnalyzeChanges_Full(t *testing.T) {
	changes := []FileChange{{Path: "a.py", Additions: 150, Deletions: 100}}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, LevelFull, analysis.Level)
}

func TestAnalyzeChanges_CollectsSortedAffectedDirs(t *testing.T) {
	changes := []FileChange{
		{Path: "pkg/b/x.py", Additions: 10},
		{Path: "pkg/a/y.py", Additions: 10},
		{Path: "pkg/a/z.py", Additions: 10},
	}
	analysis := AnalyzeChanges(changes, []string{"python"}, DefaultThresholds)

	assert.Equal(t, []string{"pkg/a", "pkg/b"}, analysis.AffectedDirs)
}

func TestFileChange_DirectoryAndTotalLines(t *testing.T) {
	f := FileChange{Path: "pkg/foo/bar.py", Additions: 3, Deletions: 4}
	assert.Equal(t, "pkg/foo", f.Directory())
	assert.Equal(t, 7, f.TotalLines())
}
