// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package scanner walks a repository root and enumerates the source files
// and directories that the rest of the pipeline should consider, applying
// include-path, exclude-glob, and language-extension filters.
package scanner

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kraklabs/codeindex/pkg/treesitter"
)

// File is one indexable source file found under the scan root.
type File struct {
	Path     string // relative to the scan root, '/'-separated
	FullPath string
	Size     int64
	Language string
}

// Result is the output of a single scan: the files that passed every
// filter, and the set of directories (relative paths) that contain at
// least one of them.
type Result struct {
	Files         []File
	Dirs          []string
	DirsWithFiles map[string]bool
	SkipReasons   map[string]int
}

// Scanner walks a root directory applying include/exclude/extension filters.
type Scanner struct {
	logger       *slog.Logger
	include      []string
	exclude      []string
	languages    map[string]bool
}

// New builds a Scanner. include and exclude are path-prefix and glob
// patterns respectively, evaluated against paths relative to the scan
// root with '/' separators; languages restricts by ParseResult.Language
// name (empty means every supported language).
func New(logger *slog.Logger, include, exclude, languages []string) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	langSet := map[string]bool{}
	for _, l := range languages {
		langSet[l] = true
	}
	return &Scanner{logger: logger, include: include, exclude: exclude, languages: langSet}
}

// Scan walks root once and returns every file that survives the include,
// exclude, and language-extension filters. Per-file read errors (typically
// permission_denied) are recorded in Result.SkipReasons and never abort
// the walk.
func (s *Scanner) Scan(root string) (*Result, error) {
	result := &Result{SkipReasons: map[string]int{}}
	dirSet := map[string]bool{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("scan.walk_error", "path", path, "err", err)
			result.SkipReasons["permission_denied"]++
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if s.excluded(rel) || !s.includedDir(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !s.includedDir(rel) || s.excluded(rel) {
			result.SkipReasons["excluded"]++
			return nil
		}

		grammar, ok := treesitter.GrammarForExtension(strings.ToLower(filepath.Ext(rel)))
		if !ok {
			return nil
		}
		language := reportLanguage(grammar)
		if len(s.languages) > 0 && !s.languages[language] {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			result.SkipReasons["permission_denied"]++
			return nil
		}

		result.Files = append(result.Files, File{
			Path:     rel,
			FullPath: path,
			Size:     info.Size(),
			Language: language,
		})
		dirSet[filepath.ToSlash(filepath.Dir(rel))] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.DirsWithFiles = dirSet
	result.Dirs = FindAllDirectories(dirSet)
	return result, nil
}

// reportLanguage collapses the tsx grammar into the typescript language
// name, matching what the parser layer reports on ParseResult.
func reportLanguage(grammar string) string {
	if grammar == treesitter.TSX {
		return treesitter.TypeScript
	}
	return grammar
}

// FindAllDirectories expands a set of leaf directories (each already known
// to directly contain a source file) into the full, sorted list of indexable
// directories, including every ancestor up to (but not including) ".".
func FindAllDirectories(dirSet map[string]bool) []string {
	expanded := map[string]bool{}
	for dir := range dirSet {
		for d := dir; d != "." && d != "" && d != "/"; d = filepath.ToSlash(filepath.Dir(d)) {
			expanded[d] = true
			if filepath.Dir(d) == d {
				break
			}
		}
	}
	out := make([]string, 0, len(expanded))
	for d := range expanded {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (s *Scanner) includedDir(rel string) bool {
	if len(s.include) == 0 {
		return true
	}
	for _, prefix := range s.include {
		prefix = strings.Trim(filepath.ToSlash(prefix), "/")
		if prefix == "" || rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.exclude {
		if matchesGlob(rel, pattern) {
			return true
		}
	}
	return false
}
