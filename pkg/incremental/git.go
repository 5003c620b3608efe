// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package incremental

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitChangeReader reads file-level diff stats between two revisions of a
// repository on disk, via go-git rather than shelling out to the git
// binary.
type GitChangeReader struct {
	repo *git.Repository
}

// NewGitChangeReader opens the repository rooted at rootPath.
func NewGitChangeReader(rootPath string) (*GitChangeReader, error) {
	repo, err := git.PlainOpen(rootPath)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", rootPath, err)
	}
	return &GitChangeReader{repo: repo}, nil
}

// Changes returns the per-file line deltas between since and until,
// which may be any revision go-git can resolve (branch, tag, short or
// full hash, HEAD~N).
func (r *GitChangeReader) Changes(since, until string) ([]FileChange, error) {
	sinceCommit, err := r.commitAt(since)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", since, err)
	}
	untilCommit, err := r.commitAt(until)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", until, err)
	}

	patch, err := sinceCommit.Patch(untilCommit)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", since, until, err)
	}

	filePatches := patch.FilePatches()
	changes := make([]FileChange, 0, len(filePatches))
	for _, fp := range filePatches {
		from, to := fp.Files()
		name := filePatchName(from, to)
		if name == "" {
			continue
		}
		additions, deletions := countChunkLines(fp.Chunks())
		changes = append(changes, FileChange{Path: name, Additions: additions, Deletions: deletions})
	}
	return changes, nil
}

func (r *GitChangeReader) commitAt(revision string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, err
	}
	return r.repo.CommitObject(*hash)
}

func filePatchName(from, to diff.File) string {
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

// countChunkLines sums the added/removed line counts across a file
// patch's chunks, the numstat-equivalent of git diff --numstat computed
// directly from go-git's diff model rather than shelled-out text.
func countChunkLines(chunks []diff.Chunk) (additions, deletions int) {
	for _, c := range chunks {
		lines := countLines(c.Content())
		switch c.Type() {
		case diff.Add:
			additions += lines
		case diff.Delete:
			deletions += lines
		}
	}
	return additions, deletions
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
