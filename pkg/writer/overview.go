// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package writer

import (
	"fmt"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

// generateOverview renders a root-level README: aggregate stats plus a
// one-line description of each immediate child, pulled from that child's
// already-written README. Overview directories carry no files of their
// own by definition, so results is typically empty here.
func (w *Writer) generateOverview(dirPath string, results []*model.ParseResult, childDirs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", dirName(dirPath))
	b.WriteString("This is a repository-level overview generated from the project's directory structure.\n\n")

	fileCount, symbolCount := collectRecursiveStats(childDirs, w.config.OutputFile)
	fmt.Fprintf(&b, "**Files**: %d  \n", fileCount)
	fmt.Fprintf(&b, "**Symbols**: %d  \n", symbolCount)
	fmt.Fprintf(&b, "**Modules**: %d\n\n", len(childDirs))

	if len(childDirs) > 0 {
		b.WriteString("## Modules\n\n")
		for _, child := range childDirs {
			desc := extractModuleDescription(child, w.config.OutputFile)
			fmt.Fprintf(&b, "- **%s**: %s\n", dirName(child), desc)
		}
		b.WriteString("\n")
	}

	top := collectTopSymbols(childDirs, w.config.OutputFile, 15)
	if len(top) > 0 {
		b.WriteString("## Key Symbols\n\n")
		for _, s := range top {
			fmt.Fprintf(&b, "- **%s** `%s` (%s)\n", s.Kind, s.Name, s.Module)
		}
		b.WriteString("\n")
	}

	return b.String()
}
