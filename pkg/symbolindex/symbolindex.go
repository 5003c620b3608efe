// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package symbolindex aggregates every Symbol produced across a run into
// a single Markdown index grouped by kind and by file. It performs no
// cross-file resolution: an entry here is a sighting, not a link.
package symbolindex

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

// Entry is one symbol sighting carried into the index.
type Entry struct {
	Name      string
	Kind      model.SymbolKind
	File      string
	LineStart int
	Signature string
}

// Index holds every collected entry, ready to render by kind or by file.
type Index struct {
	entries []Entry
}

// Build walks every supplied ParseResult and records its symbols.
// Results carrying a parse error are skipped entirely, matching the rest
// of the pipeline's failure semantics.
func Build(results []*model.ParseResult) *Index {
	idx := &Index{}
	for _, r := range results {
		if r == nil || r.Error != nil {
			continue
		}
		for _, sym := range r.Symbols {
			idx.entries = append(idx.entries, Entry{
				Name:      sym.Name,
				Kind:      sym.Kind,
				File:      r.Path,
				LineStart: sym.LineStart,
				Signature: sym.Signature,
			})
		}
	}
	return idx
}

// Len reports the total number of collected entries.
func (idx *Index) Len() int { return len(idx.entries) }

// ByKind groups entries by symbol kind, each group sorted by file then
// name, with kinds emitted in a fixed, reader-friendly order.
func (idx *Index) ByKind() []KindGroup {
	buckets := map[model.SymbolKind][]Entry{}
	for _, e := range idx.entries {
		buckets[e.Kind] = append(buckets[e.Kind], e)
	}

	var groups []KindGroup
	for _, kind := range kindOrder {
		entries, ok := buckets[kind]
		if !ok {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].File != entries[j].File {
				return entries[i].File < entries[j].File
			}
			return entries[i].Name < entries[j].Name
		})
		groups = append(groups, KindGroup{Kind: kind, Entries: entries})
	}
	return groups
}

// ByFile groups entries by source file, sorted by file path, each file's
// entries sorted by line number.
func (idx *Index) ByFile() []FileGroup {
	buckets := map[string][]Entry{}
	for _, e := range idx.entries {
		buckets[e.File] = append(buckets[e.File], e)
	}

	files := make([]string, 0, len(buckets))
	for f := range buckets {
		files = append(files, f)
	}
	sort.Strings(files)

	groups := make([]FileGroup, 0, len(files))
	for _, f := range files {
		entries := buckets[f]
		sort.Slice(entries, func(i, j int) bool { return entries[i].LineStart < entries[j].LineStart })
		groups = append(groups, FileGroup{File: f, Entries: entries})
	}
	return groups
}

// KindGroup is every entry of one symbol kind.
type KindGroup struct {
	Kind    model.SymbolKind
	Entries []Entry
}

// FileGroup is every entry from one source file.
type FileGroup struct {
	File    string
	Entries []Entry
}

var kindOrder = []model.SymbolKind{
	model.KindClass,
	model.KindInterface,
	model.KindEnum,
	model.KindRecord,
	model.KindTypeAlias,
	model.KindNamespace,
	model.KindFunction,
	model.KindMethod,
	model.KindConstructor,
	model.KindField,
	model.KindProperty,
	model.KindVariable,
}

// Render produces the full Markdown document: a "By Kind" section
// followed by a "By File" section.
func (idx *Index) Render() string {
	var b strings.Builder

	b.WriteString("# Project Symbol Index\n\n")
	fmt.Fprintf(&b, "**Total symbols**: %d\n\n", idx.Len())

	b.WriteString("## By Kind\n\n")
	for _, group := range idx.ByKind() {
		fmt.Fprintf(&b, "### %s (%d)\n\n", kindLabel(group.Kind), len(group.Entries))
		for _, e := range group.Entries {
			fmt.Fprintf(&b, "- `%s` — %s:%d\n", e.Name, e.File, e.LineStart)
		}
		b.WriteString("\n")
	}

	b.WriteString("## By File\n\n")
	for _, group := range idx.ByFile() {
		fmt.Fprintf(&b, "### %s\n\n", group.File)
		for _, e := range group.Entries {
			fmt.Fprintf(&b, "- %s `%s` (line %d)\n", e.Kind, e.Name, e.LineStart)
		}
		b.WriteString("\n")
	}

	return b.String()
}

var kindLabels = map[model.SymbolKind]string{
	model.KindClass:       "Classes",
	model.KindInterface:   "Interfaces",
	model.KindEnum:        "Enums",
	model.KindRecord:      "Records",
	model.KindTypeAlias:   "Type Aliases",
	model.KindNamespace:   "Namespaces",
	model.KindFunction:    "Functions",
	model.KindMethod:      "Methods",
	model.KindConstructor: "Constructors",
	model.KindField:       "Fields",
	model.KindProperty:    "Properties",
	model.KindVariable:    "Variables",
}

func kindLabel(kind model.SymbolKind) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return string(kind)
}

// Write renders and writes the index to path.
func Write(path string, results []*model.ParseResult) error {
	idx := Build(results)
	return os.WriteFile(path, []byte(idx.Render()), 0o644)
}
