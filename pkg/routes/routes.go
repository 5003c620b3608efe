// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package routes extracts HTTP routes from parsed code using
// framework-specific conventions, behind a registry keyed by framework
// name so the writer can stay framework-agnostic.
package routes

import (
	"path"
	"sort"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

// RouteInfo is one discovered route.
type RouteInfo struct {
	URL             string
	Controller      string
	Action          string
	MethodSignature string
	LineNumber      int
	FilePath        string
	Description     string
}

// Context carries everything an extractor needs to decide whether it
// applies to a directory and to pull routes out of it.
type Context struct {
	RootPath     string
	CurrentDir   string
	ParseResults []*model.ParseResult
}

// Extractor is a framework-specific route-extraction strategy.
type Extractor interface {
	FrameworkName() string
	CanExtract(ctx Context) bool
	ExtractRoutes(ctx Context) []RouteInfo
}

// Registry maps framework name to its Extractor.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// Register adds or replaces the extractor for its own FrameworkName.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.FrameworkName()] = e
}

// Get looks up an extractor by framework name.
func (r *Registry) Get(framework string) (Extractor, bool) {
	e, ok := r.extractors[framework]
	return e, ok
}

// ListFrameworks returns every registered framework name, sorted.
func (r *Registry) ListFrameworks() []string {
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractAll runs every registered extractor whose CanExtract(ctx) fires
// against ctx and concatenates their routes.
func (r *Registry) ExtractAll(ctx Context) []RouteInfo {
	var routes []RouteInfo
	for _, name := range r.ListFrameworks() {
		e := r.extractors[name]
		if e.CanExtract(ctx) {
			routes = append(routes, e.ExtractRoutes(ctx)...)
		}
	}
	return routes
}

// truncateDescription caps a docstring to 60 characters for table display,
// the convention both concrete extractors follow.
func truncateDescription(docstring string) string {
	desc := strings.TrimSpace(docstring)
	if len(desc) > 60 {
		return desc[:60] + "..."
	}
	return desc
}

func baseFileName(p string) string {
	return path.Base(p)
}
