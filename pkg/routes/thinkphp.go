// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"path"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

// ThinkPHPExtractor recovers ThinkPHP's convention-based routing:
// /{module}/{controller}/{action}, derived from Controller directory
// layout rather than any annotation.
type ThinkPHPExtractor struct{}

func (ThinkPHPExtractor) FrameworkName() string { return "thinkphp" }

// CanExtract fires only inside a directory literally named "Controller".
func (ThinkPHPExtractor) CanExtract(ctx Context) bool {
	return path.Base(ctx.CurrentDir) == "Controller"
}

func (ThinkPHPExtractor) ExtractRoutes(ctx Context) []RouteInfo {
	moduleName := path.Base(path.Dir(ctx.CurrentDir))

	var out []RouteInfo
	for _, result := range ctx.ParseResults {
		if result == nil || result.Error != nil {
			continue
		}

		controllerClass := ""
		for _, sym := range result.Symbols {
			if sym.Kind == model.KindClass && strings.HasSuffix(sym.Name, "Controller") {
				controllerClass = sym.Name
				break
			}
		}
		if controllerClass == "" {
			continue
		}
		controllerName := strings.ToLower(strings.TrimSuffix(controllerClass, "Controller"))

		for _, sym := range result.Symbols {
			if sym.Kind != model.KindMethod {
				continue
			}
			if !strings.Contains(strings.ToLower(sym.Signature), "public") {
				continue
			}
			methodName := lastSegment(sym.Name, "::")
			if strings.HasPrefix(methodName, "_") {
				continue
			}

			url := "/" + strings.ToLower(moduleName) + "/" + controllerName + "/" + methodName
			out = append(out, RouteInfo{
				URL:             url,
				Controller:      controllerClass,
				Action:          methodName,
				MethodSignature: sym.Signature,
				LineNumber:      sym.LineStart,
				FilePath:        baseFileName(result.Path),
				Description:     truncateDescription(sym.Docstring),
			})
		}
	}
	return out
}

func lastSegment(name, sep string) string {
	if idx := strings.LastIndex(name, sep); idx >= 0 {
		return name[idx+len(sep):]
	}
	return name
}
