// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"regexp"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

// SpringExtractor recovers Spring MVC/REST routes from
// @RestController/@Controller classes, combining a class-level
// @RequestMapping prefix with each method's HTTP-verb mapping annotation.
type SpringExtractor struct{}

func (SpringExtractor) FrameworkName() string { return "spring" }

// CanExtract fires when any class in the directory's parse results
// carries @RestController or @Controller.
func (SpringExtractor) CanExtract(ctx Context) bool {
	for _, result := range ctx.ParseResults {
		if result == nil || result.Error != nil {
			continue
		}
		for _, sym := range result.Symbols {
			if sym.Kind != model.KindClass {
				continue
			}
			if hasAnnotation(sym, "RestController") || hasAnnotation(sym, "Controller") {
				return true
			}
		}
	}
	return false
}

var httpMappings = map[string]string{
	"GetMapping":     "GET",
	"PostMapping":    "POST",
	"PutMapping":     "PUT",
	"DeleteMapping":  "DELETE",
	"PatchMapping":   "PATCH",
	"RequestMapping": "REQUEST",
}

func (SpringExtractor) ExtractRoutes(ctx Context) []RouteInfo {
	var out []RouteInfo

	for _, result := range ctx.ParseResults {
		if result == nil || result.Error != nil {
			continue
		}

		controllerClass := ""
		controllerPrefix := ""
		for _, sym := range result.Symbols {
			if sym.Kind != model.KindClass {
				continue
			}
			if !hasAnnotation(sym, "RestController") && !hasAnnotation(sym, "Controller") {
				continue
			}
			controllerClass = sym.Name
			if ann, ok := findAnnotation(sym, "RequestMapping"); ok {
				controllerPrefix = pathFromAnnotation(ann.Arguments)
			}
			break
		}
		if controllerClass == "" {
			continue
		}

		for _, sym := range result.Symbols {
			if sym.Kind != model.KindMethod {
				continue
			}
			if !strings.HasPrefix(sym.Name, controllerClass+".") {
				continue
			}

			httpMethod, methodPath := "", ""
			for _, ann := range sym.Annotations {
				verb, ok := httpMappings[ann.Name]
				if !ok {
					continue
				}
				httpMethod = verb
				methodPath = pathFromAnnotation(ann.Arguments)
				break
			}
			if httpMethod == "" {
				continue
			}

			fullPath := buildPath(controllerPrefix, methodPath)
			out = append(out, RouteInfo{
				URL:             httpMethod + " " + fullPath,
				Controller:      controllerClass,
				Action:          lastSegment(sym.Name, "."),
				MethodSignature: sym.Signature,
				LineNumber:      sym.LineStart,
				FilePath:        baseFileName(result.Path),
				Description:     truncateDescription(sym.Docstring),
			})
		}
	}
	return out
}

func hasAnnotation(sym model.Symbol, name string) bool {
	_, ok := findAnnotation(sym, name)
	return ok
}

func findAnnotation(sym model.Symbol, name string) (model.Annotation, bool) {
	for _, a := range sym.Annotations {
		if a.Name == name {
			return a, true
		}
	}
	return model.Annotation{}, false
}

var quotedStringRe = regexp.MustCompile(`"([^"]*)"`)

// pathFromAnnotation extracts a route path from an annotation's raw
// argument text: the "value" or "path" key is tried first (either a bare
// quoted string or an array literal, first element taken), falling back
// to the positional "0" key used for @RequestMapping("/x")-style calls.
func pathFromAnnotation(args map[string]string) string {
	for _, key := range []string{"value", "path"} {
		if raw, ok := args[key]; ok {
			if p := unwrapPathLiteral(raw); p != "" {
				return p
			}
		}
	}
	if raw, ok := args["0"]; ok {
		return unwrapPathLiteral(raw)
	}
	return ""
}

func unwrapPathLiteral(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := quotedStringRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// buildPath joins a controller-level prefix and a method-level path,
// normalizing slashes.
func buildPath(prefix, p string) string {
	prefix = strings.TrimRight(prefix, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	switch {
	case prefix == "" && p == "":
		return "/"
	case prefix == "":
		return p
	case p == "":
		return prefix
	default:
		return prefix + p
	}
}
