// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package techdebt flags file- and class-level technical debt from a
// parsed file: oversized files, God classes, symbol overload, and a
// noise-ratio breakdown, rolling all of it into a 0-100 quality score.
package techdebt

import (
	"strconv"
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
	"github.com/kraklabs/codeindex/pkg/scorer"
)

// Severity ranks an Issue; lower values are more severe.
type Severity int

const (
	Critical Severity = iota + 1
	High
	Medium
	Low
)

// String renders the severity the way reports name it.
func (s Severity) String() string {
	switch s {
	case Critical:
		return "CRITICAL"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// Issue is one detected debt finding.
type Issue struct {
	Severity    Severity
	Category    string
	FilePath    string
	MetricValue float64
	Threshold   float64
	Description string
	Suggestion  string
}

const (
	superLargeFileLines = 5000
	largeFileLines      = 2000
	godClassMethods     = 50
	massiveSymbolCount  = 100
	noiseRatioThreshold = 0.5
	lowScoreThreshold   = 50.0
)

// SymbolOverloadAnalysis reports the symbol-count and noise breakdown for
// a single file.
type SymbolOverloadAnalysis struct {
	TotalSymbols    int
	FilteredSymbols int
	FilterRatio     float64
	NoiseBreakdown  map[string]int
	QualityScore    float64
}

// FileDebt is the outcome of analyzing one parsed file.
type FileDebt struct {
	Issues       []Issue
	QualityScore float64
	FilePath     string
	FileLines    int
	TotalSymbols int
	Overload     SymbolOverloadAnalysis
}

// AnalyzeFile runs every detector over result and folds the findings into
// a single quality score.
func AnalyzeFile(result *model.ParseResult) FileDebt {
	var issues []Issue
	issues = append(issues, detectFileSizeIssues(result)...)
	issues = append(issues, detectGodClass(result)...)

	overloadIssues, overload := analyzeSymbolOverload(result)
	issues = append(issues, overloadIssues...)

	return FileDebt{
		Issues:       issues,
		QualityScore: calculateQualityScore(issues),
		FilePath:     result.Path,
		FileLines:    result.FileLines,
		TotalSymbols: len(result.Symbols),
		Overload:     overload,
	}
}

func detectFileSizeIssues(result *model.ParseResult) []Issue {
	lines := result.FileLines
	switch {
	case lines > superLargeFileLines:
		return []Issue{{
			Severity:    Critical,
			Category:    "super_large_file",
			FilePath:    result.Path,
			MetricValue: float64(lines),
			Threshold:   superLargeFileLines,
			Description: "file is oversized",
			Suggestion:  "Split into 3-5 smaller files by responsibility",
		}}
	case lines > largeFileLines:
		return []Issue{{
			Severity:    High,
			Category:    "large_file",
			FilePath:    result.Path,
			MetricValue: float64(lines),
			Threshold:   largeFileLines,
			Description: "file is large",
			Suggestion:  "Consider splitting into 2-3 smaller modules",
		}}
	}
	return nil
}

// classOwner extracts the owning class name from a method's qualified
// name, supporting PHP's "Class::method" and Python/Java/TS's
// "Class.method" separators; returns "" when the name isn't owned.
func classOwner(name string) string {
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		return name[:idx]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 && !strings.HasPrefix(name, "_") {
		return name[:idx]
	}
	return ""
}

func detectGodClass(result *model.ParseResult) []Issue {
	methodsByClass := map[string]int{}
	for _, sym := range result.Symbols {
		if sym.Kind != model.KindMethod {
			continue
		}
		owner := classOwner(sym.Name)
		if owner == "" {
			continue
		}
		methodsByClass[owner]++
	}

	var issues []Issue
	for class, count := range methodsByClass {
		if count <= godClassMethods {
			continue
		}
		splitCount := count / 20
		if splitCount < 3 {
			splitCount = 3
		}
		issues = append(issues, Issue{
			Severity:    Critical,
			Category:    "god_class",
			FilePath:    result.Path,
			MetricValue: float64(count),
			Threshold:   godClassMethods,
			Description: "class '" + class + "' has too many methods",
			Suggestion:  "Split into " + strconv.Itoa(splitCount) + " smaller classes by responsibility",
		})
	}
	return issues
}

// isNoiseSymbol classifies a symbol into a noise category, or "" if it's
// not noise. Checked in order: getter/setter naming, magic-method naming
// (leading "__", PHP and Python dunder alike), private/underscore naming,
// then a low importance score.
func isNoiseSymbol(sym model.Symbol) string {
	name := baseName(sym.Name)
	switch {
	case strings.HasPrefix(name, "get") || strings.HasPrefix(name, "set"):
		return "getters_setters"
	case strings.HasPrefix(name, "__"):
		return "magic_methods"
	case strings.HasPrefix(name, "_"):
		return "private_methods"
	case scorer.Score(sym) < lowScoreThreshold:
		return "low_score"
	default:
		return ""
	}
}

// baseName strips a "Class::" / "Class." owner prefix so naming checks
// operate on the bare method name.
func baseName(name string) string {
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		return name[idx+2:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func analyzeSymbolOverload(result *model.ParseResult) ([]Issue, SymbolOverloadAnalysis) {
	total := len(result.Symbols)
	breakdown := map[string]int{}
	noisy := 0

	for _, sym := range result.Symbols {
		if sym.Kind != model.KindMethod && sym.Kind != model.KindFunction {
			continue
		}
		if category := isNoiseSymbol(sym); category != "" {
			breakdown[category]++
			noisy++
		}
	}

	filtered := total - noisy
	ratio := 0.0
	if total > 0 {
		ratio = float64(noisy) / float64(total)
	}

	var issues []Issue
	if total > massiveSymbolCount {
		issues = append(issues, Issue{
			Severity:    Critical,
			Category:    "massive_symbol_count",
			FilePath:    result.Path,
			MetricValue: float64(total),
			Threshold:   massiveSymbolCount,
			Description: "file declares an excessive number of symbols",
			Suggestion:  "Split responsibilities across smaller files",
		})
	}
	if ratio > noiseRatioThreshold {
		issues = append(issues, Issue{
			Severity:    High,
			Category:    "low_quality_symbols",
			FilePath:    result.Path,
			MetricValue: ratio,
			Threshold:   noiseRatioThreshold,
			Description: "more than half of this file's symbols are low-value noise",
			Suggestion:  "Remove or consolidate boilerplate accessors and private helpers",
		})
	}

	overload := SymbolOverloadAnalysis{
		TotalSymbols:    total,
		FilteredSymbols: filtered,
		FilterRatio:     ratio,
		NoiseBreakdown:  breakdown,
		QualityScore:    calculateQualityScore(issues),
	}
	return issues, overload
}

func calculateQualityScore(issues []Issue) float64 {
	score := 100.0
	for _, issue := range issues {
		switch issue.Severity {
		case Critical:
			score -= 30
		case High:
			score -= 15
		case Medium:
			score -= 5
		case Low:
			score -= 2
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
