// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package techdebt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/codeindex/pkg/model"
)

func makeMethod(name string, lines int) model.Symbol {
	return model.Symbol{
		Name:      name,
		Kind:      model.KindMethod,
		Signature: "public function " + name + "()",
		LineStart: 1,
		LineEnd:   1 + lines,
	}
}

func TestAnalyzeFile_GodClass(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < 57; i++ {
		symbols = append(symbols, makeMethod("OperateGoods::method", 3))
	}
	result := &model.ParseResult{Path: "OperateGoods.class.php", FileLines: 2000, Symbols: symbols}

	debt := AnalyzeFile(result)

	var godClass *Issue
	for i := range debt.Issues {
		if debt.Issues[i].Category == "god_class" {
			godClass = &debt.Issues[i]
		}
	}
	require.NotNil(t, godClass)
	assert.Equal(t, Critical, godClass.Severity)
	assert.Equal(t, 57.0, godClass.MetricValue)
	assert.Equal(t, 50.0, godClass.Threshold)
	assert.Equal(t, 70.0, debt.QualityScore)
}

func TestAnalyzeFile_SuperLargeFile(t *testing.T) {
	result := &model.ParseResult{Path: "huge.py", FileLines: 6000}
	debt := AnalyzeFile(result)

	require.Len(t, debt.Issues, 1)
	assert.Equal(t, "super_large_file", debt.Issues[0].Category)
	assert.Equal(t, Critical, debt.Issues[0].Severity)
}

func TestAnalyzeFile_LargeFileSuppressedBySuperLarge(t *testing.T) {
	result := &model.ParseResult{Path: "huge.py", FileLines: 6000}
	debt := AnalyzeFile(result)

	for _, issue := range debt.Issues {
		assert.NotEqual(t, "large_file", issue.Category)
	}
}

func TestAnalyzeFile_MassiveSymbolCount(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < 120; i++ {
		symbols = append(symbols, model.Symbol{Name: "f", Kind: model.KindFunction, LineStart: 1, LineEnd: 2})
	}
	result := &model.ParseResult{Path: "f.py", FileLines: 300, Symbols: symbols}

	debt := AnalyzeFile(result)

	var massive *Issue
	for i := range debt.Issues {
		if debt.Issues[i].Category == "massive_symbol_count" {
			massive = &debt.Issues[i]
		}
	}
	require.NotNil(t, massive)
	assert.Equal(t, 120.0, massive.MetricValue)
}

func TestAnalyzeFile_SymbolCountAtBoundaryNotFlagged(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < 100; i++ {
		symbols = append(symbols, model.Symbol{Name: "f", Kind: model.KindFunction, LineStart: 1, LineEnd: 2})
	}
	result := &model.ParseResult{Path: "f.py", FileLines: 300, Symbols: symbols}

	debt := AnalyzeFile(result)
	for _, issue := range debt.Issues {
		assert.NotEqual(t, "massive_symbol_count", issue.Category)
	}
}

func TestAnalyzeFile_NoiseBreakdownCategorization(t *testing.T) {
	var symbols []model.Symbol
	for i := 0; i < 3; i++ {
		symbols = append(symbols, model.Symbol{Name: "Class::get", Kind: model.KindMethod, LineStart: 1, LineEnd: 2})
	}
	symbols = append(symbols, model.Symbol{Name: "Class::_helper", Kind: model.KindMethod, LineStart: 1, LineEnd: 2})
	symbols = append(symbols, model.Symbol{Name: "Class::__construct", Kind: model.KindConstructor, LineStart: 1, LineEnd: 2})
	symbols = append(symbols, model.Symbol{Name: "Class::__construct", Kind: model.KindMethod, LineStart: 1, LineEnd: 2})

	result := &model.ParseResult{Path: "test.php", FileLines: 500, Symbols: symbols}
	debt := AnalyzeFile(result)

	assert.Equal(t, 3, debt.Overload.NoiseBreakdown["getters_setters"])
	assert.Equal(t, 1, debt.Overload.NoiseBreakdown["private_methods"])
	assert.Equal(t, 1, debt.Overload.NoiseBreakdown["magic_methods"])
}

func TestAnalyzeFile_NoIssuesKeepsScoreAt100(t *testing.T) {
	result := &model.ParseResult{Path: "clean.py", FileLines: 50, Symbols: []model.Symbol{
		{Name: "processOrder", Kind: model.KindFunction, Docstring: "Processes an order end to end.", LineStart: 1, LineEnd: 10},
	}}
	debt := AnalyzeFile(result)
	assert.Empty(t, debt.Issues)
	assert.Equal(t, 100.0, debt.QualityScore)
}

func TestBuildReport_AggregatesAcrossFiles(t *testing.T) {
	d1 := AnalyzeFile(&model.ParseResult{Path: "a.py", FileLines: 6000})
	d2 := AnalyzeFile(&model.ParseResult{Path: "b.py", FileLines: 50})

	report := BuildReport([]FileDebt{d1, d2})

	assert.Equal(t, 2, report.TotalFiles)
	assert.Equal(t, 1, report.TotalIssues)
	assert.Equal(t, 1, report.CriticalIssues)
	assert.InDelta(t, (70.0+100.0)/2, report.AverageQualityScore, 0.001)
}

func TestFormatters_ProduceNonEmptyOutput(t *testing.T) {
	d1 := AnalyzeFile(&model.ParseResult{Path: "a.py", FileLines: 6000})
	report := BuildReport([]FileDebt{d1})

	assert.Contains(t, ConsoleFormatter{}.Format(report), "Technical Debt Report")
	assert.Contains(t, MarkdownFormatter{}.Format(report), "# Technical Debt Report")
	assert.Contains(t, JSONFormatter{}.Format(report), "\"total_files\": 1")
}
