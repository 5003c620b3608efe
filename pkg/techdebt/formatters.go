// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package techdebt

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kraklabs/codeindex/internal/ui"
)

// Formatter renders a Report as a complete string in one output format.
type Formatter interface {
	Format(report Report) string
}

// ConsoleFormatter renders a human-readable, color-coded summary for
// terminal output, reusing the CLI's shared color palette rather than
// hand-rolling ANSI escapes.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Format(report Report) string {
	var b strings.Builder

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, ui.Bold.Sprint("Technical Debt Report"))
	fmt.Fprintln(&b, strings.Repeat("=", 50))

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, ui.Bold.Sprint("Summary:"))
	fmt.Fprintf(&b, "  Files analyzed: %d files analyzed\n", report.TotalFiles)
	fmt.Fprintf(&b, "  Total issues: %d issues found\n", report.TotalIssues)
	fmt.Fprintf(&b, "  Quality Score: %.1f\n", report.AverageQualityScore)

	if report.TotalIssues > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, ui.Bold.Sprint("Issues by Severity:"))
		if report.CriticalIssues > 0 {
			fmt.Fprintf(&b, "  %s\n", ui.Red.Sprintf("CRITICAL: %d", report.CriticalIssues))
		}
		if report.HighIssues > 0 {
			fmt.Fprintf(&b, "  %s\n", ui.Yellow.Sprintf("HIGH: %d", report.HighIssues))
		}
		if report.MediumIssues > 0 {
			fmt.Fprintf(&b, "  MEDIUM: %d\n", report.MediumIssues)
		}
		if report.LowIssues > 0 {
			fmt.Fprintf(&b, "  LOW: %d\n", report.LowIssues)
		}
	}

	if len(report.FileReports) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, ui.Bold.Sprint("Files:"))
		for _, fr := range report.FileReports {
			if fr.TotalIssues == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n  %s:\n", fr.FilePath)
			for _, issue := range fr.Debt.Issues {
				fmt.Fprintf(&b, "    %s [%s] %s\n", severityLabel(issue.Severity), issue.Category, issue.Description)
			}
		}
	}

	fmt.Fprintln(&b)
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case Critical:
		return ui.Red.Sprint(sev.String())
	case High:
		return ui.Yellow.Sprint(sev.String())
	default:
		return sev.String()
	}
}

// MarkdownFormatter renders a Report as a Markdown document suitable for
// embedding in generated documentation.
type MarkdownFormatter struct{}

func (MarkdownFormatter) Format(report Report) string {
	var b strings.Builder

	fmt.Fprintln(&b, "# Technical Debt Report")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "## Summary")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- **Files Analyzed:** %d\n", report.TotalFiles)
	fmt.Fprintf(&b, "- **Total Issues:** %d\n", report.TotalIssues)
	fmt.Fprintf(&b, "- **Quality Score:** %.1f/100\n", report.AverageQualityScore)
	fmt.Fprintln(&b)

	if report.TotalIssues == 0 {
		return b.String()
	}

	fmt.Fprintln(&b, "### Issues by Severity")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- **CRITICAL:** %d\n", report.CriticalIssues)
	fmt.Fprintf(&b, "- **HIGH:** %d\n", report.HighIssues)
	fmt.Fprintf(&b, "- **MEDIUM:** %d\n", report.MediumIssues)
	fmt.Fprintf(&b, "- **LOW:** %d\n", report.LowIssues)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "## Issues by Severity")
	fmt.Fprintln(&b)

	for _, group := range []struct {
		sev   Severity
		count int
	}{
		{Critical, report.CriticalIssues},
		{High, report.HighIssues},
		{Medium, report.MediumIssues},
		{Low, report.LowIssues},
	} {
		if group.count == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s (%d)\n\n", group.sev, group.count)
		b.WriteString(formatIssuesTable(report, group.sev))
		fmt.Fprintln(&b)
	}

	return b.String()
}

func formatIssuesTable(report Report, sev Severity) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| File | Category | Description | Suggestion |")
	fmt.Fprintln(&b, "| --- | --- | --- | --- |")
	for _, fr := range report.FileReports {
		for _, issue := range fr.Debt.Issues {
			if issue.Severity != sev {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				filepath.Base(issue.FilePath), issue.Category, issue.Description, issue.Suggestion)
		}
	}
	return b.String()
}

// JSONFormatter renders a Report as indented, machine-readable JSON.
type JSONFormatter struct{}

type jsonIssue struct {
	Severity    string  `json:"severity"`
	Category    string  `json:"category"`
	MetricValue float64 `json:"metric_value"`
	Threshold   float64 `json:"threshold"`
	Description string  `json:"description"`
	Suggestion  string  `json:"suggestion"`
}

type jsonFileReport struct {
	FilePath     string      `json:"file_path"`
	QualityScore float64     `json:"quality_score"`
	FileLines    int         `json:"file_lines"`
	TotalSymbols int         `json:"total_symbols"`
	TotalIssues  int         `json:"total_issues"`
	Issues       []jsonIssue `json:"issues"`
}

type jsonReport struct {
	TotalFiles          int              `json:"total_files"`
	TotalIssues         int              `json:"total_issues"`
	CriticalIssues      int              `json:"critical_issues"`
	HighIssues          int              `json:"high_issues"`
	MediumIssues        int              `json:"medium_issues"`
	LowIssues           int              `json:"low_issues"`
	AverageQualityScore float64          `json:"average_quality_score"`
	FileReports         []jsonFileReport `json:"file_reports"`
}

func (JSONFormatter) Format(report Report) string {
	data := jsonReport{
		TotalFiles:          report.TotalFiles,
		TotalIssues:         report.TotalIssues,
		CriticalIssues:      report.CriticalIssues,
		HighIssues:          report.HighIssues,
		MediumIssues:        report.MediumIssues,
		LowIssues:           report.LowIssues,
		AverageQualityScore: report.AverageQualityScore,
	}
	for _, fr := range report.FileReports {
		jfr := jsonFileReport{
			FilePath:     fr.FilePath,
			QualityScore: fr.Debt.QualityScore,
			FileLines:    fr.Debt.FileLines,
			TotalSymbols: fr.Debt.TotalSymbols,
			TotalIssues:  fr.TotalIssues,
		}
		for _, issue := range fr.Debt.Issues {
			jfr.Issues = append(jfr.Issues, jsonIssue{
				Severity:    issue.Severity.String(),
				Category:    issue.Category,
				MetricValue: issue.MetricValue,
				Threshold:   issue.Threshold,
				Description: issue.Description,
				Suggestion:  issue.Suggestion,
			})
		}
		data.FileReports = append(data.FileReports, jfr)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
