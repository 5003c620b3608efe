// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package scorer ranks symbols by documentation importance: a clamped
// [0, 100] score built from a neutral baseline plus signals for doc
// quality, size, and naming, used by the writer to decide which symbols
// survive the adaptive selector's display limit.
package scorer

import (
	"strings"

	"github.com/kraklabs/codeindex/pkg/model"
)

const (
	baseScore = 50.0

	hasDocstringBonus  = 10.0
	largeSpanBonus     = 15.0
	moderateSpanBonus  = 5.0
	getterPenalty      = -10.0

	largeSpanLines    = 50
	moderateSpanLines = 20

	visibilityPublicPHP    = 20.0
	visibilityProtectedPHP = 10.0
	visibilityPrivatePHP   = 0.0
	visibilityPublicPy     = 15.0
	visibilityPrivatePy    = 5.0
)

// Score computes a symbol's importance in [0, 100]. Starting from a
// neutral 50, it adds for a meaningful docstring and for a large or
// moderate line span, and subtracts for a get-prefixed name.
func Score(sym model.Symbol) float64 {
	score := baseScore

	if len(strings.TrimSpace(sym.Docstring)) > 10 {
		score += hasDocstringBonus
	}

	lines := sym.LineEnd - sym.LineStart + 1
	switch {
	case lines > largeSpanLines:
		score += largeSpanBonus
	case lines > moderateSpanLines:
		score += moderateSpanBonus
	}

	if strings.HasPrefix(sym.Name, "get") && len(sym.Name) > 3 {
		score += getterPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// visibilityScore is the PHP-keyword / Python-underscore visibility
// composite described for a future scoring dimension. It is not wired
// into Score: the current scoring model does not include it, matching
// the dormant state of the system this package ports.
func visibilityScore(sym model.Symbol) float64 {
	sig := strings.ToLower(sym.Signature)
	switch {
	case strings.Contains(sig, "public"):
		return visibilityPublicPHP
	case strings.Contains(sig, "protected"):
		return visibilityProtectedPHP
	case strings.Contains(sig, "private"):
		return visibilityPrivatePHP
	}
	if strings.HasPrefix(sym.Name, "_") {
		return visibilityPrivatePy
	}
	return visibilityPublicPy
}
