// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/codeindex/pkg/model"
)

func TestScore_BaselineNeutralSymbol(t *testing.T) {
	sym := model.Symbol{Name: "run", LineStart: 1, LineEnd: 2}
	assert.Equal(t, 50.0, Score(sym))
}

func TestScore_DocstringBonus(t *testing.T) {
	sym := model.Symbol{Name: "run", Docstring: "Explains what this function does in detail.", LineStart: 1, LineEnd: 2}
	assert.Equal(t, 60.0, Score(sym))
}

func TestScore_LargeSpanBonus(t *testing.T) {
	sym := model.Symbol{Name: "run", LineStart: 1, LineEnd: 60}
	assert.Equal(t, 65.0, Score(sym))
}

func TestScore_ModerateSpanBonus(t *testing.T) {
	sym := model.Symbol{Name: "run", LineStart: 1, LineEnd: 25}
	assert.Equal(t, 55.0, Score(sym))
}

func TestScore_GetterPenalty(t *testing.T) {
	sym := model.Symbol{Name: "getName", LineStart: 1, LineEnd: 2}
	assert.Equal(t, 40.0, Score(sym))
}

func TestScore_ClampedToRange(t *testing.T) {
	sym := model.Symbol{
		Name:      "getX",
		Docstring: "", // no bonus
		LineStart: 1,
		LineEnd:   1,
	}
	assert.GreaterOrEqual(t, Score(sym), 0.0)
	assert.LessOrEqual(t, Score(sym), 100.0)
}

func TestVisibilityScore_PHPKeywords(t *testing.T) {
	assert.Equal(t, 20.0, visibilityScore(model.Symbol{Signature: "public function f()"}))
	assert.Equal(t, 10.0, visibilityScore(model.Symbol{Signature: "protected function f()"}))
	assert.Equal(t, 0.0, visibilityScore(model.Symbol{Signature: "private function f()"}))
}

func TestVisibilityScore_PythonNaming(t *testing.T) {
	assert.Equal(t, 15.0, visibilityScore(model.Symbol{Name: "run", Signature: "def run():"}))
	assert.Equal(t, 5.0, visibilityScore(model.Symbol{Name: "_run", Signature: "def _run():"}))
}
