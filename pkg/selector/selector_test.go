// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector_CategoryBoundaries(t *testing.T) {
	s := New()
	assert.Equal(t, CategoryTiny, s.categoryFor(50))
	assert.Equal(t, CategorySmall, s.categoryFor(100))
	assert.Equal(t, CategoryMedium, s.categoryFor(200))
	assert.Equal(t, CategoryLarge, s.categoryFor(500))
	assert.Equal(t, CategoryXLarge, s.categoryFor(1000))
	assert.Equal(t, CategoryHuge, s.categoryFor(2000))
	assert.Equal(t, CategoryMega, s.categoryFor(5000))
}

func TestSelector_CalculateLimit_ClampedByTotalSymbols(t *testing.T) {
	s := New()
	assert.Equal(t, 57, s.CalculateLimit(8891, 57))
}

func TestSelector_CalculateLimit_LargeFileUsesLargeLimit(t *testing.T) {
	s := New()
	assert.Equal(t, 50, s.CalculateLimit(500, 100))
}

func TestSelector_CalculateLimit_FloorsAtMinWhenEnoughSymbols(t *testing.T) {
	s := New()
	assert.Equal(t, 5, s.CalculateLimit(50, 5))
}

func TestSelector_CalculateLimit_NeverExceedsTotalWhenBelowMin(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.CalculateLimit(10, 1))
}

func TestSelector_CalculateLimit_CeilingAtMax(t *testing.T) {
	s := &Selector{
		Thresholds: DefaultThresholds,
		Limits:     Limits{Tiny: 10, Small: 15, Medium: 25, Large: 50, XLarge: 75, Huge: 100, Mega: 250},
		MinSymbols: 5,
		MaxSymbols: 200,
	}
	assert.Equal(t, 200, s.CalculateLimit(6000, 300))
}
