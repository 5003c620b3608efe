// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrPtr_PointsToACopyOfTheGivenValue(t *testing.T) {
	p := StrPtr("syntax_error")
	assert.NotNil(t, p)
	assert.Equal(t, "syntax_error", *p)
}

func TestIntPtr_PointsToACopyOfTheGivenValue(t *testing.T) {
	p := IntPtr(3)
	assert.NotNil(t, p)
	assert.Equal(t, 3, *p)
}
