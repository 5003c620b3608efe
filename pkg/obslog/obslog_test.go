// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package obslog

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsNonNilLogger(t *testing.T) {
	logger := New(slog.LevelInfo, true)
	assert.NotNil(t, logger)
}

func TestLevelFor_ZeroIsInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LevelFor(0))
}

func TestLevelFor_PositiveIsDebug(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFor(1))
	assert.Equal(t, slog.LevelDebug, LevelFor(3))
}
