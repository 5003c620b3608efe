// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgressConfig_DisabledUnderJSONOrQuietOrNonTTY(t *testing.T) {
	tests := []struct {
		name    string
		globals GlobalFlags
	}{
		{"defaults, non-tty stderr in tests", GlobalFlags{}},
		{"quiet", GlobalFlags{Quiet: true}},
		{"json", GlobalFlags{JSON: true}},
		{"json and quiet", GlobalFlags{JSON: true, Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewProgressConfig(tt.globals)
			assert.False(t, cfg.Enabled, "stderr is never a TTY under go test")
		})
	}
}

func TestNewProgressConfig_PropagatesNoColor(t *testing.T) {
	cfg := NewProgressConfig(GlobalFlags{NoColor: true})
	assert.True(t, cfg.NoColor)
}

func TestNewSpinner_NilWhenDisabled(t *testing.T) {
	cfg := ProgressConfig{Enabled: false}
	assert.Nil(t, NewSpinner(cfg, "indexing"))
}
