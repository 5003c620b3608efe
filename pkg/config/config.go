// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package config defines the YAML-tagged configuration record the engine
// is driven by, plus the loader that reads, defaults, and validates it.
package config

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	codeerrors "github.com/kraklabs/codeindex/internal/errors"
)

// IndexingConfig controls Markdown generation: the size cap, the
// adaptive symbol-selection thresholds/limits, and file grouping.
type IndexingConfig struct {
	MaxReadmeSize    int      `yaml:"max_readme_size"`
	GroupingPatterns []string `yaml:"grouping_patterns"`
	AdaptiveTiny     int      `yaml:"adaptive_tiny"`
	AdaptiveSmall    int      `yaml:"adaptive_small"`
	AdaptiveMedium   int      `yaml:"adaptive_medium"`
	AdaptiveLarge    int      `yaml:"adaptive_large"`
	AdaptiveXLarge   int      `yaml:"adaptive_xlarge"`
	AdaptiveHuge     int      `yaml:"adaptive_huge"`
	MinSymbols       int      `yaml:"min_symbols"`
	MaxSymbols       int      `yaml:"max_symbols"`
}

// IncrementalConfig controls the change-size thresholds that decide how
// much of the repo an incremental run re-indexes.
type IncrementalConfig struct {
	SkipLines   int `yaml:"skip_lines"`
	CurrentOnly int `yaml:"current_only"`
	SuggestFull int `yaml:"suggest_full"`
}

// RoutesConfig toggles which framework route extractors run.
type RoutesConfig struct {
	ThinkPHP bool `yaml:"thinkphp"`
	Spring   bool `yaml:"spring"`
}

// Config is the top-level configuration record, unmarshalled from a
// project's YAML configuration file.
type Config struct {
	Include         []string          `yaml:"include" validate:"omitempty,dive,min=1"`
	Exclude         []string          `yaml:"exclude" validate:"omitempty,dive,min=1"`
	Languages       []string          `yaml:"languages" validate:"required,dive,oneof=python php java typescript javascript"`
	ParallelWorkers int               `yaml:"parallel_workers" validate:"min=1"`
	OutputFile      string            `yaml:"output_file" validate:"required"`
	Indexing        IndexingConfig    `yaml:"indexing"`
	Incremental     IncrementalConfig `yaml:"incremental"`
	Routes          RoutesConfig      `yaml:"routes"`
}

// DefaultConfig mirrors the §4.5/§4.7 constants and the rest of the
// stock defaults: all five languages enabled, one worker per CPU,
// README_AI.md output.
func DefaultConfig() *Config {
	return &Config{
		Languages:       []string{"python", "php", "java", "typescript", "javascript"},
		ParallelWorkers: runtime.NumCPU(),
		OutputFile:      "README_AI.md",
		Indexing: IndexingConfig{
			MaxReadmeSize:    50 * 1024,
			GroupingPatterns: []string{"Controller", "Service", "Model", "Repository"},
			AdaptiveTiny:     100,
			AdaptiveSmall:    200,
			AdaptiveMedium:   500,
			AdaptiveLarge:    1000,
			AdaptiveXLarge:   2000,
			AdaptiveHuge:     5000,
			MinSymbols:       5,
			MaxSymbols:       200,
		},
		Incremental: IncrementalConfig{SkipLines: 5, CurrentOnly: 50, SuggestFull: 200},
		Routes:      RoutesConfig{ThinkPHP: true, Spring: true},
	}
}

// Load reads and unmarshals the YAML configuration at path, applies
// defaults for zero-valued fields, and validates the result. A missing
// file or a failed validation returns a *codeerrors.RunError so the
// CLI's exit-code mapping stays total.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, codeerrors.NewNoConfigFound(
				"no configuration file found",
				path,
				err,
			)
		}
		return nil, codeerrors.NewInvalidPath("cannot read configuration file", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, codeerrors.NewInvalidPath("cannot parse configuration file", err.Error(), err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, codeerrors.NewInvalidPath("configuration failed validation", err.Error(), err)
	}

	return cfg, nil
}

// applyDefaults fills in any field a partial YAML document left at its
// zero value.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if len(cfg.Languages) == 0 {
		cfg.Languages = defaults.Languages
	}
	if cfg.ParallelWorkers == 0 {
		cfg.ParallelWorkers = defaults.ParallelWorkers
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = defaults.OutputFile
	}
	if cfg.Indexing.MaxReadmeSize == 0 {
		cfg.Indexing.MaxReadmeSize = defaults.Indexing.MaxReadmeSize
	}
	if len(cfg.Indexing.GroupingPatterns) == 0 {
		cfg.Indexing.GroupingPatterns = defaults.Indexing.GroupingPatterns
	}
	if cfg.Indexing.AdaptiveTiny == 0 {
		cfg.Indexing = defaults.Indexing
	}
	if cfg.Incremental == (IncrementalConfig{}) {
		cfg.Incremental = defaults.Incremental
	}
}
