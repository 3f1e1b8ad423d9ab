// Package config loads the project configuration consumed by the engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
)

// Config mirrors the project config.yaml.
type Config struct {
	AnalysisName          string `yaml:"analysis_name"`
	ReportPath            string `yaml:"report_path"`
	UpdateIntervalSeconds int    `yaml:"update_interval_seconds"`

	// Top-level domains selectable for filtering.
	Domains []string `yaml:"domains"`

	// Full rank-letter hierarchy, in display order, and the subset selected
	// by default.
	RankLetters        []string `yaml:"taxonomic_hierarchy_letters"`
	DefaultRankLetters []string `yaml:"default_hierarchy_letters"`

	DefaultTopK     int   `yaml:"default_reads_per_level"`
	DefaultMinReads int64 `yaml:"default_min_reads"`

	GhostLabel string `yaml:"ghost_label"`
	SankeyPad  int    `yaml:"sankey_pad"`

	SpeciesOfInterest []int64 `yaml:"species_of_interest"`
	DangerLowerLimit  int64   `yaml:"danger_lower_limit"`
}

// Default returns the stock configuration: all four standard domains, the
// full D–S hierarchy with everything below kingdom selected, top 5 taxa
// per Sankey column and a minimum of 10 reads for the path charts.
func Default() Config {
	return Config{
		AnalysisName:          "Metagenomic analysis",
		UpdateIntervalSeconds: 30,
		Domains:               []string{"Bacteria", "Archaea", "Eukaryota", "Viruses"},
		RankLetters:           []string{"D", "K", "P", "C", "O", "F", "G", "S"},
		DefaultRankLetters:    []string{"D", "P", "C", "O", "F", "G", "S"},
		DefaultTopK:           5,
		DefaultMinReads:       10,
		GhostLabel:            "none",
		SankeyPad:             30,
		DangerLowerLimit:      100,
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks internal consistency.
func (c Config) Validate() error {
	if len(c.RankLetters) == 0 {
		return fmt.Errorf("%w: no rank letters", internalerr.ErrInvalidConfig)
	}
	letters := make(map[string]struct{}, len(c.RankLetters))
	for _, l := range c.RankLetters {
		if len(l) != 1 || l[0] < 'A' || l[0] > 'Z' {
			return fmt.Errorf("%w: rank letter %q", internalerr.ErrInvalidConfig, l)
		}
		letters[l] = struct{}{}
	}
	for _, l := range c.DefaultRankLetters {
		if _, ok := letters[l]; !ok {
			return fmt.Errorf("%w: default rank letter %q not in hierarchy", internalerr.ErrInvalidConfig, l)
		}
	}
	if c.DefaultTopK <= 0 {
		return fmt.Errorf("%w: default_reads_per_level must be positive", internalerr.ErrInvalidConfig)
	}
	if c.DefaultMinReads < 0 {
		return fmt.Errorf("%w: default_min_reads must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.UpdateIntervalSeconds <= 0 {
		return fmt.Errorf("%w: update_interval_seconds must be positive", internalerr.ErrInvalidConfig)
	}
	if c.GhostLabel == "" {
		return fmt.Errorf("%w: ghost_label must not be empty", internalerr.ErrInvalidConfig)
	}
	return nil
}
