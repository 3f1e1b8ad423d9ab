package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"Bacteria", "Archaea", "Eukaryota", "Viruses"}, cfg.Domains)
	assert.Equal(t, 5, cfg.DefaultTopK)
	assert.Equal(t, int64(10), cfg.DefaultMinReads)
	assert.Equal(t, "none", cfg.GhostLabel)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
analysis_name: Ward 3 run
report_path: /data/run.kreport
update_interval_seconds: 10
default_reads_per_level: 8
species_of_interest: [562, 1639]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Ward 3 run", cfg.AnalysisName)
	assert.Equal(t, "/data/run.kreport", cfg.ReportPath)
	assert.Equal(t, 10, cfg.UpdateIntervalSeconds)
	assert.Equal(t, 8, cfg.DefaultTopK)
	assert.Equal(t, []int64{562, 1639}, cfg.SpeciesOfInterest)

	// Untouched keys keep their defaults.
	assert.Equal(t, []string{"D", "K", "P", "C", "O", "F", "G", "S"}, cfg.RankLetters)
	assert.Equal(t, int64(10), cfg.DefaultMinReads)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "domains: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, "default_reads_per_level: 0")
	_, err := Load(path)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no rank letters", func(c *Config) { c.RankLetters = nil }},
		{"bad rank letter", func(c *Config) { c.RankLetters = []string{"D", "p"} }},
		{"multi-char rank letter", func(c *Config) { c.RankLetters = []string{"G1"} }},
		{"default letter outside hierarchy", func(c *Config) { c.DefaultRankLetters = []string{"X"} }},
		{"zero top-k", func(c *Config) { c.DefaultTopK = 0 }},
		{"negative min reads", func(c *Config) { c.DefaultMinReads = -1 }},
		{"zero interval", func(c *Config) { c.UpdateIntervalSeconds = 0 }},
		{"empty ghost label", func(c *Config) { c.GhostLabel = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), internalerr.ErrInvalidConfig)
		})
	}
}
