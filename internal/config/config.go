// Package config loads the run configuration file (YAML or JSON) shared by
// the extract and analysis commands.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"natsfla/adapters/natsbench"
)

// Bench names the benchmark source: exactly one of Path (local benchmark
// file) or BaseURL (hosted endpoint).
type Bench struct {
	Path    string `yaml:"path" json:"path"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	// TimeoutSeconds applies to the hosted endpoint only. 0 = no timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Extract configures the extraction pass.
type Extract struct {
	Output      string   `yaml:"output" json:"output"`
	Datasets    []string `yaml:"datasets" json:"datasets"`
	Metrics     []string `yaml:"metrics" json:"metrics"`
	HP          int      `yaml:"hp" json:"hp"`
	Limit       int      `yaml:"limit" json:"limit"`
	SkipMissing bool     `yaml:"skip_missing" json:"skip_missing"`
}

// Analysis configures the landscape metric suite.
type Analysis struct {
	Seed            int64 `yaml:"seed" json:"seed"`
	AutocorrLag     int   `yaml:"autocorr_lag" json:"autocorr_lag"`
	AutocorrTrials  int   `yaml:"autocorr_trials" json:"autocorr_trials"`
	AutocorrWalkLen int   `yaml:"autocorr_walk_len" json:"autocorr_walk_len"`
	BasinLimit      int   `yaml:"basin_limit" json:"basin_limit"`
}

// Config is the full run configuration.
type Config struct {
	Bench    Bench    `yaml:"bench" json:"bench"`
	Extract  Extract  `yaml:"extract" json:"extract"`
	Analysis Analysis `yaml:"analysis" json:"analysis"`
}

// Default returns the configuration matching the original study: full
// search space, 200-epoch test accuracy on all three datasets.
func Default() Config {
	return Config{
		Extract: Extract{
			Output:   "nats_bench.csv",
			Datasets: natsbench.Datasets(),
			Metrics:  []string{natsbench.MetricTestAccuracy},
			HP:       natsbench.DefaultHP,
		},
		Analysis: Analysis{
			Seed:            1,
			AutocorrLag:     1,
			AutocorrTrials:  10,
			AutocorrWalkLen: 10,
			BasinLimit:      3,
		},
	}
}

// Load parses a configuration from bytes over the defaults. ext is the file
// extension (".yaml", ".json") as a format hint; empty = detect from content.
func Load(data []byte, ext string) (*Config, error) {
	cfg := Default()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		// Detect: JSON objects start with '{'; everything else is YAML.
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q", ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromPath reads and parses a configuration file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

func (c *Config) validate() error {
	if c.Bench.Path != "" && c.Bench.BaseURL != "" {
		return fmt.Errorf("config: bench.path and bench.base_url are mutually exclusive")
	}
	if c.Extract.HP < 0 || c.Extract.Limit < 0 {
		return fmt.Errorf("config: extract.hp and extract.limit must be non-negative")
	}
	if c.Analysis.AutocorrLag < 0 || c.Analysis.AutocorrTrials < 0 || c.Analysis.AutocorrWalkLen < 0 {
		return fmt.Errorf("config: analysis knobs must be non-negative")
	}
	return nil
}
