package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Extract.Output != "nats_bench.csv" {
		t.Errorf("Output = %q", cfg.Extract.Output)
	}
	if cfg.Extract.HP != 200 {
		t.Errorf("HP = %d, want 200", cfg.Extract.HP)
	}
	if len(cfg.Extract.Datasets) != 3 {
		t.Errorf("Datasets = %v, want all three", cfg.Extract.Datasets)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	data := []byte(`
bench:
  path: bench.db
extract:
  hp: 12
  datasets: [cifar10]
`)
	cfg, err := Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bench.Path != "bench.db" {
		t.Errorf("Bench.Path = %q", cfg.Bench.Path)
	}
	if cfg.Extract.HP != 12 {
		t.Errorf("HP = %d, want 12", cfg.Extract.HP)
	}
	if diff := cmp.Diff([]string{"cifar10"}, cfg.Extract.Datasets); diff != "" {
		t.Errorf("Datasets (-want +got):\n%s", diff)
	}
	// Untouched fields keep their defaults.
	if cfg.Extract.Output != "nats_bench.csv" {
		t.Errorf("Output = %q, want default", cfg.Extract.Output)
	}
}

func TestLoad_JSONDetectedByContent(t *testing.T) {
	data := []byte(`{"bench": {"base_url": "http://bench.local"}, "analysis": {"seed": 42}}`)
	cfg, err := Load(data, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bench.BaseURL != "http://bench.local" {
		t.Errorf("BaseURL = %q", cfg.Bench.BaseURL)
	}
	if cfg.Analysis.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Analysis.Seed)
	}
}

func TestLoad_RejectsAmbiguousBench(t *testing.T) {
	data := []byte(`
bench:
  path: bench.db
  base_url: http://bench.local
`)
	if _, err := Load(data, ".yaml"); err == nil {
		t.Error("both path and base_url: want error")
	}
}

func TestLoad_RejectsNegativeKnobs(t *testing.T) {
	if _, err := Load([]byte(`{"extract": {"hp": -1}}`), ".json"); err == nil {
		t.Error("negative hp: want error")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yml")
	if err := os.WriteFile(path, []byte("extract:\n  limit: 100\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Extract.Limit != 100 {
		t.Errorf("Limit = %d, want 100", cfg.Extract.Limit)
	}

	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}
}
