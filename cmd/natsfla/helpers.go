package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"natsfla/adapters/natsbench"
	"natsfla/internal/config"
	"natsfla/internal/format"
	"natsfla/internal/logging"
)

// loadConfig returns the run configuration: the file at path layered over
// defaults, or plain defaults when no file is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.LoadFromPath(path)
}

// openClient resolves the benchmark source named by the configuration.
// The returned closer is a no-op for remote clients.
func openClient(cfg *config.Config) (natsbench.Client, func() error, error) {
	switch {
	case cfg.Bench.Path != "":
		store, err := natsbench.Open(cfg.Bench.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case cfg.Bench.BaseURL != "":
		opts := []natsbench.HTTPOption{natsbench.WithLogger(logging.New("natsbench"))}
		if cfg.Bench.TimeoutSeconds > 0 {
			opts = append(opts, natsbench.WithTimeout(time.Duration(cfg.Bench.TimeoutSeconds)*time.Second))
		}
		client, err := natsbench.NewHTTPClient(cfg.Bench.BaseURL, opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("no benchmark source: set bench.path or bench.base_url (--bench / --bench-url)")
	}
}

// tableMode maps the --markdown flag onto a format mode.
func tableMode(markdown bool) format.Mode {
	if markdown {
		return format.Markdown
	}
	return format.ASCII
}

// writeSeriesCSV writes a small derived artifact (walk series, summaries)
// as a headered CSV file.
func writeSeriesCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
