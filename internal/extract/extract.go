// Package extract runs the extraction pass: enumerate the benchmark's
// (architecture, dataset) grid, query each cell, and collect the results
// as flat table rows.
//
// The pass is strictly sequential. Row order is part of the contract: a
// deterministic client and identical options produce an identical table.
package extract

import (
	"context"
	"errors"
	"fmt"

	"natsfla/adapters/natsbench"
	"natsfla/internal/dataset"
	"natsfla/internal/logging"
)

// Options configure one extraction pass.
type Options struct {
	// Datasets to query. Empty means all benchmark datasets.
	Datasets []string
	// Metrics to extract from each result record. Empty means test-accuracy.
	Metrics []string
	// HP is the training budget (epochs) to query.
	HP int
	// Limit caps the number of architectures; 0 means the full source.
	Limit int
	// SkipMissing logs and skips ErrNotFound entries instead of aborting.
	// Any other failure still aborts.
	SkipMissing bool
	// LogEvery emits a progress line every N architectures; 0 disables.
	LogEvery int
}

func (o Options) withDefaults() Options {
	if len(o.Datasets) == 0 {
		o.Datasets = natsbench.Datasets()
	}
	if len(o.Metrics) == 0 {
		o.Metrics = []string{natsbench.MetricTestAccuracy}
	}
	if o.HP == 0 {
		o.HP = natsbench.DefaultHP
	}
	return o
}

// Run executes the extraction pass and returns the collected table.
// On failure the partial table is discarded and the failing query is
// reported; with SkipMissing, missing benchmark entries are skipped for
// every metric of that (architecture, dataset) pair.
func Run(ctx context.Context, client natsbench.Client, opts Options) (*dataset.Table, error) {
	opts = opts.withDefaults()
	logger := logging.New("extract")

	size, err := client.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: benchmark size: %w", err)
	}
	if opts.Limit > 0 && opts.Limit < size {
		size = opts.Limit
	}
	logger.Info("extraction pass",
		"architectures", size, "datasets", opts.Datasets, "metrics", opts.Metrics, "hp", opts.HP)

	table := dataset.New()
	skipped := 0
	for i := 0; i < size; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extract: at architecture %d: %w", i, err)
		}
		arch, err := client.Arch(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("extract: architecture %d: %w", i, err)
		}
		for _, ds := range opts.Datasets {
			info, err := client.MoreInfo(ctx, i, ds, opts.HP)
			if err != nil {
				if opts.SkipMissing && errors.Is(err, natsbench.ErrNotFound) {
					logger.Warn("skipping missing benchmark entry", "arch", i, "dataset", ds, "hp", opts.HP)
					skipped++
					continue
				}
				return nil, fmt.Errorf("extract: query arch %d dataset %s: %w", i, ds, err)
			}
			for _, metric := range opts.Metrics {
				value, err := info.Metric(metric)
				if err != nil {
					return nil, fmt.Errorf("extract: arch %d dataset %s: %w", i, ds, err)
				}
				row := dataset.Row{ArchIndex: i, ArchStr: arch, Dataset: ds, Metric: metric, Value: value}
				if err := table.Append(row); err != nil {
					return nil, fmt.Errorf("extract: %w", err)
				}
			}
		}
		if opts.LogEvery > 0 && (i+1)%opts.LogEvery == 0 {
			logger.Info("progress", "done", i+1, "of", size)
		}
	}
	logger.Info("extraction complete", "rows", table.Len(), "skipped", skipped)
	return table, nil
}
