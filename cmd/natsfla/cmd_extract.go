package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"natsfla/internal/extract"
	"natsfla/internal/format"
)

func newExtractCmd() *cobra.Command {
	var (
		configPath  string
		benchPath   string
		benchURL    string
		out         string
		datasets    []string
		metrics     []string
		hp          int
		limit       int
		skipMissing bool
		logEvery    int
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract benchmark results into a flat CSV",
		Long: "Extract enumerates the (architecture, dataset) grid of the benchmark\n" +
			"source, queries each cell, and writes one row per metric to the output\n" +
			"CSV. The pass is sequential and deterministic; the output file is\n" +
			"replaced wholesale.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if benchPath != "" {
				cfg.Bench.Path = benchPath
				cfg.Bench.BaseURL = ""
			}
			if benchURL != "" {
				cfg.Bench.BaseURL = benchURL
				cfg.Bench.Path = ""
			}
			if cmd.Flags().Changed("out") {
				cfg.Extract.Output = out
			}
			if cmd.Flags().Changed("datasets") {
				cfg.Extract.Datasets = datasets
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Extract.Metrics = metrics
			}
			if cmd.Flags().Changed("hp") {
				cfg.Extract.HP = hp
			}
			if cmd.Flags().Changed("limit") {
				cfg.Extract.Limit = limit
			}
			if cmd.Flags().Changed("skip-missing") {
				cfg.Extract.SkipMissing = skipMissing
			}

			client, closeClient, err := openClient(cfg)
			if err != nil {
				return err
			}
			defer closeClient()

			start := time.Now()
			table, err := extract.Run(cmd.Context(), client, extract.Options{
				Datasets:    cfg.Extract.Datasets,
				Metrics:     cfg.Extract.Metrics,
				HP:          cfg.Extract.HP,
				Limit:       cfg.Extract.Limit,
				SkipMissing: cfg.Extract.SkipMissing,
				LogEvery:    logEvery,
			})
			if err != nil {
				return err
			}
			if err := table.WriteFile(cfg.Extract.Output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s in %s\n",
				table.Len(), cfg.Extract.Output, format.FmtDuration(time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Run configuration file (YAML/JSON)")
	cmd.Flags().StringVar(&benchPath, "bench", "", "Path to a local benchmark file")
	cmd.Flags().StringVar(&benchURL, "bench-url", "", "Base URL of a hosted benchmark endpoint")
	cmd.Flags().StringVarP(&out, "out", "o", "nats_bench.csv", "Output CSV path")
	cmd.Flags().StringSliceVar(&datasets, "datasets", nil, "Datasets to extract (default: all)")
	cmd.Flags().StringSliceVar(&metrics, "metrics", nil, "Metrics to extract (default: test-accuracy)")
	cmd.Flags().IntVar(&hp, "hp", 200, "Training budget (epochs) to query")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap on architectures (0 = full search space)")
	cmd.Flags().BoolVar(&skipMissing, "skip-missing", false, "Skip missing benchmark entries instead of aborting")
	cmd.Flags().IntVar(&logEvery, "log-every", 500, "Progress log interval in architectures (0 = off)")
	return cmd
}
