package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"natsfla/internal/dataset"
	"natsfla/internal/display"
	"natsfla/internal/format"
	"natsfla/internal/landscape"
	"natsfla/internal/stats"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		in         string
		ds         string
		metric     string
		seed       int64
		trials     int
		walkLen    int
		lag        int
		basinLimit int
		markdown   bool
		out        string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Landscape metric suite over an extracted CSV",
		Long: "Analyze loads an extraction CSV and computes the landscape summary per\n" +
			"dataset: FDC, local maxima, modality, random-walk autocorrelation and\n" +
			"attraction basins. With more than one dataset it also reports the\n" +
			"cross-dataset Spearman rank correlation of fitness.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Analysis.Seed
			}
			if !cmd.Flags().Changed("trials") {
				trials = cfg.Analysis.AutocorrTrials
			}
			if !cmd.Flags().Changed("walk-len") {
				walkLen = cfg.Analysis.AutocorrWalkLen
			}
			if !cmd.Flags().Changed("lag") {
				lag = cfg.Analysis.AutocorrLag
			}
			if !cmd.Flags().Changed("basin-limit") {
				basinLimit = cfg.Analysis.BasinLimit
			}

			table, err := dataset.ReadFile(in)
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Table %s is empty: nothing to analyze\n", in)
				return nil
			}

			datasets := table.Datasets()
			if ds != "all" {
				datasets = []string{ds}
			}

			opts := landscape.SummaryOptions{
				AutocorrLag:     lag,
				AutocorrTrials:  trials,
				AutocorrWalkLen: walkLen,
				BasinLimit:      basinLimit,
			}

			// Per-dataset analyses are independent. Results are slotted by
			// index so output order stays deterministic.
			summaries := make([]*landscape.Summary, len(datasets))
			fitsByDataset := make([][]float64, len(datasets))
			optima := make([]string, len(datasets))
			var g errgroup.Group
			for i, name := range datasets {
				g.Go(func() error {
					fits, genotypes, err := table.Fitness(name, metric)
					if err != nil {
						return err
					}
					a, err := landscape.New(fits, genotypes, landscape.WithSeed(seed))
					if err != nil {
						return fmt.Errorf("dataset %s: %w", name, err)
					}
					s, err := a.Summarize(opts)
					if err != nil {
						return fmt.Errorf("dataset %s: %w", name, err)
					}
					summaries[i] = s
					fitsByDataset[i] = fits
					optima[i] = genotypes[stats.ArgMax(fits)]
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Landscape summary for %s\n\n", display.MetricWithCode(metric))
			fmt.Fprintln(w, summaryTable(datasets, summaries, optima, tableMode(markdown)))

			if len(datasets) > 1 {
				fmt.Fprintln(w, "\nCross-dataset fitness rank correlation")
				fmt.Fprintln(w, rankCorrelationTable(datasets, fitsByDataset, tableMode(markdown)))
			}

			if out != "" {
				if err := writeSummaryCSV(out, datasets, summaries); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nSummary written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Run configuration file (YAML/JSON)")
	cmd.Flags().StringVar(&in, "in", "nats_bench.csv", "Extraction CSV to analyze")
	cmd.Flags().StringVar(&ds, "dataset", "all", "Dataset to analyze, or 'all'")
	cmd.Flags().StringVar(&metric, "metric", "test-accuracy", "Metric column to treat as fitness")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for walks")
	cmd.Flags().IntVar(&trials, "trials", 10, "Autocorrelation trials")
	cmd.Flags().IntVar(&walkLen, "walk-len", 10, "Autocorrelation walk length")
	cmd.Flags().IntVar(&lag, "lag", 1, "Autocorrelation lag")
	cmd.Flags().IntVar(&basinLimit, "basin-limit", 3, "Basins computed per dataset, fittest maxima first (0 = all)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render tables as Markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Optional summary CSV artifact")
	return cmd
}

// summaryTable renders one column per dataset and one row per landscape
// metric.
func summaryTable(datasets []string, summaries []*landscape.Summary, optima []string, mode format.Mode) string {
	header := []string{"Metric"}
	for _, ds := range datasets {
		header = append(header, display.Dataset(ds))
	}

	tb := format.NewTable(mode)
	tb.Header(header...)

	row := func(name string, value func(*landscape.Summary) string) {
		vals := make([]any, 0, len(summaries)+1)
		vals = append(vals, name)
		for _, s := range summaries {
			vals = append(vals, value(s))
		}
		tb.Row(vals...)
	}

	row("Architectures", func(s *landscape.Summary) string { return strconv.Itoa(s.Size) })
	row(display.LandscapeMetric("fdc"), func(s *landscape.Summary) string { return format.FmtFloat(s.FDC, 4) })
	row(display.LandscapeMetric("local_maxima"), func(s *landscape.Summary) string { return strconv.Itoa(s.NumLocalMaxima) })
	row(display.LandscapeMetric("modality"), func(s *landscape.Summary) string { return format.FmtPercent(s.Modality) })
	row(display.LandscapeMetric("autocorrelation"), func(s *landscape.Summary) string { return format.FmtFloat(s.Autocorrelation, 4) })
	row(display.LandscapeMetric("correlation_length"), func(s *landscape.Summary) string { return format.FmtFloat(s.CorrelationLength, 2) })
	row(display.LandscapeMetric("weak_basins"), func(s *landscape.Summary) string { return strconv.Itoa(s.NumWeakBasins) })
	row(display.LandscapeMetric("strong_basins"), func(s *landscape.Summary) string { return strconv.Itoa(s.NumStrongBasins) })
	row(display.LandscapeMetric("largest_basin"), func(s *landscape.Summary) string { return format.FmtPercent(s.LargestBasinShare) })

	vals := make([]any, 0, len(optima)+1)
	vals = append(vals, "Global Optimum")
	for _, arch := range optima {
		vals = append(vals, format.Truncate(arch, 40))
	}
	tb.Row(vals...)
	return tb.String()
}

// rankCorrelationTable renders the pairwise Spearman correlation between
// dataset fitness vectors.
func rankCorrelationTable(datasets []string, fits [][]float64, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Datasets", "Spearman")
	for i := 0; i < len(datasets); i++ {
		for j := i + 1; j < len(datasets); j++ {
			pair := display.Dataset(datasets[i]) + " vs " + display.Dataset(datasets[j])
			tb.Row(pair, format.FmtFloat(stats.Spearman(fits[i], fits[j]), 4))
		}
	}
	return tb.String()
}

// writeSummaryCSV writes the summaries as long-form (dataset, metric,
// value) rows.
func writeSummaryCSV(path string, datasets []string, summaries []*landscape.Summary) error {
	fields := []struct {
		key   string
		value func(*landscape.Summary) string
	}{
		{"fdc", func(s *landscape.Summary) string { return fmtG(s.FDC) }},
		{"local_maxima", func(s *landscape.Summary) string { return strconv.Itoa(s.NumLocalMaxima) }},
		{"modality", func(s *landscape.Summary) string { return fmtG(s.Modality) }},
		{"autocorrelation", func(s *landscape.Summary) string { return fmtG(s.Autocorrelation) }},
		{"correlation_length", func(s *landscape.Summary) string { return fmtG(s.CorrelationLength) }},
		{"weak_basins", func(s *landscape.Summary) string { return strconv.Itoa(s.NumWeakBasins) }},
		{"strong_basins", func(s *landscape.Summary) string { return strconv.Itoa(s.NumStrongBasins) }},
		{"largest_basin", func(s *landscape.Summary) string { return fmtG(s.LargestBasinShare) }},
	}
	var rows [][]string
	for i, ds := range datasets {
		for _, f := range fields {
			rows = append(rows, []string{ds, f.key, f.value(summaries[i])})
		}
	}
	return writeSeriesCSV(path, []string{"dataset", "metric", "value"}, rows)
}

func fmtG(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
