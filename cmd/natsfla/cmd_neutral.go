package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"natsfla/internal/dataset"
	"natsfla/internal/display"
	"natsfla/internal/format"
	"natsfla/internal/landscape"
)

func newNeutralCmd() *cobra.Command {
	var (
		in       string
		ds       string
		metric   string
		top      int
		markdown bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "neutral",
		Short: "Neutral network analysis",
		Long: "Neutral finds the connected sets of architectures with identical fitness\n" +
			"on one dataset and reports the size, fitness, percolation index and edit\n" +
			"distance spread of each network.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := dataset.ReadFile(in)
			if err != nil {
				return err
			}
			fits, genotypes, err := table.Fitness(ds, metric)
			if err != nil {
				return err
			}
			a, err := landscape.New(fits, genotypes)
			if err != nil {
				return err
			}

			infos, err := a.NeutralNetsAnalysis()
			if err != nil {
				return err
			}
			sort.Slice(infos, func(i, j int) bool { return infos[i].Size > infos[j].Size })

			w := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintf(w, "No neutral networks on %s (%s)\n",
					display.Dataset(ds), display.MetricWithCode(metric))
				return nil
			}

			shown := infos
			if top > 0 && top < len(shown) {
				shown = shown[:top]
			}

			fmt.Fprintf(w, "Neutral networks on %s (%s): %d found, showing %d\n\n",
				display.Dataset(ds), display.MetricWithCode(metric), len(infos), len(shown))

			tb := format.NewTable(tableMode(markdown))
			tb.Header("Size", "Fitness", "Percolation", "Max Edit Dist", "Avg Edit Dist")
			for _, info := range shown {
				tb.Row(
					strconv.Itoa(info.Size),
					format.FmtFloat(info.Fitness, 4),
					strconv.Itoa(info.PercolationIndex),
					strconv.Itoa(info.MaxEditDistance),
					format.FmtFloat(info.AvgEditDistance, 2),
				)
			}
			fmt.Fprintln(w, tb.String())

			if out != "" {
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, []string{
						ds,
						strconv.Itoa(info.Size),
						fmtG(info.Fitness),
						strconv.Itoa(info.PercolationIndex),
						strconv.Itoa(info.MaxEditDistance),
						fmtG(info.AvgEditDistance),
					})
				}
				header := []string{"dataset", "size", "fitness", "percolation_index", "max_edit_distance", "avg_edit_distance"}
				if err := writeSeriesCSV(out, header, rows); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nNetworks written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "nats_bench.csv", "Extraction CSV to analyze")
	cmd.Flags().StringVar(&ds, "dataset", "cifar10", "Dataset to analyze")
	cmd.Flags().StringVar(&metric, "metric", "test-accuracy", "Metric column to treat as fitness")
	cmd.Flags().IntVar(&top, "top", 10, "Networks shown in the table, largest first (0 = all)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the table as Markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Optional networks CSV artifact")
	return cmd
}
