package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"natsfla/internal/dataset"
	"natsfla/internal/display"
	"natsfla/internal/format"
	"natsfla/internal/landscape"
)

func newWalkCmd() *cobra.Command {
	var (
		in       string
		ds       string
		metric   string
		seed     int64
		trials   int
		lag      int
		lengths  []int
		markdown bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Random-walk autocorrelation sweep",
		Long: "Walk runs seeded random walks over the landscape of one dataset and\n" +
			"reports the lag autocorrelation of the fitness series for each walk\n" +
			"length in the sweep.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := dataset.ReadFile(in)
			if err != nil {
				return err
			}
			fits, genotypes, err := table.Fitness(ds, metric)
			if err != nil {
				return err
			}
			a, err := landscape.New(fits, genotypes, landscape.WithSeed(seed))
			if err != nil {
				return err
			}

			type point struct {
				length  int
				rho     float64
				corrLen float64
			}
			points := make([]point, 0, len(lengths))
			for _, n := range lengths {
				rho := a.Autocorrelation(lag, trials, n)
				points = append(points, point{
					length:  n,
					rho:     rho,
					corrLen: landscape.CorrelationLength(rho),
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Autocorrelation sweep on %s (%s), lag %d, %d walks per length\n\n",
				display.Dataset(ds), display.MetricWithCode(metric), lag, trials)

			tb := format.NewTable(tableMode(markdown))
			tb.Header("Walk Length", "Autocorrelation", "Correlation Length")
			for _, p := range points {
				tb.Row(strconv.Itoa(p.length), format.FmtFloat(p.rho, 4), format.FmtFloat(p.corrLen, 2))
			}
			fmt.Fprintln(w, tb.String())

			if out != "" {
				rows := make([][]string, 0, len(points))
				for _, p := range points {
					rows = append(rows, []string{
						ds,
						strconv.Itoa(lag),
						strconv.Itoa(p.length),
						fmtG(p.rho),
						fmtG(p.corrLen),
					})
				}
				header := []string{"dataset", "lag", "walk_length", "autocorrelation", "correlation_length"}
				if err := writeSeriesCSV(out, header, rows); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nSeries written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "nats_bench.csv", "Extraction CSV to analyze")
	cmd.Flags().StringVar(&ds, "dataset", "cifar10", "Dataset to walk")
	cmd.Flags().StringVar(&metric, "metric", "test-accuracy", "Metric column to treat as fitness")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for walks")
	cmd.Flags().IntVar(&trials, "trials", 10, "Walks averaged per length")
	cmd.Flags().IntVar(&lag, "lag", 1, "Autocorrelation lag")
	cmd.Flags().IntSliceVar(&lengths, "lengths", []int{10, 25, 50, 100}, "Walk lengths to sweep")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the table as Markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Optional series CSV artifact")
	return cmd
}
