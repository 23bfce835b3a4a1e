package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"natsfla/adapters/natsbench"
	"natsfla/internal/format"
)

func newBenchCmd() *cobra.Command {
	var benchPath string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Manage a local benchmark file",
	}
	cmd.PersistentFlags().StringVar(&benchPath, "bench", "nats_bench.db", "Path to the benchmark file")
	cmd.AddCommand(newBenchInfoCmd(&benchPath), newBenchImportCmd(&benchPath))
	return cmd
}

func newBenchInfoCmd(benchPath *string) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the contents of a benchmark file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := natsbench.Open(*benchPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Benchmark file %s: %d architectures, %d result records\n\n",
				*benchPath, stats.Archs, stats.Results)

			slots := make([]string, 0, len(stats.ResultsBySlot))
			for slot := range stats.ResultsBySlot {
				slots = append(slots, slot)
			}
			sort.Strings(slots)

			tb := format.NewTable(tableMode(markdown))
			tb.Header("Slot", "Results", "Coverage")
			for _, slot := range slots {
				n := stats.ResultsBySlot[slot]
				coverage := "n/a"
				if stats.Archs > 0 {
					coverage = format.FmtPercent(float64(n) / float64(stats.Archs))
				}
				tb.Row(slot, strconv.Itoa(n), coverage)
			}
			fmt.Fprintln(w, tb.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the table as Markdown")
	return cmd
}

func newBenchImportCmd(benchPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <results.csv>",
		Short: "Import result records from a CSV dump",
		Long: "Import loads a results CSV (one row per architecture, dataset and\n" +
			"training budget) into the benchmark file, creating the file if needed.\n" +
			"Existing records for the same slot are replaced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := natsbench.Open(*benchPath)
			if err != nil {
				return err
			}
			defer store.Close()

			start := time.Now()
			n, err := natsbench.ImportCSV(cmd.Context(), store, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s in %s\n",
				n, *benchPath, format.FmtDuration(time.Since(start)))
			return nil
		},
	}
}
