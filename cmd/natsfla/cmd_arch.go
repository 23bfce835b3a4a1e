package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"natsfla/adapters/natsbench"
	"natsfla/internal/dataset"
	"natsfla/internal/display"
	"natsfla/internal/format"
	"natsfla/internal/genotype"
)

func newArchCmd() *cobra.Command {
	var (
		configPath string
		benchPath  string
		benchURL   string
		in         string
		hp         int
		neighbors  bool
		markdown   bool
	)

	cmd := &cobra.Command{
		Use:   "arch <index|arch-string>",
		Short: "Inspect one architecture",
		Long: "Arch decodes a cell and prints its operation edges. An index argument\n" +
			"is resolved against an extraction CSV (--in) or a benchmark source, and\n" +
			"the architecture's per-dataset results are shown alongside.",
		Args: cobra.ExactArgs(1),
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

			w := cmd.OutOrStdout()
			arch := args[0]
			index := -1

			// A numeric argument is an index and needs a CSV or benchmark
			// source to resolve the cell string. A cell string stands on its
			// own.
			var client natsbench.Client
			var csvRows []dataset.Row
			if n, convErr := strconv.Atoi(args[0]); convErr == nil {
				index = n
				switch {
				case in != "":
					table, err := dataset.ReadFile(in)
					if err != nil {
						return err
					}
					for _, r := range table.Rows() {
						if r.ArchIndex == index {
							csvRows = append(csvRows, r)
						}
					}
					if len(csvRows) == 0 {
						return fmt.Errorf("architecture %d not in %s", index, in)
					}
					arch = csvRows[0].ArchStr
				default:
					var closeClient func() error
					client, closeClient, err = openClient(cfg)
					if err != nil {
						return err
					}
					defer closeClient()
					arch, err = client.Arch(cmd.Context(), index)
					if err != nil {
						return err
					}
				}
			}

			g, err := genotype.Parse(arch)
			if err != nil {
				return err
			}

			if index >= 0 {
				fmt.Fprintf(w, "Architecture %d\n", index)
			}
			fmt.Fprintf(w, "%s\n\n", g)

			tb := format.NewTable(tableMode(markdown))
			tb.Header("Node", "Input", "Operation")
			for node, edges := range g {
				for _, e := range edges {
					tb.Row(strconv.Itoa(node+1), strconv.Itoa(e.Input), display.Op(string(e.Op)))
				}
			}
			fmt.Fprintln(w, tb.String())

			if neighbors {
				nbrs, err := genotype.NeighborStrings(arch)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "\n%d one-edit neighbors:\n", len(nbrs))
				for _, n := range nbrs {
					fmt.Fprintf(w, "  %s\n", n)
				}
			}

			switch {
			case csvRows != nil:
				rt := format.NewTable(tableMode(markdown))
				rt.Header("Dataset", "Metric", "Value")
				for _, r := range csvRows {
					rt.Row(display.Dataset(r.Dataset), display.Metric(r.Metric), format.FmtFloat(r.Value, 4))
				}
				fmt.Fprintf(w, "\nExtracted results\n%s\n", rt.String())
			case client != nil:
				rt := format.NewTable(tableMode(markdown))
				rt.Header("Dataset", "Train Acc", "Test Acc", "Train Loss", "Test Loss")
				for _, ds := range natsbench.Datasets() {
					info, err := client.MoreInfo(cmd.Context(), index, ds, hp)
					if errors.Is(err, natsbench.ErrNotFound) {
						rt.Row(display.Dataset(ds), "n/a", "n/a", "n/a", "n/a")
						continue
					}
					if err != nil {
						return err
					}
					rt.Row(
						display.Dataset(ds),
						format.FmtPercent(info.TrainAccuracy/100),
						format.FmtPercent(info.TestAccuracy/100),
						format.FmtFloat(info.TrainLoss, 4),
						format.FmtFloat(info.TestLoss, 4),
					)
				}
				fmt.Fprintf(w, "\nResults at %d epochs\n%s\n", hp, rt.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Run configuration file (YAML/JSON)")
	cmd.Flags().StringVar(&benchPath, "bench", "", "Path to a local benchmark file")
	cmd.Flags().StringVar(&benchURL, "bench-url", "", "Base URL of a hosted benchmark endpoint")
	cmd.Flags().StringVar(&in, "in", "", "Extraction CSV to resolve the index against")
	cmd.Flags().IntVar(&hp, "hp", natsbench.DefaultHP, "Training budget (epochs) to query")
	cmd.Flags().BoolVar(&neighbors, "neighbors", false, "List the one-edit neighbor cells")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render tables as Markdown")
	return cmd
}
