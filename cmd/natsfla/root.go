package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"natsfla/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// newRootCmd builds the full command tree. Every call returns a fresh tree
// with its own flag state, so repeated executions share nothing.
func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "natsfla",
		Short: "Fitness landscape analysis over the NATS-Bench topology search space",
		Long: "natsfla extracts precomputed results from a NATS-Bench benchmark source\n" +
			"into a flat CSV and analyzes the fitness landscape of the search space:\n" +
			"FDC, local maxima, neutral networks, random-walk autocorrelation, basins.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.Init(level, logFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.Version = version

	cmd.AddCommand(
		newExtractCmd(),
		newAnalyzeCmd(),
		newWalkCmd(),
		newNeutralCmd(),
		newArchCmd(),
		newBenchCmd(),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
