// Package main provides the entry point for the stitch CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/cmd/stitch/commands"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	sc := &commands.StitchCommand{}

	rootCmd := &cobra.Command{
		Use:   "stitch",
		Short: "Stitch per-run StatsRec files into a longitudinal, anomaly-scored dataset",
		Long: `stitch loads a list of StatsRec files produced by trace-analysis, aligns
them into basic/method/call-chain tables keyed by run slot, computes a
slope and deviation summary for every row, and flags rows whose trend
crosses a configurable bound.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          sc.Run,
	}

	sc.BindFlags(rootCmd)

	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "stitch %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
