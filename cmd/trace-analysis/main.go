// Package main provides the entry point for the trace-analysis CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/cmd/trace-analysis/commands"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	tc := &commands.TraceAnalysisCommand{}

	rootCmd := &cobra.Command{
		Use:   "trace-analysis <input>",
		Short: "Ingest Jaeger trace dumps and produce per-run call-chain statistics",
		Long: `trace-analysis reconstructs causal span trees from one or more Jaeger
JSON trace dumps (input may be a single file or a directory of files),
extracts their call chains, and aggregates per-operation and per-call-chain
statistics into a StatsRec file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          tc.Run,
	}

	tc.BindFlags(rootCmd)

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
			fmt.Fprintf(os.Stdout, "trace-analysis %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
