// Package main provides the entry point for the mermaid CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/cmd/mermaid/commands"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	mc := &commands.MermaidCommand{}

	rootCmd := &cobra.Command{
		Use:   "mermaid <input>",
		Short: "Render a Mermaid call-graph diagram focused on a service/operation",
		Long: `mermaid loads a StatsRec file produced by trace-analysis, projects its
call chains into a graph focused on --service-oper, and writes the
resulting flowchart as a .mermaid file named after the sanitized focus
node in the current (or --output-dir) directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          mc.Run,
	}

	mc.BindFlags(rootCmd)

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
			fmt.Fprintf(os.Stdout, "mermaid %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
