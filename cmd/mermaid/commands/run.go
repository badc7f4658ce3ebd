// Package commands implements the mermaid CLI command handler.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/graph"
	"github.com/jayvdb/jaeger-stats/internal/statsio"
	"github.com/jayvdb/jaeger-stats/pkg/config"
	"github.com/jayvdb/jaeger-stats/pkg/observability"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

// MermaidCommand holds the flags for the mermaid command.
type MermaidCommand struct {
	configPath  string
	serviceOper string
	callChain   string
	edgeValue   string
	scope       string
	compact     bool
	outputDir   string
}

// BindFlags registers the command's flags on cmd.
func (mc *MermaidCommand) BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&mc.configPath, "config", "", "path to a jaeger-stats config file (default: search ./jaeger-stats.yaml)")
	flags.StringVar(&mc.serviceOper, "service-oper", "", "focus node, formatted \"service/operation\"")
	flags.StringVar(&mc.callChain, "call-chain", "", "canonical chain key to emphasize in the rendered graph")
	flags.StringVar(&mc.edgeValue, "edge-value", "count", "edge label quantity: count, avg_duration, or rate")
	flags.StringVar(&mc.scope, "scope", "Full", "node scope: Full, Inbound, Outbound, or Centered")
	flags.BoolVar(&mc.compact, "compact", false, "collapse same-service operations into a single node")
	flags.StringVar(&mc.outputDir, "output-dir", "", "directory to write the .mermaid file to (default: current directory)")

	_ = cmd.MarkFlagRequired("service-oper")
}

// Run executes the mermaid command.
func (mc *MermaidCommand) Run(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.LoadConfig(mc.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeMermaid
	obsCfg.LogLevel = observability.LevelFromString(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() { _ = providers.Shutdown(cmd.Context()) }()

	rec, err := statsio.LoadStatsRec(input)
	if err != nil {
		return fmt.Errorf("load stats record: %w", err)
	}

	mode, err := parseEdgeValueMode(mc.edgeValue)
	if err != nil {
		return err
	}

	scope, err := parseScope(mc.scope)
	if err != nil {
		return err
	}

	focus := graph.NodeKey(mc.serviceOper)
	chains := graph.ChainsFromStatsRec(rec, mode)

	g := graph.Project(chains, focus, callchain.Key(mc.callChain), nil)
	g = graph.Filter(g, scope)

	if mc.compact {
		g = graph.Compact(g)
	}

	rendered := graph.Render(g, mode)

	outputDir := mc.outputDir
	if outputDir == "" {
		outputDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve current directory: %w", err)
		}
	}

	path := filepath.Join(outputDir, graph.SanitizeServiceOperation(focus)+".mermaid")

	err = os.WriteFile(path, []byte(rendered), 0o600)
	if err != nil {
		return fmt.Errorf("write mermaid output %q: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

	return nil
}

func parseEdgeValueMode(s string) (graph.EdgeValueMode, error) {
	switch s {
	case "count":
		return graph.EdgeValueCount, nil
	case "avg_duration":
		return graph.EdgeValueAvgDuration, nil
	case "rate":
		return graph.EdgeValueRate, nil
	default:
		return 0, fmt.Errorf("invalid --edge-value %q: want count, avg_duration, or rate", s)
	}
}

func parseScope(s string) (graph.Scope, error) {
	switch s {
	case "Full":
		return graph.ScopeFull, nil
	case "Inbound":
		return graph.ScopeInbound, nil
	case "Outbound":
		return graph.ScopeOutbound, nil
	case "Centered":
		return graph.ScopeCentered, nil
	default:
		return 0, fmt.Errorf("invalid --scope %q: want Full, Inbound, Outbound, or Centered", s)
	}
}
