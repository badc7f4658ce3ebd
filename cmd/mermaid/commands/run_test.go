package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/cmd/mermaid/commands"
	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/statsio"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

func TestMermaidCommandWritesMermaidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	rec := stats.NewStatsRec(1)
	rec.Observe(stats.Observation{
		Chain: callchain.Chain{Calls: []callchain.Call{
			{Process: "svcA", Method: "POST"}, {Process: "svcB", Method: "GET"},
		}},
		DurationMicros: 5_000,
		Rooted:         true,
	})

	inputPath, err := statsio.SaveStatsRec(dir, "run", "json", rec)
	require.NoError(t, err)

	outputDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o750))

	mc := &commands.MermaidCommand{}
	cmd := &cobra.Command{Use: "mermaid", Args: cobra.ExactArgs(1), RunE: mc.Run}
	mc.BindFlags(cmd)
	cmd.SetArgs([]string{inputPath, "--service-oper", "svcB/GET", "--output-dir", outputDir})
	cmd.SetOut(new(devNullWriter))

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(outputDir, "svcB_GET.mermaid"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "flowchart LR")
	assert.Contains(t, string(data), "svcA/POST")
}

type devNullWriter struct{}

func (devNullWriter) Write(p []byte) (int, error) { return len(p), nil }
