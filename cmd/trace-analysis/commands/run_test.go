package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/cmd/trace-analysis/commands"
)

const fixtureDump = `{
  "total": 1,
  "limit": 0,
  "offset": 0,
  "data": [
    {
      "traceID": "t1",
      "spans": [
        {
          "traceID": "t1", "spanID": "s1", "operationName": "POST",
          "startTime": 1000, "duration": 10000, "processID": "p1"
        },
        {
          "traceID": "t1", "spanID": "s2", "operationName": "GET",
          "startTime": 1001, "duration": 4000, "processID": "p2",
          "references": [{"refType": "CHILD_OF", "traceID": "t1", "spanID": "s1"}],
          "tags": [{"key": "http.status_code", "type": "int64", "value": 500}]
        }
      ],
      "processes": {
        "p1": {"serviceName": "svcA"},
        "p2": {"serviceName": "svcB"}
      }
    }
  ]
}`

func TestTraceAnalysisCommandWritesStatsRec(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(inputPath, []byte(fixtureDump), 0o600))

	outputDir := filepath.Join(dir, "out")

	tc := &commands.TraceAnalysisCommand{}
	cmd := &cobra.Command{Use: "trace-analysis", Args: cobra.ExactArgs(1), RunE: tc.Run}
	tc.BindFlags(cmd)
	cmd.SetArgs([]string{inputPath, "--output-dir", outputDir, "--output-ext", "json"})
	cmd.SetOut(new(devNullWriter))

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(outputDir, "dump.json"))
	assert.NoError(t, err)
}

type devNullWriter struct{}

func (devNullWriter) Write(p []byte) (int, error) { return len(p), nil }
