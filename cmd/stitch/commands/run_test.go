package commands_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/cmd/stitch/commands"
	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/statsio"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

func sampleStatsRec(count int64) *stats.StatsRec {
	rec := stats.NewStatsRec(1)
	rec.TraceIDs = []string{"t1"}
	rec.TraceDurationsMicros = []int64{1_000}

	for i := int64(0); i < count; i++ {
		rec.Observe(stats.Observation{
			Chain:          callchain.Chain{Calls: []callchain.Call{{Process: "svcA", Method: "POST"}}},
			Calls:          []callchain.Call{{Process: "svcA", Method: "POST"}},
			DurationMicros: 5_000,
			StartMicros:    1_000,
			Rooted:         true,
		})
	}

	return rec
}

func TestStitchCommandWritesStitchedRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var listLines string

	for i, count := range []int64{1, 2, 3} {
		path := filepath.Join(dir, fmt.Sprintf("run%d.json", i))

		_, err := statsio.SaveStatsRec(dir, fmt.Sprintf("run%d", i), "json", sampleStatsRec(count))
		require.NoError(t, err)

		listLines += fmt.Sprintf("%s,run%d\n", path, i)
	}

	listPath := filepath.Join(dir, "stitch-list.txt")
	require.NoError(t, os.WriteFile(listPath, []byte(listLines), 0o600))

	outputDir := filepath.Join(dir, "out")

	sc := &commands.StitchCommand{}
	cmd := &cobra.Command{Use: "stitch", Args: cobra.NoArgs, RunE: sc.Run}
	sc.BindFlags(cmd)
	cmd.SetArgs([]string{
		"--stitch-list", listPath,
		"--output-dir", outputDir,
		"--output", "stitched",
		"--ext", "json",
		"--csv-output",
	})
	cmd.SetOut(new(devNullWriter))

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(outputDir, "stitched.json"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(outputDir, "stitched_method.csv"))
	assert.NoError(t, err)
}

type devNullWriter struct{}

func (devNullWriter) Write(p []byte) (int, error) { return len(p), nil }
