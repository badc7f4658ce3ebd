package stitch_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/stats"
	"github.com/jayvdb/jaeger-stats/internal/stitch"
)

func TestBuildLineChartRendersKnownRow(t *testing.T) {
	t.Parallel()

	slots := []*stats.StatsRec{buildRec(t, 1), buildRec(t, 1)}
	table := stitch.BuildBasicTable(slots)
	cfg := stitch.DefaultConfig()
	rowStats := stitch.ComputeTableStats(table, cfg)

	chart, err := stitch.BuildLineChart(table, rowStats, []string{"run0", "run1"}, "num_files")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, stitch.WritePlotHTML(&buf, chart))
	assert.Contains(t, buf.String(), "num_files")
}

func TestBuildLineChartErrorsOnUnknownKey(t *testing.T) {
	t.Parallel()

	table := stitch.BuildBasicTable(nil)

	_, err := stitch.BuildLineChart(table, nil, nil, "does_not_exist")
	assert.Error(t, err)
}
