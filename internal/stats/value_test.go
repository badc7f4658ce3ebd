package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/stats"
)

func TestCChainStatsValueObserveAccumulates(t *testing.T) {
	t.Parallel()

	v := stats.NewCChainStatsValue()

	v.Observe(stats.Observation{
		Calls:          []callchain.Call{{Process: "svcA", Method: "POST"}},
		DurationMicros: 10_000,
		StartMicros:    1_000,
		Looped:         []string{"svcA"},
		HasHTTPStatus:  true,
		HTTPStatus:     500,
		NonOKHTTP:      true,
		ErrorLog:       true,
		LogMessages:    []string{"boom"},
	})
	v.Observe(stats.Observation{
		Calls:          []callchain.Call{{Process: "svcA", Method: "POST"}},
		DurationMicros: 20_000,
		StartMicros:    2_000,
	})

	assert.Equal(t, int64(2), v.Count)
	assert.Equal(t, int64(1), v.NonOKHTTPCount)
	assert.Equal(t, int64(1), v.ErrorLogCount)
	assert.Equal(t, []string{"svcA"}, v.Looped)
	assert.Equal(t, int64(1), v.StatusCodes["500"])

	minMs, medianMs, avgMs, maxMs, ok := v.MinMaxMillis()
	require.True(t, ok)
	assert.InDelta(t, 10.0, minMs, 0.001)
	assert.InDelta(t, 20.0, maxMs, 0.001)
	assert.InDelta(t, 15.0, avgMs, 0.001)
	assert.InDelta(t, 15.0, medianMs, 0.001)
}

func TestRateUndefinedBelowTwoSamples(t *testing.T) {
	t.Parallel()

	v := stats.NewCChainStatsValue()
	v.Observe(stats.Observation{StartMicros: 1_000})

	_, ok := v.Rate(1)
	assert.False(t, ok)
}

func TestRateNormalizedByNumFiles(t *testing.T) {
	t.Parallel()

	v := stats.NewCChainStatsValue()
	v.Observe(stats.Observation{StartMicros: 0})
	v.Observe(stats.Observation{StartMicros: 2_000_000})

	rate, ok := v.Rate(2)
	require.True(t, ok)
	assert.InDelta(t, 0.5, rate, 0.001)
}
