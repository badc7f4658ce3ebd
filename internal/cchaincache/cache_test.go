package cchaincache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/cchaincache"
	"github.com/jayvdb/jaeger-stats/internal/report"
)

func TestGetLoadsAndParsesCchainFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCchainFile(t, dir, "svcA_POST.cchain", []string{
		"# comment line",
		"",
		"svcA/POST [Inbound] | svcB/GET [Outbound] &  & *LEAF*",
	})

	c := cchaincache.New(dir, 0, nil)

	chains, err := c.Get("svcA/POST")
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.True(t, chains[0].IsLeaf)
	assert.True(t, chains[0].Rooted)
	assert.Len(t, chains[0].Calls, 2)
}

func TestGetMissingFileReturnsEmptyNoError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink := report.NewSink()

	c := cchaincache.New(dir, 0, sink)

	chains, err := c.Get("svcX/GET")
	require.NoError(t, err)
	assert.Empty(t, chains)
	assert.NotEmpty(t, sink.Lines(report.Ingest))
}

func TestGetReturnsClonesNotAliasedCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCchainFile(t, dir, "svcA_POST.cchain", []string{
		"svcA/POST [Inbound] | svcB/GET [Outbound] &  & *LEAF*",
	})

	c := cchaincache.New(dir, 0, nil)

	first, err := c.Get("svcA/POST")
	require.NoError(t, err)

	first[0].Calls[0].Process = "mutated"

	second, err := c.Get("svcA/POST")
	require.NoError(t, err)
	assert.Equal(t, "svcA", second[0].Calls[0].Process)
}

func TestGetMalformedLineSkippedNotFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink := report.NewSink()
	writeCchainFile(t, dir, "svcA_POST.cchain", []string{
		"not-a-well-formed-key",
		"svcA/POST [Inbound] | svcB/GET [Outbound] &  & *LEAF*",
	})

	c := cchaincache.New(dir, 0, sink)

	chains, err := c.Get("svcA/POST")
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.NotEmpty(t, sink.Lines(report.Ingest))
}

func writeCchainFile(t *testing.T, dir, name string, lines []string) {
	t.Helper()

	content := ""
	for _, l := range lines {
		content += l + "\n"
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
