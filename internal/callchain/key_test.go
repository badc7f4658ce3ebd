package callchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
)

func TestFormatKeyDoubleSeparatorWhenCachingProcessEmpty(t *testing.T) {
	t.Parallel()

	calls := []callchain.Call{
		{Process: "svcA", Method: "POST", Direction: callchain.Inbound},
		{Process: "svcB", Method: "GET", Direction: callchain.Outbound},
	}

	key := callchain.FormatKey(calls, "", true)

	assert.Equal(t, "svcA/POST [Inbound] | svcB/GET [Outbound] &  & *LEAF*", string(key))
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		calls          []callchain.Call
		cachingProcess string
		isLeaf         bool
	}{
		{
			name: "leaf, no caching process",
			calls: []callchain.Call{
				{Process: "svcA", Method: "POST", Direction: callchain.Inbound},
				{Process: "svcB", Method: "GET", Direction: callchain.Outbound},
			},
			isLeaf: true,
		},
		{
			name: "non-leaf, with caching process",
			calls: []callchain.Call{
				{Process: "svcA", Method: "POST", Direction: callchain.Inbound},
				{Process: "cache1", Method: "Fetch", Direction: callchain.Unknown},
			},
			cachingProcess: "[cache1]",
			isLeaf:         false,
		},
		{
			name: "single call",
			calls: []callchain.Call{
				{Process: "svcA", Method: "POST", Direction: callchain.Unknown},
			},
			isLeaf: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			key := callchain.FormatKey(tc.calls, tc.cachingProcess, tc.isLeaf)

			calls, cachingProcess, isLeaf, err := callchain.ParseKey(key)
			require.NoError(t, err)

			assert.Equal(t, tc.calls, calls)
			assert.Equal(t, tc.cachingProcess, cachingProcess)
			assert.Equal(t, tc.isLeaf, isLeaf)

			roundTripped := callchain.FormatKey(calls, cachingProcess, isLeaf)
			assert.Equal(t, key, roundTripped)
		})
	}
}

func TestParseKeyRejectsMalformed(t *testing.T) {
	t.Parallel()

	_, _, _, err := callchain.ParseKey(callchain.Key("not-a-well-formed-key"))
	require.Error(t, err)
	assert.ErrorIs(t, err, callchain.ErrMalformedKey)
}

func TestBuildCachingProcessLabelSuppressesInboundHTTPVerbs(t *testing.T) {
	t.Parallel()

	calls := []callchain.Call{
		{Process: "cacheSvc", Method: "GET", Direction: callchain.Inbound},
		{Process: "cacheSvc", Method: "Lookup", Direction: callchain.Outbound},
		{Process: "otherSvc", Method: "Do", Direction: callchain.Unknown},
	}

	label := callchain.BuildCachingProcessLabel(calls, []string{"cacheSvc"})

	assert.Equal(t, "[cacheSvc]", label)
}

func TestBuildCachingProcessLabelEmptyWhenNoneConfigured(t *testing.T) {
	t.Parallel()

	calls := []callchain.Call{{Process: "svcA", Method: "POST", Direction: callchain.Inbound}}

	assert.Empty(t, callchain.BuildCachingProcessLabel(calls, nil))
}
