package callchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayvdb/jaeger-stats/internal/callchain"
)

func call(process, method string, dir callchain.Direction) callchain.Call {
	return callchain.Call{Process: process, Method: method, Direction: dir}
}

func TestRemapZeroMatchesKeepsObserved(t *testing.T) {
	t.Parallel()

	observed := callchain.Chain{
		Calls:  []callchain.Call{call("svcB", "GET", callchain.Outbound)},
		Rooted: false,
	}

	remapped := callchain.Remap(observed, nil, nil)

	assert.Equal(t, observed, remapped)
}

func TestRemapOneMatchPromotesRooted(t *testing.T) {
	t.Parallel()

	observedTail := call("svcB", "GET", callchain.Outbound)
	observed := callchain.Chain{Calls: []callchain.Call{observedTail}, Rooted: false, IsLeaf: false}

	expected := []callchain.Chain{
		{
			Calls:  []callchain.Call{call("svcA", "POST", callchain.Inbound), observedTail},
			IsLeaf: true,
		},
	}

	remapped := callchain.Remap(observed, expected, nil)

	assert.True(t, remapped.Rooted)
	assert.True(t, remapped.IsLeaf)
	assert.Equal(t, expected[0].Calls, remapped.Calls)
}

func TestRemapTwoMatchesPrefersMatchingLeafFlag(t *testing.T) {
	t.Parallel()

	tail := call("svcB", "GET", callchain.Outbound)
	observed := callchain.Chain{Calls: []callchain.Call{tail}, IsLeaf: true}

	leafCandidate := callchain.Chain{
		Calls:  []callchain.Call{call("svcA", "POST", callchain.Inbound), tail},
		IsLeaf: true,
	}
	nonLeafCandidate := callchain.Chain{
		Calls:  []callchain.Call{call("svcC", "POST", callchain.Inbound), tail},
		IsLeaf: false,
	}

	remapped := callchain.Remap(observed, []callchain.Chain{nonLeafCandidate, leafCandidate}, nil)

	assert.True(t, remapped.Rooted)
	assert.Equal(t, leafCandidate.Calls, remapped.Calls)
}

func TestRemapThreeOrMoreMatchesKeepsObserved(t *testing.T) {
	t.Parallel()

	tail := call("svcB", "GET", callchain.Outbound)
	observed := callchain.Chain{Calls: []callchain.Call{tail}}

	expected := []callchain.Chain{
		{Calls: []callchain.Call{call("svcA", "POST", callchain.Inbound), tail}},
		{Calls: []callchain.Call{call("svcC", "POST", callchain.Inbound), tail}},
		{Calls: []callchain.Call{call("svcD", "POST", callchain.Inbound), tail}},
	}

	remapped := callchain.Remap(observed, expected, nil)

	assert.False(t, remapped.Rooted)
	assert.Equal(t, observed.Calls, remapped.Calls)
}
