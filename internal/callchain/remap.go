package callchain

import (
	"github.com/jayvdb/jaeger-stats/internal/report"
)

// Remap resolves a non-rooted observed chain against the expected chains
// known for its endpoint (as loaded by internal/cchaincache): it finds
// expected chains whose tail equals observed's full call sequence.
//
//   - zero matches:  keep observed as-is (still non-rooted).
//   - one match:     adopt the expected chain's calls and IsLeaf, mark rooted.
//   - two matches:   adopt the first candidate (in expected order) whose
//     IsLeaf equals observed's; if neither matches, keep observed unchanged.
//   - 3+ matches:    ambiguous; keep observed unchanged, log to Details.
func Remap(observed Chain, expected []Chain, sink *report.Sink) Chain {
	var matches []Chain

	for _, candidate := range expected {
		if tailEquals(candidate.Calls, observed.Calls) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return observed
	case 1:
		remapped := observed
		remapped.Calls = matches[0].Calls
		remapped.IsLeaf = matches[0].IsLeaf
		remapped.Rooted = true

		return remapped
	case 2:
		for _, m := range matches {
			if m.IsLeaf == observed.IsLeaf {
				remapped := observed
				remapped.Calls = m.Calls
				remapped.IsLeaf = m.IsLeaf
				remapped.Rooted = true

				return remapped
			}
		}

		return observed
	default:
		if sink != nil {
			sink.Append(report.Details, "chain remap ambiguous for endpoint %q: %d candidate expected chains",
				observed.Endpoint(), len(matches))
		}

		return observed
	}
}

// tailEquals reports whether observed equals the tail of expected
// (expected's last len(observed) calls), requiring len(observed) <=
// len(expected) and element-by-element equality.
func tailEquals(expected, observed []Call) bool {
	if len(observed) > len(expected) {
		return false
	}

	offset := len(expected) - len(observed)

	for i, c := range observed {
		if expected[offset+i] != c {
			return false
		}
	}

	return true
}
