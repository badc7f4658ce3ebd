package stats

import (
	"github.com/jayvdb/jaeger-stats/internal/callchain"
	"github.com/jayvdb/jaeger-stats/internal/span"
)

// ObservationFor builds the Observation for chain within trace: the
// terminating span's duration and start time, plus whether any span on the
// chain's path (not just the terminal one) carried a non-2xx HTTP status or
// an ERROR log line.
func ObservationFor(trace *span.Trace, chain callchain.Chain) Observation {
	obs := Observation{
		Chain:  chain,
		Calls:  chain.Calls,
		Rooted: chain.Rooted,
		Looped: chain.Looped,
	}

	if terminal, ok := trace.Spans[chain.SpanID]; ok {
		obs.DurationMicros = terminal.DurationMicros
		obs.StartMicros = terminal.StartMicros
	}

	for _, spanID := range chain.SpanPath {
		sp, ok := trace.Spans[spanID]
		if !ok {
			continue
		}

		if sp.HasHTTPStatus {
			obs.HasHTTPStatus = true
			obs.HTTPStatus = sp.HTTPStatus
			obs.HTTPStatuses = append(obs.HTTPStatuses, sp.HTTPStatus)

			if sp.HTTPStatus < 200 || sp.HTTPStatus >= 300 {
				obs.NonOKHTTP = true
			}
		}

		if sp.ErrorLogCount > 0 {
			obs.ErrorLog = true
			obs.LogMessages = append(obs.LogMessages, sp.ErrorLogMessages...)
		}
	}

	return obs
}
