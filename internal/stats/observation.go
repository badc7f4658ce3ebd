package stats

import "github.com/jayvdb/jaeger-stats/internal/callchain"

// Observation is one chain's contribution to the aggregate: the
// terminating span's timing plus whether it, or any span along its path,
// carried a non-2xx HTTP status or an ERROR log line.
type Observation struct {
	Chain          callchain.Chain
	Calls          []callchain.Call
	DurationMicros int64
	StartMicros    int64
	Rooted         bool
	Looped         []string
	NonOKHTTP      bool
	HasHTTPStatus  bool
	HTTPStatus     int
	HTTPStatuses   []int // every status seen along the path; HTTPStatus is the last.
	ErrorLog       bool
	LogMessages    []string
}
