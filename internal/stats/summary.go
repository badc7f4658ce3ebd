package stats

import (
	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/span"
)

// Summary is a basic corpus-level summary: trace count, total span count,
// and the earliest/latest span start time seen, mirroring the overview a
// run prints before the detailed per-leaf breakdown.
type Summary struct {
	TraceCount    int
	SpanCount     int64
	EarliestStart int64
	LatestStart   int64
	haveStart     bool
}

func (s *Summary) observeTrace(trace *span.Trace) {
	s.TraceCount++
	s.SpanCount += int64(len(trace.Spans))

	for _, sp := range trace.Spans {
		start := sp.StartMicros
		if !s.haveStart || start < s.EarliestStart {
			s.EarliestStart = start
		}

		if !s.haveStart || start > s.LatestStart {
			s.LatestStart = start
		}

		s.haveStart = true
	}
}

// WriteTo appends a one-line summary to the Summary chapter.
func (s *Summary) WriteTo(sink *report.Sink) {
	if sink == nil {
		return
	}

	sink.Append(report.Summary, "%d traces, %d spans, start range [%d, %d] us",
		s.TraceCount, s.SpanCount, s.EarliestStart, s.LatestStart)
}
