// Package runctx carries the process-wide settings of a jaeger-stats run
// explicitly instead of as package-global mutable state: the timezone
// offset and decimal-separator locale used when formatting figures, and the
// report sink every pipeline stage appends narrative to.
package runctx

import (
	"log/slog"

	"github.com/jayvdb/jaeger-stats/internal/report"
)

// RunContext threads the settings a single trace-analysis/stitch/mermaid
// invocation needs through every exported pipeline function, instead of
// reading them off package globals.
type RunContext struct {
	// TZOffsetMinutes shifts UTC epoch-microsecond timestamps to local wall
	// clock time for display.
	TZOffsetMinutes int

	// CommaFloat selects ',' instead of '.' as the decimal separator when
	// formatting floating-point figures.
	CommaFloat bool

	// Strict rejects Jaeger dumps that fail schema validation instead of
	// degrading field-by-field.
	Strict bool

	// Report is the narrative sink every pipeline stage appends to.
	Report *report.Sink

	// Logger is the structured logger pipeline stages should log through.
	Logger *slog.Logger
}

// New builds a RunContext. A nil logger falls back to slog.Default(); a nil
// sink allocates a fresh report.Sink.
func New(tzOffsetMinutes int, commaFloat, strict bool, sink *report.Sink, logger *slog.Logger) *RunContext {
	if sink == nil {
		sink = report.NewSink()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RunContext{
		TZOffsetMinutes: tzOffsetMinutes,
		CommaFloat:      commaFloat,
		Strict:          strict,
		Report:          sink,
		Logger:          logger,
	}
}

var defaultCtx = New(0, false, false, nil, nil)

// Default returns a zero-value-equivalent RunContext (UTC, '.' decimal
// separator, non-strict) for library functions called from tests or other
// contexts that have no run configuration of their own to thread through.
// Prefer constructing a RunContext explicitly in cmd/ binaries; this shim
// exists only for call sites that cannot reasonably accept one.
func Default() *RunContext {
	return defaultCtx
}
