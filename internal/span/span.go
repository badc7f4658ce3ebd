// Package span normalizes raw Jaeger trace items (internal/rawjaeger) into
// typed span trees (C2): resolving process names, extracting well-known
// tags, and linking parent/child references within a single trace.
package span

import (
	"sort"

	"github.com/jayvdb/jaeger-stats/internal/rawjaeger"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
)

const childOfRefType = "CHILD_OF"

// tag keys extracted into typed Span fields.
const (
	tagSpanKind    = "span.kind"
	tagHTTPStatus  = "http.status_code"
	tagError       = "error"
	logFieldLevel   = "level"
	logLevelError   = "error"
	logFieldErrVal  = "error"
	logFieldMessage = "message"
	logFieldEvent   = "event"
)

// Span is one normalized span within a Trace.
type Span struct {
	ID               string
	TraceID          string
	Operation        string
	Service          string
	StartMicros      int64
	DurationMicros   int64
	ParentID         string // empty when the span is a root or an orphan.
	Kind             string // raw span.kind tag value (e.g. "server", "client"); "" when absent or not a string.
	HTTPStatus       int
	HasHTTPStatus    bool
	Error            bool
	ErrorLogCount    int
	ErrorLogMessages []string
	Children         []string
}

// Trace is a normalized span tree for one Jaeger trace item.
type Trace struct {
	ID      string
	Spans   map[string]*Span
	RootID  string // empty if no root could be determined.
	Orphans []string
}

// Normalize converts one raw Jaeger trace item into a Trace. Malformed
// spans degrade (Unknown kind, dropped cross-trace reference) rather than
// aborting the whole trace; degradations are appended to the Ingest
// chapter of ctx.Report.
func Normalize(ctx *runctx.RunContext, item rawjaeger.Item) *Trace {
	if ctx == nil {
		ctx = runctx.Default()
	}

	trace := &Trace{
		ID:    item.TraceID,
		Spans: make(map[string]*Span, len(item.Spans)),
	}

	for _, raw := range item.Spans {
		sp := normalizeSpan(ctx, item, raw)
		trace.Spans[sp.ID] = sp
	}

	clearDanglingParents(ctx, trace)
	linkChildren(trace)
	trace.RootID = findRoot(trace)

	for _, sp := range trace.Spans {
		if sp.ParentID == "" && sp.ID != trace.RootID {
			trace.Orphans = append(trace.Orphans, sp.ID)
		}
	}

	sort.Strings(trace.Orphans)

	return trace
}

func normalizeSpan(ctx *runctx.RunContext, item rawjaeger.Item, raw rawjaeger.Span) *Span {
	sp := &Span{
		ID:             raw.SpanID,
		TraceID:        raw.TraceID,
		Operation:      raw.OperationName,
		StartMicros:    raw.StartTime,
		DurationMicros: raw.Duration,
	}

	if proc, ok := item.Processes[raw.ProcessID]; ok {
		sp.Service = proc.ServiceName
	} else {
		ctx.Report.Append("Ingest", "span %s/%s: unresolved processID %q, service left blank",
			item.TraceID, raw.SpanID, raw.ProcessID)
	}

	sp.ParentID = resolveParent(ctx, item.TraceID, raw)
	sp.Kind = rawjaeger.Tags(raw.Tags).GetString(tagSpanKind)

	if statusTag, ok := rawjaeger.Tags(raw.Tags).Get(tagHTTPStatus); ok {
		status, err := statusTag.AsInt64()
		if err == nil {
			sp.HTTPStatus = int(status)
			sp.HasHTTPStatus = true
		} else {
			ctx.Report.Append("Ingest", "span %s/%s: http.status_code tag not numeric, ignored",
				item.TraceID, raw.SpanID)
		}
	}

	if errTag, ok := rawjaeger.Tags(raw.Tags).Get(tagError); ok {
		if b, err := errTag.AsBool(); err == nil {
			sp.Error = b
		}
	}

	for _, logEntry := range raw.Logs {
		if isErrorLog(logEntry) {
			sp.ErrorLogCount++
			sp.ErrorLogMessages = append(sp.ErrorLogMessages, errorLogMessage(logEntry))
		}
	}

	return sp
}

func isErrorLog(logEntry rawjaeger.Log) bool {
	fields := rawjaeger.Tags(logEntry.Fields)

	if lvl := fields.GetString(logFieldLevel); lvl == logLevelError {
		return true
	}

	if _, ok := fields.Get(logFieldErrVal); ok {
		return true
	}

	return false
}

// errorLogMessage extracts a human-readable message from an error log's
// fields, preferring "message" then "event", falling back to "error".
func errorLogMessage(logEntry rawjaeger.Log) string {
	fields := rawjaeger.Tags(logEntry.Fields)

	if msg := fields.GetString(logFieldMessage); msg != "" {
		return msg
	}

	if event := fields.GetString(logFieldEvent); event != "" {
		return event
	}

	return logLevelError
}

// resolveParent returns the spanID of the first CHILD_OF reference whose
// traceID matches this trace. References to other traces are dropped and
// logged; a span with no matching reference is an orphan candidate
// (ParentID == "").
func resolveParent(ctx *runctx.RunContext, traceID string, raw rawjaeger.Span) string {
	for _, ref := range raw.References {
		if ref.RefType != childOfRefType {
			continue
		}

		if ref.TraceID != traceID {
			ctx.Report.Append("Ingest", "span %s/%s: dropped cross-trace reference to %s/%s",
				traceID, raw.SpanID, ref.TraceID, ref.SpanID)

			continue
		}

		return ref.SpanID
	}

	return ""
}

// clearDanglingParents tags as orphans (ParentID == "") any span whose
// resolved parent references a spanID not present in this trace: the raw
// CHILD_OF reference only checks that the traceID matches, not that the
// span itself exists.
func clearDanglingParents(ctx *runctx.RunContext, trace *Trace) {
	for _, sp := range trace.Spans {
		if sp.ParentID == "" {
			continue
		}

		if _, ok := trace.Spans[sp.ParentID]; !ok {
			ctx.Report.Append("Ingest", "span %s/%s: parent %s not found in trace, tagging as orphan",
				trace.ID, sp.ID, sp.ParentID)

			sp.ParentID = ""
		}
	}
}

func linkChildren(trace *Trace) {
	for _, sp := range trace.Spans {
		if sp.ParentID == "" {
			continue
		}

		if parent, ok := trace.Spans[sp.ParentID]; ok {
			parent.Children = append(parent.Children, sp.ID)
		}
	}

	for _, sp := range trace.Spans {
		sort.Strings(sp.Children)
	}
}

// findRoot returns the span id with the earliest start time among spans
// with no parent, breaking ties by span id.
func findRoot(trace *Trace) string {
	var root *Span

	for _, sp := range trace.Spans {
		if sp.ParentID != "" {
			continue
		}

		if root == nil || sp.StartMicros < root.StartMicros ||
			(sp.StartMicros == root.StartMicros && sp.ID < root.ID) {
			root = sp
		}
	}

	if root == nil {
		return ""
	}

	return root.ID
}

// IsLeaf reports whether sp has no children within its trace.
func (t *Trace) IsLeaf(spanID string) bool {
	sp, ok := t.Spans[spanID]

	return ok && len(sp.Children) == 0
}
