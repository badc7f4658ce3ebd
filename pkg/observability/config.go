// Package observability provides structured logging and Prometheus-backed
// pipeline metrics for the trace-analysis, stitch, and mermaid binaries.
package observability

import "log/slog"

// AppMode identifies which of the three CLI binaries is running.
type AppMode string

const (
	// ModeTraceAnalysis is the trace-analysis ingest binary.
	ModeTraceAnalysis AppMode = "trace-analysis"
	// ModeStitch is the stitch binary.
	ModeStitch AppMode = "stitch"
	// ModeMermaid is the mermaid graph-rendering binary.
	ModeMermaid AppMode = "mermaid"
)

const (
	// defaultServiceName is the default OTel resource/service name.
	defaultServiceName = "jaeger-stats"
)

// Config holds all observability configuration for a single CLI run.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment tag attached to every log line.
	Environment string

	// Mode identifies which binary is running.
	Mode AppMode

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output instead of text.
	LogJSON bool

	// MetricsAddr, when non-empty, is the address trace-analysis serves the
	// Prometheus /metrics endpoint on for the duration of its run (see
	// ServeMetrics). Empty disables the listener; counters are still recorded
	// against the local registry and can be scraped via PromReader in tests.
	MetricsAddr string
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		Mode:        ModeTraceAnalysis,
		LogLevel:    slog.LevelInfo,
	}
}

// LevelFromString maps a pkg/config LoggingConfig.Level string to a
// slog.Level, defaulting to Info for anything unrecognized so a typo'd
// config value degrades rather than fails startup.
func LevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
