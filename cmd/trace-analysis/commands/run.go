// Package commands implements the trace-analysis CLI command handler.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/internal/cchaincache"
	"github.com/jayvdb/jaeger-stats/internal/rawjaeger"
	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/span"
	"github.com/jayvdb/jaeger-stats/internal/stats"
	"github.com/jayvdb/jaeger-stats/internal/statsio"
	"github.com/jayvdb/jaeger-stats/pkg/config"
	"github.com/jayvdb/jaeger-stats/pkg/observability"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

// TraceAnalysisCommand holds the flags for the trace-analysis command.
type TraceAnalysisCommand struct {
	configPath      string
	cachingProcess  []string
	callChainFolder string
	timezoneMinutes int
	commaFloat      bool
	strict          bool
	outputExt       string
	outputDir       string
	traceOutput     bool
	metricsAddr     string
}

// BindFlags registers the command's flags on cmd.
func (tc *TraceAnalysisCommand) BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&tc.configPath, "config", "", "path to a jaeger-stats config file (default: search ./jaeger-stats.yaml)")
	flags.StringSliceVar(&tc.cachingProcess, "caching-process", nil, "service names whose chains should be tagged as caching processes")
	flags.StringVar(&tc.callChainFolder, "call-chain-folder", "", "directory of .cchain files to remap non-rooted chains against")
	flags.IntVar(&tc.timezoneMinutes, "timezone-minutes", 0, "offset, in minutes, applied to UTC timestamps for report display")
	flags.BoolVar(&tc.commaFloat, "comma-float", false, "use ',' instead of '.' as the decimal separator in report output")
	flags.BoolVar(&tc.strict, "strict", false, "reject trace dumps that fail schema validation instead of degrading field-by-field")
	flags.StringVar(&tc.outputExt, "output-ext", "json", "StatsRec output codec: json, bson, bincode (any may be suffixed _lz4)")
	flags.StringVar(&tc.outputDir, "output-dir", "", "directory to write the StatsRec file to (default: from config, ./reports)")
	flags.BoolVar(&tc.traceOutput, "trace-output", false, "append a per-trace summary line to the Details report chapter")
	flags.StringVar(&tc.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
}

// Run executes the trace-analysis command.
func (tc *TraceAnalysisCommand) Run(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.LoadConfig(tc.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tc.applyConfigDefaults(cmd, cfg)

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeTraceAnalysis
	obsCfg.LogLevel = observability.LevelFromString(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.MetricsAddr = tc.metricsAddr

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	ctx := context.Background()

	shutdownMetrics := func(context.Context) error { return nil }

	if tc.metricsAddr != "" {
		shutdownMetrics, err = observability.ServeMetrics(tc.metricsAddr, providers.Registry, providers.Logger)
		if err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
	}

	defer func() {
		_ = shutdownMetrics(ctx)
		_ = providers.Shutdown(ctx)
	}()

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init pipeline metrics: %w", err)
	}

	files, err := discoverInputFiles(input)
	if err != nil {
		return err
	}

	sink := report.NewSink()
	sink.SetColor(cfg.Report.Color)

	runCtx := runctx.New(tc.timezoneMinutes, tc.commaFloat, tc.strict, sink, providers.Logger)

	var cache *cchaincache.Cache

	if tc.callChainFolder != "" {
		maxSize, parseErr := humanize.ParseBytes(cfg.Cache.MaxSize)
		if parseErr != nil {
			maxSize = 0
		}

		cache = cchaincache.New(tc.callChainFolder, int64(maxSize), sink)
	}

	agg := stats.NewAggregator(runCtx, len(files), cache, tc.cachingProcess)

	for _, file := range files {
		err := tc.ingestFile(ctx, runCtx, file, agg, metrics)
		if err != nil {
			return err
		}
	}

	agg.WriteSummary(sink)

	outputDir := tc.outputDir
	if outputDir == "" {
		outputDir = cfg.Report.OutputDir
	}

	err = os.MkdirAll(outputDir, 0o750)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	basename := filepath.Base(input)
	basename = basename[:len(basename)-len(filepath.Ext(basename))]

	path, err := statsio.SaveStatsRec(outputDir, basename, tc.outputExt, agg.StatsRec())
	if err != nil {
		return fmt.Errorf("save stats record: %w", err)
	}

	sink.Append(report.Summary, "wrote stats record to %s", path)

	return sink.Flush(cmd.OutOrStdout())
}

func (tc *TraceAnalysisCommand) applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if !flags.Changed("timezone-minutes") {
		tc.timezoneMinutes = cfg.Run.TZOffsetMinutes
	}

	if !flags.Changed("comma-float") {
		tc.commaFloat = cfg.Run.CommaFloat
	}

	if !flags.Changed("strict") {
		tc.strict = cfg.Run.Strict
	}
}

func (tc *TraceAnalysisCommand) ingestFile(
	ctx context.Context, runCtx *runctx.RunContext, file string, agg *stats.Aggregator, metrics *observability.PipelineMetrics,
) error {
	done := metrics.TrackStage(ctx, "ingest")

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open trace dump %q: %w", file, err)
	}
	defer f.Close()

	dump, err := rawjaeger.Decode(f, runCtx.Strict)
	if err != nil {
		return fmt.Errorf("decode trace dump %q: %w", file, err)
	}

	started := time.Now()

	for _, item := range dump.Data {
		trace := span.Normalize(runCtx, item)

		var orphaned int64
		if len(trace.Orphans) > 0 {
			orphaned = int64(len(trace.Orphans))
		}

		metrics.RecordIngest(ctx, file, int64(len(trace.Spans)), orphaned)

		chainCount := agg.AddTrace(trace)
		metrics.RecordChains(ctx, file, int64(chainCount))

		if tc.traceOutput {
			runCtx.Report.Append(report.Details, "trace %s: %d spans, root=%s", trace.ID, len(trace.Spans), trace.RootID)
		}
	}

	done(time.Since(started).Seconds())

	return nil
}

func discoverInputFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input %q: %w", input, err)
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	matches, err := filepath.Glob(filepath.Join(input, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob input directory %q: %w", input, err)
	}

	sort.Strings(matches)

	return matches, nil
}
