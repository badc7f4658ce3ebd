package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/runctx"
	"github.com/jayvdb/jaeger-stats/internal/statsio"
	"github.com/jayvdb/jaeger-stats/internal/stitch"
	"github.com/jayvdb/jaeger-stats/pkg/config"
	"github.com/jayvdb/jaeger-stats/pkg/observability"
	"github.com/jayvdb/jaeger-stats/pkg/pipeline"
	"github.com/jayvdb/jaeger-stats/pkg/version"
)

// StitchCommand holds the flags for the stitch command.
type StitchCommand struct {
	configPath string
	stitchList string
	output     string
	outputDir  string
	ext        string
	csvOutput  bool
	anomalies  string
	commaFloat bool
	plot       string
	plotTable  string
	plotKey    string

	intFlags   map[string]*int
	floatFlags map[string]*float64
}

// BindFlags registers the command's flags on cmd, generating the
// stitcher's tunable-bound flags from stitch.ConfigurationOptions so the
// CLI surface and internal/stitch.Config never drift apart.
func (sc *StitchCommand) BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&sc.configPath, "config", "", "path to a jaeger-stats config file (default: search ./jaeger-stats.yaml)")
	flags.StringVar(&sc.stitchList, "stitch-list", "", "path to a run list file (lines of \"path,label\")")
	flags.StringVar(&sc.output, "output", "stitched", "basename of the stitched output file")
	flags.StringVar(&sc.outputDir, "output-dir", "", "directory to write output to (default: from config, ./stitched)")
	flags.StringVar(&sc.ext, "ext", "json", "Stitched output codec: json, bson, bincode (any may be suffixed _lz4)")
	flags.BoolVar(&sc.csvOutput, "csv-output", false, "also write each table as a CSV file alongside the stitched output")
	flags.StringVar(&sc.anomalies, "anomalies", "", "path to write a CSV report of flagged anomaly rows")
	flags.BoolVar(&sc.commaFloat, "comma-float", false, "use ',' instead of '.' as the decimal separator in CSV output")
	flags.StringVar(&sc.plot, "plot", "", "path to write an HTML line chart of a single stitched metric")
	flags.StringVar(&sc.plotTable, "plot-table", "basic", "table the --plot metric is read from: basic, method, or call_chain")
	flags.StringVar(&sc.plotKey, "plot-key", "", "row key to plot (required with --plot)")

	sc.intFlags = map[string]*int{}
	sc.floatFlags = map[string]*float64{}

	for _, opt := range stitch.ConfigurationOptions() {
		switch opt.Type {
		case pipeline.IntConfigurationOption:
			def, _ := opt.Default.(int)
			sc.intFlags[opt.Name] = flags.Int(opt.Flag, def, opt.Description)
		case pipeline.FloatConfigurationOption:
			def, _ := opt.Default.(float64)
			sc.floatFlags[opt.Name] = flags.Float64(opt.Flag, def, opt.Description)
		default:
			// the stitcher declares only int and float tunables today.
		}
	}
}

func (sc *StitchCommand) stitchConfig() stitch.Config {
	return stitch.Config{
		DropCount:          *sc.intFlags["drop_count"],
		ScaledSlopeBound:   *sc.floatFlags["scaled_slope_bound"],
		STNumPoints:        *sc.intFlags["st_num_points"],
		ScaledSTSlopeBound: *sc.floatFlags["scaled_st_slope_bound"],
		L1DevBound:         *sc.floatFlags["l1_dev_bound"],
	}
}

// applyConfigDefaults overrides any tunable or output setting the caller
// did not explicitly pass on the command line with the value from the
// loaded config file, the same flag-changed-aware precedence
// cmd/trace-analysis applies.
func (sc *StitchCommand) applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if !flags.Changed("drop-count") {
		*sc.intFlags["drop_count"] = cfg.Stitch.DropCount
	}

	if !flags.Changed("st-num-points") {
		*sc.intFlags["st_num_points"] = cfg.Stitch.STNumPoints
	}

	if !flags.Changed("scaled-slope-bound") {
		*sc.floatFlags["scaled_slope_bound"] = cfg.Stitch.ScaledSlopeBound
	}

	if !flags.Changed("scaled-st-slope-bound") {
		*sc.floatFlags["scaled_st_slope_bound"] = cfg.Stitch.ScaledSTSlopeBound
	}

	if !flags.Changed("l1-dev-bound") {
		*sc.floatFlags["l1_dev_bound"] = cfg.Stitch.L1DevBound
	}

	if !flags.Changed("output-dir") && cfg.Stitch.OutputDir != "" {
		sc.outputDir = cfg.Stitch.OutputDir
	}

	if !flags.Changed("ext") && cfg.Stitch.Format != "" {
		sc.ext = cfg.Stitch.Format
		if cfg.Stitch.Compress {
			sc.ext += "_lz4"
		}
	}
}

// Run executes the stitch command.
func (sc *StitchCommand) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(sc.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sc.applyConfigDefaults(cmd, cfg)

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeStitch
	obsCfg.LogLevel = observability.LevelFromString(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() { _ = providers.Shutdown(cmd.Context()) }()

	if sc.stitchList == "" {
		return fmt.Errorf("--stitch-list is required")
	}

	descriptors, err := parseStitchList(sc.stitchList)
	if err != nil {
		return err
	}

	sink := report.NewSink()
	sink.SetColor(cfg.Report.Color)

	runCtx := runctx.New(0, sc.commaFloat, false, sink, providers.Logger)

	result := stitch.Stitch(runCtx, descriptors, sc.stitchConfig(), statsio.LoadStatsRec)

	outputDir := sc.outputDir
	if outputDir == "" {
		outputDir = cfg.Report.OutputDir
	}

	err = os.MkdirAll(outputDir, 0o750)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path, err := statsio.SaveStitched(outputDir, sc.output, sc.ext, result)
	if err != nil {
		return fmt.Errorf("save stitched record: %w", err)
	}

	sink.Append(report.Summary, "wrote stitched record to %s", path)

	if sc.csvOutput {
		err = sc.writeCSVTables(outputDir, result)
		if err != nil {
			return err
		}
	}

	anomalies := result.AllAnomalies()
	sink.Append(report.Summary, "%d anomalies flagged across %d rows", len(anomalies),
		len(result.Basic.Rows)+len(result.Method.Rows)+len(result.CallChain.Rows))

	if sc.anomalies != "" {
		err = sc.writeAnomaliesCSV(anomalies)
		if err != nil {
			return err
		}

		sink.Append(report.Summary, "wrote anomalies report to %s", sc.anomalies)
	}

	if sc.plot != "" {
		err = sc.writePlot(result)
		if err != nil {
			return err
		}

		sink.Append(report.Summary, "wrote plot to %s", sc.plot)
	}

	return sink.Flush(cmd.OutOrStdout())
}

func (sc *StitchCommand) writePlot(result *stitch.Stitched) error {
	if sc.plotKey == "" {
		return fmt.Errorf("--plot-key is required with --plot")
	}

	tables := map[string]struct {
		table stitch.Table
		stats []stitch.RowStats
	}{
		"basic":      {result.Basic, result.BasicStats},
		"method":     {result.Method, result.MethodStats},
		"call_chain": {result.CallChain, result.CallChainStats},
	}

	selected, ok := tables[sc.plotTable]
	if !ok {
		return fmt.Errorf("invalid --plot-table %q: want basic, method, or call_chain", sc.plotTable)
	}

	chart, err := stitch.BuildLineChart(selected.table, selected.stats, result.Labels, sc.plotKey)
	if err != nil {
		return err
	}

	f, err := os.Create(sc.plot)
	if err != nil {
		return fmt.Errorf("create plot output %q: %w", sc.plot, err)
	}

	err = stitch.WritePlotHTML(f, chart)
	closeErr := f.Close()

	if err != nil {
		return fmt.Errorf("write plot output %q: %w", sc.plot, err)
	}

	if closeErr != nil {
		return fmt.Errorf("close plot output %q: %w", sc.plot, closeErr)
	}

	return nil
}

func (sc *StitchCommand) writeCSVTables(outputDir string, result *stitch.Stitched) error {
	tables := map[string]stitch.Table{
		"basic":      result.Basic,
		"method":     result.Method,
		"call_chain": result.CallChain,
	}

	for name, t := range tables {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", sc.output, name))

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create csv output %q: %w", path, err)
		}

		err = statsio.WriteTableCSV(f, result.Labels, t, sc.commaFloat)
		closeErr := f.Close()

		if err != nil {
			return fmt.Errorf("write csv output %q: %w", path, err)
		}

		if closeErr != nil {
			return fmt.Errorf("close csv output %q: %w", path, closeErr)
		}
	}

	return nil
}

func (sc *StitchCommand) writeAnomaliesCSV(anomalies []stitch.TaggedAnomaly) error {
	f, err := os.Create(sc.anomalies)
	if err != nil {
		return fmt.Errorf("create anomalies report %q: %w", sc.anomalies, err)
	}

	err = statsio.WriteAnomaliesCSV(f, anomalies, sc.commaFloat)
	closeErr := f.Close()

	if err != nil {
		return fmt.Errorf("write anomalies report %q: %w", sc.anomalies, err)
	}

	if closeErr != nil {
		return fmt.Errorf("close anomalies report %q: %w", sc.anomalies, closeErr)
	}

	return nil
}
