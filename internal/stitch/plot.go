package stitch

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// lineWidth and lineWidthThin match the line weights used elsewhere for a
// primary series versus a reference line.
const (
	lineWidth     = 2
	lineWidthThin = 1
)

// FindRow returns the row matching key in t, or false if no row has it.
func FindRow(t Table, key string) (Row, bool) {
	for _, row := range t.Rows {
		if row.Key == key {
			return row, true
		}
	}

	return Row{}, false
}

// BuildLineChart renders one stitched row as a go-echarts line chart: the
// raw values across run labels as a single series, drawn in red when the
// row is flagged as an anomaly; individual points are not marked. Returns an
// error if key is not present in t.
func BuildLineChart(t Table, stats []RowStats, labels []string, key string) (*charts.Line, error) {
	row, ok := FindRow(t, key)
	if !ok {
		return nil, fmt.Errorf("stitch: no row %q in table", key)
	}

	anomalyKeys := map[string]bool{}

	for _, s := range stats {
		if s.Key == key && s.Anomaly {
			anomalyKeys[key] = true
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: key}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: key}),
	)
	line.SetXAxis(labels)

	values := make([]opts.LineData, len(row.Values))
	for i, v := range row.Values {
		if v == nil {
			continue
		}

		values[i] = opts.LineData{Value: *v}
	}

	lineStyle := opts.LineStyle{Width: lineWidth}
	if anomalyKeys[key] {
		lineStyle.Color = "#e74c3c"
	}

	line.AddSeries(key, values,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(lineStyle),
	)

	return line, nil
}

// WritePlotHTML renders chart as a standalone HTML page to w.
func WritePlotHTML(w io.Writer, chart *charts.Line) error {
	return chart.Render(w)
}
