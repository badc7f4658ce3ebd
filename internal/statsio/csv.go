package statsio

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jayvdb/jaeger-stats/internal/report"
	"github.com/jayvdb/jaeger-stats/internal/stitch"
)

// WriteTableCSV renders a stitched Table as CSV, one column per label plus
// a leading key column, via go-pretty's CSV renderer. Nil cells render
// empty. commaFloat selects the locale decimal separator for numeric
// cells, matching report.FormatFloat elsewhere in the pipeline.
func WriteTableCSV(w io.Writer, labels []string, t stitch.Table, commaFloat bool) error {
	tw := table.NewWriter()

	header := make(table.Row, 0, len(labels)+1)
	header = append(header, "key")

	for _, label := range labels {
		header = append(header, label)
	}

	tw.AppendHeader(header)

	for _, row := range t.Rows {
		tableRow := make(table.Row, 0, len(row.Values)+1)
		tableRow = append(tableRow, row.Key)

		for _, v := range row.Values {
			if v == nil {
				tableRow = append(tableRow, "")

				continue
			}

			tableRow = append(tableRow, report.FormatFloat(*v, 4, commaFloat))
		}

		tw.AppendRow(tableRow)
	}

	_, err := io.WriteString(w, tw.RenderCSV())

	return err
}

// WriteAnomaliesCSV renders a Stitched dataset's flagged rows as CSV:
// table, key, slope, scaled_slope, scaled_st_slope, l1_dev.
func WriteAnomaliesCSV(w io.Writer, anomalies []stitch.TaggedAnomaly, commaFloat bool) error {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"table", "key", "slope", "scaled_slope", "scaled_st_slope", "l1_dev"})

	for _, a := range anomalies {
		tw.AppendRow(table.Row{
			a.Table,
			a.Key,
			report.FormatFloat(a.Slope, 4, commaFloat),
			report.FormatFloat(a.ScaledSlope, 4, commaFloat),
			report.FormatFloat(a.ScaledSTSlope, 4, commaFloat),
			report.FormatFloat(a.L1Dev, 4, commaFloat),
		})
	}

	_, err := io.WriteString(w, tw.RenderCSV())

	return err
}
