package report

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// AppendTable renders rows as an aligned text table via go-pretty and
// appends the result as a single entry of chapter ch. header names the
// columns; rows must all have len(header) cells.
func (s *Sink) AppendTable(ch Chapter, title string, header []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}

	tw.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}

		tw.AppendRow(tableRow)
	}

	rendered := tw.Render()

	if title != "" {
		s.Append(ch, "%s\n%s", title, rendered)
	} else {
		s.Append(ch, "%s", rendered)
	}
}

// FormatBytes renders a byte count in human-readable form (e.g. "4.2 MB").
func FormatBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}

// FormatCount renders an integer with thousands separators (e.g. "12,345").
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
