package stitch

import "sort"

// Row is one metric's aligned values across every run slot; a nil entry
// marks a run that had no value for this key (a missing slot, or a key
// absent from that run's StatsRec).
type Row struct {
	Key    string
	Values []*float64
}

// Table is a set of rows, always kept key-sorted for reproducible output.
type Table struct {
	Rows []Row
}

// NewTable builds a Table from a key -> values map, sorting rows by key.
func NewTable(byKey map[string][]*float64) Table {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Row{Key: k, Values: byKey[k]})
	}

	return Table{Rows: rows}
}

func f(v float64) *float64 {
	return &v
}
