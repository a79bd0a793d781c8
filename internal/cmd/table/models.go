// Package table converts roster results into rows for the table and
// markdown formatters.
package table

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/roster/internal/analysis"
	"github.com/agentstation/roster/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// MaxCellWidth bounds cell text in dataset previews.
const MaxCellWidth = 40

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Counts builds a two column label/count table with the counts right
// aligned.
func Counts(label, count string, pairs ...Pair) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.Label, strconv.Itoa(p.Count)})
	}
	return Data{
		Headers:         []string{label, count},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// Pair is one labelled count.
type Pair struct {
	Label string
	Count int
}

// DedupeToTableData renders a dedupe result.
func DedupeToTableData(res analysis.DedupeResult) Data {
	return Counts("Rows", "Count",
		Pair{"before", res.Before},
		Pair{"after", res.After},
		Pair{"removed", res.Removed},
	)
}

// AreasToTableData renders an area recompute result.
func AreasToTableData(res analysis.AreasResult) Data {
	return Counts("Areas", "Count",
		Pair{"area columns", res.Columns},
		Pair{"labels", res.Labels},
		Pair{"rows", res.Rows},
		Pair{"rows with areas", res.WithAreas},
		Pair{"rows changed", res.Changed},
		Pair{"suspicious before", res.Suspicious},
	)
}

// DuplicatesToTableData renders the per-kind duplicate summary.
func DuplicatesToTableData(rep *analysis.DuplicateReport) Data {
	headers, rows := rep.Summary()
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// CountriesToTableData renders the top country groups.
func CountriesToTableData(rep *analysis.CountryReport) Data {
	rows := make([][]string, 0, len(rep.Groups))
	for _, g := range rep.Groups {
		label := g.Canonical
		if label == "" {
			label = g.Folded
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(g.Count),
			strings.Join(g.Variants, " | "),
		})
	}
	return Data{
		Headers:         []string{"Country", "Rows", "Variants"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// DatasetToTableData previews up to limit rows of ds. With cols only those
// columns are shown. limit <= 0 shows every row.
func DatasetToTableData(ds *records.Dataset, limit int, cols ...string) Data {
	if len(cols) == 0 {
		cols = ds.Columns
	}
	n := ds.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, 0, n)
	for _, rec := range ds.Rows[:n] {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = Truncate(rec.Get(c).Text(), MaxCellWidth)
		}
		rows = append(rows, row)
	}
	return Data{Headers: append([]string(nil), cols...), Rows: rows}
}

// Truncate shortens s to at most width runes, marking the cut with an
// ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
