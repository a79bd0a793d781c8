package analysis

import (
	"strconv"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/reconciler"
	"github.com/agentstation/roster/pkg/records"
)

// AreasResult summarises RecomputeAreas.
type AreasResult struct {
	Columns    int `json:"columns" yaml:"columns"`
	Labels     int `json:"labels" yaml:"labels"`
	Rows       int `json:"rows" yaml:"rows"`
	WithAreas  int `json:"with_areas" yaml:"with_areas"`
	Changed    int `json:"changed" yaml:"changed"`
	Suspicious int `json:"suspicious" yaml:"suspicious"`
}

// RecomputeAreas rebuilds the areas list and count of every row from the
// area columns using the strict selection rule. Output columns are added
// when missing. Suspicious counts rows whose stored count equalled the
// catalogue size before recomputation.
func RecomputeAreas(ds *records.Dataset, prefix string) AreasResult {
	cat := normalize.NewAreaCatalogue(ds.Columns, prefix)
	res := AreasResult{Columns: len(cat.Columns()), Labels: cat.Size(), Rows: ds.Len()}

	ds.AddColumn(constants.AreasListColumn)
	ds.AddColumn(constants.AreasCountColumn)

	for _, rec := range ds.Rows {
		curList := rec.Get(constants.AreasListColumn)
		curCount := reconciler.ParseCount(rec.Get(constants.AreasCountColumn))
		if reconciler.Suspicious(curCount, cat.Size()) {
			res.Suspicious++
		}

		sel := cat.Select(rec)
		if sel.Count() > 0 {
			res.WithAreas++
		}
		if curList.Text() != sel.List() || curCount != sel.Count() || rec.Get(constants.AreasCountColumn).IsBlank() {
			res.Changed++
		}
		rec.Set(constants.AreasListColumn, records.String(sel.List()))
		rec.Set(constants.AreasCountColumn, records.Int(sel.Count()))
	}
	return res
}

func itoa(n int) string { return strconv.Itoa(n) }
