// Package reconciler decides which fields of a matched master record are
// overwritten by an incoming duplicate.
//
// Only two fields are reconciled. Country is filled when the master value is
// blank and never replaced once set. The interest-areas list and count are
// replaced when the master list is blank, when it looks like every checkbox
// was selected by an earlier indiscriminate rule, or when the incoming
// selection is narrower. Every other difference is discarded.
package reconciler

import (
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
)

// Rule names the condition that caused a write.
type Rule string

// Reconciliation rules.
const (
	RuleCountryFill     Rule = "country_fill"
	RuleAreasFill       Rule = "areas_fill"
	RuleAreasSuspicious Rule = "areas_suspicious"
	RuleAreasNarrow     Rule = "areas_narrow"
	RuleAreasClear      Rule = "areas_clear"
)

// Incoming holds the values derived from an incoming duplicate.
type Incoming struct {
	// Country is the canonical country, empty when absent.
	Country string
	// Areas is the strict selection from the incoming area columns.
	Areas normalize.AreaSelection
}

// Change records one field write.
type Change struct {
	Column string        `json:"column" yaml:"column"`
	Old    records.Value `json:"old" yaml:"old"`
	New    records.Value `json:"new" yaml:"new"`
	Rule   Rule          `json:"rule" yaml:"rule"`
}

// Result is the outcome of reconciling one pair.
type Result struct {
	// Changed is true when at least one value actually differs.
	Changed bool
	Changes []Change
}

// Reconciler applies the country and areas rules.
type Reconciler struct {
	columns       Columns
	catalogueSize int
}

// New creates a Reconciler.
func New(opts ...Option) (*Reconciler, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{columns: o.columns, catalogueSize: o.catalogueSize}, nil
}

// Columns returns the columns the reconciler writes.
func (r *Reconciler) Columns() Columns { return r.columns }

// Suspicious reports whether count equals a non-empty catalogue size.
func Suspicious(count, catalogueSize int) bool {
	return catalogueSize > 0 && count == catalogueSize
}

// Reconcile updates master in place from in. Columns missing from master
// are never added.
func (r *Reconciler) Reconcile(master *records.Record, in Incoming) Result {
	var res Result
	r.reconcileCountry(master, in, &res)
	r.reconcileAreas(master, in, &res)
	return res
}

func (r *Reconciler) reconcileCountry(master *records.Record, in Incoming, res *Result) {
	col := r.columns.Country
	if !master.Has(col) || in.Country == "" {
		return
	}
	if cur := master.Get(col); cur.IsBlank() {
		r.write(master, col, records.String(in.Country), RuleCountryFill, res)
	}
}

func (r *Reconciler) reconcileAreas(master *records.Record, in Incoming, res *Result) {
	listCol, countCol := r.columns.AreasList, r.columns.AreasCount
	if !master.Has(listCol) {
		return
	}

	curList := master.Get(listCol)
	curCount := ParseCount(master.Get(countCol))
	newCount := in.Areas.Count()
	suspicious := Suspicious(curCount, r.catalogueSize)

	var rule Rule
	switch {
	case newCount > 0 && curList.IsBlank():
		rule = RuleAreasFill
	case newCount > 0 && suspicious:
		rule = RuleAreasSuspicious
	case newCount > 0 && curCount > newCount:
		rule = RuleAreasNarrow
	case newCount == 0 && suspicious:
		rule = RuleAreasClear
	default:
		return
	}

	r.write(master, listCol, records.String(in.Areas.List()), rule, res)
	if master.Has(countCol) {
		r.write(master, countCol, records.Int(newCount), rule, res)
	}
}

// write stores v and records a change when it differs from the current value.
func (r *Reconciler) write(master *records.Record, col string, v records.Value, rule Rule, res *Result) {
	old := master.Get(col)
	master.Set(col, v)
	if sameContent(old, v) {
		return
	}
	res.Changed = true
	res.Changes = append(res.Changes, Change{Column: col, Old: old, New: v, Rule: rule})
}

// sameContent compares display text, treating every blank form as equal.
func sameContent(a, b records.Value) bool {
	if a.IsBlank() && b.IsBlank() {
		return true
	}
	if an, ok := a.Num(); ok {
		if bn, ok := b.Num(); ok {
			return an == bn
		}
	}
	return strings.TrimSpace(a.Text()) == strings.TrimSpace(b.Text())
}

// ParseCount reads an areas count cell. Blank or unparseable cells are 0.
func ParseCount(v records.Value) int {
	if n, ok := v.Num(); ok {
		return int(math.Trunc(n))
	}
	if v.IsBlank() {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}
