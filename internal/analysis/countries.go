package analysis

import (
	"sort"
	"strings"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
)

// AnalysisCountryCandidates are the raw country columns inspected by
// Countries, in priority order.
var AnalysisCountryCandidates = []string{"País", "Pais", "País de residencia", "País (Residencia)", "Country"}

// maxVariants bounds the raw examples listed per group.
const maxVariants = 4

// ColumnBlanks counts blank and filled cells of one country column.
type ColumnBlanks struct {
	Column string `json:"column" yaml:"column"`
	Blank  int    `json:"blank" yaml:"blank"`
	Filled int    `json:"filled" yaml:"filled"`
}

// CountryGroup is the set of raw values that fold to the same key.
type CountryGroup struct {
	Folded    string   `json:"folded" yaml:"folded"`
	Canonical string   `json:"canonical" yaml:"canonical"`
	Count     int      `json:"count" yaml:"count"`
	Variants  []string `json:"variants" yaml:"variants"`
}

// CountryReport is the outcome of Countries.
type CountryReport struct {
	Column       string         `json:"column" yaml:"column"`
	Total        int            `json:"total" yaml:"total"`
	Blank        int            `json:"blank" yaml:"blank"`
	UniqueRaw    int            `json:"unique_raw" yaml:"unique_raw"`
	UniqueFolded int            `json:"unique_folded" yaml:"unique_folded"`
	Groups       []CountryGroup `json:"groups" yaml:"groups"`
	Columns      []ColumnBlanks `json:"columns" yaml:"columns"`
}

// Countries inspects the first present candidate column of ds and groups
// its values by folded form. Only the top groups are kept; top <= 0 keeps
// all of them.
func Countries(ds *records.Dataset, candidates []string, canon *normalize.CountryCanon, top int) (*CountryReport, error) {
	if len(candidates) == 0 {
		candidates = AnalysisCountryCandidates
	}
	present := columns.Present(ds.Columns, candidates)
	if len(present) == 0 {
		return nil, &errors.ColumnError{Column: strings.Join(candidates, ", "), Dataset: ds.Name}
	}

	rep := &CountryReport{Column: present[0], Total: ds.Len()}
	for _, c := range columns.Present(ds.Columns, append([]string{constants.CountryColumn}, candidates...)) {
		cb := ColumnBlanks{Column: c}
		for _, rec := range ds.Rows {
			if rec.Get(c).IsBlank() {
				cb.Blank++
			} else {
				cb.Filled++
			}
		}
		rep.Columns = append(rep.Columns, cb)
	}

	type acc struct {
		group    CountryGroup
		variants map[string]int
		first    int
	}
	groups := make(map[string]*acc)
	raw := make(map[string]bool)
	for pos, rec := range ds.Rows {
		v := rec.Get(rep.Column)
		if v.IsBlank() {
			rep.Blank++
			continue
		}
		text := strings.TrimSpace(v.Text())
		raw[text] = true
		folded := normalize.Fold(text)
		if folded == "" {
			rep.Blank++
			continue
		}
		g, ok := groups[folded]
		if !ok {
			canonical, _ := normalize.Country(v, canon)
			g = &acc{
				group:    CountryGroup{Folded: folded, Canonical: canonical},
				variants: make(map[string]int),
				first:    pos,
			}
			groups[folded] = g
		}
		g.group.Count++
		g.variants[text]++
	}
	rep.UniqueRaw = len(raw)
	rep.UniqueFolded = len(groups)

	all := make([]*acc, 0, len(groups))
	for _, g := range groups {
		g.group.Variants = topKeys(g.variants, maxVariants)
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].group.Count != all[j].group.Count {
			return all[i].group.Count > all[j].group.Count
		}
		return all[i].first < all[j].first
	})
	if top > 0 && len(all) > top {
		all = all[:top]
	}
	for _, g := range all {
		rep.Groups = append(rep.Groups, g.group)
	}
	return rep, nil
}

// ApplyCountries writes the canonical country of every row into the
// normalized country column, adding the column when missing. The source
// is the first non-blank candidate per row. It returns how many cells
// changed.
func ApplyCountries(ds *records.Dataset, candidates []string, canon *normalize.CountryCanon) int {
	if len(candidates) == 0 {
		candidates = append([]string{constants.CountryColumn}, AnalysisCountryCandidates...)
	}
	ds.AddColumn(constants.CountryColumn)

	changed := 0
	for _, rec := range ds.Rows {
		next := records.String("")
		if c, ok := normalize.FirstCountry(rec, candidates, canon); ok {
			next = records.String(c)
		}
		cur := rec.Get(constants.CountryColumn)
		if cur.IsBlank() && next.IsBlank() {
			continue
		}
		if cur.Text() != next.Text() {
			rec.Set(constants.CountryColumn, next)
			changed++
		}
	}
	return changed
}

// topKeys returns up to n keys of counts, most frequent first, ties by key.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
