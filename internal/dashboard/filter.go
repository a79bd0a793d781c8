package dashboard

import (
	"strings"

	"github.com/agentstation/roster/pkg/constants"
)

// Filter selects dashboard rows. Empty selections do not filter.
type Filter struct {
	Query     string   `json:"q,omitempty"`
	Sex       []string `json:"sex,omitempty"`
	Education []string `json:"education,omitempty"`
	Countries []string `json:"country,omitempty"`
	Areas     []string `json:"areas,omitempty"`
	// MatchAll requires every selected area instead of any.
	MatchAll bool `json:"match_all,omitempty"`
	MinAge   int  `json:"min_age"`
	MaxAge   int  `json:"max_age"`
	// IncludeNoAge keeps rows whose age could not be computed.
	IncludeNoAge bool `json:"include_no_age"`
}

// Age slider bounds.
const (
	MinAge = 0
	MaxAge = 100
)

// DefaultFilter matches every row.
func DefaultFilter() Filter {
	return Filter{MinAge: MinAge, MaxAge: MaxAge, IncludeNoAge: true}
}

// Apply returns the rows matching f in view order.
func (v *View) Apply(f Filter) []Row {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	sex := set(f.Sex)
	edu := set(f.Education)
	country := set(f.Countries)
	filterAreas := len(f.Areas) > 0 && v.data.HasColumn(constants.AreasListColumn)

	out := make([]Row, 0, len(v.rows))
	for _, r := range v.rows {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		if sex != nil && !sex[r.Sex] {
			continue
		}
		if edu != nil && !edu[r.Education] {
			continue
		}
		if country != nil && v.countryColumn != "" && !country[r.Country] {
			continue
		}
		if filterAreas && !matchAreas(r, f.Areas, f.MatchAll) {
			continue
		}
		if !matchAge(r, f) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchAreas(r Row, want []string, all bool) bool {
	for _, a := range want {
		has := r.Areas.Contains(a)
		if all && !has {
			return false
		}
		if !all && has {
			return true
		}
	}
	return all
}

func matchAge(r Row, f Filter) bool {
	if !r.HasAge() {
		return f.IncludeNoAge
	}
	return *r.Age >= f.MinAge && *r.Age <= f.MaxAge
}

func set(xs []string) map[string]bool {
	if len(xs) == 0 {
		return nil
	}
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}
