// Package filter parses dashboard query parameters.
//
// Multiselect parameters may be repeated (?sex=F&sex=M) or comma separated
// (?sex=F,M). Malformed numbers fall back to their defaults.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/roster/internal/dashboard"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
)

// Pagination defaults.
const (
	DefaultLimit = constants.DefaultPageSize
	MaxLimit     = constants.MaxPageSize
)

// Page is a window over a result list.
type Page struct {
	Limit  int
	Offset int
}

// Bounds returns the slice bounds of the page over n items.
func (p Page) Bounds(n int) (start, end int) {
	start = min(p.Offset, n)
	end = min(start+p.Limit, n)
	return start, end
}

// ParseFilter builds a dashboard filter from q.
func ParseFilter(q url.Values) dashboard.Filter {
	f := dashboard.DefaultFilter()
	f.Query = strings.TrimSpace(q.Get("q"))
	f.Sex = list(q, "sex")
	f.Education = list(q, "education")
	f.Countries = list(q, "country")
	f.Areas = list(q, "area")
	f.MatchAll = strings.EqualFold(q.Get("areas_mode"), "all") || boolOr(q.Get("match_all"), false)
	f.MinAge = clamp(intOr(q.Get("min_age"), dashboard.MinAge), dashboard.MinAge, dashboard.MaxAge)
	f.MaxAge = clamp(intOr(q.Get("max_age"), dashboard.MaxAge), dashboard.MinAge, dashboard.MaxAge)
	f.IncludeNoAge = boolOr(q.Get("include_no_age"), true)
	return f
}

// ParseStatsOptions reads the chart settings. Out of range values are
// clamped by the dashboard.
func ParseStatsOptions(q url.Values) dashboard.StatsOptions {
	return dashboard.StatsOptions{
		TopCountries: intOr(q.Get("top_countries"), 0),
		AgeBins:      intOr(q.Get("age_bins"), 0),
		ShowNoAge:    boolOr(q.Get("show_no_age"), false),
	}
}

// ParsePage reads limit and offset. Unlike the filters, an unparseable or
// negative value is rejected.
func ParsePage(q url.Values) (Page, error) {
	p := Page{Limit: DefaultLimit}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return p, &errors.ValidationError{Field: "limit", Value: s, Message: "must be a positive integer"}
		}
		p.Limit = min(n, MaxLimit)
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, &errors.ValidationError{Field: "offset", Value: s, Message: "must be a non-negative integer"}
		}
		p.Offset = n
	}
	return p, nil
}

func list(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func intOr(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}

func boolOr(s string, def bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		return b
	}
	return def
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
