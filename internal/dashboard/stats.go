package dashboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/reconciler"
)

// Bounds of the chart controls.
const (
	MinChartSetting = 5
	MaxChartSetting = 30
)

// Bucket is one bar of a distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StatsOptions controls the distributions.
type StatsOptions struct {
	// TopCountries is how many countries to list, clamped to 5..30.
	TopCountries int `json:"top_countries"`
	// AgeBins is the number of histogram bins, clamped to 5..30.
	AgeBins int `json:"age_bins"`
	// ShowNoAge appends a "Sin edad" bar to the histogram.
	ShowNoAge bool `json:"show_no_age"`
}

// KPIs are the headline metrics of a filtered view.
type KPIs struct {
	Volunteers        int `json:"volunteers"`
	WithAreas         int `json:"with_areas"`
	DistinctSex       int `json:"distinct_sex"`
	DistinctEducation int `json:"distinct_education"`
}

// Stats holds the KPIs and every distribution.
type Stats struct {
	KPIs         KPIs     `json:"kpis"`
	Sex          []Bucket `json:"sex"`
	Education    []Bucket `json:"education"`
	TopAreas     []Bucket `json:"top_areas"`
	TopCountries []Bucket `json:"top_countries"`
	Ages         []Bucket `json:"ages"`
}

func clampSetting(n, def int) int {
	switch {
	case n == 0:
		return def
	case n < MinChartSetting:
		return MinChartSetting
	case n > MaxChartSetting:
		return MaxChartSetting
	}
	return n
}

// ComputeStats summarises rows.
func (v *View) ComputeStats(rows []Row, opts StatsOptions) Stats {
	topCountries := clampSetting(opts.TopCountries, constants.DefaultTopCountries)
	bins := clampSetting(opts.AgeBins, constants.DefaultAgeBins)

	var s Stats
	s.KPIs.Volunteers = len(rows)

	sex := newCounter()
	edu := newCounter()
	areas := newCounter()
	countries := newCounter()
	for _, r := range rows {
		if reconciler.ParseCount(r.Record.Get(constants.AreasCountColumn)) > 0 {
			s.KPIs.WithAreas++
		}
		sex.add(r.Sex)
		edu.add(r.Education)
		for _, a := range r.Areas {
			areas.add(a)
		}
		countries.add(r.Country)
	}
	s.KPIs.DistinctSex = sex.len()
	s.KPIs.DistinctEducation = edu.len()

	if v.data.HasColumn(constants.SexColumn) {
		s.Sex = sex.byLabel()
	}
	if v.data.HasColumn(constants.EducationColumn) {
		s.Education = edu.byLabel()
	}
	if v.data.HasColumn(constants.AreasListColumn) {
		s.TopAreas = areas.top(constants.DefaultTopAreas)
	}
	if v.countryColumn != "" {
		s.TopCountries = countries.top(topCountries)
	}
	s.Ages = AgeHistogram(rows, bins, opts.ShowNoAge)
	return s
}

// AgeHistogram bins the computed ages into equal-width bins spanning
// [floor(min), ceil(max)]. When every age is equal the range is widened
// by half a year on each side. Labels read "a–b" using the truncated
// edges. With showNoAge a final "Sin edad" bar counts rows without age.
func AgeHistogram(rows []Row, bins int, showNoAge bool) []Bucket {
	if bins <= 0 {
		bins = constants.DefaultAgeBins
	}
	var ages []float64
	noAge := 0
	for _, r := range rows {
		if r.HasAge() {
			ages = append(ages, float64(*r.Age))
		} else {
			noAge++
		}
	}

	var out []Bucket
	if len(ages) > 0 {
		lo, hi := ages[0], ages[0]
		for _, a := range ages {
			lo = math.Min(lo, a)
			hi = math.Max(hi, a)
		}
		lo, hi = math.Floor(lo), math.Ceil(hi)
		if lo == hi {
			lo -= 0.5
			hi += 0.5
		}
		width := (hi - lo) / float64(bins)
		counts := make([]int, bins)
		for _, a := range ages {
			i := int((a - lo) / width)
			if i >= bins {
				i = bins - 1
			}
			counts[i]++
		}
		for i := 0; i < bins; i++ {
			left := lo + width*float64(i)
			right := lo + width*float64(i+1)
			out = append(out, Bucket{
				Label: fmt.Sprintf("%d–%d", int(left), int(right)),
				Count: counts[i],
			})
		}
	}
	if showNoAge {
		out = append(out, Bucket{Label: constants.NoAgeLabel, Count: noAge})
	}
	return out
}

// counter counts labels, remembering first-seen order for stable ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if label == "" {
		return
	}
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) len() int { return len(c.counts) }

func (c *counter) byLabel() []Bucket {
	labels := append([]string(nil), c.order...)
	sort.Strings(labels)
	return c.buckets(labels)
}

func (c *counter) top(n int) []Bucket {
	labels := append([]string(nil), c.order...)
	sort.SliceStable(labels, func(i, j int) bool {
		return c.counts[labels[i]] > c.counts[labels[j]]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return c.buckets(labels)
}

func (c *counter) buckets(labels []string) []Bucket {
	out := make([]Bucket, len(labels))
	for i, l := range labels {
		out[i] = Bucket{Label: l, Count: c.counts[l]}
	}
	return out
}
