// Package dashboard computes the filtered views, KPIs and distributions
// served by the dashboard API.
package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
)

// CountryCandidates are the columns the country facet reads from; the
// first one present in the schema is used.
var CountryCandidates = []string{
	constants.CountryColumn,
	"País",
	"Pais",
	"País de residencia",
	"País (Residencia)",
	"Country",
}

// Row is the dashboard projection of one record.
type Row struct {
	Index     int                     `json:"index"`
	Name      string                  `json:"name"`
	Age       *int                    `json:"age"`
	Sex       string                  `json:"sex,omitempty"`
	Education string                  `json:"education,omitempty"`
	Country   string                  `json:"country,omitempty"`
	Areas     normalize.AreaSelection `json:"areas"`
	Record    *records.Record         `json:"record"`
}

// HasAge reports whether the row has a computed age.
func (r Row) HasAge() bool { return r.Age != nil }

// View is a dataset prepared for the dashboard: the full name column is
// ensured and the age column computed.
type View struct {
	data          *records.Dataset
	rows          []Row
	countryColumn string
}

// NewView prepares ds as of today. ds is not modified.
func NewView(ds *records.Dataset, today normalize.Date) *View {
	data := ds.Clone()
	ensureFullName(data)
	computeAges(data, today)

	v := &View{data: data}
	if present := columns.Present(data.Columns, CountryCandidates); len(present) > 0 {
		v.countryColumn = present[0]
	}

	v.rows = make([]Row, data.Len())
	for i, rec := range data.Rows {
		row := Row{
			Index:     i,
			Name:      rec.Get(constants.FullNameColumn).Text(),
			Sex:       label(rec.Get(constants.SexColumn)),
			Education: label(rec.Get(constants.EducationColumn)),
			Areas:     normalize.ParseAreaList(rec.Get(constants.AreasListColumn)),
			Record:    rec,
		}
		if v.countryColumn != "" {
			row.Country = strings.TrimSpace(label(rec.Get(v.countryColumn)))
		}
		if n, ok := rec.Get(constants.AgeColumn).Num(); ok {
			age := int(n)
			row.Age = &age
		}
		v.rows[i] = row
	}
	return v
}

// Data returns the prepared dataset.
func (v *View) Data() *records.Dataset { return v.data }

// Rows returns every row.
func (v *View) Rows() []Row { return v.rows }

// Len is the number of rows.
func (v *View) Len() int { return len(v.rows) }

// CountryColumn is the column the country facet reads, or "".
func (v *View) CountryColumn() string { return v.countryColumn }

// Dataset returns the records of rows as a dataset with the view schema.
func (v *View) Dataset(rows []Row) *records.Dataset {
	recs := make([]*records.Record, len(rows))
	for i, r := range rows {
		recs[i] = r.Record
	}
	return v.data.Subset(recs)
}

// Facets lists the options of every multiselect filter.
type Facets struct {
	Sex           []string `json:"sex"`
	Education     []string `json:"education"`
	Country       []string `json:"country"`
	CountryColumn string   `json:"country_column,omitempty"`
	Areas         []string `json:"areas"`
}

// Facets returns the sorted distinct options of the view.
func (v *View) Facets() Facets {
	f := Facets{CountryColumn: v.countryColumn}
	var sex, edu, country, areas []string
	for _, r := range v.rows {
		sex = append(sex, r.Sex)
		edu = append(edu, r.Education)
		country = append(country, r.Country)
		areas = append(areas, r.Areas...)
	}
	f.Sex = distinct(sex)
	f.Education = distinct(edu)
	if v.countryColumn != "" {
		f.Country = distinct(country)
	}
	if v.data.HasColumn(constants.AreasListColumn) {
		f.Areas = distinct(areas)
	}
	return f
}

// ensureFullName derives "Nombre completo" from the first and last name
// columns when either exists, and falls back to the row index when no
// name column exists at all.
func ensureFullName(ds *records.Dataset) {
	hasFirst := ds.HasColumn(constants.FirstNameColumn)
	hasLast := ds.HasColumn(constants.LastNameColumn)
	switch {
	case hasFirst || hasLast:
		ds.AddColumn(constants.FullNameColumn)
		for _, rec := range ds.Rows {
			first := strings.TrimSpace(label(rec.Get(constants.FirstNameColumn)))
			last := strings.TrimSpace(label(rec.Get(constants.LastNameColumn)))
			rec.Set(constants.FullNameColumn, records.String(strings.TrimSpace(first+" "+last)))
		}
	case !ds.HasColumn(constants.FullNameColumn):
		ds.AddColumn(constants.FullNameColumn)
		for i, rec := range ds.Rows {
			rec.Set(constants.FullNameColumn, records.String(strconv.Itoa(i)))
		}
	}
}

func computeAges(ds *records.Dataset, today normalize.Date) {
	ds.AddColumn(constants.AgeColumn)
	hasDOB := ds.HasColumn(constants.BirthDateColumn)
	for _, rec := range ds.Rows {
		age := records.Null()
		if hasDOB {
			if dob, ok := normalize.DOB(rec.Get(constants.BirthDateColumn)); ok {
				age = records.Int(dob.AgeOn(today))
			}
		}
		rec.Set(constants.AgeColumn, age)
	}
}

// label is the display text of a categorical cell; blank cells are "".
func label(v records.Value) string {
	if v.IsBlank() {
		return ""
	}
	return v.Text()
}

// distinct returns the sorted non-empty distinct values of xs.
func distinct(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := []string{}
	for _, x := range xs {
		if x != "" && !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}
