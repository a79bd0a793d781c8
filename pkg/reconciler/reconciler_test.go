package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
)

func master(country, list string, count any) *records.Record {
	return records.FromPairs(
		"Nombre completo", "Ana Ruiz",
		constants.CountryColumn, country,
		constants.AreasListColumn, list,
		constants.AreasCountColumn, count,
	)
}

func newReconciler(t *testing.T, size int) *Reconciler {
	t.Helper()
	r, err := New(WithCatalogueSize(size))
	require.NoError(t, err)
	return r
}

func TestNewRejectsNegativeCatalogue(t *testing.T) {
	_, err := New(WithCatalogueSize(-1))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSuspicious(t *testing.T) {
	assert.True(t, Suspicious(12, 12))
	assert.False(t, Suspicious(11, 12))
	assert.False(t, Suspicious(0, 0))
}

func TestCountry(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		incoming string
		want     string
		changed  bool
	}{
		{"fills blank", "", "Perú", "Perú", true},
		{"fills null marker", "nan", "Perú", "Perú", true},
		{"first write wins", "Chile", "Perú", "Chile", false},
		{"blank incoming ignored", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := master(tt.current, "", 0)
			res := newReconciler(t, 0).Reconcile(rec, Incoming{Country: tt.incoming})
			assert.Equal(t, tt.changed, res.Changed)
			assert.Equal(t, tt.want, rec.Get(constants.CountryColumn).Text())
			if tt.changed {
				require.Len(t, res.Changes, 1)
				assert.Equal(t, RuleCountryFill, res.Changes[0].Rule)
			}
		})
	}
}

func TestAreas(t *testing.T) {
	all := "A; B; C"
	tests := []struct {
		name      string
		list      string
		count     any
		size      int
		incoming  normalize.AreaSelection
		wantList  string
		wantCount float64
		rule      Rule
	}{
		{"fill blank list", "", nil, 3, normalize.AreaSelection{"A"}, "A", 1, RuleAreasFill},
		{"replace suspicious", all, 3, 3, normalize.AreaSelection{"A", "B", "C"}, all, 3, ""},
		{"suspicious replaced by narrower", all, 3, 3, normalize.AreaSelection{"B"}, "B", 1, RuleAreasSuspicious},
		{"narrower wins", "A; B", 2, 5, normalize.AreaSelection{"B"}, "B", 1, RuleAreasNarrow},
		{"wider loses", "A", 1, 5, normalize.AreaSelection{"A", "B"}, "A", 1, ""},
		{"clear suspicious", all, 3, 3, nil, "", 0, RuleAreasClear},
		{"empty incoming keeps list", "A", 1, 3, nil, "A", 1, ""},
		{"unparseable count is zero", "A; B", "lots", 5, normalize.AreaSelection{"A"}, "A; B", 0, ""},
		{"text count parsed", "A; B", "2", 5, normalize.AreaSelection{"A"}, "A", 1, RuleAreasNarrow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := master("", tt.list, tt.count)
			res := newReconciler(t, tt.size).Reconcile(rec, Incoming{Areas: tt.incoming})

			assert.Equal(t, tt.wantList, rec.Get(constants.AreasListColumn).Text())
			assert.Equal(t, tt.rule != "", res.Changed)
			if tt.rule != "" {
				n, ok := rec.Get(constants.AreasCountColumn).Num()
				require.True(t, ok)
				assert.Equal(t, tt.wantCount, n)
				assert.Equal(t, tt.rule, res.Changes[0].Rule)
			}
		})
	}
}

func TestClearWritesEmptyStringAndZero(t *testing.T) {
	rec := master("", "A; B", 2)
	res := newReconciler(t, 2).Reconcile(rec, Incoming{})

	require.True(t, res.Changed)
	list := rec.Get(constants.AreasListColumn)
	assert.Equal(t, records.KindString, list.Kind())
	assert.Equal(t, "", list.Text())
	n, ok := rec.Get(constants.AreasCountColumn).Num()
	require.True(t, ok)
	assert.Zero(t, n)
	assert.Len(t, res.Changes, 2)
}

func TestMissingColumnsAreNotAdded(t *testing.T) {
	rec := records.FromPairs("Nombre completo", "Ana Ruiz")
	res := newReconciler(t, 3).Reconcile(rec, Incoming{
		Country: "Perú",
		Areas:   normalize.AreaSelection{"A"},
	})
	assert.False(t, res.Changed)
	assert.Equal(t, []string{"Nombre completo"}, rec.Fields())
}

func TestCustomColumns(t *testing.T) {
	r, err := New(WithColumns(Columns{Country: "Country"}))
	require.NoError(t, err)
	assert.Equal(t, constants.AreasListColumn, r.Columns().AreasList)

	rec := records.FromPairs("Country", "")
	res := r.Reconcile(rec, Incoming{Country: "Chile"})
	assert.True(t, res.Changed)
	assert.Equal(t, "Chile", rec.Get("Country").Text())
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 3, ParseCount(records.Int(3)))
	assert.Equal(t, 2, ParseCount(records.String(" 2.0 ")))
	assert.Equal(t, 0, ParseCount(records.String("x")))
	assert.Equal(t, 0, ParseCount(records.Null()))
}
