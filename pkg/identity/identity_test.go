package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/records"
)

var schema = []string{"Nombre completo", "Correo electrónico", "Teléfono", "Identificación", "Fecha de nacimiento"}

func dataset(rows ...[]string) *records.Dataset {
	return records.FromMatrix("master", schema, rows)
}

func extractor() *Extractor {
	return NewExtractor(columns.DefaultResolver().Resolve(schema))
}

func lookup(t *testing.T, master *records.Dataset, row []string) (Match, bool) {
	t.Helper()
	ex := extractor()
	ix := BuildIndex(master, ex)
	in := records.FromMatrix("incoming", schema, [][]string{row})
	require.Equal(t, 1, in.Len())
	return ix.FindMatch(ex.Keys(in.Rows[0]))
}

func TestKeys(t *testing.T) {
	ds := dataset([]string{" Ana  Ruiz ", "ANA@X.ORG", "+51 987-654-321", `"12 34"`, "01/02/1990"})
	ks := extractor().Keys(ds.Rows[0])

	assert.Equal(t, "ana@x.org", ks.Email)
	assert.True(t, ks.HasEmail)
	assert.Equal(t, "51987654321", ks.Phone)
	assert.Equal(t, "1234", ks.ID)
	assert.Equal(t, "ana ruiz", ks.Name)
	assert.Equal(t, "1990-02-01", ks.DOB.String())

	key, ok := ks.NameDOB()
	assert.True(t, ok)
	assert.Equal(t, "ana ruiz\x1f1990-02-01", key)
}

func TestKeysMissingColumns(t *testing.T) {
	ex := NewExtractor(columns.DefaultResolver().Resolve([]string{"Sexo"}))
	ks := ex.Keys(records.FromPairs("Sexo", "F"))
	for _, kind := range append(Priority, KeyName) {
		_, ok := ks.Key(kind)
		assert.False(t, ok, kind)
	}
}

func TestFindMatchPriority(t *testing.T) {
	master := dataset(
		[]string{"Ana Ruiz", "", "", "", "1990-01-01"},
		[]string{"Someone Else", "ana@x.org", "", "", ""},
		[]string{"Third", "", "5551234567", "", ""},
		[]string{"Fourth", "", "", "X-1", ""},
	)

	t.Run("email wins over name and dob", func(t *testing.T) {
		m, ok := lookup(t, master, []string{"Ana Ruiz", "ana@x.org", "", "", "1990-01-01"})
		require.True(t, ok)
		assert.Equal(t, 1, m.Position)
		assert.Equal(t, KeyEmail, m.Kind)
	})

	t.Run("email wins regardless of name phone and id", func(t *testing.T) {
		m, ok := lookup(t, master, []string{"Totally Different", " ANA@x.org ", "5551234567", "x-1", ""})
		require.True(t, ok)
		assert.Equal(t, 1, m.Position)
		assert.Equal(t, KeyEmail, m.Kind)
	})

	t.Run("phone before id", func(t *testing.T) {
		m, ok := lookup(t, master, []string{"", "", "(555) 123-4567", "X-1", ""})
		require.True(t, ok)
		assert.Equal(t, 2, m.Position)
		assert.Equal(t, KeyPhone, m.Kind)
	})

	t.Run("id", func(t *testing.T) {
		m, ok := lookup(t, master, []string{"", "", "", " x-1 ", ""})
		require.True(t, ok)
		assert.Equal(t, 3, m.Position)
		assert.Equal(t, KeyID, m.Kind)
	})

	t.Run("unmatched email falls through to name and dob", func(t *testing.T) {
		m, ok := lookup(t, master, []string{"ana ruiz", "new@x.org", "", "", "01/01/1990"})
		require.True(t, ok)
		assert.Equal(t, 0, m.Position)
		assert.Equal(t, KeyNameDOB, m.Kind)
	})
}

func TestNameAndDOB(t *testing.T) {
	master := dataset([]string{"Ana Ruiz", "", "", "", "1990-01-01"})

	_, ok := lookup(t, master, []string{"Ana Ruiz", "", "", "", "1990-01-01"})
	assert.True(t, ok, "identical name and dob")

	_, ok = lookup(t, master, []string{"Ana Ruiz", "", "", "", "1990-01-02"})
	assert.False(t, ok, "different dob")

	_, ok = lookup(t, master, []string{"Ana Ruíz Soto", "", "", "", "1990-01-01"})
	assert.False(t, ok, "different name")

	_, ok = lookup(t, master, []string{"Ana Ruiz", "", "", "", ""})
	assert.False(t, ok, "name alone never matches")
}

func TestAbsentNeverMatchesAbsent(t *testing.T) {
	master := dataset(
		[]string{"Ana", "", "", "", ""},
		[]string{"", "", "", "", ""},
	)
	_, ok := lookup(t, master, []string{"Eva", "", "", "", ""})
	assert.False(t, ok)

	_, ok = lookup(t, master, []string{"", "", "", "", ""})
	assert.False(t, ok)

	_, ok = lookup(t, master, []string{"", "", "123", "", ""})
	assert.False(t, ok, "short phones are absent")
}

func TestAmbiguousPicksFirst(t *testing.T) {
	master := dataset(
		[]string{"A", "", "", "", ""},
		[]string{"B", "dup@x.org", "", "", ""},
		[]string{"C", "dup@x.org", "", "", ""},
	)
	m, ok := lookup(t, master, []string{"Z", "DUP@x.org", "", "", ""})
	require.True(t, ok)
	assert.Equal(t, 1, m.Position)
	assert.Equal(t, 2, m.Candidates)
	assert.True(t, m.Ambiguous())
}

func TestIndexGroups(t *testing.T) {
	master := dataset(
		[]string{"Ana Ruiz", "a@x.org", "", "", ""},
		[]string{"ana  ruiz", "b@x.org", "", "", ""},
		[]string{"Eva", "a@x.org", "", "", ""},
	)
	ix := BuildIndex(master, extractor())
	assert.Equal(t, 3, ix.Size())
	assert.Equal(t, 2, ix.Len(KeyEmail))
	assert.Equal(t, []int{0, 2}, ix.Positions(KeyEmail, "a@x.org"))

	groups := map[string][]int{}
	ix.Groups(KeyName, func(key string, positions []int) { groups[key] = positions })
	assert.Equal(t, map[string][]int{"ana ruiz": {0, 1}}, groups)
}
