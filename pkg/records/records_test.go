package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"string", String(" Ana "), " Ana "},
		{"integral number", Number(5551234567), "5551234567"},
		{"fractional number", Number(12.5), "12.5"},
		{"date", Date(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)), "1990-01-02"},
		{"date time", Date(time.Date(1990, 1, 2, 10, 30, 0, 0, time.UTC)), "1990-01-02 10:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Text())
		})
	}
}

func TestValueIsBlank(t *testing.T) {
	assert.True(t, Null().IsBlank())
	assert.True(t, String("   ").IsBlank())
	assert.True(t, String("NaN").IsBlank())
	assert.True(t, String("none").IsBlank())
	assert.True(t, String("NULL").IsBlank())
	assert.False(t, String("x").IsBlank())
	assert.False(t, Number(0).IsBlank())
	assert.True(t, Number(nan()).IsNull())
}

func TestValueJSON(t *testing.T) {
	b, err := json.Marshal([]Value{Null(), Number(3), String("a")})
	require.NoError(t, err)
	assert.JSONEq(t, `[null,3,"a"]`, string(b))

	var v Value
	require.NoError(t, json.Unmarshal([]byte(`"Perú"`), &v))
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "Perú", v.Text())
}

func TestRecordOrder(t *testing.T) {
	r := NewRecord()
	r.Set("b", String("2"))
	r.Set("a", String("1"))
	r.Set("b", String("3"))

	assert.Equal(t, []string{"b", "a"}, r.Fields())
	assert.Equal(t, "3", r.Get("b").Text())
	assert.True(t, r.Get("missing").IsNull())
	assert.False(t, r.Has("missing"))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"3","a":"1"}`, string(b))
}

func TestRecordClone(t *testing.T) {
	r := FromPairs("name", "Ana", "age", 30)
	c := r.Clone()
	c.Set("name", String("Eva"))

	assert.Equal(t, "Ana", r.Get("name").Text())
	assert.Equal(t, "Eva", c.Get("name").Text())
	assert.Equal(t, 2, r.NonBlankCount())
}

func TestDatasetReshape(t *testing.T) {
	ds := New("master", "Nombre", "Correo", "País")
	in := FromPairs("Correo", "a@x.org", "Extra", "dropped")

	row := ds.Append(in)
	assert.Equal(t, []string{"Nombre", "Correo", "País"}, row.Fields())
	assert.True(t, row.Get("Nombre").IsNull())
	assert.Equal(t, "a@x.org", row.Get("Correo").Text())
	assert.False(t, row.Has("Extra"))
	assert.Equal(t, 1, ds.Len())
}

func TestDatasetAddColumnAndClone(t *testing.T) {
	ds := FromMatrix("m", []string{"a", "b"}, [][]string{{"1", ""}, {"2"}})
	require.Equal(t, 2, ds.Len())
	assert.True(t, ds.Rows[0].Get("b").IsNull())
	assert.True(t, ds.Rows[1].Has("b"))

	assert.True(t, ds.AddColumn("c"))
	assert.False(t, ds.AddColumn("c"))
	assert.True(t, ds.Rows[1].Has("c"))

	c := ds.Clone()
	c.Rows[0].Set("a", String("changed"))
	assert.Equal(t, "1", ds.Rows[0].Get("a").Text())
	assert.Equal(t, [][]string{{"1", "", ""}, {"2", "", ""}}, ds.Matrix())
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]string{"\ufeffNombre", "Correo", "", "Correo", "Correo.1", "Correo"})
	assert.Equal(t, []string{"Nombre", "Correo", "Unnamed: 2", "Correo.1", "Correo.1.1", "Correo.2"}, got)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, New("ok", "a", "b").Validate())
	assert.Error(t, New("dup", "a", "a").Validate())
	assert.Error(t, New("blank", "a", " ").Validate())
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
