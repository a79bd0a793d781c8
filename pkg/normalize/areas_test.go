package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/roster/pkg/records"
)

const prefix = "Área(s) de Interés para Voluntariado"

func TestAreaLabel(t *testing.T) {
	assert.Equal(t, "Educación", AreaLabel(prefix+": Educación"))
	assert.Equal(t, "Salud: comunitaria", AreaLabel(prefix+":  Salud:   comunitaria "))
	assert.Equal(t, "Arte y cultura", AreaLabel(prefix+`: "Arte y cultura"`))
	assert.Equal(t, "Sin colon", AreaLabel("Sin colon"))
}

func TestIsSelected(t *testing.T) {
	tests := []struct {
		name string
		cell records.Value
		want bool
	}{
		{"si", records.String("Si"), true},
		{"sí", records.String("SÍ"), true},
		{"yes", records.String(" yes "), true},
		{"x", records.String("X"), true},
		{"check mark", records.String("✓"), true},
		{"one as number", records.Number(1), true},
		{"label text", records.String("educación"), true},
		{"other text", records.String("Quizás"), false},
		{"zero", records.Number(0), false},
		{"no", records.String("no"), false},
		{"nan", records.String("nan"), false},
		{"null", records.Null(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSelected(tt.cell, "Educación"))
		})
	}
}

func TestAreaCatalogue(t *testing.T) {
	schema := []string{
		"Nombre",
		prefix + ": Educación",
		prefix + ": Salud",
		prefix + ": Medio ambiente",
		prefix + ":Salud",
	}
	c := NewAreaCatalogue(schema, "")
	assert.Equal(t, 3, c.Size())
	assert.Len(t, c.Columns(), 4)
	assert.Equal(t, []string{"Educación", "Salud", "Medio ambiente"}, c.Labels())

	rec := records.FromPairs(
		prefix+": Educación", "Educación",
		prefix+": Salud", "Quizás",
		prefix+": Medio ambiente", "checked",
		prefix+":Salud", "1",
	)
	sel := c.Select(rec)
	assert.Equal(t, AreaSelection{"Educación", "Salud", "Medio ambiente"}, sel)
	assert.Equal(t, 3, sel.Count())
	assert.Equal(t, "Educación; Salud; Medio ambiente", sel.List())
	assert.True(t, sel.Contains("Salud"))

	empty := c.Select(records.FromPairs(prefix+": Educación", "no"))
	assert.Equal(t, 0, empty.Count())
	assert.Equal(t, "", empty.List())
}

func TestParseAreaList(t *testing.T) {
	assert.Equal(t, AreaSelection{"A", "B"}, ParseAreaList(records.String(" A ;; B; ")))
	assert.Nil(t, ParseAreaList(records.Null()))
}
