package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/records"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "republica dominicana", Fold("  República   Dominicana. "))
	assert.Equal(t, "espana", Fold("ESPAÑA"))
	assert.Equal(t, "eeuu", Fold("EE.UU."))
	assert.Equal(t, "peru lima", Fold("Perú - Lima"))
	assert.Equal(t, "", Fold("¿?"))
}

func TestCountry(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Peru", "Perú", true},
		{"PERÚ", "Perú", true},
		{"usa", "Estados Unidos", true},
		{"EE.UU.", "Estados Unidos", true},
		{"estados  unidos", "Estados Unidos", true},
		{"Republica Dominicana", "República Dominicana", true},
		{"méxico", "México", true},
		{"España", "España", true},
		{"canada", "Canadá", true},
		{"costa rica", "Costa Rica", true},
		{"  COLOMBIA ", "Colombia", true},
		{"", "", false},
		{"...", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Country(records.String(tt.in), nil)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryCanonWith(t *testing.T) {
	base := DefaultCountryCanon()
	custom := base.With(map[string]string{"Brasil": "Brasil", "Perú": "Peru (PE)"})

	got, ok := custom.Canonical("PERU")
	require.True(t, ok)
	assert.Equal(t, "Peru (PE)", got)

	got, _ = base.Canonical("peru")
	assert.Equal(t, "Perú", got, "base table is not modified")

	_, ok = custom.Lookup("brasil")
	assert.True(t, ok)
	assert.Contains(t, custom.Keys(), "brasil")
}

func TestFirstCountry(t *testing.T) {
	rec := records.FromPairs("País", "", "Country", "peru")
	got, ok := FirstCountry(rec, []string{"País (normalizado)", "País", "Country"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "Perú", got)

	_, ok = FirstCountry(records.FromPairs("País", " "), []string{"País"}, nil)
	assert.False(t, ok)
}
