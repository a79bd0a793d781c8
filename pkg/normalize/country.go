package normalize

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/roster/pkg/records"
)

// Fold reduces s to its comparison form: trimmed, whitespace collapsed,
// lowercased, accents removed, and everything outside [a-z0-9 ] stripped.
func Fold(s string) string {
	s = strings.ToLower(CollapseSpace(s))

	// Transformers carry state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return CollapseSpace(b.String())
}

// TitleCase capitalizes every word of s.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// defaultCountries maps folded spellings to their display form.
var defaultCountries = map[string]string{
	"usa":                  "Estados Unidos",
	"eeuu":                 "Estados Unidos",
	"estados unidos":       "Estados Unidos",
	"republica dominicana": "República Dominicana",
	"mexico":               "México",
	"peru":                 "Perú",
	"espana":               "España",
	"canada":               "Canadá",
}

// CountryCanon is the equivalence table used to canonicalize countries.
// It is read-only after construction and safe for concurrent use.
type CountryCanon struct {
	table map[string]string
}

// DefaultCountryCanon returns the built-in equivalence table.
func DefaultCountryCanon() *CountryCanon {
	return NewCountryCanon(defaultCountries)
}

// NewCountryCanon builds a table from raw spellings to display forms.
// Keys are folded, so "Perú" and "peru" are the same entry.
func NewCountryCanon(entries map[string]string) *CountryCanon {
	c := &CountryCanon{table: make(map[string]string, len(entries))}
	for k, v := range entries {
		if fk := Fold(k); fk != "" && strings.TrimSpace(v) != "" {
			c.table[fk] = strings.TrimSpace(v)
		}
	}
	return c
}

// With returns a copy of c extended or overridden by entries.
func (c *CountryCanon) With(entries map[string]string) *CountryCanon {
	merged := maps.Clone(c.table)
	maps.Copy(merged, NewCountryCanon(entries).table)
	return &CountryCanon{table: merged}
}

// Lookup returns the display form registered for an already folded key.
func (c *CountryCanon) Lookup(folded string) (string, bool) {
	v, ok := c.table[folded]
	return v, ok
}

// Keys returns the folded keys in sorted order.
func (c *CountryCanon) Keys() []string {
	return slices.Sorted(maps.Keys(c.table))
}

// Canonical returns the display form of a raw country string: the table
// entry for its folded form, else the folded form title-cased.
func (c *CountryCanon) Canonical(raw string) (string, bool) {
	folded := Fold(raw)
	if folded == "" {
		return "", false
	}
	if v, ok := c.Lookup(folded); ok {
		return v, true
	}
	return TitleCase(folded), true
}

// Country canonicalizes a country value using canon, or the default table
// when canon is nil.
func Country(v records.Value, canon *CountryCanon) (string, bool) {
	s, ok := text(v)
	if !ok {
		return "", false
	}
	if canon == nil {
		canon = DefaultCountryCanon()
	}
	return canon.Canonical(s)
}

// FirstCountry returns the canonical country from the first candidate column
// of rec holding a non-blank value.
func FirstCountry(rec *records.Record, candidates []string, canon *CountryCanon) (string, bool) {
	for _, col := range candidates {
		if c, ok := Country(rec.Get(col), canon); ok {
			return c, true
		}
	}
	return "", false
}
