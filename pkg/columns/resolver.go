// Package columns locates the identity columns of a dataset from header
// patterns. Resolution is explicit and side-effect free, so the policy can be
// tested apart from the merge logic.
package columns

import (
	"fmt"
	"strings"
)

// Key names a logical column the matcher relies on.
type Key string

// Logical columns.
const (
	Email     Key = "email"
	Phone     Key = "phone"
	ID        Key = "id"
	FullName  Key = "full_name"
	FirstName Key = "first_name"
	LastName  Key = "last_name"
	DOB       Key = "dob"
)

// Keys lists every logical column in resolution order.
var Keys = []Key{Email, Phone, ID, FullName, FirstName, LastName, DOB}

// Patterns holds the ordered candidate patterns for each logical column.
type Patterns struct {
	Email     []string `mapstructure:"email" yaml:"email"`
	Phone     []string `mapstructure:"phone" yaml:"phone"`
	ID        []string `mapstructure:"id" yaml:"id"`
	FullName  []string `mapstructure:"full_name" yaml:"full_name"`
	FirstName []string `mapstructure:"first_name" yaml:"first_name"`
	LastName  []string `mapstructure:"last_name" yaml:"last_name"`
	DOB       []string `mapstructure:"dob" yaml:"dob"`
}

// DefaultPatterns returns the header patterns of the legacy roster and the
// WPForms export.
func DefaultPatterns() Patterns {
	return Patterns{
		Email:     []string{"^correo", "email", "e[- ]?mail"},
		Phone:     []string{"tel[ée]fono", "phone", "cel"},
		ID:        []string{"identificaci[oó]n", "^id$"},
		FullName:  []string{"^nombre completo$", "^full name$", "^name$"},
		FirstName: []string{"nombre completo: ?first", "^nombre$", "first name"},
		LastName:  []string{"nombre completo: ?last", "^apellidos?$", "last name"},
		DOB:       []string{"fecha de nacimiento", "cumplea[ñn]os", "birth", "^dob$"},
	}
}

// For returns the patterns of key.
func (p Patterns) For(key Key) []string {
	switch key {
	case Email:
		return p.Email
	case Phone:
		return p.Phone
	case ID:
		return p.ID
	case FullName:
		return p.FullName
	case FirstName:
		return p.FirstName
	case LastName:
		return p.LastName
	case DOB:
		return p.DOB
	default:
		return nil
	}
}

// WithDefaults fills every empty pattern list from DefaultPatterns.
func (p Patterns) WithDefaults() Patterns {
	d := DefaultPatterns()
	fill := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	return Patterns{
		Email:     fill(p.Email, d.Email),
		Phone:     fill(p.Phone, d.Phone),
		ID:        fill(p.ID, d.ID),
		FullName:  fill(p.FullName, d.FullName),
		FirstName: fill(p.FirstName, d.FirstName),
		LastName:  fill(p.LastName, d.LastName),
		DOB:       fill(p.DOB, d.DOB),
	}
}

// Candidates is an ordered list of compiled patterns for one column.
type Candidates struct {
	patterns []string
	matchers []Matcher
}

// NewCandidates compiles patterns in order.
func NewCandidates(patterns ...string) (*Candidates, error) {
	c := &Candidates{patterns: patterns, matchers: make([]Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := NewMatcher(p)
		if err != nil {
			return nil, err
		}
		c.matchers = append(c.matchers, m)
	}
	return c, nil
}

// Resolve picks a column from schema. Patterns are tried in order; for each
// one an exact case-insensitive header match is preferred, then the first
// header in schema order that the pattern matches.
func (c *Candidates) Resolve(schema []string) (string, bool) {
	for i, m := range c.matchers {
		for _, h := range schema {
			if strings.EqualFold(strings.TrimSpace(h), c.patterns[i]) {
				return h, true
			}
		}
		if h, ok := m.MatchFirst(schema...); ok {
			return h, true
		}
	}
	return "", false
}

// Resolve is a convenience wrapper around NewCandidates and Resolve.
func Resolve(schema []string, patterns ...string) (string, bool, error) {
	c, err := NewCandidates(patterns...)
	if err != nil {
		return "", false, err
	}
	col, ok := c.Resolve(schema)
	return col, ok, nil
}

// Resolver resolves every logical column of a schema.
type Resolver struct {
	candidates map[Key]*Candidates
}

// NewResolver compiles p. Empty lists fall back to the defaults.
func NewResolver(p Patterns) (*Resolver, error) {
	p = p.WithDefaults()
	r := &Resolver{candidates: make(map[Key]*Candidates, len(Keys))}
	for _, k := range Keys {
		c, err := NewCandidates(p.For(k)...)
		if err != nil {
			return nil, fmt.Errorf("patterns for %s: %w", k, err)
		}
		r.candidates[k] = c
	}
	return r, nil
}

// DefaultResolver returns a resolver for DefaultPatterns.
func DefaultResolver() *Resolver {
	r, err := NewResolver(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve maps each logical column to a schema column.
func (r *Resolver) Resolve(schema []string) Resolved {
	res := Resolved{columns: make(map[Key]string, len(Keys))}
	claimed := make(map[string]Key)
	for _, k := range Keys {
		col, ok := r.candidates[k].Resolve(schema)
		if !ok {
			continue
		}
		// A header already claimed by another key cannot serve two roles.
		if _, taken := claimed[col]; taken {
			continue
		}
		claimed[col] = k
		res.columns[k] = col
	}
	return res
}

// Resolved is the outcome of resolving a schema.
type Resolved struct {
	columns map[Key]string
}

// Column returns the schema column for key, or "" when unresolved.
func (r Resolved) Column(key Key) string {
	return r.columns[key]
}

// Has reports whether key resolved to a column.
func (r Resolved) Has(key Key) bool {
	_, ok := r.columns[key]
	return ok
}

// HasName reports whether any name column resolved.
func (r Resolved) HasName() bool {
	return r.Has(FullName) || r.Has(FirstName) || r.Has(LastName)
}

// Missing lists the matching keys that did not resolve. The three name
// columns count as one "name" key that is missing only when all are.
func (r Resolved) Missing() []string {
	var out []string
	for _, k := range []Key{Email, Phone, ID} {
		if !r.Has(k) {
			out = append(out, string(k))
		}
	}
	if !r.HasName() {
		out = append(out, "name")
	}
	if !r.Has(DOB) {
		out = append(out, string(DOB))
	}
	return out
}

// Warnings renders Missing as human readable messages for dataset.
func (r Resolved) Warnings(dataset string) []string {
	missing := r.Missing()
	out := make([]string, 0, len(missing))
	for _, m := range missing {
		out = append(out, fmt.Sprintf("%s: no %s column found; %s key is absent for every record", dataset, m, m))
	}
	return out
}

// Present returns the candidates that exist in schema, preserving order.
// Candidates are compared exactly after trimming.
func Present(schema []string, candidates []string) []string {
	index := make(map[string]bool, len(schema))
	for _, h := range schema {
		index[strings.TrimSpace(h)] = true
	}
	var out []string
	for _, c := range candidates {
		if index[c] {
			out = append(out, c)
		}
	}
	return out
}
