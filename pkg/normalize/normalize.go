// Package normalize maps raw volunteer field values to canonical comparison keys.
//
// Every function is pure and total: malformed or empty input yields ok=false
// (the absent marker) instead of an error. Two absent keys are never equal;
// callers must not index or compare a key whose ok flag is false.
package normalize

import (
	"strings"
	"unicode"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/records"
)

// text returns the trimmed display text of v, or ok=false when v is blank.
func text(v records.Value) (string, bool) {
	if v.IsBlank() {
		return "", false
	}
	return strings.TrimSpace(v.Text()), true
}

// CollapseSpace trims s and folds every run of whitespace into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Email lowercases and trims an email address.
func Email(v records.Value) (string, bool) {
	s, ok := text(v)
	if !ok {
		return "", false
	}
	s = strings.ToLower(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Phone returns the canonical phone form: digits with an optional leading
// plus sign. A value with more than one plus sign loses all of them. Values
// with fewer than constants.MinPhoneDigits digits are absent.
func Phone(v records.Value) (string, bool) {
	s, ok := text(v)
	if !ok {
		return "", false
	}
	s = strings.ReplaceAll(s, "'+", "+")

	var b strings.Builder
	plus, digits := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+':
			b.WriteRune(r)
			plus++
		}
	}
	if digits < constants.MinPhoneDigits {
		return "", false
	}

	out := b.String()
	switch {
	case plus > 1:
		out = strings.ReplaceAll(out, "+", "")
	case plus == 1 && !strings.HasPrefix(out, "+"):
		out = strings.ReplaceAll(out, "+", "")
	}
	return out, true
}

// PhoneKey returns the digits-only matching key of a phone value.
func PhoneKey(v records.Value) (string, bool) {
	p, ok := Phone(v)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(p, "+"), true
}

// ID strips whitespace and quote characters from a government ID, lowercases
// it and keeps only ASCII letters, digits and dashes.
func ID(v records.Value) (string, bool) {
	s, ok := text(v)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '"', '\'', '“', '”', '‘', '’':
			continue
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// Name lowercases a name and collapses whitespace.
func Name(v records.Value) (string, bool) {
	s, ok := text(v)
	if !ok {
		return "", false
	}
	s = strings.ToLower(CollapseSpace(s))
	if s == "" {
		return "", false
	}
	return s, true
}

// FullName derives the name key from a full-name value, falling back to
// first and last name when the full name is blank.
func FullName(full, first, last records.Value) (string, bool) {
	if n, ok := Name(full); ok {
		return n, true
	}
	f, _ := text(first)
	l, _ := text(last)
	return Name(records.String(f + " " + l))
}

// DisplayName joins first and last name for display, or returns full.
func DisplayName(full, first, last records.Value) string {
	f, _ := text(first)
	l, _ := text(last)
	if joined := strings.TrimSpace(f + " " + l); joined != "" {
		return joined
	}
	s, _ := text(full)
	return s
}
