package columns

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Regex uses regular expressions searched anywhere in the header.
	Regex PatternType = iota
	// Glob uses shell-style glob patterns (*, ?, []) over the whole header.
	Glob
	// Exact compares the whole header, ignoring case.
	Exact
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Regex:
		return "regex"
	case Glob:
		return "glob"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

// Matcher tests column headers against one pattern.
type Matcher interface {
	// Match checks if the header matches the pattern
	Match(header string) bool
	// MatchFirst returns the first matching header and whether one matched.
	MatchFirst(headers ...string) (string, bool)
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// matcher is the concrete implementation of the Matcher interface.
// It is immutable after construction.
type matcher struct {
	pattern     string
	patternType PatternType
	compiled    *regexp.Regexp
	globPattern string
}

// NewMatcher creates a case-insensitive Matcher. Patterns prefixed with
// "glob:" or "exact:" select that type; anything else is a regex.
func NewMatcher(pattern string) (Matcher, error) {
	patternType := Regex
	body := pattern
	switch {
	case strings.HasPrefix(pattern, "glob:"):
		patternType, body = Glob, strings.TrimPrefix(pattern, "glob:")
	case strings.HasPrefix(pattern, "exact:"):
		patternType, body = Exact, strings.TrimPrefix(pattern, "exact:")
	}

	m := &matcher{pattern: pattern, patternType: patternType}
	switch patternType {
	case Glob:
		m.globPattern = strings.ToLower(body)
		if _, err := filepath.Match(m.globPattern, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Exact:
		m.globPattern = strings.TrimSpace(body)
	default:
		compiled, err := regexp.Compile("(?i)" + body)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	}
	return m, nil
}

// MustMatcher creates a Matcher and panics if the pattern is invalid.
func MustMatcher(pattern string) Matcher {
	m, err := NewMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match checks if the header matches the pattern.
func (m *matcher) Match(header string) bool {
	header = strings.TrimSpace(header)
	switch m.patternType {
	case Glob:
		matched, _ := filepath.Match(m.globPattern, strings.ToLower(header))
		return matched
	case Exact:
		return strings.EqualFold(header, m.globPattern)
	default:
		return m.compiled.MatchString(header)
	}
}

// MatchFirst returns the first matching header.
func (m *matcher) MatchFirst(headers ...string) (string, bool) {
	for _, h := range headers {
		if m.Match(h) {
			return h, true
		}
	}
	return "", false
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}
