package integrity

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Rules attaches validators and sanitizers to a table's columns, either by
// exact column name or by a glob pattern matched against column names
// (e.g. "addr_*" to sanitize every address-shaped column the same way
// without naming each one). Patterns are compiled once at
// AddValidatorPattern/AddSanitizerPattern time
// and reused for every row, which is the same reason filter/like.go keeps
// its own hand-rolled engine for per-row work but this one-time,
// column-name-only match is exactly gobwas/glob's sweet spot.
type Rules struct {
	byName    map[string][]Validator
	sanByName map[string][]Sanitizer

	patterns    []namedValidatorPattern
	sanPatterns []namedSanitizerPattern
}

type namedValidatorPattern struct {
	g glob.Glob
	v Validator
}

type namedSanitizerPattern struct {
	g glob.Glob
	s Sanitizer
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{
		byName:    make(map[string][]Validator),
		sanByName: make(map[string][]Sanitizer),
	}
}

// AddValidator attaches v to the exact column name.
func (r *Rules) AddValidator(column string, v Validator) {
	r.byName[column] = append(r.byName[column], v)
}

// AddSanitizer attaches s to the exact column name.
func (r *Rules) AddSanitizer(column string, s Sanitizer) {
	r.sanByName[column] = append(r.sanByName[column], s)
}

// AddValidatorPattern attaches v to every column whose name matches the
// glob pattern (supporting '*', '?', and character classes).
func (r *Rules) AddValidatorPattern(pattern string, v Validator) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("integrity: invalid validator pattern %q: %w", pattern, err)
	}
	r.patterns = append(r.patterns, namedValidatorPattern{g: g, v: v})
	return nil
}

// AddSanitizerPattern attaches s to every column whose name matches the
// glob pattern.
func (r *Rules) AddSanitizerPattern(pattern string, s Sanitizer) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("integrity: invalid sanitizer pattern %q: %w", pattern, err)
	}
	r.sanPatterns = append(r.sanPatterns, namedSanitizerPattern{g: g, s: s})
	return nil
}

// ValidatorsFor returns every validator attached to column, name-exact
// rules first, then pattern rules in registration order.
func (r *Rules) ValidatorsFor(column string) []Validator {
	var out []Validator
	out = append(out, r.byName[column]...)
	for _, p := range r.patterns {
		if p.g.Match(column) {
			out = append(out, p.v)
		}
	}
	return out
}

// SanitizersFor returns every sanitizer attached to column, name-exact
// rules first, then pattern rules in registration order.
func (r *Rules) SanitizersFor(column string) []Sanitizer {
	var out []Sanitizer
	out = append(out, r.sanByName[column]...)
	for _, p := range r.sanPatterns {
		if p.g.Match(column) {
			out = append(out, p.s)
		}
	}
	return out
}
