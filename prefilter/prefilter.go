// Package prefilter rejects input that cannot contain a match before the
// matcher runs.
//
// A Prefilter is built from the literals every match of a pattern starts with
// (see syntax.Regexp.Literals). Input without any of them is skipped; input
// with one still has to be checked by the matcher.
package prefilter

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/mfroeh/gotori/syntax"
)

// Prefilter searches for a set of literals at once. A nil *Prefilter lets
// everything through.
type Prefilter struct {
	auto *ahocorasick.Automaton
}

// New builds a prefilter for literals. It returns nil if there is nothing to
// filter on, i.e. no literals or an empty one.
func New(literals []string) (*Prefilter, error) {
	if len(literals) == 0 {
		return nil, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		if lit == "" {
			return nil, nil
		}
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build prefilter for %q: %w", literals, err)
	}
	return &Prefilter{auto: auto}, nil
}

// ForRegexp builds a prefilter from the literal prefixes of re.
func ForRegexp(re *syntax.Regexp) (*Prefilter, error) {
	return New(re.Literals())
}

// Find returns the offset of the first literal occurrence at or after at, or
// -1. A nil prefilter returns at.
func (p *Prefilter) Find(haystack []byte, at int) int {
	if p == nil {
		return at
	}
	if at >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}
