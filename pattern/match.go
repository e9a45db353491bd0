package pattern

// Match is a successful match attempt.
type Match[C any] struct {
	// Range is the matched interval, starting at the index given to the driver.
	Range Range
	// Captures holds the range of every declared capture name.
	Captures Captures
	// Remainder is positioned just past the match.
	Remainder Iterator[C]
	// IterAdvanced is true iff a character was consumed or the caller said the
	// attempt is not at the start of input.
	IterAdvanced bool
}

func (m *Matcher[C]) newState(target any) *state[C] {
	return &state[C]{
		target:  target,
		capture: make([]Group, len(m.names)),
	}
}

func (m *Matcher[C]) attempt(s *state[C], start int, isFirst bool, it Iterator[C]) (Match[C], bool) {
	s.reset(start, isFirst, it)
	if !m.root(s) {
		return Match[C]{}, false
	}
	return Match[C]{
		Range:        Range{Start: start, End: s.end},
		Captures:     Captures{names: m.names, slots: s.capture},
		Remainder:    s.iter,
		IterAdvanced: !s.isFirst,
	}, true
}

// StartsWith reports whether the characters yielded by it, starting at index
// start, begin with a match. isFirst tells whether start is the start of
// input, which Position(x, First) relies on.
//
// The iterator is owned by the attempt; pass it.Clone() to keep using it.
func (m *Matcher[C]) StartsWith(target any, start int, isFirst bool, it Iterator[C]) (Match[C], bool) {
	return m.attempt(m.newState(target), start, isFirst, it)
}

// Find returns the first match at or after start, trying one start position
// after another, including the end of input. It advances it while searching.
func (m *Matcher[C]) Find(target any, start int, isFirst bool, it Iterator[C]) (Match[C], bool) {
	s := m.newState(target)
	for {
		if found, ok := m.attempt(s, start, isFirst, it.Clone()); ok {
			return found, true
		}
		end, _, ok := it.Next()
		if !ok {
			return Match[C]{}, false
		}
		start = end
		isFirst = false
	}
}
