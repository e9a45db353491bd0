package pattern

import "unicode/utf8"

// Iterator yields characters together with the exclusive end index of each
// character, i.e. the index where the next character starts. This is unlike
// ranging over a string, which yields start indices.
//
// The matcher clones the iterator at every backtrack point, so Clone must be
// cheap and the clone must be independent of the original.
type Iterator[C any] interface {
	Next() (end int, ch C, ok bool)
	Clone() Iterator[C]
}

// CharEndsIter iterates over the runes of a string, yielding the byte offset
// just past each rune.
type CharEndsIter struct {
	s   string
	pos int
}

// CharEnds returns an iterator over s starting at byte offset 0.
func CharEnds(s string) *CharEndsIter {
	return &CharEndsIter{s: s}
}

// CharEndsAt returns an iterator over s starting at byte offset pos.
func CharEndsAt(s string, pos int) *CharEndsIter {
	return &CharEndsIter{s: s, pos: min(max(pos, 0), len(s))}
}

func (it *CharEndsIter) Next() (int, rune, bool) {
	if it.pos >= len(it.s) {
		return it.pos, 0, false
	}
	r, w := utf8.DecodeRuneInString(it.s[it.pos:])
	it.pos += w
	return it.pos, r, true
}

func (it *CharEndsIter) Clone() Iterator[rune] {
	cp := *it
	return &cp
}

// Pos returns the byte offset of the next rune.
func (it *CharEndsIter) Pos() int { return it.pos }

// Rest returns the part of the string not yet consumed.
func (it *CharEndsIter) Rest() string { return it.s[it.pos:] }

// SliceEndsIter iterates over the elements of a slice, yielding i+1 for the
// element at index i.
type SliceEndsIter[C any] struct {
	s   []C
	pos int
}

// SliceEnds returns an iterator over s.
func SliceEnds[C any](s []C) *SliceEndsIter[C] {
	return &SliceEndsIter[C]{s: s}
}

func (it *SliceEndsIter[C]) Next() (int, C, bool) {
	if it.pos >= len(it.s) {
		var zero C
		return it.pos, zero, false
	}
	ch := it.s[it.pos]
	it.pos++
	return it.pos, ch, true
}

func (it *SliceEndsIter[C]) Clone() Iterator[C] {
	cp := *it
	return &cp
}

// Pos returns the index of the next element.
func (it *SliceEndsIter[C]) Pos() int { return it.pos }
