package pattern

import (
	"iter"
	"strings"
)

// StartsWithString reports whether s begins with a match of m.
func StartsWithString(m *Matcher[rune], target any, s string) (Match[rune], bool) {
	return m.StartsWith(target, 0, true, CharEnds(s))
}

// FindString returns the leftmost match of m in s.
func FindString(m *Matcher[rune], target any, s string) (Match[rune], bool) {
	return m.Find(target, 0, true, CharEnds(s))
}

// MatchIter yields successive non-overlapping matches in a string.
type MatchIter struct {
	m       *Matcher[rune]
	target  any
	find    bool
	start   int
	isFirst bool
	iter    Iterator[rune]
	done    bool
	matched bool
	prevEnd int
}

// Consecutive returns an iterator of matches where each one starts exactly
// where the previous one ended. It stops at the first position that does not
// match, and after an empty match.
func Consecutive(m *Matcher[rune], target any, s string) *MatchIter {
	return &MatchIter{m: m, target: target, isFirst: true, iter: CharEnds(s)}
}

// FindIter returns an iterator of successive non-overlapping finds. After an
// empty match the search resumes one character further, and an empty match
// adjacent to the previous match is not reported, as with regexp.
func FindIter(m *Matcher[rune], target any, s string) *MatchIter {
	return &MatchIter{m: m, target: target, find: true, isFirst: true, iter: CharEnds(s)}
}

// Next returns the next match. Once it returns false it keeps returning false.
func (it *MatchIter) Next() (Match[rune], bool) {
	for !it.done {
		var (
			found Match[rune]
			ok    bool
		)
		if it.find {
			found, ok = it.m.Find(it.target, it.start, it.isFirst, it.iter.Clone())
		} else {
			found, ok = it.m.StartsWith(it.target, it.start, it.isFirst, it.iter.Clone())
		}
		if !ok {
			it.done = true
			break
		}

		// an empty find right where the previous match ended is skipped
		if it.find && it.matched && found.Range.Empty() && found.Range.Start == it.prevEnd {
			it.iter = found.Remainder
			it.skip()
			continue
		}

		it.matched = true
		it.prevEnd = found.Range.End
		it.isFirst = false
		it.start = found.Range.End
		it.iter = found.Remainder.Clone()
		if found.Range.Empty() {
			if it.find {
				it.skip()
			} else {
				it.done = true
			}
		}
		return found, true
	}
	return Match[rune]{}, false
}

// skip moves the cursor one character forward.
func (it *MatchIter) skip() {
	end, _, more := it.iter.Next()
	if !more {
		it.done = true
		return
	}
	it.start = end
	it.isFirst = false
}

// All returns the remaining matches as a sequence.
func (it *MatchIter) All() iter.Seq[Match[rune]] {
	return func(yield func(Match[rune]) bool) {
		for {
			found, ok := it.Next()
			if !ok || !yield(found) {
				return
			}
		}
	}
}

// Replace replaces every match of m in s. rep receives the accumulator and
// the current match and writes the substitution. If there is no match s is
// returned unchanged.
func Replace(m *Matcher[rune], target any, s string, rep func(b *strings.Builder, found Match[rune])) string {
	return ReplaceN(m, target, s, -1, rep)
}

// ReplaceN is like Replace but replaces at most n matches. n < 0 means no
// limit.
func ReplaceN(m *Matcher[rune], target any, s string, n int, rep func(b *strings.Builder, found Match[rune])) string {
	if n == 0 {
		return s
	}

	var b strings.Builder
	last, count := 0, 0
	for found := range FindIter(m, target, s).All() {
		b.WriteString(s[last:found.Range.Start])
		rep(&b, found)
		last = found.Range.End
		count++
		if n > 0 && count >= n {
			break
		}
	}

	if count == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// ReplaceTemplate replaces every match of m in s with template expanded by
// Expand.
func ReplaceTemplate(m *Matcher[rune], target any, s, template string) string {
	return Replace(m, target, s, func(b *strings.Builder, found Match[rune]) {
		Expand(b, template, s, found)
	})
}

// Expand appends template to b, replacing $name and ${name} with the text of
// the named capture, $0 with the whole match and $$ with a literal $.
// Captures that did not participate expand to the empty string.
func Expand(b *strings.Builder, template, src string, found Match[rune]) {
	for i := 0; i < len(template); i++ {
		if template[i] != '$' || i+1 >= len(template) {
			b.WriteByte(template[i])
			continue
		}

		switch next := template[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			writeGroup(b, src, found, template[i+2:i+2+end])
			i += 2 + end
		default:
			j := i + 1
			for j < len(template) && isNameByte(template[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte('$')
				continue
			}
			writeGroup(b, src, found, template[i+1:j])
			i = j - 1
		}
	}
}

func writeGroup(b *strings.Builder, src string, found Match[rune], name string) {
	if name == "0" {
		b.WriteString(src[found.Range.Start:found.Range.End])
		return
	}
	b.WriteString(found.Captures.Text(src, name))
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
