package syntax

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// CharRange is an inclusive range of characters.
type CharRange struct {
	From rune
	To   rune
}

func (r CharRange) inRange(c rune) bool {
	return c >= r.From && c <= r.To
}

// Class matches one character inside (or, if Negate, outside) Ranges.
type Class struct {
	Negate bool
	Ranges []CharRange
}

func (c *Class) Matches(ch rune) bool {
	in := slices.ContainsFunc(c.Ranges, func(r CharRange) bool { return r.inRange(ch) })
	return in != c.Negate
}

func (c *Class) String() string {
	var b strings.Builder
	b.WriteString("[")
	if c.Negate {
		b.WriteString("^")
	}
	for _, r := range c.Ranges {
		b.WriteString(quoteClassChar(r.From))
		if r.To != r.From {
			b.WriteString("-")
			b.WriteString(quoteClassChar(r.To))
		}
	}
	b.WriteString("]")
	return b.String()
}

func quoteClassChar(c rune) string {
	switch {
	case strings.ContainsRune(`\]-^[`, c):
		return `\` + string(c)
	case c < 0x20 || c == 0x7f || c > unicode.MaxASCII && !unicode.IsPrint(c):
		return fmt.Sprintf(`\x{%x}`, c)
	}
	return string(c)
}

var (
	wordRanges = []CharRange{
		{From: '0', To: '9'},
		{From: 'A', To: 'Z'},
		{From: '_', To: '_'},
		{From: 'a', To: 'z'},
	}
	digitRanges = []CharRange{
		{From: '0', To: '9'},
	}
	spaceRanges = []CharRange{
		{From: '\t', To: '\r'},
		{From: ' ', To: ' '},
	}
)

// posixCharSets are the [:name:] sets allowed inside bracket expressions.
var posixCharSets = map[string][]CharRange{
	"alnum": {
		{From: '0', To: '9'},
		{From: 'A', To: 'Z'},
		{From: 'a', To: 'z'},
	},
	"alpha": {
		{From: 'A', To: 'Z'},
		{From: 'a', To: 'z'},
	},
	"ascii": {
		{From: 0x0, To: 0x7f},
	},
	"blank": {
		{From: '\t', To: '\t'},
		{From: ' ', To: ' '},
	},
	"cntrl": {
		{From: 0x0, To: 0x1f},
		{From: 0x7f, To: 0x7f},
	},
	"digit": digitRanges,
	"graph": {
		{From: 0x21, To: 0x7e},
	},
	"lower": {
		{From: 'a', To: 'z'},
	},
	"print": {
		{From: 0x20, To: 0x7e},
	},
	"punct": {
		{From: '!', To: '/'},
		{From: ':', To: '@'},
		{From: '[', To: '`'},
		{From: '{', To: '~'},
	},
	"space": spaceRanges,
	"upper": {
		{From: 'A', To: 'Z'},
	},
	"word": wordRanges,
	"xdigit": {
		{From: '0', To: '9'},
		{From: 'A', To: 'F'},
		{From: 'a', To: 'f'},
	},
}

// perlCharSet returns the set for \d, \D, \s, \S, \w or \W.
func perlCharSet(c byte) (ranges []CharRange, negate bool, ok bool) {
	switch c {
	case 'd', 'D':
		return digitRanges, c == 'D', true
	case 's', 'S':
		return spaceRanges, c == 'S', true
	case 'w', 'W':
		return wordRanges, c == 'W', true
	}
	return nil, false, false
}

// negateCharRanges returns the complement of ranges over all of Unicode.
func negateCharRanges(ranges []CharRange) []CharRange {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b CharRange) int {
		return int(a.From) - int(b.From)
	})

	var out []CharRange
	from := rune(0)
	for _, r := range sorted {
		if r.From > from {
			out = append(out, CharRange{From: from, To: r.From - 1})
		}
		from = max(from, r.To+1)
	}
	if from <= unicode.MaxRune {
		out = append(out, CharRange{From: from, To: unicode.MaxRune})
	}
	return out
}
