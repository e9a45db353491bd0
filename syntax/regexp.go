// Package syntax parses a compact regex-like notation into pattern trees.
//
// Supported: literals, '.', escapes like \n and \t, perl sets (\d \D \s \S
// \w \W), bracket expressions with ranges, negation and POSIX sets
// ([[:alpha:]]), groups capturing by number ("1", "2", ...), named groups
// (?P<name>...), non-capturing groups (?:...), alternation and the
// quantifiers ? * + {m} {m,} {m,n}. A leading '^' and a trailing '$' anchor
// the whole pattern to the start and the end of input.
//
// The notation only describes pattern trees, so matching follows the pattern
// package: alternatives are ordered and committed and quantifiers never give
// back what they matched. "a+a" never matches.
package syntax

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mfroeh/gotori/pattern"
)

// Regexp is a parsed expression.
type Regexp struct {
	Source string
	Seq    []*Node
	// First and Last are set by a leading '^' and a trailing '$'.
	First bool
	Last  bool

	names []string
}

// Parse parses re.
func Parse(re string) (*Regexp, error) {
	r := &Regexp{Source: re}
	p := parser{re: re}

	i := 0
	if strings.HasPrefix(re, "^") {
		r.First = true
		i = 1
	}
	if hasTrailingDollar(re[i:]) {
		r.Last = true
		p.re = re[:len(re)-1]
	}

	seq, j, err := p.parseChoices(i)
	if err != nil {
		return nil, err
	}
	if j < len(p.re) {
		return nil, newParserError(j, "unexpected ')'", nil)
	}
	r.Seq = seq
	r.names = p.names
	return r, nil
}

func hasTrailingDollar(re string) bool {
	if !strings.HasSuffix(re, "$") {
		return false
	}
	slashes := 0
	for i := len(re) - 2; i >= 0 && re[i] == '\\'; i-- {
		slashes++
	}
	return slashes%2 == 0
}

// Compile parses re and compiles it into a matcher.
func Compile(re string) (*pattern.Matcher[rune], error) {
	r, err := Parse(re)
	if err != nil {
		return nil, fmt.Errorf("failed to construct pattern from %q: %w", re, err)
	}
	return pattern.Compile(r.Pattern())
}

// MustCompile is like Compile but panics if re is invalid.
func MustCompile(re string) *pattern.Matcher[rune] {
	m, err := Compile(re)
	if err != nil {
		panic(err)
	}
	return m
}

func (r *Regexp) String() string { return r.Source }

// Names returns the capture names in the order their groups open.
func (r *Regexp) Names() []string {
	var names []string
	for _, name := range r.names {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Pattern lowers r into a pattern tree.
func (r *Regexp) Pattern() *pattern.Node[rune] {
	root := lowerSeq(r.Seq)

	var anchors []pattern.Anchor
	if r.First {
		anchors = append(anchors, pattern.First)
	}
	if r.Last {
		anchors = append(anchors, pattern.Last)
	}
	if len(anchors) == 0 {
		return root
	}
	return pattern.Position(unnest(root, pattern.KindPosition), anchors...)
}

func lowerSeq(seq []*Node) *pattern.Node[rune] {
	if len(seq) == 1 {
		return lower(seq[0])
	}
	children := make([]*pattern.Node[rune], len(seq))
	for i, n := range seq {
		children[i] = lower(n)
	}
	return pattern.All(children...)
}

func lower(n *Node) *pattern.Node[rune] {
	var p *pattern.Node[rune]
	switch s := n.State.(type) {
	case *Char:
		p = pattern.Is(s.C)
	case *Class:
		p = pattern.Labeled(s.String(), pattern.Test(s.Matches))
	case *Choice:
		alts := make([]*pattern.Node[rune], len(s.Alts))
		for i, alt := range s.Alts {
			alts[i] = lowerSeq(alt)
		}
		p = pattern.Any(alts...)
	case *Group:
		p = lowerSeq(s.Seq)
		if s.Name != "" {
			p = pattern.Capture(unnest(p, pattern.KindCapture), s.Name)
		}
	default:
		panic("unexpected `state` type")
	}

	if n.Once() {
		return p
	}
	return pattern.Repeat(unnest(p, pattern.KindRepeat), Bounds(n)...)
}

// Bounds returns the repetition bounds of n.
func Bounds(n *Node) []pattern.Bound {
	switch {
	case n.Max < 0:
		return []pattern.Bound{pattern.Ge(n.Min)}
	case n.Min == n.Max:
		return []pattern.Bound{pattern.Eq(n.Min)}
	case n.Min == 0:
		return []pattern.Bound{pattern.Le(n.Max)}
	}
	return []pattern.Bound{pattern.Ge(n.Min), pattern.Le(n.Max)}
}

// unnest wraps n in a sequence when it is an annotation of kind, since an
// annotation cannot be placed directly on one of its own kind.
func unnest(n *pattern.Node[rune], kind pattern.Kind) *pattern.Node[rune] {
	if n.Kind() == kind {
		return pattern.All(n)
	}
	return n
}

// Literals returns, for every top-level alternative, the literal text each of
// its matches starts with. It returns nil if some alternative has no such
// prefix.
func (r *Regexp) Literals() []string {
	alts := [][]*Node{r.Seq}
	if len(r.Seq) == 1 && r.Seq[0].Once() {
		if c, ok := r.Seq[0].State.(*Choice); ok {
			alts = c.Alts
		}
	}

	var lits []string
	for _, alt := range alts {
		var b strings.Builder
		literalPrefix(&b, alt)
		if b.Len() == 0 {
			return nil
		}
		lits = append(lits, b.String())
	}
	return lits
}

// literalPrefix writes the literal text seq starts with and reports whether
// seq is entirely literal.
func literalPrefix(b *strings.Builder, seq []*Node) bool {
	for _, n := range seq {
		if !n.Once() {
			return false
		}
		switch s := n.State.(type) {
		case *Char:
			b.WriteRune(s.C)
		case *Group:
			if !literalPrefix(b, s.Seq) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
