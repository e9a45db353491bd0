package pattern

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Node.
type Kind uint8

const (
	KindTest Kind = iota
	KindAll
	KindAny
	KindRepeat
	KindCapture
	KindPosition
)

func (k Kind) String() string {
	switch k {
	case KindTest:
		return "test"
	case KindAll:
		return "all"
	case KindAny:
		return "any"
	case KindRepeat:
		return "repeat"
	case KindCapture:
		return "capture"
	case KindPosition:
		return "position"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Anchor is a positional constraint of a Position node.
type Anchor uint8

const (
	// First requires the match to begin at the start of input.
	First Anchor = 1 << iota
	// Last requires the iterator to be exhausted after the inner node.
	Last
)

func (a Anchor) String() string {
	var parts []string
	if a&First != 0 {
		parts = append(parts, "first")
	}
	if a&Last != 0 {
		parts = append(parts, "last")
	}
	return strings.Join(parts, ", ")
}

// Node is one construct of a pattern tree over characters of type C.
// Nodes are built with the constructors in this file and are immutable
// afterwards, so a subtree may be shared between several parents.
type Node[C any] struct {
	kind     Kind
	pred     func(target any, ch C) bool
	label    string
	children []*Node[C]
	bounds   []Bound
	names    []string
	anchors  []Anchor
}

// Kind returns the variant of n.
func (n *Node[C]) Kind() Kind { return n.kind }

// Children returns the direct children of n. Repeat, Capture and Position
// nodes have exactly one child.
func (n *Node[C]) Children() []*Node[C] { return slices.Clone(n.children) }

// Names returns the capture names of a Capture node.
func (n *Node[C]) Names() []string { return slices.Clone(n.names) }

// Test matches a single character accepted by pred.
func Test[C any](pred func(ch C) bool) *Node[C] {
	var wrapped func(any, C) bool
	if pred != nil {
		wrapped = func(_ any, ch C) bool { return pred(ch) }
	}
	return &Node[C]{kind: KindTest, pred: wrapped}
}

// TestTarget matches a single character accepted by pred, which also receives
// the target passed to StartsWith or Find. pred may mutate the target.
func TestTarget[C any](pred func(target any, ch C) bool) *Node[C] {
	return &Node[C]{kind: KindTest, pred: pred}
}

// Is matches exactly the character c.
func Is[C comparable](c C) *Node[C] {
	n := Test(func(ch C) bool { return ch == c })
	n.label = charLabel(c)
	return n
}

// OneOf matches any of the characters cs.
func OneOf[C comparable](cs ...C) *Node[C] {
	set := slices.Clone(cs)
	n := Test(func(ch C) bool { return slices.Contains(set, ch) })
	labels := make([]string, len(set))
	for i, c := range set {
		labels[i] = charLabel(c)
	}
	n.label = strings.Join(labels, " ")
	return n
}

func charLabel(c any) string {
	if r, ok := c.(rune); ok {
		return strconv.QuoteRune(r)
	}
	return fmt.Sprint(c)
}

// Labeled returns a copy of the Test node n that prints as label.
func Labeled[C any](label string, n *Node[C]) *Node[C] {
	cp := *n
	cp.label = label
	return &cp
}

// All matches its children one after another. The empty sequence matches the
// empty prefix.
func All[C any](children ...*Node[C]) *Node[C] {
	return &Node[C]{kind: KindAll, children: children}
}

// Any matches the first of its children, in declaration order, that matches.
// The empty alternative never matches.
func Any[C any](children ...*Node[C]) *Node[C] {
	return &Node[C]{kind: KindAny, children: children}
}

// Repeat matches child greedily within bounds. Without bounds the pattern
// fails to compile; use Ge(0) for "any number of times".
func Repeat[C any](child *Node[C], bounds ...Bound) *Node[C] {
	return &Node[C]{kind: KindRepeat, children: []*Node[C]{child}, bounds: bounds}
}

// Capture records the range matched by child under every name in names.
func Capture[C any](child *Node[C], names ...string) *Node[C] {
	return &Node[C]{kind: KindCapture, children: []*Node[C]{child}, names: names}
}

// Position constrains child to the start and/or the end of input.
func Position[C any](child *Node[C], anchors ...Anchor) *Node[C] {
	return &Node[C]{kind: KindPosition, children: []*Node[C]{child}, anchors: anchors}
}

func (n *Node[C]) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node[C]) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch n.kind {
	case KindTest:
		if n.label != "" {
			fmt.Fprintf(b, "test(%s)", n.label)
		} else {
			b.WriteString("test")
		}
		return
	case KindRepeat:
		b.WriteString("repeat(")
		for i, bd := range n.bounds {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(bd.String())
		}
		b.WriteString(")")
	case KindCapture:
		fmt.Fprintf(b, "capture(%s)", strings.Join(n.names, ", "))
	case KindPosition:
		var a Anchor
		for _, an := range n.anchors {
			a |= an
		}
		fmt.Fprintf(b, "position(%s)", a)
	default:
		b.WriteString(n.kind.String())
	}
	b.WriteString("[")
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString("]")
}
