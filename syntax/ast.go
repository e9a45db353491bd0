package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Char matches one literal character.
type Char struct {
	C rune
}

// Choice matches the first alternative that matches.
type Choice struct {
	Alts [][]*Node
}

// Group matches Seq. Name is the capture name, "" for (?:...).
type Group struct {
	Name string
	Seq  []*Node
}

// Node is one quantified element of a parsed expression. State is one of
// *Char, *Class, *Choice or *Group.
type Node struct {
	State any
	// Min and Max bound the repetitions; Max < 0 means unbounded.
	Min int
	Max int
	// Str is the source text of the node, quantifier included.
	Str string
}

// Once reports whether n is matched exactly once.
func (n *Node) Once() bool { return n.Min == 1 && n.Max == 1 }

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch s := n.State.(type) {
	case *Char:
		b.WriteString(strconv.QuoteRune(s.C))
	case *Class:
		b.WriteString(s.String())
	case *Choice:
		b.WriteString("any(")
		for i, alt := range s.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeSeq(b, alt)
		}
		b.WriteString(")")
	case *Group:
		if s.Name != "" {
			fmt.Fprintf(b, "capture<%s>(", s.Name)
		} else {
			b.WriteString("(")
		}
		writeSeq(b, s.Seq)
		b.WriteString(")")
	default:
		panic("unexpected `state` type")
	}

	switch {
	case n.Once():
	case n.Max < 0:
		fmt.Fprintf(b, "{%d,}", n.Min)
	case n.Min == n.Max:
		fmt.Fprintf(b, "{%d}", n.Min)
	default:
		fmt.Fprintf(b, "{%d,%d}", n.Min, n.Max)
	}
}

func writeSeq(b *strings.Builder, seq []*Node) {
	for i, n := range seq {
		if i > 0 {
			b.WriteString(" ")
		}
		n.write(b)
	}
}
