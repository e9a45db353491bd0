package pattern

import (
	"fmt"
	"slices"
	"strings"
)

// Matcher is a compiled pattern. It is immutable and may be used from several
// goroutines at once, as long as the predicates do not mutate a shared target.
type Matcher[C any] struct {
	root  evalFn[C]
	names []string
	tree  *Node[C]
}

// Compile validates the pattern tree rooted at root and lowers it into a
// matcher. Every structural error is reported here, never while matching.
func Compile[C any](root *Node[C]) (*Matcher[C], error) {
	c := compiler[C]{}
	c.collectNames(root, map[*Node[C]]bool{})
	slices.Sort(c.names)
	c.names = slices.Compact(c.names)

	eval, _, err := c.compile(root, rootPath(root))
	if err != nil {
		return nil, err
	}
	return &Matcher[C]{root: eval, names: c.names, tree: root}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile[C any](root *Node[C]) *Matcher[C] {
	m, err := Compile(root)
	if err != nil {
		panic(err)
	}
	return m
}

// Names returns the capture names declared in the pattern, sorted.
func (m *Matcher[C]) Names() []string { return slices.Clone(m.names) }

func (m *Matcher[C]) String() string { return m.tree.String() }

type compiler[C any] struct {
	names []string
}

func (c *compiler[C]) collectNames(n *Node[C], seen map[*Node[C]]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	if n.kind == KindCapture {
		c.names = append(c.names, n.names...)
	}
	for _, child := range n.children {
		c.collectNames(child, seen)
	}
}

func (c *compiler[C]) slot(name string) int {
	i, _ := slices.BinarySearch(c.names, name)
	return i
}

func rootPath[C any](n *Node[C]) string {
	if n == nil {
		return "<nil>"
	}
	return n.kind.String()
}

func childPath[C any](parent string, idx int, child *Node[C]) string {
	kind := "<nil>"
	if child != nil {
		kind = child.kind.String()
	}
	if idx < 0 {
		return parent + "." + kind
	}
	return fmt.Sprintf("%s[%d].%s", parent, idx, kind)
}

// compile returns the evaluator for n and the capture slots it may write.
func (c *compiler[C]) compile(n *Node[C], path string) (evalFn[C], []int, error) {
	if n == nil {
		return nil, nil, newCompileError(path, "nil node")
	}

	switch n.kind {
	case KindTest:
		if n.pred == nil {
			return nil, nil, newCompileError(path, "test without a predicate")
		}
		return compileTest(n.pred), nil, nil
	case KindAll:
		return c.compileAll(n, path)
	case KindAny:
		return c.compileAny(n, path)
	}

	child := n.children[0]
	if err := checkAnnotated(n, child, path); err != nil {
		return nil, nil, err
	}
	inner, slots, err := c.compile(child, childPath(path, -1, child))
	if err != nil {
		return nil, nil, err
	}

	switch n.kind {
	case KindRepeat:
		rb, msg := normalizeBounds(n.bounds)
		if msg != "" {
			return nil, nil, newCompileError(path, "%s", msg)
		}
		return compileRepeat(inner, rb, slots), slots, nil
	case KindCapture:
		own, err := c.captureSlots(n, path)
		if err != nil {
			return nil, nil, err
		}
		return compileCapture(inner, own), union(slots, own), nil
	case KindPosition:
		anchor, err := anchorOf(n, path)
		if err != nil {
			return nil, nil, err
		}
		return compilePosition(inner, anchor, slots), slots, nil
	}
	return nil, nil, newCompileError(path, "unknown node kind %s", n.kind)
}

func (c *compiler[C]) compileAll(n *Node[C], path string) (evalFn[C], []int, error) {
	children := make([]evalFn[C], 0, len(n.children))
	var restore, all []int
	for i, child := range n.children {
		eval, slots, err := c.compile(child, childPath(path, i, child))
		if err != nil {
			return nil, nil, err
		}
		children = append(children, eval)
		if i < len(n.children)-1 {
			restore = union(restore, slots)
		}
		all = union(all, slots)
	}
	return compileAll(children, restore), all, nil
}

func (c *compiler[C]) compileAny(n *Node[C], path string) (evalFn[C], []int, error) {
	children := make([]evalFn[C], 0, len(n.children))
	var all []int
	for i, child := range n.children {
		eval, slots, err := c.compile(child, childPath(path, i, child))
		if err != nil {
			return nil, nil, err
		}
		children = append(children, eval)
		all = union(all, slots)
	}
	return compileAny(children), all, nil
}

func (c *compiler[C]) captureSlots(n *Node[C], path string) ([]int, error) {
	if len(n.names) == 0 {
		return nil, newCompileError(path,
			"capture must contain at least one name (e.g. Capture(x, \"this\"))")
	}
	var slots []int
	for _, name := range n.names {
		if strings.TrimSpace(name) == "" {
			return nil, newCompileError(path, "capture name must not be blank")
		}
		slots = union(slots, []int{c.slot(name)})
	}
	return slots, nil
}

// checkAnnotated rejects an annotation placed directly on one of the same
// kind, which would collide on a single node. Different annotations nest in
// the order written.
func checkAnnotated[C any](n, child *Node[C], path string) error {
	if child == nil || child.kind != n.kind {
		return nil
	}
	switch n.kind {
	case KindCapture:
		return newCompileError(path,
			"to capture into several names use a single Capture listing every name "+
				"(e.g. Capture(x, \"a\", \"b\"))")
	case KindPosition:
		var outer, inner Anchor
		for _, a := range n.anchors {
			outer |= a
		}
		for _, a := range child.anchors {
			inner |= a
		}
		if outer|inner == First|Last && outer&inner == 0 {
			return newCompileError(path,
				"to check that a node is both first and last use Position(x, First, Last)")
		}
	}
	return newCompileError(path,
		"duplicate `%s`; wrap the inner one in All", n.kind)
}

func anchorOf[C any](n *Node[C], path string) (Anchor, error) {
	var anchor Anchor
	for _, a := range n.anchors {
		switch a {
		case First, Last:
		default:
			return 0, newCompileError(path, "invalid anchor %d; expected First or Last", a)
		}
		if anchor&a != 0 {
			return 0, newCompileError(path, "duplicate `%s`", a)
		}
		anchor |= a
	}
	if anchor == 0 {
		return 0, newCompileError(path, "expected First, or Last, or both")
	}
	return anchor, nil
}

// union appends the elements of b missing from a, keeping a's order. a is
// never written in place since evaluators keep their slot slices.
func union(a, b []int) []int {
	a = slices.Clip(a)
	for _, x := range b {
		if !slices.Contains(a, x) {
			a = append(a, x)
		}
	}
	return a
}
