package pattern

import (
	"fmt"
	"slices"
	"strings"
)

// Range is a half-open interval [Start, End) of input indices.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) Empty() bool { return r.End <= r.Start }

// Contains reports whether o lies within r.
func (r Range) Contains(o Range) bool { return o.Start >= r.Start && o.End <= r.End }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// Group is an optional capture slot.
type Group struct {
	Range
	Matched bool
}

// Captures maps every capture name declared in a pattern to an optional Range.
// Slots are ordered by name.
type Captures struct {
	names []string
	slots []Group
}

// Names returns the declared capture names in slot order.
func (c Captures) Names() []string { return slices.Clone(c.names) }

// Get returns the range recorded for name. ok is false when the capture did
// not participate in the match or name was never declared.
func (c Captures) Get(name string) (r Range, ok bool) {
	i, found := slices.BinarySearch(c.names, name)
	if !found || !c.slots[i].Matched {
		return Range{}, false
	}
	return c.slots[i].Range, true
}

// Group returns the slot recorded for name.
func (c Captures) Group(name string) Group {
	i, found := slices.BinarySearch(c.names, name)
	if !found {
		return Group{}
	}
	return c.slots[i]
}

// Text returns src[r.Start:r.End] for the range recorded under name, or "" if
// there is none.
func (c Captures) Text(src string, name string) string {
	r, ok := c.Get(name)
	if !ok {
		return ""
	}
	return src[r.Start:r.End]
}

// Map returns the matched slots keyed by name.
func (c Captures) Map() map[string]Range {
	m := make(map[string]Range, len(c.names))
	for i, name := range c.names {
		if c.slots[i].Matched {
			m[name] = c.slots[i].Range
		}
	}
	return m
}

func (c Captures) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range c.names {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.slots[i].Matched {
			fmt.Fprintf(&b, "%s: %s", name, c.slots[i].Range)
		} else {
			fmt.Fprintf(&b, "%s: none", name)
		}
	}
	b.WriteString("}")
	return b.String()
}
