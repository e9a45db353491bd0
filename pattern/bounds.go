package pattern

import (
	"fmt"
	"math"
)

type boundOp uint8

const (
	opEq boundOp = iota
	opLt
	opLe
	opGt
	opGe
)

func (op boundOp) String() string {
	return [...]string{"eq", "lt", "le", "gt", "ge"}[op]
}

// CountFunc computes a repetition bound when a match attempt reaches the
// Repeat node. It receives the target passed to StartsWith or Find.
type CountFunc func(target any) int

// Bound is one option of a Repeat node.
//
//	eq = N  exactly N times
//	lt = N  fewer than N times
//	le = N  at most N times
//	gt = N  more than N times
//	ge = N  at least N times
//
// One lower (gt, ge) and one upper (lt, le) option may be combined; eq must be
// the only option.
type Bound struct {
	op boundOp
	n  int
	fn CountFunc
}

func Eq(n int) Bound { return Bound{op: opEq, n: n} }
func Lt(n int) Bound { return Bound{op: opLt, n: n} }
func Le(n int) Bound { return Bound{op: opLe, n: n} }
func Gt(n int) Bound { return Bound{op: opGt, n: n} }
func Ge(n int) Bound { return Bound{op: opGe, n: n} }

func EqFunc(fn CountFunc) Bound { return Bound{op: opEq, fn: fn} }
func LtFunc(fn CountFunc) Bound { return Bound{op: opLt, fn: fn} }
func LeFunc(fn CountFunc) Bound { return Bound{op: opLe, fn: fn} }
func GtFunc(fn CountFunc) Bound { return Bound{op: opGt, fn: fn} }
func GeFunc(fn CountFunc) Bound { return Bound{op: opGe, fn: fn} }

func (b Bound) String() string {
	if b.fn != nil {
		return fmt.Sprintf("%s = <func>", b.op)
	}
	return fmt.Sprintf("%s = %d", b.op, b.n)
}

func (b Bound) isLower() bool { return b.op == opGt || b.op == opGe }
func (b Bound) isUpper() bool { return b.op == opLt || b.op == opLe }

// count is a bound normalised to an inclusive lower or exclusive upper value:
// either a literal or a function plus a constant offset. Counts saturate at
// math.MaxInt, and an upper count of math.MaxInt means no upper limit.
type count struct {
	lit    int
	fn     CountFunc
	offset int
}

func (c count) eval(target any) int {
	if c.fn == nil {
		return c.lit
	}
	n := c.fn(target)
	if n < 0 {
		return -1
	}
	return saturatingAdd(n, c.offset)
}

func saturatingAdd(n, offset int) int {
	if n > math.MaxInt-offset {
		return math.MaxInt
	}
	return n + offset
}

func (c count) unbounded() bool { return c.fn == nil && c.lit == math.MaxInt }

func (c count) isLit() bool { return c.fn == nil }

// repeatBounds is the half-open interval [lo, hi) of allowed repetitions.
// hi is unbounded when hasHi is false.
type repeatBounds struct {
	lo    count
	hi    count
	hasHi bool
}

func boundCount(b Bound, offset int) count {
	if b.fn != nil {
		return count{fn: b.fn, offset: offset}
	}
	return count{lit: saturatingAdd(b.n, offset)}
}

// normalizeBounds validates the options of a Repeat node and converts them to
// [lo, hi). Errors are returned as plain messages; the caller attaches the
// location.
func normalizeBounds(bounds []Bound) (repeatBounds, string) {
	if len(bounds) == 0 {
		return repeatBounds{}, "repeat must contain at least one bound (e.g. Ge(0))"
	}

	var lower, upper, exact *Bound
	for i := range bounds {
		b := &bounds[i]
		if b.fn == nil && b.n < 0 {
			return repeatBounds{}, fmt.Sprintf("`%s` must not be negative", b)
		}
		switch {
		case b.op == opEq:
			if exact != nil || lower != nil || upper != nil || len(bounds) > 1 {
				return repeatBounds{}, "`eq` must be the only bound"
			}
			exact = b
		case b.isLower():
			if lower != nil {
				return repeatBounds{}, fmt.Sprintf("`%s` cannot be combined with `%s`", b.op, lower.op)
			}
			lower = b
		case b.isUpper():
			if upper != nil {
				return repeatBounds{}, fmt.Sprintf("`%s` cannot be combined with `%s`", b.op, upper.op)
			}
			upper = b
		}
	}

	if exact != nil {
		rb := repeatBounds{lo: boundCount(*exact, 0), hi: boundCount(*exact, 1), hasHi: true}
		rb.hasHi = !rb.hi.unbounded()
		return rb, ""
	}

	var rb repeatBounds
	if lower != nil {
		offset := 0
		if lower.op == opGt {
			offset = 1
		}
		rb.lo = boundCount(*lower, offset)
	}
	if upper != nil {
		offset := 0
		if upper.op == opLe {
			offset = 1
		}
		rb.hi = boundCount(*upper, offset)
		rb.hasHi = true
	}

	if rb.hasHi && rb.hi.unbounded() {
		rb.hasHi = false
	}
	if rb.hasHi && rb.lo.isLit() && rb.hi.isLit() && rb.lo.lit >= rb.hi.lit {
		return repeatBounds{}, fmt.Sprintf(
			"invalid repetition range: at least `%d` and less than `%d`", rb.lo.lit, rb.hi.lit)
	}
	return rb, ""
}
