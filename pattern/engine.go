package pattern

import "math"

// evalFn tries to match one node at s.end. On true the context reflects what
// was consumed; on false everything the call changed has been rolled back.
type evalFn[C any] func(s *state[C]) bool

func matchNothing[C any](*state[C]) bool { return false }

func matchEmpty[C any](*state[C]) bool { return true }

func compileTest[C any](pred func(any, C) bool) evalFn[C] {
	return func(s *state[C]) bool {
		saved := s.iter.Clone()
		end, ch, ok := s.iter.Next()
		if !ok || !pred(s.target, ch) {
			s.iter = saved
			return false
		}
		s.end = end
		s.isFirst = false
		return true
	}
}

// compileAll matches children in order. slots are the capture slots written by
// every child but the last; the last child rolls back its own on failure.
func compileAll[C any](children []evalFn[C], slots []int) evalFn[C] {
	switch len(children) {
	case 0:
		return matchEmpty[C]
	case 1:
		return children[0]
	}
	return func(s *state[C]) bool {
		cp := s.save(slots)
		for _, child := range children {
			if !child(s) {
				s.restore(cp, slots)
				return false
			}
		}
		s.release(cp)
		return true
	}
}

// compileAny tries children in declaration order and commits to the first
// that matches. A failed branch has already rolled itself back, so the next
// one starts from the entry state.
func compileAny[C any](children []evalFn[C]) evalFn[C] {
	switch len(children) {
	case 0:
		return matchNothing[C]
	case 1:
		return children[0]
	}
	return func(s *state[C]) bool {
		for _, child := range children {
			if child(s) {
				return true
			}
		}
		return false
	}
}

// compileRepeat matches inner lo times, then greedily up to hi-1-lo more
// times. Optional iterations are never given back to let a later node match.
func compileRepeat[C any](inner evalFn[C], rb repeatBounds, slots []int) evalFn[C] {
	return func(s *state[C]) bool {
		lo := rb.lo.eval(s.target)
		if lo < 0 {
			return false
		}
		extra := -1
		if rb.hasHi {
			switch hi := rb.hi.eval(s.target); {
			case hi < 0:
				return false
			case hi == math.MaxInt:
				// saturated, no upper limit
			case lo >= hi:
				return false
			default:
				extra = hi - 1 - lo
			}
		}

		if lo > 0 {
			cp := s.save(slots)
			for range lo {
				before := s.end
				if !inner(s) {
					s.restore(cp, slots)
					return false
				}
				// the remaining required iterations would match empty too
				if s.end == before {
					break
				}
			}
			s.release(cp)
		}

		// a failed optional iteration restores itself, so the context is
		// already at the last good state when the loop ends
		for i := 0; extra < 0 || i < extra; i++ {
			before := s.end
			if !inner(s) {
				break
			}
			// nothing consumed: another iteration would match the same way
			if s.end == before {
				break
			}
		}
		return true
	}
}

func compileCapture[C any](inner evalFn[C], slots []int) evalFn[C] {
	return func(s *state[C]) bool {
		start := s.end
		if !inner(s) {
			return false
		}
		for _, i := range slots {
			s.capture[i] = Group{Range: Range{Start: start, End: s.end}, Matched: true}
		}
		return true
	}
}

func compilePosition[C any](inner evalFn[C], anchor Anchor, slots []int) evalFn[C] {
	first := anchor&First != 0
	if anchor&Last == 0 {
		return func(s *state[C]) bool {
			if first && !s.isFirst {
				return false
			}
			return inner(s)
		}
	}
	return func(s *state[C]) bool {
		if first && !s.isFirst {
			return false
		}
		cp := s.save(slots)
		if !inner(s) {
			s.release(cp)
			return false
		}
		if _, _, more := s.iter.Clone().Next(); more {
			s.restore(cp, slots)
			return false
		}
		s.release(cp)
		return true
	}
}
