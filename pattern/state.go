package pattern

// state is the match context of one top-level attempt. Evaluators share it by
// pointer; nothing else sees it while the attempt runs.
type state[C any] struct {
	target  any
	capture []Group
	end     int
	isFirst bool
	iter    Iterator[C]

	// saved is a stack of capture slot snapshots. Every save is paired with a
	// restore or release before the saving evaluator returns.
	saved []Group
}

type checkpoint[C any] struct {
	iter    Iterator[C]
	end     int
	isFirst bool
	mark    int
}

func (s *state[C]) reset(start int, isFirst bool, it Iterator[C]) {
	clear(s.capture)
	s.saved = s.saved[:0]
	s.end = start
	s.isFirst = isFirst
	s.iter = it
}

// save snapshots the cursor and the given capture slots.
func (s *state[C]) save(slots []int) checkpoint[C] {
	cp := checkpoint[C]{
		iter:    s.iter.Clone(),
		end:     s.end,
		isFirst: s.isFirst,
		mark:    len(s.saved),
	}
	for _, i := range slots {
		s.saved = append(s.saved, s.capture[i])
	}
	return cp
}

// restore rolls the context back to cp. slots must be the slice given to the
// matching save.
func (s *state[C]) restore(cp checkpoint[C], slots []int) {
	s.iter = cp.iter
	s.end = cp.end
	s.isFirst = cp.isFirst
	for k, i := range slots {
		s.capture[i] = s.saved[cp.mark+k]
	}
	s.saved = s.saved[:cp.mark]
}

// release drops cp without restoring it.
func (s *state[C]) release(cp checkpoint[C]) {
	s.saved = s.saved[:cp.mark]
}
