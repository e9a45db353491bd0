// Package pattern matches declarative pattern trees against iterators of
// characters.
//
// A pattern is a tree of character tests combined with All (sequence), Any
// (ordered alternative), Repeat (greedy bounded repetition), Capture (named
// ranges) and Position (start/end of input anchors). Compile validates the tree
// once and turns every node into its own routine; matching is then a tree of
// direct calls over a shared match context.
//
// Matching is ordered and committed: alternatives are tried in declaration
// order and the first that matches wins, and repetitions take as many
// iterations as they can without giving any back. A pattern like
//
//	All(Repeat(Is('a'), Ge(1)), Is('a'))
//
// therefore never matches, since the repetition consumes every 'a'.
//
// Iterators yield the exclusive end index of each character (see CharEnds),
// so the matcher always knows where the consumed prefix ends.
package pattern
