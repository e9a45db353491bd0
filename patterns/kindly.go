package patterns

import (
	"slices"

	"github.com/mfroeh/gotori/pattern"
)

const kindlyPhrase = "Would you kindly "

// Kindly is the match target of WouldYouKindly. Each test of the phrase
// consumes one of its characters.
type Kindly struct {
	phrase []rune
	next   int
}

// NewKindly returns a target positioned at the start of the phrase.
func NewKindly() *Kindly {
	return &Kindly{phrase: []rune(kindlyPhrase)}
}

// Consumed returns the part of the phrase tested so far.
func (k *Kindly) Consumed() string { return string(k.phrase[:k.next]) }

func (k *Kindly) rewind() int {
	k.next = 0
	return len(k.phrase)
}

func (k *Kindly) step(ch rune) bool {
	if k.next >= len(k.phrase) {
		return false
	}
	want := k.phrase[k.next]
	k.next++
	return ch == want
}

// WouldYouKindly matches "Would you kindly <request>?" or "...!", capturing
// request. It needs a *Kindly target: the phrase length is read from it and
// the phrase itself is walked through it.
func WouldYouKindly() *pattern.Node[rune] {
	phrase := pattern.TestTarget(func(target any, ch rune) bool {
		k, ok := target.(*Kindly)
		return ok && k.step(ch)
	})
	return pattern.All(
		pattern.Repeat(phrase, pattern.EqFunc(func(target any) int {
			k, ok := target.(*Kindly)
			if !ok {
				return -1
			}
			// Reached once per attempt, so every attempt walks the phrase
			// from its start.
			return k.rewind()
		})),
		pattern.Capture(pattern.Repeat(noneOf("?!", false), pattern.Ge(1)), "request"),
		pattern.OneOf('?', '!'),
	)
}

// AllIn matches any number of characters from set.
func AllIn[C comparable](set ...C) *pattern.Node[C] {
	set = slices.Clone(set)
	return pattern.Repeat(pattern.Test(func(ch C) bool { return slices.Contains(set, ch) }), pattern.Ge(0))
}

var brainfuck = []rune{'+', '-', '<', '>', '.', ',', '[', ']', '\t', '\n', '\r'}
