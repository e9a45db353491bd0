package patterns

import (
	"unicode"

	"github.com/mfroeh/gotori/pattern"
)

// Hello matches the word hello.
func Hello() *pattern.Node[rune] { return literal("hello") }

// Always matches the empty prefix of any input.
func Always() *pattern.Node[rune] { return pattern.All[rune]() }

// Never matches nothing.
func Never() *pattern.Node[rune] { return pattern.Any[rune]() }

// FloatType matches f32 or f64.
func FloatType() *pattern.Node[rune] {
	return pattern.All(
		pattern.Is('f'),
		pattern.Any(
			pattern.All(pattern.Is('3'), pattern.Is('2')),
			pattern.All(pattern.Is('6'), pattern.Is('4')),
		),
	)
}

// Identifier matches a letter or underscore followed by any number of
// letters, digits and underscores.
func Identifier() *pattern.Node[rune] {
	return pattern.All(
		pattern.Test(func(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }),
		pattern.Repeat(pattern.Test(func(ch rune) bool {
			return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
		}), pattern.Ge(0)),
	)
}

// BinaryU32 matches 0b followed by one to 32 binary digits.
func BinaryU32() *pattern.Node[rune] {
	return pattern.All(
		pattern.Is('0'),
		pattern.Is('b'),
		pattern.Repeat(pattern.OneOf('0', '1'), pattern.Ge(1), pattern.Lt(33)),
	)
}

// BadPassword matches one to eight digits.
func BadPassword() *pattern.Node[rune] {
	return pattern.Repeat(digit(), pattern.Gt(0), pattern.Le(8))
}

// Scream matches runs of three to thirty A's, each followed by up to twenty
// a's, with an optional exclamation mark.
func Scream() *pattern.Node[rune] {
	return pattern.All(
		pattern.Repeat(pattern.All(
			pattern.Repeat(pattern.Is('A'), pattern.Ge(3), pattern.Lt(31)),
			pattern.Repeat(pattern.Is('a'), pattern.Le(20)),
		), pattern.Ge(1)),
		pattern.Repeat(pattern.Is('!'), pattern.Le(1)),
	)
}
