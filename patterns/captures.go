package patterns

import (
	"unicode"

	"github.com/mfroeh/gotori/pattern"
)

// TrainCars matches a whole input of one or five 🚃, capturing the first
// and the last car.
func TrainCars() *pattern.Node[rune] {
	car := func() *pattern.Node[rune] { return pattern.Is('🚃') }
	return pattern.Any(
		pattern.Capture(pattern.Position(car(), pattern.First, pattern.Last), "first_car", "last_car"),
		pattern.All(
			pattern.Capture(pattern.Position(car(), pattern.First), "first_car"),
			pattern.Repeat(car(), pattern.Eq(3)),
			pattern.Capture(pattern.Position(car(), pattern.Last), "last_car"),
		),
	)
}

// ShoppingList matches the items 🍄 🫑 🧀 🥚, each optional, in this order.
// last_item is the last one present.
func ShoppingList() *pattern.Node[rune] {
	var items []*pattern.Node[rune]
	for _, item := range []rune{'🍄', '🫑', '🧀', '🥚'} {
		items = append(items, pattern.Repeat(pattern.Capture(pattern.Is(item), "last_item"), pattern.Le(1)))
	}
	return pattern.All(items...)
}

// Fraction matches a one digit fraction such as 3/4. The denominator is never
// zero.
func Fraction() *pattern.Node[rune] {
	return pattern.All(
		pattern.Capture(digit(), "numerator"),
		pattern.Is('/'),
		pattern.Capture(span('1', '9'), "denominator"),
	)
}

// Rectangle matches "◾ 5", a square with both sides captured from one digit,
// or "▬ 4 2", a rectangle with its width and height.
func Rectangle() *pattern.Node[rune] {
	space := func() *pattern.Node[rune] { return pattern.Labeled("space", pattern.Test(unicode.IsSpace)) }
	return pattern.Any(
		pattern.All(
			pattern.Is('◾'),
			space(),
			pattern.Capture(digit(), "width", "height"),
		),
		pattern.All(
			pattern.Is('▬'),
			space(),
			pattern.Capture(digit(), "width"),
			space(),
			pattern.Capture(digit(), "height"),
		),
	)
}

// Email matches an email address, capturing user and domain_with_extension.
// domain_extension is the part after the last dot.
func Email() *pattern.Node[rune] {
	userChar := pattern.Test(func(ch rune) bool {
		return ch == '.' || ch == '+' || ch == '-' || ch == '_' || isASCIIAlnum(ch)
	})
	domainChar := func() *pattern.Node[rune] {
		return pattern.Test(func(ch rune) bool { return ch == '-' || ch == '_' || isASCIIAlnum(ch) })
	}
	return pattern.All(
		pattern.Capture(pattern.Repeat(userChar, pattern.Ge(1)), "user"),
		pattern.Is('@'),
		pattern.Capture(pattern.All(
			pattern.Repeat(domainChar(), pattern.Ge(0)),
			pattern.Repeat(pattern.All(
				pattern.Is('.'),
				pattern.Capture(pattern.Repeat(domainChar(), pattern.Ge(1)), "domain_extension"),
			), pattern.Ge(1)),
		), "domain_with_extension"),
	)
}

func octet() *pattern.Node[rune] {
	return pattern.Any(
		pattern.All(pattern.Is('2'), pattern.Is('5'), span('0', '5')),
		pattern.All(pattern.Is('2'), span('0', '4'), digit()),
		pattern.All(pattern.OneOf('0', '1'), digit(), digit()),
		pattern.All(digit(), digit()),
	)
}

// IPv4 matches four dot separated octets of two or three digits.
func IPv4() *pattern.Node[rune] {
	return pattern.All(
		pattern.Repeat(pattern.All(octet(), pattern.Is('.')), pattern.Eq(3)),
		octet(),
	)
}

// URI matches scheme://path with an optional query and fragment, capturing
// schema, path, query and fragment.
func URI() *pattern.Node[rune] {
	return pattern.All(
		pattern.Capture(pattern.Repeat(pattern.Test(func(ch rune) bool {
			return ch == '_' || isASCIIAlnum(ch)
		}), pattern.Ge(1)), "schema"),
		literal("://"),
		pattern.Capture(pattern.All(
			noneOf("/?#", true),
			pattern.Repeat(noneOf("?#", true), pattern.Ge(1)),
		), "path"),
		pattern.Repeat(pattern.All(
			pattern.Is('?'),
			pattern.Capture(pattern.Repeat(noneOf("#", true), pattern.Ge(0)), "query"),
		), pattern.Le(1)),
		pattern.Repeat(pattern.All(
			pattern.Is('#'),
			pattern.Capture(pattern.Repeat(noneOf("", true), pattern.Ge(0)), "fragment"),
		), pattern.Le(1)),
	)
}
