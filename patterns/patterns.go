// Package patterns holds ready-made pattern trees over runes.
//
// Every constructor returns a fresh tree. Builtins lists them by name for
// command line tools.
package patterns

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mfroeh/gotori/pattern"
)

// Builtin is a named ready-made pattern.
type Builtin struct {
	Name        string
	Description string
	// Equivalent is the same pattern in regex notation, for reference.
	Equivalent string
	Node       func() *pattern.Node[rune]
	// Target returns a fresh match target. It is nil for patterns that need
	// none.
	Target func() any
}

var builtins = []Builtin{
	{Name: "all_in", Description: "Brainfuck program text", Equivalent: `[-+<>.,\[\]\t\n\r]*`, Node: func() *pattern.Node[rune] { return AllIn(brainfuck...) }},
	{Name: "bad_password", Description: "Digits only, at most eight of them", Equivalent: `\d{1,8}`, Node: BadPassword},
	{Name: "binary_u32", Description: "Binary literal fitting in 32 bits", Equivalent: `0b[01]{1,32}`, Node: BinaryU32},
	{Name: "email", Description: "Email address", Equivalent: `[\w.+-]+@[\w-]*(\.[\w-]+)+`, Node: Email},
	{Name: "float_type", Description: "Float type name", Equivalent: `f(32|64)`, Node: FloatType},
	{Name: "fraction", Description: "Single digit fraction with a non-zero denominator", Equivalent: `(?P<numerator>\d)/(?P<denominator>[1-9])`, Node: Fraction},
	{Name: "hello", Description: "The word hello", Equivalent: `hello`, Node: Hello},
	{Name: "identifier", Description: "Identifier", Equivalent: `[[:alpha:]_]\w*`, Node: Identifier},
	{Name: "ipv4", Description: "IPv4 address", Equivalent: `((25[0-5]|2[0-4]\d|[01]\d\d|\d\d)\.){3}(25[0-5]|2[0-4]\d|[01]\d\d|\d\d)`, Node: IPv4},
	{Name: "rectangle", Description: "Square or rectangle with its sides", Equivalent: `◾\s(?P<width>\d)|▬\s(?P<width>\d)\s(?P<height>\d)`, Node: Rectangle},
	{Name: "scream", Description: "AAAaaa!", Equivalent: `(A{3,30}a{0,20})+!?`, Node: Scream},
	{Name: "shopping_list", Description: "Shopping list, capturing its last item", Equivalent: `🍄?🫑?🧀?🥚?`, Node: ShoppingList},
	{Name: "train_cars", Description: "One or five train cars, capturing the first and the last", Equivalent: `^🚃$|^🚃🚃{3}🚃$`, Node: TrainCars},
	{Name: "uri", Description: "Uniform Resource Identifier", Equivalent: `\w+://[^/\s?#][^\s?#]+(\?[^\s#]*)?(#\S*)?`, Node: URI},
	{Name: "would_you_kindly", Description: "Polite request", Equivalent: `Would you kindly (?P<request>[^?!]+)[?!]`, Node: WouldYouKindly, Target: func() any { return NewKindly() }},
}

// Builtins returns every ready-made pattern, sorted by name.
func Builtins() []Builtin { return slices.Clone(builtins) }

// Lookup returns the builtin called name.
func Lookup(name string) (Builtin, bool) {
	i := slices.IndexFunc(builtins, func(b Builtin) bool { return b.Name == name })
	if i < 0 {
		return Builtin{}, false
	}
	return builtins[i], true
}

// Names returns the builtin names, sorted.
func Names() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.Name
	}
	return names
}

func isASCIIDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isASCIIAlnum(ch rune) bool {
	return isASCIIDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isASCIISpace(ch rune) bool { return ch < unicode.MaxASCII && unicode.IsSpace(ch) }

func digit() *pattern.Node[rune] {
	return pattern.Labeled("digit", pattern.Test(isASCIIDigit))
}

func span(lo, hi rune) *pattern.Node[rune] {
	return pattern.Test(func(ch rune) bool { return ch >= lo && ch <= hi })
}

func noneOf(chars string, space bool) *pattern.Node[rune] {
	return pattern.Test(func(ch rune) bool {
		return !strings.ContainsRune(chars, ch) && (!space || !isASCIISpace(ch))
	})
}

func literal(s string) *pattern.Node[rune] {
	var chars []*pattern.Node[rune]
	for _, ch := range s {
		chars = append(chars, pattern.Is(ch))
	}
	return pattern.All(chars...)
}
