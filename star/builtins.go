package star

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.starlark.net/starlark"

	"github.com/mfroeh/gotori/pattern"
)

// Pattern is the Starlark value of a pattern tree.
type Pattern struct {
	node *pattern.Node[rune]
}

var _ starlark.Value = (*Pattern)(nil)

func (p *Pattern) String() string        { return p.node.String() }
func (p *Pattern) Type() string          { return "pattern" }
func (p *Pattern) Freeze()               {}
func (p *Pattern) Truth() starlark.Bool  { return true }
func (p *Pattern) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", p.Type()) }

// Node returns the wrapped tree.
func (p *Pattern) Node() *pattern.Node[rune] { return p.node }

// Builtins returns the predeclared functions of a pattern script.
func Builtins() starlark.StringDict {
	return starlark.StringDict{
		"all":      starlark.NewBuiltin("all", starAll),
		"any":      starlark.NewBuiltin("any", starAny),
		"test":     starlark.NewBuiltin("test", starTest),
		"char":     starlark.NewBuiltin("char", starChar),
		"not_char": starlark.NewBuiltin("not_char", starNotChar),
		"span":     starlark.NewBuiltin("span", starSpan),
		"cls":      starlark.NewBuiltin("cls", starCls),
		"repeat":   starlark.NewBuiltin("repeat", starRepeat),
		"capture":  starlark.NewBuiltin("capture", starCapture),
		"position": starlark.NewBuiltin("position", starPosition),
	}
}

// toNode converts a pattern or a string argument. A string is the sequence of
// its characters.
func toNode(fnName string, v starlark.Value) (*pattern.Node[rune], error) {
	switch v := v.(type) {
	case *Pattern:
		return v.node, nil
	case starlark.String:
		s := string(v)
		if utf8.RuneCountInString(s) == 1 {
			r, _ := utf8.DecodeRuneInString(s)
			return pattern.Is(r), nil
		}
		var chars []*pattern.Node[rune]
		for _, r := range s {
			chars = append(chars, pattern.Is(r))
		}
		return pattern.All(chars...), nil
	}
	return nil, fmt.Errorf("%s: expected pattern or string, got %s", fnName, v.Type())
}

func toNodes(fnName string, args starlark.Tuple) ([]*pattern.Node[rune], error) {
	nodes := make([]*pattern.Node[rune], len(args))
	for i, arg := range args {
		n, err := toNode(fnName, arg)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func noKwargs(b *starlark.Builtin, kwargs []starlark.Tuple) error {
	if len(kwargs) > 0 {
		return fmt.Errorf("%s: unexpected keyword argument %s", b.Name(), kwargs[0][0])
	}
	return nil
}

func starAll(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noKwargs(b, kwargs); err != nil {
		return nil, err
	}
	nodes, err := toNodes(b.Name(), args)
	if err != nil {
		return nil, err
	}
	return &Pattern{node: pattern.All(nodes...)}, nil
}

func starAny(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noKwargs(b, kwargs); err != nil {
		return nil, err
	}
	nodes, err := toNodes(b.Name(), args)
	if err != nil {
		return nil, err
	}
	return &Pattern{node: pattern.Any(nodes...)}, nil
}

func starTest(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "fn", &fn); err != nil {
		return nil, err
	}

	n := pattern.TestTarget(func(target any, ch rune) bool {
		env := envOf(target)
		v, err := starlark.Call(env.thread, fn, starlark.Tuple{starlark.String(string(ch))}, nil)
		if err != nil {
			env.fail(err)
			return false
		}
		ok, isBool := v.(starlark.Bool)
		if !isBool {
			env.fail(fmt.Errorf("%s: predicate %s returned %s, want bool", b.Name(), fn.Name(), v.Type()))
			return false
		}
		return bool(ok)
	})
	return &Pattern{node: pattern.Labeled(fn.Name(), n)}, nil
}

func starChar(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var chars string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "chars", &chars); err != nil {
		return nil, err
	}
	return &Pattern{node: pattern.OneOf([]rune(chars)...)}, nil
}

func starNotChar(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var chars string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "chars", &chars); err != nil {
		return nil, err
	}
	n := pattern.Test(func(ch rune) bool { return !strings.ContainsRune(chars, ch) })
	return &Pattern{node: pattern.Labeled(fmt.Sprintf("not %q", chars), n)}, nil
}

func starSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lo, hi string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "lo", &lo, "hi", &hi); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(lo) != 1 || utf8.RuneCountInString(hi) != 1 {
		return nil, fmt.Errorf("%s: lo and hi must be single characters, got %q and %q", b.Name(), lo, hi)
	}
	from, _ := utf8.DecodeRuneInString(lo)
	to, _ := utf8.DecodeRuneInString(hi)
	if to < from {
		return nil, fmt.Errorf("%s: empty span %q..%q", b.Name(), lo, hi)
	}
	n := pattern.Test(func(ch rune) bool { return ch >= from && ch <= to })
	return &Pattern{node: pattern.Labeled(fmt.Sprintf("%q..%q", from, to), n)}, nil
}

var classes = map[string]func(rune) bool{
	"alpha": unicode.IsLetter,
	"digit": unicode.IsDigit,
	"alnum": func(ch rune) bool { return unicode.IsLetter(ch) || unicode.IsDigit(ch) },
	"space": unicode.IsSpace,
	"upper": unicode.IsUpper,
	"lower": unicode.IsLower,
	"punct": unicode.IsPunct,
	"word":  func(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) },
	"any":   func(rune) bool { return true },
}

func starCls(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	pred, ok := classes[name]
	if !ok {
		return nil, fmt.Errorf("%s: unknown class %q", b.Name(), name)
	}
	return &Pattern{node: pattern.Labeled(name, pattern.Test(pred))}, nil
}

func starRepeat(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p, eq, lt, le, gt, ge starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"p", &p, "eq?", &eq, "lt?", &lt, "le?", &le, "gt?", &gt, "ge?", &ge); err != nil {
		return nil, err
	}
	child, err := toNode(b.Name(), p)
	if err != nil {
		return nil, err
	}

	options := []struct {
		key     string
		v       starlark.Value
		literal func(int) pattern.Bound
		dynamic func(pattern.CountFunc) pattern.Bound
	}{
		{"eq", eq, pattern.Eq, pattern.EqFunc},
		{"lt", lt, pattern.Lt, pattern.LtFunc},
		{"le", le, pattern.Le, pattern.LeFunc},
		{"gt", gt, pattern.Gt, pattern.GtFunc},
		{"ge", ge, pattern.Ge, pattern.GeFunc},
	}
	var bounds []pattern.Bound
	for _, opt := range options {
		switch v := opt.v.(type) {
		case nil, starlark.NoneType:
		case starlark.Int:
			n, err := starlark.AsInt32(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", b.Name(), opt.key, err)
			}
			bounds = append(bounds, opt.literal(n))
		case starlark.Callable:
			bounds = append(bounds, opt.dynamic(countFunc(b.Name(), v)))
		default:
			return nil, fmt.Errorf("%s: %s must be an int or a callable, got %s", b.Name(), opt.key, v.Type())
		}
	}
	return &Pattern{node: pattern.Repeat(child, bounds...)}, nil
}

// countFunc evaluates fn on the match thread. An error or a result that is
// not an int makes the repetition fail.
func countFunc(fnName string, fn starlark.Callable) pattern.CountFunc {
	return func(target any) int {
		env := envOf(target)
		v, err := starlark.Call(env.thread, fn, nil, nil)
		if err != nil {
			env.fail(err)
			return -1
		}
		n, err := starlark.AsInt32(v)
		if err != nil {
			env.fail(fmt.Errorf("%s: bound %s: %w", fnName, fn.Name(), err))
			return -1
		}
		return n
	}
}

func starCapture(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noKwargs(b, kwargs); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing argument for p", b.Name())
	}
	child, err := toNode(b.Name(), args[0])
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		name, ok := starlark.AsString(arg)
		if !ok {
			return nil, fmt.Errorf("%s: capture names must be strings, got %s", b.Name(), arg.Type())
		}
		names = append(names, name)
	}
	return &Pattern{node: pattern.Capture(child, names...)}, nil
}

func starPosition(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		p           starlark.Value
		first, last bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "p", &p, "first?", &first, "last?", &last); err != nil {
		return nil, err
	}
	child, err := toNode(b.Name(), p)
	if err != nil {
		return nil, err
	}
	var anchors []pattern.Anchor
	if first {
		anchors = append(anchors, pattern.First)
	}
	if last {
		anchors = append(anchors, pattern.Last)
	}
	return &Pattern{node: pattern.Position(child, anchors...)}, nil
}
