// Package gen generates Go source for patterns written in the syntax
// notation.
//
// For a type T the output declares:
//
//	type T struct{}
//	type TCapture struct{ ... }  // one pattern.Group per capture name
//	func (T) Pattern() *pattern.Node[rune]
//	func (T) StartsWith(s string) (pattern.Range, TCapture, bool)
//	func (T) Find(s string) (pattern.Range, TCapture, bool)
//
// and one builder function per syntax node. The matcher is compiled once, at
// package initialisation.
package gen

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/mfroeh/gotori/syntax"
)

const patternPath = "github.com/mfroeh/gotori/pattern"

// Config describes the generated file.
type Config struct {
	Package string
	Type    string
	// Generator is named in the "Code generated" header.
	Generator string
}

type generator struct {
	cfg   Config
	file  *jen.File
	funcs []jen.Code
	count int
}

// Generate returns the source of a file implementing re as cfg.Type.
func Generate(re *syntax.Regexp, cfg Config) (*jen.File, error) {
	if !isIdent(cfg.Package) {
		return nil, fmt.Errorf("invalid package name %q", cfg.Package)
	}
	if !isIdent(cfg.Type) || !unicode.IsUpper([]rune(cfg.Type)[0]) {
		return nil, fmt.Errorf("invalid type name %q: must be an exported identifier", cfg.Type)
	}
	if cfg.Generator == "" {
		cfg.Generator = "patgen"
	}

	fields, err := captureFields(re.Names())
	if err != nil {
		return nil, err
	}

	g := &generator{cfg: cfg, file: jen.NewFile(cfg.Package)}
	g.file.HeaderComment(fmt.Sprintf("Code generated by %s. DO NOT EDIT.", cfg.Generator))
	g.file.ImportName(patternPath, "pattern")

	root := g.root(re)

	t := cfg.Type
	capture := t + "Capture"
	matcher := unexport(t) + "Matcher"

	g.file.Commentf("%s matches `%s`.", t, re.Source)
	g.file.Type().Id(t).Struct()

	g.file.Commentf("%s holds the captures of a %s match.", capture, t)
	structFields := make([]jen.Code, len(fields))
	for i, f := range fields {
		structFields[i] = jen.Id(f.field).Qual(patternPath, "Group")
	}
	g.file.Type().Id(capture).Struct(structFields...)

	g.file.Var().Id(matcher).Op("=").Qual(patternPath, "MustCompile").Call(jen.Id(t).Values().Dot("Pattern").Call())

	g.file.Comment("Pattern returns a fresh pattern tree.")
	g.file.Func().Params(jen.Id(t)).Id("Pattern").Params().Op("*").Qual(patternPath, "Node").Types(jen.Rune()).Block(
		jen.Return(root),
	)

	for _, method := range []struct{ name, driver, doc string }{
		{"StartsWith", "StartsWithString", "StartsWith reports whether s begins with a match."},
		{"Find", "FindString", "Find returns the leftmost match in s."},
	} {
		g.file.Comment(method.doc)
		g.file.Func().Params(jen.Id(t)).Id(method.name).Params(jen.Id("s").String()).Params(
			jen.Qual(patternPath, "Range"), jen.Id(capture), jen.Bool(),
		).Block(
			jen.List(jen.Id("m"), jen.Id("ok")).Op(":=").Qual(patternPath, method.driver).Call(jen.Id(matcher), jen.Nil(), jen.Id("s")),
			jen.If(jen.Op("!").Id("ok")).Block(
				jen.Return(jen.Qual(patternPath, "Range").Values(), jen.Id(capture).Values(), jen.False()),
			),
			jen.Return(jen.Id("m").Dot("Range"), jen.Id("new"+capture).Call(jen.Id("m").Dot("Captures")), jen.True()),
		)
	}

	values := jen.Dict{}
	for _, f := range fields {
		values[jen.Id(f.field)] = jen.Id("c").Dot("Group").Call(jen.Lit(f.name))
	}
	g.file.Func().Id("new"+capture).Params(jen.Id("c").Qual(patternPath, "Captures")).Id(capture).Block(
		jen.Return(jen.Id(capture).Values(values)),
	)

	for _, fn := range g.funcs {
		g.file.Add(fn)
	}
	return g.file, nil
}

// Render writes the generated file to w.
func Render(w io.Writer, re *syntax.Regexp, cfg Config) error {
	f, err := Generate(re, cfg)
	if err != nil {
		return err
	}
	return f.Render(w)
}

func (g *generator) root(re *syntax.Regexp) jen.Code {
	root := g.seq(re.Seq)
	var anchors []jen.Code
	if re.First {
		anchors = append(anchors, jen.Qual(patternPath, "First"))
	}
	if re.Last {
		anchors = append(anchors, jen.Qual(patternPath, "Last"))
	}
	if len(anchors) == 0 {
		return root
	}
	return jen.Qual(patternPath, "Position").Call(append([]jen.Code{root}, anchors...)...)
}

func (g *generator) seq(seq []*syntax.Node) jen.Code {
	switch len(seq) {
	case 0:
		// nothing to infer the type parameter from
		return jen.Qual(patternPath, "All").Types(jen.Rune()).Call()
	case 1:
		return g.node(seq[0])
	}
	children := make([]jen.Code, len(seq))
	for i, n := range seq {
		children[i] = g.node(n)
	}
	return jen.Qual(patternPath, "All").Call(children...)
}

// node declares the builder function of n and returns a call to it.
func (g *generator) node(n *syntax.Node) jen.Code {
	name := fmt.Sprintf("%sNode%d", unexport(g.cfg.Type), g.count)
	g.count++
	decl := jen.Commentf("%s builds %s", name, n.Str).Line().
		Func().Id(name).Params().Op("*").Qual(patternPath, "Node").Types(jen.Rune())
	// reserve the slot so functions appear in pre-order
	slot := len(g.funcs)
	g.funcs = append(g.funcs, nil)

	var body jen.Code
	switch s := n.State.(type) {
	case *syntax.Char:
		body = jen.Qual(patternPath, "Is").Call(runeLit(s.C))
	case *syntax.Class:
		body = jen.Qual(patternPath, "Labeled").Call(
			jen.Lit(s.String()),
			jen.Qual(patternPath, "Test").Call(
				jen.Func().Params(jen.Id("ch").Rune()).Bool().Block(jen.Return(classCond(s))),
			),
		)
	case *syntax.Choice:
		alts := make([]jen.Code, len(s.Alts))
		for i, alt := range s.Alts {
			alts[i] = g.seq(alt)
		}
		body = jen.Qual(patternPath, "Any").Call(alts...)
	case *syntax.Group:
		body = g.seq(s.Seq)
		if s.Name != "" {
			body = jen.Qual(patternPath, "Capture").Call(jen.Qual(patternPath, "All").Call(body), jen.Lit(s.Name))
		}
	default:
		panic("unexpected `state` type")
	}

	// annotations are wrapped in All since the child may be of the same kind
	if !n.Once() {
		body = jen.Qual(patternPath, "Repeat").Call(append([]jen.Code{jen.Qual(patternPath, "All").Call(body)}, bounds(n)...)...)
	}
	g.funcs[slot] = decl.Block(jen.Return(body))
	return jen.Id(name).Call()
}

func bounds(n *syntax.Node) []jen.Code {
	bound := func(op string, v int) jen.Code { return jen.Qual(patternPath, op).Call(jen.Lit(v)) }
	switch {
	case n.Max < 0:
		return []jen.Code{bound("Ge", n.Min)}
	case n.Min == n.Max:
		return []jen.Code{bound("Eq", n.Min)}
	case n.Min == 0:
		return []jen.Code{bound("Le", n.Max)}
	}
	return []jen.Code{bound("Ge", n.Min), bound("Le", n.Max)}
}

func classCond(c *syntax.Class) jen.Code {
	if len(c.Ranges) == 0 {
		return jen.Lit(c.Negate)
	}
	var cond *jen.Statement
	for _, r := range c.Ranges {
		var term *jen.Statement
		if r.From == r.To {
			term = jen.Id("ch").Op("==").Add(runeLit(r.From))
		} else {
			term = jen.Id("ch").Op(">=").Add(runeLit(r.From)).Op("&&").Id("ch").Op("<=").Add(runeLit(r.To))
		}
		if cond == nil {
			cond = term
		} else {
			cond = cond.Op("||").Add(term)
		}
	}
	if c.Negate {
		return jen.Op("!").Parens(cond)
	}
	return cond
}

// runeLit renders surrogates and other invalid runes as numbers, which %q
// would turn into U+FFFD.
func runeLit(r rune) jen.Code {
	if utf8.ValidRune(r) {
		return jen.LitRune(r)
	}
	return jen.Rune().Parens(jen.Lit(int(r)))
}

type captureField struct {
	name  string
	field string
}

func captureFields(names []string) ([]captureField, error) {
	fields := make([]captureField, len(names))
	seen := make(map[string]string, len(names))
	for i, name := range names {
		field := exportName(name)
		if other, ok := seen[field]; ok {
			return nil, fmt.Errorf("captures %q and %q both map to field %s", other, name, field)
		}
		seen[field] = name
		fields[i] = captureField{name: name, field: field}
	}
	return fields, nil
}

// exportName turns a capture name into an exported field name: "first_car"
// becomes FirstCar and "1" becomes Group1.
func exportName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "Group" + s
	}
	return s
}

func unexport(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

func isIdent(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
