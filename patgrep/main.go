package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mfroeh/gotori/library"
	"github.com/mfroeh/gotori/pattern"
	"github.com/mfroeh/gotori/patterns"
	"github.com/mfroeh/gotori/prefilter"
	"github.com/mfroeh/gotori/star"
	"github.com/mfroeh/gotori/syntax"
)

type options struct {
	Pattern string   `arg:"" optional:"" name:"pattern" help:"Pattern to search for, or the name of a builtin, library or script pattern" type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Paths to search" type:"path"`

	Builtin bool   `name:"builtin" short:"b" xor:"source" help:"PATTERN names a builtin pattern"`
	Library string `name:"library" short:"l" xor:"source" help:"PATTERN names an entry of this YAML library, 'default' for the embedded one"`
	Star    string `name:"star" short:"s" xor:"source" help:"PATTERN names a pattern declared in this Starlark script" type:"path"`

	Replace     string `name:"replace" short:"r" help:"Print lines with every match replaced by this template; a dollar sign followed by a capture name expands to the capture"`
	UseReplace  bool   `name:"use-replace" help:"With --library, replace matches with the template of the entry"`
	Count       bool   `name:"count" short:"c" help:"Only print the number of matching lines per file"`
	NoPrefilter bool   `name:"no-prefilter" help:"Search every line, even those lacking the literals every match starts with"`
	List        bool   `name:"list" help:"List the builtin, library or script patterns and exit"`
}

var cli options

func main() {
	kong.Parse(&cli,
		kong.Name("patgrep"),
		kong.Description("Recursively searches the current directory for lines matching a pattern."),
		kong.UsageOnError(),
	)

	if cli.List {
		if err := list(os.Stdout, cli); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	if cli.Pattern == "" {
		log.Fatalf("missing pattern")
	}

	s, err := newSearcher(cli, os.Stdout)
	if err != nil {
		log.Fatalf("failed to build pattern: %v", err)
	}

	if len(cli.Paths) == 0 {
		cli.Paths = []string{"."}
	}

	for _, path := range cli.Paths {
		if err := s.searchPath(path); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

func loadLibrary(path string) (*library.Library, error) {
	if path == "default" {
		return library.Default(), nil
	}
	return library.Load(path)
}

func newSearcher(opts options, out io.Writer) (*searcher, error) {
	s := &searcher{
		out:       out,
		count:     opts.Count,
		replace:   opts.Replace,
		doReplace: opts.Replace != "",
	}

	var (
		re  *syntax.Regexp
		err error
	)
	switch {
	case opts.Builtin:
		b, ok := patterns.Lookup(opts.Pattern)
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q, expected one of %s", opts.Pattern, strings.Join(patterns.Names(), ", "))
		}
		if s.matcher, err = pattern.Compile(b.Node()); err != nil {
			return nil, err
		}
		s.newTarget = b.Target

	case opts.Library != "":
		lib, err := loadLibrary(opts.Library)
		if err != nil {
			return nil, err
		}
		e, ok := lib.Lookup(opts.Pattern)
		if !ok {
			return nil, fmt.Errorf("library %s has no pattern %q", opts.Library, opts.Pattern)
		}
		s.matcher, re = e.Matcher(), e.Regexp()
		if opts.UseReplace && !s.doReplace {
			s.replace, s.doReplace = e.Replace, true
		}

	case opts.Star != "":
		script, err := star.LoadFile(opts.Star)
		if err != nil {
			return nil, err
		}
		m, ok := script.Matcher(opts.Pattern)
		if !ok {
			return nil, fmt.Errorf("%s declares no pattern %q", opts.Star, opts.Pattern)
		}
		s.matcher = m
		s.newTarget = func() any { return star.NewEnv() }

	default:
		if re, err = syntax.Parse(opts.Pattern); err != nil {
			return nil, err
		}
		if s.matcher, err = pattern.Compile(re.Pattern()); err != nil {
			return nil, err
		}
	}

	if re != nil && !opts.NoPrefilter {
		if s.prefilter, err = prefilter.ForRegexp(re); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func list(w io.Writer, opts options) error {
	switch {
	case opts.Library != "":
		lib, err := loadLibrary(opts.Library)
		if err != nil {
			return err
		}
		for _, e := range lib.Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Description, e.Pattern)
		}
	case opts.Star != "":
		script, err := star.LoadFile(opts.Star)
		if err != nil {
			return err
		}
		for _, name := range script.Names() {
			n, _ := script.Node(name)
			fmt.Fprintf(w, "%s\t%s\n", name, n)
		}
	default:
		for _, b := range patterns.Builtins() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, b.Description, b.Equivalent)
		}
	}
	return nil
}
