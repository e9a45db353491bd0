// Package star declares pattern trees in Starlark.
//
// A script builds patterns with predeclared builtins and binds them to
// globals:
//
//	digit  = cls("digit")
//	number = all(repeat(digit, ge = 1), repeat(".", le = 1), repeat(digit, ge = 0))
//	train  = any(
//	    capture(position("🚃", first = True, last = True), "first_car", "last_car"),
//	    all(
//	        capture(position("🚃", first = True), "first_car"),
//	        repeat("🚃", eq = 3),
//	        capture(position("🚃", last = True), "last_car"),
//	    ),
//	)
//
// Strings stand for the sequence of their characters. test takes a Starlark
// predicate over one-character strings, and repeat bounds may be zero-argument
// callables evaluated whenever matching reaches the repetition. Both run on
// the thread of the Env passed as the match target.
package star

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/mfroeh/gotori/pattern"
)

// Script is a loaded Starlark file.
type Script struct {
	nodes    map[string]*pattern.Node[rune]
	matchers map[string]*pattern.Matcher[rune]
}

// LoadFile loads the script at path.
func LoadFile(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, src)
}

// Load executes src and compiles every global bound to a pattern. Globals
// starting with '_' are private. src may be anything accepted by
// starlark.SourceProgramOptions.
func Load(filename string, src any) (*Script, error) {
	predeclared := Builtins()
	opts := syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}

	_, prog, err := starlark.SourceProgramOptions(&opts, filename, src, predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	thread := &starlark.Thread{
		Name: "load " + filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Print(msg)
		},
	}
	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	globals.Freeze()

	s := &Script{
		nodes:    make(map[string]*pattern.Node[rune]),
		matchers: make(map[string]*pattern.Matcher[rune]),
	}
	for name, v := range globals {
		p, ok := v.(*Pattern)
		if !ok || strings.HasPrefix(name, "_") {
			continue
		}
		m, err := pattern.Compile(p.node)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %s: %w", filename, name, err)
		}
		s.nodes[name] = p.node
		s.matchers[name] = m
	}
	return s, nil
}

// Names returns the names of the exported patterns, sorted.
func (s *Script) Names() []string {
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Node returns the pattern tree bound to name.
func (s *Script) Node(name string) (*pattern.Node[rune], bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Matcher returns the compiled pattern bound to name.
func (s *Script) Matcher(name string) (*pattern.Matcher[rune], bool) {
	m, ok := s.matchers[name]
	return m, ok
}

// Env is the match target for patterns declared in Starlark. It carries the
// thread Starlark callbacks run on and the first error they raised.
type Env struct {
	thread *starlark.Thread
	err    error
}

// NewEnv returns an Env with a fresh thread. An Env must not be shared by
// concurrent matches.
func NewEnv() *Env {
	return &Env{thread: &starlark.Thread{
		Name: "match",
		Print: func(_ *starlark.Thread, msg string) {
			log.Print(msg)
		},
	}}
}

// Err returns the first error raised by a callback, if any. A failing
// callback makes its node fail to match.
func (e *Env) Err() error { return e.err }

func (e *Env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func envOf(target any) *Env {
	if env, ok := target.(*Env); ok && env != nil {
		return env
	}
	return NewEnv()
}
