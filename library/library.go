// Package library loads named patterns from YAML files.
//
//	patterns:
//	  - name: email
//	    description: Email address
//	    pattern: '(?P<user>[\w.+-]+)@(?P<domain>[\w-]+(\.[\w-]+)+)'
//	    replace: '<${user}>'
package library

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mfroeh/gotori/pattern"
	"github.com/mfroeh/gotori/syntax"
)

// Entry is one named pattern.
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`
	// Replace is the default replacement template, see pattern.Expand.
	Replace string `yaml:"replace"`

	regexp  *syntax.Regexp
	matcher *pattern.Matcher[rune]
}

// Regexp returns the parsed pattern.
func (e *Entry) Regexp() *syntax.Regexp { return e.regexp }

// Matcher returns the compiled pattern.
func (e *Entry) Matcher() *pattern.Matcher[rune] { return e.matcher }

type config struct {
	Patterns []*Entry `yaml:"patterns"`
}

// Library is a set of named patterns, in file order.
type Library struct {
	entries []*Entry
}

// Load reads a library from path.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lib, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load library %s: %w", path, err)
	}
	return lib, nil
}

// Read decodes a library and compiles every pattern in it.
func Read(r io.Reader) (*Library, error) {
	var cfg config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}

	var err error
	seen := make(map[string]bool, len(cfg.Patterns))
	for i, e := range cfg.Patterns {
		if e == nil || strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("pattern %d: missing name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("pattern %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if e.Pattern == "" {
			return nil, fmt.Errorf("pattern %q: missing pattern", e.Name)
		}

		e.regexp, err = syntax.Parse(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Name, err)
		}
		if e.matcher, err = pattern.Compile(e.regexp.Pattern()); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Name, err)
		}
	}
	return &Library{entries: cfg.Patterns}, nil
}

//go:embed default.yaml
var defaultLibrary []byte

// Default returns the library shipped with the module.
func Default() *Library {
	lib, err := Read(bytes.NewReader(defaultLibrary))
	if err != nil {
		panic(err)
	}
	return lib
}

// Lookup returns the entry called name.
func (l *Library) Lookup(name string) (*Entry, bool) {
	i := slices.IndexFunc(l.entries, func(e *Entry) bool { return e.Name == name })
	if i < 0 {
		return nil, false
	}
	return l.entries[i], true
}

// Entries returns every entry in file order.
func (l *Library) Entries() []*Entry { return slices.Clone(l.entries) }

// Names returns the entry names in file order.
func (l *Library) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}
