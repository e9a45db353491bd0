package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/mfroeh/gotori/pattern"
	"github.com/mfroeh/gotori/prefilter"
	"github.com/mfroeh/gotori/star"
)

var captureColors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

type searcher struct {
	matcher *pattern.Matcher[rune]
	// newTarget returns the target of one line; nil means no target.
	newTarget func() any
	prefilter *prefilter.Prefilter
	replace   string
	doReplace bool
	count     bool
	out       io.Writer
}

func (s *searcher) target() any {
	if s.newTarget == nil {
		return nil
	}
	return s.newTarget()
}

func (s *searcher) searchPath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if info.IsDir() {
		return s.recursivelySearchDir(path)
	}
	return s.searchFile(path)
}

func (s *searcher) recursivelySearchDir(path string) error {
	return filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink == 0 {
			return s.searchFile(path)
		}

		// broken symlinks and cycles cannot be resolved, just ignore them
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		info, err := os.Stat(target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return s.searchFile(target)
	})
}

func (s *searcher) searchFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.search(path, string(content))
}

func (s *searcher) search(path, content string) error {
	data := []byte(content)
	candidate := s.prefilter.Find(data, 0)
	if candidate < 0 {
		return nil
	}

	printFileHeader := false
	matchedLines := 0
	lineStart := 0
	for i, line := range strings.Split(content, "\n") {
		lineEnd := lineStart + len(line)
		lineStart = lineEnd + 1
		if candidate < 0 {
			break
		}
		// no literal starts on this line
		if candidate > lineEnd {
			continue
		}
		candidate = s.prefilter.Find(data, lineEnd+1)

		target := s.target()
		matches := slices.Collect(pattern.FindIter(s.matcher, target, line).All())
		if env, ok := target.(*star.Env); ok && env.Err() != nil {
			return fmt.Errorf("%s:%d: %w", path, i+1, env.Err())
		}
		if len(matches) == 0 {
			continue
		}

		matchedLines++
		if s.count {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintln(s.out, path, ":")
		}

		var text string
		if s.doReplace {
			text = replaceLine(line, matches, s.replace)
		} else {
			text = formatLine(line, matches)
		}
		fmt.Fprintf(s.out, "%d:%s\n", i+1, text)
	}

	if s.count && matchedLines > 0 {
		fmt.Fprintf(s.out, "%s:%d\n", path, matchedLines)
	}
	if printFileHeader {
		fmt.Fprintln(s.out)
	}
	return nil
}

func replaceLine(line string, matches []pattern.Match[rune], template string) string {
	out := strings.Builder{}
	lastMatchEnd := 0
	for _, m := range matches {
		out.WriteString(line[lastMatchEnd:m.Range.Start])
		pattern.Expand(&out, template, line, m)
		lastMatchEnd = m.Range.End
	}
	out.WriteString(line[lastMatchEnd:])
	return out.String()
}

func formatLine(line string, matches []pattern.Match[rune]) string {
	out := strings.Builder{}
	lastMatchEnd := 0
	for _, m := range matches {
		out.WriteString(line[lastMatchEnd:m.Range.Start])
		out.WriteString(formatMatch(line, m))
		lastMatchEnd = m.Range.End
	}
	out.WriteString(line[lastMatchEnd:])
	return out.String()
}

// formatMatch colours every capture of m differently from the rest of the
// match. A capture starting inside an earlier one keeps the earlier colour.
func formatMatch(line string, m pattern.Match[rune]) string {
	names := m.Captures.Names()
	if len(names) == 0 || len(names) >= len(captureColors) {
		return captureColors[0].Sprint(line[m.Range.Start:m.Range.End])
	}

	type span struct {
		pattern.Range
		color int
	}
	var spans []span
	for i, name := range names {
		if r, ok := m.Captures.Get(name); ok && !r.Empty() {
			spans = append(spans, span{Range: r, color: i + 1})
		}
	}
	slices.SortStableFunc(spans, func(a, b span) int { return cmp.Compare(a.Start, b.Start) })

	out := strings.Builder{}
	off := m.Range.Start
	for _, sp := range spans {
		if sp.Start < off {
			continue
		}
		captureColors[0].Fprint(&out, line[off:sp.Start])
		captureColors[sp.color].Fprint(&out, line[sp.Start:sp.End])
		off = sp.End
	}
	captureColors[0].Fprint(&out, line[off:m.Range.End])
	return out.String()
}
