package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type parserError struct {
	inner   error
	message string
}

func (p parserError) Error() string {
	return p.message
}

func (p parserError) Unwrap() error {
	return p.inner
}

func newParserError(i int, str string, inner error) parserError {
	return parserError{message: fmt.Sprintf("parser error at %d: %s", i, str), inner: inner}
}

type parser struct {
	re     string
	groups int
	names  []string
}

// ...|...|...
func (p *parser) parseChoices(i int) ([]*Node, int, error) {
	var alts [][]*Node
	j := i
	for {
		seq, end, err := p.parseSeq(j)
		if err != nil {
			return nil, 0, err
		}
		alts = append(alts, seq)
		j = end
		if j >= len(p.re) || p.re[j] != '|' {
			break
		}
		// pop off '|'
		j++
	}

	// if we parsed just one, we are not a choice
	if len(alts) == 1 {
		return alts[0], j, nil
	}
	return []*Node{{
		State: &Choice{Alts: alts},
		Min:   1,
		Max:   1,
		Str:   p.re[i:j],
	}}, j, nil
}

func (p *parser) parseSeq(i int) ([]*Node, int, error) {
	var seq []*Node
	j := i
	for j < len(p.re) && p.re[j] != '|' && p.re[j] != ')' {
		n, err := p.parse(j)
		if err != nil {
			return nil, 0, err
		}
		seq = append(seq, n)
		j += len(n.Str)
	}
	return seq, j, nil
}

// parse parses one atom and its quantifier.
func (p *parser) parse(i int) (*Node, error) {
	var (
		n   *Node
		err error
	)
	switch p.re[i] {
	case '(':
		n, err = p.parseGroup(i)
	case '[':
		n, err = p.parseBracket(i)
	default:
		n, err = p.parseChar(i)
	}
	if err != nil {
		return nil, err
	}

	j := i + len(n.Str)
	mi, ma, cons, err := parseQuantifier(p.re, j)
	if err != nil {
		return nil, err
	}
	if cons > 0 {
		if _, _, more, _ := parseQuantifier(p.re, j+cons); more > 0 {
			return nil, newParserError(j+cons, "invalid nested repetition operator", nil)
		}
	}
	n.Min, n.Max = mi, ma
	n.Str = p.re[i : j+cons]
	return n, nil
}

// (...), (?:...), (?P<name>...) and (?<name>...)
func (p *parser) parseGroup(i int) (*Node, error) {
	// pop off '('
	j := i + 1

	name := ""
	rest := p.re[j:]
	switch {
	case strings.HasPrefix(rest, "?:"):
		j += 2
	case strings.HasPrefix(rest, "?P<"), strings.HasPrefix(rest, "?<"):
		start := j + strings.IndexByte(rest, '<') + 1
		end := strings.IndexByte(p.re[start:], '>')
		if end == -1 {
			return nil, newParserError(start, "did not find closing '>'", nil)
		}
		name = p.re[start : start+end]
		if !isCaptureName(name) {
			return nil, newParserError(start, fmt.Sprintf("invalid capture name %q", name), nil)
		}
		p.groups++
		j = start + end + 1
	case strings.HasPrefix(rest, "?"):
		return nil, newParserError(j, "unsupported group flag", nil)
	default:
		p.groups++
		name = strconv.Itoa(p.groups)
	}
	if name != "" {
		p.names = append(p.names, name)
	}

	seq, j, err := p.parseChoices(j)
	if err != nil {
		return nil, err
	}
	if j >= len(p.re) {
		return nil, newParserError(j, "did not find closing ')'", nil)
	}

	// pop off ')'
	j++
	return &Node{
		State: &Group{Name: name, Seq: seq},
		Min:   1,
		Max:   1,
		Str:   p.re[i:j],
	}, nil
}

// [...] and [^...]
// ']' is literal as the first character and '-' is literal at the front or
// back; perl sets like \d and escapes like \n are recognised inside.
func (p *parser) parseBracket(i int) (*Node, error) {
	// pop off '['
	j := i + 1

	negate := j < len(p.re) && p.re[j] == '^'
	if negate {
		j++
	}

	first := j
	var ranges []CharRange
	for j < len(p.re) && (p.re[j] != ']' || j == first) {
		if strings.HasPrefix(p.re[j:], "[:") {
			end := strings.Index(p.re[j+2:], ":]")
			if end == -1 {
				return nil, newParserError(j, "invalid POSIX character set", nil)
			}
			rs, ok := posixCharSets[p.re[j+2:j+2+end]]
			if !ok {
				return nil, newParserError(j, "invalid POSIX character set", nil)
			}
			ranges = append(ranges, rs...)
			j += 2 + end + 2
			continue
		}
		if p.re[j] == '\\' && j+1 < len(p.re) {
			if rs, neg, ok := perlCharSet(p.re[j+1]); ok {
				if neg {
					rs = negateCharRanges(rs)
				}
				ranges = append(ranges, rs...)
				j += 2
				continue
			}
		}

		from, w, err := p.bracketChar(j)
		if err != nil {
			return nil, err
		}
		to := from
		if j+w+1 < len(p.re) && p.re[j+w] == '-' && p.re[j+w+1] != ']' {
			var w2 int
			to, w2, err = p.bracketChar(j + w + 1)
			if err != nil {
				return nil, err
			}
			if to < from {
				return nil, newParserError(j, "invalid character class range", nil)
			}
			w += 1 + w2
		}
		ranges = append(ranges, CharRange{From: from, To: to})
		j += w
	}

	if j >= len(p.re) {
		return nil, newParserError(j, "unexpected EOS", nil)
	}

	// pop off ']'
	j++
	return &Node{
		State: &Class{Negate: negate, Ranges: ranges},
		Min:   1,
		Max:   1,
		Str:   p.re[i:j],
	}, nil
}

func (p *parser) bracketChar(i int) (rune, int, error) {
	if p.re[i] != '\\' {
		c, w := utf8.DecodeRuneInString(p.re[i:])
		return c, w, nil
	}
	if i+1 >= len(p.re) {
		return 0, 0, newParserError(i, "unexpected EOS", nil)
	}
	c, w := utf8.DecodeRuneInString(p.re[i+1:])
	return escapedChar(c), 1 + w, nil
}

func (p *parser) parseChar(i int) (*Node, error) {
	switch p.re[i] {
	case '^', '$':
		return nil, newParserError(i, "unexpected meta character", nil)
	case '?', '+', '*', '{':
		return nil, newParserError(i, "missing argument to repetition operator", nil)
	case '.':
		// anything but a newline
		return &Node{
			State: &Class{Negate: true, Ranges: []CharRange{{From: '\n', To: '\n'}}},
			Min:   1,
			Max:   1,
			Str:   p.re[i : i+1],
		}, nil
	case '\\':
		if i+1 >= len(p.re) {
			return nil, newParserError(i, "unexpected EOS", nil)
		}
		if rs, neg, ok := perlCharSet(p.re[i+1]); ok {
			return &Node{
				State: &Class{Negate: neg, Ranges: rs},
				Min:   1,
				Max:   1,
				Str:   p.re[i : i+2],
			}, nil
		}
		// otherwise treat as an escaped literal
		c, w := utf8.DecodeRuneInString(p.re[i+1:])
		return &Node{State: &Char{C: escapedChar(c)}, Min: 1, Max: 1, Str: p.re[i : i+1+w]}, nil
	}

	c, w := utf8.DecodeRuneInString(p.re[i:])
	return &Node{State: &Char{C: c}, Min: 1, Max: 1, Str: p.re[i : i+w]}, nil
}

// {m}, {m,}, {m,n} and ? and * and +
// A Max of -1 means unbounded.
func parseQuantifier(re string, i int) (mi int, ma int, consumed int, err error) {
	if i >= len(re) {
		return 1, 1, 0, nil
	}

	switch re[i] {
	case '+':
		return 1, -1, 1, nil
	case '?':
		return 0, 1, 1, nil
	case '*':
		return 0, -1, 1, nil
	}

	if re[i] != '{' {
		return 1, 1, 0, nil
	}

	endIdx := strings.IndexByte(re[i:], '}')
	if endIdx == -1 {
		return 0, 0, 0, newParserError(i, "did not find closing '}'", nil)
	}

	// inside '{...}'
	numStrs := strings.SplitN(re[i+1:i+endIdx], ",", 2)

	occMin, err := strconv.Atoi(numStrs[0])
	if err != nil || occMin < 0 {
		return 0, 0, 0, newParserError(i, "failed to convert to number", err)
	}

	if len(numStrs) == 1 {
		return occMin, occMin, 1 + endIdx, nil
	}
	if numStrs[1] == "" {
		return occMin, -1, 1 + endIdx, nil
	}

	occMax, err := strconv.Atoi(numStrs[1])
	if err != nil || occMax < 0 {
		return 0, 0, 0, newParserError(i, "failed to convert to number", err)
	}
	if occMax < occMin {
		return 0, 0, 0, newParserError(i, "invalid repeat count", nil)
	}

	return occMin, occMax, 1 + endIdx, nil
}

// parse an ASCII escape sequence from c if there is one (e.g. '\t', '\n', ...)
// if c isn't an ASCII escape sequence, return c
// should be called if the character preceding c in the input string is '\'
func escapedChar(c rune) rune {
	switch c {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'e':
		return 0x1b
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	}
	return c
}

func isCaptureName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c != '_' && !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
