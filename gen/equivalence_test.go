package gen_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mfroeh/gotori/pattern"
	"github.com/mfroeh/gotori/syntax"
)

//go:generate go run github.com/mfroeh/gotori/patgen -p gen_test -t KeyValue -o keyvalue_pattern_test.go "^(?P<key>[a-z_]+)=(\\d+|on)?"

const keyValueSource = `^(?P<key>[a-z_]+)=(\d+|on)?`

type outcome struct {
	Range pattern.Range
	Key   pattern.Group
	Value pattern.Group
	OK    bool
}

func TestGeneratedMatchesSyntax(t *testing.T) {
	ref := syntax.MustCompile(keyValueSource)
	fromRef := func(m pattern.Match[rune], ok bool) outcome {
		if !ok {
			return outcome{}
		}
		return outcome{Range: m.Range, Key: m.Captures.Group("key"), Value: m.Captures.Group("2"), OK: true}
	}
	fromGen := func(r pattern.Range, c KeyValueCapture, ok bool) outcome {
		if !ok {
			return outcome{}
		}
		return outcome{Range: r, Key: c.Key, Value: c.Group2, OK: true}
	}

	inputs := []string{
		"key=42",
		"a_b=on;",
		"x=",
		"x=off",
		"x=o",
		"k=123abc",
		"=1",
		"Key=1",
		" k=1",
		"",
		"é=1",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			// when
			wantFind := fromRef(pattern.FindString(ref, nil, input))
			gotFind := fromGen(KeyValue{}.Find(input))
			wantStart := fromRef(pattern.StartsWithString(ref, nil, input))
			gotStart := fromGen(KeyValue{}.StartsWith(input))

			// then
			if d := cmp.Diff(wantFind, gotFind); d != "" {
				t.Errorf("Find: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(wantStart, gotStart); d != "" {
				t.Errorf("StartsWith: got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestGeneratedMatches(t *testing.T) {
	tests := map[string]struct {
		givenInput string
		want       outcome
	}{
		"number": {
			givenInput: "key=42",
			want: outcome{
				Range: pattern.Range{Start: 0, End: 6},
				Key:   pattern.Group{Range: pattern.Range{Start: 0, End: 3}, Matched: true},
				Value: pattern.Group{Range: pattern.Range{Start: 4, End: 6}, Matched: true},
				OK:    true,
			},
		},
		"no value": {
			givenInput: "x=off",
			want: outcome{
				Range: pattern.Range{Start: 0, End: 2},
				Key:   pattern.Group{Range: pattern.Range{Start: 0, End: 1}, Matched: true},
				OK:    true,
			},
		},
		"not at start": {
			givenInput: " k=1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, c, ok := KeyValue{}.Find(tt.givenInput)
			got := outcome{OK: ok}
			if ok {
				got = outcome{Range: r, Key: c.Key, Value: c.Group2, OK: true}
			}

			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}
