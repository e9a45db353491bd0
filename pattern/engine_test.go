package pattern

import (
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type result struct {
	Range    Range
	Captures map[string]Range
	Rest     string
	Advanced bool
}

func summarize(m Match[rune], ok bool) *result {
	if !ok {
		return nil
	}
	return &result{
		Range:    m.Range,
		Captures: m.Captures.Map(),
		Rest:     m.Remainder.(*CharEndsIter).Rest(),
		Advanced: m.IterAdvanced,
	}
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func identifier() *Node[rune] {
	return All(
		Test(func(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }),
		Repeat(Test(func(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) }), Ge(0)),
	)
}

func trainCars() *Node[rune] {
	car := func() *Node[rune] { return Is('🚃') }
	return Any(
		Capture(Position(car(), First, Last), "first_car", "last_car"),
		All(
			Capture(Position(car(), First), "first_car"),
			Repeat(car(), Eq(3)),
			Capture(Position(car(), Last), "last_car"),
		),
	)
}

func TestStartsWith(t *testing.T) {
	tests := map[string]struct {
		givenPattern *Node[rune]
		givenInputs  map[string]*result
	}{
		"float suffix": {
			givenPattern: All(Is('f'), Any(All(Is('3'), Is('2')), All(Is('6'), Is('4')))),
			givenInputs: map[string]*result{
				"f64x": {Range: Range{0, 3}, Rest: "x", Advanced: true},
				"f32":  {Range: Range{0, 3}, Advanced: true},
				"f128": nil,
				"":     nil,
			},
		},
		"identifier": {
			givenPattern: identifier(),
			givenInputs: map[string]*result{
				"my_var32 rest": {Range: Range{0, 8}, Rest: " rest", Advanced: true},
				"_":             {Range: Range{0, 1}, Advanced: true},
				"9x":            nil,
			},
		},
		"binary u32 literal": {
			givenPattern: All(Is('0'), Is('b'), Repeat(OneOf('0', '1'), Ge(1), Le(32))),
			givenInputs: map[string]*result{
				"0b110011010":                  {Range: Range{0, 11}, Advanced: true},
				"0b":                           nil,
				"0b" + strings.Repeat("1", 40): {Range: Range{0, 34}, Rest: strings.Repeat("1", 8), Advanced: true},
			},
		},
		"train cars": {
			givenPattern: trainCars(),
			givenInputs: map[string]*result{
				"🚃": {
					Range:    Range{0, 4},
					Captures: map[string]Range{"first_car": {0, 4}, "last_car": {0, 4}},
					Advanced: true,
				},
				"🚃🚃🚃🚃🚃": {
					Range:    Range{0, 20},
					Captures: map[string]Range{"first_car": {0, 4}, "last_car": {16, 20}},
					Advanced: true,
				},
				" 🚃🚃🚃🚃🚃": nil,
				"🚃🚃🚃🚃🚃 ": nil,
				"🚃🚃":       nil,
			},
		},
		"numeric password": {
			givenPattern: Repeat(Test(isDigit), Gt(0), Le(8)),
			givenInputs: map[string]*result{
				"12345":        {Range: Range{0, 5}, Advanced: true},
				"cUFK^06#43Gs": nil,
				"123456789":    {Range: Range{0, 8}, Rest: "9", Advanced: true},
			},
		},
		"greedy repeat does not give back": {
			givenPattern: All(Repeat(Is('a'), Ge(1)), Is('a')),
			givenInputs: map[string]*result{
				"aa":  nil,
				"aaa": nil,
			},
		},
		"first alternative wins": {
			givenPattern: Any(Capture(Is('a'), "x"), Capture(All(Is('a'), Is('b')), "y")),
			givenInputs: map[string]*result{
				"ab": {Range: Range{0, 1}, Captures: map[string]Range{"x": {0, 1}}, Rest: "b", Advanced: true},
			},
		},
		"failed branch rolls back its captures": {
			givenPattern: Any(
				All(Capture(Is('a'), "x"), Is('z')),
				All(Is('a'), Is('b')),
			),
			givenInputs: map[string]*result{
				"ab": {Range: Range{0, 2}, Advanced: true},
			},
		},
		"repeated capture keeps the last iteration": {
			givenPattern: Repeat(Capture(Is('a'), "last"), Ge(0)),
			givenInputs: map[string]*result{
				"aaab": {Range: Range{0, 3}, Captures: map[string]Range{"last": {2, 3}}, Rest: "b", Advanced: true},
			},
		},
		"failed optional iteration restores captures": {
			givenPattern: Repeat(All(Capture(Is('a'), "a"), Is('b')), Ge(0)),
			givenInputs: map[string]*result{
				"ababa": {Range: Range{0, 4}, Captures: map[string]Range{"a": {2, 3}}, Rest: "a", Advanced: true},
			},
		},
		"failed lower phase restores everything": {
			givenPattern: Any(Repeat(Capture(Is('a'), "a"), Eq(3)), Is('a')),
			givenInputs: map[string]*result{
				"aab": {Range: Range{0, 1}, Rest: "ab", Advanced: true},
			},
		},
		"empty match keeps the iterator": {
			givenPattern: Repeat(Is('x'), Ge(0)),
			givenInputs: map[string]*result{
				"abc": {Range: Range{0, 0}, Rest: "abc"},
				"":    {Range: Range{0, 0}},
			},
		},
		"empty sequence": {
			givenPattern: All[rune](),
			givenInputs: map[string]*result{
				"abc": {Range: Range{0, 0}, Rest: "abc"},
			},
		},
		"empty alternative": {
			givenPattern: Any[rune](),
			givenInputs: map[string]*result{
				"abc": nil,
				"":    nil,
			},
		},
		"exclusive upper bound": {
			givenPattern: Repeat(Is('a'), Lt(3)),
			givenInputs: map[string]*result{
				"aaaa": {Range: Range{0, 2}, Rest: "aa", Advanced: true},
			},
		},
		"exactly zero times": {
			givenPattern: All(Repeat(Is('a'), Eq(0)), Is('a')),
			givenInputs: map[string]*result{
				"a": {Range: Range{0, 1}, Advanced: true},
			},
		},
		"multi-byte characters end at byte offsets": {
			givenPattern: Capture(Repeat(Test(unicode.IsLetter), Ge(1)), "word"),
			givenInputs: map[string]*result{
				"héllo wörld": {Range: Range{0, 6}, Captures: map[string]Range{"word": {0, 6}}, Rest: " wörld", Advanced: true},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			m, err := Compile(tt.givenPattern)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got := make(map[string]*result, len(tt.givenInputs))
			for input := range tt.givenInputs {
				got[input] = summarize(StartsWithString(m, nil, input))
			}

			// then
			if d := cmp.Diff(tt.givenInputs, got, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestStartsWithIsFirst(t *testing.T) {
	tests := map[string]struct {
		givenPattern *Node[rune]
		givenInput   string
		givenIsFirst bool
		want         *result
	}{
		"first anchor at start of input": {
			givenPattern: Position(Is('a'), First),
			givenInput:   "ab",
			givenIsFirst: true,
			want:         &result{Range: Range{0, 1}, Rest: "b", Advanced: true},
		},
		"first anchor after start of input": {
			givenPattern: Position(Is('a'), First),
			givenInput:   "ab",
			givenIsFirst: false,
		},
		"empty match after start of input reports advanced": {
			givenPattern: Repeat(Is('x'), Ge(0)),
			givenInput:   "ab",
			givenIsFirst: false,
			want:         &result{Range: Range{0, 0}, Rest: "ab", Advanced: true},
		},
		"last anchor needs exhausted input": {
			givenPattern: Position(Repeat(Is('a'), Ge(1)), Last),
			givenInput:   "aab",
			givenIsFirst: true,
		},
		"last anchor on exhausted input": {
			givenPattern: Position(Repeat(Is('a'), Ge(1)), Last),
			givenInput:   "aa",
			givenIsFirst: true,
			want:         &result{Range: Range{0, 2}, Advanced: true},
		},
		"first anchor evaluated after consuming": {
			givenPattern: All(Is('a'), Position(Is('b'), First)),
			givenInput:   "ab",
			givenIsFirst: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			m := MustCompile(tt.givenPattern)
			got := summarize(m.StartsWith(nil, 0, tt.givenIsFirst, CharEnds(tt.givenInput)))

			// then
			if d := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestRuntimeBounds(t *testing.T) {
	tests := map[string]struct {
		givenBound  Bound
		givenTarget int
		want        *result
	}{
		"exact count from target": {
			givenBound:  EqFunc(func(target any) int { return target.(int) }),
			givenTarget: 2,
			want:        &result{Range: Range{0, 2}, Rest: "a", Advanced: true},
		},
		"negative count fails without consuming": {
			givenBound:  EqFunc(func(target any) int { return target.(int) }),
			givenTarget: -1,
		},
		"collapsed range fails": {
			givenBound:  LtFunc(func(target any) int { return target.(int) }),
			givenTarget: 0,
		},
		"upper bound from target": {
			givenBound:  LeFunc(func(target any) int { return target.(int) }),
			givenTarget: 1,
			want:        &result{Range: Range{0, 1}, Rest: "aa", Advanced: true},
		},
		"lower bound above input": {
			givenBound:  GtFunc(func(target any) int { return target.(int) }),
			givenTarget: 3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			m := MustCompile(Repeat(Is('a'), tt.givenBound))
			got := summarize(StartsWithString(m, tt.givenTarget, "aaa"))

			// then
			if d := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestRepeatLimits(t *testing.T) {
	maxInt := func(any) int { return math.MaxInt }
	tests := map[string]struct {
		givenPattern *Node[rune]
		givenInput   string
		want         *result
	}{
		"at most the largest int": {
			givenPattern: Repeat(Is('a'), Le(math.MaxInt)),
			givenInput:   "aaab",
			want:         &result{Range: Range{0, 3}, Rest: "b", Advanced: true},
		},
		"exactly the largest int": {
			givenPattern: Repeat(Is('a'), Eq(math.MaxInt)),
			givenInput:   "aaab",
		},
		"more than the largest int minus one": {
			givenPattern: Repeat(Is('a'), Gt(math.MaxInt-1)),
			givenInput:   "aaab",
		},
		"at most the largest int from target": {
			givenPattern: Repeat(Is('a'), LeFunc(maxInt)),
			givenInput:   "aaab",
			want:         &result{Range: Range{0, 3}, Rest: "b", Advanced: true},
		},
		"exactly the largest int from target": {
			givenPattern: Repeat(Is('a'), EqFunc(maxInt)),
			givenInput:   "aaab",
		},
		"empty inner with a huge lower bound": {
			givenPattern: Repeat(All[rune](), Ge(1<<30)),
			givenInput:   "ab",
			want:         &result{Range: Range{0, 0}, Rest: "ab"},
		},
		"inner stops consuming during the lower phase": {
			givenPattern: Repeat(All(Repeat(Is('a'), Ge(0))), Eq(1<<30)),
			givenInput:   "aab",
			want:         &result{Range: Range{0, 2}, Rest: "b", Advanced: true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			got := summarize(StartsWithString(MustCompile(tt.givenPattern), nil, tt.givenInput))

			// then
			if d := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

type counter struct{ calls int }

func TestTargetPredicate(t *testing.T) {
	// when
	m := MustCompile(Repeat(TestTarget(func(target any, ch rune) bool {
		target.(*counter).calls++
		return ch == 'a'
	}), Ge(0)))
	c := &counter{}
	got := summarize(StartsWithString(m, c, "aab"))

	// then
	want := &result{Range: Range{0, 2}, Rest: "b", Advanced: true}
	if d := cmp.Diff(want, got, cmpopts.EquateEmpty()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if c.calls != 3 {
		t.Errorf("predicate called %d times, want 3", c.calls)
	}
}

func TestDeterminism(t *testing.T) {
	m := MustCompile(trainCars())
	first := summarize(StartsWithString(m, nil, "🚃🚃🚃🚃🚃"))
	second := summarize(StartsWithString(m, nil, "🚃🚃🚃🚃🚃"))
	if d := cmp.Diff(first, second); d != "" {
		t.Errorf("got diff (-first +second):\n%s", d)
	}
}

func TestSliceEnds(t *testing.T) {
	// when
	m := MustCompile(All(Is(3), Capture(Repeat(Test(func(n int) bool { return n%2 == 0 }), Ge(1)), "evens")))
	got, ok := m.StartsWith(nil, 0, true, SliceEnds([]int{3, 2, 4, 6, 7}))

	// then
	if !ok {
		t.Fatal("no match")
	}
	want := map[string]Range{"evens": {1, 4}}
	if d := cmp.Diff(want, got.Captures.Map()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if d := cmp.Diff(Range{0, 4}, got.Range); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if end, ch, more := got.Remainder.Next(); !more || end != 5 || ch != 7 {
		t.Errorf("remainder yielded (%d, %d, %v), want (5, 7, true)", end, ch, more)
	}
}
