package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfroeh/gotori/syntax"
)

func TestForRegexp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		re       string
		input    string
		expected bool
	}{
		{name: "single literal present", re: `foo\d+`, input: "a foo1 b", expected: true},
		{name: "single literal absent", re: `foo\d+`, input: "a fo1 b", expected: false},
		{name: "any alternative", re: `cat|dog`, input: "hotdog", expected: true},
		{name: "no alternative", re: `cat|dog`, input: "bird", expected: false},
		{name: "literal inside a group", re: `(ab)c+`, input: "xxab", expected: true},
		{name: "multi-byte literal", re: `🚃+`, input: "train 🚃", expected: true},
		{name: "no literal lets everything through", re: `\d+`, input: "abc", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			re, err := syntax.Parse(tt.re)
			require.NoError(t, err)
			pf, err := ForRegexp(re)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, pf.Find([]byte(tt.input), 0) >= 0)
		})
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	pf, err := New([]string{"needle", "pin"})
	require.NoError(t, err)
	require.NotNil(t, pf)

	haystack := []byte("hay pin hay needle")
	assert.Equal(t, 4, pf.Find(haystack, 0))
	assert.Equal(t, 12, pf.Find(haystack, 5))
	assert.Equal(t, -1, pf.Find(haystack, 13))
	assert.Equal(t, -1, pf.Find(haystack, len(haystack)))
}

func TestNilPrefilter(t *testing.T) {
	t.Parallel()
	for _, literals := range [][]string{nil, {"a", ""}} {
		pf, err := New(literals)
		require.NoError(t, err)
		assert.Nil(t, pf)
		assert.Equal(t, 3, pf.Find([]byte("anything"), 3))
	}
}
