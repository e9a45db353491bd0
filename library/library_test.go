package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfroeh/gotori/pattern"
)

func TestRead(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		yamlContent string
		wantNames   []string
		wantErr     string
	}{
		{
			name: "valid patterns",
			yamlContent: `
patterns:
  - name: number
    description: Unsigned integer
    pattern: '\d+'
  - name: word
    pattern: '(?P<w>[[:alpha:]]+)'
    replace: '[${w}]'
`,
			wantNames: []string{"number", "word"},
		},
		{
			name:        "empty document",
			yamlContent: ``,
			wantNames:   []string{},
		},
		{
			name: "invalid yaml",
			yamlContent: `
patterns:
  - name: missing colon
    pattern '\d'
`,
			wantErr: "yaml",
		},
		{
			name: "unknown field",
			yamlContent: `
patterns:
  - name: number
    pattern: '\d+'
    replacement: 'x'
`,
			wantErr: "field replacement not found",
		},
		{
			name: "duplicate name",
			yamlContent: `
patterns:
  - name: number
    pattern: '\d+'
  - name: number
    pattern: '[0-9]+'
`,
			wantErr: `pattern "number": duplicate name`,
		},
		{
			name: "missing name",
			yamlContent: `
patterns:
  - pattern: '\d+'
`,
			wantErr: "pattern 0: missing name",
		},
		{
			name: "missing pattern",
			yamlContent: `
patterns:
  - name: nothing
`,
			wantErr: `pattern "nothing": missing pattern`,
		},
		{
			name: "bad pattern",
			yamlContent: `
patterns:
  - name: broken
    pattern: 'a{2'
`,
			wantErr: `pattern "broken": parser error at 1: did not find closing '}'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lib, err := Read(strings.NewReader(tt.yamlContent))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, lib.Names())
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `
patterns:
  - name: word
    description: A run of letters
    pattern: '(?P<w>[[:alpha:]]+)'
    replace: '[${w}]'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)

	e, ok := lib.Lookup("word")
	require.True(t, ok)
	assert.Equal(t, "A run of letters", e.Description)
	assert.Equal(t, []string{"w"}, e.Regexp().Names())
	assert.Equal(t, "[ab] [cd]!", pattern.ReplaceTemplate(e.Matcher(), nil, "ab cd!", e.Replace))

	_, ok = lib.Lookup("nope")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	t.Parallel()
	lib := Default()
	assert.Equal(t, []string{"email", "ipv4", "date", "hex", "identifier"}, lib.Names())

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "email", input: "write to jane.doe@example.com", expected: "write to <jane.doe at example.com>"},
		{name: "ipv4", input: "from 10.0.0.1 and 192.168.1.20", expected: "from 10.0.x.x and 192.168.x.x"},
		{name: "date", input: "due 2026-10-15", expected: "due 15.10.2026"},
	}
	for _, tt := range tests {
		e, ok := lib.Lookup(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.expected, pattern.ReplaceTemplate(e.Matcher(), nil, tt.input, e.Replace), tt.name)
	}
}
