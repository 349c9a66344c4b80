package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracefold/graphpub/pkg/names"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  names.Normalized
	}{
		{"lowercase passthrough", "acme corp", "acme corp"},
		{"uppercase folded", "ACME CORP", "acme corp"},
		{"mixed case", "Acme Corp", "acme corp"},
		{"surrounding whitespace", "  acme corp  ", "acme corp"},
		{"internal whitespace collapsed", "acme \t  corp", "acme corp"},
		{"tabs and newlines", "acme\ncorp", "acme corp"},
		{"curly apostrophe", "O’Brien", "o'brien"},
		{"curly double quotes", "the “big” one", `the "big" one`},
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"unicode folding", "Straße", "strasse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names.Normalize(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, names.Equal("Acme Corp", " acme corp "))
	assert.True(t, names.Equal("ACME CORP", "acme corp"))
	assert.False(t, names.Equal("Acme Corp", "Acme Corporation"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, names.Normalize("  ").IsBlank())
	assert.False(t, names.Normalize("x").IsBlank())
}
