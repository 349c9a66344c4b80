// Package names defines the normalized name key used for every name-based
// lookup in the system. Two authored names refer to the same identity exactly
// when their normalized forms are equal; raw strings are never valid map keys.
package names

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalized is the canonical join key for a human-authored name.
// It is produced only by Normalize.
type Normalized string

var folder = cases.Fold()

var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"´", "'", // acute accent used as apostrophe
	"`", "'", // backtick used as apostrophe
)

// Normalize lower-cases a name with Unicode case folding, collapses runs of
// whitespace to single spaces, trims, and maps typographic quotes to their
// ASCII forms.
func Normalize(name string) Normalized {
	s := quoteReplacer.Replace(name)
	s = folder.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return Normalized(s)
}

// String returns the normalized form as a plain string.
func (n Normalized) String() string { return string(n) }

// IsBlank reports whether the original name contained no content at all.
func (n Normalized) IsBlank() bool { return n == "" }

// Equal reports whether two raw names share the same identity.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
