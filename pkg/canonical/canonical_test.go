package canonical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/graphpub/pkg/canonical"
	"github.com/tracefold/graphpub/pkg/graph"
)

func TestCanonicalizeNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3", "3"},
		{"3.0", "3"},
		{"3.50", "3.5"},
		{"-0.25", "-0.25"},
		{"1,234,567", "1234567"},
		{" 42 ", "42"},
	}
	for _, tt := range tests {
		got, err := canonical.Canonicalize(graph.Number, tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := canonical.Canonicalize(graph.Number, "tall")
	assert.Error(t, err)
	_, err = canonical.Canonicalize(graph.Number, "NaN")
	assert.Error(t, err)
}

func TestCanonicalizeCheckbox(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "Yes", "y", "1", "checked"} {
		got, err := canonical.Canonicalize(graph.Checkbox, s)
		require.NoError(t, err, s)
		assert.Equal(t, "true", got, s)
	}
	for _, s := range []string{"false", "No", "n", "0", "unchecked"} {
		got, err := canonical.Canonicalize(graph.Checkbox, s)
		require.NoError(t, err, s)
		assert.Equal(t, "false", got, s)
	}

	_, err := canonical.Canonicalize(graph.Checkbox, "maybe")
	assert.Error(t, err)
}

func TestCanonicalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T08:30:00Z", "2024-01-15"},
		{"2024-01-15 08:30:00", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
		{"15 January 2024", "2024-01-15"},
	}
	for _, tt := range tests {
		got, err := canonical.Canonicalize(graph.Date, tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := canonical.Canonicalize(graph.Date, "not a date")
	assert.Error(t, err)
}

func TestCanonicalizeTime(t *testing.T) {
	got, err := canonical.Canonicalize(graph.Time, "2024-01-15T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T08:30:00Z", got)

	// Date-only inputs canonicalize to midnight UTC.
	got, err = canonical.Canonicalize(graph.Time, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T00:00:00Z", got)
}

func TestCanonicalizePoint(t *testing.T) {
	got, err := canonical.Canonicalize(graph.Point, "12.5, -3.0")
	require.NoError(t, err)
	assert.Equal(t, "12.5,-3", got)

	_, err = canonical.Canonicalize(graph.Point, "12.5")
	assert.Error(t, err)
	_, err = canonical.Canonicalize(graph.Point, "a,b")
	assert.Error(t, err)
}

func TestCanonicalizeText(t *testing.T) {
	got, err := canonical.Canonicalize(graph.Text, "  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = canonical.Canonicalize(graph.Text, "   ")
	assert.Error(t, err)
}

func TestCanonicalizeRelationRejected(t *testing.T) {
	_, err := canonical.Canonicalize(graph.Relation, "anything")
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	// Representation differences never fire a diff.
	assert.True(t, canonical.Equal(graph.Number, "3", "3.0"))
	assert.True(t, canonical.Equal(graph.Checkbox, "true", "Yes"))
	assert.True(t, canonical.Equal(graph.Date, "2024-01-15", "2024-01-15T23:00:00Z"))
	assert.True(t, canonical.Equal(graph.Text, "hello", " hello "))

	assert.False(t, canonical.Equal(graph.Number, "3", "3.1"))
	assert.False(t, canonical.Equal(graph.Date, "2024-01-15", "2024-01-16"))

	// Unparseable values are never equal, even to themselves.
	assert.False(t, canonical.Equal(graph.Number, "x", "x"))
}

func TestEqualEpsilon(t *testing.T) {
	assert.True(t, canonical.Equal(graph.Number, "1.0000000000001", "1.0000000000002"))
	assert.False(t, canonical.Equal(graph.Number, "1.0", "1.001"))
}

func TestConvert(t *testing.T) {
	v, err := canonical.Convert(graph.Number, "3.0")
	require.NoError(t, err)
	assert.Equal(t, graph.Value{Type: graph.Number, Value: "3"}, v)

	_, err = canonical.Convert(graph.Number, "tall")
	assert.Error(t, err)
}
