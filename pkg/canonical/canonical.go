// Package canonical converts raw authored cell values into their canonical,
// per-data-type form. Both the batch builder (upsert path) and the diff
// engine (update path) go through this package, so value semantics at create
// time and at compare time can never diverge.
//
// Canonical forms: numbers use the shortest decimal rendering, booleans are
// "true"/"false", dates are the "2006-01-02" day form, times are RFC3339 in
// UTC, points are "x,y". Equality for numbers uses a small absolute epsilon;
// everything else compares as canonical strings.
package canonical

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/tracefold/graphpub/pkg/graph"
)

// Epsilon is the absolute tolerance for numeric equality.
const Epsilon = 1e-9

// dayLayout is the canonical calendar-day form.
const dayLayout = "2006-01-02"

// dateLayouts are accepted date inputs, tried in order. Datetime layouts come
// first so a full ISO instant canonicalizes to its calendar day rather than
// failing on the shorter layouts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayLayout,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01",
}

// Canonicalize converts a raw value to its canonical string form under the
// given data type. The input must be non-blank; blank-cell policy belongs to
// callers.
func Canonicalize(dt graph.DataType, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("blank value")
	}

	switch dt {
	case graph.Text, graph.URL:
		return s, nil
	case graph.Number:
		f, err := parseNumber(s)
		if err != nil {
			return "", err
		}
		return formatFloat(f), nil
	case graph.Checkbox:
		b, err := parseBool(s)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case graph.Date:
		t, err := parseInstant(s)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(dayLayout), nil
	case graph.Time:
		t, err := parseInstant(s)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(time.RFC3339), nil
	case graph.Point:
		x, y, err := parsePoint(s)
		if err != nil {
			return "", err
		}
		return formatFloat(x) + "," + formatFloat(y), nil
	case graph.Relation:
		return "", fmt.Errorf("relation properties have no scalar form")
	default:
		return "", fmt.Errorf("unknown data type %q", dt)
	}
}

// Convert converts a raw value into a typed value ready for a mutation
// operation.
func Convert(dt graph.DataType, raw string) (graph.Value, error) {
	c, err := Canonicalize(dt, raw)
	if err != nil {
		return graph.Value{}, err
	}
	return graph.Value{Type: dt, Value: c}, nil
}

// Equal reports whether two raw values are the same under the data type's
// canonicalization rule. Values that fail to canonicalize are never equal to
// anything, including themselves.
func Equal(dt graph.DataType, a, b string) bool {
	ca, errA := Canonicalize(dt, a)
	cb, errB := Canonicalize(dt, b)
	if errA != nil || errB != nil {
		return false
	}
	if dt == graph.Number {
		fa, _ := strconv.ParseFloat(ca, 64)
		fb, _ := strconv.ParseFloat(cb, 64)
		return math.Abs(fa-fb) < Epsilon
	}
	return ca == cb
}

// parseNumber parses a decimal, tolerating thousands separators and
// surrounding currency-style noise authors leave in cells.
func parseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

// parseBool accepts the boolean spellings seen in authored sheets.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "checked":
		return true, nil
	case "false", "no", "n", "0", "unchecked":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// parseInstant parses a date or datetime in any accepted layout.
func parseInstant(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := utc.Parse(layout, s); err == nil {
			return t.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q", s)
}

// parsePoint parses an "x,y" coordinate pair.
func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid point %q", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("invalid point %q", s)
	}
	return x, y, nil
}

// formatFloat renders the shortest decimal form, so "3" and "3.0" share one
// canonical string.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
