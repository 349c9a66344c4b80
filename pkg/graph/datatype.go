package graph

import (
	"fmt"
	"strings"
)

// DataType enumerates the value types a property can carry.
type DataType string

const (
	// Text is a free-form string value.
	Text DataType = "TEXT"
	// Number is a decimal numeric value.
	Number DataType = "NUMBER"
	// Checkbox is a boolean value.
	Checkbox DataType = "CHECKBOX"
	// Date is a calendar-day value without a time component.
	Date DataType = "DATE"
	// Time is an instant in time.
	Time DataType = "TIME"
	// Point is a two-dimensional coordinate pair.
	Point DataType = "POINT"
	// URL is a link value.
	URL DataType = "URL"
	// Relation marks a property whose values are edges to other entities
	// rather than scalars.
	Relation DataType = "RELATION"
)

// ParseDataType parses a declared data type label, case-insensitively.
// A handful of aliases seen in authored batches are accepted.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT", "STRING":
		return Text, nil
	case "NUMBER", "FLOAT", "INT":
		return Number, nil
	case "CHECKBOX", "BOOLEAN", "BOOL":
		return Checkbox, nil
	case "DATE":
		return Date, nil
	case "TIME", "DATETIME":
		return Time, nil
	case "POINT", "GEO":
		return Point, nil
	case "URL", "URI":
		return URL, nil
	case "RELATION":
		return Relation, nil
	default:
		return "", fmt.Errorf("unknown data type %q", s)
	}
}

// IsRelation reports whether the data type declares a relation property.
func (d DataType) IsRelation() bool { return d == Relation }

// IsScalar reports whether the data type carries a scalar value.
func (d DataType) IsScalar() bool { return d != Relation && d != "" }
