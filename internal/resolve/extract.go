package resolve

import (
	"regexp"
	"strings"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/marc"
	"record-triplifier/internal/value"
)

// Input is one record in both its representations: the flat key/value
// dictionary and, when the record carried a raw tagged string, its decoded
// tagged form. Tagged may be nil.
type Input struct {
	Flat   map[string]any
	Tagged marc.Record
}

// marcSpec matches "tag:subfield" with a 1-3 digit tag and a subfield code
// that is a letter, a digit, or one of the reserved tokens i1, i2, none.
var marcSpec = regexp.MustCompile(`^([0-9]{1,3}):([0-9a-zA-Z]|i1|i2|none)$`)

// Extract reads one field from the input through the given source and
// returns the matching values as a flat list, or Absent / Empty.
//
// Dict source: the key must be present; scalars wrap into a single-element
// list, lists pass through in order. Marc source: the field key is a
// "tag:subfield" specifier; malformed specifiers and missing tags are
// Absent, a present tag with zero subfield matches is Empty.
func Extract(in Input, src descriptor.Source, fieldKey string) value.Value {
	switch src {
	case descriptor.SourceDict:
		raw, ok := in.Flat[fieldKey]
		if !ok {
			return value.None()
		}

		return value.FromAny(raw)

	case descriptor.SourceMARC:
		if in.Tagged == nil {
			return value.None()
		}

		m := marcSpec.FindStringSubmatch(fieldKey)
		if m == nil {
			return value.None()
		}

		// Directory tags are always three characters.
		tag := m[1]
		if len(tag) < 3 {
			tag = strings.Repeat("0", 3-len(tag)) + tag
		}

		vals, ok := in.Tagged.Subfield(tag, m[2])
		if !ok {
			return value.None()
		}

		return value.List(vals)

	default:
		return value.None()
	}
}
