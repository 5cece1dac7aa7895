// Package value defines the tagged variant used for field values throughout
// the mapping pipeline. A field read can yield a single scalar, a list of
// scalars, nothing at all, or a field that exists but contributed no values;
// the Kind discriminates these instead of ad-hoc type inspection.
package value

import (
	"strconv"

	"record-triplifier/internal/common"
)

// Kind discriminates the shape of a Value.
type Kind int

const (
	// Absent means the field was not present in the record at all.
	Absent Kind = iota
	// Empty means the field was present but contributed zero values,
	// e.g. a tag present in a decoded record with no matching subfield.
	Empty
	// Scalar is a single string value.
	Scalar
	// Many is an ordered list of string values.
	Many
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Empty:
		return "empty"
	case Scalar:
		return "scalar"
	case Many:
		return "many"
	default:
		return common.UnknownStr
	}
}

// Value is the tagged variant carried between extraction and transform stages.
type Value struct {
	Kind   Kind
	scalar string
	many   []string
}

// None is the absent value.
func None() Value {
	return Value{Kind: Absent}
}

// EmptyPresent is a field that exists but yielded no values.
func EmptyPresent() Value {
	return Value{Kind: Empty}
}

// Str wraps a single scalar.
func Str(s string) Value {
	return Value{Kind: Scalar, scalar: s}
}

// List wraps a list of scalars. A nil or empty list is Empty, not Absent:
// the caller only builds a List when the field itself was found.
func List(vs []string) Value {
	if len(vs) == 0 {
		return EmptyPresent()
	}

	return Value{Kind: Many, many: vs}
}

// FromAny converts a dynamically typed record value into a Value.
// Scalars are stringified, []any and []string flatten into Many,
// nil becomes Empty.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return EmptyPresent()
	case string:
		return Str(t)
	case []string:
		return List(append([]string(nil), t...))
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, Stringify(e))
		}

		return List(out)
	default:
		return Str(Stringify(v))
	}
}

// Stringify renders a scalar of any dynamic type as a string.
// Numeric values keep their shortest decimal form.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Found returns true for Scalar and Many values.
func (v Value) Found() bool {
	return v.Kind == Scalar || v.Kind == Many
}

// IsAbsent returns true if the field was missing from the record.
func (v Value) IsAbsent() bool {
	return v.Kind == Absent
}

// Strings returns the value as a flat list. Scalars wrap into a
// single-element list; Absent and Empty return nil.
func (v Value) Strings() []string {
	switch v.Kind {
	case Scalar:
		return []string{v.scalar}
	case Many:
		return v.many
	default:
		return nil
	}
}

// First returns the first scalar and true, or "" and false when no value exists.
func (v Value) First() (string, bool) {
	switch v.Kind {
	case Scalar:
		return v.scalar, true
	case Many:
		return common.First(v.many)
	default:
		return "", false
	}
}

// Len returns the number of scalars carried.
func (v Value) Len() int {
	switch v.Kind {
	case Scalar:
		return 1
	case Many:
		return len(v.many)
	default:
		return 0
	}
}
