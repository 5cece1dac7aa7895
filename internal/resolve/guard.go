package resolve

import (
	"strconv"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

// EvalGuard decides whether a guarded node is eligible for this record.
//
// The operator token resolves through the fixed synonym table; unknown
// operators fail closed. The existence operator is true iff the guard field
// yields at least one value. For comparison operators the guard field's
// values are extracted and normalized (filter and cut/decorate rules of the
// owning node, no value mapping), and the guard succeeds if any value
// satisfies the comparison: existential, not universal semantics.
//
// A missing guard field is asymmetric: equality and less-than style
// operators fail closed, inequality and greater-than style operators succeed
// open, mirroring "missing is not equal / not greater-than-violating".
func EvalGuard(in Input, n *descriptor.Node) bool {
	g := n.Guard
	if g == nil {
		return true
	}

	op, ok := descriptor.NormalizeOp(g.Op)
	if !ok {
		return false
	}

	v := Extract(in, n.Source, g.Field)

	if op == descriptor.OpExists {
		return v.Found()
	}

	if !v.Found() {
		switch op {
		case descriptor.OpNe, descriptor.OpGt, descriptor.OpGe:
			return true
		default:
			return false
		}
	}

	v = guardNormalize(v, n)

	for _, s := range v.Strings() {
		if compare(s, op, g.Value) {
			return true
		}
	}

	return false
}

// guardNormalize applies the owning node's filter and cut/decorate rules to
// the guard field's values. Value mapping is skipped and nothing feeds the
// SaveAs side channel.
func guardNormalize(v value.Value, n *descriptor.Node) value.Value {
	v = Filter(v, n.Match)

	plain := *n
	plain.SaveAs = ""

	return Decorate(v, &plain, nil)
}

// compare evaluates one extracted value against the configured comparison
// value. Both sides coerce to numeric when both parse as numbers; otherwise
// they compare as strings.
func compare(got string, op descriptor.Op, want string) bool {
	gn, gerr := strconv.ParseFloat(got, 64)
	wn, werr := strconv.ParseFloat(want, 64)

	if gerr == nil && werr == nil {
		switch op {
		case descriptor.OpEq:
			return gn == wn
		case descriptor.OpNe:
			return gn != wn
		case descriptor.OpLt:
			return gn < wn
		case descriptor.OpLe:
			return gn <= wn
		case descriptor.OpGt:
			return gn > wn
		case descriptor.OpGe:
			return gn >= wn
		}

		return false
	}

	switch op {
	case descriptor.OpEq:
		return got == want
	case descriptor.OpNe:
		return got != want
	case descriptor.OpLt:
		return got < want
	case descriptor.OpLe:
		return got <= want
	case descriptor.OpGt:
		return got > want
	case descriptor.OpGe:
		return got >= want
	}

	return false
}
