package resolve

import (
	"strings"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

// Insert resolves a template-mode node: it gathers the primary field's
// values plus every templateFields entry's values, forms the cross-product
// of all value lists and substitutes each combination into the template's
// ordered {} slots.
//
// A missing field contributes a single empty-string placeholder rather than
// aborting. Combinations shorter than the slot count pad with empty strings;
// in strict mode any shortfall or empty slot voids the combination instead.
// Returns Absent when zero combinations survive.
func Insert(in Input, n *descriptor.Node) value.Value {
	fields := append([]string{n.FieldSpec()}, n.TemplateFields...)

	lists := make([][]string, len(fields))
	for i, f := range fields {
		v := Extract(in, n.Source, f)
		if vs := v.Strings(); len(vs) > 0 {
			lists[i] = vs
		} else {
			lists[i] = []string{""}
		}
	}

	var out []string
	for _, combo := range crossProduct(lists) {
		if s, ok := fill(n.Template, combo, n.StrictTemplate); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		return value.None()
	}

	return value.List(out)
}

// crossProduct returns every combination across the value lists, first list
// varying slowest. The order is deterministic and stable within a run.
func crossProduct(lists [][]string) [][]string {
	total := 1
	for _, l := range lists {
		total *= len(l)
	}

	if total == 0 {
		return nil
	}

	out := make([][]string, 0, total)
	idx := make([]int, len(lists))

	for {
		combo := make([]string, len(lists))
		for i, l := range lists {
			combo[i] = l[idx[i]]
		}

		out = append(out, combo)

		// Odometer increment, last position fastest.
		pos := len(lists) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(lists[pos]) {
				break
			}

			idx[pos] = 0
			pos--
		}

		if pos < 0 {
			return out
		}
	}
}

// fill substitutes combination values into the template's slots in order.
func fill(template string, combo []string, strict bool) (string, bool) {
	parts := strings.Split(template, descriptor.TemplateSlot)
	slots := len(parts) - 1

	var b strings.Builder

	for i := 0; i < slots; i++ {
		b.WriteString(parts[i])

		val := ""
		if i < len(combo) {
			val = combo[i]
		}

		if strict && val == "" {
			return "", false
		}

		b.WriteString(val)
	}

	b.WriteString(parts[slots])

	return b.String(), true
}
