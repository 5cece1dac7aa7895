package descriptor

import (
	"fmt"
	"regexp"
	"strings"

	"record-triplifier/internal/diagnostic"
)

// marcSpecPattern matches a well-formed tagged-record field specifier:
// a 1-3 digit tag, a colon, and a subfield code (letter, digit, or one of
// the reserved tokens i1, i2, none).
var marcSpecPattern = regexp.MustCompile(`^[0-9]{1,3}:([0-9a-zA-Z]|i1|i2|none)$`)

// Validate statically checks a specification tree for structural and type
// correctness. Its rule set mirrors the node resolver's runtime contract:
// anything the resolver could not safely execute is rejected here, before
// the first record is processed.
func Validate(spec *Specification) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if spec == nil {
		res.AddError("spec_is_nil", "specification is nil", "", "")
		return res
	}

	validateNode(res, &spec.Identifier, spec.Identifier.Name, true)

	if len(spec.Nodes) == 0 {
		res.AddWarning("no_nodes", "specification has no mapping nodes", "", "")
	}

	for i := range spec.Nodes {
		n := &spec.Nodes[i]

		name := n.Name
		if name == "" {
			name = fmt.Sprintf("nodes[%d]", i)
		}

		validateNode(res, n, name, false)
	}

	return res
}

// validateNode checks one node and recurses into its fallback chain.
func validateNode(res *diagnostic.Diagnostics, n *Node, name string, isIdentifier bool) {
	switch n.Source {
	case SourceDict, SourceMARC:
	case SourceNone:
		if !isIdentifier {
			res.AddError("source_none", "source none is only legal on the identifier rule", name, "source")
		}
	default:
		res.AddError("unknown_source", fmt.Sprintf("unknown source enum value %d", n.Source), name, "source")
	}

	if n.Source != SourceNone && n.Field == "" {
		res.AddError("missing_field", "sourced node declares no field", name, "field")
	}

	if n.Source == SourceMARC && n.Field != "" {
		if spec := n.FieldSpec(); !marcSpecPattern.MatchString(spec) {
			res.AddError("bad_marc_spec",
				fmt.Sprintf("field specifier %q is not tag:subfield", spec), name, "field")
		}
	}

	if len(n.Alternatives) > 0 && n.Source != SourceDict {
		res.AddError("alternatives_source", "alternatives are only defined for dict source", name, "alternatives")
	}

	if n.Required < Optional || n.Required > Mandatory {
		res.AddError("unknown_requirement", fmt.Sprintf("unknown requirement enum value %d", n.Required), name, "required")
	}

	if n.Kind < KindLiteral || n.Kind > KindResource {
		res.AddError("unknown_kind", fmt.Sprintf("unknown kind enum value %d", n.Kind), name, "kind")
	}

	validateRegex(res, name, "match", n.Match)
	validateRegex(res, name, "cut", n.Cut)

	if n.Guard != nil {
		if n.Guard.Field == "" {
			res.AddError("guard_field", "guard declares no comparison field", name, "guard")
		}

		if _, ok := NormalizeOp(n.Guard.Op); !ok {
			res.AddError("guard_operator", fmt.Sprintf("unknown guard operator %q", n.Guard.Op), name, "guard")
		}
	}

	if n.GraphMapping != nil && n.GraphField == "" {
		res.AddError("graph_mapping_orphan", "graphMapping declared without graphField", name, "graphMapping")
	}

	validateTable(res, name, "mapping", n.Mapping)
	validateTable(res, name, "graphMapping", n.GraphMapping)

	if n.Template != "" {
		slots := strings.Count(n.Template, TemplateSlot)
		if slots == 0 {
			res.AddError("template_no_slots", "template contains no {} placeholder slots", name, "template")
		} else if want := 1 + len(n.TemplateFields); slots != want {
			// Shortfalls pad with empty strings at runtime, so this is
			// suspicious rather than fatal.
			res.AddWarning("template_arity",
				fmt.Sprintf("template has %d slots for %d fields", slots, want), name, "template")
		}
	} else if len(n.TemplateFields) > 0 {
		res.AddError("template_fields_orphan", "templateFields declared without template", name, "templateFields")
	}

	if n.Graph == "" && !isIdentifier && n.GraphMapping == nil {
		res.AddWarning("empty_graph", "node emits triples with an empty predicate graph", name, "graph")
	}

	if n.Fallback != nil {
		validateNode(res, n.Fallback, name+"/fallback", false)
	}
}

func validateRegex(res *diagnostic.Diagnostics, name, field, pattern string) {
	if pattern == "" {
		return
	}

	if _, err := regexp.Compile(pattern); err != nil {
		res.AddError("invalid_regex", fmt.Sprintf("invalid %s regex: %v", field, err), name, field)
	}
}

func validateTable(res *diagnostic.Diagnostics, name, field string, t *Table) {
	if t == nil {
		return
	}

	if t.Include != "" {
		res.AddError("unresolved_include",
			fmt.Sprintf("table include %q not resolved", t.Include), name, field)
	}

	if t.OnMiss < MissDrop || t.OnMiss > MissDefault {
		res.AddError("unknown_on_miss", fmt.Sprintf("unknown onMiss enum value %d", t.OnMiss), name, field)
	}

	if t.OnMiss == MissDefault && t.Default == "" {
		res.AddWarning("empty_default", "onMiss default substitutes an empty literal", name, field)
	}
}
