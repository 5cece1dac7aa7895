package descriptor

import (
	"sort"

	"record-triplifier/internal/common"
)

// Fields returns the de-duplicated, sorted set of every field name the tree
// could ever read: primary fields, alternatives, guard comparison fields,
// graph companion fields and template fields, across the identifier rule,
// every top-level node and every fallback. Callers use it to request a
// minimal projection from the upstream data source.
func (s *Specification) Fields() []string {
	var out []string

	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}

		if n.Field != "" {
			out = append(out, n.FieldSpec())
		}

		out = append(out, n.Alternatives...)
		out = append(out, n.TemplateFields...)

		if n.Guard != nil && n.Guard.Field != "" {
			out = append(out, n.Guard.Field)
		}

		if n.GraphField != "" {
			out = append(out, n.GraphField)
		}

		walk(n.Fallback)
	}

	walk(&s.Identifier)

	for i := range s.Nodes {
		walk(&s.Nodes[i])
	}

	out = common.Dedup(out)
	sort.Strings(out)

	return out
}

// Graphs returns the de-duplicated, sorted set of every graph the tree could
// ever emit into: static node graphs plus every graph-mapping target.
func (s *Specification) Graphs() []string {
	var out []string

	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}

		if n.Graph != "" {
			out = append(out, n.Graph)
		}

		if n.GraphMapping != nil {
			for _, g := range n.GraphMapping.Values {
				out = append(out, g)
			}
		}

		walk(n.Fallback)
	}

	for i := range s.Nodes {
		walk(&s.Nodes[i])
	}

	out = common.Dedup(out)
	sort.Strings(out)

	return out
}
