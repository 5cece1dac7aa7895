package resolve

import (
	"fmt"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

// Resolve evaluates one mapping node against one record and returns its
// normalized (graph, value) pairs, walking the fallback chain until a node
// yields values or the chain runs out. A nil, nil return means the node has
// no value for this record.
//
// The chain walk is iterative, so arbitrarily long fallback chains cost no
// stack depth. Output-graph inheritance is computed per step: a fallback
// without its own graph emits into the nearest ancestor's graph. The
// specification tree itself is never written to, so re-entering the same
// fallback across many records shares no mutable state.
func Resolve(in Input, node *descriptor.Node, store *SaveAs) ([]Pair, error) {
	graph := node.Graph

	for cur := node; cur != nil; cur = cur.Fallback {
		if cur.Graph != "" {
			graph = cur.Graph
		}

		pairs, err := resolveOnce(in, cur, graph, store)
		if err != nil {
			return nil, err
		}

		if len(pairs) > 0 {
			return pairs, nil
		}
	}

	return nil, nil
}

// resolveOnce runs the per-node state machine: guard check, source dispatch,
// one of the four modes, and normalization into (graph, value) pairs.
// Mode precedence: graph-field pre-empts template, template pre-empts plain
// field resolution; alternatives apply only to dict-source plain resolution.
func resolveOnce(in Input, n *descriptor.Node, graph string, store *SaveAs) ([]Pair, error) {
	if !EvalGuard(in, n) {
		return nil, nil
	}

	switch n.Source {
	case descriptor.SourceDict, descriptor.SourceMARC:
	case descriptor.SourceNone:
		// A none-source node reads nothing itself; only its fallback chain
		// can produce values.
		return nil, nil
	default:
		return nil, &ConfigError{
			Node:   n.Name,
			Reason: fmt.Sprintf("source enum %d reached the resolver", n.Source),
		}
	}

	if n.GraphField != "" {
		return ResolveGraphField(in, n, graph, store), nil
	}

	var v value.Value

	if n.Template != "" {
		v = Insert(in, n)
	} else {
		v = Extract(in, n.Source, n.FieldSpec())

		if v.IsAbsent() && n.Source == descriptor.SourceDict {
			for _, alt := range n.Alternatives {
				v = Extract(in, n.Source, alt)
				if !v.IsAbsent() {
					break
				}
			}
		}
	}

	v = Transform(v, n, store)

	return pairsOf(v, graph), nil
}

// pairsOf coerces a transformed value into the uniform pair list.
func pairsOf(v value.Value, graph string) []Pair {
	vs := v.Strings()
	if len(vs) == 0 {
		return nil
	}

	out := make([]Pair, 0, len(vs))
	for _, s := range vs {
		out = append(out, Pair{Graph: graph, Value: s})
	}

	return out
}
