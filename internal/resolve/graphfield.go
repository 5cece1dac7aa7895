package resolve

import (
	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

// ResolveGraphField resolves a node that routes each value's triple to a
// graph derived from a companion field. The primary field and the companion
// must resolve to matching shapes: both scalar, or both lists of equal
// length. Any shape mismatch yields no pairs and the node falls through to
// its fallback.
//
// The companion value maps through graphMapping with the node's static graph
// as the default on miss; an entirely absent graphMapping forces every pair
// to the static graph. Each primary value runs the full transform pipeline
// independently; values the pipeline drops lose their pair.
func ResolveGraphField(in Input, n *descriptor.Node, staticGraph string, store *SaveAs) []Pair {
	primary := Extract(in, n.Source, n.FieldSpec())
	companion := Extract(in, n.Source, n.GraphField)

	switch {
	case primary.Kind == value.Scalar && companion.Kind == value.Scalar:
		pv, _ := primary.First()
		cv, _ := companion.First()

		return graphPairs(pv, cv, n, staticGraph, store)

	case primary.Kind == value.Many && companion.Kind == value.Many &&
		primary.Len() == companion.Len():
		var out []Pair

		pvs := primary.Strings()
		cvs := companion.Strings()

		for i := range pvs {
			out = append(out, graphPairs(pvs[i], cvs[i], n, staticGraph, store)...)
		}

		return out

	default:
		return nil
	}
}

// graphPairs transforms one primary value and routes every survivor to the
// graph its companion value resolves to.
func graphPairs(primary, companion string, n *descriptor.Node, staticGraph string, store *SaveAs) []Pair {
	transformed := Transform(value.Str(primary), n, store)
	if !transformed.Found() {
		return nil
	}

	graph := staticGraph
	if n.GraphMapping != nil {
		if mapped, ok := n.GraphMapping.Values[companion]; ok {
			graph = mapped
		}
	}

	out := make([]Pair, 0, transformed.Len())
	for _, s := range transformed.Strings() {
		out = append(out, Pair{Graph: graph, Value: s})
	}

	return out
}
