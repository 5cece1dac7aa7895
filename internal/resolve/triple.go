package resolve

import "record-triplifier/internal/descriptor"

// Triple is one (subject, predicate, object, kind) statement derived from a
// record. Immutable once aggregated.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Kind      descriptor.Kind
}

// Pair is one normalized node result: the resolved output graph and the
// transformed value routed into it.
type Pair struct {
	Graph string
	Value string
}
