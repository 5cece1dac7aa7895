// Package resolve implements the mapping-descriptor interpreter: given one
// mapping node and one input record it decides which data source to read,
// applies guard, filtering and transform rules, walks the fallback chain on
// failure and emits normalized (graph, value) pairs. The record processor
// drives the resolver across a whole specification and assembles the final
// triple list per record.
//
// Resolution is pure computation over in-memory structures; the only shared
// mutable state is the SaveAs side-channel store, which is safe for
// concurrent appends when callers parallelize at record granularity.
package resolve
