// Package descriptor defines the mapping specification: the declarative,
// tree-shaped rule set that controls record-to-triple conversion. It loads
// YAML descriptors, inlines external mapping-table includes, validates the
// resulting tree against the resolver's contract and can export the fully
// resolved specification back to YAML.
package descriptor
