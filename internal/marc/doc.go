// Package marc decodes raw MARC21 (ISO 2709) record strings into the nested
// tag/subfield mapping consumed by the resolver. The decoder is a pure
// function over one record string; it performs no schema validation beyond
// what is needed to walk the leader, directory and field data safely.
package marc
