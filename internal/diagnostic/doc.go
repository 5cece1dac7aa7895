// Package diagnostic provides structured errors and warnings for mapping
// specification validation.
//
// Key capabilities:
//   - Structural violations with a stable code per rule
//   - Node-path and field context on every message
//   - Aggregation of all violations found in one validation walk
package diagnostic
