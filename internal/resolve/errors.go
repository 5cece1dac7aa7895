package resolve

import (
	"errors"
	"fmt"
)

// ErrMandatory marks records aborted because a mandatory node had no
// resolvable value. Use errors.Is to detect it and errors.As with
// *MandatoryFailureError for the failing node's identity.
var ErrMandatory = errors.New("mandatory node unresolved")

// ErrAmbiguousIdentifier marks records whose root identifier resolved to
// zero or more than one value.
var ErrAmbiguousIdentifier = errors.New("ambiguous record identifier")

// MandatoryFailureError reports which mandatory node failed for a record.
type MandatoryFailureError struct {
	Node string
}

func (e *MandatoryFailureError) Error() string {
	return fmt.Sprintf("mandatory node %q resolved to no value", e.Node)
}

func (e *MandatoryFailureError) Unwrap() error { return ErrMandatory }

// AmbiguousIdentifierError reports how many values the identifier rule
// produced for a record.
type AmbiguousIdentifierError struct {
	Count int
}

func (e *AmbiguousIdentifierError) Error() string {
	return fmt.Sprintf("identifier resolved to %d values, need exactly 1", e.Count)
}

func (e *AmbiguousIdentifierError) Unwrap() error { return ErrAmbiguousIdentifier }

// ConfigError is an internal contract violation that validation should have
// caught, e.g. an unknown source enum reaching the resolver. It is a
// programming-level defect, never a per-record condition.
type ConfigError struct {
	Node   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mapping configuration defect at node %q: %s", e.Node, e.Reason)
}
