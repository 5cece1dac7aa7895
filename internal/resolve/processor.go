package resolve

import (
	"errors"
	"fmt"

	"record-triplifier/internal/common"
	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/marc"
	"record-triplifier/log"
)

// Status reports how processing one record ended.
type Status int

const (
	// StatusOK means the record produced at least one triple.
	StatusOK Status = iota
	// StatusEmpty means the record processed successfully but had nothing
	// to emit: every node was optional and unresolved.
	StatusEmpty
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return common.UnknownStr
	}
}

// Result is the outcome of processing one record.
type Result struct {
	Status  Status
	Triples []Triple
}

// Config holds processor settings beyond the specification itself.
type Config struct {
	// TaggedField names the flat record key holding the raw tagged-record
	// string. Empty disables tagged-source decoding.
	TaggedField string
}

// Processor drives the node resolver across a whole specification, one
// record at a time. The specification is treated as immutable; a single
// Processor may serve concurrent workers as long as each call gets its own
// record.
type Processor struct {
	spec  *descriptor.Specification
	cfg   Config
	store *SaveAs
}

// NewProcessor creates a Processor over a validated specification.
// The store receives saveAs side-channel values; it may be shared across
// processors of one run.
func NewProcessor(spec *descriptor.Specification, cfg Config, store *SaveAs) *Processor {
	return &Processor{spec: spec, cfg: cfg, store: store}
}

// Process maps one flat record into its triple list.
//
// The root identifier rule must yield exactly one value: it becomes the
// record's subject, prefixed with graphPrefix. Every top-level node then
// resolves in order; a mandatory node without a value aborts the record with
// no triples at all, optional ones skip silently. A record where nothing
// resolved but nothing mandatory failed reports StatusEmpty.
func (p *Processor) Process(rec map[string]any, graphPrefix string) (*Result, error) {
	in, err := p.input(rec)
	if err != nil {
		return nil, err
	}

	idPairs, err := Resolve(in, &p.spec.Identifier, p.store)
	if err != nil {
		return nil, err
	}

	if len(idPairs) != 1 {
		return nil, &AmbiguousIdentifierError{Count: len(idPairs)}
	}

	subject := graphPrefix + idPairs[0].Value

	var triples []Triple

	for i := range p.spec.Nodes {
		n := &p.spec.Nodes[i]

		pairs, err := Resolve(in, n, p.store)
		if err != nil {
			return nil, err
		}

		if len(pairs) == 0 {
			if n.Required == descriptor.Mandatory {
				log.Debugf("record %s: mandatory node %q unresolved", subject, n.Name)
				return nil, &MandatoryFailureError{Node: n.Name}
			}

			continue
		}

		for _, pair := range pairs {
			triples = append(triples, Triple{
				Subject:   subject,
				Predicate: pair.Graph,
				Object:    pair.Value,
				Kind:      n.Kind,
			})
		}
	}

	if len(triples) == 0 {
		return &Result{Status: StatusEmpty}, nil
	}

	return &Result{Status: StatusOK, Triples: triples}, nil
}

// input assembles the record's two representations. A malformed tagged
// string aborts the record; an empty one degrades the tagged source to
// absent.
func (p *Processor) input(rec map[string]any) (Input, error) {
	in := Input{Flat: rec}

	if p.cfg.TaggedField == "" {
		return in, nil
	}

	raw, ok := rec[p.cfg.TaggedField].(string)
	if !ok || raw == "" {
		return in, nil
	}

	decoded, err := marc.Decode(raw)
	switch {
	case err == nil:
		in.Tagged = decoded
	case errors.Is(err, marc.ErrEmptyRecord):
		// Tagged source stays absent.
	default:
		return Input{}, fmt.Errorf("decoding tagged record field %q: %w", p.cfg.TaggedField, err)
	}

	return in, nil
}
