package descriptor

import (
	"record-triplifier/internal/common"
)

// TemplateSlot is the fixed two-character placeholder token substituted by
// template-mode nodes.
const TemplateSlot = "{}"

// Source identifies which record representation a node reads from.
type Source int

const (
	// SourceNone is a node that reads nothing itself (identifier-only convenience).
	SourceNone Source = iota
	// SourceDict reads from the flat key/value record.
	SourceDict
	// SourceMARC reads from the decoded tagged record.
	SourceMARC
)

// String returns the YAML spelling of the source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceDict:
		return "dict"
	case SourceMARC:
		return "marc"
	default:
		return common.UnknownStr
	}
}

// Requirement controls what an unresolvable node does to its record.
type Requirement int

const (
	// Optional nodes are skipped silently when they yield nothing.
	Optional Requirement = iota
	// Mandatory nodes abort the whole record when they yield nothing.
	Mandatory
)

// String returns the YAML spelling of the requirement.
func (r Requirement) String() string {
	switch r {
	case Optional:
		return "optional"
	case Mandatory:
		return "mandatory"
	default:
		return common.UnknownStr
	}
}

// Kind declares the RDF shape of a node's emitted object.
type Kind int

const (
	// KindLiteral emits the object as a plain literal.
	KindLiteral Kind = iota
	// KindResource emits the object as a URI reference.
	KindResource
)

// String returns the YAML spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindResource:
		return "resource"
	default:
		return common.UnknownStr
	}
}

// MissPolicy controls what a value mapping does with unmapped inputs.
type MissPolicy int

const (
	// MissDrop removes unmapped values from the output.
	MissDrop MissPolicy = iota
	// MissKeep passes unmapped values through unchanged.
	MissKeep
	// MissDefault substitutes a fixed default literal for unmapped values.
	MissDefault
)

// String returns the YAML spelling of the miss policy.
func (m MissPolicy) String() string {
	switch m {
	case MissDrop:
		return "drop"
	case MissKeep:
		return "keep"
	case MissDefault:
		return "default"
	default:
		return common.UnknownStr
	}
}

// Table is a value-to-value lookup table, either inline or pulled in from an
// external include file. After loading, Include is resolved and Values holds
// the full table; exporting a loaded specification writes the inlined form.
type Table struct {
	// Values is the inline (or inlined) lookup table.
	Values map[string]string `yaml:"values,omitempty"`
	// Include names an external YAML file holding the table,
	// relative to the descriptor that references it.
	Include string `yaml:"include,omitempty"`
	// OnMiss selects the policy for values with no table entry.
	OnMiss MissPolicy `yaml:"onMiss,omitempty"`
	// Default is the substitute literal used when OnMiss is "default".
	Default string `yaml:"default,omitempty"`
}

// Guard is a conditional expression gating node eligibility.
type Guard struct {
	// Field is the comparison field, read through the node's source.
	Field string `yaml:"field"`
	// Op is the comparison operator token. Synonyms are accepted,
	// e.g. "eq", "equal" and "==" all mean equality; "exi" means existence.
	Op string `yaml:"op"`
	// Value is the configured comparison value. Unused for existence checks.
	Value string `yaml:"value,omitempty"`
}

// Node is one mapping rule: how to derive zero or more triples' predicate and
// object from one record.
type Node struct {
	// Name identifies the node in diagnostics and logs.
	Name string `yaml:"name,omitempty"`
	// Source selects the record representation to read.
	Source Source `yaml:"source"`
	// Field locates the value: a flat key for dict nodes, a "tag:subfield"
	// specifier for marc nodes.
	Field string `yaml:"field,omitempty"`
	// Subfield optionally splits the marc specifier; when set, the effective
	// specifier is Field + ":" + Subfield.
	Subfield string `yaml:"subfield,omitempty"`
	// Required controls whether an unresolvable node aborts the record.
	Required Requirement `yaml:"required,omitempty"`
	// Graph is the predicate's namespace/graph segment for emitted triples.
	Graph string `yaml:"graph,omitempty"`
	// Kind declares whether the object is a literal or a URI reference.
	Kind Kind `yaml:"kind,omitempty"`
	// Alternatives are alternate flat keys tried in order when Field is
	// absent. Dict source only.
	Alternatives StringList `yaml:"alternatives,omitempty"`
	// Mapping is an optional value-to-value lookup applied after filtering.
	Mapping *Table `yaml:"mapping,omitempty"`
	// Match keeps only values the regex search matches.
	Match string `yaml:"match,omitempty"`
	// Cut regex-substitutes all matches with Replace before decoration.
	Cut string `yaml:"cut,omitempty"`
	// Replace is the substitution text for Cut. Empty removes matches.
	Replace string `yaml:"replace,omitempty"`
	// Prepend and Append decorate every surviving value.
	Prepend string `yaml:"prepend,omitempty"`
	Append  string `yaml:"append,omitempty"`
	// Guard optionally gates node eligibility.
	Guard *Guard `yaml:"guard,omitempty"`
	// GraphField routes each value's triple to a graph derived from a
	// companion field instead of the static Graph.
	GraphField string `yaml:"graphField,omitempty"`
	// GraphMapping maps the companion field's value to the output graph.
	// Misses fall back to the static Graph.
	GraphMapping *Table `yaml:"graphMapping,omitempty"`
	// Template switches the node into multi-slot template mode.
	// Slots use the {} placeholder token.
	Template string `yaml:"template,omitempty"`
	// TemplateFields are the additional fields substituted into Template
	// alongside Field.
	TemplateFields StringList `yaml:"templateFields,omitempty"`
	// StrictTemplate voids combinations with missing or empty slot values
	// instead of padding with empty strings.
	StrictTemplate bool `yaml:"strictTemplate,omitempty"`
	// SaveAs tags surviving values for side-channel collection across a run.
	SaveAs string `yaml:"saveAs,omitempty"`
	// Fallback is substituted when this node yields nothing. Chains are
	// unbounded and always fresh sub-trees, never back-references.
	Fallback *Node `yaml:"fallback,omitempty"`
}

// Specification is the validated, fully resolved rule tree.
type Specification struct {
	// Version of the descriptor schema.
	Version string `yaml:"version,omitempty"`
	// Identifier is the root rule deriving each record's subject identity.
	Identifier Node `yaml:"identifier"`
	// Nodes is the ordered sequence of top-level mapping rules.
	Nodes []Node `yaml:"nodes"`
}

// FieldSpec returns the node's effective field specifier. For marc nodes a
// separate Subfield joins the tag with a colon.
func (n *Node) FieldSpec() string {
	if n.Subfield != "" {
		return n.Field + ":" + n.Subfield
	}

	return n.Field
}

// Clone returns a deep copy of the node including its fallback chain and
// tables, so a substituted fallback never shares mutable state.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	out := *n
	out.Alternatives = append(StringList(nil), n.Alternatives...)
	out.TemplateFields = append(StringList(nil), n.TemplateFields...)
	out.Mapping = n.Mapping.clone()
	out.GraphMapping = n.GraphMapping.clone()

	if n.Guard != nil {
		g := *n.Guard
		out.Guard = &g
	}

	out.Fallback = n.Fallback.Clone()

	return &out
}

func (t *Table) clone() *Table {
	if t == nil {
		return nil
	}

	out := *t
	if t.Values != nil {
		out.Values = make(map[string]string, len(t.Values))
		for k, v := range t.Values {
			out.Values[k] = v
		}
	}

	return &out
}
