package descriptor

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringList YAML methods ---

// StringList unmarshals from either a single string or an array of strings.
type StringList []string

// UnmarshalYAML implements custom YAML unmarshaling for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringList{str}
		} else {
			*s = StringList{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- enum YAML methods ---

// UnmarshalYAML parses the source spelling; unknown spellings are an error.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "", "none":
		*s = SourceNone
	case "dict":
		*s = SourceDict
	case "marc":
		*s = SourceMARC
	default:
		return fmt.Errorf("unknown source %q", str)
	}

	return nil
}

// MarshalYAML writes the canonical source spelling.
func (s Source) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML parses the requirement spelling.
func (r *Requirement) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "", "optional":
		*r = Optional
	case "mandatory", "required":
		*r = Mandatory
	default:
		return fmt.Errorf("unknown requirement %q", str)
	}

	return nil
}

// MarshalYAML writes the canonical requirement spelling.
func (r Requirement) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML parses the kind spelling.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "", "literal":
		*k = KindLiteral
	case "resource", "uri":
		*k = KindResource
	default:
		return fmt.Errorf("unknown kind %q", str)
	}

	return nil
}

// MarshalYAML writes the canonical kind spelling.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML parses the miss policy spelling.
func (m *MissPolicy) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "", "drop", "none":
		*m = MissDrop
	case "keep", "inherit":
		*m = MissKeep
	case "default":
		*m = MissDefault
	default:
		return fmt.Errorf("unknown onMiss policy %q", str)
	}

	return nil
}

// MarshalYAML writes the canonical miss policy spelling.
func (m MissPolicy) MarshalYAML() (any, error) {
	return m.String(), nil
}

// --- Table YAML methods ---

// tableDoc mirrors Table for the explicit form.
type tableDoc struct {
	Values  map[string]string `yaml:"values,omitempty"`
	Include string            `yaml:"include,omitempty"`
	OnMiss  MissPolicy        `yaml:"onMiss,omitempty"`
	Default string            `yaml:"default,omitempty"`
}

// UnmarshalYAML accepts either the explicit form with values/include/onMiss
// keys, or a bare mapping which is treated as the values table with the
// default drop policy.
func (t *Table) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping for table, got %v", node.Kind)
	}

	for i := 0; i < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "values", "include", "onMiss", "default":
			var doc tableDoc
			if err := node.Decode(&doc); err != nil {
				return err
			}

			*t = Table(doc)

			return nil
		}
	}

	// Bare mapping shorthand.
	var values map[string]string
	if err := node.Decode(&values); err != nil {
		return err
	}

	*t = Table{Values: values}

	return nil
}

// MarshalYAML writes the explicit, include-free form so that exported
// specifications are fully inlined.
func (t Table) MarshalYAML() (any, error) {
	return tableDoc{
		Values:  t.Values,
		OnMiss:  t.OnMiss,
		Default: t.Default,
	}, nil
}
