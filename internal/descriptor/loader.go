package descriptor

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Load reads a descriptor from the given URL or path, inlines external
// mapping-table includes (resolved relative to the descriptor), validates the
// resulting tree and returns the fully resolved specification. Any structural
// violation fails the load.
func Load(ctx context.Context, URL string) (*Specification, error) {
	fs := afs.New()

	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", URL, err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := ResolveIncludes(ctx, spec, baseOf(URL)); err != nil {
		return nil, err
	}

	if diags := Validate(spec); diags.HasErrors() {
		return nil, fmt.Errorf("invalid descriptor %s: %w", URL, diags.Error())
	}

	return spec, nil
}

// Parse parses YAML data into a Specification. Includes are left unresolved
// and no validation is performed; Load is the one-stop entry point.
func Parse(data []byte) (*Specification, error) {
	var spec Specification

	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor YAML: %w", err)
	}

	applyDefaults(&spec)

	return &spec, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(spec *Specification) {
	if spec.Version == "" {
		spec.Version = "1"
	}

	if spec.Identifier.Name == "" {
		spec.Identifier.Name = "identifier"
	}

	for i := range spec.Nodes {
		n := &spec.Nodes[i]
		if n.Name == "" {
			n.Name = n.Graph
		}
	}
}

// ResolveIncludes replaces every Table.Include reference in the tree with the
// table's content, loaded relative to baseURL. A dangling reference fails the
// whole specification.
func ResolveIncludes(ctx context.Context, spec *Specification, baseURL string) error {
	fs := afs.New()

	resolve := func(t *Table, owner string) error {
		if t == nil || t.Include == "" {
			return nil
		}

		ref := joinURL(baseURL, t.Include)

		data, err := fs.DownloadWithURL(ctx, ref)
		if err != nil {
			return fmt.Errorf("node %s: dangling table include %s: %w", owner, t.Include, err)
		}

		values := map[string]string{}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("node %s: invalid table include %s: %w", owner, t.Include, err)
		}

		if t.Values == nil {
			t.Values = values
		} else {
			// Inline entries win over included ones.
			for k, v := range values {
				if _, ok := t.Values[k]; !ok {
					t.Values[k] = v
				}
			}
		}

		t.Include = ""

		return nil
	}

	var walk func(n *Node, owner string) error
	walk = func(n *Node, owner string) error {
		if n == nil {
			return nil
		}

		if err := resolve(n.Mapping, owner); err != nil {
			return err
		}

		if err := resolve(n.GraphMapping, owner); err != nil {
			return err
		}

		return walk(n.Fallback, owner+"/fallback")
	}

	if err := walk(&spec.Identifier, spec.Identifier.Name); err != nil {
		return err
	}

	for i := range spec.Nodes {
		n := &spec.Nodes[i]
		if err := walk(n, n.Name); err != nil {
			return err
		}
	}

	return nil
}

// Marshal serializes a Specification to YAML. Loaded specifications marshal
// fully inlined, so a re-loaded export resolves identically.
func Marshal(spec *Specification) ([]byte, error) {
	return yaml.Marshal(spec)
}

// WriteFile writes a Specification to the given URL or path.
func WriteFile(ctx context.Context, spec *Specification, URL string) error {
	data, err := Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor: %w", err)
	}

	if err := afs.New().Upload(ctx, URL, 0644, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("failed to write descriptor %s: %w", URL, err)
	}

	return nil
}

// baseOf returns the directory portion of a URL or path.
func baseOf(URL string) string {
	if u, err := url.Parse(URL); err == nil && u.Scheme != "" {
		u.Path = path.Dir(u.Path)
		return u.String()
	}

	return path.Dir(URL)
}

// joinURL resolves ref relative to base unless ref is absolute.
func joinURL(base, ref string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}

	if base == "" || base == "." {
		return ref
	}

	return strings.TrimSuffix(base, "/") + "/" + ref
}
