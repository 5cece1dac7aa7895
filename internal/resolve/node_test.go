package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-triplifier/internal/descriptor"
)

func TestResolveAbsentFieldNoFallback(t *testing.T) {
	n := &descriptor.Node{Source: descriptor.SourceDict, Field: "gone", Graph: "g"}

	pairs, err := Resolve(Input{Flat: map[string]any{"other": "x"}}, n, nil)
	require.NoError(t, err)
	assert.Nil(t, pairs)
}

func TestResolveSimple(t *testing.T) {
	n := &descriptor.Node{Source: descriptor.SourceDict, Field: "title", Graph: "hasTitle"}

	pairs, err := Resolve(Input{Flat: map[string]any{"title": "Faust"}}, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "hasTitle", Value: "Faust"}}, pairs)
}

func TestResolveAlternatives(t *testing.T) {
	n := &descriptor.Node{
		Source:       descriptor.SourceDict,
		Field:        "title",
		Alternatives: descriptor.StringList{"othertitle", "shorttitle"},
		Graph:        "hasTitle",
	}

	pairs, err := Resolve(Input{Flat: map[string]any{"shorttitle": "F."}}, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "hasTitle", Value: "F."}}, pairs)
}

func TestResolveFallbackChain(t *testing.T) {
	n := &descriptor.Node{
		Source: descriptor.SourceDict,
		Field:  "a",
		Graph:  "hasValue",
		Fallback: &descriptor.Node{
			Source: descriptor.SourceDict,
			Field:  "b",
			Fallback: &descriptor.Node{
				Source: descriptor.SourceDict,
				Field:  "c",
				Graph:  "hasOwnGraph",
			},
		},
	}

	// Second link resolves and inherits the parent's graph.
	pairs, err := Resolve(Input{Flat: map[string]any{"b": "vb"}}, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "hasValue", Value: "vb"}}, pairs)

	// Third link declares its own graph.
	pairs, err = Resolve(Input{Flat: map[string]any{"c": "vc"}}, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "hasOwnGraph", Value: "vc"}}, pairs)

	// Nothing resolves: terminal none.
	pairs, err = Resolve(Input{Flat: map[string]any{}}, n, nil)
	require.NoError(t, err)
	assert.Nil(t, pairs)
}

func TestResolveGuardSkipsToFallback(t *testing.T) {
	n := &descriptor.Node{
		Source: descriptor.SourceDict,
		Field:  "title",
		Graph:  "hasTitle",
		Guard:  &descriptor.Guard{Field: "type", Op: "==", Value: "book"},
		Fallback: &descriptor.Node{
			Source:  descriptor.SourceDict,
			Field:   "title",
			Prepend: "untyped/",
		},
	}

	in := Input{Flat: map[string]any{"title": "Faust", "type": "map"}}

	pairs, err := Resolve(in, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "hasTitle", Value: "untyped/Faust"}}, pairs)
}

func TestResolveModePrecedence(t *testing.T) {
	// Graph-field mode pre-empts template mode on the same node.
	n := &descriptor.Node{
		Source:     descriptor.SourceDict,
		Field:      "title",
		Graph:      "hasTitle",
		GraphField: "type",
		GraphMapping: &descriptor.Table{
			Values: map[string]string{"book": "http://example.org/Book"},
		},
		Template: "{} ignored",
	}

	in := Input{Flat: map[string]any{"title": "X", "type": "book"}}

	pairs, err := Resolve(in, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "http://example.org/Book", Value: "X"}}, pairs)
}

func TestResolveDeepChainIterative(t *testing.T) {
	// A pathologically long chain must not recurse the stack away.
	leaf := &descriptor.Node{Source: descriptor.SourceDict, Field: "hit", Graph: "leafGraph"}

	chain := leaf
	for i := 0; i < 50000; i++ {
		chain = &descriptor.Node{
			Source:   descriptor.SourceDict,
			Field:    fmt.Sprintf("miss%d", i),
			Fallback: chain,
		}
	}
	chain.Graph = "rootGraph"

	pairs, err := Resolve(Input{Flat: map[string]any{"hit": "v"}}, chain, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "leafGraph", Value: "v"}}, pairs)
}

func TestResolveNoneSourceOnlyFallback(t *testing.T) {
	n := &descriptor.Node{
		Source: descriptor.SourceNone,
		Graph:  "g",
		Fallback: &descriptor.Node{
			Source: descriptor.SourceDict,
			Field:  "id",
		},
	}

	pairs, err := Resolve(Input{Flat: map[string]any{"id": "1"}}, n, nil)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Graph: "g", Value: "1"}}, pairs)
}

func TestResolveUnknownSourceIsConfigError(t *testing.T) {
	n := &descriptor.Node{Name: "broken", Source: descriptor.Source(42), Field: "f"}

	_, err := Resolve(Input{}, n, nil)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken", cfgErr.Node)
}

func TestResolveReplayIsIdempotent(t *testing.T) {
	n := &descriptor.Node{
		Source:  descriptor.SourceDict,
		Field:   "a",
		Graph:   "g",
		Mapping: &descriptor.Table{Values: map[string]string{"x": "y"}, OnMiss: descriptor.MissKeep},
		Fallback: &descriptor.Node{
			Source: descriptor.SourceDict,
			Field:  "b",
		},
	}

	in := Input{Flat: map[string]any{"b": "x"}}

	first, err := Resolve(in, n, nil)
	require.NoError(t, err)

	second, err := Resolve(in, n, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
