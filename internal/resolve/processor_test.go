package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-triplifier/internal/descriptor"
)

func specFixture() *descriptor.Specification {
	return &descriptor.Specification{
		Identifier: descriptor.Node{
			Name:   "identifier",
			Source: descriptor.SourceDict,
			Field:  "id",
		},
		Nodes: []descriptor.Node{
			{
				Name:     "title",
				Source:   descriptor.SourceDict,
				Field:    "title",
				Graph:    "hasTitle",
				Kind:     descriptor.KindLiteral,
				Required: descriptor.Mandatory,
			},
			{
				Name:   "author",
				Source: descriptor.SourceDict,
				Field:  "author",
				Graph:  "hasAuthor",
			},
		},
	}
}

func TestProcessSimpleRecord(t *testing.T) {
	p := NewProcessor(specFixture(), Config{}, NewSaveAs())

	rec := map[string]any{"id": "123", "title": "Faust", "author": []any{"Goethe"}}

	res, err := p.Process(rec, "http://example.org/record/")
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)

	assert.Equal(t, []Triple{
		{
			Subject:   "http://example.org/record/123",
			Predicate: "hasTitle",
			Object:    "Faust",
			Kind:      descriptor.KindLiteral,
		},
		{
			Subject:   "http://example.org/record/123",
			Predicate: "hasAuthor",
			Object:    "Goethe",
			Kind:      descriptor.KindLiteral,
		},
	}, res.Triples)
}

func TestProcessMandatoryFailure(t *testing.T) {
	p := NewProcessor(specFixture(), Config{}, NewSaveAs())

	// Title is mandatory and missing: the whole record aborts, no partial
	// triples even though author would resolve.
	rec := map[string]any{"id": "123", "author": "Goethe"}

	res, err := p.Process(rec, "pfx/")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMandatory)

	var mf *MandatoryFailureError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "title", mf.Node)
}

func TestProcessAmbiguousIdentifier(t *testing.T) {
	p := NewProcessor(specFixture(), Config{}, NewSaveAs())

	// Zero identifier values.
	_, err := p.Process(map[string]any{"title": "Faust"}, "pfx/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousIdentifier)

	// More than one identifier value.
	_, err = p.Process(map[string]any{"id": []any{"1", "2"}, "title": "Faust"}, "pfx/")
	require.Error(t, err)

	var amb *AmbiguousIdentifierError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, 2, amb.Count)
}

func TestProcessEmptySuccess(t *testing.T) {
	spec := specFixture()
	spec.Nodes[0].Required = descriptor.Optional

	p := NewProcessor(spec, Config{}, NewSaveAs())

	res, err := p.Process(map[string]any{"id": "123"}, "pfx/")
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Empty(t, res.Triples)
}

func TestProcessGraphFieldRouting(t *testing.T) {
	spec := &descriptor.Specification{
		Identifier: descriptor.Node{Source: descriptor.SourceDict, Field: "id"},
		Nodes: []descriptor.Node{
			{
				Name:       "typed-title",
				Source:     descriptor.SourceDict,
				Field:      "title",
				Graph:      "hasTitle",
				Kind:       descriptor.KindResource,
				GraphField: "type",
				GraphMapping: &descriptor.Table{
					Values: map[string]string{"book": "http://example.org/Book"},
				},
			},
		},
	}

	p := NewProcessor(spec, Config{}, NewSaveAs())

	res, err := p.Process(map[string]any{"id": "1", "title": "X", "type": "book"}, "pfx/")
	require.NoError(t, err)

	require.Len(t, res.Triples, 1)
	assert.Equal(t, "http://example.org/Book", res.Triples[0].Predicate)
	assert.Equal(t, "X", res.Triples[0].Object)
	assert.Equal(t, descriptor.KindResource, res.Triples[0].Kind)
}

func TestProcessTaggedRecord(t *testing.T) {
	spec := &descriptor.Specification{
		Identifier: descriptor.Node{Source: descriptor.SourceDict, Field: "id"},
		Nodes: []descriptor.Node{
			{
				Name:   "marc-title",
				Source: descriptor.SourceMARC,
				Field:  "245:a",
				Graph:  "hasTitle",
			},
		},
	}

	p := NewProcessor(spec, Config{TaggedField: "fullrecord"}, NewSaveAs())

	raw := buildRawRecord(t, "245", "10\x1faFaust")

	res, err := p.Process(map[string]any{"id": "1", "fullrecord": raw}, "pfx/")
	require.NoError(t, err)
	require.Len(t, res.Triples, 1)
	assert.Equal(t, "Faust", res.Triples[0].Object)
}

func TestProcessMalformedTaggedRecordAborts(t *testing.T) {
	spec := &descriptor.Specification{
		Identifier: descriptor.Node{Source: descriptor.SourceDict, Field: "id"},
		Nodes: []descriptor.Node{
			{Name: "t", Source: descriptor.SourceMARC, Field: "245:a", Graph: "g"},
		},
	}

	p := NewProcessor(spec, Config{TaggedField: "fullrecord"}, NewSaveAs())

	_, err := p.Process(map[string]any{"id": "1", "fullrecord": "garbage"}, "pfx/")
	require.Error(t, err)
}

func TestProcessReplayYieldsIdenticalTriples(t *testing.T) {
	p := NewProcessor(specFixture(), Config{}, NewSaveAs())
	rec := map[string]any{"id": "123", "title": "Faust", "author": []any{"Goethe", "Eckermann"}}

	first, err := p.Process(rec, "pfx/")
	require.NoError(t, err)

	second, err := p.Process(rec, "pfx/")
	require.NoError(t, err)

	assert.Equal(t, first.Triples, second.Triples)
}

func TestProcessFeedsSaveAs(t *testing.T) {
	spec := specFixture()
	spec.Nodes[1].SaveAs = "authors"

	store := NewSaveAs()
	p := NewProcessor(spec, Config{}, store)

	_, err := p.Process(map[string]any{"id": "1", "title": "T", "author": "Goethe"}, "pfx/")
	require.NoError(t, err)
	_, err = p.Process(map[string]any{"id": "2", "title": "T2", "author": "Goethe"}, "pfx/")
	require.NoError(t, err)

	assert.Equal(t, []string{"Goethe", "Goethe"}, store.Values("authors"))

	store.Dedup()
	assert.Equal(t, []string{"Goethe"}, store.Values("authors"))
}

// buildRawRecord assembles a one-field ISO 2709 record string.
func buildRawRecord(t *testing.T, tag, data string) string {
	t.Helper()

	body := data + "\x1e"
	dir := tag + leftPad(len(body), 4) + "00000" + "\x1e"
	base := 24 + len(dir)
	total := base + len(body) + 1

	return leftPad(total, 5) + "nam a22" + leftPad(base, 5) + " a 4500" + dir + body + "\x1d"
}

func leftPad(n, width int) string {
	s := ""
	for v := n; v > 0; v /= 10 {
		s = string(rune('0'+v%10)) + s
	}

	for len(s) < width {
		s = "0" + s
	}

	return s
}
