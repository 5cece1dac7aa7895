package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

func TestFilter(t *testing.T) {
	v := value.List([]string{"ISBN 123", "ISSN 456", "ISBN 789"})

	kept := Filter(v, "^ISBN")
	assert.Equal(t, []string{"ISBN 123", "ISBN 789"}, kept.Strings())

	// No survivors: absent.
	none := Filter(v, "^DOI")
	assert.True(t, none.IsAbsent())

	// Empty pattern is the identity.
	same := Filter(v, "")
	assert.Equal(t, v.Strings(), same.Strings())
}

func TestMapValues(t *testing.T) {
	table := func(onMiss descriptor.MissPolicy) *descriptor.Table {
		return &descriptor.Table{
			Values:  map[string]string{"Buch": "book"},
			OnMiss:  onMiss,
			Default: "other",
		}
	}

	in := value.List([]string{"Buch", "Karte"})

	// Drop: unmapped values disappear.
	assert.Equal(t, []string{"book"}, MapValues(in, table(descriptor.MissDrop)).Strings())

	// Keep: unmapped values pass through unchanged.
	assert.Equal(t, []string{"book", "Karte"}, MapValues(in, table(descriptor.MissKeep)).Strings())

	// Default: unmapped values substitute the default literal.
	assert.Equal(t, []string{"book", "other"}, MapValues(in, table(descriptor.MissDefault)).Strings())

	// Everything dropped but policy is default: one default entry survives.
	missesOnly := value.List([]string{"Karte"})
	assert.Equal(t, []string{"other"}, MapValues(missesOnly, table(descriptor.MissDefault)).Strings())

	// Everything dropped under drop policy: absent.
	assert.True(t, MapValues(missesOnly, table(descriptor.MissDrop)).IsAbsent())

	// Scalar input is a singleton.
	assert.Equal(t, []string{"book"}, MapValues(value.Str("Buch"), table(descriptor.MissDrop)).Strings())
}

func TestDecorate(t *testing.T) {
	n := &descriptor.Node{
		Cut:     `\s*\(.*\)$`,
		Prepend: "http://example.org/title/",
		Append:  "#about",
	}

	v := Decorate(value.List([]string{"Faust (Teil 1)"}), n, nil)
	assert.Equal(t, []string{"http://example.org/title/Faust#about"}, v.Strings())
}

func TestDecorateCutReplace(t *testing.T) {
	n := &descriptor.Node{Cut: `-`, Replace: " "}

	v := Decorate(value.Str("eine-kleine-nachtmusik"), n, nil)
	assert.Equal(t, []string{"eine kleine nachtmusik"}, v.Strings())
}

func TestDecorateFeedsSaveAs(t *testing.T) {
	store := NewSaveAs()
	n := &descriptor.Node{Prepend: "p-", SaveAs: "seen"}

	Decorate(value.List([]string{"a", "b"}), n, store)
	assert.Equal(t, []string{"p-a", "p-b"}, store.Values("seen"))
}

func TestTransformOrder(t *testing.T) {
	// filter → map → cut/replace → prepend/append, in that fixed order:
	// the match pattern sees raw values, the cut pattern sees mapped ones.
	n := &descriptor.Node{
		Match: "^B",
		Mapping: &descriptor.Table{
			Values: map[string]string{"Buch": "book-x"},
			OnMiss: descriptor.MissDrop,
		},
		Cut:     `-x$`,
		Prepend: "<",
		Append:  ">",
	}

	v := Transform(value.List([]string{"Buch", "Karte"}), n, nil)
	assert.Equal(t, []string{"<book>"}, v.Strings())
}

func TestTransformAbsentPassesThrough(t *testing.T) {
	n := &descriptor.Node{Prepend: "p-"}

	assert.True(t, Transform(value.None(), n, nil).IsAbsent())
	assert.Equal(t, value.Empty, Transform(value.EmptyPresent(), n, nil).Kind)
}
