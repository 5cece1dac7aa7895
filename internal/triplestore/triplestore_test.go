package triplestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/resolve"
)

func TestLine(t *testing.T) {
	cases := []struct {
		name string
		in   resolve.Triple
		want string
	}{
		{
			"literal",
			resolve.Triple{
				Subject:   "http://ex/r/1",
				Predicate: "http://ex/hasTitle",
				Object:    "Faust",
				Kind:      descriptor.KindLiteral,
			},
			`<http://ex/r/1> <http://ex/hasTitle> "Faust" .`,
		},
		{
			"resource",
			resolve.Triple{
				Subject:   "http://ex/r/1",
				Predicate: "http://ex/hasType",
				Object:    "http://ex/Book",
				Kind:      descriptor.KindResource,
			},
			`<http://ex/r/1> <http://ex/hasType> <http://ex/Book> .`,
		},
		{
			"literal escaping",
			resolve.Triple{
				Subject:   "http://ex/r/1",
				Predicate: "http://ex/hasNote",
				Object:    "say \"hi\"\nback\\slash",
				Kind:      descriptor.KindLiteral,
			},
			`<http://ex/r/1> <http://ex/hasNote> "say \"hi\"\nback\\slash" .`,
		},
		{
			"iri escaping",
			resolve.Triple{
				Subject:   "http://ex/r/a b",
				Predicate: "http://ex/p",
				Object:    "http://ex/<odd>",
				Kind:      descriptor.KindResource,
			},
			`<http://ex/r/a%20b> <http://ex/p> <http://ex/%3Codd%3E> .`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Line(c.in))
		})
	}
}

func TestWriteBatches(t *testing.T) {
	var bodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/n-triples", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	triples := make([]resolve.Triple, 5)
	for i := range triples {
		triples[i] = resolve.Triple{Subject: "http://ex/s", Predicate: "http://ex/p", Object: "o"}
	}

	client := NewClient(srv.URL, 2)
	require.NoError(t, client.Write(context.Background(), triples))

	// 5 triples in batches of 2: 2 + 2 + 1.
	require.Len(t, bodies, 3)
	assert.Equal(t, 2, strings.Count(bodies[0], "\n"))
	assert.Equal(t, 1, strings.Count(bodies[2], "\n"))
}

func TestWriteErrorAborts(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no space left", http.StatusInsufficientStorage)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1)
	err := client.Write(context.Background(), []resolve.Triple{
		{Subject: "s", Predicate: "p", Object: "o"},
		{Subject: "s", Predicate: "p", Object: "o2"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left")
	assert.Equal(t, 1, calls)
}
