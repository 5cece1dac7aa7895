// Package triplestore serializes resolved triples as N-Triples lines and
// ships them to a graph-store HTTP endpoint in batches.
package triplestore

import (
	"strings"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/resolve"
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

var iriEscaper = strings.NewReplacer(
	"<", "%3C",
	">", "%3E",
	`"`, "%22",
	" ", "%20",
	"\n", "",
	"\r", "",
)

// Line renders one triple as an N-Triples statement. Resource-kind objects
// serialize as IRI references, literal-kind objects as quoted literals.
func Line(t resolve.Triple) string {
	var b strings.Builder

	b.WriteString("<")
	b.WriteString(iriEscaper.Replace(t.Subject))
	b.WriteString("> <")
	b.WriteString(iriEscaper.Replace(t.Predicate))
	b.WriteString("> ")

	if t.Kind == descriptor.KindResource {
		b.WriteString("<")
		b.WriteString(iriEscaper.Replace(t.Object))
		b.WriteString(">")
	} else {
		b.WriteString(`"`)
		b.WriteString(literalEscaper.Replace(t.Object))
		b.WriteString(`"`)
	}

	b.WriteString(" .")

	return b.String()
}

// Document renders a triple list as one N-Triples document.
func Document(triples []resolve.Triple) string {
	var b strings.Builder

	for _, t := range triples {
		b.WriteString(Line(t))
		b.WriteString("\n")
	}

	return b.String()
}
