package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatTurtle produces Turtle (.ttl) output, one triple per line.
	FormatTurtle Format = "turtle"

	// FormatStOTTR writes the instances themselves in stOTTR notation.
	FormatStOTTR Format = "stottr"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatStOTTR: {
		Name:        FormatStOTTR,
		MIMEType:    "text/stottr",
		Extension:   ".stottr",
		Description: "stOTTR - Terse instance notation",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// FormatForExtension returns the format written to files with ext.
func FormatForExtension(ext string) (Format, bool) {
	for name, info := range FormatRegistry {
		if strings.EqualFold(info.Extension, ext) {
			return name, true
		}
	}
	return "", false
}

func writeNTriple(w io.Writer, t Triple) {
	fmt.Fprintf(w, "%s %s %s .\n", ntriplesTerm(t.Subject), ntriplesTerm(t.Predicate), ntriplesTerm(t.Object))
}

func ntriplesTerm(t term.Term) string {
	switch x := t.(type) {
	case term.IRI:
		return "<" + x.Identifier() + ">"
	case term.Blank:
		return "_:" + x.Label()
	case term.Literal:
		return literal(x, func(dt string) string { return "<" + dt + ">" })
	default:
		panic(fmt.Sprintf("export: %s term in a triple", t.Kind()))
	}
}

func writeTurtle(w io.Writer, t Triple, prefixes ottr.Prefixes) {
	predicate := turtleTerm(t.Predicate, prefixes)
	if t.Predicate.Identifier() == ottr.RDFType {
		predicate = "a"
	}
	fmt.Fprintf(w, "%s %s %s .\n", turtleTerm(t.Subject, prefixes), predicate, turtleTerm(t.Object, prefixes))
}

func turtleTerm(t term.Term, prefixes ottr.Prefixes) string {
	switch x := t.(type) {
	case term.IRI:
		return qname(x.Identifier(), prefixes)
	case term.Literal:
		return literal(x, func(dt string) string { return qname(dt, prefixes) })
	default:
		return ntriplesTerm(t)
	}
}

// localName matches the local parts written unescaped as prefixed names.
var localName = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_-])?$`)

// qname abbreviates iri when the local part needs no escaping.
func qname(iri string, prefixes ottr.Prefixes) string {
	short := prefixes.Shorten(iri)
	if strings.HasPrefix(short, "<") {
		return short
	}
	_, local, _ := strings.Cut(short, ":")
	if local != "" && !localName.MatchString(local) {
		return "<" + iri + ">"
	}
	return short
}

func literal(l term.Literal, datatype func(string) string) string {
	s := `"` + escapeString(l.Value()) + `"`
	switch {
	case l.Lang() != "":
		return s + "@" + l.Lang()
	case l.Datatype() != ottr.XSDString:
		return s + "^^" + datatype(l.Datatype())
	default:
		return s
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
