// Package export serializes expanded instances as RDF. Instances of
// ottr:Triple and ottr:NullableTriple become triples; list terms become RDF
// collections. Template definitions can be written the same way, described
// with the ottr.* predicates.
package export

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/template"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Triple is one RDF statement. Terms are constants: IRIs, blank nodes or
// literals in object position.
type Triple struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
}

// Triples converts a base instance to the triples it denotes. A none in
// any position yields no triples. Instances of other base templates are
// skipped with a Warning.
func Triples(inst template.Instance) ([]Triple, []diag.Message) {
	switch inst.IRI() {
	case ottr.Triple, ottr.NullableTriple:
	default:
		return nil, []diag.Message{diag.Warningf("instance %s is not an RDF base template, skipped", inst)}
	}
	if inst.Len() != 3 {
		return nil, []diag.Message{diag.Errorf("instance %s: expected 3 arguments, got %d", inst, inst.Len())}
	}
	if inst.HasListExpansion() {
		return nil, []diag.Message{diag.Errorf("instance %s: list expansion was not applied", inst)}
	}

	s, p, o := inst.Arg(0).Term(), inst.Arg(1).Term(), inst.Arg(2).Term()
	for _, t := range []term.Term{s, p, o} {
		if len(term.Variables(t)) > 0 {
			return nil, []diag.Message{diag.Errorf("instance %s has unbound variables", inst)}
		}
	}
	if term.IsNone(s) || term.IsNone(p) || term.IsNone(o) {
		return nil, nil
	}
	if p.Kind() != term.KindIRI {
		return nil, []diag.Message{diag.Errorf("instance %s: predicate must be an IRI", inst)}
	}
	if s.Kind() == term.KindLiteral {
		return nil, []diag.Message{diag.Errorf("instance %s: subject must not be a literal", inst)}
	}

	var out []Triple
	subject, ok := node(s, &out)
	if !ok {
		return nil, []diag.Message{diag.Errorf("instance %s: none inside a list", inst)}
	}
	object, ok := node(o, &out)
	if !ok {
		return nil, []diag.Message{diag.Errorf("instance %s: none inside a list", inst)}
	}
	out = append(out, Triple{Subject: subject, Predicate: p, Object: object})
	return out, nil
}

// node returns the RDF node for t, appending collection triples for lists.
func node(t term.Term, out *[]Triple) (term.Term, bool) {
	list, ok := t.(term.List)
	if !ok {
		return t, !term.IsNone(t)
	}
	items := make([]term.Term, list.Len())
	for i, elem := range list.Elements() {
		value, ok := node(elem, out)
		if !ok {
			return nil, false
		}
		items[i] = value
	}
	return collection(items, out), true
}

// collection appends the rdf:first/rdf:rest cells holding items to out and
// returns the head, rdf:nil when items is empty.
func collection(items []term.Term, out *[]Triple) term.Term {
	end := term.NewIRI(ottr.RDFNil)
	if len(items) == 0 {
		return end
	}

	first, rest := term.NewIRI(ottr.RDFFirst), term.NewIRI(ottr.RDFRest)
	head := term.NewBlank()
	var cell term.Term = head
	for i, item := range items {
		*out = append(*out, Triple{Subject: cell, Predicate: first, Object: item})
		var next term.Term = end
		if i < len(items)-1 {
			next = term.NewBlank()
		}
		*out = append(*out, Triple{Subject: cell, Predicate: rest, Object: next})
		cell = next
	}
	return head
}

// Exporter writes instance streams in one serialization format.
type Exporter struct {
	format   Format
	prefixes ottr.Prefixes
	logger   *slog.Logger
}

// NewExporter creates an exporter for format. Prefixes are used by the
// formats that abbreviate IRIs.
func NewExporter(format Format, prefixes ottr.Prefixes, logger *slog.Logger) (*Exporter, error) {
	if _, ok := GetFormatInfo(format); !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if prefixes == nil {
		prefixes = ottr.DefaultPrefixes()
	}
	return &Exporter{format: format, prefixes: prefixes, logger: logger}, nil
}

// Export drains instances into w. Diagnostics from the stream and from
// triple conversion are returned in the handler; the error reports write
// failures only.
func (e *Exporter) Export(w io.Writer, instances diag.Stream[template.Instance]) (*diag.Handler, error) {
	bw := bufio.NewWriter(w)
	h := diag.NewHandler()

	var write func(template.Instance)
	switch e.format {
	case FormatNTriples:
		write = func(inst template.Instance) {
			triples, msgs := Triples(inst)
			h.Add(msgs...)
			for _, t := range triples {
				writeNTriple(bw, t)
			}
		}
	case FormatTurtle:
		writePrefixes(bw, e.prefixes)
		write = func(inst template.Instance) {
			triples, msgs := Triples(inst)
			h.Add(msgs...)
			for _, t := range triples {
				writeTurtle(bw, t, e.prefixes)
			}
		}
	case FormatStOTTR:
		writePrefixes(bw, e.prefixes)
		write = func(inst template.Instance) {
			fmt.Fprintf(bw, "%s .\n", inst.Format(e.prefixes))
		}
	}

	count := 0
	for r := range instances {
		h.Add(r.Messages()...)
		if inst, ok := r.Get(); ok {
			write(inst)
			count++
		}
	}
	if err := bw.Flush(); err != nil {
		return h, fmt.Errorf("failed to write %s: %w", e.format, err)
	}
	e.logger.Debug("Exported instances", "format", string(e.format), "instances", count, "diagnostics", h.Len())
	return h, nil
}

func writePrefixes(w io.Writer, prefixes ottr.Prefixes) {
	for _, prefix := range prefixes.Names() {
		fmt.Fprintf(w, "@prefix %s: <%s> .\n", prefix, prefixes[prefix])
	}
	fmt.Fprintln(w)
}
