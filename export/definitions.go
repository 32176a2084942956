package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/c360studio/semstreams/vocabulary"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/template"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Definitions describes sig as triples using the registered ottr.*
// predicates: its class, content fingerprint, parameter list and, for
// templates, one node per body instance. Parameter variables become blank
// nodes scoped to the definition. A predicate without a registered IRI is
// an Error and yields no triples.
func Definitions(sig template.Signature) ([]Triple, []diag.Message) {
	d := describer{subject: term.NewIRI(sig.IRI()), vars: map[term.Var]term.Term{}}

	d.add(d.subject, term.NewIRI(ottr.RDFType), term.NewIRI(classOf(sig)))
	if digest, err := template.Fingerprint(sig); err != nil {
		d.msgs = append(d.msgs, diag.Errorf("definition %s: %v", sig.IRI(), err))
	} else {
		d.describe(d.subject, ottr.TemplateFingerprint, term.NewTypedLiteral(digest.String(), ottr.XSDHexBinary))
	}

	params := sig.Parameters()
	nodes := make([]term.Term, len(params))
	for i, p := range params {
		nodes[i] = d.parameter(p)
	}
	d.describe(d.subject, ottr.TemplateParameters, collection(nodes, &d.out))

	if tpl, ok := sig.(template.Template); ok {
		for _, inst := range tpl.Pattern() {
			d.describe(d.subject, ottr.TemplatePattern, d.instance(inst))
		}
	}

	if d.failed {
		return nil, d.msgs
	}
	return d.out, d.msgs
}

func classOf(sig template.Signature) string {
	switch sig.Kind() {
	case template.KindBase:
		return ottr.ClassBaseTemplate
	case template.KindTemplate:
		return ottr.ClassTemplate
	default:
		return ottr.ClassSignature
	}
}

type describer struct {
	subject term.Term
	out     []Triple
	msgs    []diag.Message
	vars    map[term.Var]term.Term
	missing map[string]bool
	failed  bool
}

func (d *describer) add(s, p, o term.Term) {
	d.out = append(d.out, Triple{Subject: s, Predicate: p, Object: o})
}

// describe adds a triple whose predicate is the IRI registered for name.
func (d *describer) describe(s term.Term, name string, o term.Term) {
	meta := vocabulary.GetPredicateMetadata(name)
	if meta == nil || meta.StandardIRI == "" {
		if !d.missing[name] {
			if d.missing == nil {
				d.missing = map[string]bool{}
			}
			d.missing[name] = true
			d.msgs = append(d.msgs, diag.Errorf("definition %s: predicate %s has no registered IRI", d.subject, name))
		}
		d.failed = true
		return
	}
	d.add(s, term.NewIRI(meta.StandardIRI), o)
}

func (d *describer) parameter(p template.Parameter) term.Term {
	n := term.NewBlank()
	d.describe(n, ottr.ParameterVariable, d.value(p.Term()))
	d.describe(n, ottr.ParameterType, d.typ(p.Type()))
	if p.IsOptional() {
		d.describe(n, ottr.ParameterModifier, term.NewIRI(ottr.Optional))
	}
	if p.IsNonBlank() {
		d.describe(n, ottr.ParameterModifier, term.NewIRI(ottr.NonBlank))
	}
	if def, ok := p.Default(); ok {
		d.describe(n, ottr.ParameterDefault, d.value(def))
	}
	return n
}

func (d *describer) instance(inst template.Instance) term.Term {
	n := term.NewBlank()
	d.describe(n, ottr.InstanceOf, term.NewIRI(inst.IRI()))
	if inst.Expander() != template.NoExpander {
		d.describe(n, ottr.InstanceModifier, term.NewIRI(inst.Expander().IRI()))
	}

	args := inst.Args()
	nodes := make([]term.Term, len(args))
	for i, a := range args {
		an := term.NewBlank()
		d.describe(an, ottr.ArgumentValue, d.value(a.Term()))
		if a.IsListExpander() {
			d.describe(an, ottr.ArgumentModifier, term.NewIRI(ottr.ListExpand))
		}
		nodes[i] = an
	}
	d.describe(n, ottr.InstanceArguments, collection(nodes, &d.out))
	return n
}

// value returns the RDF node for a parameter or argument term. None is
// written as ottr:none.
func (d *describer) value(t term.Term) term.Term {
	if v, ok := term.VarOf(t); ok {
		b, seen := d.vars[v]
		if !seen {
			b = term.NewBlank()
			d.vars[v] = b
		}
		return b
	}
	switch x := t.(type) {
	case term.None:
		return term.NewIRI(ottr.None)
	case term.List:
		elems := x.Elements()
		items := make([]term.Term, len(elems))
		for i, elem := range elems {
			items[i] = d.value(elem)
		}
		return collection(items, &d.out)
	default:
		return term.WithVariable(t, false)
	}
}

// typ writes complex types as a collection of the constructor IRI and its
// argument type, for example (ottr:NEList xsd:string).
func (d *describer) typ(t types.Type) term.Term {
	switch x := t.(type) {
	case types.List:
		return collection([]term.Term{term.NewIRI(x.IRI()), d.typ(x.Inner())}, &d.out)
	case types.NEList:
		return collection([]term.Term{term.NewIRI(x.IRI()), d.typ(x.Inner())}, &d.out)
	case types.LUB:
		return collection([]term.Term{term.NewIRI(x.IRI()), d.typ(x.Inner())}, &d.out)
	default:
		return term.NewIRI(t.IRI())
	}
}

// ExportDefinitions writes the signatures in sigs to w. RDF formats get the
// triples from Definitions; stOTTR gets the signatures in template syntax.
func (e *Exporter) ExportDefinitions(w io.Writer, sigs diag.Stream[template.Signature]) (*diag.Handler, error) {
	bw := bufio.NewWriter(w)
	converted := diag.NewHandler()

	var write func(template.Signature)
	switch e.format {
	case FormatNTriples:
		write = func(sig template.Signature) {
			triples, msgs := Definitions(sig)
			converted.Add(msgs...)
			for _, t := range triples {
				writeNTriple(bw, t)
			}
		}
	case FormatTurtle:
		writePrefixes(bw, e.prefixes)
		write = func(sig template.Signature) {
			triples, msgs := Definitions(sig)
			converted.Add(msgs...)
			for _, t := range triples {
				writeTurtle(bw, t, e.prefixes)
			}
		}
	case FormatStOTTR:
		writePrefixes(bw, e.prefixes)
		write = func(sig template.Signature) {
			fmt.Fprintf(bw, "%s\n\n", template.Format(sig, e.prefixes))
		}
	}

	count := 0
	h := diag.Each(sigs, func(sig template.Signature) {
		write(sig)
		count++
	})
	h.Combine(converted)
	if err := bw.Flush(); err != nil {
		return h, fmt.Errorf("failed to write %s: %w", e.format, err)
	}
	e.logger.Debug("Exported definitions", "format", string(e.format), "definitions", count, "diagnostics", h.Len())
	return h, nil
}
