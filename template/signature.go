package template

import (
	"fmt"
	"strings"

	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Kind distinguishes the Signature variants.
type Kind int

const (
	KindSignature Kind = iota
	KindBase
	KindTemplate
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSignature:
		return "signature"
	case KindBase:
		return "base"
	case KindTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Signature is an IRI with an ordered parameter list. The implementations
// are PlainSignature, BaseTemplate and Template.
type Signature interface {
	IRI() string
	Parameters() []Parameter
	Kind() Kind
	String() string
	isSignature()
}

// PlainSignature declares an interface without a definition.
type PlainSignature struct {
	iri    string
	params []Parameter
}

// NewSignature returns a plain signature.
func NewSignature(iri string, params ...Parameter) PlainSignature {
	return PlainSignature{iri: iri, params: cloneParams(params)}
}

func (s PlainSignature) IRI() string { return s.iri }
func (s PlainSignature) Parameters() []Parameter { return cloneParams(s.params) }
func (PlainSignature) Kind() Kind { return KindSignature }
func (s PlainSignature) String() string { return formatHead(s, ottr.DefaultPrefixes()) + " ." }
func (PlainSignature) isSignature() {}

// BaseTemplate is a primitive signature. Instances of it are never expanded.
type BaseTemplate struct {
	iri    string
	params []Parameter
}

// NewBaseTemplate returns a base template.
func NewBaseTemplate(iri string, params ...Parameter) BaseTemplate {
	return BaseTemplate{iri: iri, params: cloneParams(params)}
}

func (b BaseTemplate) IRI() string { return b.iri }
func (b BaseTemplate) Parameters() []Parameter { return cloneParams(b.params) }
func (BaseTemplate) Kind() Kind { return KindBase }
func (b BaseTemplate) String() string { return formatHead(b, ottr.DefaultPrefixes()) + " :: BASE ." }
func (BaseTemplate) isSignature() {}

// Template is a signature with a body of instances, its pattern.
type Template struct {
	iri     string
	params  []Parameter
	pattern []Instance
}

// NewTemplate returns a template.
func NewTemplate(iri string, params []Parameter, pattern ...Instance) Template {
	p := make([]Instance, len(pattern))
	copy(p, pattern)
	return Template{iri: iri, params: cloneParams(params), pattern: p}
}

func (t Template) IRI() string { return t.iri }
func (t Template) Parameters() []Parameter { return cloneParams(t.params) }
func (Template) Kind() Kind { return KindTemplate }
func (Template) isSignature() {}

// Pattern returns a copy of the body.
func (t Template) Pattern() []Instance {
	out := make([]Instance, len(t.pattern))
	copy(out, t.pattern)
	return out
}

// Dependencies returns the distinct IRIs the body instantiates, in order of
// first occurrence.
func (t Template) Dependencies() []string {
	seen := make(map[string]bool, len(t.pattern))
	var out []string
	for _, inst := range t.pattern {
		if !seen[inst.iri] {
			seen[inst.iri] = true
			out = append(out, inst.iri)
		}
	}
	return out
}

// String renders the template in stOTTR syntax.
func (t Template) String() string { return Format(t, ottr.DefaultPrefixes()) }

// Format renders any signature variant using prefixes.
func Format(sig Signature, prefixes ottr.Prefixes) string {
	head := formatHead(sig, prefixes)
	switch s := sig.(type) {
	case Template:
		if len(s.pattern) == 0 {
			return head + " :: { } ."
		}
		body := make([]string, len(s.pattern))
		for i, inst := range s.pattern {
			body[i] = "  " + inst.Format(prefixes)
		}
		return head + " :: {\n" + strings.Join(body, ",\n") + "\n} ."
	case BaseTemplate:
		return head + " :: BASE ."
	case PlainSignature:
		return head + " ."
	default:
		panic(fmt.Sprintf("template: unknown signature %T", sig))
	}
}

func formatHead(sig Signature, prefixes ottr.Prefixes) string {
	params := sig.Parameters()
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Format(prefixes)
	}
	return prefixes.Shorten(sig.IRI()) + "[" + strings.Join(parts, ", ") + "]"
}

// HasPattern reports whether sig is a template with a non-empty body.
func HasPattern(sig Signature) bool {
	t, ok := sig.(Template)
	return ok && len(t.pattern) > 0
}

// ParametersMatch reports whether a and b are consistent declarations of
// the same interface.
func ParametersMatch(a, b Signature) bool {
	return parametersMatch(a.Parameters(), b.Parameters())
}

// ParameterIndex returns the position of the parameter bound to v, or -1.
func ParameterIndex(sig Signature, v term.Var) int {
	for i, p := range sig.Parameters() {
		if p.Var() == v {
			return i
		}
	}
	return -1
}

func cloneParams(params []Parameter) []Parameter {
	out := make([]Parameter, len(params))
	copy(out, params)
	return out
}
