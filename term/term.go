// Package term implements OTTR terms: IRIs, literals, blank nodes, lists and
// the none marker. Terms are immutable values; the With* helpers return
// modified copies.
package term

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/c360studio/semottr/types"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Kind names the variant of a term.
type Kind int

const (
	KindIRI Kind = iota
	KindLiteral
	KindBlank
	KindList
	KindNone
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	case KindList:
		return "list"
	case KindNone:
		return "none"
	default:
		return "unknown"
	}
}

// Term is a template argument or parameter placeholder. The implementations
// are IRI, Literal, Blank, List and None.
type Term interface {
	Kind() Kind
	// Identifier is the IRI, lexical value or blank label. Lists and none
	// have an empty identifier.
	Identifier() string
	// Type is the intrinsic type, or the declared type once the term has
	// been bound to a parameter.
	Type() types.Type
	// IsVariable reports whether this occurrence is a placeholder.
	IsVariable() bool
	String() string
	isTerm()
}

// IRI is an IRI term.
type IRI struct {
	iri      string
	variable bool
	typ      types.Type
}

// NewIRI returns a constant IRI term of type LUB<ottr:IRI>.
func NewIRI(iri string) IRI {
	return IRI{iri: iri, typ: types.LUBIRI}
}

func (t IRI) Kind() Kind { return KindIRI }
func (t IRI) Identifier() string { return t.iri }
func (t IRI) Type() types.Type { return t.typ }
func (t IRI) IsVariable() bool { return t.variable }
func (t IRI) String() string { return Format(t, defaultPrefixes) }
func (IRI) isTerm() {}

// Literal is an RDF literal. Datatype and language tag are mutually
// exclusive; a literal carrying both is reported by Validate.
type Literal struct {
	value    string
	datatype string
	lang     string
	variable bool
	typ      types.Type
}

// NewLiteral returns a literal with an explicit datatype and language tag.
// Either may be empty.
func NewLiteral(value, datatype, lang string) Literal {
	l := Literal{value: value, datatype: datatype, lang: lang}
	l.typ = types.NewLUB(literalType(datatype, lang))
	return l
}

// NewPlainLiteral returns an xsd:string literal.
func NewPlainLiteral(value string) Literal {
	return NewLiteral(value, "", "")
}

// NewTypedLiteral returns a literal with the given datatype.
func NewTypedLiteral(value, datatype string) Literal {
	return NewLiteral(value, datatype, "")
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) Literal {
	return NewLiteral(value, "", lang)
}

func literalType(datatype, lang string) types.Basic {
	switch {
	case datatype == "" && lang != "":
		return types.LangString
	case datatype == "":
		return types.String
	}
	if b, ok := types.Lookup(datatype); ok {
		return b
	}
	return types.Literal
}

// Value returns the lexical value.
func (t Literal) Value() string { return t.value }

// Datatype returns the datatype IRI. Plain literals report xsd:string and
// language-tagged literals rdf:langString.
func (t Literal) Datatype() string {
	switch {
	case t.datatype != "":
		return t.datatype
	case t.lang != "":
		return ottr.RDFLangString
	default:
		return ottr.XSDString
	}
}

// Lang returns the language tag, if any.
func (t Literal) Lang() string { return t.lang }

// ExplicitDatatype returns the datatype exactly as given at construction.
func (t Literal) ExplicitDatatype() string { return t.datatype }

func (t Literal) Kind() Kind { return KindLiteral }
func (t Literal) Identifier() string { return t.value }
func (t Literal) Type() types.Type { return t.typ }
func (t Literal) IsVariable() bool { return t.variable }
func (t Literal) String() string { return Format(t, defaultPrefixes) }
func (Literal) isTerm() {}

// Blank is a blank node. Two blank nodes are the same term exactly when they
// share a label.
type Blank struct {
	label    string
	variable bool
	typ      types.Type
}

// NewBlank returns a blank node with a fresh label.
func NewBlank() Blank {
	return NewBlankLabel(uuid.New().String())
}

// NewBlankLabel returns a blank node with the given label.
func NewBlankLabel(label string) Blank {
	return Blank{label: label, typ: types.LUBTop}
}

// NewVariable returns a blank-node variable, the usual parameter placeholder.
func NewVariable(label string) Blank {
	b := NewBlankLabel(label)
	b.variable = true
	return b
}

// Label returns the blank node label.
func (t Blank) Label() string { return t.label }

func (t Blank) Kind() Kind { return KindBlank }
func (t Blank) Identifier() string { return t.label }
func (t Blank) Type() types.Type { return t.typ }
func (t Blank) IsVariable() bool { return t.variable }
func (t Blank) String() string { return Format(t, defaultPrefixes) }
func (Blank) isTerm() {}

// List is an ordered list of terms.
type List struct {
	elements []Term
	variable bool
	typ      types.Type
}

// NewList returns a list term. Its type is NEList of the join of the element
// types, or List<ottr:Bot> when empty.
func NewList(elements ...Term) List {
	elems := make([]Term, len(elements))
	copy(elems, elements)
	return List{elements: elems, typ: listType(elems)}
}

func listType(elems []Term) types.Type {
	if len(elems) == 0 {
		return types.NewList(types.Bot)
	}
	inner := elems[0].Type()
	for _, e := range elems[1:] {
		inner = types.Join(inner, e.Type())
	}
	return types.NewNEList(inner)
}

// Len returns the number of elements.
func (t List) Len() int { return len(t.elements) }

// At returns the i-th element.
func (t List) At(i int) Term { return t.elements[i] }

// Elements returns a copy of the elements.
func (t List) Elements() []Term {
	out := make([]Term, len(t.elements))
	copy(out, t.elements)
	return out
}

func (t List) Kind() Kind { return KindList }
func (t List) Identifier() string { return "" }
func (t List) Type() types.Type { return t.typ }
func (t List) IsVariable() bool { return t.variable }
func (t List) String() string { return Format(t, defaultPrefixes) }
func (List) isTerm() {}

// None is the explicit absence marker.
type None struct {
	variable bool
}

// NewNone returns the none term.
func NewNone() None { return None{} }

func (t None) Kind() Kind { return KindNone }
func (t None) Identifier() string { return "" }
func (t None) Type() types.Type { return types.Bot }
func (t None) IsVariable() bool { return t.variable }
func (t None) String() string { return Format(t, defaultPrefixes) }
func (None) isTerm() {}

// IsNone reports whether t is the none marker, either as a None term or as
// the ottr:none IRI.
func IsNone(t Term) bool {
	switch x := t.(type) {
	case None:
		return true
	case IRI:
		return x.iri == ottr.None && !x.variable
	default:
		return false
	}
}

// WithVariable returns a copy of t with the variable flag set to variable.
func WithVariable(t Term, variable bool) Term {
	switch x := t.(type) {
	case IRI:
		x.variable = variable
		return x
	case Literal:
		x.variable = variable
		return x
	case Blank:
		x.variable = variable
		return x
	case List:
		x.variable = variable
		return x
	case None:
		x.variable = variable
		return x
	default:
		panic(fmt.Sprintf("term: unknown term %T", t))
	}
}

// WithType returns a copy of t carrying typ. None always keeps ottr:Bot.
func WithType(t Term, typ types.Type) Term {
	if typ == nil {
		panic("term: WithType with nil type")
	}
	switch x := t.(type) {
	case IRI:
		x.typ = typ
		return x
	case Literal:
		x.typ = typ
		return x
	case Blank:
		x.typ = typ
		return x
	case List:
		x.typ = typ
		return x
	case None:
		return x
	default:
		panic(fmt.Sprintf("term: unknown term %T", t))
	}
}

// VariableType is the type a variable takes from its term alone: the term
// type with every LUB removed. An IRI variable defaults to ottr:IRI.
func VariableType(t Term) types.Type {
	return types.RemoveLUB(t.Type())
}

// Equal reports whether a and b are the same term. Types are annotations
// and are not compared; the variable flag is.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.IsVariable() != b.IsVariable() {
		return false
	}
	switch x := a.(type) {
	case IRI:
		return x.iri == b.(IRI).iri
	case Literal:
		y := b.(Literal)
		return x.value == y.value && x.Datatype() == y.Datatype() && x.lang == y.lang
	case Blank:
		return x.label == b.(Blank).label
	case List:
		y := b.(List)
		if len(x.elements) != len(y.elements) {
			return false
		}
		for i := range x.elements {
			if !Equal(x.elements[i], y.elements[i]) {
				return false
			}
		}
		return true
	case None:
		return true
	default:
		panic(fmt.Sprintf("term: unknown term %T", a))
	}
}
