// Package types implements the OTTR term type system: basic types ordered by
// a fixed subtype lattice, the List and NEList constructors, and the LUB
// wrapper used for the intrinsic types of constant terms.
package types

import (
	"fmt"

	"github.com/c360studio/semottr/vocabulary/ottr"
)

var prefixes = ottr.DefaultPrefixes()

// Type is a term type. The set of implementations is closed: Basic, List,
// NEList and LUB.
type Type interface {
	// IRI returns the IRI of the outermost type constructor.
	IRI() string
	String() string
	isType()
}

// Basic is a named type from the lattice, such as xsd:integer or ottr:IRI.
type Basic struct {
	iri string
}

// NewBasic returns the basic type with the given IRI. IRIs outside the
// built-in lattice are allowed; they relate only to themselves, ottr:Bot and
// rdfs:Resource.
func NewBasic(iri string) Basic {
	return Basic{iri: iri}
}

func (b Basic) IRI() string { return b.iri }
func (b Basic) String() string { return prefixes.Shorten(b.iri) }
func (Basic) isType() {}

// List is the type of possibly empty lists of Inner.
type List struct {
	inner Type
}

// NewList panics when inner is nil.
func NewList(inner Type) List {
	if inner == nil {
		panic("types: List with nil inner type")
	}
	return List{inner: inner}
}

func (l List) Inner() Type { return l.inner }
func (List) IRI() string { return ottr.TypeList }
func (l List) String() string { return "List<" + l.inner.String() + ">" }
func (List) isType() {}

// NEList is the type of non-empty lists of Inner.
type NEList struct {
	inner Type
}

// NewNEList panics when inner is nil.
func NewNEList(inner Type) NEList {
	if inner == nil {
		panic("types: NEList with nil inner type")
	}
	return NEList{inner: inner}
}

func (l NEList) Inner() Type { return l.inner }
func (NEList) IRI() string { return ottr.TypeNEList }
func (l NEList) String() string { return "NEList<" + l.inner.String() + ">" }
func (NEList) isType() {}

// LUB marks the type of an unconstrained term whose bindings must all be
// subtypes of Inner. Only basic types can be wrapped.
type LUB struct {
	inner Basic
}

// NewLUB panics when inner has no IRI.
func NewLUB(inner Basic) LUB {
	if inner.iri == "" {
		panic("types: LUB of empty basic type")
	}
	return LUB{inner: inner}
}

func (l LUB) Inner() Basic { return l.inner }
func (LUB) IRI() string { return ottr.TypeLUB }
func (l LUB) String() string { return "LUB<" + l.inner.String() + ">" }
func (LUB) isType() {}

// Equal reports structural equality.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Basic:
		y, ok := b.(Basic)
		return ok && x.iri == y.iri
	case List:
		y, ok := b.(List)
		return ok && Equal(x.inner, y.inner)
	case NEList:
		y, ok := b.(NEList)
		return ok && Equal(x.inner, y.inner)
	case LUB:
		y, ok := b.(LUB)
		return ok && x.inner.iri == y.inner.iri
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("types: unknown type %T", a))
	}
}

// Depth is the number of nested list constructors. List<List<X>> has depth 2
// and a basic type has depth 0.
func Depth(t Type) int {
	switch x := t.(type) {
	case List:
		return 1 + Depth(x.inner)
	case NEList:
		return 1 + Depth(x.inner)
	default:
		return 0
	}
}

// Innermost returns the basic type at the bottom of any list and LUB nesting.
func Innermost(t Type) Basic {
	switch x := t.(type) {
	case Basic:
		return x
	case List:
		return Innermost(x.inner)
	case NEList:
		return Innermost(x.inner)
	case LUB:
		return x.inner
	default:
		panic(fmt.Sprintf("types: unknown type %T", t))
	}
}

// RemoveLUB strips every LUB wrapper, including those nested in lists. This
// is the default type a variable gets from its term.
func RemoveLUB(t Type) Type {
	switch x := t.(type) {
	case Basic:
		return x
	case List:
		return NewList(RemoveLUB(x.inner))
	case NEList:
		return NewNEList(RemoveLUB(x.inner))
	case LUB:
		return x.inner
	default:
		panic(fmt.Sprintf("types: unknown type %T", t))
	}
}

// IsList reports whether t is a List or NEList type.
func IsList(t Type) bool {
	switch t.(type) {
	case List, NEList:
		return true
	default:
		return false
	}
}

// ListInner returns the element type of a list type.
func ListInner(t Type) (Type, bool) {
	switch x := t.(type) {
	case List:
		return x.inner, true
	case NEList:
		return x.inner, true
	default:
		return nil, false
	}
}
