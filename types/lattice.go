package types

import (
	"fmt"

	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Well-known basic types.
var (
	Top     = NewBasic(ottr.RDFSResource)
	Bot     = NewBasic(ottr.TypeBot)
	IRI     = NewBasic(ottr.TypeIRI)
	Literal = NewBasic(ottr.RDFSLiteral)
	String  = NewBasic(ottr.XSDString)

	LangString = NewBasic(ottr.RDFLangString)

	// LUBTop is the intrinsic type of blank nodes.
	LUBTop = NewLUB(Top)
	// LUBIRI is the intrinsic type of IRI terms.
	LUBIRI = NewLUB(IRI)
)

// supertypes holds the direct supertype of every built-in basic type except
// the top and bottom of the lattice.
var supertypes = map[string]string{
	ottr.TypeIRI:     ottr.RDFSResource,
	ottr.RDFSLiteral: ottr.RDFSResource,

	ottr.RDFSClass:             ottr.TypeIRI,
	ottr.RDFSDatatype:          ottr.RDFSClass,
	ottr.OWLClass:              ottr.RDFSClass,
	ottr.OWLRestriction:        ottr.OWLClass,
	ottr.RDFProperty:           ottr.TypeIRI,
	ottr.OWLObjectProperty:     ottr.RDFProperty,
	ottr.OWLDatatypeProperty:   ottr.RDFProperty,
	ottr.OWLAnnotationProperty: ottr.RDFProperty,
	ottr.OWLNamedIndividual:    ottr.TypeIRI,

	ottr.RDFLangString: ottr.RDFSLiteral,
	ottr.RDFXMLLiteral: ottr.RDFSLiteral,
	ottr.RDFHTML:       ottr.RDFSLiteral,

	ottr.OWLReal:     ottr.RDFSLiteral,
	ottr.OWLRational: ottr.OWLReal,
	ottr.XSDDecimal:  ottr.OWLRational,
	ottr.XSDInteger:  ottr.XSDDecimal,

	ottr.XSDNonNegativeInteger: ottr.XSDInteger,
	ottr.XSDPositiveInteger:    ottr.XSDNonNegativeInteger,
	ottr.XSDUnsignedLong:       ottr.XSDNonNegativeInteger,
	ottr.XSDUnsignedInt:        ottr.XSDUnsignedLong,
	ottr.XSDUnsignedShort:      ottr.XSDUnsignedInt,
	ottr.XSDUnsignedByte:       ottr.XSDUnsignedShort,
	ottr.XSDNonPositiveInteger: ottr.XSDInteger,
	ottr.XSDNegativeInteger:    ottr.XSDNonPositiveInteger,
	ottr.XSDLong:               ottr.XSDInteger,
	ottr.XSDInt:                ottr.XSDLong,
	ottr.XSDShort:              ottr.XSDInt,
	ottr.XSDByte:               ottr.XSDShort,

	ottr.XSDDouble: ottr.RDFSLiteral,
	ottr.XSDFloat:  ottr.RDFSLiteral,

	ottr.XSDString:           ottr.RDFSLiteral,
	ottr.XSDNormalizedString: ottr.XSDString,
	ottr.XSDToken:            ottr.XSDNormalizedString,
	ottr.XSDLanguage:         ottr.XSDToken,
	ottr.XSDName:             ottr.XSDToken,
	ottr.XSDNCName:           ottr.XSDName,
	ottr.XSDNMTOKEN:          ottr.XSDToken,

	ottr.XSDBoolean:       ottr.RDFSLiteral,
	ottr.XSDDate:          ottr.RDFSLiteral,
	ottr.XSDDateTime:      ottr.RDFSLiteral,
	ottr.XSDDateTimeStamp: ottr.XSDDateTime,
	ottr.XSDTime:          ottr.RDFSLiteral,
	ottr.XSDDuration:      ottr.RDFSLiteral,
	ottr.XSDGYear:         ottr.RDFSLiteral,
	ottr.XSDGYearMonth:    ottr.RDFSLiteral,
	ottr.XSDGMonth:        ottr.RDFSLiteral,
	ottr.XSDGMonthDay:     ottr.RDFSLiteral,
	ottr.XSDGDay:          ottr.RDFSLiteral,
	ottr.XSDAnyURI:        ottr.RDFSLiteral,
	ottr.XSDHexBinary:     ottr.RDFSLiteral,
	ottr.XSDBase64Binary:  ottr.RDFSLiteral,
}

// Lookup returns the built-in basic type named by iri.
func Lookup(iri string) (Basic, bool) {
	if iri == ottr.RDFSResource || iri == ottr.TypeBot {
		return NewBasic(iri), true
	}
	if _, ok := supertypes[iri]; ok {
		return NewBasic(iri), true
	}
	return Basic{}, false
}

// Known reports whether b is part of the built-in lattice.
func Known(b Basic) bool {
	_, ok := Lookup(b.iri)
	return ok
}

// ancestors returns b followed by its supertypes up to rdfs:Resource.
func ancestors(b Basic) []string {
	chain := []string{b.iri}
	for iri := b.iri; ; {
		parent, ok := supertypes[iri]
		if !ok {
			break
		}
		chain = append(chain, parent)
		iri = parent
	}
	if chain[len(chain)-1] != ottr.RDFSResource && b.iri != ottr.TypeBot {
		chain = append(chain, ottr.RDFSResource)
	}
	return chain
}

func basicSubType(a, b Basic) bool {
	if a.iri == b.iri || a.iri == ottr.TypeBot {
		return true
	}
	if b.iri == ottr.TypeBot {
		return false
	}
	for _, iri := range ancestors(a) {
		if iri == b.iri {
			return true
		}
	}
	return false
}

// IsSubTypeOf reports whether a is a subtype of b.
//
// Lists are covariant in their element type and NEList<T> is a subtype of
// List<T>. LUB<P> is a subtype of LUB<Q> only when P equals Q, and a subtype
// of every non-LUB supertype of P. ottr:Bot is a subtype of every type.
func IsSubTypeOf(a, b Type) bool {
	if x, ok := a.(Basic); ok && x.iri == ottr.TypeBot {
		return true
	}

	switch x := a.(type) {
	case Basic:
		y, ok := b.(Basic)
		return ok && basicSubType(x, y)
	case List:
		y, ok := b.(List)
		return ok && IsSubTypeOf(x.inner, y.inner)
	case NEList:
		switch y := b.(type) {
		case NEList:
			return IsSubTypeOf(x.inner, y.inner)
		case List:
			return IsSubTypeOf(x.inner, y.inner)
		default:
			return false
		}
	case LUB:
		if y, ok := b.(LUB); ok {
			return x.inner.iri == y.inner.iri
		}
		return IsSubTypeOf(x.inner, b)
	default:
		panic(fmt.Sprintf("types: unknown type %T", a))
	}
}

// IsCompatibleWith reports whether a term of type a can be used where b is
// expected, or the other way round. A LUB side is unwrapped when checking the
// reverse direction, so LUB<ottr:IRI> is compatible with owl:Class.
func IsCompatibleWith(a, b Type) bool {
	if x, ok := a.(LUB); ok {
		return IsSubTypeOf(x, b) || IsSubTypeOf(b, x.inner)
	}
	if y, ok := b.(LUB); ok {
		return IsSubTypeOf(y, a) || IsSubTypeOf(a, y.inner)
	}

	ai, aList := ListInner(a)
	bi, bList := ListInner(b)
	if aList && bList {
		return IsCompatibleWith(ai, bi)
	}
	return IsSubTypeOf(a, b) || IsSubTypeOf(b, a)
}

// Join returns the least common supertype of a and b. LUB wrappers are kept
// when both sides carry one. When no common supertype exists, as between a
// list and a basic type, rdfs:Resource is returned.
func Join(a, b Type) Type {
	if IsSubTypeOf(a, b) {
		return b
	}
	if IsSubTypeOf(b, a) {
		return a
	}

	xl, aLUB := a.(LUB)
	yl, bLUB := b.(LUB)
	if aLUB && bLUB {
		return NewLUB(joinBasic(xl.inner, yl.inner))
	}

	ai, aList := ListInner(a)
	bi, bList := ListInner(b)
	if aList && bList {
		_, aNE := a.(NEList)
		_, bNE := b.(NEList)
		if aNE && bNE {
			return NewNEList(Join(ai, bi))
		}
		return NewList(Join(ai, bi))
	}
	if aList || bList {
		return Top
	}

	return joinBasic(Innermost(a), Innermost(b))
}

func joinBasic(a, b Basic) Basic {
	if basicSubType(a, b) {
		return b
	}
	if basicSubType(b, a) {
		return a
	}
	seen := make(map[string]bool)
	for _, iri := range ancestors(a) {
		seen[iri] = true
	}
	for _, iri := range ancestors(b) {
		if seen[iri] {
			return NewBasic(iri)
		}
	}
	return Top
}
