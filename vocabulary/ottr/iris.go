package ottr

// Namespace is the base IRI of the OTTR ontology.
const Namespace = "http://ns.ottr.xyz/0.4/"

// Standard RDF namespaces used by the type system.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Extension is the namespace of terms this module adds to the OTTR
// ontology.
const Extension = "urn:semottr:"

// Definition classes.
const (
	ClassSignature    = Namespace + "Signature"
	ClassBaseTemplate = Namespace + "BaseTemplate"
	ClassTemplate     = Namespace + "Template"
)

// None is the IRI of the explicit absence marker.
const None = Namespace + "none"

// Base template IRIs.
const (
	// Triple is the primitive template producing one RDF triple.
	Triple = Namespace + "Triple"

	// NullableTriple is Triple with an optional object.
	NullableTriple = Namespace + "NullableTriple"
)

// OTTR type IRIs.
const (
	// TypeIRI is the type of all IRI terms.
	TypeIRI = Namespace + "IRI"

	// TypeBot is the bottom type, the type of none.
	TypeBot = Namespace + "Bot"

	// TypeList and TypeNEList are the outer IRIs of the list type constructors.
	TypeList   = Namespace + "List"
	TypeNEList = Namespace + "NEList"

	// TypeLUB is the outer IRI of the least-upper-bound wrapper.
	TypeLUB = Namespace + "LUB"
)

// RDF, RDFS and OWL type IRIs.
const (
	RDFSResource = RDFS + "Resource"
	RDFSLiteral  = RDFS + "Literal"
	RDFSClass    = RDFS + "Class"
	RDFSDatatype = RDFS + "Datatype"

	RDFType       = RDF + "type"
	RDFFirst      = RDF + "first"
	RDFRest       = RDF + "rest"
	RDFNil        = RDF + "nil"
	RDFProperty   = RDF + "Property"
	RDFLangString = RDF + "langString"
	RDFXMLLiteral = RDF + "XMLLiteral"
	RDFHTML       = RDF + "HTML"

	OWLClass              = OWL + "Class"
	OWLRestriction        = OWL + "Restriction"
	OWLNamedIndividual    = OWL + "NamedIndividual"
	OWLObjectProperty     = OWL + "ObjectProperty"
	OWLDatatypeProperty   = OWL + "DatatypeProperty"
	OWLAnnotationProperty = OWL + "AnnotationProperty"
	OWLRational           = OWL + "rational"
	OWLReal               = OWL + "real"
)

// XSD datatype IRIs.
const (
	XSDString             = XSD + "string"
	XSDNormalizedString   = XSD + "normalizedString"
	XSDToken              = XSD + "token"
	XSDLanguage           = XSD + "language"
	XSDName               = XSD + "Name"
	XSDNCName             = XSD + "NCName"
	XSDNMTOKEN            = XSD + "NMTOKEN"
	XSDBoolean            = XSD + "boolean"
	XSDDecimal            = XSD + "decimal"
	XSDInteger            = XSD + "integer"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDUnsignedShort      = XSD + "unsignedShort"
	XSDUnsignedByte       = XSD + "unsignedByte"
	XSDDouble             = XSD + "double"
	XSDFloat              = XSD + "float"
	XSDDate               = XSD + "date"
	XSDDateTime           = XSD + "dateTime"
	XSDDateTimeStamp      = XSD + "dateTimeStamp"
	XSDTime               = XSD + "time"
	XSDDuration           = XSD + "duration"
	XSDGYear              = XSD + "gYear"
	XSDGYearMonth         = XSD + "gYearMonth"
	XSDGMonth             = XSD + "gMonth"
	XSDGMonthDay          = XSD + "gMonthDay"
	XSDGDay               = XSD + "gDay"
	XSDAnyURI             = XSD + "anyURI"
	XSDHexBinary          = XSD + "hexBinary"
	XSDBase64Binary       = XSD + "base64Binary"
)

// InNamespace reports whether iri lies in the OTTR namespace.
func InNamespace(iri string) bool {
	return len(iri) >= len(Namespace) && iri[:len(Namespace)] == Namespace
}
