package ottr

import "github.com/c360studio/semstreams/vocabulary"

// Template description predicates. These name the parts of a stored
// definition when it is exported as entity triples.
const (
	// TemplateParameters links a signature to its ordered parameter list.
	TemplateParameters = "ottr.template.parameters"

	// TemplatePattern links a template to its body instances.
	TemplatePattern = "ottr.template.pattern"

	// TemplateFingerprint is the content fingerprint of a definition.
	TemplateFingerprint = "ottr.template.fingerprint"
)

// Parameter predicates.
const (
	// ParameterVariable is the placeholder term of a parameter.
	ParameterVariable = "ottr.parameter.variable"

	// ParameterType is the declared term type of a parameter.
	ParameterType = "ottr.parameter.type"

	// ParameterModifier carries the optional / non-blank modifiers.
	// Values: ottr:optional, ottr:nonBlank
	ParameterModifier = "ottr.parameter.modifier"

	// ParameterDefault is the default value bound when the argument is none.
	ParameterDefault = "ottr.parameter.default"
)

// Instance predicates.
const (
	// InstanceOf names the template an instance calls.
	InstanceOf = "ottr.instance.of"

	// InstanceArguments links an instance to its ordered arguments.
	InstanceArguments = "ottr.instance.arguments"

	// InstanceModifier is the list-expansion combinator of an instance.
	// Values: ottr:cross, ottr:zipMin, ottr:zipMax
	InstanceModifier = "ottr.instance.modifier"
)

// Argument predicates.
const (
	// ArgumentValue is the term passed by an argument.
	ArgumentValue = "ottr.argument.value"

	// ArgumentModifier marks an argument for list expansion.
	// Values: ottr:listExpand
	ArgumentModifier = "ottr.argument.modifier"
)

// Modifier IRIs.
const (
	Optional = Namespace + "optional"
	NonBlank = Namespace + "nonBlank"
	Cross    = Namespace + "cross"
	ZipMin   = Namespace + "zipMin"
	ZipMax   = Namespace + "zipMax"

	ListExpand = Namespace + "listExpand"
)

func init() {
	registerTemplatePredicates()
	registerParameterPredicates()
	registerInstancePredicates()
	registerArgumentPredicates()
}

func registerTemplatePredicates() {
	vocabulary.Register(TemplateParameters,
		vocabulary.WithDescription("Ordered parameter list of a signature"),
		vocabulary.WithDataType("[]string"),
		vocabulary.WithIRI(Namespace+"parameters"))

	vocabulary.Register(TemplatePattern,
		vocabulary.WithDescription("Body instances of a template"),
		vocabulary.WithDataType("[]string"),
		vocabulary.WithIRI(Namespace+"pattern"))

	vocabulary.Register(TemplateFingerprint,
		vocabulary.WithDescription("Content fingerprint of a template definition"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Extension+"fingerprint"))
}

func registerParameterPredicates() {
	vocabulary.Register(ParameterVariable,
		vocabulary.WithDescription("Placeholder term of a parameter"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"variable"))

	vocabulary.Register(ParameterType,
		vocabulary.WithDescription("Declared term type of a parameter"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"type"))

	vocabulary.Register(ParameterModifier,
		vocabulary.WithDescription("Parameter modifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"modifier"))

	vocabulary.Register(ParameterDefault,
		vocabulary.WithDescription("Default value of a parameter"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"default"))
}

func registerInstancePredicates() {
	vocabulary.Register(InstanceOf,
		vocabulary.WithDescription("Template called by an instance"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"of"))

	vocabulary.Register(InstanceArguments,
		vocabulary.WithDescription("Ordered arguments of an instance"),
		vocabulary.WithDataType("[]string"),
		vocabulary.WithIRI(Namespace+"arguments"))

	vocabulary.Register(InstanceModifier,
		vocabulary.WithDescription("List-expansion combinator of an instance"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"modifier"))
}

func registerArgumentPredicates() {
	vocabulary.Register(ArgumentValue,
		vocabulary.WithDescription("Term passed by an argument"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"value"))

	vocabulary.Register(ArgumentModifier,
		vocabulary.WithDescription("Argument modifier"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"modifier"))
}
