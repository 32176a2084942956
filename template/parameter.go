// Package template holds the OTTR signature, template and instance model,
// their validation, and the substitution machinery used to instantiate a
// template body.
package template

import (
	"fmt"
	"strings"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Parameter is a typed placeholder in a signature.
type Parameter struct {
	variable term.Term
	typ      types.Type
	optional bool
	nonBlank bool
	def      term.Term
}

// ParameterOption configures a Parameter.
type ParameterOption func(*Parameter)

// Optional marks the parameter as accepting none.
func Optional() ParameterOption {
	return func(p *Parameter) { p.optional = true }
}

// NonBlank forbids blank-node arguments.
func NonBlank() ParameterOption {
	return func(p *Parameter) { p.nonBlank = true }
}

// Default sets the value bound when the argument is none.
func Default(value term.Term) ParameterOption {
	return func(p *Parameter) { p.def = value }
}

// NewParameter returns a parameter for the given placeholder. The
// placeholder must be an IRI or blank node and NewParameter panics
// otherwise; callers holding unchecked input use ParameterFrom. A nil typ
// means the placeholder's own variable type.
func NewParameter(placeholder term.Term, typ types.Type, opts ...ParameterOption) Parameter {
	p, ok := ParameterFrom(placeholder, typ, opts...).Get()
	if !ok {
		panic(fmt.Sprintf("template: parameter placeholder must be an IRI or blank node, got %s", placeholder.Kind()))
	}
	return p
}

// ParameterFrom is NewParameter for unchecked input: an unusable
// placeholder yields an absent result with an Error.
func ParameterFrom(placeholder term.Term, typ types.Type, opts ...ParameterOption) diag.Result[Parameter] {
	v := term.WithVariable(placeholder, true)
	if _, ok := term.VarOf(v); !ok {
		return diag.Empty[Parameter](diag.Errorf("parameter placeholder %s must be an IRI or blank node, got %s",
			placeholder, placeholder.Kind()))
	}
	if typ == nil {
		typ = term.VariableType(placeholder)
	}
	p := Parameter{typ: typ}
	for _, opt := range opts {
		opt(&p)
	}
	p.variable = term.WithType(v, typ)
	return diag.Of(p)
}

// Term returns the placeholder variable carrying the declared type.
func (p Parameter) Term() term.Term { return p.variable }

// Var returns the identity substitutions bind.
func (p Parameter) Var() term.Var {
	v, _ := term.VarOf(p.variable)
	return v
}

// Type returns the declared type.
func (p Parameter) Type() types.Type { return p.typ }

// IsOptional reports whether none is an acceptable argument.
func (p Parameter) IsOptional() bool { return p.optional }

// IsNonBlank reports whether blank-node arguments are rejected.
func (p Parameter) IsNonBlank() bool { return p.nonBlank }

// Default returns the default value, if any.
func (p Parameter) Default() (term.Term, bool) { return p.def, p.def != nil }

// Validate reports a default whose type is incompatible with the declared
// type.
func (p Parameter) Validate() []diag.Message {
	if p.def == nil {
		return nil
	}
	if !types.IsCompatibleWith(p.def.Type(), p.typ) {
		return []diag.Message{diag.Errorf(
			"parameter %s: default value %s of type %s is incompatible with declared type %s",
			p.Var(), p.def, p.def.Type(), p.typ)}
	}
	return nil
}

// String renders the parameter as in stOTTR, e.g. "! ? xsd:int ?x = 1".
func (p Parameter) String() string {
	return p.Format(ottr.DefaultPrefixes())
}

// Format renders the parameter using prefixes.
func (p Parameter) Format(prefixes ottr.Prefixes) string {
	var parts []string
	if p.nonBlank {
		parts = append(parts, "!")
	}
	if p.optional {
		parts = append(parts, "?")
	}
	parts = append(parts, formatType(p.typ, prefixes), term.Format(p.variable, prefixes))
	s := strings.Join(parts, " ")
	if p.def != nil {
		s += " = " + term.Format(p.def, prefixes)
	}
	return s
}

func formatType(t types.Type, prefixes ottr.Prefixes) string {
	switch x := t.(type) {
	case types.Basic:
		return prefixes.Shorten(x.IRI())
	case types.List:
		return "List<" + formatType(x.Inner(), prefixes) + ">"
	case types.NEList:
		return "NEList<" + formatType(x.Inner(), prefixes) + ">"
	case types.LUB:
		return "LUB<" + formatType(x.Inner(), prefixes) + ">"
	default:
		panic(fmt.Sprintf("template: unknown type %T", t))
	}
}

// parametersMatch reports whether two parameter lists describe the same
// interface: equal length and, pairwise, equal flags, compatible types and
// equal defaults.
func parametersMatch(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.optional != y.optional || x.nonBlank != y.nonBlank {
			return false
		}
		if !types.IsCompatibleWith(x.typ, y.typ) {
			return false
		}
		if (x.def == nil) != (y.def == nil) {
			return false
		}
		if x.def != nil && !term.Equal(x.def, y.def) {
			return false
		}
	}
	return true
}
