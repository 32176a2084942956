package template

import (
	"strings"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// ListExpander is the combinator applied to list-expanded arguments.
type ListExpander int

const (
	NoExpander ListExpander = iota
	Cross
	ZipMin
	ZipMax
)

// String returns the stOTTR keyword of the combinator.
func (e ListExpander) String() string {
	switch e {
	case Cross:
		return "cross"
	case ZipMin:
		return "zipMin"
	case ZipMax:
		return "zipMax"
	default:
		return ""
	}
}

// IRI returns the OTTR IRI naming the combinator.
func (e ListExpander) IRI() string {
	switch e {
	case Cross:
		return ottr.Cross
	case ZipMin:
		return ottr.ZipMin
	case ZipMax:
		return ottr.ZipMax
	default:
		return ""
	}
}

// ParseListExpander maps a keyword or OTTR IRI to a combinator.
func ParseListExpander(s string) (ListExpander, bool) {
	switch s {
	case "cross", ottr.Cross:
		return Cross, true
	case "zipMin", ottr.ZipMin:
		return ZipMin, true
	case "zipMax", ottr.ZipMax:
		return ZipMax, true
	default:
		return NoExpander, false
	}
}

// Argument is a term passed to an instance, optionally marked for list
// expansion.
type Argument struct {
	term         term.Term
	listExpander bool
}

// NewArgument returns an unmarked argument.
func NewArgument(t term.Term) Argument {
	return Argument{term: t}
}

// ExpandedArgument returns an argument marked for list expansion.
func ExpandedArgument(t term.Term) Argument {
	return Argument{term: t, listExpander: true}
}

// Term returns the argument value.
func (a Argument) Term() term.Term { return a.term }

// IsListExpander reports whether the argument is marked for expansion.
func (a Argument) IsListExpander() bool { return a.listExpander }

// Validate checks the argument on its own.
func (a Argument) Validate() []diag.Message {
	var msgs []diag.Message
	if iri, ok := a.term.(term.IRI); ok && !iri.IsVariable() && iri.Identifier() != ottr.None && ottr.InNamespace(iri.Identifier()) {
		msgs = append(msgs, diag.Warningf(
			"argument %s is an IRI in the reserved OTTR namespace", a.term))
	}
	if a.listExpander && !a.term.IsVariable() && a.term.Kind() != term.KindList {
		msgs = append(msgs, diag.Errorf(
			"argument %s is marked for list expansion but is neither a variable nor a list", a.term))
	}
	return append(msgs, validateTerm(a.term)...)
}

func validateTerm(t term.Term) []diag.Message {
	switch x := t.(type) {
	case term.Literal:
		if x.ExplicitDatatype() != "" && x.Lang() != "" {
			return []diag.Message{diag.Errorf(
				"literal %q has both datatype %s and language tag %q", x.Value(), x.ExplicitDatatype(), x.Lang())}
		}
	case term.List:
		var msgs []diag.Message
		for _, e := range x.Elements() {
			msgs = append(msgs, validateTerm(e)...)
		}
		return msgs
	}
	return nil
}

// String renders the argument, prefixing marked arguments with "++".
func (a Argument) String() string { return a.Format(ottr.DefaultPrefixes()) }

// Format renders the argument using prefixes.
func (a Argument) Format(prefixes ottr.Prefixes) string {
	s := term.Format(a.term, prefixes)
	if a.listExpander {
		return "++" + s
	}
	return s
}

// Instance is a call of a template with arguments.
type Instance struct {
	iri      string
	args     []Argument
	expander ListExpander
}

// NewInstance returns an instance without a combinator.
func NewInstance(iri string, args ...Argument) Instance {
	a := make([]Argument, len(args))
	copy(a, args)
	return Instance{iri: iri, args: a}
}

// Terms wraps plain terms as unmarked arguments.
func Terms(ts ...term.Term) []Argument {
	args := make([]Argument, len(ts))
	for i, t := range ts {
		args[i] = NewArgument(t)
	}
	return args
}

// WithExpander returns a copy of i using combinator e.
func (i Instance) WithExpander(e ListExpander) Instance {
	i.args = i.Args()
	i.expander = e
	return i
}

// IRI returns the IRI of the instantiated template.
func (i Instance) IRI() string { return i.iri }

// Args returns a copy of the arguments.
func (i Instance) Args() []Argument {
	out := make([]Argument, len(i.args))
	copy(out, i.args)
	return out
}

// Len returns the number of arguments.
func (i Instance) Len() int { return len(i.args) }

// Arg returns the n-th argument.
func (i Instance) Arg(n int) Argument { return i.args[n] }

// Expander returns the combinator.
func (i Instance) Expander() ListExpander { return i.expander }

// HasListExpansion reports whether any argument is marked for expansion.
func (i Instance) HasListExpansion() bool {
	for _, a := range i.args {
		if a.listExpander {
			return true
		}
	}
	return false
}

// Validate checks every argument and the consistency of the combinator
// with the marked arguments.
func (i Instance) Validate() []diag.Message {
	var msgs []diag.Message
	for _, a := range i.args {
		msgs = append(msgs, a.Validate()...)
	}
	if i.expander == NoExpander && i.HasListExpansion() {
		msgs = append(msgs, diag.Errorf(
			"instance %s marks arguments for list expansion but has no list expander", i))
	}
	return msgs
}

// String renders the instance in stOTTR syntax.
func (i Instance) String() string { return i.Format(ottr.DefaultPrefixes()) }

// Format renders the instance using prefixes.
func (i Instance) Format(prefixes ottr.Prefixes) string {
	var sb strings.Builder
	if i.expander != NoExpander {
		sb.WriteString(i.expander.String())
		sb.WriteString(" | ")
	}
	sb.WriteString(prefixes.Shorten(i.iri))
	sb.WriteString("(")
	for n, a := range i.args {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Format(prefixes))
	}
	sb.WriteString(")")
	return sb.String()
}

// EqualInstances reports whether a and b call the same template with equal
// arguments and combinator.
func EqualInstances(a, b Instance) bool {
	if a.iri != b.iri || a.expander != b.expander || len(a.args) != len(b.args) {
		return false
	}
	for n := range a.args {
		if a.args[n].listExpander != b.args[n].listExpander || !term.Equal(a.args[n].term, b.args[n].term) {
			return false
		}
	}
	return true
}
