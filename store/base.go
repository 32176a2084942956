package store

import (
	"github.com/c360studio/semottr/template"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// OTTRBaseTemplates returns the base templates of the OTTR vocabulary:
// ottr:Triple and ottr:NullableTriple, whose object may be none.
func OTTRBaseTemplates() []template.BaseTemplate {
	subject := func() template.Parameter {
		return template.NewParameter(term.NewVariable("subject"), types.IRI)
	}
	predicate := func() template.Parameter {
		return template.NewParameter(term.NewVariable("predicate"), types.IRI, template.NonBlank())
	}
	return []template.BaseTemplate{
		template.NewBaseTemplate(ottr.Triple,
			subject(),
			predicate(),
			template.NewParameter(term.NewVariable("object"), types.Top),
		),
		template.NewBaseTemplate(ottr.NullableTriple,
			subject(),
			predicate(),
			template.NewParameter(term.NewVariable("object"), types.Top, template.Optional()),
		),
	}
}

// AddOTTRBaseTemplates registers the OTTR base templates.
func (s *Store) AddOTTRBaseTemplates() {
	for _, b := range OTTRBaseTemplates() {
		s.AddSignature(b)
	}
}
