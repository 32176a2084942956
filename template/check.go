package template

import (
	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
)

// Lookup resolves a template IRI to its registered signature.
type Lookup func(iri string) (Signature, bool)

// Check reports problems in a template definition: duplicate or unused
// parameters, invalid defaults, invalid body instances, calls of unknown
// signatures, arity mismatches and argument types incompatible with the
// called parameter.
func Check(tpl Template, lookup Lookup) []diag.Message {
	var msgs []diag.Message
	declared := make(map[term.Var]Parameter, len(tpl.params))
	for _, p := range tpl.params {
		if _, dup := declared[p.Var()]; dup {
			msgs = append(msgs, diag.Errorf("template %s: duplicate parameter %s", tpl.iri, p.Var()))
			continue
		}
		declared[p.Var()] = p
		for _, m := range p.Validate() {
			msgs = append(msgs, prefixed(tpl.iri, m))
		}
	}

	used := make(map[term.Var]bool, len(declared))
	for _, inst := range tpl.pattern {
		for _, m := range inst.Validate() {
			msgs = append(msgs, prefixed(tpl.iri, m))
		}
		for _, a := range inst.args {
			for _, v := range term.Variables(a.term) {
				if _, ok := declared[v]; !ok {
					msgs = append(msgs, diag.Errorf("template %s: variable %s in %s is not a parameter", tpl.iri, v, inst))
				}
				used[v] = true
			}
		}

		callee, ok := lookup(inst.iri)
		if !ok {
			msgs = append(msgs, diag.Warningf("template %s: instance %s refers to unknown template %s", tpl.iri, inst, inst.iri))
			continue
		}
		params := callee.Parameters()
		if len(params) != len(inst.args) {
			msgs = append(msgs, diag.Errorf("template %s: instance %s has %d arguments, %s takes %d",
				tpl.iri, inst, len(inst.args), inst.iri, len(params)))
			continue
		}
		for n, a := range inst.args {
			got, ok := argumentType(a, declared)
			if !ok {
				continue
			}
			if !accepts(params[n].typ, got) {
				msgs = append(msgs, diag.Errorf("template %s: argument %d of %s has type %s, incompatible with %s",
					tpl.iri, n+1, inst, got, params[n].typ))
			}
		}
	}

	// A duplicated parameter is reported once.
	for _, p := range tpl.params {
		if !used[p.Var()] {
			msgs = append(msgs, diag.Warningf("template %s: parameter %s is never used", tpl.iri, p.Var()))
			used[p.Var()] = true
		}
	}
	return msgs
}

// argumentType is the type an argument contributes to the called parameter.
// Parameter variables take their declared type; marked arguments contribute
// their element type. Lists mixing variables are not checked.
func argumentType(a Argument, declared map[term.Var]Parameter) (types.Type, bool) {
	var t types.Type
	if v, ok := term.VarOf(a.term); ok {
		p, ok := declared[v]
		if !ok {
			return nil, false
		}
		t = p.typ
	} else {
		if len(term.Variables(a.term)) > 0 {
			return nil, false
		}
		t = a.term.Type()
	}
	if !a.listExpander {
		return t, true
	}
	return types.ListInner(t)
}

func prefixed(iri string, m diag.Message) diag.Message {
	m.Text = "template " + iri + ": " + m.Text
	return m
}
