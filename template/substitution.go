package template

import (
	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
)

// Substitution maps parameter variables to the terms bound to them. It is
// never modified after Bind returns it.
type Substitution struct {
	bindings map[term.Var]term.Term
}

// Lookup returns the term bound to v.
func (s Substitution) Lookup(v term.Var) (term.Term, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Len returns the number of bindings.
func (s Substitution) Len() int { return len(s.bindings) }

// Apply replaces bound variables in t. Constants and unbound variables are
// left unchanged.
func (s Substitution) Apply(t term.Term) term.Term {
	return term.Substitute(t, s.Lookup)
}

// ApplyInstance returns a new instance with every argument substituted.
// Markers and the combinator are preserved.
func (s Substitution) ApplyInstance(inst Instance) Instance {
	args := make([]Argument, len(inst.args))
	for n, a := range inst.args {
		args[n] = Argument{term: s.Apply(a.term), listExpander: a.listExpander}
	}
	return Instance{iri: inst.iri, args: args, expander: inst.expander}
}

// ApplyPattern instantiates a template body.
func (s Substitution) ApplyPattern(pattern []Instance) []Instance {
	out := make([]Instance, len(pattern))
	for n, inst := range pattern {
		out[n] = s.ApplyInstance(inst)
	}
	return out
}

// Bind pairs params with args positionally. A none argument takes the
// parameter default when there is one and is otherwise only accepted by
// optional parameters. When ok is false the call produces no substitution;
// the messages say why.
func Bind(params []Parameter, args []term.Term) (sub Substitution, msgs []diag.Message, ok bool) {
	if len(params) != len(args) {
		return Substitution{}, []diag.Message{diag.Errorf(
			"expected %d arguments, got %d", len(params), len(args))}, false
	}
	bindings := make(map[term.Var]term.Term, len(params))
	ok = true
	for n, p := range params {
		arg := args[n]
		if term.IsNone(arg) {
			switch {
			case p.def != nil:
				arg = p.def
			case p.optional:
				arg = term.NewNone()
			default:
				msgs = append(msgs, diag.Infof(
					"none given for non-optional parameter %s, instance skipped", p.Var()))
				ok = false
				continue
			}
		}
		if p.nonBlank && arg.Kind() == term.KindBlank && !arg.IsVariable() {
			msgs = append(msgs, diag.Errorf(
				"blank node %s given for non-blank parameter %s", arg, p.Var()))
			ok = false
			continue
		}
		if !arg.IsVariable() && !accepts(p.typ, arg.Type()) {
			msgs = append(msgs, diag.Errorf(
				"argument %s of type %s is incompatible with parameter %s of type %s",
				arg, arg.Type(), p.Var(), p.typ))
			ok = false
			continue
		}
		bindings[p.Var()] = arg
	}
	if !ok {
		return Substitution{}, msgs, false
	}
	return Substitution{bindings: bindings}, msgs, true
}

// ArgumentVectors applies the instance combinator to its marked arguments
// and returns one argument vector per combination. Without marked
// arguments the single vector is the instance's own arguments. A marked
// argument that is not a list is an Error and yields no vectors.
func ArgumentVectors(inst Instance) ([][]term.Term, []diag.Message) {
	base := make([]term.Term, len(inst.args))
	var marked []int
	for n, a := range inst.args {
		base[n] = a.term
		if a.listExpander {
			marked = append(marked, n)
		}
	}
	if len(marked) == 0 {
		return [][]term.Term{base}, nil
	}
	if inst.expander == NoExpander {
		return nil, []diag.Message{diag.Errorf(
			"instance %s marks arguments for list expansion but has no list expander", inst)}
	}

	lists := make([][]term.Term, len(marked))
	for k, n := range marked {
		l, ok := base[n].(term.List)
		if !ok {
			return nil, []diag.Message{diag.Errorf(
				"instance %s: argument %d marked for list expansion is not a list: %s", inst, n+1, base[n])}
		}
		lists[k] = l.Elements()
	}

	tuples := Combine(inst.expander, lists)
	vectors := make([][]term.Term, len(tuples))
	for t, tuple := range tuples {
		v := make([]term.Term, len(base))
		copy(v, base)
		for k, n := range marked {
			v[n] = tuple[k]
		}
		vectors[t] = v
	}
	return vectors, nil
}

// Combine builds the element tuples the combinator e selects from lists.
// Cross is the Cartesian product, ZipMin zips to the shortest list and
// ZipMax zips to the longest, padding with none.
func Combine(e ListExpander, lists [][]term.Term) [][]term.Term {
	switch e {
	case Cross:
		return cross(lists)
	case ZipMin, ZipMax:
		return zip(lists, e == ZipMax)
	default:
		return nil
	}
}

func cross(lists [][]term.Term) [][]term.Term {
	out := [][]term.Term{{}}
	for _, l := range lists {
		next := make([][]term.Term, 0, len(out)*len(l))
		for _, prefix := range out {
			for _, e := range l {
				tuple := make([]term.Term, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, e))
			}
		}
		out = next
	}
	return out
}

func zip(lists [][]term.Term, longest bool) [][]term.Term {
	if len(lists) == 0 {
		return nil
	}
	n := len(lists[0])
	for _, l := range lists[1:] {
		if (longest && len(l) > n) || (!longest && len(l) < n) {
			n = len(l)
		}
	}
	out := make([][]term.Term, n)
	for i := range out {
		tuple := make([]term.Term, len(lists))
		for k, l := range lists {
			if i < len(l) {
				tuple[k] = l[i]
			} else {
				tuple[k] = term.NewNone()
			}
		}
		out[i] = tuple
	}
	return out
}

// Instantiate returns the body of tpl instantiated for inst, one copy per
// argument vector that binds. Messages from every vector are collected.
func Instantiate(tpl Template, inst Instance) ([]Instance, []diag.Message) {
	vectors, msgs := ArgumentVectors(inst)
	var out []Instance
	for _, v := range vectors {
		sub, m, ok := Bind(tpl.params, v)
		msgs = append(msgs, m...)
		if !ok {
			continue
		}
		out = append(out, sub.ApplyPattern(tpl.pattern)...)
	}
	return out, msgs
}

// ExpandBase resolves the combinator of an instance of a base template into
// plain instances. An instance without marked arguments is returned as is.
func ExpandBase(inst Instance) ([]Instance, []diag.Message) {
	if !inst.HasListExpansion() {
		return []Instance{inst}, nil
	}
	vectors, msgs := ArgumentVectors(inst)
	out := make([]Instance, len(vectors))
	for n, v := range vectors {
		out[n] = NewInstance(inst.iri, Terms(v...)...)
	}
	return out, msgs
}

// accepts reports whether a value of type got may be bound to a parameter
// declared want. rdfs:Resource accepts every term, lists included.
func accepts(want, got types.Type) bool {
	return types.Equal(want, types.Top) || types.IsCompatibleWith(got, want)
}
