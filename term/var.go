package term

// Var identifies a variable independently of its type annotation. Only IRI
// and blank-node terms can be variables that a substitution replaces.
type Var struct {
	Kind Kind
	ID   string
}

// String renders the variable as it appears in a template body.
func (v Var) String() string {
	if v.Kind == KindIRI {
		return "?<" + v.ID + ">"
	}
	return "?" + v.ID
}

// VarOf returns the variable identity of t, if t is a variable IRI or blank.
func VarOf(t Term) (Var, bool) {
	if t == nil || !t.IsVariable() {
		return Var{}, false
	}
	switch x := t.(type) {
	case IRI:
		return Var{Kind: KindIRI, ID: x.iri}, true
	case Blank:
		return Var{Kind: KindBlank, ID: x.label}, true
	default:
		return Var{}, false
	}
}

// Substitute replaces every variable in t that lookup binds, descending
// into lists. Unbound variables and constants are returned unchanged.
func Substitute(t Term, lookup func(Var) (Term, bool)) Term {
	out, _ := substitute(t, lookup)
	return out
}

func substitute(t Term, lookup func(Var) (Term, bool)) (Term, bool) {
	if v, ok := VarOf(t); ok {
		if r, ok := lookup(v); ok {
			return r, true
		}
		return t, false
	}
	l, ok := t.(List)
	if !ok {
		return t, false
	}
	elems := make([]Term, len(l.elements))
	changed := false
	for i, e := range l.elements {
		var c bool
		elems[i], c = substitute(e, lookup)
		changed = changed || c
	}
	if !changed {
		return t, false
	}
	out := NewList(elems...)
	out.variable = l.variable
	return out, true
}

// Variables returns the variables occurring in t, in order of first
// occurrence.
func Variables(t Term) []Var {
	var out []Var
	seen := map[Var]bool{}
	var walk func(Term)
	walk = func(t Term) {
		if v, ok := VarOf(t); ok {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
			return
		}
		if l, ok := t.(List); ok {
			for _, e := range l.elements {
				walk(e)
			}
		}
	}
	walk(t)
	return out
}
