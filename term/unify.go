package term

// Unify reports whether a and b can denote the same value, and returns the
// unified term. A variable unifies with an equal variable or with any
// non-variable term its kind admits. Two non-variable terms unify when they
// are equal; lists of equal length unify element by element. Unify is
// symmetric.
func Unify(a, b Term) (Term, bool) {
	if u, ok := unify(a, b); ok {
		return u, true
	}
	return unify(b, a)
}

func unify(t, other Term) (Term, bool) {
	if t.IsVariable() {
		if other.IsVariable() {
			return other, Equal(t, other)
		}
		if admits(t.Kind(), other.Kind()) {
			return other, true
		}
		return nil, false
	}
	if other.IsVariable() {
		return nil, false
	}

	l, ok := t.(List)
	if !ok {
		return other, Equal(t, other)
	}
	ol, ok := other.(List)
	if !ok || l.Len() != ol.Len() {
		return nil, false
	}
	elems := make([]Term, l.Len())
	for i := range l.elements {
		u, ok := Unify(l.elements[i], ol.elements[i])
		if !ok {
			return nil, false
		}
		elems[i] = u
	}
	out := NewList(elems...)
	out.typ = ol.typ
	return out, true
}

// admits reports which non-variable kinds a variable of kind v may stand for.
func admits(v, k Kind) bool {
	switch v {
	case KindBlank:
		return true
	case KindIRI:
		return k == KindIRI || k == KindBlank || k == KindList || k == KindNone
	case KindLiteral:
		return k == KindLiteral || k == KindNone
	case KindList:
		return k == KindList || k == KindNone
	case KindNone:
		return k == KindNone
	default:
		return false
	}
}
