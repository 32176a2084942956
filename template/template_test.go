package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/term"
	"github.com/c360studio/semottr/types"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

const ex = "http://example.com/"

var exPrefixes = ottr.DefaultPrefixes().With(map[string]string{"ex": ex})

func iri(local string) term.IRI { return term.NewIRI(ex + local) }

func param(name string, opts ...ParameterOption) Parameter {
	return NewParameter(term.NewVariable(name), nil, opts...)
}

func vars(names ...string) []Argument {
	args := make([]Argument, len(names))
	for i, n := range names {
		args[i] = NewArgument(term.NewVariable(n))
	}
	return args
}

func severities(msgs []diag.Message) []diag.Severity {
	out := make([]diag.Severity, len(msgs))
	for i, m := range msgs {
		out[i] = m.Severity
	}
	return out
}

func TestNewParameter(t *testing.T) {
	p := param("x")
	assert.True(t, p.Term().IsVariable())
	assert.True(t, types.Equal(types.Top, p.Type()))
	assert.Equal(t, term.Var{Kind: term.KindBlank, ID: "x"}, p.Var())
	assert.False(t, p.IsOptional())
	assert.False(t, p.IsNonBlank())
	_, ok := p.Default()
	assert.False(t, ok)

	q := NewParameter(term.NewVariable("y"), types.IRI, Optional(), NonBlank(), Default(iri("d")))
	assert.True(t, q.IsOptional())
	assert.True(t, q.IsNonBlank())
	assert.True(t, types.Equal(types.IRI, q.Term().Type()))
	d, ok := q.Default()
	require.True(t, ok)
	assert.True(t, term.Equal(iri("d"), d))
	assert.Equal(t, "! ? ottr:IRI ?y = ex:d", q.Format(exPrefixes))

	assert.Panics(t, func() { NewParameter(term.NewPlainLiteral("x"), nil) })
}

func TestParameterFrom(t *testing.T) {
	p, ok := ParameterFrom(term.NewIRI(ex+"x"), nil).Get()
	require.True(t, ok)
	assert.True(t, p.Term().IsVariable())

	for _, placeholder := range []term.Term{term.NewPlainLiteral("x"), term.NewList(), term.NewNone()} {
		r := ParameterFrom(placeholder, nil)
		_, ok := r.Get()
		assert.False(t, ok, placeholder.Kind().String())
		require.Len(t, r.Messages(), 1)
		assert.Equal(t, diag.Error, r.Messages()[0].Severity)
	}
}

func TestParameterValidate(t *testing.T) {
	ok := NewParameter(term.NewVariable("x"), types.IRI, Default(iri("a")))
	assert.Empty(t, ok.Validate())

	bad := NewParameter(term.NewVariable("x"), types.IRI, Default(term.NewPlainLiteral("a")))
	msgs := bad.Validate()
	require.Len(t, msgs, 1)
	assert.Equal(t, diag.Error, msgs[0].Severity)
}

func TestParametersMatch(t *testing.T) {
	a := NewSignature(ex+"T", param("x"), param("y", Optional()))
	b := NewTemplate(ex+"T", []Parameter{param("a"), param("b", Optional())})
	assert.True(t, ParametersMatch(a, b))

	assert.False(t, ParametersMatch(a, NewSignature(ex+"T", param("x"))))
	assert.False(t, ParametersMatch(a, NewSignature(ex+"T", param("x", NonBlank()), param("y", Optional()))))
	assert.False(t, ParametersMatch(a, NewSignature(ex+"T", param("x"), param("y"))))

	typed := NewSignature(ex+"T", NewParameter(term.NewVariable("x"), types.IRI))
	lit := NewSignature(ex+"T", NewParameter(term.NewVariable("x"), types.String))
	assert.False(t, ParametersMatch(typed, lit))

	withDefault := NewSignature(ex+"T", param("x", Default(iri("a"))))
	otherDefault := NewSignature(ex+"T", param("x", Default(iri("b"))))
	assert.False(t, ParametersMatch(withDefault, otherDefault))
	assert.False(t, ParametersMatch(withDefault, NewSignature(ex+"T", param("x"))))
	assert.True(t, ParametersMatch(withDefault, NewSignature(ex+"T", param("z", Default(iri("a"))))))
}

func TestSignatureVariants(t *testing.T) {
	sig := NewSignature(ex+"S", param("x"))
	base := NewBaseTemplate(ex+"B", param("x"))
	tpl := NewTemplate(ex+"T", []Parameter{param("x")},
		NewInstance(ex+"B", vars("x")...),
		NewInstance(ex+"C", vars("x")...),
		NewInstance(ex+"B", NewArgument(iri("a"))),
	)

	assert.Equal(t, KindSignature, sig.Kind())
	assert.Equal(t, KindBase, base.Kind())
	assert.Equal(t, KindTemplate, tpl.Kind())
	assert.Equal(t, "template", KindTemplate.String())

	assert.False(t, HasPattern(sig))
	assert.False(t, HasPattern(base))
	assert.True(t, HasPattern(tpl))
	assert.False(t, HasPattern(NewTemplate(ex+"E", nil)))

	assert.Equal(t, []string{ex + "B", ex + "C"}, tpl.Dependencies())
	assert.Len(t, tpl.Pattern(), 3)

	params := sig.Parameters()
	params[0] = param("changed")
	assert.Equal(t, "x", sig.Parameters()[0].Var().ID)

	assert.Equal(t, 0, ParameterIndex(tpl, term.Var{Kind: term.KindBlank, ID: "x"}))
	assert.Equal(t, -1, ParameterIndex(tpl, term.Var{Kind: term.KindBlank, ID: "y"}))
}

func TestFormatSignature(t *testing.T) {
	base := NewBaseTemplate(ex+"B", param("x"))
	assert.Equal(t, "ex:B[rdfs:Resource ?x] :: BASE .", Format(base, exPrefixes))
	assert.Equal(t, "ex:S[] .", Format(NewSignature(ex+"S"), exPrefixes))

	tpl := NewTemplate(ex+"T", []Parameter{param("x"), param("ys")},
		NewInstance(ex+"B", vars("x")...),
		NewInstance(ex+"B", ExpandedArgument(term.NewVariable("ys"))).WithExpander(Cross),
	)
	want := "ex:T[rdfs:Resource ?x, rdfs:Resource ?ys] :: {\n" +
		"  ex:B(?x),\n" +
		"  cross | ex:B(++?ys)\n" +
		"} ."
	assert.Equal(t, want, Format(tpl, exPrefixes))
	assert.Equal(t, "ex:E[] :: { } .", Format(NewTemplate(ex+"E", nil), exPrefixes))
}

func TestListExpanderParsing(t *testing.T) {
	for _, e := range []ListExpander{Cross, ZipMin, ZipMax} {
		got, ok := ParseListExpander(e.String())
		require.True(t, ok)
		assert.Equal(t, e, got)
		got, ok = ParseListExpander(e.IRI())
		require.True(t, ok)
		assert.Equal(t, e, got)
	}
	_, ok := ParseListExpander("zip")
	assert.False(t, ok)
	assert.Empty(t, NoExpander.String())
}

func TestArgumentValidate(t *testing.T) {
	tests := []struct {
		name string
		arg  Argument
		want []diag.Severity
	}{
		{"plain iri", NewArgument(iri("a")), []diag.Severity{}},
		{"ottr namespace", NewArgument(term.NewIRI(ottr.Namespace + "Triple")), []diag.Severity{diag.Warning}},
		{"none iri", NewArgument(term.NewIRI(ottr.None)), []diag.Severity{}},
		{"marked list", ExpandedArgument(term.NewList(iri("a"))), []diag.Severity{}},
		{"marked variable", ExpandedArgument(term.NewVariable("x")), []diag.Severity{}},
		{"marked scalar", ExpandedArgument(iri("a")), []diag.Severity{diag.Error}},
		{"literal with datatype and lang", NewArgument(term.NewLiteral("x", ottr.XSDString, "en")), []diag.Severity{diag.Error}},
		{"nested bad literal", NewArgument(term.NewList(term.NewLiteral("x", ottr.XSDString, "en"))), []diag.Severity{diag.Error}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severities(tt.arg.Validate()))
		})
	}
}

func TestInstanceValidate(t *testing.T) {
	marked := NewInstance(ex+"B", ExpandedArgument(term.NewList(iri("a"))))
	msgs := marked.Validate()
	require.Len(t, msgs, 1)
	assert.Equal(t, diag.Error, msgs[0].Severity)

	assert.Empty(t, marked.WithExpander(ZipMin).Validate())
	assert.Empty(t, NewInstance(ex+"B", NewArgument(iri("a"))).WithExpander(Cross).Validate())
}

func TestInstanceFormatAndEqual(t *testing.T) {
	inst := NewInstance(ex+"B", NewArgument(iri("a")), ExpandedArgument(term.NewList(iri("b"), term.NewNone()))).WithExpander(ZipMax)
	assert.Equal(t, "zipMax | ex:B(ex:a, ++(ex:b, none))", inst.Format(exPrefixes))
	assert.True(t, inst.HasListExpansion())
	assert.Equal(t, 2, inst.Len())

	same := NewInstance(ex+"B", NewArgument(iri("a")), ExpandedArgument(term.NewList(iri("b"), term.NewNone()))).WithExpander(ZipMax)
	assert.True(t, EqualInstances(inst, same))
	assert.False(t, EqualInstances(inst, same.WithExpander(Cross)))
	assert.False(t, EqualInstances(inst, NewInstance(ex+"B", NewArgument(iri("a")))))
}

func TestBind(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		sub, msgs, ok := Bind([]Parameter{param("x"), param("y")}, []term.Term{iri("a"), iri("b")})
		require.True(t, ok)
		assert.Empty(t, msgs)
		assert.Equal(t, 2, sub.Len())
		got, _ := sub.Lookup(term.Var{Kind: term.KindBlank, ID: "y"})
		assert.True(t, term.Equal(iri("b"), got))
	})
	t.Run("arity", func(t *testing.T) {
		_, msgs, ok := Bind([]Parameter{param("x")}, nil)
		assert.False(t, ok)
		assert.Equal(t, []diag.Severity{diag.Error}, severities(msgs))
	})
	t.Run("none takes default", func(t *testing.T) {
		sub, _, ok := Bind([]Parameter{param("x", Default(iri("d")))}, []term.Term{term.NewNone()})
		require.True(t, ok)
		got, _ := sub.Lookup(term.Var{Kind: term.KindBlank, ID: "x"})
		assert.True(t, term.Equal(iri("d"), got))
	})
	t.Run("none iri takes default", func(t *testing.T) {
		sub, _, ok := Bind([]Parameter{param("x", Default(iri("d")))}, []term.Term{term.NewIRI(ottr.None)})
		require.True(t, ok)
		got, _ := sub.Lookup(term.Var{Kind: term.KindBlank, ID: "x"})
		assert.True(t, term.Equal(iri("d"), got))
	})
	t.Run("none for optional", func(t *testing.T) {
		sub, _, ok := Bind([]Parameter{param("x", Optional())}, []term.Term{term.NewNone()})
		require.True(t, ok)
		got, _ := sub.Lookup(term.Var{Kind: term.KindBlank, ID: "x"})
		assert.True(t, term.IsNone(got))
	})
	t.Run("none for mandatory", func(t *testing.T) {
		_, msgs, ok := Bind([]Parameter{param("x")}, []term.Term{term.NewNone()})
		assert.False(t, ok)
		assert.Equal(t, []diag.Severity{diag.Info}, severities(msgs))
	})
	t.Run("blank for non-blank", func(t *testing.T) {
		_, msgs, ok := Bind([]Parameter{param("x", NonBlank())}, []term.Term{term.NewBlankLabel("b")})
		assert.False(t, ok)
		assert.Equal(t, []diag.Severity{diag.Error}, severities(msgs))
	})
	t.Run("incompatible type", func(t *testing.T) {
		p := NewParameter(term.NewVariable("x"), types.IRI)
		_, msgs, ok := Bind([]Parameter{p}, []term.Term{term.NewPlainLiteral("l")})
		assert.False(t, ok)
		assert.Equal(t, []diag.Severity{diag.Error}, severities(msgs))
	})
	t.Run("variables are not type checked", func(t *testing.T) {
		p := NewParameter(term.NewVariable("x"), types.IRI)
		_, _, ok := Bind([]Parameter{p}, []term.Term{term.WithVariable(term.NewPlainLiteral("l"), true)})
		assert.True(t, ok)
	})
}

func TestSubstitutionApply(t *testing.T) {
	sub, _, ok := Bind([]Parameter{param("x")}, []term.Term{iri("a")})
	require.True(t, ok)

	body := NewInstance(ex+"B",
		NewArgument(term.NewVariable("x")),
		NewArgument(term.NewVariable("unbound")),
		NewArgument(term.NewBlankLabel("x")),
		ExpandedArgument(term.NewList(term.NewVariable("x"))),
	).WithExpander(Cross)

	got := sub.ApplyInstance(body)
	assert.Equal(t, "cross | ex:B(ex:a, ?unbound, _:x, ++(ex:a))", got.Format(exPrefixes))
	assert.Equal(t, "cross | ex:B(?x, ?unbound, _:x, ++(?x))", body.Format(exPrefixes))
}

func TestCombine(t *testing.T) {
	a, b := iri("a"), iri("b")
	c, d, e := iri("c"), iri("d"), iri("e")
	lists := [][]term.Term{{a, b}, {c, d, e}}

	assert.Len(t, Combine(Cross, lists), 6)
	assert.Len(t, Combine(ZipMin, lists), 2)

	zipped := Combine(ZipMax, lists)
	require.Len(t, zipped, 3)
	assert.True(t, term.IsNone(zipped[2][0]))
	assert.True(t, term.Equal(e, zipped[2][1]))

	crossed := Combine(Cross, lists)
	assert.True(t, term.Equal(a, crossed[0][0]))
	assert.True(t, term.Equal(c, crossed[0][1]))
	assert.True(t, term.Equal(b, crossed[5][0]))
	assert.True(t, term.Equal(e, crossed[5][1]))

	assert.Empty(t, Combine(Cross, [][]term.Term{{a}, {}}))
	assert.Empty(t, Combine(ZipMin, [][]term.Term{{a}, {}}))
	assert.Len(t, Combine(ZipMax, [][]term.Term{{a}, {}}), 1)
	assert.Nil(t, Combine(NoExpander, lists))
}

func TestArgumentVectors(t *testing.T) {
	inst := NewInstance(ex+"T",
		NewArgument(iri("k")),
		ExpandedArgument(term.NewList(iri("a"), iri("b"))),
	).WithExpander(Cross)
	vectors, msgs := ArgumentVectors(inst)
	assert.Empty(t, msgs)
	require.Len(t, vectors, 2)
	assert.True(t, term.Equal(iri("k"), vectors[1][0]))
	assert.True(t, term.Equal(iri("b"), vectors[1][1]))

	plain := NewInstance(ex+"T", NewArgument(iri("k"))).WithExpander(Cross)
	vectors, _ = ArgumentVectors(plain)
	assert.Len(t, vectors, 1)

	scalar := NewInstance(ex+"T", ExpandedArgument(iri("k"))).WithExpander(Cross)
	vectors, msgs = ArgumentVectors(scalar)
	assert.Empty(t, vectors)
	assert.Equal(t, []diag.Severity{diag.Error}, severities(msgs))

	noCombinator := NewInstance(ex+"T", ExpandedArgument(term.NewList(iri("a"))))
	vectors, msgs = ArgumentVectors(noCombinator)
	assert.Empty(t, vectors)
	assert.Equal(t, []diag.Severity{diag.Error}, severities(msgs))
}

func TestInstantiate(t *testing.T) {
	tpl := NewTemplate(ex+"T", []Parameter{param("a")},
		NewInstance(ex+"Base", vars("a")...))

	out, msgs := Instantiate(tpl, NewInstance(ex+"T", NewArgument(iri("x"))))
	assert.Empty(t, msgs)
	require.Len(t, out, 1)
	assert.Equal(t, "ex:Base(ex:x)", out[0].Format(exPrefixes))
}

func TestInstantiateListExpansion(t *testing.T) {
	pair := func(opts ...ParameterOption) Template {
		return NewTemplate(ex+"T", []Parameter{param("x", opts...), param("y", opts...)},
			NewInstance(ex+"Base", vars("x", "y")...))
	}
	call := func(e ListExpander) Instance {
		return NewInstance(ex+"T",
			ExpandedArgument(term.NewList(iri("a"), iri("b"))),
			ExpandedArgument(term.NewList(iri("c"), iri("d"), iri("e"))),
		).WithExpander(e)
	}

	out, msgs := Instantiate(pair(), call(Cross))
	assert.Empty(t, msgs)
	assert.Len(t, out, 6)

	out, msgs = Instantiate(pair(), call(ZipMin))
	assert.Empty(t, msgs)
	assert.Len(t, out, 2)

	out, msgs = Instantiate(pair(Optional()), call(ZipMax))
	assert.Empty(t, msgs)
	require.Len(t, out, 3)
	assert.Equal(t, "ex:Base(none, ex:e)", out[2].Format(exPrefixes))

	out, msgs = Instantiate(pair(), call(ZipMax))
	assert.Len(t, out, 2)
	assert.Equal(t, []diag.Severity{diag.Info}, severities(msgs))
}

func TestExpandBase(t *testing.T) {
	plain := NewInstance(ex+"B", NewArgument(iri("a")))
	out, msgs := ExpandBase(plain)
	assert.Empty(t, msgs)
	require.Len(t, out, 1)
	assert.True(t, EqualInstances(plain, out[0]))

	listed := NewInstance(ex+"B", NewArgument(iri("s")), ExpandedArgument(term.NewList(iri("a"), iri("b")))).WithExpander(Cross)
	out, msgs = ExpandBase(listed)
	assert.Empty(t, msgs)
	require.Len(t, out, 2)
	assert.Equal(t, "ex:B(ex:s, ex:b)", out[1].Format(exPrefixes))
	assert.Equal(t, NoExpander, out[1].Expander())
}

func TestCheck(t *testing.T) {
	base := NewBaseTemplate(ex+"B", NewParameter(term.NewVariable("s"), types.IRI))
	lookup := func(iri string) (Signature, bool) {
		if iri == ex+"B" {
			return base, true
		}
		return nil, false
	}

	good := NewTemplate(ex+"T", []Parameter{param("x")}, NewInstance(ex+"B", vars("x")...))
	assert.Empty(t, Check(good, lookup))

	tests := []struct {
		name string
		tpl  Template
		want []diag.Severity
	}{
		{
			"duplicate parameter",
			NewTemplate(ex+"T", []Parameter{param("x"), param("x")}, NewInstance(ex+"B", vars("x")...)),
			[]diag.Severity{diag.Error},
		},
		{
			"duplicate unused parameter",
			NewTemplate(ex+"T", []Parameter{param("x"), param("y"), param("y")}, NewInstance(ex+"B", vars("x")...)),
			[]diag.Severity{diag.Error, diag.Warning},
		},
		{
			"unknown callee",
			NewTemplate(ex+"T", []Parameter{param("x")}, NewInstance(ex+"Missing", vars("x")...)),
			[]diag.Severity{diag.Warning},
		},
		{
			"arity",
			NewTemplate(ex+"T", []Parameter{param("x")}, NewInstance(ex+"B", vars("x", "x")...)),
			[]diag.Severity{diag.Error},
		},
		{
			"argument type",
			NewTemplate(ex+"T", nil, NewInstance(ex+"B", NewArgument(term.NewPlainLiteral("l")))),
			[]diag.Severity{diag.Error},
		},
		{
			"undeclared variable",
			NewTemplate(ex+"T", nil, NewInstance(ex+"B", vars("z")...)),
			[]diag.Severity{diag.Error},
		},
		{
			"unused parameter",
			NewTemplate(ex+"T", []Parameter{param("x"), param("y")}, NewInstance(ex+"B", vars("x")...)),
			[]diag.Severity{diag.Warning},
		},
		{
			"bad default",
			NewTemplate(ex+"T", []Parameter{NewParameter(term.NewVariable("x"), types.IRI, Default(term.NewPlainLiteral("l")))},
				NewInstance(ex+"B", vars("x")...)),
			[]diag.Severity{diag.Error},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severities(Check(tt.tpl, lookup)))
		})
	}
}

func TestCheckListParameter(t *testing.T) {
	base := NewBaseTemplate(ex+"B", NewParameter(term.NewVariable("s"), types.IRI))
	lookup := func(string) (Signature, bool) { return base, true }

	listParam := NewParameter(term.NewVariable("xs"), types.NewNEList(types.IRI))
	tpl := NewTemplate(ex+"T", []Parameter{listParam},
		NewInstance(ex+"B", ExpandedArgument(term.NewVariable("xs"))).WithExpander(Cross))
	assert.Empty(t, Check(tpl, lookup))

	literals := NewParameter(term.NewVariable("xs"), types.NewNEList(types.String))
	bad := NewTemplate(ex+"T", []Parameter{literals},
		NewInstance(ex+"B", ExpandedArgument(term.NewVariable("xs"))).WithExpander(Cross))
	assert.Equal(t, []diag.Severity{diag.Error}, severities(Check(bad, lookup)))
}

func TestFingerprint(t *testing.T) {
	build := func(obj term.Term) Template {
		return NewTemplate(ex+"T", []Parameter{param("x", Optional())},
			NewInstance(ottr.Triple, NewArgument(term.NewVariable("x")), NewArgument(iri("p")), NewArgument(obj)))
	}
	a, err := Fingerprint(build(iri("o")))
	require.NoError(t, err)
	b, err := Fingerprint(build(iri("o")))
	require.NoError(t, err)
	c, err := Fingerprint(build(iri("other")))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)

	sig, err := Fingerprint(NewSignature(ex+"T", param("x", Optional())))
	require.NoError(t, err)
	tpl, err := Fingerprint(NewTemplate(ex+"T", []Parameter{param("x", Optional())}))
	require.NoError(t, err)
	assert.NotEqual(t, sig, tpl)
}
