// Package expand turns instances into streams of base-template instances by
// recursively substituting template bodies.
package expand

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/store"
	"github.com/c360studio/semottr/template"
)

const (
	outcomeEmitted = "emitted"
	outcomeFailed  = "failed"
)

// Source is the read side of a template store. *store.Store implements it.
type Source interface {
	Lookup(iri string) (template.Signature, bool)
	Signatures() diag.Stream[template.Signature]
}

// Expander expands instances against a Source. The source must not be
// modified while a stream returned by the Expander is being consumed.
type Expander struct {
	source   Source
	maxDepth int
	validate bool
	logger   *slog.Logger
	metrics  *expandMetrics
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth bounds template nesting. An instance nested deeper than n
// templates fails with an Error. Zero means no bound, in which case a
// template that instantiates itself never terminates.
func WithMaxDepth(n int) Option {
	return func(e *Expander) { e.maxDepth = n }
}

// WithValidation controls whether root instances are validated before they
// are expanded. Body instances are covered by store.Store.CheckTemplates.
func WithValidation(enabled bool) Option {
	return func(e *Expander) { e.validate = enabled }
}

// WithRegisterer registers the expansion metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Expander) {
		m, err := newExpandMetrics(reg)
		if err != nil {
			e.logger.Warn("Failed to register expansion metrics", "error", err)
			return
		}
		e.metrics = m
	}
}

// New creates an Expander reading from source.
func New(source Source, opts ...Option) *Expander {
	e := &Expander{
		source:   source,
		validate: true,
		logger:   slog.Default(),
	}
	e.metrics, _ = newExpandMetrics(nil)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the lazy stream of base instances root expands to.
// Diagnostics arrive as results without a value; a failure in one branch
// does not stop its siblings. The stream may be ranged over repeatedly and
// abandoned early.
func (e *Expander) Expand(root template.Instance) diag.Stream[template.Instance] {
	return func(yield func(diag.Result[template.Instance]) bool) {
		w := walker{e: e, yield: yield}
		w.expand(root, 0)
	}
}

// walker carries the state of one traversal.
type walker struct {
	e     *Expander
	yield func(diag.Result[template.Instance]) bool
	// partial keeps instances whose list expansion depends on unbound
	// variables instead of reporting them.
	partial bool
}

func (w *walker) emit(inst template.Instance) bool {
	w.e.metrics.recordInstance(outcomeEmitted)
	return w.yield(diag.Of(inst))
}

func (w *walker) report(msgs []diag.Message) bool {
	if len(msgs) == 0 {
		return true
	}
	w.e.metrics.recordMessages(msgs)
	return w.yield(diag.Empty[template.Instance](msgs...))
}

func (w *walker) fail(inst template.Instance, msgs ...diag.Message) bool {
	w.e.metrics.recordInstance(outcomeFailed)
	w.e.logger.Debug("Instance failed to expand", "instance", inst.String(), "messages", len(msgs))
	return w.report(msgs)
}

// expand walks inst, returning false once the consumer stops.
func (w *walker) expand(inst template.Instance, depth int) bool {
	if w.partial && unresolvedListExpansion(inst) {
		return w.emit(inst)
	}

	if w.e.validate && depth == 0 && !w.partial {
		msgs := inst.Validate()
		if hasErrors(msgs) {
			return w.fail(inst, msgs...)
		}
		if !w.report(msgs) {
			return false
		}
	}

	sig, ok := w.e.source.Lookup(inst.IRI())
	if !ok {
		return w.fail(inst, diag.Errorf("missing template %s for instance %s", inst.IRI(), inst))
	}

	switch s := sig.(type) {
	case template.BaseTemplate:
		if n := len(s.Parameters()); n != inst.Len() {
			return w.fail(inst, diag.Errorf("instance %s has %d arguments, base template %s takes %d",
				inst, inst.Len(), s.IRI(), n))
		}
		out, msgs := template.ExpandBase(inst)
		if hasErrors(msgs) {
			return w.fail(inst, msgs...)
		}
		for _, b := range out {
			if !w.emit(b) {
				return false
			}
		}
		return true

	case template.Template:
		if w.e.maxDepth > 0 && depth >= w.e.maxDepth {
			return w.fail(inst, diag.Errorf("instance %s exceeds the maximum expansion depth of %d", inst, w.e.maxDepth))
		}
		body, msgs := template.Instantiate(s, inst)
		if hasErrors(msgs) {
			w.e.metrics.recordInstance(outcomeFailed)
		}
		if !w.report(msgs) {
			return false
		}
		for _, b := range body {
			if !w.expand(b, depth+1) {
				return false
			}
		}
		return true

	default:
		return w.fail(inst, diag.Errorf("template %s has no definition", inst.IRI()))
	}
}

// ExpandTemplates expands the body of every template in the source down to
// base instances and returns a store holding the results together with the
// source's signatures and base templates. Body instances whose list
// expansion depends on a parameter are kept as they are.
func (e *Expander) ExpandTemplates() (*store.Store, *diag.Handler) {
	h := diag.NewHandler()
	out := store.New(store.WithLogger(e.logger))

	for r := range e.source.Signatures() {
		h.Add(r.Messages()...)
		sig, ok := r.Get()
		if !ok {
			continue
		}
		tpl, ok := sig.(template.Template)
		if !ok {
			out.AddSignature(sig)
			continue
		}

		var body []template.Instance
		w := walker{e: e, partial: true, yield: func(r diag.Result[template.Instance]) bool {
			h.Add(r.Messages()...)
			if inst, ok := r.Get(); ok {
				body = append(body, inst)
			}
			return true
		}}
		for _, inst := range tpl.Pattern() {
			w.expand(inst, 0)
		}
		out.AddTemplate(template.NewTemplate(tpl.IRI(), tpl.Parameters(), body...))
	}
	e.logger.Debug("Expanded all templates", "diagnostics", h.Len())
	return out, h
}

// unresolvedListExpansion reports whether a marked argument of inst is
// still a variable.
func unresolvedListExpansion(inst template.Instance) bool {
	for _, a := range inst.Args() {
		if a.IsListExpander() && a.Term().IsVariable() {
			return true
		}
	}
	return false
}

func hasErrors(msgs []diag.Message) bool {
	for _, m := range msgs {
		if m.Severity == diag.Error {
			return true
		}
	}
	return false
}
