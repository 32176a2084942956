// Package store implements the template store: an IRI-keyed registry of
// signatures and templates with a reverse dependency index and iterative
// resolution of missing dependencies.
//
// All methods are safe for concurrent use. Registration and the dependency
// index update that accompanies it happen under one write lock, so readers
// never see one without the other. Expansion must not run concurrently with
// registration.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/template"
)

// Store holds signatures, base templates and templates by IRI.
type Store struct {
	mu         sync.RWMutex
	signatures map[string]template.Signature
	// dependents maps a referenced IRI to the templates whose body
	// instantiates it.
	dependents map[string]map[string]struct{}

	library   Library
	resolver  Resolver
	policy    Policy
	maxRounds int

	logger  *slog.Logger
	metrics *storeMetrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLibrary sets the standard library consulted first when fetching.
func WithLibrary(lib Library) Option {
	return func(s *Store) { s.library = lib }
}

// WithResolver sets the collaborator used to fetch missing dependencies.
func WithResolver(r Resolver) Option {
	return func(s *Store) { s.resolver = r }
}

// WithPolicy restricts which IRIs are fetched.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithMaxRounds bounds the number of fetch rounds. Zero means no bound.
func WithMaxRounds(n int) Option {
	return func(s *Store) { s.maxRounds = n }
}

// WithRegisterer registers the store metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) {
		m, err := newStoreMetrics(reg)
		if err != nil {
			s.logger.Warn("Failed to register store metrics", "error", err)
			return
		}
		s.metrics = m
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		signatures: make(map[string]template.Signature),
		dependents: make(map[string]map[string]struct{}),
		logger:     slog.Default(),
	}
	s.metrics, _ = newStoreMetrics(nil)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLibrary replaces the standard library.
func (s *Store) SetLibrary(lib Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.library = lib
}

// SetResolver replaces the resolver.
func (s *Store) SetResolver(r Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
}

// AddSignature registers sig. A new IRI is inserted directly, or through
// AddTemplate when sig is a template. A template whose parameters match an
// existing entry is handed to AddTemplate as well. Anything else is a
// duplicate: it is logged and false is returned.
func (s *Store) AddSignature(sig template.Signature) bool {
	if tpl, ok := sig.(template.Template); ok {
		s.mu.RLock()
		existing, found := s.signatures[sig.IRI()]
		s.mu.RUnlock()
		if !found || template.ParametersMatch(tpl, existing) {
			return s.AddTemplate(tpl)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kind := sig.Kind().String()
	if existing, found := s.signatures[sig.IRI()]; found {
		s.logger.Info("Signature already exists", "iri", sig.IRI(), "kind", existing.Kind().String())
		s.metrics.recordRegistration(kind, outcomeRejected)
		return false
	}
	s.signatures[sig.IRI()] = sig
	s.metrics.recordRegistration(kind, outcomeAdded)
	return true
}

// AddTemplate registers tpl and indexes its body. It is rejected when the
// IRI already has a body or a base definition that differs from tpl, or
// when an existing declaration has mismatching parameters. Re-registering
// an identical template is a no-op that returns true.
func (s *Store) AddTemplate(tpl template.Template) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := tpl.Kind().String()
	iri := tpl.IRI()
	existing, found := s.signatures[iri]
	if found {
		if same, err := sameDefinition(existing, tpl); err != nil {
			s.logger.Warn("Failed to fingerprint template", "iri", iri, "error", err)
		} else if same {
			s.metrics.recordRegistration(kind, outcomeUnchanged)
			return true
		}
		if template.HasPattern(existing) || existing.Kind() == template.KindBase {
			s.logger.Warn("Template already has a definition, nothing will be added", "iri", iri)
			s.metrics.recordRegistration(kind, outcomeRejected)
			return false
		}
		if !template.ParametersMatch(tpl, existing) {
			s.logger.Warn("Template parameters do not match existing signature", "iri", iri)
			s.metrics.recordRegistration(kind, outcomeRejected)
			return false
		}
	}

	s.signatures[iri] = tpl
	for _, dep := range tpl.Dependencies() {
		set, ok := s.dependents[dep]
		if !ok {
			set = make(map[string]struct{})
			s.dependents[dep] = set
		}
		set[iri] = struct{}{}
	}
	s.metrics.recordRegistration(kind, outcomeAdded)
	return true
}

func sameDefinition(a, b template.Signature) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, nil
	}
	fa, err := template.Fingerprint(a)
	if err != nil {
		return false, err
	}
	fb, err := template.Fingerprint(b)
	if err != nil {
		return false, err
	}
	return fa == fb, nil
}

// Contains reports whether anything is registered for iri.
func (s *Store) Contains(iri string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.signatures[iri]
	return ok
}

// ContainsBase reports whether iri is a base template.
func (s *Store) ContainsBase(iri string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signatures[iri]
	return ok && sig.Kind() == template.KindBase
}

// ContainsDefinitionOf reports whether iri is a template with a body, which
// may be empty.
func (s *Store) ContainsDefinitionOf(iri string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signatures[iri]
	return ok && sig.Kind() == template.KindTemplate
}

// Lookup returns the signature registered for iri.
func (s *Store) Lookup(iri string) (template.Signature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signatures[iri]
	return sig, ok
}

// GetSignature returns the signature registered for iri, or ErrNotFound.
func (s *Store) GetSignature(iri string) (template.Signature, error) {
	sig, ok := s.Lookup(iri)
	if !ok {
		return nil, fmt.Errorf("%s: %w", iri, ErrNotFound)
	}
	return sig, nil
}

// GetTemplate returns the template registered for iri. It fails with
// ErrNotFound for an unknown IRI and ErrNoDefinition for a signature or
// base template.
func (s *Store) GetTemplate(iri string) (template.Template, error) {
	sig, ok := s.Lookup(iri)
	if !ok {
		return template.Template{}, fmt.Errorf("%s: %w", iri, ErrNotFound)
	}
	tpl, ok := sig.(template.Template)
	if !ok {
		return template.Template{}, fmt.Errorf("%s: %w", iri, ErrNoDefinition)
	}
	return tpl, nil
}

// snapshot returns the registered signatures sorted by IRI.
func (s *Store) snapshot() []template.Signature {
	s.mu.RLock()
	out := make([]template.Signature, 0, len(s.signatures))
	for _, sig := range s.signatures {
		out = append(out, sig)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b template.Signature) int {
		switch {
		case a.IRI() < b.IRI():
			return -1
		case a.IRI() > b.IRI():
			return 1
		default:
			return 0
		}
	})
	return out
}

// Signatures streams every registered signature, ordered by IRI. The
// stream reads a snapshot taken when it is called.
func (s *Store) Signatures() diag.Stream[template.Signature] {
	return diag.Values(s.snapshot()...)
}

// Templates streams the registered templates, ordered by IRI.
func (s *Store) Templates() diag.Stream[template.Template] {
	var out []template.Template
	for _, sig := range s.snapshot() {
		if tpl, ok := sig.(template.Template); ok {
			out = append(out, tpl)
		}
	}
	return diag.Values(out...)
}

// BaseTemplates streams the registered base templates, ordered by IRI.
func (s *Store) BaseTemplates() diag.Stream[template.BaseTemplate] {
	var out []template.BaseTemplate
	for _, sig := range s.snapshot() {
		if b, ok := sig.(template.BaseTemplate); ok {
			out = append(out, b)
		}
	}
	return diag.Values(out...)
}

// IRIs returns the sorted registered IRIs satisfying pred. A nil pred
// selects every IRI.
func (s *Store) IRIs(pred func(iri string) bool) []string {
	s.mu.RLock()
	all := make([]string, 0, len(s.signatures))
	for iri := range s.signatures {
		all = append(all, iri)
	}
	s.mu.RUnlock()

	out := all[:0]
	for _, iri := range all {
		if pred == nil || pred(iri) {
			out = append(out, iri)
		}
	}
	slices.Sort(out)
	return out
}

// TemplateIRIs returns the sorted IRIs of templates with a definition.
func (s *Store) TemplateIRIs() []string {
	return s.IRIs(s.ContainsDefinitionOf)
}

// DependsOn returns the sorted IRIs of templates whose body instantiates
// iri. ok is false when no registered template uses iri.
func (s *Store) DependsOn(iri string) (dependents []string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.dependents[iri]
	if !ok {
		return nil, false
	}
	for d := range set {
		dependents = append(dependents, d)
	}
	slices.Sort(dependents)
	return dependents, true
}

// MissingDependencies returns the sorted IRIs instantiated by registered
// templates that are neither templates nor base templates.
func (s *Store) MissingDependencies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missingLocked()
}

func (s *Store) missingLocked() []string {
	var out []string
	for iri := range s.dependents {
		sig, ok := s.signatures[iri]
		if ok && (sig.Kind() == template.KindTemplate || sig.Kind() == template.KindBase) {
			continue
		}
		out = append(out, iri)
	}
	slices.Sort(out)
	return out
}

// Populate registers every present value of stream and returns the
// stream's diagnostics.
func (s *Store) Populate(stream diag.Stream[template.Signature]) *diag.Handler {
	return populate(s, stream)
}

// CheckTemplates checks every registered template against the signatures
// it instantiates.
func (s *Store) CheckTemplates() *diag.Handler {
	h := diag.NewHandler()
	for _, sig := range s.snapshot() {
		if t, ok := sig.(template.Template); ok {
			h.Add(template.Check(t, s.Lookup)...)
		}
	}
	return h
}

// FetchMissingDependencies resolves missing dependencies until none remain
// or no progress can be made. Each round tries the standard library first
// and then the resolver for every missing IRI. IRIs that fail to resolve, or
// that the policy excludes, are not attempted again within the call. A nil
// initial set starts from MissingDependencies.
func (s *Store) FetchMissingDependencies(ctx context.Context, initial []string) *diag.Handler {
	h := diag.NewHandler()

	s.mu.RLock()
	lib, resolver, policy, maxRounds := s.library, s.resolver, s.policy, s.maxRounds
	s.mu.RUnlock()

	if initial == nil {
		initial = s.MissingDependencies()
	}
	if lib == nil && resolver == nil && len(initial) > 0 {
		h.Add(diag.Errorf("attempted fetching missing templates, but no library or resolver is configured"))
		return h
	}

	failed := make(map[string]bool)
	missing := initial
	for round := 1; len(missing) > 0; round++ {
		if maxRounds > 0 && round > maxRounds {
			h.Add(diag.Warningf("stopped fetching after %d rounds, %d templates still missing", maxRounds, len(missing)))
			break
		}
		if err := ctx.Err(); err != nil {
			h.Add(diag.Errorf("fetching missing templates: %v", err))
			break
		}
		s.logger.Debug("Fetching missing templates", "round", round, "missing", len(missing))

		for _, iri := range missing {
			s.fetchOne(ctx, iri, lib, resolver, policy, failed, h)
		}

		missing = slices.DeleteFunc(s.MissingDependencies(), func(iri string) bool { return failed[iri] })
	}
	return h
}

func (s *Store) fetchOne(ctx context.Context, iri string, lib Library, resolver Resolver, policy Policy, failed map[string]bool, h *diag.Handler) {
	if lib != nil {
		if sig, ok := lib.Lookup(iri); ok {
			s.AddSignature(sig)
			if s.ContainsDefinitionOf(iri) || s.ContainsBase(iri) {
				s.metrics.recordFetch(fetchLibrary)
				return
			}
		}
	}

	if !policy.Allows(iri) {
		h.Add(diag.Warningf("template %s is excluded from fetching", iri))
		s.metrics.recordFetch(fetchExcluded)
		failed[iri] = true
		return
	}
	if resolver != nil {
		h.Combine(resolver.Resolve(ctx, iri, s))
	}
	if s.ContainsDefinitionOf(iri) || s.ContainsBase(iri) {
		s.metrics.recordFetch(fetchResolved)
		return
	}
	h.Add(diag.Errorf("could not resolve template %s", iri))
	s.metrics.recordFetch(fetchFailed)
	failed[iri] = true
}
