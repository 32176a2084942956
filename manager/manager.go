// Package manager wires a template store, its standard library, resolvers
// and an expander together from a config.Config.
package manager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semottr/config"
	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/expand"
	"github.com/c360studio/semottr/export"
	"github.com/c360studio/semottr/store"
	"github.com/c360studio/semottr/template"
	"github.com/c360studio/semottr/vocabulary/ottr"
)

// Manager owns the template store used for reading and expanding
// instances.
type Manager struct {
	cfg      *config.Config
	store    *store.Store
	expander *expand.Expander
	prefixes ottr.Prefixes
	logger   *slog.Logger

	mu        sync.RWMutex
	library   *store.Store
	resolvers map[string]store.Resolver
	order     []string
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger *slog.Logger
	reg    prometheus.Registerer
}

// WithLogger sets the logger passed to the store and the expander. Without
// it the manager logs to stderr at the configured log level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer registers store and expansion metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// New creates a Manager from cfg. A nil cfg uses config.DefaultConfig.
// The store starts out holding the OTTR base templates.
func New(cfg *config.Config, opts ...Option) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = cfg.NewLogger(os.Stderr)
	}

	m := &Manager{
		cfg:       cfg,
		prefixes:  ottr.DefaultPrefixes().With(cfg.Prefixes),
		logger:    o.logger,
		resolvers: make(map[string]store.Resolver),
	}

	storeOpts := []store.Option{
		store.WithLogger(o.logger),
		store.WithPolicy(store.Policy{Include: cfg.Fetch.Include, Exclude: cfg.Fetch.Exclude}),
		store.WithMaxRounds(cfg.Fetch.MaxRounds),
	}
	expandOpts := []expand.Option{
		expand.WithLogger(o.logger),
		expand.WithMaxDepth(cfg.Expansion.MaxDepth),
		expand.WithValidation(cfg.Expansion.Validation()),
	}
	if o.reg != nil {
		storeOpts = append(storeOpts, store.WithRegisterer(o.reg))
		expandOpts = append(expandOpts, expand.WithRegisterer(o.reg))
	}

	m.store = store.New(storeOpts...)
	m.store.AddOTTRBaseTemplates()
	m.expander = expand.New(m.store, expandOpts...)
	return m, nil
}

// Store returns the managed store.
func (m *Manager) Store() *store.Store {
	return m.store
}

// Expander returns the expander reading from the managed store.
func (m *Manager) Expander() *expand.Expander {
	return m.expander
}

// Prefixes returns the OTTR default prefixes extended with the configured
// ones.
func (m *Manager) Prefixes() ottr.Prefixes {
	return m.prefixes.With(nil)
}

// Config returns the configuration the manager was built from.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// LoadStandardLibrary reads signatures into a fresh library store and makes
// it the standard library consulted before any resolver. The library
// replaces any previously loaded one.
func (m *Manager) LoadStandardLibrary(signatures diag.Stream[template.Signature]) *diag.Handler {
	lib := store.New(store.WithLogger(m.logger))
	lib.AddOTTRBaseTemplates()
	h := lib.Populate(signatures)

	m.mu.Lock()
	m.library = lib
	m.mu.Unlock()

	m.store.SetLibrary(lib)
	m.logger.Info("Loaded standard library", "templates", len(lib.TemplateIRIs()), "diagnostics", h.Len())
	return h
}

// StandardLibrary returns the loaded standard library, if any.
func (m *Manager) StandardLibrary() (*store.Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.library, m.library != nil
}

// RegisterResolver adds r under name. Resolvers are tried in registration
// order; registering an existing name replaces it in place.
func (m *Manager) RegisterResolver(name string, r store.Resolver) {
	m.mu.Lock()
	if _, ok := m.resolvers[name]; !ok {
		m.order = append(m.order, name)
	}
	m.resolvers[name] = r
	chain := make(store.Resolvers, 0, len(m.order))
	for _, n := range m.order {
		chain = append(chain, m.resolvers[n])
	}
	m.mu.Unlock()

	m.store.SetResolver(chain)
	m.logger.Debug("Registered resolver", "name", name, "resolvers", len(chain))
}

// RegisterFetcher registers f as a resolver that retries with the
// configured fetch retry policy.
func (m *Manager) RegisterFetcher(name string, f store.Fetcher) {
	m.RegisterResolver(name, store.NewFetchResolver(f, m.cfg.Fetch.RetryPolicy(), m.logger))
}

// Resolvers returns the registered resolver names in the order they are
// tried.
func (m *Manager) Resolvers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// ReadTemplates registers the signatures of a stream and then fetches the
// dependencies they leave missing.
func (m *Manager) ReadTemplates(ctx context.Context, signatures diag.Stream[template.Signature]) *diag.Handler {
	h := m.store.Populate(signatures)
	if missing := m.store.MissingDependencies(); len(missing) > 0 {
		h.Combine(m.store.FetchMissingDependencies(ctx, missing))
	}
	return h
}

// Expand fetches the templates the instances refer to and returns the
// stream of base instances they expand to. Fetch diagnostics come first.
func (m *Manager) Expand(ctx context.Context, instances ...template.Instance) diag.Stream[template.Instance] {
	return func(yield func(diag.Result[template.Instance]) bool) {
		expanded := diag.FlatMapStream(diag.Values(instances...), m.expander.Expand)
		if fetched := m.fetchFor(ctx, instances); fetched.Len() > 0 {
			report := diag.StreamOf(diag.Empty[template.Instance](fetched.Messages()...))
			expanded = diag.Concat(report, expanded)
		}
		expanded(yield)
	}
}

// fetchFor fetches the instance IRIs and everything they depend on.
func (m *Manager) fetchFor(ctx context.Context, instances []template.Instance) *diag.Handler {
	missing := m.store.MissingDependencies()
	for _, inst := range instances {
		iri := inst.IRI()
		if !m.store.ContainsDefinitionOf(iri) && !m.store.ContainsBase(iri) && !slices.Contains(missing, iri) {
			missing = append(missing, iri)
		}
	}
	if len(missing) == 0 {
		return diag.NewHandler()
	}
	return m.store.FetchMissingDependencies(ctx, missing)
}

// Export expands instances and writes the result to w in format.
func (m *Manager) Export(ctx context.Context, w io.Writer, format export.Format, instances ...template.Instance) (*diag.Handler, error) {
	exporter, err := export.NewExporter(format, m.prefixes, m.logger)
	if err != nil {
		return nil, err
	}
	return exporter.Export(w, m.Expand(ctx, instances...))
}

// ExportDefinitions writes every signature in the managed store to w in
// format.
func (m *Manager) ExportDefinitions(w io.Writer, format export.Format) (*diag.Handler, error) {
	exporter, err := export.NewExporter(format, m.prefixes, m.logger)
	if err != nil {
		return nil, err
	}
	return exporter.ExportDefinitions(w, m.store.Signatures())
}

// ExpandTemplates expands every template body in the managed store.
func (m *Manager) ExpandTemplates() (*store.Store, *diag.Handler) {
	return m.expander.ExpandTemplates()
}

// CheckTemplates reports problems with the templates in the managed store.
func (m *Manager) CheckTemplates() *diag.Handler {
	return m.store.CheckTemplates()
}

// Format renders sig with the manager's prefixes.
func (m *Manager) Format(sig template.Signature) string {
	return template.Format(sig, m.prefixes)
}
