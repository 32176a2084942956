package store

import (
	"context"
	"log/slog"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/semottr/diag"
	"github.com/c360studio/semottr/template"
)

// Sink receives definitions found by a Resolver. *Store implements it.
type Sink interface {
	AddSignature(sig template.Signature) bool
	ContainsDefinitionOf(iri string) bool
}

// Resolver locates the definition of a template IRI and registers what it
// finds with sink. Problems are reported through the returned handler,
// which may be nil when there is nothing to report.
type Resolver interface {
	Resolve(ctx context.Context, iri string, sink Sink) *diag.Handler
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, iri string, sink Sink) *diag.Handler

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, iri string, sink Sink) *diag.Handler {
	return f(ctx, iri, sink)
}

// Library is a secondary store consulted before any resolver. *Store
// implements it.
type Library interface {
	Lookup(iri string) (template.Signature, bool)
}

// Resolvers tries each resolver in order until the IRI has a definition,
// collecting every resolver's diagnostics.
type Resolvers []Resolver

// Resolve implements Resolver.
func (rs Resolvers) Resolve(ctx context.Context, iri string, sink Sink) *diag.Handler {
	h := diag.NewHandler()
	for _, r := range rs {
		if ctx.Err() != nil {
			h.Add(diag.Errorf("resolving %s: %v", iri, ctx.Err()))
			break
		}
		h.Combine(r.Resolve(ctx, iri, sink))
		if sink.ContainsDefinitionOf(iri) {
			break
		}
	}
	return h
}

// Fetcher retrieves the signatures published under an IRI, typically by
// reading and parsing a remote document. A returned error is retried unless
// it is wrapped with retry.NonRetryable.
type Fetcher interface {
	Fetch(ctx context.Context, iri string) (diag.Stream[template.Signature], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, iri string) (diag.Stream[template.Signature], error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, iri string) (diag.Stream[template.Signature], error) {
	return f(ctx, iri)
}

// FetchResolver resolves IRIs through a Fetcher with exponential backoff.
type FetchResolver struct {
	fetcher Fetcher
	retry   retry.Config
	logger  *slog.Logger
}

// NewFetchResolver creates a FetchResolver.
func NewFetchResolver(fetcher Fetcher, cfg retry.Config, logger *slog.Logger) *FetchResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchResolver{fetcher: fetcher, retry: cfg, logger: logger}
}

// Resolve implements Resolver.
func (r *FetchResolver) Resolve(ctx context.Context, iri string, sink Sink) *diag.Handler {
	stream, err := retry.DoWithResult(ctx, r.retry, func() (diag.Stream[template.Signature], error) {
		return r.fetcher.Fetch(ctx, iri)
	})
	if err != nil {
		r.logger.Debug("Fetch failed", "iri", iri, "error", err)
		return diag.NewHandler(diag.Errorf("fetching %s: %v", iri, err))
	}
	return populate(sink, stream)
}

// populate registers every present value of stream with sink.
func populate(sink Sink, stream diag.Stream[template.Signature]) *diag.Handler {
	if stream == nil {
		return diag.NewHandler()
	}
	return diag.Each(stream, func(sig template.Signature) {
		sink.AddSignature(sig)
	})
}
