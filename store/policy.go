package store

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy restricts which missing IRIs may be fetched. Patterns are
// doublestar globs matched against the full IRI, so "http://example.com/**"
// admits everything under that path. An empty Include admits every IRI;
// Exclude always wins.
type Policy struct {
	Include []string
	Exclude []string
}

// Validate checks that every pattern is a well-formed glob.
func (p Policy) Validate() error {
	for _, pattern := range append(append([]string{}, p.Include...), p.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid IRI pattern %q", pattern)
		}
	}
	return nil
}

// Allows reports whether iri may be fetched.
func (p Policy) Allows(iri string) bool {
	if matchAny(p.Exclude, iri) {
		return false
	}
	return len(p.Include) == 0 || matchAny(p.Include, iri)
}

func matchAny(patterns []string, iri string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, iri); err == nil && ok {
			return true
		}
	}
	return false
}
