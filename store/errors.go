package store

import "errors"

// Lookup errors.
var (
	// ErrNotFound is returned when no signature is registered for an IRI.
	ErrNotFound = errors.New("template not found")

	// ErrNoDefinition is returned when an IRI is registered without a body.
	ErrNoDefinition = errors.New("template has no definition")
)
