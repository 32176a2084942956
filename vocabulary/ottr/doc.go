// Package ottr provides the OTTR vocabulary: namespace constants, the IRIs of
// the basic term types, the OTTR base templates and a prefix mapping used when
// rendering terms in diagnostics.
//
// # Semstreams Integration
//
// The template-description predicates follow semstreams vocabulary patterns:
//   - Predicates use three-level dotted notation (ottr.template.parameters)
//   - Predicates are registered in init() using vocabulary.Register()
//   - IRI mappings use vocabulary.WithIRI(); the export package resolves
//     them when it writes template definitions as RDF
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semottr/vocabulary/ottr"
package ottr
