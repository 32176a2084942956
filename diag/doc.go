// Package diag carries diagnostics alongside values.
//
// Nothing in the expansion core reports failure through panics or error
// returns. Operations return a [Result] (a value or nothing, plus messages),
// a [Handler] (messages only) or a [Stream] (a lazy sequence of results).
// Messages from sub-computations are merged into the parent so that one
// failing branch never hides what its siblings produced.
//
// Severity is totally ordered: Error > Warning > Info. Deciding whether a
// pipeline may continue past a given severity is left to the caller, see
// [Handler.AtLeast].
package diag
