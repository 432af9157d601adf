// Package errors provides structured error types for the importer.
//
// Errors carry a Phase (where in the import pipeline the failure
// happened) and a Kind (what went wrong), plus an optional member path
// and detail text. Two errors match under errors.Is when their Phase and
// Kind agree, so callers can test for a class of failure without string
// matching:
//
//	if errors.Is(err, &clrerrors.Error{Phase: clrerrors.PhaseImport, Kind: clrerrors.KindAborted}) {
//	    // import aborted; diagnostics carry the details
//	}
//
// Recoverable per-member problems are not errors at all: they travel as
// importer.Diagnostic values in the ImportResult. This package covers the
// fatal and invariant-violation categories only.
package errors
