package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in an import the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // source module loading
	PhasePlan      Phase = "plan"      // type planning, edited-method discovery
	PhaseResolve   Phase = "resolve"   // type reference resolution
	PhaseSignature Phase = "signature" // signature translation
	PhaseMember    Phase = "member"    // member translation
	PhaseBody      Phase = "body"      // method body translation
	PhaseRename    Phase = "rename"    // name deduplication
	PhaseImport    Phase = "import"    // orchestration
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindUnsupported   Kind = "unsupported"
	KindInvalidData   Kind = "invalid_data"
	KindScopeMismatch Kind = "scope_mismatch"
	KindInternal      Kind = "internal"
	KindAborted       Kind = "aborted"
)

// Error is the structured error type used throughout the importer
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Member string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Member != "" {
		b.WriteString(" at ")
		b.WriteString(e.Member)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// New creates a structured error
func New(phase Phase, kind Kind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Phase: phase, Kind: kind, Detail: detail}
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Internal creates an invariant-violation error. These are never expected
// at runtime; callers treat them as fatal.
func Internal(phase Phase, member, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Member: member,
		Detail: detail,
	}
}

// ScopeMismatch creates an error for a resolution scope appearing in a
// position it never can, e.g. a source-module scope in foreign position
func ScopeMismatch(phase Phase, member, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindScopeMismatch,
		Member: member,
		Detail: detail,
	}
}

// Load creates a source-module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Aborted creates the import-aborted error carried out of a failed import
func Aborted(cause error) *Error {
	return &Error{
		Phase:  PhaseImport,
		Kind:   KindAborted,
		Detail: "import aborted",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
