package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseClassify Phase = "classify" // type tag classification
	PhaseTraverse Phase = "traverse" // slot iteration
	PhaseMeasure  Phase = "measure"  // payload measurement
	PhaseCopy     Phase = "copy"     // payload relocation
	PhaseClone    Phase = "clone"    // clone orchestration
	PhaseDump     Phase = "dump"     // diagnostic rendering
	PhaseMemory   Phase = "memory"   // address space access
	PhasePlatform Phase = "platform" // keymap service
	PhaseFixture  Phase = "fixture"  // layout descriptions
)

// Kind categorizes the error
type Kind string

const (
	KindProtocolViolation  Kind = "protocol_violation"
	KindAllocation         Kind = "allocation"
	KindIntegrityViolation Kind = "integrity_violation"
	KindUnavailable        Kind = "unavailable"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindOffsetOverflow     Kind = "offset_overflow"
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidData        Kind = "invalid_data"
	KindNotFound           Kind = "not_found"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Expected any
	Actual   any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&b, " (expected %v, got %v)", e.Expected, e.Actual)
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

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the slot path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Expected sets the predicted value of a failed check
func (b *Builder) Expected(v any) *Builder {
	b.err.Expected = v
	return b
}

// Actual sets the observed value of a failed check
func (b *Builder) Actual(v any) *Builder {
	b.err.Actual = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ProtocolViolation creates an error for a slot or descriptor that breaks the
// layout format.
func ProtocolViolation(phase Phase, path []string, value byte, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindProtocolViolation,
		Path:   path,
		Detail: fmt.Sprintf("%s (0x%02x)", detail, value),
		Value:  value,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// IntegrityViolation creates an error for a cursor that diverged from its
// predicted position.
func IntegrityViolation(phase Phase, path []string, what string, expected, actual uint32) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindIntegrityViolation,
		Path:     path,
		Detail:   what + " diverged from measurement",
		Expected: fmt.Sprintf("0x%x", expected),
		Actual:   fmt.Sprintf("0x%x", actual),
	}
}

// Unavailable creates an error for a platform service that cannot be reached.
func Unavailable(op string, cause error) *Error {
	return &Error{
		Phase:  PhasePlatform,
		Kind:   KindUnavailable,
		Detail: op,
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, addr, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access [0x%x, +%d) outside address space of %d bytes", addr, length, size),
		Value:  addr,
	}
}

// OffsetOverflow creates an error for a descriptor offset that does not fit
// in its one-byte field.
func OffsetOverflow(phase Phase, path []string, offset uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOffsetOverflow,
		Path:   path,
		Detail: fmt.Sprintf("descriptor offset %d exceeds 255", offset),
		Value:  offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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
