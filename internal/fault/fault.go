// Package fault defines the error taxonomy shared by the store, the executor
// and the command surface.
//
// Every fault is either Terminal (a programmer error or a corrupt read path,
// never recovered) or Recoverable (expected, reported to the user while
// processing continues). Callers tell them apart with IsTerminal and
// IsRecoverable, and the concrete kind with errors.Is against the sentinels.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation marks a missing identity where the data model guarantees one.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNotFound marks a target that no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied marks a permission rejection by the external update call.
	ErrAccessDenied = errors.New("access denied")

	// ErrExternalFailure marks any other failure of the external update call.
	ErrExternalFailure = errors.New("external failure")
)

// Severity tells whether processing can continue after a fault.
type Severity int

const (
	// Terminal faults are not recovered.
	Terminal Severity = iota + 1
	// Recoverable faults are reported and processing continues.
	Recoverable
)

func (s Severity) String() string {
	switch s {
	case Terminal:
		return "terminal"
	case Recoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// Error is a classified failure of one operation.
type Error struct {
	Severity Severity
	Kind     error  // one of the sentinel errors above
	Op       string // operation that failed, e.g. "execute"
	Err      error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Invariant returns a terminal ErrInvariantViolation fault.
func Invariant(op, format string, args ...any) error {
	return &Error{
		Severity: Terminal,
		Kind:     ErrInvariantViolation,
		Op:       op,
		Err:      fmt.Errorf(format, args...),
	}
}

// NotFound returns a recoverable ErrNotFound fault.
func NotFound(op string, err error) error {
	return &Error{Severity: Recoverable, Kind: ErrNotFound, Op: op, Err: err}
}

// AccessDenied returns a recoverable ErrAccessDenied fault.
func AccessDenied(op string, err error) error {
	return &Error{Severity: Recoverable, Kind: ErrAccessDenied, Op: op, Err: err}
}

// ExternalFailure returns a recoverable ErrExternalFailure fault.
func ExternalFailure(op string, err error) error {
	return &Error{Severity: Recoverable, Kind: ErrExternalFailure, Op: op, Err: err}
}

// Panic converts a recovered panic value into a terminal fault.
func Panic(op string, v any) error {
	if err, ok := v.(error); ok {
		return &Error{Severity: Terminal, Kind: ErrInvariantViolation, Op: op, Err: err}
	}

	return Invariant(op, "panic: %v", v)
}

// SeverityOf returns the severity of the first fault in err's chain, or 0.
func SeverityOf(err error) Severity {
	var f *Error
	if errors.As(err, &f) {
		return f.Severity
	}

	return 0
}

// IsTerminal reports whether err carries a terminal fault.
func IsTerminal(err error) bool {
	return SeverityOf(err) == Terminal
}

// IsRecoverable reports whether err carries a recoverable fault.
func IsRecoverable(err error) bool {
	return SeverityOf(err) == Recoverable
}
