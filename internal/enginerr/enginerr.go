// Package enginerr defines the core's typed error taxonomy: the kinds
// of failure the engine surfaces to its caller, as opposed to the kinds
// it recovers from internally via deoptimization.
package enginerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names one of the taxonomy entries from the error handling design.
// Arithmetic and Runtime are the ordinary errors a caller sees;
// InvalidOperation is returned by the baseline interpreter for an
// opcode it does not handle, and Panic reports a recovered panic.
// OptimizationFail and CachingFailure are never constructed: the
// adaptive tier recovers from those situations by deoptimizing.
type Kind string

const (
	Arithmetic       Kind = "arithmetic"
	InvalidOperation Kind = "invalid_operation"
	OptimizationFail Kind = "optimization_failure"
	CachingFailure   Kind = "caching_failure"
	Runtime          Kind = "runtime"
	Panic            Kind = "panic"
)

// Error is the engine-level error type returned by Engine.Run. It wraps
// github.com/pkg/errors to carry a stack trace from the point of
// construction; the engine has no source positions, so the call stack
// is the only location context available.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a Kind-tagged Error with a captured stack trace.
func New(kind Kind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind:    kind,
		Message: msg,
		cause:   errors.New(msg),
	}
}

// Wrap attaches kind/message context to an existing error via
// pkg/errors.Wrap, capturing a stack trace at the point of wrapping.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind:    kind,
		Message: msg,
		cause:   errors.Wrap(err, msg),
	}
}

// StackTrace exposes the pkg/errors stack trace of the underlying cause,
// for diagnostic output.
func (e *Error) StackTrace() errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
