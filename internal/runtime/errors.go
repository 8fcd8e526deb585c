package runtime

import (
	"fmt"

	"bella-lang/internal/span"
)

// ErrorKind classifies the fatal runtime errors. The language has no catch
// construct, so every kind aborts execution.
type ErrorKind int

const (
	ErrRedeclaration ErrorKind = iota
	ErrUnboundVariable
	ErrType
	ErrUnknownOperator
	ErrNotCallable
	ErrArityMismatch
	ErrIndexOutOfRange
)

var kindNames = map[ErrorKind]string{
	ErrRedeclaration:   "RedeclarationError",
	ErrUnboundVariable: "UnboundVariableError",
	ErrType:            "TypeError",
	ErrUnknownOperator: "UnknownOperatorError",
	ErrNotCallable:     "NotCallableError",
	ErrArityMismatch:   "ArityMismatchError",
	ErrIndexOutOfRange: "IndexOutOfRangeError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error represents a fatal evaluation error. It carries the kind, a message
// naming the offending name or operator, and a source span when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *Error) Error() string {
	if e.Span.Start.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// At attaches a source span if the error does not have one yet.
func (e *Error) At(s span.Span) *Error {
	if e.Span.Start.Line == 0 {
		e.Span = s
	}
	return e
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func errAt(kind ErrorKind, s span.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}
