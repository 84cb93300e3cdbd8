// Package errors provides error context and stack traces for the descent
// service shell. Validation errors of the optimization core live in
// internal/optimize.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// Error is a service error with context and a captured stack trace.
type Error struct {
	// Err is the underlying error, if any.
	Err error
	// Message describes the failure.
	Message string
	// Operation names what was being performed.
	Operation string
	// Component names where the failure occurred.
	Component string
	// Stack is the captured stack trace.
	Stack []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Operation != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString("operation=")
		b.WriteString(e.Operation)
	}
	if e.Component != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString("component=")
		b.WriteString(e.Component)
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithOperation adds operation context.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithComponent adds component context.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// StackTrace returns the captured stack trace.
func (e *Error) StackTrace() []string {
	return e.Stack
}

// New creates an error with a message and a stack trace.
func New(msg string) *Error {
	return &Error{Message: msg, Stack: captureStack()}
}

// Errorf creates an error with a formatted message and a stack trace.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Stack: captureStack()}
}

// Wrap wraps err with an additional message, capturing a stack trace when
// err is not already a service error. A nil err yields nil.
func Wrap(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		if msg != "" {
			e.Message = msg
		}
		return e
	}
	return &Error{Err: err, Message: msg, Stack: captureStack()}
}

// Wrapf wraps err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the next error in err's chain, if any.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

func captureStack() []string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") && !strings.Contains(frame.File, "internal/errors") {
			stack = append(stack, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return stack
}
