// Package errs provides structured error types and helpers for the tally calculator.
package errs

import (
	"errors"
	"strconv"
	"strings"
)

// Code identifies an error category surfaced by the engine.
type Code string

const (
	// CodeValidation indicates operand text that cannot enter the numeric domain.
	CodeValidation Code = "validation"
	// CodeOperation indicates a missing selection, an operation-domain
	// violation, or malformed persisted history.
	CodeOperation Code = "operation"
	// CodeConfig indicates invalid runtime configuration.
	CodeConfig Code = "config"
)

// E captures structured error information produced across the tally stack.
type E struct {
	Op          string
	Code        Code
	Message     string
	Remediation string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the originating component and code.
func New(op string, code Code, opts ...Option) *E {
	e := &E{
		Op:          strings.TrimSpace(op),
		Code:        code,
		Message:     "",
		Remediation: "",
		cause:       nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithRemediation attaches remediation guidance to the error.
func WithRemediation(remediation string) Option {
	trimmed := strings.TrimSpace(remediation)
	return func(e *E) {
		e.Remediation = trimmed
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

// Error renders the message when one is set, otherwise a key=value envelope.
// REPL callers print the error verbatim, so the message form stays clean.
func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	var parts []string

	op := strings.TrimSpace(e.Op)
	if op == "" {
		op = "unknown"
	}
	parts = append(parts, "op="+op)

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if e.Remediation != "" {
		parts = append(parts, "remediation="+strconv.Quote(e.Remediation))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// Validation returns a standardized operand validation error.
func Validation(op, msg string, opts ...Option) *E {
	return New(op, CodeValidation, append([]Option{WithMessage(msg)}, opts...)...)
}

// Operation returns a standardized operation error.
func Operation(op, msg string, opts ...Option) *E {
	return New(op, CodeOperation, append([]Option{WithMessage(msg)}, opts...)...)
}

// IsValidation reports whether err carries the validation code.
func IsValidation(err error) bool { return is(err, CodeValidation) }

// IsOperation reports whether err carries the operation code.
func IsOperation(err error) bool { return is(err, CodeOperation) }

func is(err error, code Code) bool {
	var e *E
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
