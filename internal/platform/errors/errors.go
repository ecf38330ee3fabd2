// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the pipeline
// Values are stable because they back process exit statuses; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for configuration that fails struct validation
	ErrorCodeValidation

	// ErrorCodeNetwork is for transport or connection failures talking to the archive
	ErrorCodeNetwork

	// ErrorCodeMalformedResponse is for archive bodies that are not JSON or lack expected keys
	ErrorCodeMalformedResponse

	// ErrorCodeFileNotFound is for missing input CSV or reference files
	ErrorCodeFileNotFound

	// ErrorCodeSchemaMismatch is for row/column misalignment and paired-column length mismatch
	ErrorCodeSchemaMismatch

	// ErrorCodeThresholdExceeded is for result sets too large to fetch in one call
	ErrorCodeThresholdExceeded

	// ErrorCodeIO is for local filesystem failures other than a missing file
	ErrorCodeIO
)

// String returns a short stable label for logs
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeInvalidArgument:
		return "invalid_argument"
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeNetwork:
		return "network"
	case ErrorCodeMalformedResponse:
		return "malformed_response"
	case ErrorCodeFileNotFound:
		return "file_not_found"
	case ErrorCodeSchemaMismatch:
		return "schema_mismatch"
	case ErrorCodeThresholdExceeded:
		return "threshold_exceeded"
	case ErrorCodeIO:
		return "io"
	default:
		return "unknown"
	}
}

// ExitStatus turns an ErrorCode into a process exit status
func ExitStatus(c ErrorCode) int {
	switch c {
	case ErrorCodeInvalidArgument, ErrorCodeValidation:
		return 2
	case ErrorCodeNetwork:
		return 3
	case ErrorCodeMalformedResponse:
		return 4
	case ErrorCodeFileNotFound:
		return 5
	case ErrorCodeSchemaMismatch:
		return 6
	case ErrorCodeThresholdExceeded:
		return 7
	case ErrorCodeIO:
		return 8
	default:
		return 1
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// op is optional operation tag; orig is the wrapped cause
type Error struct {
	orig error
	msg  string
	code ErrorCode
	op   string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the message without the wrapped cause
func (e *Error) Message() string { return e.msg }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the mapped exit status for any error; 0 for nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return ExitStatus(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Networkf returns a transport error
func Networkf(format string, a ...any) error { return Newf(ErrorCodeNetwork, format, a...) }

// Malformedf returns a malformed response error
func Malformedf(format string, a ...any) error { return Newf(ErrorCodeMalformedResponse, format, a...) }

// NotFoundf returns a file not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeFileNotFound, format, a...) }

// SchemaMismatchf returns a schema mismatch error
func SchemaMismatchf(format string, a ...any) error { return Newf(ErrorCodeSchemaMismatch, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
