package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for the user-facing layers
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindValidation        Kind = "validation"
	KindTransport         Kind = "transport"
	KindMalformedResponse Kind = "malformed_response"
	KindBusy              Kind = "busy"
)

// Common error values
var (
	// Validation errors never reach the network
	ErrNoFileSelected    = Validation("no file selected")
	ErrUnsupportedFormat = Validation("unsupported file format")
	ErrFileUnreadable    = Validation("selected file could not be stored")

	// A submission is already in flight
	ErrBusy = &Error{kind: KindBusy, message: "transcription already in progress"}
)

// Error represents a classified error
type Error struct {
	kind    Kind
	message string
	status  int
	cause   error
}

// Validation creates a client-side validation error
func Validation(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

// Transport creates a transport error wrapping cause
func Transport(cause error, message string) *Error {
	return &Error{kind: KindTransport, message: message, cause: cause}
}

// Status creates a transport error for a non-success HTTP status
func Status(status int, body string) *Error {
	msg := fmt.Sprintf("service returned status %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &Error{kind: KindTransport, message: msg, status: status}
}

// Malformed creates a malformed-response error
func Malformed(cause error, message string) *Error {
	return &Error{kind: KindMalformedResponse, message: message, cause: cause}
}

// Wrap wraps an error with additional context, keeping its kind
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    KindOf(err),
		message: message,
		status:  StatusCode(err),
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context, keeping its kind
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error classification
func (e *Error) Kind() Kind {
	return e.kind
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// KindOf returns the kind of the outermost classified error in the chain
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by a transport error, or 0
func StatusCode(err error) int {
	var e *Error
	for stderrors.As(err, &e) {
		if e.status != 0 {
			return e.status
		}
		err = e.cause
	}
	return 0
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}

// IsTransport reports whether err is a transport error
func IsTransport(err error) bool {
	return IsKind(err, KindTransport)
}

// IsMalformed reports whether err is a malformed-response error
func IsMalformed(err error) bool {
	return IsKind(err, KindMalformedResponse)
}

// IsUploadFailure reports whether err came from the upload itself
func IsUploadFailure(err error) bool {
	return IsTransport(err) || IsMalformed(err)
}
