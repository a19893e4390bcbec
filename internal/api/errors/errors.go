package errors

import (
	"fmt"
	"net/http"

	apperrors "whisper-transcription/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
	KindBadGateway         ErrorKind = "bad_gateway"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindBadGateway:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewServiceUnavailableError reports an unreachable dependency; cause goes into details
func NewServiceUnavailableError(message string, cause error) *APIError {
	apiErr := &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
	if cause != nil {
		apiErr.Details = map[string]string{"cause": cause.Error()}
	}
	return apiErr
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// FromDomain maps a classified domain error onto the HTTP surface.
// message is the user-visible text; the cause goes into details.
func FromDomain(err error, message string) *APIError {
	if err == nil {
		return nil
	}

	apiErr := &APIError{
		Message: message,
		Code:    string(apperrors.KindOf(err)),
		Details: map[string]string{"cause": err.Error()},
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		apiErr.Kind = KindValidation
	case apperrors.KindBusy:
		apiErr.Kind = KindConflict
	case apperrors.KindTransport, apperrors.KindMalformedResponse:
		apiErr.Kind = KindBadGateway
		if status := apperrors.StatusCode(err); status != 0 {
			apiErr.Details["upstream_status"] = fmt.Sprint(status)
		}
	default:
		apiErr.Kind = KindInternal
	}

	return apiErr
}
