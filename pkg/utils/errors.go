package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// AsCustomError extracts a CustomError from err's chain
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "invalid_request",
		Message: message,
	}
}

func NewForbiddenError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Kind:    "forbidden",
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "internal_error",
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "validation_failed",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewNotFoundError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Kind:    "not_found",
		Message: message,
	}
}

// NewUnsupportedFileError is returned for uploads that cannot be turned into text
func NewUnsupportedFileError(detail string, err error) *CustomError {
	return &CustomError{
		Code:    http.StatusUnsupportedMediaType,
		Kind:    "unsupported_file",
		Message: "Failed to parse resume",
		Detail:  detail,
		Err:     err,
	}
}

func NewPayloadTooLargeError(limit int64) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestEntityTooLarge,
		Kind:    "request_too_large",
		Message: "Request body too large",
		Detail:  fmt.Sprintf("limit is %d bytes", limit),
	}
}

func NewTooManyRequestsError() *CustomError {
	return &CustomError{
		Code:    http.StatusTooManyRequests,
		Kind:    "rate_limited",
		Message: "Too many requests, slow down",
	}
}

func NewLLMError(detail string, err error) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Kind:    "llm_failed",
		Message: "LLM processing failed",
		Detail:  detail,
		Err:     err,
	}
}

func NewTimeoutError() *CustomError {
	return &CustomError{
		Code:    http.StatusGatewayTimeout,
		Kind:    "timeout",
		Message: "Request timed out",
	}
}
