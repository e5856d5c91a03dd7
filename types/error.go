package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Packing and provider error codes.
const (
	ErrInvalidBlock     ErrorCode = "INVALID_BLOCK"
	ErrTokenizerError   ErrorCode = "TOKENIZER_ERROR"
	ErrContextOverflow  ErrorCode = "CONTEXT_OVERFLOW"
	ErrRequestTooLarge  ErrorCode = "REQUEST_TOO_LARGE"
	ErrProviderFailure  ErrorCode = "PROVIDER_FAILURE"
	ErrSessionExhausted ErrorCode = "SESSION_EXHAUSTED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// NewContextOverflowError builds the recoverable overflow error raised when
// a provider rejects a request for exceeding the model's input window.
func NewContextOverflowError(provider string, cause error) *Error {
	return &Error{
		Code:      ErrContextOverflow,
		Message:   "provider rejected request: context window exceeded",
		Retryable: true,
		Provider:  provider,
		Cause:     cause,
	}
}

// NewRequestTooLargeError builds the fatal error raised when no further
// reduction is possible or the retry ceiling is exhausted.
func NewRequestTooLargeError(cause error) *Error {
	return &Error{
		Code: ErrRequestTooLarge,
		Message: "request exceeds the model's context window and cannot be " +
			"reduced further; use a larger-context model or narrow the input scope",
		Retryable: false,
		Cause:     cause,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
