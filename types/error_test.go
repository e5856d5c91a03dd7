package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrProviderFailure, "provider failed").
		WithCause(root).
		WithHTTPStatus(502).
		WithRetryable(true).
		WithProvider("claude")

	if GetErrorCode(err) != ErrProviderFailure {
		t.Fatalf("expected code %s, got %s", ErrProviderFailure, GetErrorCode(err))
	}
	if !IsRetryable(err) {
		t.Fatalf("expected retryable")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestError_Constructors(t *testing.T) {
	t.Parallel()

	cause := errors.New("maximum context length exceeded")

	overflow := NewContextOverflowError("claude", cause)
	if !IsErrorCode(overflow, ErrContextOverflow) {
		t.Fatalf("expected CONTEXT_OVERFLOW, got %s", GetErrorCode(overflow))
	}
	if !overflow.Retryable {
		t.Fatalf("overflow must be retryable")
	}

	fatal := NewRequestTooLargeError(overflow)
	if !IsErrorCode(fatal, ErrRequestTooLarge) {
		t.Fatalf("expected REQUEST_TOO_LARGE, got %s", GetErrorCode(fatal))
	}
	if fatal.Retryable {
		t.Fatalf("request-too-large must not be retryable")
	}
	if !errors.Is(fatal, cause) {
		t.Fatalf("expected cause chain to survive wrapping")
	}
}
