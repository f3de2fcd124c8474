package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates a history record does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed request. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ProviderError is a failure raised by an image provider during one attempt.
type ProviderError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewStatusError classifies an HTTP failure. Throttling, timeouts and server errors are
// retryable; other statuses are terminal.
func NewStatusError(provider string, statusCode int, err error) *ProviderError {
	retryable := statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusRequestTimeout ||
		statusCode >= http.StatusInternalServerError
	return &ProviderError{Provider: provider, StatusCode: statusCode, Retryable: retryable, Err: err}
}

// RetryError is returned once the retry budget is spent or a terminal error stops retrying.
type RetryError struct {
	Attempts   int
	RetryCount int
	Err        error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err may succeed on a later attempt. Unclassified errors
// are treated as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return true
}

// RetryCountOf extracts the retry count carried by err, or 0.
func RetryCountOf(err error) int {
	var retryErr *RetryError
	if errors.As(err, &retryErr) {
		return retryErr.RetryCount
	}
	return 0
}
