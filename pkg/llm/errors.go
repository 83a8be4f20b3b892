package llm

import (
	"errors"
	"fmt"
)

// ProviderError classifies an upstream failure as transient (timeouts,
// 5xx, connection resets — worth retrying) or permanent (4xx, invalid
// content — retrying cannot help).
type ProviderError struct {
	Transient  bool
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func NewTransientError(statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{Transient: true, StatusCode: statusCode, Message: message, Cause: cause}
}

func NewPermanentError(statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{Transient: false, StatusCode: statusCode, Message: message, Cause: cause}
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.Transient
}
