package quicklang

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyInput is returned when the input text is blank.
	ErrEmptyInput = &ValidationError{Field: "input_text", Message: "please enter some text to translate"}

	// ErrMissingAPIKey is returned when no API key is active for the session.
	ErrMissingAPIKey = errors.New("no API key configured: please enter a valid API key")

	// ErrInvalidAPIKey is returned when an API key fails validation.
	ErrInvalidAPIKey = errors.New("invalid API key: please check and try again")

	// ErrBusy is returned while another request of the same session is in flight.
	ErrBusy = errors.New("a request is already being processed")

	// ErrDeclined is returned when the user declines to send a long text.
	ErrDeclined = errors.New("request declined by user")

	// ErrNothingToExport is returned when there is no content to export.
	ErrNothingToExport = errors.New("there is no content to export")
)

// ProviderError indicates an AI engine failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Engine    Engine
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	prefix := "provider error"
	if e.Engine != "" {
		prefix = fmt.Sprintf("provider error (%s)", e.Engine)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a session-state store failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalidValue(field, value string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("unsupported value %q", value)}
}

// DuplicateRequestError indicates that the exact same request was already
// processed successfully. No dispatch occurred.
type DuplicateRequestError struct {
	Fingerprint Fingerprint
	Since       time.Time // When the previous identical request completed, if known
}

func (e *DuplicateRequestError) Error() string {
	return "this exact request has already been processed; make some changes to translate again"
}

// IsDuplicate reports whether err is a duplicate-request rejection.
func IsDuplicate(err error) bool {
	var dup *DuplicateRequestError
	return errors.As(err, &dup)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
