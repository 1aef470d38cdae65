package errors

import (
	stderrors "errors"
	"fmt"
)

// LabError is the structured error type for labsite.
// It carries enough context for logging and for user-facing CLI messages.
type LabError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *LabError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LabError) Unwrap() error {
	return e.Cause
}

// Is matches another LabError by code, so errors.Is works across instances.
func (e *LabError) Is(target error) bool {
	if t, ok := target.(*LabError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *LabError) WithDetail(key, value string) *LabError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *LabError) WithSuggestion(suggestion string) *LabError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LabError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *LabError {
	return &LabError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a LabError from an existing error.
// The error's message becomes the LabError message.
func Wrap(code string, err error) *LabError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LabError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *LabError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *LabError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *LabError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var le *LabError
	if stderrors.As(err, &le) {
		return le.Retryable
	}
	return false
}

// GetCode extracts the error code from a LabError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var le *LabError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ""
}

// GetCategory extracts the category from a LabError anywhere in the chain.
func GetCategory(err error) Category {
	var le *LabError
	if stderrors.As(err, &le) {
		return le.Category
	}
	return ""
}
