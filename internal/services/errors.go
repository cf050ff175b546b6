package services

import (
	"errors"

	apperrors "github.com/pitchside/cricket-quiz-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")
	ErrInternalError    = errors.New("internal server error")

	// Quiz specific errors
	ErrQuizNotFound = errors.New("quiz not found")
	ErrQuizInactive = errors.New("quiz is not available")

	// User specific errors
	ErrUserNotFound    = errors.New("user not found")
	ErrNoAttemptsFound = errors.New("no quiz attempt found")

	// Submission specific errors. A concurrency conflict is retried
	// internally; callers only see it once the retry budget is exhausted.
	ErrConcurrencyConflict = errors.New("concurrent submission conflict")
	ErrPersistenceFailure  = errors.New("failed to record attempt")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNoAttemptsFound)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuizInactive)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsServerError checks if error should surface as a transient server
// failure. The caller must assume the attempt was not recorded and may
// resubmit.
func IsServerError(err error) bool {
	return errors.Is(err, ErrInternalError) ||
		errors.Is(err, ErrConcurrencyConflict) ||
		errors.Is(err, ErrPersistenceFailure)
}
