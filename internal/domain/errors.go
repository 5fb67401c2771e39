package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job cannot be found
	ErrJobNotFound = errors.New("job not found")

	// ErrCandidateNotFound is returned when a candidate cannot be found
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrInvalidStage is returned for a stage outside the pipeline
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidStatus is returned for a job status outside active/draft/archived
	ErrInvalidStatus = errors.New("invalid job status")

	// ErrStageConflict is returned when a stage change names a previous stage
	// that no longer matches the stored one
	ErrStageConflict = errors.New("candidate stage has changed")

	// ErrInvalidOrder is returned when a reorder request is not a permutation
	// of existing job ids
	ErrInvalidOrder = errors.New("invalid job order")
)

// ValidationError is a user input problem caught before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
