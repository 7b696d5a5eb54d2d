package common

import "errors"

// Business logic errors. Handlers map these to HTTP classes with errors.Is:
// validation → 400, conflict → 409, not found → 404, anything else → 500.
var (
	// Validation errors (caught before any write, zero side effects)
	ErrValidation       = errors.New("validation failed")
	ErrMissingField     = errors.New("required field missing")
	ErrInvalidAuthorID  = errors.New("invalid author id")
	ErrEmptyCategorySet = errors.New("at least one category is required")
	ErrPrimaryNotInSet  = errors.New("primary category must be one of the selected categories")
	ErrInvalidStatus    = errors.New("invalid article status")

	// Conflict errors (surfaced after rollback)
	ErrDuplicateSlug = errors.New("an article with this slug already exists")

	// Not found
	ErrNewsNotFound     = errors.New("news article not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Persistence errors (datastore failure mid-transaction, full rollback)
	ErrPersistence = errors.New("persistence failure")

	// Auth
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// IsValidationError reports whether err belongs to the validation class
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidAuthorID) ||
		errors.Is(err, ErrEmptyCategorySet) ||
		errors.Is(err, ErrPrimaryNotInSet) ||
		errors.Is(err, ErrInvalidStatus)
}
