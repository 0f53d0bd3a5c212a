package author

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Validation errors - raised before any store access
	ErrInvalidID   = errors.New("author id must be positive")
	ErrInvalidName = errors.New("author name must not be blank")
	ErrNilRequest  = errors.New("author request must not be nil")

	// Business rule errors
	// ErrAuthorNotFound covers both a missing row and a soft-deleted one.
	ErrAuthorNotFound = errors.New("author not found")
)

func isValidationError(err error) bool {
	var vErrs validation.Errors
	return errors.As(err, &vErrs)
}

// ToErrorCode converts an error to the API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrNilRequest),
		isValidationError(err):
		return "INVALID_AUTHOR_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrNilRequest),
		isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
