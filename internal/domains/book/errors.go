package book

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Validation errors - raised before any store access
	ErrInvalidID    = errors.New("book id must be positive")
	ErrInvalidTitle = errors.New("book title must not be blank")
	ErrInvalidPages = errors.New("book page count must be positive")
	ErrNilRequest   = errors.New("book request must not be nil")

	// Business rule errors
	// ErrBookNotFound covers both a missing row and a soft-deleted one;
	// callers cannot tell them apart.
	ErrBookNotFound = errors.New("book not found")
)

func isValidationError(err error) bool {
	var vErrs validation.Errors
	return errors.As(err, &vErrs)
}

// ToErrorCode converts an error to the API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidTitle),
		errors.Is(err, ErrInvalidPages),
		errors.Is(err, ErrNilRequest),
		isValidationError(err):
		return "INVALID_BOOK_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidTitle),
		errors.Is(err, ErrInvalidPages),
		errors.Is(err, ErrNilRequest),
		isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
