package book

import (
	"context"

	"library-backend/internal/shared"
)

// Service defines the book use-cases.
//
// Reads and in-place updates treat a missing or soft-deleted book as an
// error because the caller expects it to exist. Delete is an idempotent
// no-op on a missing target: deleting twice, or deleting something
// already gone, succeeds silently. That keeps retry-after-timeout simple
// for callers and leaks no existence information through error codes.
type Service interface {
	// ListActiveBooks returns a page of non-deleted books.
	ListActiveBooks(ctx context.Context, page shared.PageRequest) ([]Book, shared.PageMeta, error)

	// GetActiveBook returns an active book or ErrBookNotFound.
	GetActiveBook(ctx context.Context, id int64) (*Book, error)

	// UpdateBook overwrites title and page count of an active book.
	// Errors: ErrBookNotFound if absent or soft-deleted.
	UpdateBook(ctx context.Context, id int64, req *UpdateBookRequest) (*Book, error)

	// DeleteBook soft-deletes a book. Never affects the owning author.
	// Total over any positive id: a missing target is not an error.
	DeleteBook(ctx context.Context, id int64) error
}
