package author

import (
	"context"
)

// Service defines the author use-cases. Each call is one atomic unit of
// work against the store.
//
// GetActiveAuthor and AddBookToAuthor raise ErrAuthorNotFound on a
// missing or soft-deleted author. DeleteAuthor deliberately does not:
// deleting an absent author is a silent, idempotent no-op.
type Service interface {
	// GetActiveAuthor loads an active author with its active books.
	GetActiveAuthor(ctx context.Context, id int64) (*Author, error)

	// CreateAuthor builds a new author (id 0), persists it, and returns
	// it with an empty book view.
	CreateAuthor(ctx context.Context, req *CreateAuthorRequest) (*Author, error)

	// AddBookToAuthor attaches a new book to an active author and
	// returns the author with all its active books. Re-validating that
	// the author is active inside the transaction is the sole admission
	// check: a deleted author accepts no new books, ever.
	AddBookToAuthor(ctx context.Context, authorID int64, req *AddBookRequest) (*Author, error)

	// DeleteAuthor soft-deletes the author and, in the same transaction,
	// every book it currently owns.
	DeleteAuthor(ctx context.Context, id int64) error
}
