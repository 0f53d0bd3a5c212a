package book

import (
	"context"

	"library-backend/internal/shared"
)

// Repository defines data access for books with the "logically alive"
// predicate baked into every read path: no caller can observe a
// soft-deleted row as if it were live.
type Repository interface {
	// FindActiveByID returns the book only if it exists and is not
	// soft-deleted. A missing row and a flagged row both yield
	// ErrBookNotFound.
	FindActiveByID(ctx context.Context, id int64) (*Book, error)

	// FindActiveByIDForUpdate is FindActiveByID with a row lock.
	// Must run inside an ambient transaction; it serializes concurrent
	// read-modify-write sequences on the same book.
	FindActiveByIDForUpdate(ctx context.Context, id int64) (*Book, error)

	// FindAllActive returns one page of non-deleted books plus the total
	// active count. Ordering and slicing follow the page request.
	FindAllActive(ctx context.Context, page shared.PageRequest) ([]Book, int64, error)

	// Save upserts by id: insert when id is 0 (id and created_at come
	// back populated), update otherwise. Writes are not filtered - a
	// save may legitimately flip the deleted flag to true.
	Save(ctx context.Context, b *Book) (*Book, error)
}
