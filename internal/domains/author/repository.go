package author

import (
	"context"
)

// Repository defines data access for the author aggregate. Every read
// path filters on deleted = false, for the author row and for the book
// collection it materializes: an author object, once loaded, never
// exposes soft-deleted books - by construction of the store, not by
// service-side filtering.
type Repository interface {
	// FindActiveByID loads an active author together with its active
	// books. A missing row and a soft-deleted row both yield
	// ErrAuthorNotFound.
	FindActiveByID(ctx context.Context, id int64) (*Author, error)

	// FindActiveByIDForUpdate is FindActiveByID with row locks on the
	// author and its books. Must run inside an ambient transaction; a
	// concurrent delete and add-book on the same author serialize here.
	FindActiveByIDForUpdate(ctx context.Context, id int64) (*Author, error)

	// Save upserts the author by id and cascades the attached book
	// collection: new books (id 0) are inserted, existing ones updated,
	// including deleted-flag flips. No visibility filter applies on
	// write.
	Save(ctx context.Context, a *Author) (*Author, error)
}
