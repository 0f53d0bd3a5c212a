package author

import (
	"time"

	"library-backend/internal/domains/book"
)

// Author represents the core Author entity and is the consistency
// boundary for its books: soft-deleting an author must, in the same
// transaction, soft-delete every book it currently owns.
//
// The book collection is not a live view. The store materializes the
// active (deleted = false) subset fresh on every read, and the entity
// only ever hands out snapshots of it.
type Author struct {
	// Identity - bigserial surrogate key, 0 until first persist
	ID int64 `json:"id" db:"id"`

	Name string `json:"name" db:"name"` // Required, non-empty

	// Soft-delete flag
	Deleted bool `json:"deleted" db:"deleted"`

	// Set once on insert, never updated
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Active books as loaded by the store, plus any attached in memory
	// since. Unexported: access goes through Books/AddBook so both sides
	// of the author-book link stay consistent.
	books []*book.Book
}

// Build constructs a fully-formed Author. id 0 means not yet persisted.
// No validation happens here; the request layer validates before the
// service constructs entities.
func Build(id int64, name string) *Author {
	return &Author{
		ID:   id,
		Name: name,
	}
}

// Equal implements identity-based equality: equal iff both ids are
// assigned and match. An unsaved author (id 0) is never equal to
// anything, including another unsaved author, so transient instances
// are never treated as interchangeable.
func (a *Author) Equal(other *Author) bool {
	if other == nil {
		return false
	}
	if a == other {
		return true
	}
	if a.ID == 0 || other.ID == 0 {
		return false
	}
	return a.ID == other.ID
}

// Books returns a snapshot of the attached book collection. Mutating the
// returned slice never affects the author.
func (a *Author) Books() []*book.Book {
	snapshot := make([]*book.Book, len(a.books))
	copy(snapshot, a.books)
	return snapshot
}

// AddBook appends b to the author's collection and back-fills the owner
// reference on the book, keeping the bidirectional link consistent.
// Call only on an active author.
func (a *Author) AddBook(b *book.Book) {
	a.books = append(a.books, b)
	b.AuthorID = a.ID
}

// AttachBooks replaces the in-memory collection. Used by the store when
// materializing an author; the slice it passes holds only active books.
func (a *Author) AttachBooks(books []*book.Book) {
	a.books = books
}

// SoftDeleteAllBooks flags every currently-attached book as deleted.
// It does not flag the author itself - the caller does that in the same
// transaction.
func (a *Author) SoftDeleteAllBooks() {
	for _, b := range a.books {
		b.Deleted = true
	}
}
