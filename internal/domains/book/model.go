package book

import (
	"time"
)

// Book represents the core Book entity.
// This is the domain model, independent of database/API concerns.
//
// A book belongs to exactly one author, referenced by id. The owning side
// never changes after creation - a book is not re-parented.
type Book struct {
	// Identity - bigserial surrogate key, 0 until first persist
	ID int64 `json:"id" db:"id"`

	// Content
	Title string `json:"title" db:"title"` // Required, non-empty
	Pages int    `json:"pages" db:"pages_number"`

	// Owning author, set at creation and immutable afterwards
	AuthorID int64 `json:"author_id" db:"author_id"`

	// Soft-delete flag. Flagged rows stay in storage but are invisible
	// to every active read path.
	Deleted bool `json:"deleted" db:"deleted"`

	// Set once on insert, never updated
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// New builds a fully-formed Book. id 0 means not yet persisted.
// Performs no validation; the request layer validates before entities
// are ever constructed.
func New(id int64, title string, pages int, authorID int64) *Book {
	return &Book{
		ID:       id,
		Title:    title,
		Pages:    pages,
		AuthorID: authorID,
	}
}

// Equal implements identity-based equality: two books are equal iff both
// have assigned ids and those ids match. An unsaved book (id 0) is never
// equal to another instance, so two transient books can't collide in
// id-keyed maps or sets.
func (b *Book) Equal(other *Book) bool {
	if other == nil {
		return false
	}
	if b == other {
		return true
	}
	if b.ID == 0 || other.ID == 0 {
		return false
	}
	return b.ID == other.ID
}
