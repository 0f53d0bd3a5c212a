package author

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/domains/book"
)

const MaxNameLength = 255

// CreateAuthorRequest - POST /v1/authors
type CreateAuthorRequest struct {
	Name string `json:"name"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.ErrorObject(validation.NewError("validation_required", ErrInvalidName.Error())),
			validation.Length(1, MaxNameLength),
		),
	)
}

// AddBookRequest - POST /v1/authors/:id/books
// The owning author comes from the path; it is set at creation and the
// book is never re-parented.
type AddBookRequest struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

func (r AddBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.ErrorObject(validation.NewError("validation_required", book.ErrInvalidTitle.Error())),
			validation.Length(1, book.MaxTitleLength),
		),
		validation.Field(&r.Pages,
			validation.Required.ErrorObject(validation.NewError("validation_required", book.ErrInvalidPages.Error())),
			validation.Min(1).ErrorObject(validation.NewError("validation_min", book.ErrInvalidPages.Error())),
		),
	)
}

// AuthorResponse - author snapshot with its active books
type AuthorResponse struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	Books     []book.BookResponse `json:"books"`
}

// ToResponseWithBooks maps the author and its attached active books.
func (a *Author) ToResponseWithBooks() *AuthorResponse {
	attached := a.Books()
	books := make([]book.BookResponse, 0, len(attached))
	for _, b := range attached {
		if b.Deleted {
			continue
		}
		books = append(books, *b.ToResponse())
	}

	return &AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		Books:     books,
	}
}

// ToResponseWithoutBooks maps the author with an empty book view.
// Used right after creation, when no books can exist yet.
func (a *Author) ToResponseWithoutBooks() *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		Books:     []book.BookResponse{},
	}
}
