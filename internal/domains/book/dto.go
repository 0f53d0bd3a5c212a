package book

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxTitleLength = 500

// UpdateBookRequest - PUT /v1/books/:id
// Overwrites title and page count in place; ownership never changes.
type UpdateBookRequest struct {
	Title string `json:"title"`
	Pages int    `json:"pages"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.ErrorObject(validation.NewError("validation_required", ErrInvalidTitle.Error())),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Pages,
			validation.Required.ErrorObject(validation.NewError("validation_required", ErrInvalidPages.Error())),
			validation.Min(1).ErrorObject(validation.NewError("validation_min", ErrInvalidPages.Error())),
		),
	)
}

// BookResponse - book snapshot as exposed to clients
type BookResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Pages     int       `json:"pages"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse maps the entity to its wire representation.
// Pure function, no side effects.
func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Pages:     b.Pages,
		AuthorID:  b.AuthorID,
		CreatedAt: b.CreatedAt,
	}
}
