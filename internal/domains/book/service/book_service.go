package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book"
	"library-backend/internal/shared"
	pkgdb "library-backend/pkg/database"
)

// BookService implements book.Service.
// Every mutating use-case runs as one atomic transaction: the whole
// read-modify-write sequence commits or none of it is visible.
type BookService struct {
	repo book.Repository
	tx   pkgdb.TxManager
}

func NewService(repo book.Repository, tx pkgdb.TxManager) book.Service {
	return &BookService{
		repo: repo,
		tx:   tx,
	}
}

func (s *BookService) ListActiveBooks(ctx context.Context, page shared.PageRequest) ([]book.Book, shared.PageMeta, error) {
	page = page.Normalize()

	books, total, err := s.repo.FindAllActive(ctx, page)
	if err != nil {
		return nil, shared.PageMeta{}, err
	}

	return books, shared.NewPageMeta(page, total), nil
}

func (s *BookService) GetActiveBook(ctx context.Context, id int64) (*book.Book, error) {
	if id <= 0 {
		return nil, book.ErrInvalidID
	}

	return s.repo.FindActiveByID(ctx, id)
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req *book.UpdateBookRequest) (*book.Book, error) {
	if id <= 0 {
		return nil, book.ErrInvalidID
	}
	if req == nil {
		return nil, book.ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *book.Book
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := s.repo.FindActiveByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		b.Title = req.Title
		b.Pages = req.Pages

		updated, err = s.repo.Save(txCtx, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteBook soft-deletes one book and leaves its author untouched.
// A missing or already-deleted target is a silent no-op, so the operation
// is idempotent and safe to retry.
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return book.ErrInvalidID
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		b, err := s.repo.FindActiveByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return nil
			}
			return err
		}

		b.Deleted = true
		if _, err := s.repo.Save(txCtx, b); err != nil {
			return err
		}

		log.Debug().Int64("book_id", id).Msg("book soft-deleted")
		return nil
	})
}
