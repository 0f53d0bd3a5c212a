package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	pkgdb "library-backend/pkg/database"
)

// AuthorService implements author.Service.
//
// AddBookToAuthor and DeleteAuthor are read-then-write sequences whose
// correctness depends on the read staying current, so both run inside a
// single transaction with the author row locked. Without that, a delete
// interleaved between read and write could resurrect a book under a
// deleted author, or attach a new book to an author being deleted.
type AuthorService struct {
	repo author.Repository
	tx   pkgdb.TxManager
}

func NewService(repo author.Repository, tx pkgdb.TxManager) author.Service {
	return &AuthorService{
		repo: repo,
		tx:   tx,
	}
}

func (s *AuthorService) GetActiveAuthor(ctx context.Context, id int64) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrInvalidID
	}

	return s.repo.FindActiveByID(ctx, id)
}

func (s *AuthorService) CreateAuthor(ctx context.Context, req *author.CreateAuthorRequest) (*author.Author, error) {
	if req == nil {
		return nil, author.ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *author.Author
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Save(txCtx, author.Build(0, req.Name))
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("author_id", created.ID).Msg("author created")
	return created, nil
}

func (s *AuthorService) AddBookToAuthor(ctx context.Context, authorID int64, req *author.AddBookRequest) (*author.Author, error) {
	if authorID <= 0 {
		return nil, author.ErrInvalidID
	}
	if req == nil {
		return nil, author.ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *author.Author
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// The active-author load is the admission check: a deleted
		// author yields ErrAuthorNotFound and nothing is written.
		a, err := s.repo.FindActiveByIDForUpdate(txCtx, authorID)
		if err != nil {
			return err
		}

		a.AddBook(book.New(0, req.Title, req.Pages, a.ID))

		updated, err = s.repo.Save(txCtx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAuthor soft-deletes the author and cascades to every book it
// currently owns, all in one transaction. A missing or already-deleted
// author is a silent no-op, so calling this twice is indistinguishable
// from calling it once.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id int64) error {
	if id <= 0 {
		return author.ErrInvalidID
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		a, err := s.repo.FindActiveByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, author.ErrAuthorNotFound) {
				return nil
			}
			return err
		}

		a.SoftDeleteAllBooks()
		a.Deleted = true

		if _, err := s.repo.Save(txCtx, a); err != nil {
			return err
		}

		log.Debug().Int64("author_id", id).Msg("author soft-deleted with books")
		return nil
	})
}
