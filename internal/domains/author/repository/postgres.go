package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/pkg/cache"
	pkgdb "library-backend/pkg/database"
)

// postgresRepository implements author.Repository over pgx.
// The author-book relationship lives in the database: books hold the
// owning author's id, and the author's collection is reconstructed by a
// query on that foreign id filtered to deleted = false. There is no
// cached or lazily-materialized collection anywhere.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) author.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cascaded book writes change what the book listing shows, so author
// saves invalidate the book list cache the same way book saves do.
const bookListKeyPrefix = "books:list:"

func (r *postgresRepository) db(ctx context.Context) pkgdb.DBTX {
	if tx, ok := pkgdb.TxFromContext(ctx); ok {
		return tx
	}
	return r.pool
}

func (r *postgresRepository) FindActiveByID(ctx context.Context, id int64) (*author.Author, error) {
	return r.findActive(ctx, id, false)
}

func (r *postgresRepository) FindActiveByIDForUpdate(ctx context.Context, id int64) (*author.Author, error) {
	return r.findActive(ctx, id, true)
}

func (r *postgresRepository) findActive(ctx context.Context, id int64, forUpdate bool) (*author.Author, error) {
	query := `
        SELECT id, name, deleted, created_at
        FROM authors
        WHERE id = $1 AND deleted = false
    `
	if forUpdate {
		query += " FOR UPDATE"
	}

	var a author.Author
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Deleted,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	books, err := r.loadActiveBooks(ctx, id, forUpdate)
	if err != nil {
		return nil, err
	}
	a.AttachBooks(books)

	return &a, nil
}

// loadActiveBooks materializes the active subset of the author's books,
// fresh on every read. When forUpdate is set the rows are locked too,
// since a cascade is about to rewrite them.
func (r *postgresRepository) loadActiveBooks(ctx context.Context, authorID int64, forUpdate bool) ([]*book.Book, error) {
	query := `
        SELECT id, title, pages_number, author_id, deleted, created_at
        FROM books
        WHERE author_id = $1 AND deleted = false
        ORDER BY id
    `
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := r.db(ctx).Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author books: %w", err)
	}
	defer rows.Close()

	var books []*book.Book
	for rows.Next() {
		var b book.Book
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Pages,
			&b.AuthorID,
			&b.Deleted,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author books: %w", err)
	}

	return books, nil
}

// Save upserts the author row and cascades the attached books: inserts
// the ones without an id, updates the rest. Because SoftDeleteAllBooks
// only flips flags on attached books, the cascade is what makes an
// author delete and its book deletes one atomic write.
func (r *postgresRepository) Save(ctx context.Context, a *author.Author) (*author.Author, error) {
	if a.ID == 0 {
		query := `
            INSERT INTO authors (name, deleted)
            VALUES ($1, $2)
            RETURNING id, created_at
        `
		if err := r.db(ctx).QueryRow(ctx, query, a.Name, a.Deleted).Scan(&a.ID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to create author: %w", err)
		}
	} else {
		query := `
            UPDATE authors
            SET name = $1, deleted = $2
            WHERE id = $3
        `
		if _, err := r.db(ctx).Exec(ctx, query, a.Name, a.Deleted, a.ID); err != nil {
			return nil, fmt.Errorf("failed to update author: %w", err)
		}
	}

	for _, b := range a.Books() {
		if err := r.saveBook(ctx, b); err != nil {
			return nil, err
		}
	}

	r.invalidateBookListCache(ctx)

	return a, nil
}

func (r *postgresRepository) saveBook(ctx context.Context, b *book.Book) error {
	if b.ID == 0 {
		query := `
            INSERT INTO books (title, pages_number, author_id, deleted)
            VALUES ($1, $2, $3, $4)
            RETURNING id, created_at
        `
		if err := r.db(ctx).QueryRow(ctx, query, b.Title, b.Pages, b.AuthorID, b.Deleted).Scan(&b.ID, &b.CreatedAt); err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		return nil
	}

	query := `
        UPDATE books
        SET title = $1, pages_number = $2, deleted = $3
        WHERE id = $4
    `
	if _, err := r.db(ctx).Exec(ctx, query, b.Title, b.Pages, b.Deleted, b.ID); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

func (r *postgresRepository) invalidateBookListCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, bookListKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("book list cache invalidation failed")
	}
}
