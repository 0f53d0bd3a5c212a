package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book"
	"library-backend/internal/shared"
	"library-backend/pkg/cache"
	pkgdb "library-backend/pkg/database"
)

// postgresRepository implements book.Repository over pgx.
// Statements run against the ambient transaction when one is present in
// the context, otherwise against the pool.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) book.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Only the paginated listing is cached. Single-book reads always hit the
// database so a soft-delete is visible on the very next fetch.
const (
	bookListKeyPrefix = "books:list:"
	bookListCacheTTL  = 15 * time.Minute
)

const bookColumns = "id, title, pages_number, author_id, deleted, created_at"

func (r *postgresRepository) db(ctx context.Context) pkgdb.DBTX {
	if tx, ok := pkgdb.TxFromContext(ctx); ok {
		return tx
	}
	return r.pool
}

func scanBook(row pgx.Row, b *book.Book) error {
	return row.Scan(
		&b.ID,
		&b.Title,
		&b.Pages,
		&b.AuthorID,
		&b.Deleted,
		&b.CreatedAt,
	)
}

// FindActiveByID collapses "not found" and "found but deleted" into one
// outcome: from the caller's perspective both mean the book does not
// exist for active use.
func (r *postgresRepository) FindActiveByID(ctx context.Context, id int64) (*book.Book, error) {
	return r.findActive(ctx, id, false)
}

// FindActiveByIDForUpdate locks the row until the ambient transaction
// ends, serializing concurrent read-modify-write sequences on this book.
func (r *postgresRepository) FindActiveByIDForUpdate(ctx context.Context, id int64) (*book.Book, error) {
	return r.findActive(ctx, id, true)
}

func (r *postgresRepository) findActive(ctx context.Context, id int64, forUpdate bool) (*book.Book, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM books
        WHERE id = $1 AND deleted = false
    `, bookColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	var b book.Book
	err := scanBook(r.db(ctx).QueryRow(ctx, query, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return &b, nil
}

// FindAllActive returns one page of non-deleted books. Total element and
// page counts reflect only the active subset.
func (r *postgresRepository) FindAllActive(ctx context.Context, page shared.PageRequest) ([]book.Book, int64, error) {
	cacheKey := fmt.Sprintf("%s%d:%d:%s", bookListKeyPrefix, page.Page, page.Size, page.Sort)

	var cached listCacheEntry
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached.Books, cached.Total, nil
	}

	sortColumn := "created_at"
	switch page.Sort {
	case "title":
		sortColumn = "title"
	case "pages":
		sortColumn = "pages_number"
	case "id":
		sortColumn = "id"
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM books
        WHERE deleted = false
        ORDER BY %s, id
        LIMIT $1 OFFSET $2
    `, bookColumns, sortColumn)

	rows, err := r.db(ctx).Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating books: %w", err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM books WHERE deleted = false`
	if err := r.db(ctx).QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, listCacheEntry{Books: books, Total: total}, bookListCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("book list cache set failed")
	}

	return books, total, nil
}

type listCacheEntry struct {
	Books []book.Book `json:"books"`
	Total int64       `json:"total"`
}

// Save upserts by id. No visibility filter applies on write: flipping the
// deleted flag to true is a legitimate save.
func (r *postgresRepository) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b.ID == 0 {
		query := fmt.Sprintf(`
            INSERT INTO books (title, pages_number, author_id, deleted)
            VALUES ($1, $2, $3, $4)
            RETURNING %s
        `, bookColumns)

		if err := scanBook(r.db(ctx).QueryRow(ctx, query, b.Title, b.Pages, b.AuthorID, b.Deleted), b); err != nil {
			return nil, fmt.Errorf("failed to create book: %w", err)
		}
	} else {
		query := `
            UPDATE books
            SET title = $1, pages_number = $2, deleted = $3
            WHERE id = $4
        `
		if _, err := r.db(ctx).Exec(ctx, query, b.Title, b.Pages, b.Deleted, b.ID); err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	r.invalidateListCache(ctx)

	return b, nil
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, bookListKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("book list cache invalidation failed")
	}
}
