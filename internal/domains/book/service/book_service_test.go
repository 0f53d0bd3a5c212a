package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book"
	"library-backend/internal/shared"
)

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// fakeBookRepo keeps books in a map and honors the store contract:
// lookups see only non-deleted rows, listings are ordered and paged.
type fakeBookRepo struct {
	nextID    int64
	books     map[int64]*book.Book
	findCalls int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[int64]*book.Book)}
}

func (r *fakeBookRepo) insert(title string, pages int, deleted bool) int64 {
	r.nextID++
	r.books[r.nextID] = &book.Book{
		ID:        r.nextID,
		Title:     title,
		Pages:     pages,
		AuthorID:  1,
		Deleted:   deleted,
		CreatedAt: time.Now(),
	}
	return r.nextID
}

func (r *fakeBookRepo) findActive(id int64) (*book.Book, error) {
	r.findCalls++
	b, ok := r.books[id]
	if !ok || b.Deleted {
		return nil, book.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookRepo) FindActiveByID(_ context.Context, id int64) (*book.Book, error) {
	return r.findActive(id)
}

func (r *fakeBookRepo) FindActiveByIDForUpdate(_ context.Context, id int64) (*book.Book, error) {
	return r.findActive(id)
}

func (r *fakeBookRepo) FindAllActive(_ context.Context, page shared.PageRequest) ([]book.Book, int64, error) {
	var active []book.Book
	for _, b := range r.books {
		if !b.Deleted {
			active = append(active, *b)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	total := int64(len(active))
	start := page.Offset()
	if start > len(active) {
		start = len(active)
	}
	end := start + page.Limit()
	if end > len(active) {
		end = len(active)
	}

	return active[start:end], total, nil
}

func (r *fakeBookRepo) Save(_ context.Context, b *book.Book) (*book.Book, error) {
	clone := *b
	r.books[b.ID] = &clone
	return b, nil
}

func newBookService(t *testing.T) (book.Service, *fakeBookRepo) {
	t.Helper()
	repo := newFakeBookRepo()
	return NewService(repo, &fakeTxManager{}), repo
}

func TestGetActiveBook(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Onegin", 324, false)
	deletedID := repo.insert("Withdrawn", 100, true)

	t.Run("existing book", func(t *testing.T) {
		b, err := svc.GetActiveBook(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Onegin", b.Title)
		assert.Equal(t, 324, b.Pages)
	})

	t.Run("soft-deleted book is invisible", func(t *testing.T) {
		_, err := svc.GetActiveBook(ctx, deletedID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := svc.GetActiveBook(ctx, 404)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("non-positive id", func(t *testing.T) {
		_, err := svc.GetActiveBook(ctx, 0)
		assert.ErrorIs(t, err, book.ErrInvalidID)
	})
}

func TestUpdateBook(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Onegin", 324, false)

	updated, err := svc.UpdateBook(ctx, id, &book.UpdateBookRequest{Title: "Eugene Onegin", Pages: 400})
	require.NoError(t, err)

	assert.Equal(t, "Eugene Onegin", updated.Title)
	assert.Equal(t, 400, updated.Pages)
	assert.Equal(t, "Eugene Onegin", repo.books[id].Title, "update must be persisted")
}

func TestUpdateMissingBook(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Onegin", 324, false)

	_, err := svc.UpdateBook(ctx, 404, &book.UpdateBookRequest{Title: "Ghost", Pages: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	assert.Equal(t, "Onegin", repo.books[id].Title, "failed update must not touch other rows")
	assert.Len(t, repo.books, 1)
}

func TestUpdateDeletedBook(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Withdrawn", 100, true)

	_, err := svc.UpdateBook(ctx, id, &book.UpdateBookRequest{Title: "Revived", Pages: 100})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Equal(t, "Withdrawn", repo.books[id].Title)
}

func TestUpdateBookInvalidInput(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Onegin", 324, false)

	_, err := svc.UpdateBook(ctx, id, &book.UpdateBookRequest{Title: "", Pages: 10})
	assert.Error(t, err)

	_, err = svc.UpdateBook(ctx, id, &book.UpdateBookRequest{Title: "Onegin", Pages: 0})
	assert.Error(t, err)

	_, err = svc.UpdateBook(ctx, id, nil)
	assert.ErrorIs(t, err, book.ErrNilRequest)

	assert.Zero(t, repo.findCalls, "validation must fail before the store is consulted")
	assert.Equal(t, "Onegin", repo.books[id].Title)
}

func TestDeleteBookIsIdempotent(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	id := repo.insert("Onegin", 324, false)

	require.NoError(t, svc.DeleteBook(ctx, id))
	assert.True(t, repo.books[id].Deleted)

	assert.NoError(t, svc.DeleteBook(ctx, id), "second delete must be a silent no-op")
	assert.NoError(t, svc.DeleteBook(ctx, 9999), "deleting a missing book must succeed")

	_, err := svc.GetActiveBook(ctx, id)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestListActiveBooks(t *testing.T) {
	svc, repo := newBookService(t)
	ctx := context.Background()

	const activeCount = 23
	for i := 0; i < activeCount; i++ {
		repo.insert(fmt.Sprintf("Book %02d", i), 100+i, false)
	}
	repo.insert("Withdrawn A", 50, true)
	repo.insert("Withdrawn B", 60, true)

	t.Run("paging covers every active book exactly once", func(t *testing.T) {
		const size = 10
		seen := make(map[int64]int)

		page := 0
		for {
			books, meta, err := svc.ListActiveBooks(ctx, shared.PageRequest{Page: page, Size: size})
			require.NoError(t, err)
			assert.Equal(t, int64(activeCount), meta.Total)
			assert.Equal(t, 3, meta.TotalPages)

			for _, b := range books {
				assert.False(t, b.Deleted, "listing must never expose deleted books")
				seen[b.ID]++
			}

			page++
			if page >= meta.TotalPages {
				break
			}
		}

		assert.Len(t, seen, activeCount)
		for id, n := range seen {
			assert.Equal(t, 1, n, "book %d appeared on more than one page", id)
		}
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		books, meta, err := svc.ListActiveBooks(ctx, shared.PageRequest{Page: 50, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, books)
		assert.Equal(t, int64(activeCount), meta.Total)
	})

	t.Run("out-of-range paging inputs are normalized", func(t *testing.T) {
		books, meta, err := svc.ListActiveBooks(ctx, shared.PageRequest{Page: -1, Size: -5})
		require.NoError(t, err)
		assert.Len(t, books, shared.DefaultPageSize)
		assert.Equal(t, 0, meta.Page)
		assert.Equal(t, shared.DefaultPageSize, meta.Size)
	})
}
