package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	bookservice "library-backend/internal/domains/book/service"
	"library-backend/internal/shared"
)

// fakeTxManager runs the unit of work directly; the fakes below apply
// writes immediately, which is equivalent to a committed transaction for
// these single-goroutine tests.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// fakeCatalogStore implements both author.Repository and book.Repository
// over in-memory maps, mirroring the store contract: reads see only
// non-deleted rows, author loads materialize active books fresh, saves
// cascade the attached collection.
type fakeCatalogStore struct {
	nextAuthorID int64
	nextBookID   int64
	authors      map[int64]*author.Author
	books        map[int64]*book.Book
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		authors: make(map[int64]*author.Author),
		books:   make(map[int64]*book.Book),
	}
}

func cloneBook(b *book.Book) *book.Book {
	clone := *b
	return &clone
}

func (s *fakeCatalogStore) FindActiveByID(_ context.Context, id int64) (*author.Author, error) {
	stored, ok := s.authors[id]
	if !ok || stored.Deleted {
		return nil, author.ErrAuthorNotFound
	}

	a := author.Build(stored.ID, stored.Name)
	a.CreatedAt = stored.CreatedAt

	var books []*book.Book
	for _, b := range s.books {
		if b.AuthorID == id && !b.Deleted {
			books = append(books, cloneBook(b))
		}
	}
	a.AttachBooks(books)

	return a, nil
}

func (s *fakeCatalogStore) FindActiveByIDForUpdate(ctx context.Context, id int64) (*author.Author, error) {
	return s.FindActiveByID(ctx, id)
}

func (s *fakeCatalogStore) Save(_ context.Context, a *author.Author) (*author.Author, error) {
	if a.ID == 0 {
		s.nextAuthorID++
		a.ID = s.nextAuthorID
		a.CreatedAt = time.Now()
	}

	stored := author.Build(a.ID, a.Name)
	stored.Deleted = a.Deleted
	stored.CreatedAt = a.CreatedAt
	s.authors[a.ID] = stored

	for _, b := range a.Books() {
		if b.ID == 0 {
			s.nextBookID++
			b.ID = s.nextBookID
			b.CreatedAt = time.Now()
		}
		s.books[b.ID] = cloneBook(b)
	}

	return a, nil
}

// book.Repository side of the fake, for the cross-entity scenarios.

func (s *fakeCatalogStore) findActiveBook(id int64) (*book.Book, error) {
	b, ok := s.books[id]
	if !ok || b.Deleted {
		return nil, book.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (s *fakeCatalogStore) SaveBook(_ context.Context, b *book.Book) (*book.Book, error) {
	s.books[b.ID] = cloneBook(b)
	return b, nil
}

// bookRepoAdapter exposes the fake through the book.Repository interface.
type bookRepoAdapter struct {
	store *fakeCatalogStore
}

func (r bookRepoAdapter) FindActiveByID(ctx context.Context, id int64) (*book.Book, error) {
	return r.store.findActiveBook(id)
}

func (r bookRepoAdapter) FindActiveByIDForUpdate(ctx context.Context, id int64) (*book.Book, error) {
	return r.store.findActiveBook(id)
}

func (r bookRepoAdapter) FindAllActive(_ context.Context, page shared.PageRequest) ([]book.Book, int64, error) {
	var active []book.Book
	for id := int64(1); id <= r.store.nextBookID; id++ {
		if b, ok := r.store.books[id]; ok && !b.Deleted {
			active = append(active, *b)
		}
	}

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

func (r bookRepoAdapter) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	return r.store.SaveBook(ctx, b)
}

func newServices(t *testing.T) (author.Service, book.Service, *fakeCatalogStore) {
	t.Helper()
	store := newFakeCatalogStore()
	tx := &fakeTxManager{}
	return NewService(store, tx), bookservice.NewService(bookRepoAdapter{store: store}, tx), store
}

func TestCreateAuthor(t *testing.T) {
	svc, _, store := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Pushkin", created.Name)
	assert.False(t, created.Deleted)
	assert.Empty(t, created.Books())
	assert.Len(t, store.authors, 1)
}

func TestCreateAuthorInvalidInput(t *testing.T) {
	svc, _, store := newServices(t)
	ctx := context.Background()

	_, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: ""})
	assert.Error(t, err)

	_, err = svc.CreateAuthor(ctx, nil)
	assert.ErrorIs(t, err, author.ErrNilRequest)

	assert.Empty(t, store.authors, "invalid input must not touch the store")
}

func TestGetActiveAuthor(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)

	t.Run("existing author", func(t *testing.T) {
		a, err := svc.GetActiveAuthor(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pushkin", a.Name)
	})

	t.Run("missing author", func(t *testing.T) {
		_, err := svc.GetActiveAuthor(ctx, 404)
		assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	})

	t.Run("non-positive id", func(t *testing.T) {
		_, err := svc.GetActiveAuthor(ctx, 0)
		assert.ErrorIs(t, err, author.ErrInvalidID)
	})
}

func TestAddBookToAuthor(t *testing.T) {
	svc, _, store := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)

	updated, err := svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	require.NoError(t, err)

	books := updated.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "Onegin", books[0].Title)
	assert.Equal(t, 324, books[0].Pages)
	assert.Equal(t, created.ID, books[0].AuthorID)
	assert.NotZero(t, books[0].ID, "persisted book must have an assigned id")
	assert.Len(t, store.books, 1)
}

func TestAddBookToMissingAuthor(t *testing.T) {
	svc, _, store := newServices(t)
	ctx := context.Background()

	_, err := svc.AddBookToAuthor(ctx, 42, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	assert.Empty(t, store.books)
}

func TestAddBookToDeletedAuthor(t *testing.T) {
	svc, _, store := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAuthor(ctx, created.ID))

	// The author row still physically exists; attachment must fail anyway.
	_, err = svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	assert.Empty(t, store.books)
}

func TestDeleteAuthorCascadesToBooks(t *testing.T) {
	svc, bookSvc, store := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)
	_, err = svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	require.NoError(t, err)
	updated, err := svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Boris Godunov", Pages: 210})
	require.NoError(t, err)
	require.Len(t, updated.Books(), 2)

	require.NoError(t, svc.DeleteAuthor(ctx, created.ID))

	_, err = svc.GetActiveAuthor(ctx, created.ID)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)

	// Every owned book reports deleted on direct lookup.
	for id, b := range store.books {
		assert.True(t, b.Deleted, "book %d must be soft-deleted with its author", id)

		_, err := bookSvc.GetActiveBook(ctx, id)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	}
}

func TestDeleteAuthorIsIdempotent(t *testing.T) {
	svc, _, _ := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAuthor(ctx, created.ID))
	assert.NoError(t, svc.DeleteAuthor(ctx, created.ID), "second delete must be a silent no-op")
	assert.NoError(t, svc.DeleteAuthor(ctx, 9999), "deleting a missing author must succeed")
}

func TestDeleteBookLeavesAuthorActive(t *testing.T) {
	svc, bookSvc, _ := newServices(t)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)
	updated, err := svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	require.NoError(t, err)

	bookID := updated.Books()[0].ID
	require.NoError(t, bookSvc.DeleteBook(ctx, bookID))

	a, err := svc.GetActiveAuthor(ctx, created.ID)
	require.NoError(t, err, "deleting a book must not affect its author")
	assert.Empty(t, a.Books(), "deleted book must vanish from the author's collection")
}

func TestMutatingUseCasesRunInTransaction(t *testing.T) {
	store := newFakeCatalogStore()
	tx := &fakeTxManager{}
	svc := NewService(store, tx)
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, &author.CreateAuthorRequest{Name: "Pushkin"})
	require.NoError(t, err)
	_, err = svc.AddBookToAuthor(ctx, created.ID, &author.AddBookRequest{Title: "Onegin", Pages: 324})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAuthor(ctx, created.ID))

	assert.Equal(t, 3, tx.calls, "create, add-book and delete must each run in a transaction")
}
