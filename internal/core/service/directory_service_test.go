package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

type directoryFixture struct {
	svc    *DirectoryService
	people *stubPersonRepo
	books  *stubBookRepo
}

func newDirectoryFixture(books ...*domain.Book) *directoryFixture {
	f := &directoryFixture{
		people: newStubPersonRepo(
			&domain.Person{ID: 1, Name: "Librarian", Username: "librarian", Role: domain.RoleAdmin, PasswordHash: "hashed:root"},
			&domain.Person{ID: 2, Name: "Alice", Username: "alice", Role: domain.RoleUser, PasswordHash: "hashed:secret"},
		),
		books: newStubBookRepo(books...),
	}
	f.svc = NewDirectoryService(f.people, f.books, &stubTx{}, plainHasher{}, zerolog.Nop())
	f.svc.clock = fixedClock(now)
	return f
}

func Test_DirectoryService_ListRequiresAdmin(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	_, err := f.svc.List(ctx, aliceCaller, ports.ListOptions{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	people, err := f.svc.List(ctx, adminCaller, ports.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, people, 2)

	_, err = f.svc.Search(ctx, aliceCaller, "ali")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	found, err := f.svc.Search(ctx, adminCaller, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}

func Test_DirectoryService_ListPageBeyondOffsetRange(t *testing.T) {
	f := newDirectoryFixture()

	people, err := f.svc.List(context.Background(), adminCaller, ports.ListOptions{
		Sorted: true,
		Page:   &ports.PageRequest{Page: math.MaxInt, PageSize: 2},
	})
	require.NoError(t, err)
	assert.NotNil(t, people)
	assert.Empty(t, people)
}

func Test_DirectoryService_GetSelfOrAdmin(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	p, err := f.svc.Get(ctx, aliceCaller, 2)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	_, err = f.svc.Get(ctx, aliceCaller, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err = f.svc.Get(ctx, adminCaller, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)

	p, err = f.svc.Get(ctx, adminCaller, 50)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func Test_DirectoryService_CreateRegistersUser(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	p, err := f.svc.Create(ctx, ports.PersonInput{Name: "Carol", Username: "carol", Password: "pw", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.Equal(t, "hashed:pw", p.PasswordHash)
	assert.NotZero(t, p.ID)

	_, err = f.svc.Create(ctx, ports.PersonInput{Name: "Carol", Username: "carol", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = f.svc.Create(ctx, ports.PersonInput{Name: "D", Username: "dave", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Create(ctx, ports.PersonInput{Name: "Dave", Username: "dave"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func Test_DirectoryService_UpdateForcesUserRole(t *testing.T) {
	f := newDirectoryFixture()

	p, err := f.svc.Update(context.Background(), adminCaller, 1, ports.PersonInput{
		Name: "Head Librarian", Username: "librarian", Password: "new", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)

	stored := f.people.people[1]
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.Equal(t, "Head Librarian", stored.Name)
	assert.Equal(t, "hashed:new", stored.PasswordHash)
}

func Test_DirectoryService_UpdateUnknownPerson(t *testing.T) {
	f := newDirectoryFixture()

	_, err := f.svc.Update(context.Background(), adminCaller, 77, ports.PersonInput{
		Name: "Ghost", Username: "ghost", Password: "pw",
	})
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)
}

func Test_DirectoryService_Delete(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, aliceCaller, 2), domain.ErrForbidden)
	assert.Len(t, f.people.people, 2)

	require.NoError(t, f.svc.Delete(ctx, adminCaller, 2))
	require.NoError(t, f.svc.Delete(ctx, adminCaller, 2))
	assert.Len(t, f.people.people, 1)
}

func Test_DirectoryService_BooksMarksOverdue(t *testing.T) {
	taken := func(id int64, ago time.Duration) *domain.Book {
		return &domain.Book{
			ID: id, Title: "t", Author: "a", YearOfProduction: 2000,
			OwnerID: int64Ptr(2), TakenAt: timePtr(now.Add(-ago)),
		}
	}
	day := 24 * time.Hour
	f := newDirectoryFixture(
		taken(1, 9*day),
		taken(2, 10*day),
		taken(3, 11*day),
		&domain.Book{ID: 4, Title: "free", Author: "a", YearOfProduction: 2000},
	)

	books, err := f.svc.Books(context.Background(), aliceCaller, 2)
	require.NoError(t, err)
	require.Len(t, books, 3)

	overdue := map[int64]bool{}
	for _, b := range books {
		overdue[b.ID] = b.Overdue
	}
	assert.Equal(t, map[int64]bool{1: false, 2: true, 3: true}, overdue)
}

func Test_DirectoryService_BooksIsSelfOnly(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	_, err := f.svc.Books(ctx, adminCaller, 2)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ghost := access.Caller{PersonID: 40, Username: "ghost", Role: domain.RoleUser}
	books, err := f.svc.Books(ctx, ghost, 40)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func Test_DirectoryService_EnsureAdmin(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()
	in := ports.PersonInput{Name: "Root Admin", Username: "root", Password: "toor"}

	created, err := f.svc.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)

	p, err := f.svc.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	created, err = f.svc.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
}
