package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

var errStore = errors.New("store unavailable")

type stubBookRepo struct {
	books  map[int64]*domain.Book
	nextID int64
	writes int

	lastOpts ports.ListOptions
}

func newStubBookRepo(books ...*domain.Book) *stubBookRepo {
	r := &stubBookRepo{books: make(map[int64]*domain.Book)}
	for _, b := range books {
		r.books[b.ID] = cloneBook(b)
		if b.ID > r.nextID {
			r.nextID = b.ID
		}
	}
	return r
}

func cloneBook(b *domain.Book) *domain.Book {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func (r *stubBookRepo) sorted() []*domain.Book {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, cloneBook(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubBookRepo) List(_ context.Context, opts ports.ListOptions) ([]*domain.Book, error) {
	r.lastOpts = opts
	out := r.sorted()
	if opts.Sorted {
		sort.SliceStable(out, func(i, j int) bool { return out[i].YearOfProduction < out[j].YearOfProduction })
	}
	if opts.Page != nil {
		start := opts.Page.Offset()
		if start >= len(out) {
			return []*domain.Book{}, nil
		}
		end := start + opts.Page.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	r.writes++
	r.nextID++
	b.ID = r.nextID
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *stubBookRepo) Replace(_ context.Context, b *domain.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	r.writes++
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id int64) error {
	r.writes++
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) SetLoan(_ context.Context, id int64, ownerID *int64, takenAt *time.Time) error {
	b, ok := r.books[id]
	if !ok {
		return domain.ErrBookNotFound
	}
	r.writes++
	b.OwnerID = ownerID
	b.TakenAt = takenAt
	return nil
}

func (r *stubBookRepo) SearchByTitle(_ context.Context, substring string) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, b := range r.sorted() {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(substring)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookRepo) ListByOwner(_ context.Context, personID int64) ([]*domain.Book, error) {
	out := []*domain.Book{}
	for _, b := range r.sorted() {
		if b.OwnerID != nil && *b.OwnerID == personID {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubPersonRepo struct {
	people map[int64]*domain.Person
	nextID int64
	writes int
}

func newStubPersonRepo(people ...*domain.Person) *stubPersonRepo {
	r := &stubPersonRepo{people: make(map[int64]*domain.Person)}
	for _, p := range people {
		r.people[p.ID] = clonePerson(p)
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func clonePerson(p *domain.Person) *domain.Person {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPersonRepo) List(_ context.Context, _ ports.ListOptions) ([]*domain.Person, error) {
	out := make([]*domain.Person, 0, len(r.people))
	for _, p := range r.people {
		out = append(out, clonePerson(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPersonRepo) FindByID(_ context.Context, id int64) (*domain.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, domain.ErrPersonNotFound
	}
	return clonePerson(p), nil
}

func (r *stubPersonRepo) FindByUsername(_ context.Context, username string) (*domain.Person, error) {
	for _, p := range r.people {
		if p.Username == username {
			return clonePerson(p), nil
		}
	}
	return nil, domain.ErrPersonNotFound
}

func (r *stubPersonRepo) Create(_ context.Context, p *domain.Person) error {
	for _, existing := range r.people {
		if existing.Username == p.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.writes++
	r.nextID++
	p.ID = r.nextID
	r.people[p.ID] = clonePerson(p)
	return nil
}

func (r *stubPersonRepo) Replace(_ context.Context, p *domain.Person) error {
	if _, ok := r.people[p.ID]; !ok {
		return domain.ErrPersonNotFound
	}
	r.writes++
	r.people[p.ID] = clonePerson(p)
	return nil
}

func (r *stubPersonRepo) Delete(_ context.Context, id int64) error {
	r.writes++
	delete(r.people, id)
	return nil
}

func (r *stubPersonRepo) SearchByName(_ context.Context, substring string) ([]*domain.Person, error) {
	var out []*domain.Person
	for _, p := range r.people {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(substring)) {
			out = append(out, clonePerson(p))
		}
	}
	return out, nil
}

type stubEventRepo struct {
	events []*domain.LoanEvent
	err    error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.LoanEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *stubEventRepo) ListByBook(_ context.Context, bookID int64, limit int64) ([]*domain.LoanEvent, error) {
	var out []*domain.LoanEvent
	for i := len(r.events) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.events[i].BookID == bookID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

// stubTx runs fn directly; it does not roll back the stub stores.
type stubTx struct {
	calls int
}

func (t *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type stubDedup struct {
	seen map[string]bool
	fail bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(action domain.LoanAction, bookID int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", action, bookID, key)
}

func (d *stubDedup) Reserve(_ context.Context, action domain.LoanAction, bookID int64, key string) (bool, error) {
	if d.fail {
		return false, errStore
	}
	k := d.key(action, bookID, key)
	if d.seen[k] {
		return false, nil
	}
	d.seen[k] = true
	return true, nil
}

func (d *stubDedup) Release(_ context.Context, action domain.LoanAction, bookID int64, key string) error {
	delete(d.seen, d.key(action, bookID, key))
	return nil
}

// plainHasher prefixes the password so tests can assert it was hashed.
type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (plainHasher) Compare(hash, pw string) error {
	if hash != "hashed:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }
