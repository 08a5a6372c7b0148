package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/api/middleware"
	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

var (
	adminCaller = access.Caller{PersonID: 1, Username: "librarian", Role: domain.RoleAdmin}
	userCaller  = access.Caller{PersonID: 2, Username: "alice", Role: domain.RoleUser}
)

// newContext builds an echo context with the validator installed and, when
// caller is authenticated, the caller set the way Auth sets it.
func newContext(method, target string, body io.Reader, caller access.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller.Authenticated() {
		middleware.WithCaller(c, caller)
	}
	return c, rec
}

type stubCatalog struct {
	listFn     func(ctx context.Context, opts ports.ListOptions) ([]*domain.Book, error)
	getFn      func(ctx context.Context, id int64) (*domain.Book, error)
	createFn   func(ctx context.Context, caller access.Caller, in ports.BookInput) (*domain.Book, error)
	updateFn   func(ctx context.Context, caller access.Caller, id int64, in ports.BookInput) (*domain.Book, error)
	deleteFn   func(ctx context.Context, caller access.Caller, id int64) error
	getOwnerFn func(ctx context.Context, id int64) (*domain.Person, error)
	freeFn     func(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error)
	takeFn     func(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error)
	searchFn   func(ctx context.Context, substring string) ([]*domain.Book, error)
	historyFn  func(ctx context.Context, caller access.Caller, id int64) ([]*domain.LoanEvent, error)
}

func (s *stubCatalog) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Book, error) {
	return s.listFn(ctx, opts)
}

func (s *stubCatalog) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalog) Create(ctx context.Context, caller access.Caller, in ports.BookInput) (*domain.Book, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubCatalog) Update(ctx context.Context, caller access.Caller, id int64, in ports.BookInput) (*domain.Book, error) {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubCatalog) Delete(ctx context.Context, caller access.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubCatalog) GetOwner(ctx context.Context, id int64) (*domain.Person, error) {
	return s.getOwnerFn(ctx, id)
}

func (s *stubCatalog) FreeBook(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error) {
	return s.freeFn(ctx, caller, req)
}

func (s *stubCatalog) TakeBook(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error) {
	return s.takeFn(ctx, caller, req)
}

func (s *stubCatalog) Search(ctx context.Context, substring string) ([]*domain.Book, error) {
	return s.searchFn(ctx, substring)
}

func (s *stubCatalog) History(ctx context.Context, caller access.Caller, id int64) ([]*domain.LoanEvent, error) {
	return s.historyFn(ctx, caller, id)
}

type stubDirectory struct {
	listFn           func(ctx context.Context, caller access.Caller, opts ports.ListOptions) ([]*domain.Person, error)
	getFn            func(ctx context.Context, caller access.Caller, id int64) (*domain.Person, error)
	findByUsernameFn func(ctx context.Context, username string) (*domain.Person, error)
	createFn         func(ctx context.Context, in ports.PersonInput) (*domain.Person, error)
	updateFn         func(ctx context.Context, caller access.Caller, id int64, in ports.PersonInput) (*domain.Person, error)
	deleteFn         func(ctx context.Context, caller access.Caller, id int64) error
	booksFn          func(ctx context.Context, caller access.Caller, id int64) ([]*domain.Book, error)
	searchFn         func(ctx context.Context, caller access.Caller, substring string) ([]*domain.Person, error)
}

func (s *stubDirectory) List(ctx context.Context, caller access.Caller, opts ports.ListOptions) ([]*domain.Person, error) {
	return s.listFn(ctx, caller, opts)
}

func (s *stubDirectory) Get(ctx context.Context, caller access.Caller, id int64) (*domain.Person, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubDirectory) FindByUsername(ctx context.Context, username string) (*domain.Person, error) {
	return s.findByUsernameFn(ctx, username)
}

func (s *stubDirectory) Create(ctx context.Context, in ports.PersonInput) (*domain.Person, error) {
	return s.createFn(ctx, in)
}

func (s *stubDirectory) Update(ctx context.Context, caller access.Caller, id int64, in ports.PersonInput) (*domain.Person, error) {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubDirectory) Delete(ctx context.Context, caller access.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubDirectory) Books(ctx context.Context, caller access.Caller, id int64) ([]*domain.Book, error) {
	return s.booksFn(ctx, caller, id)
}

func (s *stubDirectory) Search(ctx context.Context, caller access.Caller, substring string) ([]*domain.Person, error) {
	return s.searchFn(ctx, caller, substring)
}
