package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

const historyLimit = 50

// LoanDedup abstracts the idempotency store (Redis) for take/free requests.
type LoanDedup interface {
	// Reserve claims the key for this transition; false means it was already claimed.
	Reserve(ctx context.Context, action domain.LoanAction, bookID int64, key string) (bool, error)
	// Release gives the key back after the transition failed.
	Release(ctx context.Context, action domain.LoanAction, bookID int64, key string) error
}

// CatalogService implements the book catalog and the lending transitions.
type CatalogService struct {
	books  ports.BookRepository
	people ports.PersonRepository
	events ports.LoanEventRepository
	tx     ports.TxManager
	dedup  LoanDedup
	policy access.Policy
	log    zerolog.Logger
	clock  func() time.Time
}

func NewCatalogService(
	books ports.BookRepository,
	people ports.PersonRepository,
	events ports.LoanEventRepository,
	tx ports.TxManager,
	dedup LoanDedup,
	policy access.Policy,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		books:  books,
		people: people,
		events: events,
		tx:     tx,
		dedup:  dedup,
		policy: policy,
		log:    log,
		clock:  time.Now,
	}
}

func (s *CatalogService) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Book, error) {
	if err := validatePage(opts); err != nil {
		return nil, err
	}
	if opts.Page != nil && opts.Page.Unreachable() {
		return []*domain.Book{}, nil
	}
	books, err := s.books.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns nil without error when the book does not exist.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, domain.ErrBookNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return book, nil
}

func (s *CatalogService) Create(ctx context.Context, caller access.Caller, in ports.BookInput) (*domain.Book, error) {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:            in.Title,
		Author:           in.Author,
		YearOfProduction: in.YearOfProduction,
	}
	if err := validateEntity(book); err != nil {
		return nil, err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.books.Create(ctx, book)
	}); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.log.Info().Int64("book_id", book.ID).Str("by", caller.Username).Msg("book created")
	return book, nil
}

// Update replaces the editable fields of a book and stamps the audit columns.
// The current loan is carried over unchanged.
func (s *CatalogService) Update(ctx context.Context, caller access.Caller, id int64, in ports.BookInput) (*domain.Book, error) {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	book := &domain.Book{
		ID:               id,
		Title:            in.Title,
		Author:           in.Author,
		YearOfProduction: in.YearOfProduction,
		UpdatedAt:        &now,
		UpdatedBy:        caller.Username,
	}
	if err := validateEntity(book); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.books.FindByID(ctx, id)
		if err != nil {
			return err
		}
		book.OwnerID = current.OwnerID
		book.TakenAt = current.TakenAt
		return s.books.Replace(ctx, book)
	})
	if err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}

	s.log.Info().Int64("book_id", id).Str("by", caller.Username).Msg("book updated")
	return book, nil
}

// Delete removes a book. Unknown ids are ignored.
func (s *CatalogService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.books.Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	s.log.Info().Int64("book_id", id).Str("by", caller.Username).Msg("book deleted")
	return nil
}

// GetOwner returns nil both for an unknown book and for a free one.
func (s *CatalogService) GetOwner(ctx context.Context, id int64) (*domain.Person, error) {
	book, err := s.Get(ctx, id)
	if err != nil || book == nil || book.OwnerID == nil {
		return nil, err
	}

	owner, err := s.people.FindByID(ctx, *book.OwnerID)
	if errors.Is(err, domain.ErrPersonNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owner of book %d: %w", id, err)
	}
	return owner, nil
}

// FreeBook returns the book to the shelf. An unknown book is a no-op.
func (s *CatalogService) FreeBook(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error) {
	if err := access.Authorize(caller, access.AnyCaller()).Err(); err != nil {
		return ports.LoanFailed, err
	}
	reserved, replay := s.reserve(ctx, domain.LoanActionFree, req)
	if replay {
		return ports.LoanReplayed, nil
	}

	applied := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := s.books.FindByID(ctx, req.BookID)
		if errors.Is(err, domain.ErrBookNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := access.Authorize(caller, s.policy.FreeRule(book)).Err(); err != nil {
			return err
		}

		book.Free()
		if err := s.books.SetLoan(ctx, book.ID, book.OwnerID, book.TakenAt); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		s.release(ctx, domain.LoanActionFree, req, reserved)
		return ports.LoanFailed, fmt.Errorf("free book %d: %w", req.BookID, err)
	}
	if !applied {
		s.log.Debug().Int64("book_id", req.BookID).Msg("free on unknown book ignored")
		return ports.LoanSkipped, nil
	}

	s.afterLoan(ctx, caller, domain.LoanActionFree, req, nil)
	return ports.LoanApplied, nil
}

// TakeBook lends the book to req.PersonID, replacing any current borrower.
// An unknown book is a no-op; an unknown borrower is an error.
func (s *CatalogService) TakeBook(ctx context.Context, caller access.Caller, req ports.LoanRequest) (ports.LoanOutcome, error) {
	if err := access.Authorize(caller, s.policy.TakeRule(req.PersonID)).Err(); err != nil {
		return ports.LoanFailed, err
	}
	reserved, replay := s.reserve(ctx, domain.LoanActionTake, req)
	if replay {
		return ports.LoanReplayed, nil
	}

	applied := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := s.books.FindByID(ctx, req.BookID)
		if errors.Is(err, domain.ErrBookNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := s.people.FindByID(ctx, req.PersonID); err != nil {
			return err
		}

		book.Take(req.PersonID, s.clock())
		if err := s.books.SetLoan(ctx, book.ID, book.OwnerID, book.TakenAt); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		s.release(ctx, domain.LoanActionTake, req, reserved)
		return ports.LoanFailed, fmt.Errorf("take book %d: %w", req.BookID, err)
	}
	if !applied {
		s.log.Debug().Int64("book_id", req.BookID).Msg("take on unknown book ignored")
		return ports.LoanSkipped, nil
	}

	borrower := req.PersonID
	s.afterLoan(ctx, caller, domain.LoanActionTake, req, &borrower)
	return ports.LoanApplied, nil
}

func (s *CatalogService) Search(ctx context.Context, substring string) ([]*domain.Book, error) {
	books, err := s.books.SearchByTitle(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// History lists the most recent lending events of a book.
func (s *CatalogService) History(ctx context.Context, caller access.Caller, id int64) ([]*domain.LoanEvent, error) {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}
	if s.events == nil {
		return []*domain.LoanEvent{}, nil
	}
	events, err := s.events.ListByBook(ctx, id, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("book %d history: %w", id, err)
	}
	return events, nil
}

// reserve claims the idempotency key before the transition runs, so two
// requests carrying the same key cannot both apply it. Store failures are
// logged and the request proceeds unreserved.
func (s *CatalogService) reserve(ctx context.Context, action domain.LoanAction, req ports.LoanRequest) (reserved, replay bool) {
	if req.IdempotencyKey == "" || s.dedup == nil {
		return false, false
	}
	ok, err := s.dedup.Reserve(ctx, action, req.BookID, req.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Int64("book_id", req.BookID).Msg("dedup reserve failed, processing anyway")
		return false, false
	}
	if !ok {
		s.log.Debug().Int64("book_id", req.BookID).Str("action", string(action)).Msg("duplicate loan request skipped")
		return false, true
	}
	return true, false
}

// release frees a key reserved by a request whose transition failed, so the
// client can retry with it.
func (s *CatalogService) release(ctx context.Context, action domain.LoanAction, req ports.LoanRequest, reserved bool) {
	if !reserved {
		return
	}
	if err := s.dedup.Release(ctx, action, req.BookID, req.IdempotencyKey); err != nil {
		s.log.Warn().Err(err).Int64("book_id", req.BookID).Msg("failed to release dedup key")
	}
}

// afterLoan appends the audit event. A failure does not undo the committed
// transition.
func (s *CatalogService) afterLoan(ctx context.Context, caller access.Caller, action domain.LoanAction, req ports.LoanRequest, borrower *int64) {
	if s.events != nil {
		event := &domain.LoanEvent{
			ID:         uuid.NewString(),
			BookID:     req.BookID,
			PersonID:   borrower,
			Action:     action,
			Actor:      caller.Username,
			OccurredAt: s.clock().UTC(),
		}
		if err := s.events.InsertEvent(ctx, event); err != nil {
			s.log.Warn().Err(err).Int64("book_id", req.BookID).Msg("failed to insert loan event")
		}
	}

	s.log.Info().
		Int64("book_id", req.BookID).
		Str("action", string(action)).
		Str("by", caller.Username).
		Msg("loan updated")
}
