package ports

import (
	"context"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
)

// BookInput carries the editable fields of a book.
type BookInput struct {
	Title            string
	Author           string
	YearOfProduction int
}

// LoanRequest identifies a take or free call. IdempotencyKey is optional.
type LoanRequest struct {
	BookID         int64
	PersonID       int64 // borrower, ignored when freeing
	IdempotencyKey string
}

// LoanOutcome reports what a take or free call did.
type LoanOutcome int

const (
	// LoanFailed accompanies a non-nil error.
	LoanFailed LoanOutcome = iota
	// LoanApplied means ownership changed.
	LoanApplied
	// LoanSkipped means the book is unknown and nothing changed.
	LoanSkipped
	// LoanReplayed means the idempotency key was already used and nothing changed.
	LoanReplayed
)

// CatalogService defines the book catalog use cases.
//
// Lookups that find nothing return a nil record and a nil error.
type CatalogService interface {
	List(ctx context.Context, opts ListOptions) ([]*domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	Create(ctx context.Context, caller access.Caller, in BookInput) (*domain.Book, error)
	Update(ctx context.Context, caller access.Caller, id int64, in BookInput) (*domain.Book, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
	GetOwner(ctx context.Context, id int64) (*domain.Person, error)
	FreeBook(ctx context.Context, caller access.Caller, req LoanRequest) (LoanOutcome, error)
	TakeBook(ctx context.Context, caller access.Caller, req LoanRequest) (LoanOutcome, error)
	Search(ctx context.Context, substring string) ([]*domain.Book, error)
	History(ctx context.Context, caller access.Caller, id int64) ([]*domain.LoanEvent, error)
}
