package ports

import (
	"context"
	"time"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

// BookRepository defines persistence operations for catalog records.
type BookRepository interface {
	List(ctx context.Context, opts ListOptions) ([]*domain.Book, error)
	// FindByID returns domain.ErrBookNotFound when no book has the id.
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	// Create inserts b and sets its system-assigned ID.
	Create(ctx context.Context, b *domain.Book) error
	// Replace overwrites every persisted column of the book with b.ID.
	// It returns domain.ErrBookNotFound when the row does not exist.
	Replace(ctx context.Context, b *domain.Book) error
	// Delete removes the book; deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error
	// SetLoan writes owner and taken-at together.
	SetLoan(ctx context.Context, id int64, ownerID *int64, takenAt *time.Time) error
	// SearchByTitle matches title case-insensitively against a substring.
	SearchByTitle(ctx context.Context, substring string) ([]*domain.Book, error)
	// ListByOwner is the reverse index from a person to the books they hold.
	ListByOwner(ctx context.Context, personID int64) ([]*domain.Book, error)
}
