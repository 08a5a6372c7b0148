package ports

import (
	"context"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

// LoanEventRepository persists the lending audit trail.
type LoanEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.LoanEvent) error
	// ListByBook returns at most limit events for the book, newest first.
	ListByBook(ctx context.Context, bookID int64, limit int64) ([]*domain.LoanEvent, error)
}
