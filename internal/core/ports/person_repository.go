package ports

import (
	"context"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

// PersonRepository defines persistence operations for directory records.
type PersonRepository interface {
	List(ctx context.Context, opts ListOptions) ([]*domain.Person, error)
	// FindByID returns domain.ErrPersonNotFound when no person has the id.
	FindByID(ctx context.Context, id int64) (*domain.Person, error)
	// FindByUsername returns domain.ErrPersonNotFound when the login is unknown.
	FindByUsername(ctx context.Context, username string) (*domain.Person, error)
	// Create inserts p and sets its ID. A duplicate username yields domain.ErrUsernameTaken.
	Create(ctx context.Context, p *domain.Person) error
	// Replace overwrites the person with p.ID; domain.ErrPersonNotFound if absent.
	Replace(ctx context.Context, p *domain.Person) error
	// Delete removes the person. domain.ErrPersonHasBooks when books still reference them.
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, substring string) ([]*domain.Person, error)
}
