package ports

import (
	"context"
	"time"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
)

// PersonInput carries the editable fields of a person. Password is plaintext
// and is hashed before it reaches the store.
type PersonInput struct {
	Name        string
	Username    string
	Password    string
	DateOfBirth *time.Time
	Role        domain.Role // ignored by Update
}

// DirectoryService defines the person directory use cases.
//
// Lookups that find nothing return a nil record and a nil error.
type DirectoryService interface {
	List(ctx context.Context, caller access.Caller, opts ListOptions) ([]*domain.Person, error)
	Get(ctx context.Context, caller access.Caller, id int64) (*domain.Person, error)
	FindByUsername(ctx context.Context, username string) (*domain.Person, error)
	Create(ctx context.Context, in PersonInput) (*domain.Person, error)
	Update(ctx context.Context, caller access.Caller, id int64, in PersonInput) (*domain.Person, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
	Books(ctx context.Context, caller access.Caller, id int64) ([]*domain.Book, error)
	Search(ctx context.Context, caller access.Caller, substring string) ([]*domain.Person, error)
}
