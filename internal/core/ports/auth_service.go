package ports

import (
	"context"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, in PersonInput) (*domain.Person, error)
	Login(ctx context.Context, username, password string) (string, *domain.Person, error)
}
