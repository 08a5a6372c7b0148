package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	directory ports.DirectoryService
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(directory ports.DirectoryService, hasher ports.PasswordHasher, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{directory: directory, hasher: hasher, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, in ports.PersonInput) (*domain.Person, error) {
	return s.directory.Create(ctx, in)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Person, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	person, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if person == nil {
		return "", nil, domain.ErrUnknownUsername
	}

	if s.hasher.Compare(person.PasswordHash, password) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(person)
	if err != nil {
		return "", nil, err
	}

	return token, person, nil
}

func (s *AuthService) generateToken(p *domain.Person) (string, error) {
	claims := jwt.MapClaims{
		"sub":       p.Username,
		"username":  p.Username,
		"role":      string(p.Role),
		"person_id": p.ID,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
