package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

func newAuthFixture() *AuthService {
	people := newStubPersonRepo(
		&domain.Person{ID: 2, Name: "Alice", Username: "alice", Role: domain.RoleUser, PasswordHash: "hashed:secret"},
	)
	dir := NewDirectoryService(people, newStubBookRepo(), &stubTx{}, plainHasher{}, zerolog.Nop())
	return NewAuthService(dir, plainHasher{}, "secret", time.Hour)
}

func Test_AuthService_Register(t *testing.T) {
	svc := newAuthFixture()

	p, err := svc.Register(context.Background(), ports.PersonInput{Name: "Bob", Username: "bob", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.NotEqual(t, "pw", p.PasswordHash)

	_, err = svc.Register(context.Background(), ports.PersonInput{Name: "Bob", Username: "bob", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func Test_AuthService_Login(t *testing.T) {
	svc := newAuthFixture()

	token, p, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(2), p.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "user", claims["role"])
	assert.Equal(t, float64(2), claims["person_id"])
}

func Test_AuthService_LoginFailures(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, domain.ErrUnknownUsername)

	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
