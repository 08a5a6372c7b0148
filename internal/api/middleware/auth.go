package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
)

const callerKey = "caller"

// PersonLookup loads the account behind a token.
type PersonLookup interface {
	FindByUsername(ctx context.Context, username string) (*domain.Person, error)
}

// Auth validates the JWT and resolves the request's access.Caller once.
//
// With people set, the role is read from the directory rather than the token,
// so a demotion applies to tokens issued before it. A token whose account was
// deleted or renamed is rejected.
func Auth(jwtSecret string, people PersonLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			caller := callerFromClaims(claims)
			if !caller.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing caller identity")
			}
			if people != nil {
				caller, err = currentCaller(c.Request().Context(), people, caller)
				if err != nil {
					return err
				}
			}

			c.Set(callerKey, caller)
			c.Set("username", caller.Username)
			c.Set("role", string(caller.Role))

			return next(c)
		}
	}
}

// CallerFrom returns the caller resolved by Auth, or the zero Caller.
func CallerFrom(c echo.Context) access.Caller {
	caller, _ := c.Get(callerKey).(access.Caller)
	return caller
}

// WithCaller stores caller on the context the way Auth does.
func WithCaller(c echo.Context, caller access.Caller) {
	c.Set(callerKey, caller)
	c.Set("username", caller.Username)
	c.Set("role", string(caller.Role))
}

func currentCaller(ctx context.Context, people PersonLookup, caller access.Caller) (access.Caller, error) {
	p, err := people.FindByUsername(ctx, caller.Username)
	if err != nil {
		return access.Caller{}, fmt.Errorf("resolve caller %q: %w", caller.Username, err)
	}
	if p == nil || p.ID != caller.PersonID {
		return access.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token no longer matches an account")
	}
	caller.Role = p.Role
	return caller, nil
}

// callerFromClaims reads person_id as a JSON number.
func callerFromClaims(claims jwt.MapClaims) access.Caller {
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	var id int64
	switch v := claims["person_id"].(type) {
	case float64:
		id = int64(v)
	case int64:
		id = v
	}

	return access.Caller{PersonID: id, Username: username, Role: domain.Role(role)}
}
