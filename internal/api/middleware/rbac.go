package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
)

// RBAC rejects callers whose role is not listed. Services apply the same
// rules again; this only stops the request early.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFrom(c)
			for _, role := range allowedRoles {
				decision := access.Authorize(caller, access.RequireRole(role))
				if decision.Allowed {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
