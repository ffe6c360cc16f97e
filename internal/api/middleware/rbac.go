package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landworks/registry-system/internal/core/access"
	"github.com/landworks/registry-system/internal/core/domain"
)

// RequirePermission enforces the static role-to-permission policy. It runs
// after Auth and consults the access table exactly once per request; core
// services never re-check roles.
func RequirePermission(p access.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !access.Allowed(domain.Role(role), p) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
