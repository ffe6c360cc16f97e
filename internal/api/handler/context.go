package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: a non-empty user id proves the
// middleware ran and the token carried a usable identity.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("uid").(string)
	role, _ = c.Get("role").(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
