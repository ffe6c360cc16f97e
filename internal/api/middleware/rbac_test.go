package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/landworks/registry-system/internal/core/access"
)

func invoke(t *testing.T, role string, p access.Permission) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	called := false
	handler := RequirePermission(p)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRequirePermission_Matrix(t *testing.T) {
	cases := []struct {
		role    string
		perm    access.Permission
		allowed bool
	}{
		{"ADMIN", access.PermUserManage, true},
		{"ADMIN", access.PermTransactionWrite, true},
		{"STAFF", access.PermLandWrite, true},
		{"STAFF", access.PermTransactionWrite, true},
		{"STAFF", access.PermUserManage, false},
		{"AUDITOR", access.PermLandRead, true},
		{"AUDITOR", access.PermTransactionRead, true},
		{"AUDITOR", access.PermLandWrite, false},
		{"AUDITOR", access.PermTransactionWrite, false},
		{"AUDITOR", access.PermUserManage, false},
	}

	for _, tc := range cases {
		rec, called := invoke(t, tc.role, tc.perm)
		if tc.allowed {
			if !called || rec.Code != http.StatusOK {
				t.Errorf("%s/%s: expected to pass, got %d", tc.role, tc.perm, rec.Code)
			}
			continue
		}
		if called {
			t.Errorf("%s/%s: handler must not run", tc.role, tc.perm)
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s/%s: expected 403, got %d", tc.role, tc.perm, rec.Code)
		}
	}
}

func TestRequirePermission_UnknownOrMissingRole(t *testing.T) {
	for _, role := range []string{"", "GUEST", "admin"} {
		rec, called := invoke(t, role, access.PermLandRead)
		if called {
			t.Errorf("role %q: handler must not run", role)
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("role %q: expected 403, got %d", role, rec.Code)
		}
	}
}
