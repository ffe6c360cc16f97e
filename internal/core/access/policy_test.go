package access

import (
	"testing"

	"github.com/landworks/registry-system/internal/core/domain"
)

func TestAllowed_AdminHasEverything(t *testing.T) {
	for _, p := range []Permission{PermLandRead, PermLandWrite, PermTransactionRead, PermTransactionWrite, PermUserManage} {
		if !Allowed(domain.RoleAdmin, p) {
			t.Errorf("ADMIN must hold %s", p)
		}
	}
}

func TestAllowed_StaffCannotManageUsers(t *testing.T) {
	for _, p := range []Permission{PermLandRead, PermLandWrite, PermTransactionRead, PermTransactionWrite} {
		if !Allowed(domain.RoleStaff, p) {
			t.Errorf("STAFF must hold %s", p)
		}
	}
	if Allowed(domain.RoleStaff, PermUserManage) {
		t.Error("STAFF must not manage users")
	}
}

func TestAllowed_AuditorIsReadOnly(t *testing.T) {
	if !Allowed(domain.RoleAuditor, PermLandRead) || !Allowed(domain.RoleAuditor, PermTransactionRead) {
		t.Error("AUDITOR must hold the read permissions")
	}
	for _, p := range []Permission{PermLandWrite, PermTransactionWrite, PermUserManage} {
		if Allowed(domain.RoleAuditor, p) {
			t.Errorf("AUDITOR must not hold %s", p)
		}
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	if Allowed(domain.Role("GUEST"), PermLandRead) {
		t.Error("unknown roles must have no permissions")
	}
	if Allowed(domain.Role(""), PermLandRead) {
		t.Error("empty role must have no permissions")
	}
}

func TestPermissions_Counts(t *testing.T) {
	cases := map[domain.Role]int{
		domain.RoleAdmin:   5,
		domain.RoleStaff:   4,
		domain.RoleAuditor: 2,
	}
	for role, want := range cases {
		if got := len(Permissions(role)); got != want {
			t.Errorf("%s: expected %d permissions, got %d", role, want, got)
		}
	}
}
