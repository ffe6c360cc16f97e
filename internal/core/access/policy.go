// Package access holds the static role-to-permission mapping consulted by the
// HTTP boundary before any core operation is invoked. Core services never
// re-check roles; they trust the caller's authorization decision.
package access

import "github.com/landworks/registry-system/internal/core/domain"

// Permission is an operation category a role may be granted.
type Permission string

const (
	PermLandRead         Permission = "land:read"
	PermLandWrite        Permission = "land:write"
	PermTransactionRead  Permission = "transaction:read"
	PermTransactionWrite Permission = "transaction:write"
	PermUserManage       Permission = "user:manage"
)

// rolePermissions is the whole policy: ADMIN everything, STAFF land and
// transaction read/write, AUDITOR read-only.
var rolePermissions = map[domain.Role]map[Permission]struct{}{
	domain.RoleAdmin: {
		PermLandRead:         {},
		PermLandWrite:        {},
		PermTransactionRead:  {},
		PermTransactionWrite: {},
		PermUserManage:       {},
	},
	domain.RoleStaff: {
		PermLandRead:         {},
		PermLandWrite:        {},
		PermTransactionRead:  {},
		PermTransactionWrite: {},
	},
	domain.RoleAuditor: {
		PermLandRead:        {},
		PermTransactionRead: {},
	},
}

// Allowed reports whether role is granted p. Unknown roles have no permissions.
func Allowed(role domain.Role, p Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}

// Permissions returns the set of permissions granted to role, for
// introspection endpoints and tests.
func Permissions(role domain.Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	return out
}
