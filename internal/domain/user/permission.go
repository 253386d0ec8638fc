package user

type Permission string

const (
	// Performance
	PermissionPerformanceViewOwn Permission = "performance.view_own"
	PermissionPerformanceViewAll Permission = "performance.view_all"
	PermissionPerformanceCompute Permission = "performance.compute"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionPerformanceViewOwn,
		PermissionPerformanceViewAll,
		PermissionPerformanceCompute,
	},
	RoleManager: {
		PermissionPerformanceViewOwn,
		PermissionPerformanceViewAll,
		PermissionPerformanceCompute,
	},
	RoleEmployee: {
		PermissionPerformanceViewOwn,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
