package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can trigger recomputes and view team data
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// IsManager reports whether the role is manager or owner.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
