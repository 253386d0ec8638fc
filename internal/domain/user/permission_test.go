package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionPerformanceCompute, true},
		{RoleManager, PermissionPerformanceCompute, true},
		{RoleManager, PermissionPerformanceViewAll, true},
		{RoleEmployee, PermissionPerformanceViewOwn, true},
		{RoleEmployee, PermissionPerformanceViewAll, false},
		{RoleEmployee, PermissionPerformanceCompute, false},
		{RolePending, PermissionPerformanceViewOwn, false},
		{Role("unknown"), PermissionPerformanceViewOwn, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission), "%s / %s", tt.role, tt.permission)
	}
}

func TestRole_IsManager(t *testing.T) {
	assert.True(t, RoleOwner.IsManager())
	assert.True(t, RoleManager.IsManager())
	assert.False(t, RoleEmployee.IsManager())
	assert.False(t, RolePending.IsManager())
}
