package domain_test

import (
	"testing"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/stretchr/testify/require"
)

func TestResolveRole_Superuser(t *testing.T) {
	// Superusers resolve to ADMIN no matter what their groups say.
	role := domain.ResolveRole(true, []string{"staff"})
	require.Equal(t, domain.RoleAdmin, role)

	role = domain.ResolveRole(true, nil)
	require.Equal(t, domain.RoleAdmin, role)
}

func TestResolveRole_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		want   domain.Role
	}{
		{"admin wins over staff", []string{"staff", "admin"}, domain.RoleAdmin},
		{"admin wins over manager", []string{"manager", "admin"}, domain.RoleAdmin},
		{"manager wins over staff", []string{"staff", "manager"}, domain.RoleManager},
		{"single manager", []string{"manager"}, domain.RoleManager},
		{"single staff", []string{"staff"}, domain.RoleStaff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.ResolveRole(false, tt.groups))
		})
	}
}

func TestResolveRole_DefaultStaff(t *testing.T) {
	// No groups, or only unrecognized groups, defaults to STAFF.
	require.Equal(t, domain.RoleStaff, domain.ResolveRole(false, nil))
	require.Equal(t, domain.RoleStaff, domain.ResolveRole(false, []string{}))
	require.Equal(t, domain.RoleStaff, domain.ResolveRole(false, []string{"warehouse", "night-shift"}))
}

func TestResolveRole_Aliases(t *testing.T) {
	tests := []struct {
		group string
		want  domain.Role
	}{
		{"ROLE_ADMIN", domain.RoleAdmin},
		{"ROLE_MANAGER", domain.RoleManager},
		{"ROLE_STAFF", domain.RoleStaff},
		{"MGR", domain.RoleManager},
		{"Admin", domain.RoleAdmin},
		{"MANAGER", domain.RoleManager},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			require.Equal(t, tt.want, domain.ResolveRole(false, []string{tt.group}))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := domain.ParseRole("admin")
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, role)

	role, ok = domain.ParseRole("MANAGER")
	require.True(t, ok)
	require.Equal(t, domain.RoleManager, role)

	_, ok = domain.ParseRole("owner")
	require.False(t, ok)

	_, ok = domain.ParseRole("")
	require.False(t, ok)
}

func TestRole_GroupNameAndStaffFlag(t *testing.T) {
	require.Equal(t, "admin", domain.RoleAdmin.GroupName())
	require.Equal(t, "manager", domain.RoleManager.GroupName())
	require.Equal(t, "staff", domain.RoleStaff.GroupName())

	require.True(t, domain.RoleAdmin.IsStaffRole())
	require.True(t, domain.RoleManager.IsStaffRole())
	require.False(t, domain.RoleStaff.IsStaffRole())
}
