package policy_test

import (
	"net/http"
	"testing"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/policy"
	"github.com/stretchr/testify/require"
)

func TestClassifyMethod(t *testing.T) {
	require.Equal(t, policy.Safe, policy.ClassifyMethod(http.MethodGet))
	require.Equal(t, policy.Safe, policy.ClassifyMethod(http.MethodHead))
	require.Equal(t, policy.Safe, policy.ClassifyMethod(http.MethodOptions))

	require.Equal(t, policy.Unsafe, policy.ClassifyMethod(http.MethodPost))
	require.Equal(t, policy.Unsafe, policy.ClassifyMethod(http.MethodPut))
	require.Equal(t, policy.Unsafe, policy.ClassifyMethod(http.MethodPatch))
	require.Equal(t, policy.Unsafe, policy.ClassifyMethod(http.MethodDelete))
}

func TestDecide_Users(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.Role
		class policy.MethodClass
		want  bool
	}{
		{"admin safe", domain.RoleAdmin, policy.Safe, true},
		{"admin unsafe", domain.RoleAdmin, policy.Unsafe, true},
		{"manager safe", domain.RoleManager, policy.Safe, true},
		{"manager unsafe", domain.RoleManager, policy.Unsafe, false},
		{"staff safe", domain.RoleStaff, policy.Safe, false},
		{"staff unsafe", domain.RoleStaff, policy.Unsafe, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, policy.Decide(tt.role, policy.Users, tt.class, false))
			// Users rules are identical for collection and item routes.
			require.Equal(t, tt.want, policy.Decide(tt.role, policy.Users, tt.class, true))
		})
	}
}

func TestDecide_Products(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.Role
		class policy.MethodClass
		want  bool
	}{
		{"admin unsafe", domain.RoleAdmin, policy.Unsafe, true},
		{"manager unsafe", domain.RoleManager, policy.Unsafe, true},
		{"staff unsafe", domain.RoleStaff, policy.Unsafe, false},
		{"admin safe", domain.RoleAdmin, policy.Safe, true},
		{"manager safe", domain.RoleManager, policy.Safe, true},
		{"staff safe", domain.RoleStaff, policy.Safe, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, policy.Decide(tt.role, policy.Products, tt.class, false))
		})
	}
}

func TestDecide_OrdersCollection(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.Role
		class policy.MethodClass
		want  bool
	}{
		{"admin safe", domain.RoleAdmin, policy.Safe, true},
		{"admin unsafe", domain.RoleAdmin, policy.Unsafe, true},
		{"manager safe", domain.RoleManager, policy.Safe, true},
		{"manager unsafe", domain.RoleManager, policy.Unsafe, false},
		{"staff safe", domain.RoleStaff, policy.Safe, true},
		{"staff unsafe", domain.RoleStaff, policy.Unsafe, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, policy.Decide(tt.role, policy.Orders, tt.class, false))
		})
	}
}

func TestDecide_OrdersItem(t *testing.T) {
	// Any authenticated role may read a single order.
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleStaff} {
		require.True(t, policy.Decide(role, policy.Orders, policy.Safe, true), role)
	}

	// Only admin may mutate one.
	require.True(t, policy.Decide(domain.RoleAdmin, policy.Orders, policy.Unsafe, true))
	require.False(t, policy.Decide(domain.RoleManager, policy.Orders, policy.Unsafe, true))
	require.False(t, policy.Decide(domain.RoleStaff, policy.Orders, policy.Unsafe, true))
}

func TestDecide_UnknownResource(t *testing.T) {
	require.False(t, policy.Decide(domain.RoleAdmin, policy.Resource("reports"), policy.Safe, false))
}
