package service_test

import (
	"context"
	"testing"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	u := seedUser(t, svc.Store, domain.User{
		ID:       idx.New().String(),
		Username: "carol",
		Email:    "carol@example.com",
	}, "manager", "warehouse")

	p, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "carol", p.User.Username)
	require.ElementsMatch(t, []string{"manager", "warehouse"}, p.Groups)
	require.Equal(t, domain.RoleManager, p.Role)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := &service.UserService{Store: newTestStore(t)}

	_, err := svc.GetProfile(context.Background(), idx.New().String())
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestCreateUser_RoleGrants(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	t.Run("admin grants admin", func(t *testing.T) {
		p, err := svc.CreateUser(ctx, service.CreateUserParams{
			Username: "boss",
			Email:    "boss@example.com",
			Password: "pw",
			Role:     "admin",
		}, domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, p.Role)
		require.True(t, p.User.IsStaff)
	})

	t.Run("manager cannot grant admin", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, service.CreateUserParams{
			Username: "sneaky",
			Email:    "sneaky@example.com",
			Role:     "admin",
		}, domain.RoleManager)
		require.ErrorIs(t, err, service.ErrOnlyAdminSetAdmin)
	})

	t.Run("manager grants staff", func(t *testing.T) {
		p, err := svc.CreateUser(ctx, service.CreateUserParams{
			Username: "newbie",
			Email:    "newbie@example.com",
			Role:     "staff",
		}, domain.RoleManager)
		require.NoError(t, err)
		require.Equal(t, domain.RoleStaff, p.Role)
		require.False(t, p.User.IsStaff)
	})
}

func TestCreateUser_Conflicts(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	_, err := svc.CreateUser(ctx, service.CreateUserParams{
		Username: "dave",
		Email:    "dave@example.com",
	}, domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, service.CreateUserParams{
		Username: "dave",
		Email:    "other@example.com",
	}, domain.RoleAdmin)
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	_, err = svc.CreateUser(ctx, service.CreateUserParams{
		Username: "dave2",
		Email:    "dave@example.com",
	}, domain.RoleAdmin)
	require.ErrorIs(t, err, service.ErrEmailRegistered)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	u := seedUser(t, svc.Store, domain.User{
		ID:       idx.New().String(),
		Username: "erin",
		Email:    "erin@example.com",
	}, "staff")

	newEmail := "erin2@example.com"
	first := "Erin"
	role := "manager"

	p, err := svc.UpdateUser(ctx, u.ID, service.UpdateUserParams{
		Email:     &newEmail,
		FirstName: &first,
		Role:      &role,
	}, domain.RoleManager)
	require.NoError(t, err)

	require.Equal(t, "erin2@example.com", p.User.Email)
	require.Equal(t, "Erin", p.User.FirstName)
	require.Equal(t, domain.RoleManager, p.Role)
	// Role replacement swaps the membership, it doesn't accumulate.
	require.Equal(t, []string{"manager"}, p.Groups)
}

func TestUpdateUser_InvalidEmail(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	u := seedUser(t, svc.Store, domain.User{
		ID:       idx.New().String(),
		Username: "frank",
		Email:    "frank@example.com",
	})

	bad := "nope"
	_, err := svc.UpdateUser(ctx, u.ID, service.UpdateUserParams{Email: &bad}, domain.RoleAdmin)
	require.ErrorIs(t, err, service.ErrInvalidEmail)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	u := seedUser(t, svc.Store, domain.User{
		ID:       idx.New().String(),
		Username: "gone",
		Email:    "gone@example.com",
	}, "staff")

	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	_, err := svc.GetProfile(ctx, u.ID)
	require.ErrorIs(t, err, service.ErrUserNotFound)

	require.ErrorIs(t, svc.DeleteUser(ctx, u.ID), service.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc := &service.UserService{Store: newTestStore(t)}

	seedUser(t, svc.Store, domain.User{
		ID: idx.New().String(), Username: "harry", Email: "harry@example.com",
	}, "admin")
	seedUser(t, svc.Store, domain.User{
		ID: idx.New().String(), Username: "hermione", Email: "hermione@example.com",
	}, "manager")
	seedUser(t, svc.Store, domain.User{
		ID: idx.New().String(), Username: "ron", Email: "ron@example.com",
	})

	all, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := svc.ListUsers(ctx, "her")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "hermione", filtered[0].User.Username)
	require.Equal(t, domain.RoleManager, filtered[0].Role)
}
