package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	svc := &service.BootstrapService{
		Store:  newTestStore(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	done, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	admin, err := svc.Bootstrap(ctx, "root", "Root@Example.com", "changeme")
	require.NoError(t, err)
	require.True(t, admin.IsSuperuser)
	require.True(t, admin.IsStaff)
	require.Equal(t, "root@example.com", admin.Email)

	// The seeded account resolves to an administrator and can log in.
	users := &service.UserService{Store: svc.Store}
	profile, err := users.GetProfile(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, profile.Role)

	done, err = svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, done)
}

func TestBootstrap_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := &service.BootstrapService{
		Store:  newTestStore(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := svc.Bootstrap(ctx, "root", "root@example.com", "changeme")
	require.NoError(t, err)

	_, err = svc.Bootstrap(ctx, "other", "other@example.com", "changeme")
	require.ErrorIs(t, err, service.ErrBootstrapAlready)
}

func TestBootstrap_Validation(t *testing.T) {
	ctx := context.Background()
	svc := &service.BootstrapService{
		Store:  newTestStore(t),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := svc.Bootstrap(ctx, "", "root@example.com", "changeme")
	require.ErrorIs(t, err, service.ErrMissingFields)

	_, err = svc.Bootstrap(ctx, "root", "root@example.com", "")
	require.ErrorIs(t, err, service.ErrMissingFields)
}
