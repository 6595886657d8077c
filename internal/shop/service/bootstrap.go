package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/cryptox"
	"github.com/shopcore/minishop/pkg/idx"
)

var ErrBootstrapAlready = errors.New("system already bootstrapped")

// BootstrapService seeds the very first superuser account when the users
// table is empty, so a fresh deployment can log in and start inviting.
type BootstrapService struct {
	Store  store.Store
	Logger *slog.Logger
}

// IsBootstrapped reports whether at least one user exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the initial superuser with the given credentials. It is
// a no-op error if any user already exists.
func (s *BootstrapService) Bootstrap(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	// 1. Hash the password outside the transaction.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		s.Logger.Error("failed to hash bootstrap password", slog.Any("error", err))
		return domain.User{}, err
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      true,
		IsSuperuser:  true,
	}

	// 2. The emptiness check and the insert share a transaction so two
	// racing processes cannot both seed.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}

		return tx.Groups().AssignUserToGroup(ctx, admin.ID, domain.RoleAdmin.GroupName())
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			return domain.User{}, err
		}
		s.Logger.Error("failed to bootstrap superuser", slog.Any("error", err))
		return domain.User{}, err
	}

	s.Logger.Info("superuser bootstrapped",
		slog.String("user_id", admin.ID),
		slog.String("username", admin.Username),
	)

	return admin, nil
}
