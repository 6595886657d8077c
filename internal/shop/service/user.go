package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/cryptox"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/shopcore/minishop/pkg/slogx"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrOnlyAdminSetAdmin = errors.New("only an admin can assign the admin role")
)

// Profile is a user together with the resolved authorization view.
type Profile struct {
	User   domain.User
	Groups []string
	Role   domain.Role
}

// UserService manages accounts and their role-group assignments.
type UserService struct {
	Store store.Store
}

// GetProfile loads a user with the group names and effective role. The group
// set is fetched once here and passed explicitly into the resolver; nothing
// caches it on the user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}

	groups, err := s.Store.Groups().GroupNamesForUser(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		User:   u,
		Groups: groups,
		Role:   domain.ResolveRole(u.IsSuperuser, groups),
	}, nil
}

// ResolveRole derives the effective role for a user id. Shorthand for
// GetProfile when only the role matters.
func (s *UserService) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// ListUsers returns users newest-first, optionally filtered by a search term.
func (s *UserService) ListUsers(ctx context.Context, search string) ([]Profile, error) {
	users, err := s.Store.Users().ListUsers(ctx, search)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		groups, err := s.Store.Groups().GroupNamesForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, Profile{
			User:   u,
			Groups: groups,
			Role:   domain.ResolveRole(u.IsSuperuser, groups),
		})
	}
	return profiles, nil
}

// CreateUserParams are the writable account fields. Role, when set, replaces
// the user's group memberships with the single matching role group.
type CreateUserParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string // empty leaves the account without a usable password
	Role      string // "admin", "manager", "staff" or empty
}

// CreateUser creates an account on behalf of an operator. actorRole gates
// role assignment: only an admin may grant admin.
func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams, actorRole domain.Role) (Profile, error) {
	log := slogx.FromContext(ctx)

	u := domain.User{
		ID:        idx.New().String(),
		Username:  strings.TrimSpace(p.Username),
		Email:     strings.TrimSpace(strings.ToLower(p.Email)),
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
	if u.Username == "" {
		return Profile{}, ErrMissingFields
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return Profile{}, ErrInvalidEmail
	}

	role, err := validateRoleGrant(p.Role, actorRole)
	if err != nil {
		return Profile{}, err
	}

	if p.Password != "" {
		hash, err := cryptox.HashPassword(p.Password)
		if err != nil {
			return Profile{}, err
		}
		u.PasswordHash = hash
	}
	if role != "" {
		u.IsStaff = role.IsStaffRole()
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, u.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := tx.Users().GetUserByEmail(ctx, u.Email); err == nil {
			return ErrEmailRegistered
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		if role != "" {
			return tx.Groups().ReplaceUserGroups(ctx, u.ID, []string{role.GroupName()})
		}
		return nil
	})
	if err != nil {
		return Profile{}, err
	}

	log.Info("user created",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
		slog.String("role", p.Role),
	)

	return s.GetProfile(ctx, u.ID)
}

// UpdateUserParams carry optional mutations; nil pointers leave the field
// untouched.
type UpdateUserParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *string
}

// UpdateUser applies partial updates to an account.
func (s *UserService) UpdateUser(ctx context.Context, userID string, p UpdateUserParams, actorRole domain.Role) (Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}

	if p.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*p.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return Profile{}, ErrInvalidEmail
		}
		u.Email = email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Password != nil && *p.Password != "" {
		hash, err := cryptox.HashPassword(*p.Password)
		if err != nil {
			return Profile{}, err
		}
		u.PasswordHash = hash
	}

	var role domain.Role
	if p.Role != nil {
		role, err = validateRoleGrant(*p.Role, actorRole)
		if err != nil {
			return Profile{}, err
		}
		if role != "" {
			u.IsStaff = role.IsStaffRole()
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		if role != "" {
			return tx.Groups().ReplaceUserGroups(ctx, u.ID, []string{role.GroupName()})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Profile{}, ErrEmailRegistered
		}
		return Profile{}, err
	}

	return s.GetProfile(ctx, u.ID)
}

// DeleteUser removes an account; memberships cascade in the store.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	err := s.Store.Users().DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// validateRoleGrant parses an optional requested role and enforces that only
// admins hand out the admin role.
func validateRoleGrant(roleName string, actorRole domain.Role) (domain.Role, error) {
	if roleName == "" {
		return "", nil
	}
	role, ok := domain.ParseRole(roleName)
	if !ok {
		return "", ErrInvalidRole
	}
	if role == domain.RoleAdmin && actorRole != domain.RoleAdmin {
		return "", ErrOnlyAdminSetAdmin
	}
	return role, nil
}
