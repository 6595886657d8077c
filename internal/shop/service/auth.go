package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/cryptox"
	"github.com/shopcore/minishop/pkg/jwtx"
	"github.com/shopcore/minishop/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles password logins and token minting. Verification of the
// minted tokens lives in the authn middleware.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   Profile
}

// Login verifies credentials and mints an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown username", slog.String("username", username))
			return Session{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return Session{}, err
	}

	if u.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password", slog.String("user_id", u.ID))
		return Session{}, ErrInvalidCredentials
	}

	groups, err := s.Store.Groups().GroupNamesForUser(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(u.ID, u.Username, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("user logged in", slog.String("user_id", u.ID))

	return Session{
		Token:     token,
		ExpiresAt: now.Add(ttl),
		Profile: Profile{
			User:   u,
			Groups: groups,
			Role:   domain.ResolveRole(u.IsSuperuser, groups),
		},
	}, nil
}
