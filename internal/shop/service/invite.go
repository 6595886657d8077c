package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/notify"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/cryptox"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/shopcore/minishop/pkg/slogx"
)

// DefaultInvitationTTL is how long a fresh invitation stays acceptable.
const DefaultInvitationTTL = 72 * time.Hour

var (
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrInvalidRole           = errors.New("invalid role")
	ErrActiveInviteExists    = errors.New("an active invitation for this email already exists")
	ErrEmailRegistered       = errors.New("email is already registered as a user")
	ErrInviteNotFound        = errors.New("invitation token is not valid")
	ErrInviteInactive        = errors.New("invitation is not active")
	ErrInviteAlreadyRevoked  = errors.New("invitation already revoked")
	ErrInviteAlreadyAccepted = errors.New("invitation already accepted; cannot revoke")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrMissingFields         = errors.New("missing required fields")
)

// InviteService owns the invitation lifecycle: create, resend, revoke and
// accept. All state transitions are guarded here, independent of transport.
type InviteService struct {
	Store   store.Store
	Sender  notify.Sender
	BaseURL string        // frontend base URL embedded in invitation links
	TTL     time.Duration // zero means DefaultInvitationTTL
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

// CreateInvitation validates and stores a new invitation, then notifies the
// invitee. The duplicate-active check runs inside the same transaction as
// the insert, and the token carries a unique index, so concurrent creates
// cannot both land.
func (s *InviteService) CreateInvitation(
	ctx context.Context,
	email string,
	roleName string,
	actorID string,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Validate input.
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invitation{}, ErrInvalidEmail
	}
	role, ok := domain.ParseRole(roleName)
	if !ok {
		return domain.Invitation{}, ErrInvalidRole
	}

	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		Role:      role,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.ttl()),
		InvitedBy: actorID,
		CreatedAt: now,
	}

	// 2. Check conflicts and insert atomically.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		active, err := tx.Invitations().HasActiveInvitation(ctx, email, now)
		if err != nil {
			return err
		}
		if active {
			return ErrActiveInviteExists
		}

		_, err = tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailRegistered
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return tx.Invitations().CreateInvitation(ctx, inv)
	})
	if err != nil {
		if errors.Is(err, ErrActiveInviteExists) || errors.Is(err, ErrEmailRegistered) {
			log.Warn("invitation rejected", slog.String("email", email), slog.Any("reason", err))
		} else {
			log.Error("failed to create invitation", slog.Any("error", err))
		}
		return domain.Invitation{}, err
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("email", email),
		slog.String("role", role.String()),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 3. Notify the invitee. Fire-and-forget: a failed send never rolls the
	// invitation back, it only logs.
	s.sendInvitation(ctx, inv)

	return inv, nil
}

// ResendInvitation re-sends the original token for an invitation that is
// still active. Nothing is mutated and the expiry is not extended.
func (s *InviteService) ResendInvitation(ctx context.Context, invitationID string) error {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return err
	}

	if !inv.Active(now) {
		log.Warn("resend attempted on inactive invitation",
			slog.String("invitation_id", inv.ID),
			slog.String("status", string(inv.Status(now))),
		)
		return ErrInviteInactive
	}

	s.sendInvitation(ctx, inv)
	return nil
}

// RevokeInvitation marks a pending invitation revoked. The revoked check runs
// before the used check. Expiry is deliberately not checked: revoking an
// expired-but-unused invitation succeeds, closing it for good.
func (s *InviteService) RevokeInvitation(ctx context.Context, invitationID string) error {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// Fetch, check and mark in one transaction so a concurrent accept cannot
	// land between the check and the mark.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().GetInvitationByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if inv.RevokedAt != nil {
			return ErrInviteAlreadyRevoked
		}
		if inv.UsedAt != nil {
			return ErrInviteAlreadyAccepted
		}

		return tx.Invitations().MarkInvitationRevoked(ctx, inv.ID, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInviteNotFound),
			errors.Is(err, ErrInviteAlreadyRevoked),
			errors.Is(err, ErrInviteAlreadyAccepted):
		default:
			log.Error("failed to revoke invitation",
				slog.String("invitation_id", invitationID),
				slog.Any("error", err),
			)
		}
		return err
	}

	log.Info("invitation revoked", slog.String("invitation_id", invitationID))
	return nil
}

// AcceptInvitation redeems an invitation token and creates the account. It
// performs the following steps:
// 1. Validates input parameters
// 2. Looks up the invitation by token and checks it is active
// 3. Verifies username and email availability
// 4. Creates the user, assigns the role group, and marks the invitation
//    used - atomically in one transaction
func (s *InviteService) AcceptInvitation(
	ctx context.Context,
	token string,
	username string,
	password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Validate input.
	username = strings.TrimSpace(username)
	if token == "" || username == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	// 2. Look up the invitation. Unknown tokens get the same generic error
	// the caller would see for a malformed one; no existence leak.
	inv, err := s.Store.Invitations().GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation acceptance attempted with unknown token")
			return domain.User{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.User{}, err
	}

	if !inv.Active(now) {
		log.Warn("invitation acceptance attempted on inactive invitation",
			slog.String("invitation_id", inv.ID),
			slog.String("status", string(inv.Status(now))),
		)
		return domain.User{}, ErrInviteInactive
	}

	// 3. Hash the password before entering the transaction.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        inv.Email,
		PasswordHash: passwordHash,
		IsStaff:      inv.Role.IsStaffRole(),
	}

	// 4. Availability checks, user creation, group assignment and the
	// single-use mark happen in one transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		_, err = tx.Users().GetUserByEmail(ctx, inv.Email)
		if err == nil {
			return ErrEmailRegistered
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			return err
		}

		if err := tx.Groups().AssignUserToGroup(ctx, newUser.ID, inv.Role.GroupName()); err != nil {
			return err
		}

		// The store guards used_at IS NULL AND revoked_at IS NULL, so a
		// concurrent accept or revoke of the same invitation loses here and
		// the whole transaction rolls back.
		if err := tx.Invitations().MarkInvitationUsed(ctx, inv.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteInactive
			}
			return err
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailRegistered), errors.Is(err, ErrInviteInactive):
			log.Warn("invitation acceptance rejected",
				slog.String("invitation_id", inv.ID),
				slog.Any("reason", err),
			)
		default:
			log.Error("failed to accept invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return domain.User{}, err
	}

	log.Info("user registered via invitation",
		slog.String("user_id", newUser.ID),
		slog.String("username", newUser.Username),
		slog.String("invitation_id", inv.ID),
		slog.String("role", inv.Role.String()),
	)

	return newUser, nil
}

// ListInvitations returns all invitations newest-first.
func (s *InviteService) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitations(ctx)
}

// GetInvitation returns an invitation by id.
func (s *InviteService) GetInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInviteNotFound
		}
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (s *InviteService) sendInvitation(ctx context.Context, inv domain.Invitation) {
	log := slogx.FromContext(ctx)

	subject, body := notify.InvitationMessage(s.BaseURL, inv.Token)
	if err := s.Sender.Send(ctx, inv.Email, subject, body); err != nil {
		log.Warn("failed to send invitation notification",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
	}
}
