package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/shopcore/minishop/internal/shop/service"
	"github.com/shopcore/minishop/internal/shop/store"
	"github.com/shopcore/minishop/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newInviteService(t *testing.T) (*service.InviteService, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	return &service.InviteService{
		Store:   newTestStore(t),
		Sender:  sender,
		BaseURL: "http://shop.test",
	}, sender
}

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()
	svc, sender := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "Alice@Example.com", "manager", "")
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", inv.Email)
	require.Equal(t, domain.RoleManager, inv.Role)
	require.NotEmpty(t, inv.Token)
	require.WithinDuration(t, time.Now().Add(service.DefaultInvitationTTL), inv.ExpiresAt, time.Minute)

	// The invitee got exactly one message carrying the accept link.
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "alice@example.com", msgs[0].Recipient)
	require.Contains(t, msgs[0].Body, "http://shop.test/accept?token="+inv.Token)

	stored, err := svc.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, stored.Status(time.Now().UTC()))
}

func TestCreateInvitation_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	_, err := svc.CreateInvitation(ctx, "not-an-email", "staff", "")
	require.ErrorIs(t, err, service.ErrInvalidEmail)

	_, err = svc.CreateInvitation(ctx, "ok@example.com", "overlord", "")
	require.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestCreateInvitation_DuplicateActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	_, err := svc.CreateInvitation(ctx, "dup@example.com", "staff", "")
	require.NoError(t, err)

	_, err = svc.CreateInvitation(ctx, "dup@example.com", "manager", "")
	require.ErrorIs(t, err, service.ErrActiveInviteExists)
}

func TestCreateInvitation_AfterInactivePredecessor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "second@example.com", "staff", "")
	require.NoError(t, err)
	require.NoError(t, svc.RevokeInvitation(ctx, inv.ID))

	// A revoked invitation no longer blocks a fresh one for the same email.
	_, err = svc.CreateInvitation(ctx, "second@example.com", "staff", "")
	require.NoError(t, err)
}

func TestCreateInvitation_EmailAlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	seedUser(t, svc.Store, domain.User{
		ID:       idx.New().String(),
		Username: "existing",
		Email:    "taken@example.com",
	})

	_, err := svc.CreateInvitation(ctx, "taken@example.com", "staff", "")
	require.ErrorIs(t, err, service.ErrEmailRegistered)
}

func TestResendInvitation(t *testing.T) {
	ctx := context.Background()
	svc, sender := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "resend@example.com", "staff", "")
	require.NoError(t, err)

	require.NoError(t, svc.ResendInvitation(ctx, inv.ID))

	// Same token both times; nothing was rotated or extended.
	msgs := sender.messages()
	require.Len(t, msgs, 2)
	require.Equal(t, msgs[0].Body, msgs[1].Body)

	after, err := svc.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.Token, after.Token)
	require.True(t, inv.ExpiresAt.Equal(after.ExpiresAt))
}

func TestResendInvitation_Inactive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "gone@example.com", "staff", "")
	require.NoError(t, err)
	require.NoError(t, svc.RevokeInvitation(ctx, inv.ID))

	err = svc.ResendInvitation(ctx, inv.ID)
	require.ErrorIs(t, err, service.ErrInviteInactive)

	err = svc.ResendInvitation(ctx, idx.New().String())
	require.ErrorIs(t, err, service.ErrInviteNotFound)
}

func TestRevokeInvitation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "revoke@example.com", "staff", "")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeInvitation(ctx, inv.ID))

	after, err := svc.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationRevoked, after.Status(time.Now().UTC()))

	// Second revoke reports the existing revocation.
	err = svc.RevokeInvitation(ctx, inv.ID)
	require.ErrorIs(t, err, service.ErrInviteAlreadyRevoked)
}

func TestRevokeInvitation_AlreadyAccepted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "used@example.com", "staff", "")
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Token, "useduser", "secret")
	require.NoError(t, err)

	err = svc.RevokeInvitation(ctx, inv.ID)
	require.ErrorIs(t, err, service.ErrInviteAlreadyAccepted)
}

func TestRevokeInvitation_ExpiredStillRevocable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	// Insert an already-expired, never-used invitation directly.
	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     "late@example.com",
		Role:      domain.RoleStaff,
		Token:     "expired-token",
		ExpiresAt: pastTime(time.Hour),
	}
	require.NoError(t, svc.Store.Invitations().CreateInvitation(ctx, inv))

	// Revocation is allowed any time before acceptance, expiry included.
	require.NoError(t, svc.RevokeInvitation(ctx, inv.ID))

	after, err := svc.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationRevoked, after.Status(time.Now().UTC()))
}

func TestAcceptInvitation_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)
	users := &service.UserService{Store: svc.Store}

	inv, err := svc.CreateInvitation(ctx, "bob@x.com", "manager", "")
	require.NoError(t, err)

	u, err := svc.AcceptInvitation(ctx, inv.Token, "bob", "p")
	require.NoError(t, err)
	require.Equal(t, "bob", u.Username)
	require.Equal(t, "bob@x.com", u.Email)
	require.True(t, u.IsStaff)

	role, err := users.ResolveRole(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, role)

	after, err := svc.GetInvitation(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, after.Status(time.Now().UTC()))
}

func TestAcceptInvitation_SingleUse(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	inv, err := svc.CreateInvitation(ctx, "once@example.com", "staff", "")
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Token, "first", "pw")
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, inv.Token, "second", "pw")
	require.ErrorIs(t, err, service.ErrInviteInactive)
}

func TestAcceptInvitation_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.AcceptInvitation(ctx, "no-such-token", "user", "pw")
		require.ErrorIs(t, err, service.ErrInviteNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.AcceptInvitation(ctx, "", "user", "pw")
		require.ErrorIs(t, err, service.ErrMissingFields)

		_, err = svc.AcceptInvitation(ctx, "tok", "  ", "pw")
		require.ErrorIs(t, err, service.ErrMissingFields)

		_, err = svc.AcceptInvitation(ctx, "tok", "user", "")
		require.ErrorIs(t, err, service.ErrMissingFields)
	})

	t.Run("username taken", func(t *testing.T) {
		seedUser(t, svc.Store, domain.User{
			ID:       idx.New().String(),
			Username: "squatter",
			Email:    "squatter@example.com",
		})

		inv, err := svc.CreateInvitation(ctx, "newcomer@example.com", "staff", "")
		require.NoError(t, err)

		_, err = svc.AcceptInvitation(ctx, inv.Token, "squatter", "pw")
		require.ErrorIs(t, err, service.ErrUsernameTaken)

		// The failed attempt burned nothing; the invitation is still open.
		after, err := svc.GetInvitation(ctx, inv.ID)
		require.NoError(t, err)
		require.True(t, after.Active(time.Now().UTC()))
	})

	t.Run("expired token", func(t *testing.T) {
		inv := domain.Invitation{
			ID:        idx.New().String(),
			Email:     "slow@example.com",
			Role:      domain.RoleStaff,
			Token:     "slow-token",
			ExpiresAt: pastTime(time.Minute),
		}
		require.NoError(t, svc.Store.Invitations().CreateInvitation(ctx, inv))

		_, err := svc.AcceptInvitation(ctx, inv.Token, "slowpoke", "pw")
		require.ErrorIs(t, err, service.ErrInviteInactive)
	})
}

func TestListInvitations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInviteService(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.CreateInvitation(ctx, email, "staff", "")
		require.NoError(t, err)
	}

	invs, err := svc.ListInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, invs, 3)

	for _, inv := range invs {
		require.True(t, strings.HasSuffix(inv.Email, "@example.com"))
	}
}

// An invitation row never carries both used_at and revoked_at, even when the
// marks are issued back to back at the store level with no service checks in
// between.
func TestInvitationMarks_MutuallyExclusive(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newInvitation := func(t *testing.T, st store.Store, token string) domain.Invitation {
		t.Helper()
		inv := domain.Invitation{
			ID:        idx.New().String(),
			Email:     token + "@example.com",
			Role:      domain.RoleStaff,
			Token:     token,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
		}
		require.NoError(t, st.Invitations().CreateInvitation(ctx, inv))
		return inv
	}

	t.Run("revoked row rejects the used mark", func(t *testing.T) {
		st := newTestStore(t)
		inv := newInvitation(t, st, "revoked-first")

		require.NoError(t, st.Invitations().MarkInvitationRevoked(ctx, inv.ID, now))

		err := st.Invitations().MarkInvitationUsed(ctx, inv.ID, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		after, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, after.RevokedAt)
		require.Nil(t, after.UsedAt)
	})

	t.Run("used row rejects the revoked mark", func(t *testing.T) {
		st := newTestStore(t)
		inv := newInvitation(t, st, "used-first")

		require.NoError(t, st.Invitations().MarkInvitationUsed(ctx, inv.ID, now))

		err := st.Invitations().MarkInvitationRevoked(ctx, inv.ID, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		after, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, after.UsedAt)
		require.Nil(t, after.RevokedAt)
	})
}
