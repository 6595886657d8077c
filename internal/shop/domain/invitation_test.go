package domain_test

import (
	"testing"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
	"github.com/stretchr/testify/require"
)

func TestInvitationStatus(t *testing.T) {
	now := time.Now().UTC()
	used := now.Add(-time.Hour)
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name string
		inv  domain.Invitation
		want domain.InvitationStatus
	}{
		{
			name: "pending inside window",
			inv:  domain.Invitation{ExpiresAt: now.Add(time.Hour)},
			want: domain.InvitationPending,
		},
		{
			name: "expired after window",
			inv:  domain.Invitation{ExpiresAt: now.Add(-time.Hour)},
			want: domain.InvitationExpired,
		},
		{
			name: "accepted when used",
			inv:  domain.Invitation{ExpiresAt: now.Add(time.Hour), UsedAt: &used},
			want: domain.InvitationAccepted,
		},
		{
			name: "accepted even past expiry",
			inv:  domain.Invitation{ExpiresAt: now.Add(-time.Hour), UsedAt: &used},
			want: domain.InvitationAccepted,
		},
		{
			name: "revoked when revoked",
			inv:  domain.Invitation{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked},
			want: domain.InvitationRevoked,
		},
		{
			name: "revoked wins over used",
			inv:  domain.Invitation{ExpiresAt: now.Add(time.Hour), UsedAt: &used, RevokedAt: &revoked},
			want: domain.InvitationRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.inv.Status(now))
		})
	}
}

func TestInvitationActive(t *testing.T) {
	now := time.Now().UTC()
	used := now.Add(-time.Hour)

	require.True(t, domain.Invitation{ExpiresAt: now.Add(time.Hour)}.Active(now))
	require.False(t, domain.Invitation{ExpiresAt: now.Add(-time.Second)}.Active(now))
	require.False(t, domain.Invitation{ExpiresAt: now.Add(time.Hour), UsedAt: &used}.Active(now))
	require.False(t, domain.Invitation{ExpiresAt: now.Add(time.Hour), RevokedAt: &used}.Active(now))

	// Boundary: the expiry instant itself is no longer active.
	require.False(t, domain.Invitation{ExpiresAt: now}.Active(now))
}
