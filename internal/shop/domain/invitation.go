package domain

import "time"

// InvitationStatus is derived from the timestamps on an invitation, never
// stored.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is a time-boxed, single-use token granting onboarding to a
// specific role for a specific email. Invitations are never deleted; used_at
// and revoked_at record the terminal outcomes, and at most one of the two is
// ever set.
type Invitation struct {
	ID        string
	Email     string
	Role      Role
	Token     string // opaque unique token embedded in the invite link
	ExpiresAt time.Time
	UsedAt    *time.Time
	RevokedAt *time.Time
	InvitedBy string // creator user ID, may be empty if the creator was deleted
	CreatedAt time.Time
}

// Status computes the lifecycle state at the given instant. Revocation wins
// over acceptance, which wins over expiry; expiry is re-read against now on
// every call rather than stored.
func (inv Invitation) Status(now time.Time) InvitationStatus {
	switch {
	case inv.RevokedAt != nil:
		return InvitationRevoked
	case inv.UsedAt != nil:
		return InvitationAccepted
	case !inv.ExpiresAt.After(now):
		return InvitationExpired
	default:
		return InvitationPending
	}
}

// Active reports whether the invitation can still be accepted at now: not
// revoked, not used, and now still inside [creation, expiry).
func (inv Invitation) Active(now time.Time) bool {
	if inv.RevokedAt != nil || inv.UsedAt != nil {
		return false
	}
	return inv.ExpiresAt.After(now)
}
