package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopcore/minishop/internal/shop/domain"
)

type invitationsRepo struct {
	q querier
}

const invitationColumns = `id, email, role, token, expires_at, used_at, revoked_at,
	invited_by, created_at`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		role      string
		usedAt    sql.NullTime
		revokedAt sql.NullTime
		invitedBy sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.Email, &role, &inv.Token, &inv.ExpiresAt, &usedAt, &revokedAt,
		&invitedBy, &inv.CreatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	r, _ := domain.ParseRole(role)
	inv.Role = r
	inv.UsedAt = mapNullTimePtr(usedAt)
	inv.RevokedAt = mapNullTimePtr(revokedAt)
	inv.InvitedBy = mapNullString(invitedBy)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invitations (id, email, role, token, expires_at, used_at, revoked_at,
			invited_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.Role.GroupName(), inv.Token, inv.ExpiresAt.UTC(),
		mapOptionalTime(inv.UsedAt), mapOptionalTime(inv.RevokedAt),
		mapStringNull(inv.InvitedBy), inv.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	return scanInvitation(r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id))
}

func (r *invitationsRepo) GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error) {
	return scanInvitation(r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = ?`, token))
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationsRepo) HasActiveInvitation(ctx context.Context, email string, now time.Time) (bool, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations
		 WHERE email = ? AND used_at IS NULL AND revoked_at IS NULL AND expires_at > ?`,
		email, now.UTC()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkInvitationUsed and MarkInvitationRevoked both guard against the other
// timestamp being set: a row never carries both, regardless of what the
// caller checked beforehand.

func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, id string, usedAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invitations SET used_at = ?
		 WHERE id = ? AND used_at IS NULL AND revoked_at IS NULL`,
		usedAt.UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) MarkInvitationRevoked(ctx context.Context, id string, revokedAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invitations SET revoked_at = ?
		 WHERE id = ? AND used_at IS NULL AND revoked_at IS NULL`,
		revokedAt.UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) DeleteInvitationsExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations
		 WHERE used_at IS NULL AND revoked_at IS NULL AND expires_at < ?`,
		cutoff.UTC())
	return err
}
