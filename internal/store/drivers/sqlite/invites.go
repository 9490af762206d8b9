package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.WorkspaceInvite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_invites
		     (id, workspace_id, email, token_hash, expires_at, accepted_at, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.WorkspaceID, inv.Email, inv.TokenHash, inv.ExpiresAt,
		mapOptionalTime(inv.AcceptedAt), inv.CreatedBy, inv.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.WorkspaceInvite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, email, token_hash, expires_at, accepted_at, created_by, created_at
		 FROM workspace_invites WHERE token_hash = ?`,
		hash,
	)

	var (
		inv        domain.WorkspaceInvite
		acceptedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.TokenHash,
		&inv.ExpiresAt, &acceptedAt, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		return domain.WorkspaceInvite{}, mapNotFound(err)
	}

	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	return inv, nil
}

func (r *invitesRepo) ActiveInviteExists(ctx context.Context, workspaceID, email string, now time.Time) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_invites
		 WHERE workspace_id = ? AND email = ? AND accepted_at IS NULL AND expires_at > ?`,
		workspaceID, email, now,
	)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitesRepo) MarkInviteAccepted(ctx context.Context, inviteID string, acceptedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workspace_invites SET accepted_at = ? WHERE id = ? AND accepted_at IS NULL`,
		acceptedAt, inviteID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, workspaceID, email string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_invites
		 WHERE workspace_id = ? AND email = ? AND accepted_at IS NULL AND expires_at <= ?`,
		workspaceID, email, now,
	)
	return err
}

func (r *invitesRepo) DeleteAllExpiredInvites(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_invites WHERE accepted_at IS NULL AND expires_at <= ?`,
		now,
	)
	return err
}
