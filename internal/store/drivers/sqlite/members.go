package sqlite

import (
	"context"

	"github.com/teamflowhq/teamflow/internal/domain"
)

type membersRepo struct {
	db dbtx
}

func (r *membersRepo) AddMember(ctx context.Context, m domain.WorkspaceMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?)`,
		m.WorkspaceID, m.UserID, string(m.Role), m.JoinedAt,
	)
	return mapConstraint(err)
}

func (r *membersRepo) GetRole(ctx context.Context, workspaceID, userID string) (domain.MemberRole, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT role FROM workspace_members WHERE workspace_id = ? AND user_id = ?`,
		workspaceID, userID,
	)

	var raw string
	if err := row.Scan(&raw); err != nil {
		return "", mapNotFound(err)
	}
	return domain.ParseMemberRole(raw)
}

func (r *membersRepo) CountByRole(ctx context.Context, workspaceID string, role domain.MemberRole) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_members WHERE workspace_id = ? AND role = ?`,
		workspaceID, string(role),
	)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *membersRepo) ListMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT workspace_id, user_id, role, joined_at
		 FROM workspace_members
		 WHERE workspace_id = ?
		 ORDER BY role DESC, joined_at ASC`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WorkspaceMember
	for rows.Next() {
		var (
			m   domain.WorkspaceMember
			raw string
		)
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &raw, &m.JoinedAt); err != nil {
			return nil, err
		}
		if m.Role, err = domain.ParseMemberRole(raw); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membersRepo) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = ? AND user_id = ?`,
		workspaceID, userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *membersRepo) UpdateRole(ctx context.Context, workspaceID, userID string, role domain.MemberRole) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?`,
		string(role), workspaceID, userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
