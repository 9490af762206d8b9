package sqlite

import (
	"context"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
)

type workspacesRepo struct {
	db dbtx
}

func (r *workspacesRepo) CreateWorkspace(ctx context.Context, w domain.Workspace) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Name, string(w.Status), w.CreatedAt, w.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *workspacesRepo) GetWorkspaceForMember(ctx context.Context, id, userID string) (domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT w.id, w.name, w.status, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE w.id = ? AND m.user_id = ?`,
		id, userID,
	)

	var (
		w      domain.Workspace
		status string
	)
	if err := row.Scan(&w.ID, &w.Name, &status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return domain.Workspace{}, mapNotFound(err)
	}

	var err error
	if w.Status, err = domain.ParseWorkspaceStatus(status); err != nil {
		return domain.Workspace{}, err
	}
	return w, nil
}

func (r *workspacesRepo) ListWorkspacesForMember(ctx context.Context, userID string, status domain.WorkspaceStatus) ([]domain.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.name, w.status, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = ? AND w.status = ?
		 ORDER BY w.created_at DESC`,
		userID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Workspace
	for rows.Next() {
		var (
			w   domain.Workspace
			raw string
		)
		if err := rows.Scan(&w.ID, &w.Name, &raw, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		if w.Status, err = domain.ParseWorkspaceStatus(raw); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *workspacesRepo) NameTakenByOther(ctx context.Context, name, excludeID string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE name = ? AND id != ?`,
		name, excludeID,
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *workspacesRepo) UpdateWorkspaceName(ctx context.Context, id, name string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, updated_at = ? WHERE id = ?`,
		name, updatedAt, id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *workspacesRepo) UpdateWorkspaceStatus(ctx context.Context, id string, status domain.WorkspaceStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), updatedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
