package sqlite

import (
	"context"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
)

type projectsRepo struct {
	db dbtx
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, workspace_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.Name, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, created_at, updated_at FROM projects WHERE id = ?`,
		id,
	)

	var p domain.Project
	err := row.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}

func (r *projectsRepo) ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, workspace_id, name, created_at, updated_at
		 FROM projects WHERE workspace_id = ? ORDER BY created_at DESC`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) UpdateProjectName(ctx context.Context, id, name string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
		name, updatedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ?`,
		id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
