package domain

import "time"

// Project is a workspace-scoped sub-resource. Operations addressing a
// project by id always verify it belongs to the stated workspace.
type Project struct {
	ID          string
	WorkspaceID string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProject(id, workspaceID, name string, now time.Time) Project {
	return Project{
		ID:          id,
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
