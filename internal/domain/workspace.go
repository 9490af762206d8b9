package domain

import (
	"fmt"
	"time"
)

// WorkspaceStatus is ACTIVE or CLOSED; closed workspaces are hidden from the
// active listing and cannot be renamed, but keep their membership roster.
type WorkspaceStatus string

const (
	WorkspaceStatusActive WorkspaceStatus = "ACTIVE"
	WorkspaceStatusClosed WorkspaceStatus = "CLOSED"
)

func ParseWorkspaceStatus(s string) (WorkspaceStatus, error) {
	switch WorkspaceStatus(s) {
	case WorkspaceStatusActive, WorkspaceStatusClosed:
		return WorkspaceStatus(s), nil
	}
	return "", fmt.Errorf("unknown workspace status %q", s)
}

type Workspace struct {
	ID        string
	Name      string // unique, trimmed
	Status    WorkspaceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWorkspace(id, name string, now time.Time) Workspace {
	return Workspace{
		ID:        id,
		Name:      name,
		Status:    WorkspaceStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
