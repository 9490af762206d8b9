package domain

import (
	"fmt"
	"time"
)

// MemberRole is the workspace-scoped role. Promotion is one-directional:
// MEMBER may become OWNER, never the other way around.
type MemberRole string

const (
	MemberRoleMember MemberRole = "MEMBER"
	MemberRoleOwner  MemberRole = "OWNER"
)

func ParseMemberRole(s string) (MemberRole, error) {
	switch MemberRole(s) {
	case MemberRoleMember, MemberRoleOwner:
		return MemberRole(s), nil
	}
	return "", fmt.Errorf("unknown member role %q", s)
}

// WorkspaceMember is the membership row keyed by (WorkspaceID, UserID).
// Every workspace keeps at least one OWNER at all times once created.
type WorkspaceMember struct {
	WorkspaceID string
	UserID      string
	Role        MemberRole
	JoinedAt    time.Time
}

// NewOwner is the membership row inserted atomically with workspace creation.
func NewOwner(workspaceID, userID string, now time.Time) WorkspaceMember {
	return WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        MemberRoleOwner,
		JoinedAt:    now,
	}
}

// NewMember is the membership row created by invite acceptance.
func NewMember(workspaceID, userID string, now time.Time) WorkspaceMember {
	return WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        MemberRoleMember,
		JoinedAt:    now,
	}
}
