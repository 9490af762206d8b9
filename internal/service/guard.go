package service

import (
	"context"
	"errors"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/internal/store"
)

// RequireMember resolves the caller's role in the workspace. A non-member
// gets the same NotFound as a missing workspace, so outsiders cannot probe
// which workspace ids exist.
//
// It takes the store as a parameter so the same check runs against the root
// store or inside a transaction (store.Tx satisfies store.Store).
func RequireMember(ctx context.Context, s store.Store, workspaceID, userID string) (domain.MemberRole, error) {
	role, err := s.Members().GetRole(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.NotFound("Workspace not found.")
		}
		return "", err
	}
	return role, nil
}

// RequireOwner is RequireMember plus the OWNER check. Membership resolution
// runs first, so non-members still get NotFound rather than Forbidden.
func RequireOwner(ctx context.Context, s store.Store, workspaceID, userID string) error {
	role, err := RequireMember(ctx, s, workspaceID, userID)
	if err != nil {
		return err
	}
	if role != domain.MemberRoleOwner {
		return domain.Forbidden("Only workspace owner can perform this action.")
	}
	return nil
}
