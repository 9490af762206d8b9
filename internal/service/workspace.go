package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/internal/store"
	"github.com/teamflowhq/teamflow/pkg/idx"
	"github.com/teamflowhq/teamflow/pkg/slogx"
)

type WorkspaceService struct {
	Store store.Store
}

// CreateWorkspace creates the workspace and its first OWNER membership in one
// transaction. A workspace without an owner never exists, not even briefly.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, p domain.Principal, name string) (domain.Workspace, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Workspace{}, domain.BadRequest("Workspace name must not be blank.")
	}

	now := time.Now()
	ws := domain.NewWorkspace(idx.New().String(), name, now)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		taken, err := tx.Workspaces().NameTakenByOther(ctx, name, ws.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflict("Workspace with this name already exists.")
		}

		if err := tx.Workspaces().CreateWorkspace(ctx, ws); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict("Workspace with this name already exists.")
			}
			return err
		}

		return tx.Members().AddMember(ctx, domain.NewOwner(ws.ID, p.UserID, now))
	})
	if err != nil {
		return domain.Workspace{}, err
	}

	log.Info("workspace created",
		slog.String("workspace_id", ws.ID),
		slog.String("owner_id", p.UserID),
	)

	return ws, nil
}

// GetWorkspace returns the workspace if the caller is a member.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, p domain.Principal, workspaceID string) (domain.Workspace, error) {
	ws, err := s.Store.Workspaces().GetWorkspaceForMember(ctx, workspaceID, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Workspace{}, domain.NotFound("Workspace not found.")
		}
		return domain.Workspace{}, err
	}
	return ws, nil
}

// ListWorkspaces returns the caller's workspaces in the given status.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, p domain.Principal, status domain.WorkspaceStatus) ([]domain.Workspace, error) {
	return s.Store.Workspaces().ListWorkspacesForMember(ctx, p.UserID, status)
}

// RenameWorkspace renames an active workspace. Owner only.
func (s *WorkspaceService) RenameWorkspace(ctx context.Context, p domain.Principal, workspaceID, name string) (domain.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Workspace{}, domain.BadRequest("Workspace name must not be blank.")
	}

	var ws domain.Workspace
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		var err error
		ws, err = tx.Workspaces().GetWorkspaceForMember(ctx, workspaceID, p.UserID)
		if err != nil {
			return err
		}
		if ws.Status == domain.WorkspaceStatusClosed {
			return domain.Conflict("Closed workspace cannot be renamed.")
		}

		taken, err := tx.Workspaces().NameTakenByOther(ctx, name, workspaceID)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflict("Workspace with this name already exists.")
		}

		now := time.Now()
		if err := tx.Workspaces().UpdateWorkspaceName(ctx, workspaceID, name, now); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.Conflict("Workspace with this name already exists.")
			}
			return err
		}
		ws.Name = name
		ws.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

// CloseWorkspace moves the workspace to CLOSED. Owner only.
func (s *WorkspaceService) CloseWorkspace(ctx context.Context, p domain.Principal, workspaceID string) (domain.Workspace, error) {
	return s.setStatus(ctx, p, workspaceID, domain.WorkspaceStatusClosed, "Workspace is already closed.")
}

// RestoreWorkspace moves a CLOSED workspace back to ACTIVE. Owner only.
func (s *WorkspaceService) RestoreWorkspace(ctx context.Context, p domain.Principal, workspaceID string) (domain.Workspace, error) {
	return s.setStatus(ctx, p, workspaceID, domain.WorkspaceStatusActive, "Workspace is already active.")
}

func (s *WorkspaceService) setStatus(
	ctx context.Context,
	p domain.Principal,
	workspaceID string,
	status domain.WorkspaceStatus,
	alreadyMsg string,
) (domain.Workspace, error) {
	log := slogx.FromContext(ctx)

	var ws domain.Workspace
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		var err error
		ws, err = tx.Workspaces().GetWorkspaceForMember(ctx, workspaceID, p.UserID)
		if err != nil {
			return err
		}
		if ws.Status == status {
			return domain.Conflict(alreadyMsg)
		}

		now := time.Now()
		if err := tx.Workspaces().UpdateWorkspaceStatus(ctx, workspaceID, status, now); err != nil {
			return err
		}
		ws.Status = status
		ws.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Workspace{}, err
	}

	log.Info("workspace status changed",
		slog.String("workspace_id", workspaceID),
		slog.String("status", string(status)),
	)
	return ws, nil
}

// ListMembers returns the workspace roster. Any member may read it.
func (s *WorkspaceService) ListMembers(ctx context.Context, p domain.Principal, workspaceID string) ([]domain.WorkspaceMember, error) {
	if _, err := RequireMember(ctx, s.Store, workspaceID, p.UserID); err != nil {
		return nil, err
	}
	return s.Store.Members().ListMembers(ctx, workspaceID)
}

// Leave removes the caller's own membership. The last OWNER cannot leave; the
// count and the delete share a transaction so two concurrent owners cannot
// both slip out.
func (s *WorkspaceService) Leave(ctx context.Context, p domain.Principal, workspaceID string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		role, err := RequireMember(ctx, tx, workspaceID, p.UserID)
		if err != nil {
			return err
		}

		if role == domain.MemberRoleOwner {
			owners, err := tx.Members().CountByRole(ctx, workspaceID, domain.MemberRoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.Conflict("Cannot leave workspace as the only owner.")
			}
		}

		if err := tx.Members().RemoveMember(ctx, workspaceID, p.UserID); err != nil {
			return err
		}

		log.Info("member left workspace",
			slog.String("workspace_id", workspaceID),
			slog.String("user_id", p.UserID),
		)
		return nil
	})
}

// RemoveMember removes another member. Owner only; self-removal goes through
// Leave so the last-owner rule has a single code path per direction.
func (s *WorkspaceService) RemoveMember(ctx context.Context, p domain.Principal, workspaceID, memberUserID string) error {
	log := slogx.FromContext(ctx)

	if memberUserID == p.UserID {
		return domain.BadRequest("Use leave endpoint to leave the workspace.")
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		role, err := tx.Members().GetRole(ctx, workspaceID, memberUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("Member not found.")
			}
			return err
		}

		if role == domain.MemberRoleOwner {
			owners, err := tx.Members().CountByRole(ctx, workspaceID, domain.MemberRoleOwner)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return domain.Conflict("Cannot remove the only owner.")
			}
		}

		if err := tx.Members().RemoveMember(ctx, workspaceID, memberUserID); err != nil {
			return err
		}

		log.Info("member removed",
			slog.String("workspace_id", workspaceID),
			slog.String("removed_user_id", memberUserID),
			slog.String("removed_by", p.UserID),
		)
		return nil
	})
}

// PromoteMember raises a MEMBER to OWNER. Owner only; there is no demotion.
func (s *WorkspaceService) PromoteMember(ctx context.Context, p domain.Principal, workspaceID, memberUserID string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		role, err := tx.Members().GetRole(ctx, workspaceID, memberUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NotFound("Member not found.")
			}
			return err
		}
		if role == domain.MemberRoleOwner {
			return domain.Conflict("Member is already an owner.")
		}

		if err := tx.Members().UpdateRole(ctx, workspaceID, memberUserID, domain.MemberRoleOwner); err != nil {
			return err
		}

		log.Info("member promoted to owner",
			slog.String("workspace_id", workspaceID),
			slog.String("user_id", memberUserID),
			slog.String("promoted_by", p.UserID),
		)
		return nil
	})
}
