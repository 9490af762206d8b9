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

type ProjectService struct {
	Store store.Store
}

// CreateProject creates a project in the workspace. Any member may create.
func (s *ProjectService) CreateProject(ctx context.Context, p domain.Principal, workspaceID, name string) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, domain.BadRequest("Project name must not be blank.")
	}

	project := domain.NewProject(idx.New().String(), workspaceID, name, time.Now())

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := RequireMember(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}
		return tx.Projects().CreateProject(ctx, project)
	})
	if err != nil {
		return domain.Project{}, err
	}

	log.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("workspace_id", workspaceID),
	)
	return project, nil
}

// GetProject returns a project addressed as a sub-resource of the workspace.
// A project id that exists under a different workspace is indistinguishable
// from a missing one.
func (s *ProjectService) GetProject(ctx context.Context, p domain.Principal, workspaceID, projectID string) (domain.Project, error) {
	if _, err := RequireMember(ctx, s.Store, workspaceID, p.UserID); err != nil {
		return domain.Project{}, err
	}
	return s.getScoped(ctx, s.Store, workspaceID, projectID)
}

// ListProjects returns the workspace's projects for any member.
func (s *ProjectService) ListProjects(ctx context.Context, p domain.Principal, workspaceID string) ([]domain.Project, error) {
	if _, err := RequireMember(ctx, s.Store, workspaceID, p.UserID); err != nil {
		return nil, err
	}
	return s.Store.Projects().ListProjectsByWorkspace(ctx, workspaceID)
}

// RenameProject renames a project. Any member may rename.
func (s *ProjectService) RenameProject(ctx context.Context, p domain.Principal, workspaceID, projectID, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, domain.BadRequest("Project name must not be blank.")
	}

	var project domain.Project
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := RequireMember(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		var err error
		project, err = s.getScoped(ctx, tx, workspaceID, projectID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Projects().UpdateProjectName(ctx, projectID, name, now); err != nil {
			return err
		}
		project.Name = name
		project.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project. Owner only.
func (s *ProjectService) DeleteProject(ctx context.Context, p domain.Principal, workspaceID, projectID string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := RequireOwner(ctx, tx, workspaceID, p.UserID); err != nil {
			return err
		}

		if _, err := s.getScoped(ctx, tx, workspaceID, projectID); err != nil {
			return err
		}

		if err := tx.Projects().DeleteProject(ctx, projectID); err != nil {
			return err
		}

		log.Info("project deleted",
			slog.String("project_id", projectID),
			slog.String("workspace_id", workspaceID),
		)
		return nil
	})
}

// getScoped fetches the project and enforces the parent-workspace match.
func (s *ProjectService) getScoped(ctx context.Context, st store.Store, workspaceID, projectID string) (domain.Project, error) {
	project, err := st.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, domain.NotFound("Project not found.")
		}
		return domain.Project{}, err
	}
	if project.WorkspaceID != workspaceID {
		return domain.Project{}, domain.NotFound("Project not found.")
	}
	return project, nil
}
