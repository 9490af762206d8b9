package teamflowsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Session is an authenticated client. Access tokens are short-lived and the
// service issues no refresh tokens, so when the token expires the caller
// logs in again for a fresh Session.
type Session struct {
	client      *Client
	accessToken string
}

// AccessToken exposes the raw bearer token, e.g. for storage between runs.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) doJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return s.client.send(ctx, method, path, body, s.accessToken)
}

// Me returns the authenticated user's profile.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/workspaces", nameRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var ws Workspace
	if err := decodeJSON(resp, &ws, http.StatusCreated); err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListWorkspaces returns the caller's workspaces. status is "ACTIVE" or
// "CLOSED"; empty means ACTIVE.
func (s *Session) ListWorkspaces(ctx context.Context, status string) ([]Workspace, error) {
	path := "/v1/workspaces"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	resp, err := s.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list []Workspace
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Session) GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/workspaces/"+workspaceID, nil)
	if err != nil {
		return nil, err
	}

	var ws Workspace
	if err := decodeJSON(resp, &ws, http.StatusOK); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *Session) RenameWorkspace(ctx context.Context, workspaceID, name string) (*Workspace, error) {
	resp, err := s.doJSON(ctx, http.MethodPatch, "/v1/workspaces/"+workspaceID, nameRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var ws Workspace
	if err := decodeJSON(resp, &ws, http.StatusOK); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *Session) CloseWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	return s.postWorkspaceAction(ctx, workspaceID, "close")
}

func (s *Session) RestoreWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	return s.postWorkspaceAction(ctx, workspaceID, "restore")
}

func (s *Session) postWorkspaceAction(ctx context.Context, workspaceID, action string) (*Workspace, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/v1/workspaces/%s/%s", workspaceID, action), nil)
	if err != nil {
		return nil, err
	}

	var ws Workspace
	if err := decodeJSON(resp, &ws, http.StatusOK); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *Session) ListMembers(ctx context.Context, workspaceID string) ([]Member, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/workspaces/"+workspaceID+"/members", nil)
	if err != nil {
		return nil, err
	}

	var members []Member
	if err := decodeJSON(resp, &members, http.StatusOK); err != nil {
		return nil, err
	}
	return members, nil
}

// LeaveWorkspace removes the caller's own membership.
func (s *Session) LeaveWorkspace(ctx context.Context, workspaceID string) error {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/workspaces/"+workspaceID+"/leave", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	resp, err := s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/v1/workspaces/%s/members/%s", workspaceID, userID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) PromoteMember(ctx context.Context, workspaceID, userID string) error {
	resp, err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/v1/workspaces/%s/members/%s/promote", workspaceID, userID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// InviteToWorkspace invites an email address; the invite token itself is
// delivered out of band to the invitee.
func (s *Session) InviteToWorkspace(ctx context.Context, workspaceID, email string) (*Invite, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/workspaces/"+workspaceID+"/invites", emailRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var invite Invite
	if err := decodeJSON(resp, &invite, http.StatusCreated); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite redeems an invite token for the authenticated user.
func (s *Session) AcceptInvite(ctx context.Context, token string) (*Member, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/invites/accept", tokenRequest{Token: token})
	if err != nil {
		return nil, err
	}

	var member Member
	if err := decodeJSON(resp, &member, http.StatusOK); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Session) CreateProject(ctx context.Context, workspaceID, name string) (*Project, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/workspaces/"+workspaceID+"/projects", nameRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var project Project
	if err := decodeJSON(resp, &project, http.StatusCreated); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Session) ListProjects(ctx context.Context, workspaceID string) ([]Project, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/workspaces/"+workspaceID+"/projects", nil)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := decodeJSON(resp, &projects, http.StatusOK); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Session) GetProject(ctx context.Context, workspaceID, projectID string) (*Project, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/v1/workspaces/%s/projects/%s", workspaceID, projectID), nil)
	if err != nil {
		return nil, err
	}

	var project Project
	if err := decodeJSON(resp, &project, http.StatusOK); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Session) RenameProject(ctx context.Context, workspaceID, projectID, name string) (*Project, error) {
	resp, err := s.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/v1/workspaces/%s/projects/%s", workspaceID, projectID), nameRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var project Project
	if err := decodeJSON(resp, &project, http.StatusOK); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Session) DeleteProject(ctx context.Context, workspaceID, projectID string) error {
	resp, err := s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/v1/workspaces/%s/projects/%s", workspaceID, projectID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
