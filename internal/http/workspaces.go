package http

import (
	"encoding/json"
	"net/http"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/pkg/httpx"
)

type WorkspaceHandler struct {
	WorkspaceService *service.WorkspaceService
}

type workspaceRequest struct {
	Name string `json:"name"`
}

func (h *WorkspaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	ws, err := h.WorkspaceService.CreateWorkspace(r.Context(), p, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toWorkspaceResponse(ws))
}

// HandleList returns the caller's workspaces; ?status=CLOSED switches to the
// closed listing, anything else (or nothing) means ACTIVE.
func (h *WorkspaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	status := domain.WorkspaceStatusActive
	if s, err := domain.ParseWorkspaceStatus(r.URL.Query().Get("status")); err == nil {
		status = s
	}

	list, err := h.WorkspaceService.ListWorkspaces(r.Context(), p, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceResponses(list))
}

func (h *WorkspaceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	ws, err := h.WorkspaceService.GetWorkspace(r.Context(), p, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	ws, err := h.WorkspaceService.RenameWorkspace(r.Context(), p, r.PathValue("workspaceID"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	ws, err := h.WorkspaceService.CloseWorkspace(r.Context(), p, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	ws, err := h.WorkspaceService.RestoreWorkspace(r.Context(), p, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}
