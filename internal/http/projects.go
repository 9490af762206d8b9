package http

import (
	"encoding/json"
	"net/http"

	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/pkg/httpx"
)

type ProjectHandler struct {
	ProjectService *service.ProjectService
}

type projectRequest struct {
	Name string `json:"name"`
}

func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), p, r.PathValue("workspaceID"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	projects, err := h.ProjectService.ListProjects(r.Context(), p, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponses(projects))
}

func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	project, err := h.ProjectService.GetProject(r.Context(), p, r.PathValue("workspaceID"), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	project, err := h.ProjectService.RenameProject(r.Context(), p, r.PathValue("workspaceID"), r.PathValue("projectID"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	err := h.ProjectService.DeleteProject(r.Context(), p, r.PathValue("workspaceID"), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
