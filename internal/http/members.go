package http

import (
	"net/http"

	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/pkg/httpx"
)

type MemberHandler struct {
	WorkspaceService *service.WorkspaceService
}

func (h *MemberHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	members, err := h.WorkspaceService.ListMembers(r.Context(), p, r.PathValue("workspaceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMemberResponses(members))
}

func (h *MemberHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.WorkspaceService.Leave(r.Context(), p, r.PathValue("workspaceID")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	err := h.WorkspaceService.RemoveMember(r.Context(), p, r.PathValue("workspaceID"), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	err := h.WorkspaceService.PromoteMember(r.Context(), p, r.PathValue("workspaceID"), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
