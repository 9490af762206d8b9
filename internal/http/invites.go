package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/pkg/httpx"
)

type InviteHandler struct {
	InviteService *service.InviteService
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *InviteHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	invite, err := h.InviteService.Invite(r.Context(), p, r.PathValue("workspaceID"), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInviteResponse(invite, time.Now()))
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

func (h *InviteHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req acceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	member, err := h.InviteService.AcceptInvite(r.Context(), p, req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMemberResponse(member))
}
