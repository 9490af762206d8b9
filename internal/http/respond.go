package http

import (
	"errors"
	"net/http"

	"github.com/teamflowhq/teamflow/internal/domain"
	"github.com/teamflowhq/teamflow/pkg/httpx"
	"github.com/teamflowhq/teamflow/pkg/slogx"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is logged and reported as a generic 500 so internal
// details never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error."})
		return
	}
	httpx.WriteJSON(w, status, errorResponse{Message: err.Error()})
}

func writeInvalidJSON(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON body."})
}

// requirePrincipal extracts the authenticated principal, writing a 401 when
// the claims are missing. The authn middleware normally guarantees presence;
// this covers routes wired without it by mistake.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := principalFromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required."})
	}
	return p, ok
}
