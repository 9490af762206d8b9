package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/internal/store"
	"github.com/teamflowhq/teamflow/pkg/httpx"
	"github.com/teamflowhq/teamflow/pkg/jwtx"
	"github.com/teamflowhq/teamflow/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	WorkspaceService *service.WorkspaceService
	InviteService    *service.InviteService
	ProjectService   *service.ProjectService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerWorkspaces()
	r.registerMembers()
	r.registerInvites()
	r.registerProjects()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps a handler with bearer-token verification.
func (r *Router) authed(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h, httpx.AuthnMiddleware(r.verifier))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/verify-email", http.HandlerFunc(h.HandleVerifyEmail))
	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("GET /v1/me", r.authed(h.HandleMe))
}

func (r *Router) registerWorkspaces() {
	h := &WorkspaceHandler{WorkspaceService: r.WorkspaceService}

	r.Mux.Handle("POST /v1/workspaces", r.authed(h.HandleCreate))
	r.Mux.Handle("GET /v1/workspaces", r.authed(h.HandleList))
	r.Mux.Handle("GET /v1/workspaces/{workspaceID}", r.authed(h.HandleGet))
	r.Mux.Handle("PATCH /v1/workspaces/{workspaceID}", r.authed(h.HandleRename))
	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/close", r.authed(h.HandleClose))
	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/restore", r.authed(h.HandleRestore))
}

func (r *Router) registerMembers() {
	h := &MemberHandler{WorkspaceService: r.WorkspaceService}

	r.Mux.Handle("GET /v1/workspaces/{workspaceID}/members", r.authed(h.HandleList))
	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/leave", r.authed(h.HandleLeave))
	r.Mux.Handle("DELETE /v1/workspaces/{workspaceID}/members/{userID}", r.authed(h.HandleRemove))
	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/members/{userID}/promote", r.authed(h.HandlePromote))
}

func (r *Router) registerInvites() {
	h := &InviteHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/invites", r.authed(h.HandleInvite))
	r.Mux.Handle("POST /v1/invites/accept", r.authed(h.HandleAccept))
}

func (r *Router) registerProjects() {
	h := &ProjectHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("POST /v1/workspaces/{workspaceID}/projects", r.authed(h.HandleCreate))
	r.Mux.Handle("GET /v1/workspaces/{workspaceID}/projects", r.authed(h.HandleList))
	r.Mux.Handle("GET /v1/workspaces/{workspaceID}/projects/{projectID}", r.authed(h.HandleGet))
	r.Mux.Handle("PATCH /v1/workspaces/{workspaceID}/projects/{projectID}", r.authed(h.HandleRename))
	r.Mux.Handle("DELETE /v1/workspaces/{workspaceID}/projects/{projectID}", r.authed(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
