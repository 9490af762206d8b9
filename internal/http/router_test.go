package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/internal/store/drivers/sqlite"
	"github.com/teamflowhq/teamflow/pkg/cryptox"
	"github.com/teamflowhq/teamflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "teamflow-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type testNotifier struct {
	verificationTokens map[string]string
	inviteTokens       map[string]string
}

func (n *testNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	n.verificationTokens[email] = token
	return nil
}

func (n *testNotifier) SendWorkspaceInvite(ctx context.Context, email, workspaceID, workspaceName, token string, expiresAt time.Time) error {
	n.inviteTokens[email] = token
	return nil
}

type testServer struct {
	server   *httptest.Server
	notifier *testNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(secret, "test-issuer")

	notifier := &testNotifier{
		verificationTokens: make(map[string]string),
		inviteTokens:       make(map[string]string),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(verifier, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:     st,
		Signer:    signer,
		Notifier:  notifier,
		Issuer:    "test-issuer",
		AccessTTL: time.Minute,
	}
	router.WorkspaceService = &service.WorkspaceService{Store: st}
	router.InviteService = &service.InviteService{Store: st, Notifier: notifier}
	router.ProjectService = &service.ProjectService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{server: srv, notifier: notifier}
}

// do issues a JSON request; token may be empty for anonymous calls.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

// signUp registers, verifies, and logs in a user, returning the bearer token.
func (ts *testServer) signUp(t *testing.T, username, email, password string) string {
	t.Helper()

	resp, _ := ts.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/v1/auth/verify-email", "", map[string]string{
		"token": ts.notifier.verificationTokens[email],
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw := ts.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))
	require.Equal(t, "Bearer", tok.TokenType)
	return tok.AccessToken
}

func TestSignupFlow(t *testing.T) {
	ts := newTestServer(t)

	token := ts.signUp(t, "alice", "alice@example.com", "s3cret-pass")

	resp, raw := ts.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me userResponse
	require.NoError(t, json.Unmarshal(raw, &me))
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "ACTIVE", me.Status)
	require.NotNil(t, me.EmailVerifiedAt)
}

func TestAuthnRequired(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/v1/workspaces", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFailureParity(t *testing.T) {
	ts := newTestServer(t)
	ts.signUp(t, "alice", "alice@example.com", "s3cret-pass")

	_, rawUnknown := ts.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "s3cret-pass",
	})
	_, rawWrongPw := ts.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	require.JSONEq(t, string(rawUnknown), string(rawWrongPw))
}

func TestWorkspaceAndInviteFlow(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := ts.signUp(t, "alice", "alice@example.com", "pw-alice-1")
	bobToken := ts.signUp(t, "bob", "bob@example.com", "pw-bob-1")

	// Alice creates a workspace.
	resp, raw := ts.do(t, http.MethodPost, "/v1/workspaces", aliceToken, map[string]string{"name": "Design Team"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ws workspaceResponse
	require.NoError(t, json.Unmarshal(raw, &ws))

	// Bob cannot see it.
	resp, _ = ts.do(t, http.MethodGet, "/v1/workspaces/"+ws.ID, bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Alice invites Bob.
	resp, _ = ts.do(t, http.MethodPost, "/v1/workspaces/"+ws.ID+"/invites", aliceToken, map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate active invite conflicts.
	resp, raw = ts.do(t, http.MethodPost, "/v1/workspaces/"+ws.ID+"/invites", aliceToken, map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(raw), "Active invite already exists for this email.")

	// Bob accepts.
	resp, raw = ts.do(t, http.MethodPost, "/v1/invites/accept", bobToken, map[string]string{
		"token": ts.notifier.inviteTokens["bob@example.com"],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var member memberResponse
	require.NoError(t, json.Unmarshal(raw, &member))
	require.Equal(t, "MEMBER", member.Role)

	// Roster shows both, owner first.
	resp, raw = ts.do(t, http.MethodGet, "/v1/workspaces/"+ws.ID+"/members", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var members []memberResponse
	require.NoError(t, json.Unmarshal(raw, &members))
	require.Len(t, members, 2)
	require.Equal(t, "OWNER", members[0].Role)

	// Bob cannot rename; Alice can.
	resp, _ = ts.do(t, http.MethodPatch, "/v1/workspaces/"+ws.ID, bobToken, map[string]string{"name": "Bob Team"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPatch, "/v1/workspaces/"+ws.ID, aliceToken, map[string]string{"name": "Product Team"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Sole owner cannot leave.
	resp, raw = ts.do(t, http.MethodPost, "/v1/workspaces/"+ws.ID+"/leave", aliceToken, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(raw), "Cannot leave workspace as the only owner.")

	// Promote Bob, then Alice can leave.
	resp, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/v1/workspaces/%s/members/%s/promote", ws.ID, member.UserID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/v1/workspaces/"+ws.ID+"/leave", aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProjectScoping(t *testing.T) {
	ts := newTestServer(t)

	aliceToken := ts.signUp(t, "alice", "alice@example.com", "pw-alice-1")

	_, raw := ts.do(t, http.MethodPost, "/v1/workspaces", aliceToken, map[string]string{"name": "First"})
	var first workspaceResponse
	require.NoError(t, json.Unmarshal(raw, &first))

	_, raw = ts.do(t, http.MethodPost, "/v1/workspaces", aliceToken, map[string]string{"name": "Second"})
	var second workspaceResponse
	require.NoError(t, json.Unmarshal(raw, &second))

	resp, raw := ts.do(t, http.MethodPost, "/v1/workspaces/"+first.ID+"/projects", aliceToken, map[string]string{"name": "Website"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var project projectResponse
	require.NoError(t, json.Unmarshal(raw, &project))

	// The project is invisible under the other workspace.
	resp, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/v1/workspaces/%s/projects/%s", second.ID, project.ID), aliceToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/v1/workspaces/%s/projects/%s", first.ID, project.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := ts.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"status":"ok"`)

	resp, _ = ts.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
