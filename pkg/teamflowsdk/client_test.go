package teamflowsdk

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	tfhttp "github.com/teamflowhq/teamflow/internal/http"
	"github.com/teamflowhq/teamflow/internal/service"
	"github.com/teamflowhq/teamflow/internal/store/drivers/sqlite"
	"github.com/teamflowhq/teamflow/pkg/cryptox"
	"github.com/teamflowhq/teamflow/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "teamflow-sdk-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type sdkTestNotifier struct {
	verificationTokens map[string]string
	inviteTokens       map[string]string
}

func (n *sdkTestNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	n.verificationTokens[email] = token
	return nil
}

func (n *sdkTestNotifier) SendWorkspaceInvite(ctx context.Context, email, workspaceID, workspaceName, token string, expiresAt time.Time) error {
	n.inviteTokens[email] = token
	return nil
}

// newTestDeployment stands up a full in-process service and returns a Client
// pointed at it.
func newTestDeployment(t *testing.T) (*Client, *sdkTestNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(secret, "test-issuer")

	notifier := &sdkTestNotifier{
		verificationTokens: make(map[string]string),
		inviteTokens:       make(map[string]string),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := tfhttp.NewRouter(verifier, "test", st, logger)
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

	return NewClient(srv.URL + "/"), notifier
}

// signUp runs register, verify and login through the SDK itself.
func signUp(t *testing.T, client *Client, notifier *sdkTestNotifier, username, email, password string) *Session {
	t.Helper()
	ctx := context.Background()

	user, err := client.Register(ctx, username, email, password)
	require.NoError(t, err)
	require.Equal(t, "PENDING", user.Status)

	require.NoError(t, client.VerifyEmail(ctx, notifier.verificationTokens[email]))

	session, err := client.Login(ctx, email, password)
	require.NoError(t, err)
	return session
}

func TestClientAuthFlow(t *testing.T) {
	client, notifier := newTestDeployment(t)
	ctx := context.Background()

	session := signUp(t, client, notifier, "alice", "alice@example.com", "s3cret-pass")

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "ACTIVE", me.Status)
	require.NotNil(t, me.EmailVerifiedAt)

	// A session rebuilt from the stored token works the same.
	rebuilt := client.NewSessionFromToken(session.AccessToken())
	me2, err := rebuilt.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, me.ID, me2.ID)
}

func TestClientErrorTyping(t *testing.T) {
	client, notifier := newTestDeployment(t)
	ctx := context.Background()

	signUp(t, client, notifier, "alice", "alice@example.com", "s3cret-pass")

	_, err := client.Login(ctx, "alice@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials.", apiErr.Message)

	// Registering the same email again conflicts.
	_, err = client.Register(ctx, "alice2", "alice@example.com", "s3cret-pass")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	// Anonymous sessions are rejected.
	anon := client.NewSessionFromToken("garbage")
	_, err = anon.Me(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestSessionWorkspaceLifecycle(t *testing.T) {
	client, notifier := newTestDeployment(t)
	ctx := context.Background()

	alice := signUp(t, client, notifier, "alice", "alice@example.com", "pw-alice-1")
	bob := signUp(t, client, notifier, "bob", "bob@example.com", "pw-bob-1")

	ws, err := alice.CreateWorkspace(ctx, "Design Team")
	require.NoError(t, err)
	require.Equal(t, "ACTIVE", ws.Status)

	// Membership boundary: Bob cannot see the workspace at all.
	_, err = bob.GetWorkspace(ctx, ws.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	invite, err := alice.InviteToWorkspace(ctx, ws.ID, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, "PENDING", invite.Status)

	member, err := bob.AcceptInvite(ctx, notifier.inviteTokens["bob@example.com"])
	require.NoError(t, err)
	require.Equal(t, "MEMBER", member.Role)

	members, err := bob.ListMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "OWNER", members[0].Role)

	// Members cannot rename, owners can.
	_, err = bob.RenameWorkspace(ctx, ws.ID, "Bob Team")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	renamed, err := alice.RenameWorkspace(ctx, ws.ID, "Product Team")
	require.NoError(t, err)
	require.Equal(t, "Product Team", renamed.Name)

	closed, err := alice.CloseWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Equal(t, "CLOSED", closed.Status)

	listed, err := alice.ListWorkspaces(ctx, "CLOSED")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	restored, err := alice.RestoreWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Equal(t, "ACTIVE", restored.Status)

	// The last owner may not walk away.
	err = alice.LeaveWorkspace(ctx, ws.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	require.NoError(t, alice.PromoteMember(ctx, ws.ID, member.UserID))
	require.NoError(t, alice.LeaveWorkspace(ctx, ws.ID))

	// Self-removal goes through the leave endpoint, not member removal.
	err = bob.RemoveMember(ctx, ws.ID, member.UserID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestSessionProjects(t *testing.T) {
	client, notifier := newTestDeployment(t)
	ctx := context.Background()

	alice := signUp(t, client, notifier, "alice", "alice@example.com", "pw-alice-1")

	ws, err := alice.CreateWorkspace(ctx, "Engineering")
	require.NoError(t, err)

	project, err := alice.CreateProject(ctx, ws.ID, "Website")
	require.NoError(t, err)
	require.Equal(t, ws.ID, project.WorkspaceID)

	projects, err := alice.ListProjects(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	renamed, err := alice.RenameProject(ctx, ws.ID, project.ID, "Marketing Site")
	require.NoError(t, err)
	require.Equal(t, "Marketing Site", renamed.Name)

	fetched, err := alice.GetProject(ctx, ws.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, "Marketing Site", fetched.Name)

	require.NoError(t, alice.DeleteProject(ctx, ws.ID, project.ID))

	_, err = alice.GetProject(ctx, ws.ID, project.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
